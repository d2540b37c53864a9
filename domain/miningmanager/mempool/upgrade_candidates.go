package mempool

import (
	"github.com/nereidnetwork/nereidd/domain/consensus/model/externalapi"
	"github.com/nereidnetwork/nereidd/domain/miningmanager/mempool/model"
)

// PruneStaleTransactions evicts every transaction whose kernel timestamp
// is older than the configured expiry interval relative to now. Unlike
// capacity eviction this is age-based: a transaction that failed to
// confirm for days is considered abandoned regardless of its fee.
func (mp *Mempool) PruneStaleTransactions(now externalapi.Timestamp) []model.MempoolEvent {
	cutoff := now.Add(-mp.config.TransactionExpireInterval)

	var stale []*model.MempoolTransaction
	for _, mempoolTransaction := range mp.allTransactions {
		if mempoolTransaction.Transaction.Kernel.Timestamp.Before(cutoff) {
			stale = append(stale, mempoolTransaction)
		}
	}

	events := make([]model.MempoolEvent, 0, len(stale))
	for _, mempoolTransaction := range stale {
		mp.removeMempoolTransaction(mempoolTransaction)
		log.Debugf("Pruned stale transaction %s (kernel timestamp %s)",
			mempoolTransaction.ID(), mempoolTransaction.Transaction.Kernel.Timestamp.Time())
		events = append(events, model.MempoolEvent{
			Type:        model.EventRemoveTx,
			Transaction: mempoolTransaction.Transaction,
		})
	}
	return events
}

// MostDenseProofCollection returns the most fee-dense resident
// transaction still at the ProofCollection tier and synced to the given
// mutator set state. The proof upgrader uses it to pick which proof to
// promote to SingleProof next.
func (mp *Mempool) MostDenseProofCollection(
	expectedMutatorSetHash externalapi.Digest) (*externalapi.Transaction, bool) {

	for _, mempoolTransaction := range mp.transactionsByFeeDensity.Descending() {
		transaction := mempoolTransaction.Transaction
		if transaction.Proof.Tier != externalapi.ProofTierProofCollection {
			continue
		}
		if !transaction.Kernel.MutatorSetHash.Equal(expectedMutatorSetHash) {
			continue
		}
		return transaction, true
	}
	return nil, false
}

// MostDenseSingleProofPair returns the two most fee-dense SingleProof
// transactions synced to the given mutator set state, the raw material
// for a proof merge. Transactions with the merge bit already set are
// skipped so a merged transaction is not merged again.
func (mp *Mempool) MostDenseSingleProofPair(
	expectedMutatorSetHash externalapi.Digest) (first, second *externalapi.Transaction, ok bool) {

	var pair []*externalapi.Transaction
	for _, mempoolTransaction := range mp.transactionsByFeeDensity.Descending() {
		transaction := mempoolTransaction.Transaction
		if transaction.Proof.Tier != externalapi.ProofTierSingleProof {
			continue
		}
		if transaction.Kernel.MergeBit {
			continue
		}
		if !transaction.Kernel.MutatorSetHash.Equal(expectedMutatorSetHash) {
			continue
		}
		pair = append(pair, transaction)
		if len(pair) == 2 {
			return pair[0], pair[1], true
		}
	}
	return nil, nil, false
}
