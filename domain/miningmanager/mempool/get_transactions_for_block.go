package mempool

import (
	"github.com/nereidnetwork/nereidd/domain/consensus/model/externalapi"
)

// GetTransactionsForBlock selects transactions for inclusion in the next
// block: a greedy descent of the fee-density order that skips stale
// transactions (declared mutator set hash differs from the expected one),
// transactions below SingleProof when the composer demands succinct
// proofs only, and transactions that would overflow the remaining byte
// budget. Selection stops once either budget is exhausted.
//
// Greedy selection is not globally optimal: fee density is not
// sub-additive, so a cheaper pair can out-earn the single densest
// transaction that crowds it out. Optimality is not a goal here.
func (mp *Mempool) GetTransactionsForBlock(byteBudget int, countBudget int,
	singleProofOnly bool, expectedMutatorSetHash externalapi.Digest) []*externalapi.Transaction {

	selected := []*externalapi.Transaction{}
	remainingBytes := byteBudget

	for _, mempoolTransaction := range mp.transactionsByFeeDensity.Descending() {
		if len(selected) >= countBudget || remainingBytes <= 0 {
			break
		}
		transaction := mempoolTransaction.Transaction
		if !transaction.Kernel.MutatorSetHash.Equal(expectedMutatorSetHash) {
			continue
		}
		if singleProofOnly && transaction.Proof.Tier < externalapi.ProofTierSingleProof {
			continue
		}
		size := transaction.EncodedSize()
		if size > remainingBytes {
			continue
		}
		selected = append(selected, transaction)
		remainingBytes -= size
	}

	return selected
}
