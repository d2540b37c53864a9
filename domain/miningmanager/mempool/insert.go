package mempool

import (
	"github.com/nereidnetwork/nereidd/domain/consensus/model/externalapi"
	"github.com/nereidnetwork/nereidd/domain/miningmanager/mempool/model"
)

// Insert offers a transaction to the mempool. Admission is advisory:
// a rejected or redundant transaction degrades to an empty event list,
// never an error, so a caller's larger workflow cannot be aborted by it.
//
// A candidate conflicts with every resident transaction it shares at
// least one absolute removal index with (a double spend of the same
// output). Conflicts are resolved by proof-tier precedence first and fee
// density second: a higher-tier candidate displaces all its lower-tier
// conflicts regardless of fees, while a same-tier candidate must strictly
// out-bid the cheapest conflict.
func (mp *Mempool) Insert(transaction *externalapi.Transaction, origin model.TransactionOrigin) []model.MempoolEvent {
	transactionID := transaction.ID()
	conflicts := mp.conflictingTransactions(transaction)

	for _, conflict := range conflicts {
		if conflict.Transaction.Equal(transaction) {
			return nil
		}
	}

	if !mp.beatsAllConflictsByTier(transaction, conflicts) && len(conflicts) > 0 {
		minConflictFeeDensity := conflicts[0].FeeDensity()
		for _, conflict := range conflicts[1:] {
			if conflict.FeeDensity().Cmp(minConflictFeeDensity) < 0 {
				minConflictFeeDensity = conflict.FeeDensity()
			}
		}
		candidateFeeDensity := model.NewFeeDensity(transaction.Kernel.Fee, transaction.EncodedSize())
		if candidateFeeDensity.Cmp(minConflictFeeDensity) <= 0 {
			log.Debugf("Rejecting transaction %s: fee density %s does not exceed cheapest conflict (%s)",
				transactionID, candidateFeeDensity, minConflictFeeDensity)
			return nil
		}
	}

	var events []model.MempoolEvent
	replacedSelf := false
	for _, conflict := range conflicts {
		mp.removeMempoolTransaction(conflict)
		if conflict.ID().Equal(transactionID) {
			// The same logical transaction with a refreshed proof:
			// report it as an in-place update rather than a
			// removal/addition pair.
			replacedSelf = true
			continue
		}
		events = append(events, model.MempoolEvent{Type: model.EventRemoveTx, Transaction: conflict.Transaction})
	}

	mempoolTransaction := &model.MempoolTransaction{Transaction: transaction, Origin: origin}
	mp.addMempoolTransaction(mempoolTransaction)
	if replacedSelf {
		events = append(events, model.MempoolEvent{Type: model.EventUpdateTxMutatorSet, Transaction: transaction})
	} else {
		events = append(events, model.MempoolEvent{Type: model.EventAddTx, Transaction: transaction})
	}

	events = append(events, mp.shrink()...)
	return events
}

// conflictingTransactions returns the resident transactions that share at
// least one absolute removal index with the candidate.
func (mp *Mempool) conflictingTransactions(transaction *externalapi.Transaction) []*model.MempoolTransaction {
	candidateIndices := absoluteIndexUnion(transaction.Kernel.Inputs)
	var conflicts []*model.MempoolTransaction
	for _, resident := range mp.allTransactions {
		if sharesAbsoluteIndex(resident.Transaction.Kernel.Inputs, candidateIndices) {
			conflicts = append(conflicts, resident)
		}
	}
	return conflicts
}

// beatsAllConflictsByTier reports whether the candidate's proof tier
// justifies displacing every conflict regardless of fee density. A
// ProofCollection candidate beats Witness conflicts; a SingleProof
// candidate beats any non-SingleProof conflict, and also a SingleProof
// conflict with the same kernel ID, which can only be a mutator-set
// refresh of the same logical transaction.
func (mp *Mempool) beatsAllConflictsByTier(transaction *externalapi.Transaction,
	conflicts []*model.MempoolTransaction) bool {

	if len(conflicts) == 0 {
		return true
	}
	candidateTier := transaction.Proof.Tier
	transactionID := transaction.ID()

	for _, conflict := range conflicts {
		conflictTier := conflict.Transaction.Proof.Tier
		if candidateTier > conflictTier {
			continue
		}
		if candidateTier == externalapi.ProofTierSingleProof &&
			conflictTier == externalapi.ProofTierSingleProof &&
			conflict.ID().Equal(transactionID) {
			continue
		}
		return false
	}
	return true
}

// ContainsWithHigherProofQuality reports whether a resident transaction
// with the given kernel ID already carries a proof of at least the given
// tier. Callers use it to skip redundant proof upgrades.
func (mp *Mempool) ContainsWithHigherProofQuality(transactionID externalapi.Digest,
	tier externalapi.TransactionProofTier) bool {

	resident, ok := mp.allTransactions[transactionID]
	if !ok {
		return false
	}
	return resident.Transaction.Proof.Tier >= tier
}
