package mempool

import (
	"github.com/nereidnetwork/nereidd/domain/consensus/model/externalapi"
	"github.com/nereidnetwork/nereidd/domain/miningmanager/mempool/model"
)

// UpdateWithBlockAndPredecessor resynchronizes the mempool after a new
// block became tip. Transactions the block confirmed or double-spent are
// evicted; transactions that survive but can no longer be proven against
// the new accumulator state are either evicted or, for SingleProof
// transactions on a SingleProof-capable node, kept with a returned
// UpdateMutatorSetDataJob describing the proof refresh to run elsewhere.
//
// If the mempool's recorded tip is not the new block's predecessor, a
// reorganization happened and the mempool is cleared wholesale. Rolling
// removal-record proofs back across branches is not attempted; this is a
// known simplification, not an oversight.
func (mp *Mempool) UpdateWithBlockAndPredecessor(newBlock, predecessor *externalapi.Block,
	provingCapability model.TxProvingCapability, composing bool) ([]model.MempoolEvent, []*model.UpdateMutatorSetDataJob) {

	newTip := newBlock.Digest()

	if len(mp.allTransactions) == 0 {
		mp.tip = newTip
		return nil, nil
	}

	if !mp.tip.Equal(predecessor.Digest()) {
		log.Warnf("Mempool tip %s is not the new block's predecessor %s; "+
			"assuming reorganization and clearing the mempool", mp.tip, predecessor.Digest())
		events := mp.Clear()
		mp.tip = newTip
		return events, nil
	}

	// Everything the new block spent. A resident transaction is
	// confirmed or double-spent exactly when one of its inputs is wholly
	// contained in this union.
	spentIndices := absoluteIndexUnion(newBlock.Body().TransactionKernel.Inputs)

	var events []model.MempoolEvent
	var toEvict []*model.MempoolTransaction
	var toUpdate []*model.MempoolTransaction

	for _, resident := range mp.allTransactions {
		if spendsFrom(resident.Transaction.Kernel.Inputs, spentIndices) {
			toEvict = append(toEvict, resident)
			continue
		}
		if !resident.Origin.IsOwn() && !composing {
			toEvict = append(toEvict, resident)
			continue
		}
		if len(resident.Transaction.Kernel.Inputs) == 0 {
			// Nothing to re-target the proof against.
			toEvict = append(toEvict, resident)
			continue
		}
		if !provingCapability.CanUpdate(resident.Transaction.Proof.Tier) {
			toEvict = append(toEvict, resident)
			continue
		}
		toUpdate = append(toUpdate, resident)
	}

	for _, mempoolTransaction := range toEvict {
		mp.removeMempoolTransaction(mempoolTransaction)
		events = append(events, model.MempoolEvent{
			Type:        model.EventRemoveTx,
			Transaction: mempoolTransaction.Transaction,
		})
	}

	var updateJobs []*model.UpdateMutatorSetDataJob
	if len(toUpdate) > 0 {
		previousAccumulator := mp.predecessorPostBlockAccumulator(predecessor)
		update := mp.coinbaseManager.MutatorSetUpdateForBlock(newBlock)
		for _, mempoolTransaction := range toUpdate {
			proof := mempoolTransaction.Transaction.Proof
			updateJobs = append(updateJobs, &model.UpdateMutatorSetDataJob{
				Kernel:              &mempoolTransaction.Transaction.Kernel,
				OldProof:            &proof,
				PreviousAccumulator: previousAccumulator.Clone(),
				Update:              *update,
				Origin:              mempoolTransaction.Origin,
			})
		}
	}

	events = append(events, mp.shrink()...)
	mp.tip = newTip

	log.Debugf("Mempool synced to tip %s: %d evicted, %d update jobs, %d resident",
		newTip, len(toEvict), len(updateJobs), len(mp.allTransactions))
	return events, updateJobs
}

// predecessorPostBlockAccumulator computes the mutator set state after
// the predecessor block, which is the state the surviving transactions
// are currently valid against: the accumulator the predecessor declares
// plus its own guesser-fee addition records.
func (mp *Mempool) predecessorPostBlockAccumulator(
	predecessor *externalapi.Block) externalapi.MutatorSetAccumulator {

	accumulator := predecessor.Body().MutatorSetAccumulator.Clone()
	for _, additionRecord := range mp.coinbaseManager.GuesserFeeAdditionRecords(predecessor) {
		accumulator.Add(additionRecord)
	}
	return accumulator
}

// spendsFrom reports whether any input's full absolute index set is
// contained in the given spent-index union.
func spendsFrom(inputs []*externalapi.RemovalRecord, spentIndices map[uint64]struct{}) bool {
	for _, removalRecord := range inputs {
		allSpent := true
		for _, index := range removalRecord.AbsoluteIndices {
			if _, ok := spentIndices[index]; !ok {
				allSpent = false
				break
			}
		}
		if allSpent {
			return true
		}
	}
	return false
}
