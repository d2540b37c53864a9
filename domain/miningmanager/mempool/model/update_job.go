package model

import (
	"github.com/nereidnetwork/nereidd/domain/consensus/model/externalapi"
)

// UpdateMutatorSetDataJob describes the work needed to re-target a
// transaction's removal records at the accumulator state after a new
// block. Producing the new proof can take minutes, so the mempool never
// performs it inline: it hands this description to an external job
// executor and keeps serving requests. A result that arrives after the
// tip has moved again is stale and must be discarded by the caller.
type UpdateMutatorSetDataJob struct {
	// Kernel is the transaction kernel as it was when the job was
	// created.
	Kernel *externalapi.TransactionKernel
	// OldProof is the transaction's current single proof, the starting
	// point for the proof update.
	OldProof *externalapi.TransactionProof
	// PreviousAccumulator is the mutator set state the transaction is
	// currently valid against.
	PreviousAccumulator externalapi.MutatorSetAccumulator
	// Update carries the removals and additions the new block applied,
	// including its guesser-fee addition records.
	Update externalapi.MutatorSetUpdate
	// Origin is carried over so the refreshed transaction re-enters the
	// mempool with the same provenance it had.
	Origin TransactionOrigin
}
