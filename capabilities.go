package main

import (
	"context"

	"github.com/pkg/errors"

	"github.com/nereidnetwork/nereidd/domain/consensus/model/externalapi"
	"github.com/nereidnetwork/nereidd/domain/miningmanager/mempool/model"
)

// proofUpdater regenerates a transaction's proof against the accumulator
// state described by an update job. Proof generation is an external
// capability; this daemon only schedules it.
type proofUpdater interface {
	UpdateProof(job *model.UpdateMutatorSetDataJob) (*externalapi.Transaction, error)
}

// noProofUpdater is the proving-disabled default. Every job fails, so
// after a tip change transactions simply age out of the mempool instead
// of being refreshed.
//
// TODO: replace with a client for the external prover process once its
// invocation contract is settled.
type noProofUpdater struct{}

func (noProofUpdater) UpdateProof(job *model.UpdateMutatorSetDataJob) (*externalapi.Transaction, error) {
	return nil, errors.New("no transaction prover is available")
}

// structuralProofVerifier gates blocks on the structural well-formedness
// of their proof. Cryptographic STARK verification is an external
// capability invoked through the same interface.
//
// TODO: replace with a client for the external verifier process once its
// invocation contract is settled.
type structuralProofVerifier struct{}

func (structuralProofVerifier) Verify(ctx context.Context, body *externalapi.BlockBody,
	appendix externalapi.BlockAppendix, proof externalapi.BlockProof) (bool, error) {

	if err := ctx.Err(); err != nil {
		return false, err
	}
	if len(proof.Data) == 0 {
		return false, nil
	}
	return true, nil
}
