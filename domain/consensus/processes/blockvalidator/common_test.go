package blockvalidator

import (
	"context"
	"testing"

	"github.com/holiman/uint256"

	"github.com/nereidnetwork/nereidd/chainparams"
	"github.com/nereidnetwork/nereidd/domain/consensus/model/externalapi"
	"github.com/nereidnetwork/nereidd/domain/consensus/processes/coinbasemanager"
	"github.com/nereidnetwork/nereidd/domain/consensus/processes/difficultymanager"
)

// fixedVerifier is a BlockProofVerifier with a canned answer.
type fixedVerifier struct {
	ok  bool
	err error
}

func (v fixedVerifier) Verify(_ context.Context, _ *externalapi.BlockBody,
	_ externalapi.BlockAppendix, _ externalapi.BlockProof) (bool, error) {

	return v.ok, v.err
}

// successorOverrides lets a test perturb one aspect of an otherwise valid
// successor block. Mutations run before the block digest is computed, and
// the appendix is derived after body mutations so that appendix checks
// only fail when a test targets them directly.
type successorOverrides struct {
	inputs         []*externalapi.RemovalRecord
	outputs        []externalapi.AdditionRecord
	mutateHeader   func(*externalapi.BlockHeader)
	mutateBody     func(*externalapi.BlockBody)
	mutateAppendix func(*externalapi.BlockAppendix)
	mutateProof    func(*externalapi.BlockProof)
}

// buildSuccessor constructs a block that validly extends predecessor at
// the given timestamp, then applies the overrides.
func buildSuccessor(t *testing.T, params *chainparams.Params, predecessor *externalapi.Block,
	timestamp externalapi.Timestamp, overrides successorOverrides) *externalapi.Block {

	t.Helper()
	coinbaseManager := coinbasemanager.New(params)

	accumulator := predecessor.Body().MutatorSetAccumulator.Clone()
	for _, record := range coinbaseManager.GuesserFeeAdditionRecords(predecessor) {
		accumulator.Add(record)
	}
	preUpdateHash := accumulator.Hash()

	update := &externalapi.MutatorSetUpdate{
		Removals:  overrides.inputs,
		Additions: overrides.outputs,
	}
	if err := accumulator.Apply(update); err != nil {
		t.Fatalf("buildSuccessor: applying the update to the predecessor state: %+v", err)
	}

	height := predecessor.Height() + 1
	subsidy := coinbaseManager.BlockSubsidy(height)
	body := &externalapi.BlockBody{
		TransactionKernel: externalapi.TransactionKernel{
			Inputs:         overrides.inputs,
			Outputs:        overrides.outputs,
			Coinbase:       &subsidy,
			Timestamp:      timestamp,
			MutatorSetHash: preUpdateHash,
		},
		MutatorSetAccumulator: accumulator,
		BlockMMR:              predecessor.Body().BlockMMR.WithAppended(predecessor.Digest()),
		LockFreeMMR:           predecessor.Body().LockFreeMMR,
	}
	if overrides.mutateBody != nil {
		overrides.mutateBody(body)
	}

	predecessorHeader := predecessor.Header()
	var work uint256.Int
	work.Add(&predecessorHeader.CumulativeWork, &predecessorHeader.Difficulty)
	header := externalapi.BlockHeader{
		Version:         predecessorHeader.Version,
		Height:          height,
		PrevBlockDigest: predecessor.Digest(),
		Timestamp:       timestamp,
		Difficulty: difficultymanager.RequiredDifficulty(
			timestamp, predecessorHeader.Timestamp, &predecessorHeader.Difficulty,
			params.TargetBlockInterval, predecessorHeader.Height),
		CumulativeWork: work,
	}
	if overrides.mutateHeader != nil {
		overrides.mutateHeader(&header)
	}

	appendix := AppendixForBody(body)
	if overrides.mutateAppendix != nil {
		overrides.mutateAppendix(&appendix)
	}

	proof := externalapi.BlockProof{Tier: externalapi.BlockProofTierSingleProof, Data: []byte{0x01}}
	if overrides.mutateProof != nil {
		overrides.mutateProof(&proof)
	}

	return externalapi.NewBlock(header, body, appendix, proof)
}

// removalRecordAt returns a removal record whose absolute indices are the
// consecutive run starting at first.
func removalRecordAt(first uint64) *externalapi.RemovalRecord {
	var indices externalapi.AbsoluteIndexSet
	for i := range indices {
		indices[i] = first + uint64(i)
	}
	return &externalapi.RemovalRecord{AbsoluteIndices: indices}
}

func additionRecordNumbered(n byte) externalapi.AdditionRecord {
	item := externalapi.NewDigestFromByteArray(&[externalapi.DigestSize]byte{n})
	return externalapi.NewAdditionRecord(item, externalapi.Digest{}, externalapi.Digest{})
}
