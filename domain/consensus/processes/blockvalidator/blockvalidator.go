package blockvalidator

import (
	"context"

	"github.com/nereidnetwork/nereidd/chainparams"
	"github.com/nereidnetwork/nereidd/domain/consensus/model/externalapi"
	"github.com/nereidnetwork/nereidd/domain/consensus/processes/coinbasemanager"
)

// BlockProofVerifier is the external STARK verification capability. It is
// the only asynchronous step of block validation and is injected so tests
// can substitute a mock.
type BlockProofVerifier interface {
	Verify(ctx context.Context, body *externalapi.BlockBody,
		appendix externalapi.BlockAppendix, proof externalapi.BlockProof) (bool, error)
}

// BlockValidator decides whether a candidate block legally extends a
// predecessor, and separately whether it carries sufficient proof-of-work.
// It assumes the predecessor is itself valid.
type BlockValidator interface {
	// ValidateChainExtension runs all chain-extension checks in order and
	// returns the first violated rule, or nil. Deterministic: the same
	// candidate always fails with the same error.
	ValidateChainExtension(ctx context.Context,
		candidate, predecessor *externalapi.Block, now externalapi.Timestamp) error

	// IsValid collapses ValidateChainExtension to a boolean gate, logging
	// the violated rule.
	IsValid(ctx context.Context,
		candidate, predecessor *externalapi.Block, now externalapi.Timestamp) bool

	// HasProofOfWork reports whether the candidate's digest meets the
	// target implied by the predecessor's difficulty, after advance
	// difficulty correction.
	HasProofOfWork(candidate *externalapi.Block,
		predecessorHeader *externalapi.BlockHeader) bool
}

type blockValidator struct {
	params          *chainparams.Params
	proofVerifier   BlockProofVerifier
	coinbaseManager coinbasemanager.CoinbaseManager
}

// New instantiates a new BlockValidator for the given network.
func New(params *chainparams.Params, proofVerifier BlockProofVerifier) BlockValidator {
	return &blockValidator{
		params:          params,
		proofVerifier:   proofVerifier,
		coinbaseManager: coinbasemanager.New(params),
	}
}

func (v *blockValidator) IsValid(ctx context.Context,
	candidate, predecessor *externalapi.Block, now externalapi.Timestamp) bool {

	err := v.ValidateChainExtension(ctx, candidate, predecessor, now)
	if err != nil {
		log.Warnf("Block %s does not extend %s: %s",
			candidate.Digest(), predecessor.Digest(), err)
		return false
	}
	return true
}
