package blockvalidator

import (
	"github.com/holiman/uint256"
	"github.com/nereidnetwork/nereidd/domain/consensus/model/externalapi"
	"github.com/nereidnetwork/nereidd/domain/consensus/processes/difficultymanager"
)

// HasProofOfWork compares the candidate's digest against the target
// implied by the predecessor's difficulty.
//
// The longer the network has stalled since the predecessor, the easier
// the effective target gets: after AdvanceCorrectionWait target intervals
// the difficulty starts shifting down by discrete power-of-two steps, so a
// collapse of hash power can never stall the chain permanently.
//
// On networks with a difficulty reset interval, the check is bypassed
// entirely when both sides agree the difficulty was freshly reset: enough
// time elapsed, and the candidate declares the genesis difficulty.
func (v *blockValidator) HasProofOfWork(candidate *externalapi.Block,
	predecessorHeader *externalapi.BlockHeader) bool {

	candidateHeader := candidate.Header()

	if v.difficultyWasReset(&candidateHeader, predecessorHeader) &&
		candidateHeader.Difficulty.Cmp(&v.params.GenesisDifficulty) == 0 {
		return true
	}

	elapsed := candidateHeader.Timestamp.Sub(predecessorHeader.Timestamp)
	shift := difficultymanager.AdvanceCorrectionShift(elapsed,
		v.params.TargetBlockInterval,
		v.params.AdvanceCorrectionWait, v.params.AdvanceCorrectionMaxShift)
	effective := difficultymanager.EffectiveDifficulty(&predecessorHeader.Difficulty, shift)
	target := difficultymanager.Target(&effective)

	digest := candidate.Digest().ByteArray()
	var digestValue uint256.Int
	digestValue.SetBytes(digest[:])

	return digestValue.Cmp(&target) <= 0
}
