// Package difficultymanager implements difficulty control: the pure
// function deciding the difficulty a block must declare, the conversion
// from difficulty to a proof-of-work target, and the advance difficulty
// correction that eases the target on a stalled network.
package difficultymanager

import (
	"math/bits"
	"time"

	"github.com/holiman/uint256"
	"github.com/nereidnetwork/nereidd/domain/consensus/model/externalapi"
)

// maxTarget is 2^256 - 1, the easiest possible proof-of-work target.
var maxTarget = func() uint256.Int {
	var max uint256.Int
	max.Not(&max)
	return max
}()

// retargetClamp bounds how much a single retarget may change difficulty,
// in either direction.
const retargetClamp = 4

// RequiredDifficulty returns the difficulty a block must declare given its
// timestamp, its predecessor's timestamp, difficulty and height, and the
// network's target block interval.
//
// This is a pure function: same inputs, same output, no observation of
// clocks or state. The concrete control law is a proportional retarget
// clamped to a factor of retargetClamp per block, with a floor of one.
func RequiredDifficulty(newTimestamp, prevTimestamp externalapi.Timestamp,
	prevDifficulty *uint256.Int, targetInterval time.Duration,
	prevHeight externalapi.BlockHeight) uint256.Int {

	if prevHeight == 0 {
		// The genesis timestamp carries no mining information; the first
		// block inherits the genesis difficulty unchanged.
		return *prevDifficulty
	}

	actual := newTimestamp.Sub(prevTimestamp)
	if actual <= 0 {
		actual = time.Millisecond
	}
	clampedLow := targetInterval / retargetClamp
	clampedHigh := targetInterval * retargetClamp
	if actual < clampedLow {
		actual = clampedLow
	}
	if actual > clampedHigh {
		actual = clampedHigh
	}

	// newDifficulty = prevDifficulty * targetInterval / actualInterval
	var newDifficulty uint256.Int
	newDifficulty.Mul(prevDifficulty, uint256.NewInt(uint64(targetInterval.Milliseconds())))
	newDifficulty.Div(&newDifficulty, uint256.NewInt(uint64(actual.Milliseconds())))

	if newDifficulty.IsZero() {
		newDifficulty.SetOne()
	}
	return newDifficulty
}

// AdvanceCorrectionShift returns the number of power-of-two steps by which
// the effective difficulty is shifted down, given how much time elapsed
// since the predecessor. The correction only kicks in after wait target
// intervals without a block, then doubles its effect with every further
// doubling of the elapsed time. This guards against a permanent stall if
// hash power collapses.
func AdvanceCorrectionShift(elapsed time.Duration, targetInterval time.Duration,
	wait, maxShift uint64) uint64 {

	if targetInterval <= 0 || elapsed <= 0 || wait == 0 {
		return 0
	}
	intervals := uint64(elapsed / targetInterval)
	if intervals < wait {
		return 0
	}
	shift := uint64(bits.Len64(intervals / wait))
	if shift > maxShift {
		shift = maxShift
	}
	return shift
}

// EffectiveDifficulty applies an advance correction shift to a difficulty,
// with a floor of one.
func EffectiveDifficulty(difficulty *uint256.Int, shift uint64) uint256.Int {
	var effective uint256.Int
	effective.Rsh(difficulty, uint(shift))
	if effective.IsZero() {
		effective.SetOne()
	}
	return effective
}

// Target converts a difficulty to the proof-of-work target a block digest
// must not exceed: floor((2^256 - 1) / difficulty).
func Target(difficulty *uint256.Int) uint256.Int {
	if difficulty.IsZero() {
		return maxTarget
	}
	var target uint256.Int
	target.Div(&maxTarget, difficulty)
	return target
}
