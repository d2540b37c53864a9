package blockvalidator

import (
	"context"

	"github.com/holiman/uint256"
	"github.com/nereidnetwork/nereidd/chainparams"
	"github.com/nereidnetwork/nereidd/domain/consensus/model/externalapi"
	"github.com/nereidnetwork/nereidd/domain/consensus/processes/difficultymanager"
	"github.com/nereidnetwork/nereidd/domain/consensus/ruleerrors"
	"github.com/nereidnetwork/nereidd/infrastructure/logger"
	"github.com/pkg/errors"
)

// ValidateChainExtension decides whether candidate may follow predecessor.
//
// The checks are ordered and short-circuiting: the first violated rule is
// returned, which keeps diagnostics reproducible. All cheap synchronous
// checks run before the single awaited proof verification so that an
// obviously bad block never pays verification cost.
func (v *blockValidator) ValidateChainExtension(ctx context.Context,
	candidate, predecessor *externalapi.Block, now externalapi.Timestamp) error {

	onEnd := logger.LogAndMeasureExecutionTime(log, "ValidateChainExtension")
	defer onEnd()

	candidateHeader := candidate.Header()
	predecessorHeader := predecessor.Header()

	// 1. Height increments by exactly one.
	if candidateHeader.Height != predecessorHeader.Height+1 {
		return errors.Wrapf(ruleerrors.ErrBlockHeight,
			"block height is %d while its predecessor's is %d",
			candidateHeader.Height, predecessorHeader.Height)
	}

	// 2. The header links to the predecessor by digest.
	if !candidateHeader.PrevBlockDigest.Equal(predecessor.Digest()) {
		return errors.Wrapf(ruleerrors.ErrPrevBlockDigest,
			"previous block digest is %s while the predecessor hashes to %s",
			candidateHeader.PrevBlockDigest, predecessor.Digest())
	}

	// 3. The chain-of-digests accumulator extends consistently. This
	// check is independent of the hash-linked header field above.
	expectedMMR := predecessor.Body().BlockMMR.WithAppended(predecessor.Digest())
	if !candidate.Body().BlockMMR.Equal(expectedMMR) {
		return errors.Wrap(ruleerrors.ErrBlockMMRUpdate,
			"block MMR does not equal the predecessor's with the predecessor's digest appended")
	}

	// 4. The minimum block time elapsed.
	earliest := predecessorHeader.Timestamp.Add(v.params.MinimumBlockTime)
	if candidateHeader.Timestamp.Before(earliest) {
		return errors.Wrapf(ruleerrors.ErrMinimumBlockTime,
			"block timestamp %d is earlier than predecessor timestamp plus the minimum block time (%d)",
			candidateHeader.Timestamp, earliest)
	}

	// 5. The declared difficulty is the mandated one: the genesis
	// difficulty if the network's difficulty reset condition holds, the
	// difficulty control output otherwise.
	expectedDifficulty := v.expectedDifficulty(&candidateHeader, &predecessorHeader)
	if candidateHeader.Difficulty.Cmp(&expectedDifficulty) != 0 {
		return errors.Wrapf(ruleerrors.ErrDifficulty,
			"block difficulty is %s while difficulty control mandates %s",
			candidateHeader.Difficulty.Dec(), expectedDifficulty.Dec())
	}

	// 6. Cumulative work accounts for the predecessor's difficulty.
	var expectedWork uint256.Int
	expectedWork.Add(&predecessorHeader.CumulativeWork, &predecessorHeader.Difficulty)
	if candidateHeader.CumulativeWork.Cmp(&expectedWork) != 0 {
		return errors.Wrapf(ruleerrors.ErrCumulativeProofOfWork,
			"cumulative proof-of-work is %s while %s is expected",
			candidateHeader.CumulativeWork.Dec(), expectedWork.Dec())
	}

	// 7. The block does not claim to originate too far in the future.
	limit := now.Add(chainparams.FutureDatingLimit)
	if !candidateHeader.Timestamp.Before(limit) {
		return errors.Wrapf(ruleerrors.ErrFutureDating,
			"block timestamp %d is more than %s ahead of now (%d)",
			candidateHeader.Timestamp, chainparams.FutureDatingLimit, now)
	}

	// 8. Every consensus-mandated claim appears in the appendix.
	appendix := candidate.Appendix()
	for _, claim := range ConsensusClaims(candidate.Body()) {
		if !appendix.ContainsClaim(claim) {
			return errors.Wrapf(ruleerrors.ErrAppendixMissingClaim,
				"consensus-mandated claim %s is missing from the block appendix", claim)
		}
	}

	// 9. The appendix stays under the claim ceiling.
	if len(appendix.Claims) > v.params.MaxAppendixClaims {
		return errors.Wrapf(ruleerrors.ErrAppendixTooLarge,
			"block appendix contains %d claims, more than the maximum of %d",
			len(appendix.Claims), v.params.MaxAppendixClaims)
	}

	// 10. Blocks are only ever valid under a single aggregated proof.
	// Lower tiers exist for transactions, never for blocks.
	if candidate.Proof().Tier != externalapi.BlockProofTierSingleProof {
		return errors.Wrapf(ruleerrors.ErrProofQuality,
			"block proof tier is %d, a single aggregated proof is required",
			candidate.Proof().Tier)
	}

	// 11. The proof verifies. This is the only suspension point of
	// validation; nothing below is cheaper than it.
	ok, err := v.proofVerifier.Verify(ctx, candidate.Body(), appendix, candidate.Proof())
	if err != nil {
		return errors.Wrapf(ruleerrors.ErrProofValidity, "proof verification failed: %s", err)
	}
	if !ok {
		return errors.Wrap(ruleerrors.ErrProofValidity, "block proof does not verify")
	}

	// 12. The encoded block fits the network's size ceiling at this
	// height.
	maxSize := v.params.MaxBlockSizeAt(candidateHeader.Height)
	if size := candidate.EncodedSize(); size > maxSize {
		return errors.Wrapf(ruleerrors.ErrMaxSize,
			"encoded block size is %d bytes, the ceiling at height %d is %d",
			size, candidateHeader.Height, maxSize)
	}

	kernel := &candidate.Body().TransactionKernel

	// The predecessor's post-block accumulator state is its declared
	// accumulator with its own guesser fee addition records applied on
	// top; those records are derived, never stored.
	accumulator := predecessor.Body().MutatorSetAccumulator.Clone()
	for _, record := range v.coinbaseManager.GuesserFeeAdditionRecords(predecessor) {
		accumulator.Add(record)
	}

	// 13. Every input spends a real, unspent output.
	for i, input := range kernel.Inputs {
		if !accumulator.CanRemove(input) {
			return errors.Wrapf(ruleerrors.ErrRemovalRecordsValid,
				"removal record %d cannot be removed from the predecessor's accumulator state", i)
		}
	}

	// 14. No two inputs spend the same output.
	seen := make(map[externalapi.AbsoluteIndexSet]int, len(kernel.Inputs))
	for i, input := range kernel.Inputs {
		if j, ok := seen[input.AbsoluteIndices]; ok {
			return errors.Wrapf(ruleerrors.ErrRemovalRecordsUnique,
				"removal records %d and %d share the same absolute index set", j, i)
		}
		seen[input.AbsoluteIndices] = i
	}

	// 15. The full mutator set update applies without contradiction.
	update := &externalapi.MutatorSetUpdate{
		Removals:  kernel.Inputs,
		Additions: kernel.Outputs,
	}
	if err := accumulator.Apply(update); err != nil {
		return errors.Wrapf(ruleerrors.ErrMutatorSetUpdatePossible,
			"block's mutator set update cannot be applied: %s", err)
	}

	// 16. The resulting accumulator matches the declared one.
	if !accumulator.Hash().Equal(candidate.Body().MutatorSetAccumulator.Hash()) {
		return errors.Wrap(ruleerrors.ErrMutatorSetUpdateIntegral,
			"accumulator state after update does not match the one declared in the block body")
	}

	// 17. The block transaction is not newer than the block.
	if kernel.Timestamp.After(candidateHeader.Timestamp) {
		return errors.Wrapf(ruleerrors.ErrTransactionTimestamp,
			"transaction timestamp %d exceeds block timestamp %d",
			kernel.Timestamp, candidateHeader.Timestamp)
	}

	// 18. The declared coinbase respects the subsidy schedule.
	if kernel.Coinbase != nil {
		subsidy := v.coinbaseManager.BlockSubsidy(candidateHeader.Height)
		if *kernel.Coinbase > subsidy {
			return errors.Wrapf(ruleerrors.ErrCoinbaseTooBig,
				"declared coinbase %d exceeds the block subsidy %d at height %d",
				*kernel.Coinbase, subsidy, candidateHeader.Height)
		}
		if kernel.Coinbase.IsNegative() {
			return errors.Wrapf(ruleerrors.ErrCoinbaseTooSmall,
				"declared coinbase %d is negative", *kernel.Coinbase)
		}
	}

	// 19. Fees cannot be negative.
	if kernel.Fee.IsNegative() {
		return errors.Wrapf(ruleerrors.ErrNegativeFee,
			"declared fee %d is negative", kernel.Fee)
	}

	// 20. After hard fork 1, the block transaction is bounded, to keep
	// the cost of full node operation bounded.
	if v.params.IsHardFork1Active(candidateHeader.Height) {
		if len(kernel.Inputs) > v.params.MaxNumInputs {
			return errors.Wrapf(ruleerrors.ErrTooManyInputs,
				"block transaction has %d inputs, more than the maximum of %d",
				len(kernel.Inputs), v.params.MaxNumInputs)
		}
		if len(kernel.Outputs) > v.params.MaxNumOutputs {
			return errors.Wrapf(ruleerrors.ErrTooManyOutputs,
				"block transaction has %d outputs, more than the maximum of %d",
				len(kernel.Outputs), v.params.MaxNumOutputs)
		}
		if len(kernel.PublicAnnouncements) > v.params.MaxNumPublicAnnouncements {
			return errors.Wrapf(ruleerrors.ErrTooManyPublicAnnouncements,
				"block transaction has %d public announcements, more than the maximum of %d",
				len(kernel.PublicAnnouncements), v.params.MaxNumPublicAnnouncements)
		}
	}

	return nil
}

// expectedDifficulty returns the difficulty a candidate must declare.
func (v *blockValidator) expectedDifficulty(
	candidateHeader, predecessorHeader *externalapi.BlockHeader) uint256.Int {

	if v.difficultyWasReset(candidateHeader, predecessorHeader) {
		return v.params.GenesisDifficulty
	}
	return difficultymanager.RequiredDifficulty(
		candidateHeader.Timestamp, predecessorHeader.Timestamp,
		&predecessorHeader.Difficulty, v.params.TargetBlockInterval,
		predecessorHeader.Height)
}

// difficultyWasReset reports whether the network's difficulty reset
// condition holds between the two blocks. Mainnet never resets.
func (v *blockValidator) difficultyWasReset(
	candidateHeader, predecessorHeader *externalapi.BlockHeader) bool {

	if v.params.DifficultyResetInterval == 0 {
		return false
	}
	elapsed := candidateHeader.Timestamp.Sub(predecessorHeader.Timestamp)
	return elapsed > v.params.DifficultyResetInterval
}
