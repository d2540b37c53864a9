package ruleerrors

// These constants are used to identify a specific RuleError. There is one
// sentinel per chain-extension validation check, in check order, so a
// failing validation always maps to exactly one of them.
var (
	// ErrBlockHeight indicates the candidate's height is not the
	// predecessor's height plus one.
	ErrBlockHeight = newRuleError("ErrBlockHeight")

	// ErrPrevBlockDigest indicates the candidate's previous-block digest
	// does not match the predecessor's digest.
	ErrPrevBlockDigest = newRuleError("ErrPrevBlockDigest")

	// ErrBlockMMRUpdate indicates the candidate's block MMR is not the
	// predecessor's MMR with the predecessor's digest appended.
	ErrBlockMMRUpdate = newRuleError("ErrBlockMMRUpdate")

	// ErrMinimumBlockTime indicates the candidate's timestamp follows the
	// predecessor's by less than the network's minimum block time.
	ErrMinimumBlockTime = newRuleError("ErrMinimumBlockTime")

	// ErrDifficulty indicates the candidate's difficulty does not match
	// the value mandated by difficulty control.
	ErrDifficulty = newRuleError("ErrDifficulty")

	// ErrCumulativeProofOfWork indicates the candidate's cumulative work
	// is not the predecessor's cumulative work plus the predecessor's
	// difficulty.
	ErrCumulativeProofOfWork = newRuleError("ErrCumulativeProofOfWork")

	// ErrFutureDating indicates the candidate's timestamp is too far
	// ahead of local time.
	ErrFutureDating = newRuleError("ErrFutureDating")

	// ErrAppendixMissingClaim indicates a consensus-mandated claim is
	// absent from the block appendix.
	ErrAppendixMissingClaim = newRuleError("ErrAppendixMissingClaim")

	// ErrAppendixTooLarge indicates the block appendix exceeds the
	// maximum claim count.
	ErrAppendixTooLarge = newRuleError("ErrAppendixTooLarge")

	// ErrProofQuality indicates the block is not backed by a single
	// aggregated proof. Lower proof tiers are acceptable for
	// transactions, never for blocks.
	ErrProofQuality = newRuleError("ErrProofQuality")

	// ErrProofValidity indicates the block's proof failed verification.
	ErrProofValidity = newRuleError("ErrProofValidity")

	// ErrMaxSize indicates the encoded block exceeds the network's size
	// ceiling.
	ErrMaxSize = newRuleError("ErrMaxSize")

	// ErrRemovalRecordsValid indicates an input's removal record cannot
	// be removed from the predecessor's accumulator state, meaning it
	// does not spend a real, unspent output.
	ErrRemovalRecordsValid = newRuleError("ErrRemovalRecordsValid")

	// ErrRemovalRecordsUnique indicates two inputs spend the same output
	// within one block.
	ErrRemovalRecordsUnique = newRuleError("ErrRemovalRecordsUnique")

	// ErrMutatorSetUpdatePossible indicates the block's full mutator set
	// update cannot be applied to the predecessor's accumulator.
	ErrMutatorSetUpdatePossible = newRuleError("ErrMutatorSetUpdatePossible")

	// ErrMutatorSetUpdateIntegral indicates the accumulator hash after
	// applying the update does not match the one declared in the body.
	ErrMutatorSetUpdateIntegral = newRuleError("ErrMutatorSetUpdateIntegral")

	// ErrTransactionTimestamp indicates the block transaction is
	// timestamped after the block itself.
	ErrTransactionTimestamp = newRuleError("ErrTransactionTimestamp")

	// ErrCoinbaseTooBig indicates the declared coinbase exceeds the block
	// subsidy for this height.
	ErrCoinbaseTooBig = newRuleError("ErrCoinbaseTooBig")

	// ErrCoinbaseTooSmall indicates the declared coinbase is negative.
	ErrCoinbaseTooSmall = newRuleError("ErrCoinbaseTooSmall")

	// ErrNegativeFee indicates the declared fee is negative.
	ErrNegativeFee = newRuleError("ErrNegativeFee")

	// ErrTooManyInputs indicates the block transaction has more inputs
	// than allowed after hard fork 1.
	ErrTooManyInputs = newRuleError("ErrTooManyInputs")

	// ErrTooManyOutputs indicates the block transaction has more outputs
	// than allowed after hard fork 1.
	ErrTooManyOutputs = newRuleError("ErrTooManyOutputs")

	// ErrTooManyPublicAnnouncements indicates the block transaction has
	// more public announcements than allowed after hard fork 1.
	ErrTooManyPublicAnnouncements = newRuleError("ErrTooManyPublicAnnouncements")
)

// RuleError identifies a consensus rule violation. It is used to indicate
// that processing of a block failed due to a violation of one of the many
// validation rules. Callers check for a specific rule with errors.Is
// against the exported sentinels.
type RuleError struct {
	message string
	inner   error
}

// Error satisfies the error interface and prints human-readable errors.
func (e RuleError) Error() string {
	if e.inner != nil {
		return e.message + ": " + e.inner.Error()
	}
	return e.message
}

// Unwrap satisfies the errors.Unwrap interface.
func (e RuleError) Unwrap() error {
	return e.inner
}

// Cause satisfies the github.com/pkg/errors Cause interface.
func (e RuleError) Cause() error {
	return e.inner
}

func newRuleError(message string) RuleError {
	return RuleError{message: message, inner: nil}
}
