// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chainparams

import (
	"math"
	"time"

	"github.com/holiman/uint256"
	"github.com/nereidnetwork/nereidd/domain/consensus/model/externalapi"
)

// FutureDatingLimit is how far ahead of local time a block timestamp may
// claim to be before the block is rejected. It is the same on every
// network.
const FutureDatingLimit = 5 * time.Minute

// Params defines a nereid network by its parameters. These parameters may
// be used by applications to differentiate networks as well as keys for
// one network from those intended for use on another network.
type Params struct {
	// Name defines a human-readable identifier for the network.
	Name string

	// GenesisDifficulty is the difficulty of the first non-genesis block,
	// and the value difficulty is reset to when the network's difficulty
	// reset condition holds.
	GenesisDifficulty uint256.Int

	// GenesisTimestamp is the timestamp of the genesis block.
	GenesisTimestamp externalapi.Timestamp

	// TargetBlockInterval is the desired amount of time between blocks.
	TargetBlockInterval time.Duration

	// MinimumBlockTime is the least amount of time a block's timestamp
	// must follow its predecessor's by.
	MinimumBlockTime time.Duration

	// DifficultyResetInterval, when non-zero, reenables mining on a
	// stalled network by resetting difficulty to GenesisDifficulty
	// whenever more than this much time elapsed since the last block.
	// Only low-stakes test networks set it.
	DifficultyResetInterval time.Duration

	// AdvanceCorrectionWait is the number of target intervals that must
	// elapse without a block before the proof-of-work target starts
	// easing by power-of-two steps.
	AdvanceCorrectionWait uint64

	// AdvanceCorrectionMaxShift caps how many power-of-two steps the
	// effective difficulty may be shifted down.
	AdvanceCorrectionMaxShift uint64

	// MaxBlockSize is the ceiling on a block's encoded size in bytes
	// until HardFork1Height, MaxBlockSizeAfterHF1 from then on.
	MaxBlockSize         int
	MaxBlockSizeAfterHF1 int

	// HardFork1Height is the height at which hard fork 1 activates.
	HardFork1Height externalapi.BlockHeight

	// MaxNumInputs, MaxNumOutputs and MaxNumPublicAnnouncements bound the
	// block transaction after hard fork 1, to keep the cost of full node
	// operation bounded.
	MaxNumInputs              int
	MaxNumOutputs             int
	MaxNumPublicAnnouncements int

	// MaxAppendixClaims is the maximum number of claims in a block
	// appendix.
	MaxAppendixClaims int

	// SubsidyHalvingInterval is the number of blocks between block
	// subsidy halvings.
	SubsidyHalvingInterval uint64

	// InitialSubsidy is the block subsidy before the first halving.
	InitialSubsidy externalapi.Amount

	// GuesserFeeVestingPeriod is how long the time-locked half of the
	// guesser fee remains locked.
	GuesserFeeVestingPeriod time.Duration

	// Premine is the coinbase amount of the genesis block.
	Premine externalapi.Amount

	// PremineOutputs is the number of deterministic premine outputs
	// committed by the genesis block.
	PremineOutputs int
}

// MaxBlockSizeAt returns the encoded-size ceiling that applies at the
// given height.
func (p *Params) MaxBlockSizeAt(height externalapi.BlockHeight) int {
	if height >= p.HardFork1Height {
		return p.MaxBlockSizeAfterHF1
	}
	return p.MaxBlockSize
}

// IsHardFork1Active returns whether hard fork 1 rules apply at the given
// height.
func (p *Params) IsHardFork1Active(height externalapi.BlockHeight) bool {
	return height >= p.HardFork1Height
}

// MainnetParams defines the network parameters for the main network.
var MainnetParams = Params{
	Name:                      "nereid-mainnet",
	GenesisDifficulty:         *uint256.NewInt(1_000_000),
	GenesisTimestamp:          externalapi.Timestamp(1717200000000), // 2024-06-01 00:00:00 UTC
	TargetBlockInterval:       588 * time.Second,
	MinimumBlockTime:          60 * time.Second,
	DifficultyResetInterval:   0,
	AdvanceCorrectionWait:     128,
	AdvanceCorrectionMaxShift: 96,
	MaxBlockSize:              8_000_000,
	MaxBlockSizeAfterHF1:      4_000_000,
	HardFork1Height:           6_000,
	MaxNumInputs:              128,
	MaxNumOutputs:             128,
	MaxNumPublicAnnouncements: 16,
	MaxAppendixClaims:         500,
	SubsidyHalvingInterval:    160_815,
	InitialSubsidy:            64 * externalapi.MotesPerNereid,
	GuesserFeeVestingPeriod:   3 * 365 * 24 * time.Hour,
	Premine:                   831_600 * externalapi.MotesPerNereid,
	PremineOutputs:            12,
}

// TestnetParams defines the network parameters for the test network.
var TestnetParams = Params{
	Name:                      "nereid-testnet",
	GenesisDifficulty:         *uint256.NewInt(1_000),
	GenesisTimestamp:          externalapi.Timestamp(1717200000000),
	TargetBlockInterval:       120 * time.Second,
	MinimumBlockTime:          10 * time.Second,
	DifficultyResetInterval:   40 * 120 * time.Second,
	AdvanceCorrectionWait:     128,
	AdvanceCorrectionMaxShift: 96,
	MaxBlockSize:              8_000_000,
	MaxBlockSizeAfterHF1:      4_000_000,
	HardFork1Height:           0,
	MaxNumInputs:              128,
	MaxNumOutputs:             128,
	MaxNumPublicAnnouncements: 16,
	MaxAppendixClaims:         500,
	SubsidyHalvingInterval:    160_815,
	InitialSubsidy:            64 * externalapi.MotesPerNereid,
	GuesserFeeVestingPeriod:   3 * 365 * 24 * time.Hour,
	Premine:                   831_600 * externalapi.MotesPerNereid,
	PremineOutputs:            12,
}

// SimnetParams defines the network parameters for the simulation test
// network. It exists to run fast, fully local integration tests: blocks
// may follow each other immediately and difficulty resets aggressively.
var SimnetParams = Params{
	Name:                      "nereid-simnet",
	GenesisDifficulty:         *uint256.NewInt(2),
	GenesisTimestamp:          externalapi.Timestamp(1717200000000),
	TargetBlockInterval:       time.Second,
	MinimumBlockTime:          time.Millisecond,
	DifficultyResetInterval:   10 * time.Second,
	AdvanceCorrectionWait:     16,
	AdvanceCorrectionMaxShift: 96,
	MaxBlockSize:              8_000_000,
	MaxBlockSizeAfterHF1:      4_000_000,
	HardFork1Height:           0,
	MaxNumInputs:              128,
	MaxNumOutputs:             128,
	MaxNumPublicAnnouncements: 16,
	MaxAppendixClaims:         500,
	SubsidyHalvingInterval:    math.MaxUint64,
	InitialSubsidy:            64 * externalapi.MotesPerNereid,
	GuesserFeeVestingPeriod:   time.Hour,
	Premine:                   831_600 * externalapi.MotesPerNereid,
	PremineOutputs:            12,
}
