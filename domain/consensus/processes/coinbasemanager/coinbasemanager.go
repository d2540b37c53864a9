// Package coinbasemanager implements the block subsidy schedule and
// guesser fee accounting.
package coinbasemanager

import (
	"github.com/nereidnetwork/nereidd/chainparams"
	"github.com/nereidnetwork/nereidd/domain/consensus/model/externalapi"
)

type coinbaseManager struct {
	params *chainparams.Params
}

// CoinbaseManager exposes the subsidy schedule and the guesser fee
// derivation for one network.
type CoinbaseManager interface {
	BlockSubsidy(height externalapi.BlockHeight) externalapi.Amount
	GuesserFeeUtxos(block *externalapi.Block) []externalapi.Utxo
	GuesserFeeAdditionRecords(block *externalapi.Block) []externalapi.AdditionRecord
	MutatorSetUpdateForBlock(block *externalapi.Block) *externalapi.MutatorSetUpdate
}

// New instantiates a new CoinbaseManager.
func New(params *chainparams.Params) CoinbaseManager {
	return &coinbaseManager{params: params}
}

// BlockSubsidy returns the maximum coinbase amount a block at the given
// height may declare. The subsidy halves every SubsidyHalvingInterval
// blocks and saturates at zero once shifted out.
func (c *coinbaseManager) BlockSubsidy(height externalapi.BlockHeight) externalapi.Amount {
	halvings := uint64(height) / c.params.SubsidyHalvingInterval
	if halvings >= 63 {
		return 0
	}
	return c.params.InitialSubsidy >> halvings
}

// GuesserFeeUtxos derives the two UTXOs that pay the block's guesser: the
// transaction fee split in half, one half liquid, one half time-locked for
// the vesting period. Both are locked to the guesser digest declared in
// the header, which the guesser set before winning the proof-of-work race.
func (c *coinbaseManager) GuesserFeeUtxos(block *externalapi.Block) []externalapi.Utxo {
	header := block.Header()
	lockedHalf, liquidHalf := block.Body().TransactionKernel.Fee.Half()

	return []externalapi.Utxo{
		{
			LockScriptHash: header.GuesserDigest,
			Amount:         lockedHalf,
			ReleaseDate:    header.Timestamp.Add(c.params.GuesserFeeVestingPeriod),
		},
		{
			LockScriptHash: header.GuesserDigest,
			Amount:         liquidHalf,
		},
	}
}

// GuesserFeeAdditionRecords commits the guesser fee UTXOs into the mutator
// set. The block's own digest serves as sender randomness: it only exists
// once the proof-of-work race is won, so by construction no proof of these
// UTXOs can predate the block.
func (c *coinbaseManager) GuesserFeeAdditionRecords(block *externalapi.Block) []externalapi.AdditionRecord {
	utxos := c.GuesserFeeUtxos(block)
	header := block.Header()

	records := make([]externalapi.AdditionRecord, len(utxos))
	for i := range utxos {
		records[i] = externalapi.NewAdditionRecord(
			utxos[i].Digest(), block.Digest(), header.GuesserDigest)
	}
	return records
}

// MutatorSetUpdateForBlock is the full set of accumulator changes the
// block causes: the block transaction's inputs and outputs plus the
// derived guesser fee addition records. Downstream consumers (archival
// replay, mempool synchronization) use it to compute the accumulator
// state after the block.
func (c *coinbaseManager) MutatorSetUpdateForBlock(block *externalapi.Block) *externalapi.MutatorSetUpdate {
	kernel := &block.Body().TransactionKernel

	additions := make([]externalapi.AdditionRecord, 0,
		len(kernel.Outputs)+2)
	additions = append(additions, kernel.Outputs...)
	additions = append(additions, c.GuesserFeeAdditionRecords(block)...)

	return &externalapi.MutatorSetUpdate{
		Removals:  kernel.Inputs,
		Additions: additions,
	}
}
