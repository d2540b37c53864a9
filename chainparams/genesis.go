package chainparams

import (
	"sync"

	"github.com/holiman/uint256"
	"github.com/nereidnetwork/nereidd/domain/consensus/model/externalapi"
	"github.com/nereidnetwork/nereidd/domain/consensus/utils/hashes"
	"github.com/nereidnetwork/nereidd/domain/consensus/utils/mutatorset"
	"github.com/nereidnetwork/nereidd/domain/consensus/utils/serialization"
	"github.com/pkg/errors"
)

var (
	genesisOnce   sync.Once
	genesisBlocks map[string]*externalapi.Block
)

// GenesisBlock returns the network's genesis block. The block is
// constructed deterministically from the network parameters, so its digest
// is a stable constant for a fixed network.
func (p *Params) GenesisBlock() *externalapi.Block {
	genesisOnce.Do(func() {
		genesisBlocks = map[string]*externalapi.Block{
			MainnetParams.Name: buildGenesisBlock(&MainnetParams),
			TestnetParams.Name: buildGenesisBlock(&TestnetParams),
			SimnetParams.Name:  buildGenesisBlock(&SimnetParams),
		}
	})
	block, ok := genesisBlocks[p.Name]
	if !ok {
		// Non-registered parameter sets (tests) build their own.
		return buildGenesisBlock(p)
	}
	return block
}

func buildGenesisBlock(p *Params) *externalapi.Block {
	emptyAccumulator := mutatorset.New()

	premineShare := p.Premine / externalapi.Amount(p.PremineOutputs)
	outputs := make([]externalapi.AdditionRecord, p.PremineOutputs)
	for i := range outputs {
		outputs[i] = externalapi.NewAdditionRecord(
			premineItemDigest(p.Name, uint64(i), premineShare),
			externalapi.Digest{}, externalapi.Digest{})
	}

	coinbase := p.Premine
	kernel := externalapi.TransactionKernel{
		Outputs:        outputs,
		Coinbase:       &coinbase,
		Timestamp:      p.GenesisTimestamp,
		MutatorSetHash: emptyAccumulator.Hash(),
	}

	accumulatorAfter := emptyAccumulator.Clone()
	for _, output := range outputs {
		accumulatorAfter.Add(output)
	}

	body := &externalapi.BlockBody{
		TransactionKernel:     kernel,
		MutatorSetAccumulator: accumulatorAfter,
		BlockMMR:              externalapi.NewMMRAccumulator(),
		LockFreeMMR:           externalapi.NewMMRAccumulator(),
	}

	header := externalapi.BlockHeader{
		Version:         0,
		Height:          0,
		PrevBlockDigest: externalapi.Digest{},
		Timestamp:       p.GenesisTimestamp,
		Nonce:           0,
		Difficulty:      p.GenesisDifficulty,
		CumulativeWork:  *uint256.NewInt(0),
		GuesserDigest:   externalapi.Digest{},
	}

	return externalapi.NewBlock(header, body, externalapi.BlockAppendix{},
		externalapi.BlockProof{Tier: externalapi.BlockProofTierSingleProof})
}

func premineItemDigest(networkName string, index uint64, amount externalapi.Amount) externalapi.Digest {
	writer := hashes.NewHashWriter(hashes.UtxoDomain)
	if _, err := writer.Write([]byte(networkName)); err != nil {
		panic(errors.Wrap(err, "hash writers are infallible"))
	}
	if err := serialization.WriteElements(writer, index, int64(amount)); err != nil {
		panic(errors.Wrap(err, "hash writers are infallible"))
	}
	sum := writer.Finalize()
	return externalapi.NewDigestFromByteArray(&sum)
}
