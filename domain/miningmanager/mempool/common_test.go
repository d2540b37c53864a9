package mempool

import (
	"github.com/holiman/uint256"

	"github.com/nereidnetwork/nereidd/chainparams"
	"github.com/nereidnetwork/nereidd/domain/consensus/model/externalapi"
	"github.com/nereidnetwork/nereidd/domain/consensus/utils/mutatorset"
)

// testBaseTimestamp is an arbitrary fixed point in time the test
// transactions are built around.
const testBaseTimestamp = externalapi.Timestamp(1_700_000_000_000)

func newTestMempool(config *Config, tip externalapi.Digest) *Mempool {
	if config == nil {
		config = DefaultConfig()
	}
	return New(config, &chainparams.SimnetParams, tip)
}

// testTransactionOptions parameterizes buildTestTransaction. The zero
// value yields a Witness transaction with one input run starting at
// index 0, zero fee and the base timestamp.
type testTransactionOptions struct {
	tier externalapi.TransactionProofTier
	fee  externalapi.Amount

	// inputRuns lists the starting absolute index of each input's
	// consecutive index run. Runs at least NumIndexesPerRemovalRecord
	// apart never conflict.
	inputRuns []uint64

	mutatorSetHash externalapi.Digest
	timestamp      externalapi.Timestamp
	mergeBit       bool

	// paddingBytes inflates the encoded size through a public
	// announcement, for tests that exercise the byte budget.
	paddingBytes int

	// proofSalt distinguishes proofs with identical kernels, modelling a
	// refreshed proof of the same logical transaction.
	proofSalt byte
}

func buildTestTransaction(options testTransactionOptions) *externalapi.Transaction {
	if options.timestamp == 0 {
		options.timestamp = testBaseTimestamp
	}
	if options.inputRuns == nil {
		options.inputRuns = []uint64{0}
	}

	inputs := make([]*externalapi.RemovalRecord, len(options.inputRuns))
	for i, first := range options.inputRuns {
		inputs[i] = removalRecordStartingAt(first)
	}

	var announcements []externalapi.PublicAnnouncement
	if options.paddingBytes > 0 {
		announcements = []externalapi.PublicAnnouncement{
			{Message: make([]byte, options.paddingBytes)},
		}
	}

	return &externalapi.Transaction{
		Kernel: externalapi.TransactionKernel{
			Inputs:              inputs,
			PublicAnnouncements: announcements,
			Fee:                 options.fee,
			Timestamp:           options.timestamp,
			MutatorSetHash:      options.mutatorSetHash,
			MergeBit:            options.mergeBit,
		},
		Proof: externalapi.TransactionProof{
			Tier: options.tier,
			Data: []byte{byte(options.tier), options.proofSalt},
		},
	}
}

// removalRecordStartingAt returns a removal record whose absolute
// indices are the consecutive run starting at first.
func removalRecordStartingAt(first uint64) *externalapi.RemovalRecord {
	var indices externalapi.AbsoluteIndexSet
	for i := range indices {
		indices[i] = first + uint64(i)
	}
	return &externalapi.RemovalRecord{AbsoluteIndices: indices}
}

func numberedAdditionRecord(n byte) externalapi.AdditionRecord {
	item := externalapi.NewDigestFromByteArray(&[externalapi.DigestSize]byte{n})
	return externalapi.NewAdditionRecord(item, externalapi.Digest{}, externalapi.Digest{})
}

// buildTestBlock constructs a minimal block for mempool
// synchronization tests. The accumulator is a fresh empty one; the
// mempool never applies it, it only clones and hashes it.
func buildTestBlock(height externalapi.BlockHeight, prev externalapi.Digest, fee externalapi.Amount,
	inputs []*externalapi.RemovalRecord, outputs []externalapi.AdditionRecord) *externalapi.Block {

	body := &externalapi.BlockBody{
		TransactionKernel: externalapi.TransactionKernel{
			Inputs:    inputs,
			Outputs:   outputs,
			Fee:       fee,
			Timestamp: testBaseTimestamp.Add(0),
		},
		MutatorSetAccumulator: mutatorset.New(),
		BlockMMR:              externalapi.NewMMRAccumulator(),
		LockFreeMMR:           externalapi.NewMMRAccumulator(),
	}
	header := externalapi.BlockHeader{
		Height:          height,
		PrevBlockDigest: prev,
		Timestamp:       testBaseTimestamp.Add(0),
		Difficulty:      *uint256.NewInt(1),
		GuesserDigest:   externalapi.NewDigestFromByteArray(&[externalapi.DigestSize]byte{0xEE}),
	}
	return externalapi.NewBlock(header, body, externalapi.BlockAppendix{},
		externalapi.BlockProof{Tier: externalapi.BlockProofTierSingleProof, Data: []byte{0x01}})
}

// assertNoSharedIndices fails the test if any two resident transactions
// share an absolute removal index.
func assertNoSharedIndices(t testingT, mp *Mempool) {
	t.Helper()
	seen := make(map[uint64]externalapi.Digest)
	for _, resident := range mp.GetSortedIter() {
		for _, removalRecord := range resident.Transaction.Kernel.Inputs {
			for _, index := range removalRecord.AbsoluteIndices {
				if other, ok := seen[index]; ok && !other.Equal(resident.ID()) {
					t.Errorf("transactions %s and %s both remove absolute index %d",
						other, resident.ID(), index)
					return
				}
				seen[index] = resident.ID()
			}
		}
	}
}

// testingT is the subset of *testing.T the helpers need.
type testingT interface {
	Helper()
	Errorf(format string, args ...interface{})
}
