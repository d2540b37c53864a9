package externalapi

import (
	"io"

	"github.com/holiman/uint256"
	"github.com/nereidnetwork/nereidd/domain/consensus/utils/hashes"
	"github.com/nereidnetwork/nereidd/domain/consensus/utils/serialization"
	"github.com/pkg/errors"
)

// BlockHeight is the distance of a block from genesis.
type BlockHeight uint64

// BlockProofTier enumerates the proof tiers a block can be backed by.
// Unlike transactions, blocks are only ever valid with a single aggregated
// proof; the other tiers exist so that a received block can be represented
// before it is rejected.
type BlockProofTier uint8

const (
	// BlockProofTierInvalid marks a block without any proof.
	BlockProofTierInvalid BlockProofTier = iota

	// BlockProofTierWitness marks a block backed by raw witness data.
	// Such blocks are only usable by their composer, never relayed.
	BlockProofTierWitness

	// BlockProofTierSingleProof is the only tier under which a block can
	// pass validation.
	BlockProofTierSingleProof
)

// BlockProof is a block validity proof.
type BlockProof struct {
	Tier BlockProofTier
	Data []byte
}

// BlockHeader is the chain-linkage metadata of a block.
type BlockHeader struct {
	Version         uint32
	Height          BlockHeight
	PrevBlockDigest Digest
	Timestamp       Timestamp
	Nonce           uint64

	// Difficulty is the expected number of hashes to find this block.
	// CumulativeWork is the sum of difficulties of all strict ancestors.
	Difficulty     uint256.Int
	CumulativeWork uint256.Int

	// GuesserDigest is the after-image of the lock that the block's
	// guesser fee UTXOs are locked to. The guesser sets it before the
	// proof-of-work race; whoever wins the race owns the fees.
	GuesserDigest Digest
}

// Serialize writes the header to w.
func (header *BlockHeader) Serialize(w io.Writer) error {
	if err := serialization.WriteElements(w,
		header.Version,
		uint64(header.Height),
		header.PrevBlockDigest.ByteArray(),
		int64(header.Timestamp),
		header.Nonce,
	); err != nil {
		return err
	}
	difficulty := header.Difficulty.Bytes32()
	if err := serialization.WriteElement(w, difficulty); err != nil {
		return err
	}
	cumulativeWork := header.CumulativeWork.Bytes32()
	if err := serialization.WriteElement(w, cumulativeWork); err != nil {
		return err
	}
	return serialization.WriteElement(w, header.GuesserDigest.ByteArray())
}

// Deserialize reads a header written by Serialize.
func (header *BlockHeader) Deserialize(r io.Reader) error {
	var height uint64
	var timestamp int64
	var prevDigest, difficulty, cumulativeWork, guesserDigest [DigestSize]byte
	if err := serialization.ReadElement(r, &header.Version); err != nil {
		return err
	}
	if err := serialization.ReadElement(r, &height); err != nil {
		return err
	}
	if err := serialization.ReadElement(r, &prevDigest); err != nil {
		return err
	}
	if err := serialization.ReadElement(r, &timestamp); err != nil {
		return err
	}
	if err := serialization.ReadElement(r, &header.Nonce); err != nil {
		return err
	}
	if err := serialization.ReadElement(r, &difficulty); err != nil {
		return err
	}
	if err := serialization.ReadElement(r, &cumulativeWork); err != nil {
		return err
	}
	if err := serialization.ReadElement(r, &guesserDigest); err != nil {
		return err
	}
	header.Height = BlockHeight(height)
	header.PrevBlockDigest = NewDigestFromByteArray(&prevDigest)
	header.Timestamp = Timestamp(timestamp)
	header.Difficulty.SetBytes(difficulty[:])
	header.CumulativeWork.SetBytes(cumulativeWork[:])
	header.GuesserDigest = NewDigestFromByteArray(&guesserDigest)
	return nil
}

// BlockBody is the payload of a block.
type BlockBody struct {
	// TransactionKernel is the kernel of the block's single (merged)
	// transaction.
	TransactionKernel TransactionKernel

	// MutatorSetAccumulator is the accumulator state after applying the
	// block transaction's inputs and outputs. It does not include the
	// block's guesser fee addition records; those are derived, never
	// stored.
	MutatorSetAccumulator MutatorSetAccumulator

	// BlockMMR commits to the digests of all strict ancestors of this
	// block. The current block is appended only by the successor.
	BlockMMR MMRAccumulator

	// LockFreeMMR commits to the lock-free UTXOs created so far.
	LockFreeMMR MMRAccumulator
}

// hashContent writes the body's digest preimage. The accumulator
// participates through its state commitment only, so the preimage does not
// depend on accumulator internals.
func (body *BlockBody) hashContent(w io.Writer) error {
	if err := body.TransactionKernel.Serialize(w); err != nil {
		return err
	}
	if err := serialization.WriteElement(w, body.MutatorSetAccumulator.Hash().ByteArray()); err != nil {
		return err
	}
	if err := body.BlockMMR.Serialize(w); err != nil {
		return err
	}
	return body.LockFreeMMR.Serialize(w)
}

// BlockAppendix is the list of STARK claims that the block proof proves
// jointly. Consensus mandates a deterministic subset of claims; future
// soft forks may add more.
type BlockAppendix struct {
	Claims []Digest
}

// ContainsClaim returns whether the appendix lists the given claim.
func (appendix *BlockAppendix) ContainsClaim(claim Digest) bool {
	for _, c := range appendix.Claims {
		if c.Equal(claim) {
			return true
		}
	}
	return false
}

// Block is one ledger step. It is immutable: the digest is computed once
// at construction and every "mutation" returns a new value, so there is no
// cache invalidation discipline to get wrong.
type Block struct {
	header   BlockHeader
	body     *BlockBody
	appendix BlockAppendix
	proof    BlockProof

	digest Digest
}

// NewBlock constructs a block and computes its digest.
func NewBlock(header BlockHeader, body *BlockBody, appendix BlockAppendix, proof BlockProof) *Block {
	block := &Block{
		header:   header,
		body:     body,
		appendix: appendix,
		proof:    proof,
	}
	block.digest = block.computeDigest()
	return block
}

func (b *Block) computeDigest() Digest {
	writer := hashes.NewHashWriter(hashes.BlockDomain)
	if err := b.header.Serialize(writer); err != nil {
		panic(errors.Wrap(err, "hash writers are infallible"))
	}
	if err := b.body.hashContent(writer); err != nil {
		panic(errors.Wrap(err, "hash writers are infallible"))
	}
	if err := serialization.WriteElement(writer, uint64(len(b.appendix.Claims))); err != nil {
		panic(errors.Wrap(err, "hash writers are infallible"))
	}
	for _, claim := range b.appendix.Claims {
		if err := serialization.WriteElement(writer, claim.ByteArray()); err != nil {
			panic(errors.Wrap(err, "hash writers are infallible"))
		}
	}
	sum := writer.Finalize()
	return NewDigestFromByteArray(&sum)
}

// Digest returns the block's digest. The proof is not part of the digest;
// two blocks differing only in proof data are the same block.
func (b *Block) Digest() Digest {
	return b.digest
}

// Header returns a copy of the block's header.
func (b *Block) Header() BlockHeader {
	return b.header
}

// Body returns the block's body. Callers must treat it as read-only.
func (b *Block) Body() *BlockBody {
	return b.body
}

// Appendix returns the block's appendix.
func (b *Block) Appendix() BlockAppendix {
	return b.appendix
}

// Proof returns the block's proof.
func (b *Block) Proof() BlockProof {
	return b.proof
}

// Height returns the block's height.
func (b *Block) Height() BlockHeight {
	return b.header.Height
}

// IsGenesis returns whether this block sits at height zero.
func (b *Block) IsGenesis() bool {
	return b.header.Height == 0
}

// WithNonce returns a copy of the block with the given nonce and a freshly
// computed digest. The receiver is unchanged. This is the only way to
// "mutate" a block while guessing.
func (b *Block) WithNonce(nonce uint64) *Block {
	header := b.header
	header.Nonce = nonce
	return NewBlock(header, b.body, b.appendix, b.proof)
}

// Serialize writes the full block, proof included, to w.
func (b *Block) Serialize(w io.Writer) error {
	if err := b.header.Serialize(w); err != nil {
		return err
	}
	if err := b.body.TransactionKernel.Serialize(w); err != nil {
		return err
	}
	if err := b.body.MutatorSetAccumulator.Serialize(w); err != nil {
		return err
	}
	if err := b.body.BlockMMR.Serialize(w); err != nil {
		return err
	}
	if err := b.body.LockFreeMMR.Serialize(w); err != nil {
		return err
	}
	if err := serialization.WriteElement(w, uint64(len(b.appendix.Claims))); err != nil {
		return err
	}
	for _, claim := range b.appendix.Claims {
		if err := serialization.WriteElement(w, claim.ByteArray()); err != nil {
			return err
		}
	}
	if err := serialization.WriteElement(w, uint8(b.proof.Tier)); err != nil {
		return err
	}
	return serialization.WriteVarBytes(w, b.proof.Data)
}

// DeserializeBlock reads a block written by Serialize. The accumulator
// implementation is injected through decodeAccumulator, keeping this
// package independent of accumulator internals.
func DeserializeBlock(r io.Reader,
	decodeAccumulator func(io.Reader) (MutatorSetAccumulator, error)) (*Block, error) {

	var header BlockHeader
	if err := header.Deserialize(r); err != nil {
		return nil, err
	}
	body := &BlockBody{}
	if err := body.TransactionKernel.Deserialize(r); err != nil {
		return nil, err
	}
	accumulator, err := decodeAccumulator(r)
	if err != nil {
		return nil, err
	}
	body.MutatorSetAccumulator = accumulator
	if body.BlockMMR, err = DeserializeMMRAccumulator(r); err != nil {
		return nil, err
	}
	if body.LockFreeMMR, err = DeserializeMMRAccumulator(r); err != nil {
		return nil, err
	}
	var numClaims uint64
	if err := serialization.ReadElement(r, &numClaims); err != nil {
		return nil, err
	}
	appendix := BlockAppendix{Claims: make([]Digest, numClaims)}
	for i := range appendix.Claims {
		var raw [DigestSize]byte
		if err := serialization.ReadElement(r, &raw); err != nil {
			return nil, err
		}
		appendix.Claims[i] = NewDigestFromByteArray(&raw)
	}
	var tier uint8
	if err := serialization.ReadElement(r, &tier); err != nil {
		return nil, err
	}
	proofData, err := serialization.ReadVarBytes(r, maxEncodedPayload)
	if err != nil {
		return nil, err
	}
	proof := BlockProof{Tier: BlockProofTier(tier), Data: proofData}

	return NewBlock(header, body, appendix, proof), nil
}

// EncodedSize returns the block's serialized size in bytes, which is what
// the consensus size ceiling is measured against.
func (b *Block) EncodedSize() int {
	var buf countingWriter
	if err := b.Serialize(&buf); err != nil {
		panic(errors.Wrap(err, "counting writers are infallible"))
	}
	return int(buf)
}
