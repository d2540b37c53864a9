package externalapi

import (
	"io"

	"github.com/nereidnetwork/nereidd/domain/consensus/utils/hashes"
	"github.com/nereidnetwork/nereidd/domain/consensus/utils/serialization"
)

// NumIndexesPerRemovalRecord is the number of absolute indices every
// removal record sets in the accumulator's sliding-window filter. An item
// counts as spent only when all of its indices are set.
const NumIndexesPerRemovalRecord = 45

// AbsoluteIndexSet is the set of absolute filter indices a removal record
// targets. Two removal records refer to the same accumulator item exactly
// when their index sets are equal.
type AbsoluteIndexSet [NumIndexesPerRemovalRecord]uint64

// Serialize writes the index set to w.
func (ais *AbsoluteIndexSet) Serialize(w io.Writer) error {
	for _, index := range ais {
		if err := serialization.WriteElement(w, index); err != nil {
			return err
		}
	}
	return nil
}

// Deserialize reads an index set from r.
func (ais *AbsoluteIndexSet) Deserialize(r io.Reader) error {
	for i := range ais {
		if err := serialization.ReadElement(r, &ais[i]); err != nil {
			return err
		}
	}
	return nil
}

// RemovalRecord proves that a previously committed item is being removed
// from the mutator set.
type RemovalRecord struct {
	AbsoluteIndices AbsoluteIndexSet
}

// Serialize writes the removal record to w.
func (rr *RemovalRecord) Serialize(w io.Writer) error {
	return rr.AbsoluteIndices.Serialize(w)
}

// Deserialize reads a removal record from r.
func (rr *RemovalRecord) Deserialize(r io.Reader) error {
	return rr.AbsoluteIndices.Deserialize(r)
}

// AdditionRecord commits a new item into the mutator set without revealing
// the item.
type AdditionRecord struct {
	Commitment Digest
}

// Serialize writes the addition record to w.
func (ar *AdditionRecord) Serialize(w io.Writer) error {
	return serialization.WriteElement(w, ar.Commitment.ByteArray())
}

// Deserialize reads an addition record from r.
func (ar *AdditionRecord) Deserialize(r io.Reader) error {
	var raw [DigestSize]byte
	if err := serialization.ReadElement(r, &raw); err != nil {
		return err
	}
	ar.Commitment = NewDigestFromByteArray(&raw)
	return nil
}

// NewAdditionRecord commits an item into the mutator set. The commitment
// binds the item digest to the sender randomness and the receiver digest,
// so nobody but the intended receiver can recognize the item.
func NewAdditionRecord(itemDigest, senderRandomness, receiverDigest Digest) AdditionRecord {
	writer := hashes.NewHashWriter(hashes.CommitmentDomain)
	_, _ = writer.Write(itemDigest.ByteSlice())
	_, _ = writer.Write(senderRandomness.ByteSlice())
	_, _ = writer.Write(receiverDigest.ByteSlice())
	sum := writer.Finalize()
	return AdditionRecord{Commitment: NewDigestFromByteArray(&sum)}
}

// MutatorSetUpdate is the full set of changes one block applies to the
// mutator set: all inputs removed and all outputs added.
type MutatorSetUpdate struct {
	Removals  []*RemovalRecord
	Additions []AdditionRecord
}

// MutatorSetAccumulator is the external contract of the cryptographic
// accumulator representing the UTXO set. Its internal structure is not
// part of consensus validation; only this contract is.
type MutatorSetAccumulator interface {
	// Add commits a new item into the accumulator.
	Add(additionRecord AdditionRecord)

	// CanRemove reports whether the given removal record refers to an
	// existing, unspent item.
	CanRemove(removalRecord *RemovalRecord) bool

	// Apply applies a full update. It fails without partial effect if any
	// removal is impossible.
	Apply(update *MutatorSetUpdate) error

	// Hash returns a commitment to the whole accumulator state.
	Hash() Digest

	// Clone returns a deep copy that can be mutated independently.
	Clone() MutatorSetAccumulator

	// Serialize writes the accumulator state to w.
	Serialize(w io.Writer) error

	// EncodedSize returns the serialized size in bytes.
	EncodedSize() int
}
