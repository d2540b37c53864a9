// Package mutatorset provides the accumulator that represents the UTXO
// set without storing UTXOs individually. Consensus code only relies on
// the externalapi.MutatorSetAccumulator contract; the representation here
// is a multiset commitment (go-muhash) over committed items and spent
// filter indices.
package mutatorset

import (
	"io"
	"sort"

	"github.com/kaspanet/go-muhash"
	"github.com/nereidnetwork/nereidd/domain/consensus/model/externalapi"
	"github.com/nereidnetwork/nereidd/domain/consensus/utils/serialization"
	"github.com/pkg/errors"
)

// Element tags keep additions and removals from ever colliding inside the
// multiset hash.
const (
	tagAddition     = 0x01
	tagSpentIndex   = 0x02
	elementSizeAdd  = 1 + externalapi.DigestSize
	elementSizeSpnt = 1 + 8
)

// Accumulator implements externalapi.MutatorSetAccumulator.
//
// An item is committed by adding its addition record's commitment to the
// multiset. Removing an item sets every absolute index of its removal
// record; an item counts as spent exactly when all of its indices are set.
// The state commitment is the multiset hash over both element kinds.
type Accumulator struct {
	commitments  map[externalapi.Digest]uint64
	spentIndices map[uint64]struct{}
	multiset     *muhash.MuHash
}

// New returns an empty accumulator.
func New() *Accumulator {
	return &Accumulator{
		commitments:  make(map[externalapi.Digest]uint64),
		spentIndices: make(map[uint64]struct{}),
		multiset:     muhash.NewMuHash(),
	}
}

// Add commits a new item into the accumulator.
func (acc *Accumulator) Add(additionRecord externalapi.AdditionRecord) {
	acc.commitments[additionRecord.Commitment]++
	acc.multiset.Add(additionElement(additionRecord.Commitment))
}

// CanRemove reports whether the given removal record refers to an unspent
// item: at least one of its absolute indices must still be unset.
func (acc *Accumulator) CanRemove(removalRecord *externalapi.RemovalRecord) bool {
	for _, index := range removalRecord.AbsoluteIndices {
		if _, spent := acc.spentIndices[index]; !spent {
			return true
		}
	}
	return false
}

// remove marks every absolute index of the removal record as spent.
func (acc *Accumulator) remove(removalRecord *externalapi.RemovalRecord) {
	for _, index := range removalRecord.AbsoluteIndices {
		if _, spent := acc.spentIndices[index]; spent {
			continue
		}
		acc.spentIndices[index] = struct{}{}
		acc.multiset.Add(spentIndexElement(index))
	}
}

// Apply applies a full block-level update: all removals, then all
// additions. The update is checked in full before any mutation, so a
// failed Apply leaves the accumulator unchanged.
//
// Removals are checked sequentially: a removal whose entire index set was
// already covered by earlier removals in the same update is an internal
// contradiction (the same item spent twice) and fails the whole update.
func (acc *Accumulator) Apply(update *externalapi.MutatorSetUpdate) error {
	staged := make(map[uint64]struct{})
	for i, removalRecord := range update.Removals {
		removable := false
		for _, index := range removalRecord.AbsoluteIndices {
			_, spent := acc.spentIndices[index]
			if _, stagedSpent := staged[index]; !spent && !stagedSpent {
				removable = true
			}
		}
		if !removable {
			return errors.Errorf("removal record %d refers to an already spent item", i)
		}
		for _, index := range removalRecord.AbsoluteIndices {
			staged[index] = struct{}{}
		}
	}

	for _, removalRecord := range update.Removals {
		acc.remove(removalRecord)
	}
	for _, additionRecord := range update.Additions {
		acc.Add(additionRecord)
	}
	return nil
}

// Hash returns the multiset commitment to the accumulator state. It is
// independent of insertion order.
func (acc *Accumulator) Hash() externalapi.Digest {
	finalized := acc.multiset.Finalize()
	raw := *finalized.AsArray()
	return externalapi.NewDigestFromByteArray(&raw)
}

// Clone returns a deep copy.
func (acc *Accumulator) Clone() externalapi.MutatorSetAccumulator {
	clone := &Accumulator{
		commitments:  make(map[externalapi.Digest]uint64, len(acc.commitments)),
		spentIndices: make(map[uint64]struct{}, len(acc.spentIndices)),
		multiset:     acc.multiset.Clone(),
	}
	for commitment, count := range acc.commitments {
		clone.commitments[commitment] = count
	}
	for index := range acc.spentIndices {
		clone.spentIndices[index] = struct{}{}
	}
	return clone
}

// Serialize writes the accumulator state to w in canonical (sorted) order.
func (acc *Accumulator) Serialize(w io.Writer) error {
	sortedCommitments := make([]externalapi.Digest, 0, len(acc.commitments))
	for commitment := range acc.commitments {
		sortedCommitments = append(sortedCommitments, commitment)
	}
	sort.Slice(sortedCommitments, func(i, j int) bool {
		return sortedCommitments[i].Less(sortedCommitments[j])
	})

	if err := serialization.WriteElement(w, uint64(len(sortedCommitments))); err != nil {
		return err
	}
	for _, commitment := range sortedCommitments {
		if err := serialization.WriteElement(w, commitment.ByteArray()); err != nil {
			return err
		}
		if err := serialization.WriteElement(w, acc.commitments[commitment]); err != nil {
			return err
		}
	}

	sortedIndices := make([]uint64, 0, len(acc.spentIndices))
	for index := range acc.spentIndices {
		sortedIndices = append(sortedIndices, index)
	}
	sort.Slice(sortedIndices, func(i, j int) bool { return sortedIndices[i] < sortedIndices[j] })

	if err := serialization.WriteElement(w, uint64(len(sortedIndices))); err != nil {
		return err
	}
	for _, index := range sortedIndices {
		if err := serialization.WriteElement(w, index); err != nil {
			return err
		}
	}
	return nil
}

// Deserialize reads an accumulator written by Serialize. The multiset
// commitment is rebuilt from the state rather than persisted.
func Deserialize(r io.Reader) (*Accumulator, error) {
	acc := New()

	var numCommitments uint64
	if err := serialization.ReadElement(r, &numCommitments); err != nil {
		return nil, err
	}
	for i := uint64(0); i < numCommitments; i++ {
		var raw [externalapi.DigestSize]byte
		if err := serialization.ReadElement(r, &raw); err != nil {
			return nil, err
		}
		var count uint64
		if err := serialization.ReadElement(r, &count); err != nil {
			return nil, err
		}
		commitment := externalapi.NewDigestFromByteArray(&raw)
		acc.commitments[commitment] = count
		for j := uint64(0); j < count; j++ {
			acc.multiset.Add(additionElement(commitment))
		}
	}

	var numIndices uint64
	if err := serialization.ReadElement(r, &numIndices); err != nil {
		return nil, err
	}
	for i := uint64(0); i < numIndices; i++ {
		var index uint64
		if err := serialization.ReadElement(r, &index); err != nil {
			return nil, err
		}
		acc.spentIndices[index] = struct{}{}
		acc.multiset.Add(spentIndexElement(index))
	}
	return acc, nil
}

// DecodeAccumulator adapts Deserialize to the decoder shape that
// externalapi.DeserializeBlock expects.
func DecodeAccumulator(r io.Reader) (externalapi.MutatorSetAccumulator, error) {
	return Deserialize(r)
}

// EncodedSize returns the serialized size in bytes.
func (acc *Accumulator) EncodedSize() int {
	// counts + (commitment, multiplicity) pairs + indices
	return 8 + len(acc.commitments)*(externalapi.DigestSize+8) + 8 + len(acc.spentIndices)*8
}

func additionElement(commitment externalapi.Digest) []byte {
	element := make([]byte, elementSizeAdd)
	element[0] = tagAddition
	copy(element[1:], commitment.ByteSlice())
	return element
}

func spentIndexElement(index uint64) []byte {
	element := make([]byte, elementSizeSpnt)
	element[0] = tagSpentIndex
	for i := 0; i < 8; i++ {
		element[1+i] = byte(index >> (8 * i))
	}
	return element
}
