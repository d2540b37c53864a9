package externalapi

import (
	"io"

	"github.com/nereidnetwork/nereidd/domain/consensus/utils/hashes"
	"github.com/nereidnetwork/nereidd/domain/consensus/utils/serialization"
)

// MMRAccumulator is a Merkle mountain range in accumulator form: only the
// peaks and the leaf count are kept. Appending a leaf merges equal-height
// peaks the same way binary addition carries, so two accumulators built
// from the same leaf sequence are always structurally identical.
//
// Blocks carry one of these over the chain of block digests, which lets a
// validator check chain-of-digests integrity independently of the
// hash-linked header field.
type MMRAccumulator struct {
	peaks     []Digest
	leafCount uint64
}

// NewMMRAccumulator returns an empty accumulator.
func NewMMRAccumulator() MMRAccumulator {
	return MMRAccumulator{}
}

// LeafCount returns the number of leaves appended so far.
func (mmr MMRAccumulator) LeafCount() uint64 {
	return mmr.leafCount
}

// Peaks returns a copy of the current peaks.
func (mmr MMRAccumulator) Peaks() []Digest {
	peaks := make([]Digest, len(mmr.peaks))
	copy(peaks, mmr.peaks)
	return peaks
}

// WithAppended returns a new accumulator with the given leaf appended. The
// receiver is unchanged.
func (mmr MMRAccumulator) WithAppended(leaf Digest) MMRAccumulator {
	newPeaks := make([]Digest, len(mmr.peaks))
	copy(newPeaks, mmr.peaks)

	newPeaks = append(newPeaks, leaf)
	// A set bit at position i in the old leaf count means a peak of height
	// i exists and must merge with the incoming carry.
	for count := mmr.leafCount; count&1 == 1; count >>= 1 {
		right := newPeaks[len(newPeaks)-1]
		left := newPeaks[len(newPeaks)-2]
		newPeaks = newPeaks[:len(newPeaks)-2]
		newPeaks = append(newPeaks, hashMMRBranch(left, right))
	}

	return MMRAccumulator{peaks: newPeaks, leafCount: mmr.leafCount + 1}
}

// Equal returns whether both accumulators commit to the same leaf sequence.
func (mmr MMRAccumulator) Equal(other MMRAccumulator) bool {
	if mmr.leafCount != other.leafCount || len(mmr.peaks) != len(other.peaks) {
		return false
	}
	for i, peak := range mmr.peaks {
		if !peak.Equal(other.peaks[i]) {
			return false
		}
	}
	return true
}

// Serialize writes the accumulator to w.
func (mmr MMRAccumulator) Serialize(w io.Writer) error {
	if err := serialization.WriteElement(w, mmr.leafCount); err != nil {
		return err
	}
	if err := serialization.WriteElement(w, uint64(len(mmr.peaks))); err != nil {
		return err
	}
	for _, peak := range mmr.peaks {
		if err := serialization.WriteElement(w, peak.ByteArray()); err != nil {
			return err
		}
	}
	return nil
}

// DeserializeMMRAccumulator reads an accumulator written by Serialize.
func DeserializeMMRAccumulator(r io.Reader) (MMRAccumulator, error) {
	var mmr MMRAccumulator
	if err := serialization.ReadElement(r, &mmr.leafCount); err != nil {
		return MMRAccumulator{}, err
	}
	var numPeaks uint64
	if err := serialization.ReadElement(r, &numPeaks); err != nil {
		return MMRAccumulator{}, err
	}
	mmr.peaks = make([]Digest, numPeaks)
	for i := range mmr.peaks {
		var raw [DigestSize]byte
		if err := serialization.ReadElement(r, &raw); err != nil {
			return MMRAccumulator{}, err
		}
		mmr.peaks[i] = NewDigestFromByteArray(&raw)
	}
	return mmr, nil
}

func hashMMRBranch(left, right Digest) Digest {
	writer := hashes.NewHashWriter(hashes.MerkleBranchDomain)
	_, _ = writer.Write(left.ByteSlice())
	_, _ = writer.Write(right.ByteSlice())
	sum := writer.Finalize()
	return NewDigestFromByteArray(&sum)
}
