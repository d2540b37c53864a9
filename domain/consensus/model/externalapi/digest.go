package externalapi

import (
	"encoding/hex"

	"github.com/nereidnetwork/nereidd/domain/consensus/utils/hashes"
	"github.com/pkg/errors"
)

// DigestSize of array used to store digests.
const DigestSize = hashes.DigestSize

// Digest is the domain representation of a hash digest.
type Digest struct {
	digestArray [DigestSize]byte
}

// NewDigestFromByteArray constructs a new Digest out of a byte array.
func NewDigestFromByteArray(digestBytes *[DigestSize]byte) Digest {
	return Digest{digestArray: *digestBytes}
}

// NewDigestFromByteSlice constructs a new Digest out of a byte slice.
// Returns an error if the length of the slice is not DigestSize.
func NewDigestFromByteSlice(digestBytes []byte) (Digest, error) {
	if len(digestBytes) != DigestSize {
		return Digest{}, errors.Errorf("invalid digest size. Want: %d, got: %d",
			DigestSize, len(digestBytes))
	}
	digest := Digest{}
	copy(digest.digestArray[:], digestBytes)
	return digest, nil
}

// NewDigestFromString constructs a new Digest out of a hex-encoded string.
func NewDigestFromString(digestString string) (Digest, error) {
	expectedLength := DigestSize * 2
	if len(digestString) != expectedLength {
		return Digest{}, errors.Errorf("digest string length is %d, while it should be %d",
			len(digestString), expectedLength)
	}

	digestBytes, err := hex.DecodeString(digestString)
	if err != nil {
		return Digest{}, errors.WithStack(err)
	}

	return NewDigestFromByteSlice(digestBytes)
}

// String returns the Digest as the hexadecimal string of the digest.
func (digest Digest) String() string {
	return hex.EncodeToString(digest.digestArray[:])
}

// ByteArray returns the bytes in this digest represented as a byte array.
// The digest bytes are cloned, therefore it is safe to modify the resulting
// array.
func (digest Digest) ByteArray() [DigestSize]byte {
	return digest.digestArray
}

// ByteSlice returns the bytes in this digest represented as a byte slice.
// The digest bytes are cloned, therefore it is safe to modify the resulting
// slice.
func (digest Digest) ByteSlice() []byte {
	arrayClone := digest.digestArray
	return arrayClone[:]
}

// Equal returns whether digest equals to other.
func (digest Digest) Equal(other Digest) bool {
	return digest.digestArray == other.digestArray
}

// IsZero returns whether this digest is the all-zeroes digest.
func (digest Digest) IsZero() bool {
	return digest.digestArray == [DigestSize]byte{}
}

// Less returns true if digest is less than other in byte-lexicographic order.
// Used for deterministic tie-breaking in ordered containers.
func (digest Digest) Less(other Digest) bool {
	for i := 0; i < DigestSize; i++ {
		if digest.digestArray[i] != other.digestArray[i] {
			return digest.digestArray[i] < other.digestArray[i]
		}
	}
	return false
}
