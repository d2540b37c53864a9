package hashes

import (
	"hash"

	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"
)

// DigestSize is the size in bytes of every digest produced by this package.
const DigestSize = 32

// Domain separation keys. Hashing the same bytes under different domains
// must never collide, so every consensus object hashes under its own key.
const (
	BlockDomain             = "NereidBlock"
	TransactionKernelDomain = "NereidTransactionKernel"
	UtxoDomain              = "NereidUtxo"
	CommitmentDomain        = "NereidCommitment"
	MerkleBranchDomain      = "NereidMerkleBranch"
	ClaimDomain             = "NereidClaim"
)

// HashWriter is an io.Writer that accumulates a keyed blake2b-256 state.
type HashWriter struct {
	inner hash.Hash
}

// NewHashWriter returns a HashWriter keyed with the given domain separation
// string.
func NewHashWriter(domain string) *HashWriter {
	inner, err := blake2b.New256([]byte(domain))
	if err != nil {
		panic(errors.Wrapf(err, "blake2b rejected domain key %q", domain))
	}
	return &HashWriter{inner: inner}
}

func (hw *HashWriter) Write(p []byte) (int, error) {
	return hw.inner.Write(p)
}

// Finalize returns the digest of everything written so far.
func (hw *HashWriter) Finalize() [DigestSize]byte {
	var sum [DigestSize]byte
	copy(sum[:], hw.inner.Sum(nil))
	return sum
}
