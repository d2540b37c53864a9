package externalapi

import (
	"github.com/nereidnetwork/nereidd/domain/consensus/utils/hashes"
	"github.com/nereidnetwork/nereidd/domain/consensus/utils/serialization"
	"github.com/pkg/errors"
)

// Utxo is an unspent output as it exists before being committed into the
// mutator set.
type Utxo struct {
	// LockScriptHash is the after-image of the lock guarding the output.
	LockScriptHash Digest

	// Amount is the output's value in motes.
	Amount Amount

	// ReleaseDate, when non-zero, time-locks the output until the given
	// timestamp.
	ReleaseDate Timestamp
}

// Digest returns the UTXO's item digest, the value that gets committed
// into the mutator set.
func (utxo *Utxo) Digest() Digest {
	writer := hashes.NewHashWriter(hashes.UtxoDomain)
	err := serialization.WriteElements(writer,
		utxo.LockScriptHash.ByteArray(), int64(utxo.Amount), int64(utxo.ReleaseDate))
	if err != nil {
		panic(errors.Wrap(err, "hash writers are infallible"))
	}
	sum := writer.Finalize()
	return NewDigestFromByteArray(&sum)
}
