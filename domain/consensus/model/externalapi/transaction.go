package externalapi

import (
	"bytes"
	"io"

	"github.com/nereidnetwork/nereidd/domain/consensus/utils/hashes"
	"github.com/nereidnetwork/nereidd/domain/consensus/utils/serialization"
	"github.com/pkg/errors"
)

// maxEncodedPayload bounds any single variable-length payload read back
// from storage.
const maxEncodedPayload = 1 << 24

// TransactionProofTier enumerates the validity proof tiers a transaction
// can be backed by, in increasing order of succinctness. A higher tier
// means less ongoing work for the issuer to keep the transaction valid
// across mutator set changes.
type TransactionProofTier uint8

const (
	// ProofTierWitness is a primitive witness: fully private, not succinct.
	ProofTierWitness TransactionProofTier = iota

	// ProofTierProofCollection is a collection of per-claim proofs,
	// partially succinct.
	ProofTierProofCollection

	// ProofTierSingleProof is one aggregated proof, fully succinct and
	// mergeable.
	ProofTierSingleProof
)

func (tier TransactionProofTier) String() string {
	switch tier {
	case ProofTierWitness:
		return "Witness"
	case ProofTierProofCollection:
		return "ProofCollection"
	case ProofTierSingleProof:
		return "SingleProof"
	default:
		return "Unknown"
	}
}

// TransactionProof is a validity proof of some tier. The proof payload is
// opaque to this package; verification is an external capability.
type TransactionProof struct {
	Tier TransactionProofTier
	Data []byte
}

// Equal returns whether both proofs have the same tier and payload.
func (tp *TransactionProof) Equal(other *TransactionProof) bool {
	return tp.Tier == other.Tier && bytes.Equal(tp.Data, other.Data)
}

// PublicAnnouncement is an arbitrary payload a transaction publishes
// on-chain, typically an encrypted UTXO notification.
type PublicAnnouncement struct {
	Message []byte
}

// TransactionKernel is the economic content of a transaction: everything
// that consensus commits to. The kernel ID is the mempool's primary key.
type TransactionKernel struct {
	Inputs              []*RemovalRecord
	Outputs             []AdditionRecord
	PublicAnnouncements []PublicAnnouncement
	Fee                 Amount
	Coinbase            *Amount
	Timestamp           Timestamp
	MutatorSetHash      Digest
	MergeBit            bool
}

// ID returns the transaction kernel ID, a digest over every kernel field
// except the mutator set hash. Re-targeting a transaction at a newer
// accumulator state replaces MutatorSetHash and nothing else, so the ID
// stays stable across such refreshes and keeps identifying the same
// logical transaction.
func (tk *TransactionKernel) ID() Digest {
	writer := hashes.NewHashWriter(hashes.TransactionKernelDomain)
	if err := tk.serializeIDFields(writer); err != nil {
		panic(errors.Wrap(err, "hash writers are infallible"))
	}
	sum := writer.Finalize()
	return NewDigestFromByteArray(&sum)
}

// Serialize writes the kernel to w. The refresh-invariant fields come
// first so that the ID preimage is a prefix of the encoding.
func (tk *TransactionKernel) Serialize(w io.Writer) error {
	if err := tk.serializeIDFields(w); err != nil {
		return err
	}
	return serialization.WriteElement(w, tk.MutatorSetHash.ByteArray())
}

// serializeIDFields writes the kernel fields that are invariant under a
// mutator set refresh.
func (tk *TransactionKernel) serializeIDFields(w io.Writer) error {
	if err := serialization.WriteElement(w, uint64(len(tk.Inputs))); err != nil {
		return err
	}
	for _, input := range tk.Inputs {
		if err := input.Serialize(w); err != nil {
			return err
		}
	}
	if err := serialization.WriteElement(w, uint64(len(tk.Outputs))); err != nil {
		return err
	}
	for i := range tk.Outputs {
		if err := tk.Outputs[i].Serialize(w); err != nil {
			return err
		}
	}
	if err := serialization.WriteElement(w, uint64(len(tk.PublicAnnouncements))); err != nil {
		return err
	}
	for _, announcement := range tk.PublicAnnouncements {
		if err := serialization.WriteVarBytes(w, announcement.Message); err != nil {
			return err
		}
	}
	if err := serialization.WriteElement(w, int64(tk.Fee)); err != nil {
		return err
	}
	hasCoinbase := tk.Coinbase != nil
	if err := serialization.WriteElement(w, hasCoinbase); err != nil {
		return err
	}
	if hasCoinbase {
		if err := serialization.WriteElement(w, int64(*tk.Coinbase)); err != nil {
			return err
		}
	}
	return serialization.WriteElements(w, int64(tk.Timestamp), tk.MergeBit)
}

// Deserialize reads a kernel written by Serialize.
func (tk *TransactionKernel) Deserialize(r io.Reader) error {
	var numInputs uint64
	if err := serialization.ReadElement(r, &numInputs); err != nil {
		return err
	}
	tk.Inputs = make([]*RemovalRecord, numInputs)
	for i := range tk.Inputs {
		tk.Inputs[i] = &RemovalRecord{}
		if err := tk.Inputs[i].Deserialize(r); err != nil {
			return err
		}
	}
	var numOutputs uint64
	if err := serialization.ReadElement(r, &numOutputs); err != nil {
		return err
	}
	tk.Outputs = make([]AdditionRecord, numOutputs)
	for i := range tk.Outputs {
		if err := tk.Outputs[i].Deserialize(r); err != nil {
			return err
		}
	}
	var numAnnouncements uint64
	if err := serialization.ReadElement(r, &numAnnouncements); err != nil {
		return err
	}
	tk.PublicAnnouncements = make([]PublicAnnouncement, numAnnouncements)
	for i := range tk.PublicAnnouncements {
		message, err := serialization.ReadVarBytes(r, maxEncodedPayload)
		if err != nil {
			return err
		}
		tk.PublicAnnouncements[i].Message = message
	}
	var fee int64
	if err := serialization.ReadElement(r, &fee); err != nil {
		return err
	}
	tk.Fee = Amount(fee)
	var hasCoinbase bool
	if err := serialization.ReadElement(r, &hasCoinbase); err != nil {
		return err
	}
	tk.Coinbase = nil
	if hasCoinbase {
		var coinbase int64
		if err := serialization.ReadElement(r, &coinbase); err != nil {
			return err
		}
		amount := Amount(coinbase)
		tk.Coinbase = &amount
	}
	var timestamp int64
	if err := serialization.ReadElement(r, &timestamp); err != nil {
		return err
	}
	tk.Timestamp = Timestamp(timestamp)
	if err := serialization.ReadElement(r, &tk.MergeBit); err != nil {
		return err
	}
	var msHash [DigestSize]byte
	if err := serialization.ReadElement(r, &msHash); err != nil {
		return err
	}
	tk.MutatorSetHash = NewDigestFromByteArray(&msHash)
	return nil
}

// Transaction is a transfer of native currency: a kernel plus a validity
// proof of some tier.
type Transaction struct {
	Kernel TransactionKernel
	Proof  TransactionProof
}

// ID returns the transaction kernel ID.
func (tx *Transaction) ID() Digest {
	return tx.Kernel.ID()
}

// Equal returns whether both transactions are identical, proof included.
// Two transactions with equal kernels but different proofs are different
// transactions for mempool purposes.
func (tx *Transaction) Equal(other *Transaction) bool {
	if !tx.Proof.Equal(&other.Proof) {
		return false
	}
	var a, b bytes.Buffer
	if err := tx.Kernel.Serialize(&a); err != nil {
		return false
	}
	if err := other.Kernel.Serialize(&b); err != nil {
		return false
	}
	return bytes.Equal(a.Bytes(), b.Bytes())
}

// Serialize writes the transaction to w.
func (tx *Transaction) Serialize(w io.Writer) error {
	if err := tx.Kernel.Serialize(w); err != nil {
		return err
	}
	if err := serialization.WriteElement(w, uint8(tx.Proof.Tier)); err != nil {
		return err
	}
	return serialization.WriteVarBytes(w, tx.Proof.Data)
}

// Deserialize reads a transaction written by Serialize.
func (tx *Transaction) Deserialize(r io.Reader) error {
	if err := tx.Kernel.Deserialize(r); err != nil {
		return err
	}
	var tier uint8
	if err := serialization.ReadElement(r, &tier); err != nil {
		return err
	}
	tx.Proof.Tier = TransactionProofTier(tier)
	data, err := serialization.ReadVarBytes(r, maxEncodedPayload)
	if err != nil {
		return err
	}
	tx.Proof.Data = data
	return nil
}

// EncodedSize returns the transaction's serialized size in bytes. This is
// the size the mempool budgets against.
func (tx *Transaction) EncodedSize() int {
	var buf countingWriter
	if err := tx.Serialize(&buf); err != nil {
		panic(errors.Wrap(err, "counting writers are infallible"))
	}
	return int(buf)
}

type countingWriter int64

func (cw *countingWriter) Write(p []byte) (int, error) {
	*cw += countingWriter(len(p))
	return len(p), nil
}
