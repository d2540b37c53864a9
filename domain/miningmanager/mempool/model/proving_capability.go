package model

import (
	"github.com/nereidnetwork/nereidd/domain/consensus/model/externalapi"
)

// TxProvingCapability is the strongest transaction proof this node can
// produce locally. It bounds which resident transactions are worth
// keeping across a tip change: a proof the node cannot regenerate cannot
// be refreshed.
type TxProvingCapability byte

// Proving capabilities, weakest first.
const (
	CapabilityWitness TxProvingCapability = iota
	CapabilityProofCollection
	CapabilitySingleProof
)

func (c TxProvingCapability) String() string {
	switch c {
	case CapabilityWitness:
		return "witness"
	case CapabilityProofCollection:
		return "proof collection"
	case CapabilitySingleProof:
		return "single proof"
	default:
		return "unknown"
	}
}

// CanUpdate reports whether this capability suffices to refresh a proof
// of the given tier after a tip change.
func (c TxProvingCapability) CanUpdate(tier externalapi.TransactionProofTier) bool {
	return tier == externalapi.ProofTierSingleProof && c >= CapabilitySingleProof
}
