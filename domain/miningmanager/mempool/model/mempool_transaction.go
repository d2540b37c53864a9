package model

import (
	"github.com/nereidnetwork/nereidd/domain/consensus/model/externalapi"
)

// TransactionOrigin tells whether a mempool transaction was initiated by
// this node or received from a peer. Foreign transactions are only worth
// holding while the node composes blocks.
type TransactionOrigin byte

// Transaction origins.
const (
	TransactionOriginForeign TransactionOrigin = iota
	TransactionOriginOwn
)

func (to TransactionOrigin) String() string {
	if to == TransactionOriginOwn {
		return "own"
	}
	return "foreign"
}

// IsOwn returns true for transactions this node initiated.
func (to TransactionOrigin) IsOwn() bool {
	return to == TransactionOriginOwn
}

// MempoolTransaction represents a transaction inside the mempool together
// with its bookkeeping metadata.
type MempoolTransaction struct {
	Transaction *externalapi.Transaction
	Origin      TransactionOrigin
}

// ID returns the transaction kernel ID, the key under which this
// transaction is held.
func (mt *MempoolTransaction) ID() externalapi.Digest {
	return mt.Transaction.ID()
}

// FeeDensity returns fee divided by serialized size.
func (mt *MempoolTransaction) FeeDensity() FeeDensity {
	return NewFeeDensity(mt.Transaction.Kernel.Fee, mt.Transaction.EncodedSize())
}
