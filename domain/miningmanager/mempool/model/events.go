package model

import (
	"github.com/nereidnetwork/nereidd/domain/consensus/model/externalapi"
)

// MempoolEventType discriminates the mutations a mempool operation may
// report to subscribers.
type MempoolEventType byte

// Mempool event types.
const (
	// EventAddTx reports a transaction entering the mempool.
	EventAddTx MempoolEventType = iota
	// EventRemoveTx reports a transaction leaving the mempool for any
	// reason: conflict eviction, confirmation, staleness or capacity.
	EventRemoveTx
	// EventUpdateTxMutatorSet reports that a resident transaction was
	// replaced in place by a version of itself targeting a newer
	// mutator set state.
	EventUpdateTxMutatorSet
)

func (t MempoolEventType) String() string {
	switch t {
	case EventAddTx:
		return "AddTx"
	case EventRemoveTx:
		return "RemoveTx"
	case EventUpdateTxMutatorSet:
		return "UpdateTxMutatorSet"
	default:
		return "Unknown"
	}
}

// MempoolEvent is a single membership mutation. Event lists returned from
// mempool operations let subscribers (a wallet, the RPC layer) track the
// pool without polling it.
type MempoolEvent struct {
	Type        MempoolEventType
	Transaction *externalapi.Transaction
}
