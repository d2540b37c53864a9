package mempool

import (
	"github.com/nereidnetwork/nereidd/chainparams"
	"github.com/nereidnetwork/nereidd/domain/consensus/model/externalapi"
	"github.com/nereidnetwork/nereidd/domain/consensus/processes/coinbasemanager"
	"github.com/nereidnetwork/nereidd/domain/miningmanager/mempool/model"
)

// Mempool holds candidate transactions not yet confirmed, keeps them
// conflict-free, ranks them by fee density subject to proof-tier
// precedence, and stays synchronized with the chain tip.
//
// Internally a transaction lives in two coupled structures: a map keyed
// by kernel ID and a fee-density-ordered index. Every mutation goes
// through addMempoolTransaction/removeMempoolTransaction so the two can
// never disagree on membership.
//
// The mempool does no locking of its own. Callers hold an exclusive lock
// on node state while invoking it; all methods are synchronous and the
// only potentially slow work (proof updates after a tip change) is
// returned as job descriptions instead of being performed inline.
type Mempool struct {
	config          *Config
	coinbaseManager coinbasemanager.CoinbaseManager

	allTransactions          map[externalapi.Digest]*model.MempoolTransaction
	transactionsByFeeDensity model.TransactionsOrderedByFeeDensity
	totalSizeInBytes         int

	// tip is the digest of the block this mempool's transactions are
	// synced to. Transactions whose kernels target another mutator set
	// state are stale.
	tip externalapi.Digest
}

// New returns an empty mempool synced to the given tip.
func New(config *Config, params *chainparams.Params, tip externalapi.Digest) *Mempool {
	return &Mempool{
		config:          config,
		coinbaseManager: coinbasemanager.New(params),
		allTransactions: make(map[externalapi.Digest]*model.MempoolTransaction),
		tip:             tip,
	}
}

// Len returns the number of resident transactions.
func (mp *Mempool) Len() int {
	return len(mp.allTransactions)
}

// TotalSizeInBytes returns the summed serialized size of all resident
// transactions.
func (mp *Mempool) TotalSizeInBytes() int {
	return mp.totalSizeInBytes
}

// Tip returns the digest of the block the mempool is synced to.
func (mp *Mempool) Tip() externalapi.Digest {
	return mp.tip
}

// Contains reports whether a transaction with the given kernel ID is
// resident.
func (mp *Mempool) Contains(transactionID externalapi.Digest) bool {
	_, ok := mp.allTransactions[transactionID]
	return ok
}

// Get returns the resident transaction with the given kernel ID, if any.
func (mp *Mempool) Get(transactionID externalapi.Digest) (*externalapi.Transaction, bool) {
	mempoolTransaction, ok := mp.allTransactions[transactionID]
	if !ok {
		return nil, false
	}
	return mempoolTransaction.Transaction, true
}

// NumOwnTransactions returns the number of resident transactions this
// node initiated.
func (mp *Mempool) NumOwnTransactions() int {
	count := 0
	for _, mempoolTransaction := range mp.allTransactions {
		if mempoolTransaction.Origin.IsOwn() {
			count++
		}
	}
	return count
}

// GetSortedIter returns a snapshot of the resident transactions in
// descending fee-density order.
func (mp *Mempool) GetSortedIter() []*model.MempoolTransaction {
	return mp.transactionsByFeeDensity.Descending()
}

// Remove removes the transaction with the given kernel ID. Removing an
// absent transaction is a no-op.
func (mp *Mempool) Remove(transactionID externalapi.Digest) []model.MempoolEvent {
	mempoolTransaction, ok := mp.allTransactions[transactionID]
	if !ok {
		return nil
	}
	mp.removeMempoolTransaction(mempoolTransaction)
	return []model.MempoolEvent{{Type: model.EventRemoveTx, Transaction: mempoolTransaction.Transaction}}
}

// Clear removes all resident transactions.
func (mp *Mempool) Clear() []model.MempoolEvent {
	events := make([]model.MempoolEvent, 0, len(mp.allTransactions))
	for _, mempoolTransaction := range mp.allTransactions {
		events = append(events, model.MempoolEvent{
			Type:        model.EventRemoveTx,
			Transaction: mempoolTransaction.Transaction,
		})
	}
	mp.allTransactions = make(map[externalapi.Digest]*model.MempoolTransaction)
	mp.transactionsByFeeDensity = model.TransactionsOrderedByFeeDensity{}
	mp.totalSizeInBytes = 0
	return events
}

func (mp *Mempool) addMempoolTransaction(mempoolTransaction *model.MempoolTransaction) {
	mp.allTransactions[mempoolTransaction.ID()] = mempoolTransaction
	mp.transactionsByFeeDensity.Push(mempoolTransaction)
	mp.totalSizeInBytes += mempoolTransaction.Transaction.EncodedSize()
}

func (mp *Mempool) removeMempoolTransaction(mempoolTransaction *model.MempoolTransaction) {
	delete(mp.allTransactions, mempoolTransaction.ID())
	err := mp.transactionsByFeeDensity.Remove(mempoolTransaction)
	if err != nil {
		log.Errorf("Fee-density index out of sync with transaction map: %s", err)
	}
	mp.totalSizeInBytes -= mempoolTransaction.Transaction.EncodedSize()
}

// shrink evicts the lowest-fee-density transactions until the mempool is
// within its byte budget, then within its count budget, in that order.
func (mp *Mempool) shrink() []model.MempoolEvent {
	var events []model.MempoolEvent
	for mp.totalSizeInBytes > mp.config.MaximumMempoolSizeInBytes && mp.transactionsByFeeDensity.Len() > 0 {
		events = append(events, mp.evictCheapest())
	}
	for len(mp.allTransactions) > mp.config.MaximumTransactionCount && mp.transactionsByFeeDensity.Len() > 0 {
		events = append(events, mp.evictCheapest())
	}
	return events
}

func (mp *Mempool) evictCheapest() model.MempoolEvent {
	cheapest := mp.transactionsByFeeDensity.GetByIndex(0)
	mp.removeMempoolTransaction(cheapest)
	log.Debugf("Evicted transaction %s (fee density %s) to respect mempool capacity",
		cheapest.ID(), cheapest.FeeDensity())
	return model.MempoolEvent{Type: model.EventRemoveTx, Transaction: cheapest.Transaction}
}

// absoluteIndexUnion collects every absolute removal index the given
// removal records touch.
func absoluteIndexUnion(removals []*externalapi.RemovalRecord) map[uint64]struct{} {
	union := make(map[uint64]struct{}, len(removals)*externalapi.NumIndexesPerRemovalRecord)
	for _, removalRecord := range removals {
		for _, index := range removalRecord.AbsoluteIndices {
			union[index] = struct{}{}
		}
	}
	return union
}

// sharesAbsoluteIndex reports whether any removal record of the candidate
// touches an index in the given set.
func sharesAbsoluteIndex(removals []*externalapi.RemovalRecord, indices map[uint64]struct{}) bool {
	for _, removalRecord := range removals {
		for _, index := range removalRecord.AbsoluteIndices {
			if _, ok := indices[index]; ok {
				return true
			}
		}
	}
	return false
}
