package model

import (
	"sort"

	"github.com/pkg/errors"
)

// TransactionsOrderedByFeeDensity represents a set of MempoolTransactions
// ordered by ascending fee density, ties broken by transaction ID. It
// backs the mempool's double-ended priority access: index 0 is the
// cheapest transaction (first eviction candidate), the last index is the
// most valuable (first block-selection candidate).
type TransactionsOrderedByFeeDensity struct {
	slice []*MempoolTransaction
}

// Push inserts a transaction into the set, placing it in the correct
// position to preserve order.
func (tofd *TransactionsOrderedByFeeDensity) Push(transaction *MempoolTransaction) {
	index := tofd.findTransactionIndex(transaction)
	tofd.slice = append(tofd.slice[:index],
		append([]*MempoolTransaction{transaction}, tofd.slice[index:]...)...)
}

// Remove removes the given transaction from the set. Returns an error if
// the transaction does not exist in the set.
func (tofd *TransactionsOrderedByFeeDensity) Remove(transaction *MempoolTransaction) error {
	index := tofd.findTransactionIndex(transaction)
	txID := transaction.ID()
	if index == len(tofd.slice) || !tofd.slice[index].ID().Equal(txID) {
		return errors.Errorf("couldn't find %s in the ordered transaction set", txID)
	}
	return tofd.RemoveAtIndex(index)
}

// RemoveAtIndex removes the transaction at the given index. Returns an
// error in case of an out-of-bounds index.
func (tofd *TransactionsOrderedByFeeDensity) RemoveAtIndex(index int) error {
	if index < 0 || index > len(tofd.slice)-1 {
		return errors.Errorf("index %d is out of bounds of this TransactionsOrderedByFeeDensity", index)
	}
	tofd.slice = append(tofd.slice[:index], tofd.slice[index+1:]...)
	return nil
}

// GetByIndex returns the transaction at the given index, counting from the
// cheapest.
func (tofd *TransactionsOrderedByFeeDensity) GetByIndex(index int) *MempoolTransaction {
	return tofd.slice[index]
}

// Len returns the number of transactions in the set.
func (tofd *TransactionsOrderedByFeeDensity) Len() int {
	return len(tofd.slice)
}

// Descending returns a snapshot of the set ordered from the most valuable
// transaction to the cheapest.
func (tofd *TransactionsOrderedByFeeDensity) Descending() []*MempoolTransaction {
	result := make([]*MempoolTransaction, len(tofd.slice))
	for i, transaction := range tofd.slice {
		result[len(tofd.slice)-1-i] = transaction
	}
	return result
}

// findTransactionIndex returns the position transaction occupies, or would
// occupy if absent.
func (tofd *TransactionsOrderedByFeeDensity) findTransactionIndex(transaction *MempoolTransaction) int {
	txID := transaction.ID()
	txFeeDensity := transaction.FeeDensity()

	return sort.Search(len(tofd.slice), func(i int) bool {
		iElement := tofd.slice[i]
		switch iElement.FeeDensity().Cmp(txFeeDensity) {
		case 1:
			return true
		case 0:
			return !iElement.ID().Less(txID)
		default:
			return false
		}
	})
}
