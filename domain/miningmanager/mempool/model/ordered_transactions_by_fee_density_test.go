package model

import (
	"testing"

	"github.com/nereidnetwork/nereidd/domain/consensus/model/externalapi"
)

func orderedTestTransaction(fee externalapi.Amount, nonce int64) *MempoolTransaction {
	return &MempoolTransaction{
		Transaction: &externalapi.Transaction{
			Kernel: externalapi.TransactionKernel{
				Fee:       fee,
				Timestamp: externalapi.Timestamp(nonce),
			},
		},
		Origin: TransactionOriginForeign,
	}
}

func TestOrderedTransactionsPushKeepsAscendingOrder(t *testing.T) {
	var ordered TransactionsOrderedByFeeDensity

	fees := []externalapi.Amount{50, 10, 90, 30, 70}
	for i, fee := range fees {
		ordered.Push(orderedTestTransaction(fee, int64(i)))
	}

	if ordered.Len() != len(fees) {
		t.Fatalf("Len: expected %d, got %d", len(fees), ordered.Len())
	}
	for i := 1; i < ordered.Len(); i++ {
		previous := ordered.GetByIndex(i - 1)
		current := ordered.GetByIndex(i)
		if previous.FeeDensity().Cmp(current.FeeDensity()) > 0 {
			t.Fatalf("not in ascending fee-density order at position %d", i)
		}
	}

	descending := ordered.Descending()
	for i := range descending {
		if descending[i] != ordered.GetByIndex(ordered.Len()-1-i) {
			t.Fatal("Descending: not the reverse of the ascending order")
		}
	}
}

func TestOrderedTransactionsTiesBreakByID(t *testing.T) {
	var ordered TransactionsOrderedByFeeDensity

	// Same fee and size, different kernels: the order must be by ID, and
	// stable regardless of insertion order.
	a := orderedTestTransaction(10, 1)
	b := orderedTestTransaction(10, 2)

	ordered.Push(a)
	ordered.Push(b)

	first, second := ordered.GetByIndex(0), ordered.GetByIndex(1)
	if !first.ID().Less(second.ID()) {
		t.Error("tie: expected the smaller ID first")
	}

	var reversed TransactionsOrderedByFeeDensity
	reversed.Push(b)
	reversed.Push(a)
	if reversed.GetByIndex(0) != first || reversed.GetByIndex(1) != second {
		t.Error("tie: order must not depend on insertion order")
	}
}

func TestOrderedTransactionsRemove(t *testing.T) {
	var ordered TransactionsOrderedByFeeDensity

	resident := orderedTestTransaction(10, 1)
	other := orderedTestTransaction(20, 2)
	ordered.Push(resident)
	ordered.Push(other)

	if err := ordered.Remove(orderedTestTransaction(30, 3)); err == nil {
		t.Error("Remove: expected an error for an absent transaction")
	}

	if err := ordered.Remove(resident); err != nil {
		t.Fatalf("Remove: unexpected error: %+v", err)
	}
	if ordered.Len() != 1 || ordered.GetByIndex(0) != other {
		t.Error("Remove: wrong transaction removed")
	}

	if err := ordered.RemoveAtIndex(5); err == nil {
		t.Error("RemoveAtIndex: expected an out-of-bounds error")
	}
	if err := ordered.RemoveAtIndex(0); err != nil {
		t.Fatalf("RemoveAtIndex: unexpected error: %+v", err)
	}
	if ordered.Len() != 0 {
		t.Errorf("Len: expected 0, got %d", ordered.Len())
	}
}
