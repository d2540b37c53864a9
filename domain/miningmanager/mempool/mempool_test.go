package mempool

import (
	"testing"

	"github.com/davecgh/go-spew/spew"

	"github.com/nereidnetwork/nereidd/domain/consensus/model/externalapi"
	"github.com/nereidnetwork/nereidd/domain/miningmanager/mempool/model"
)

func TestInsertAndLookup(t *testing.T) {
	tip := externalapi.NewDigestFromByteArray(&[externalapi.DigestSize]byte{0xAA})
	mp := newTestMempool(nil, tip)

	transaction := buildTestTransaction(testTransactionOptions{fee: 10})
	events := mp.Insert(transaction, model.TransactionOriginForeign)

	if len(events) != 1 || events[0].Type != model.EventAddTx {
		t.Fatalf("Insert: expected a single AddTx event, got %v", events)
	}
	if mp.Len() != 1 {
		t.Errorf("Len: expected 1, got %d", mp.Len())
	}
	if !mp.Contains(transaction.ID()) {
		t.Error("Contains: inserted transaction not found")
	}
	got, ok := mp.Get(transaction.ID())
	if !ok || !got.Equal(transaction) {
		t.Error("Get: inserted transaction not returned verbatim")
	}
	if mp.TotalSizeInBytes() != transaction.EncodedSize() {
		t.Errorf("TotalSizeInBytes: expected %d, got %d",
			transaction.EncodedSize(), mp.TotalSizeInBytes())
	}
	if !mp.Tip().Equal(tip) {
		t.Errorf("Tip: expected %s, got %s", tip, mp.Tip())
	}
}

func TestInsertVerbatimDuplicateIsNoOp(t *testing.T) {
	mp := newTestMempool(nil, externalapi.Digest{})
	transaction := buildTestTransaction(testTransactionOptions{fee: 10})

	mp.Insert(transaction, model.TransactionOriginForeign)
	events := mp.Insert(transaction, model.TransactionOriginForeign)

	if len(events) != 0 {
		t.Errorf("Insert: expected no events for a verbatim duplicate, got %v", events)
	}
	if mp.Len() != 1 {
		t.Errorf("Len: expected 1, got %d", mp.Len())
	}
}

func TestInsertSameTierFeeRule(t *testing.T) {
	mp := newTestMempool(nil, externalapi.Digest{})

	resident := buildTestTransaction(testTransactionOptions{fee: 10})
	mp.Insert(resident, model.TransactionOriginForeign)

	// A same-tier conflict with equal fee density is rejected; the ask is
	// a strict improvement.
	equalFee := buildTestTransaction(testTransactionOptions{fee: 10, mergeBit: true})
	if events := mp.Insert(equalFee, model.TransactionOriginForeign); len(events) != 0 {
		t.Errorf("Insert: expected rejection at equal fee density, got %v", events)
	}
	if !mp.Contains(resident.ID()) || mp.Contains(equalFee.ID()) {
		t.Error("Insert: equal-fee conflict must not displace the resident")
	}

	lowerFee := buildTestTransaction(testTransactionOptions{fee: 5, mergeBit: true})
	if events := mp.Insert(lowerFee, model.TransactionOriginForeign); len(events) != 0 {
		t.Errorf("Insert: expected rejection at lower fee density, got %v", events)
	}

	higherFee := buildTestTransaction(testTransactionOptions{fee: 20, mergeBit: true})
	events := mp.Insert(higherFee, model.TransactionOriginForeign)
	if len(events) != 2 ||
		events[0].Type != model.EventRemoveTx || !events[0].Transaction.Equal(resident) ||
		events[1].Type != model.EventAddTx || !events[1].Transaction.Equal(higherFee) {
		t.Fatalf("Insert: expected RemoveTx(resident)+AddTx(candidate), got %v", events)
	}
	if mp.Len() != 1 || !mp.Contains(higherFee.ID()) {
		t.Error("Insert: higher-fee conflict must displace the resident")
	}
}

func TestInsertHigherTierDisplacesRegardlessOfFee(t *testing.T) {
	mp := newTestMempool(nil, externalapi.Digest{})

	// Two Witness residents, each conflicting with the candidate through a
	// different input, both better paid than the candidate.
	first := buildTestTransaction(testTransactionOptions{
		tier: externalapi.ProofTierWitness, fee: 100, inputRuns: []uint64{0},
	})
	second := buildTestTransaction(testTransactionOptions{
		tier: externalapi.ProofTierWitness, fee: 200, inputRuns: []uint64{1000},
	})
	mp.Insert(first, model.TransactionOriginForeign)
	mp.Insert(second, model.TransactionOriginForeign)

	candidate := buildTestTransaction(testTransactionOptions{
		tier: externalapi.ProofTierSingleProof, fee: 1, inputRuns: []uint64{0, 1000},
	})
	events := mp.Insert(candidate, model.TransactionOriginForeign)

	if mp.Len() != 1 || !mp.Contains(candidate.ID()) {
		t.Fatal("Insert: a SingleProof candidate must displace all Witness conflicts")
	}
	removals := 0
	for _, event := range events {
		if event.Type == model.EventRemoveTx {
			removals++
		}
	}
	if removals != 2 {
		t.Errorf("Insert: expected 2 RemoveTx events, got %d in %s", removals, spew.Sdump(events))
	}
	assertNoSharedIndices(t, mp)
}

func TestInsertSingleProofRefresh(t *testing.T) {
	mp := newTestMempool(nil, externalapi.Digest{})

	stale := buildTestTransaction(testTransactionOptions{
		tier: externalapi.ProofTierSingleProof, fee: 10, proofSalt: 1,
	})
	mp.Insert(stale, model.TransactionOriginOwn)

	// Same kernel, refreshed proof. This must coalesce into a single
	// in-place update event rather than a removal/addition pair.
	refreshed := buildTestTransaction(testTransactionOptions{
		tier: externalapi.ProofTierSingleProof, fee: 10, proofSalt: 2,
	})
	events := mp.Insert(refreshed, model.TransactionOriginOwn)

	if len(events) != 1 || events[0].Type != model.EventUpdateTxMutatorSet {
		t.Fatalf("Insert: expected a single UpdateTxMutatorSet event, got %v", events)
	}
	if mp.Len() != 1 {
		t.Errorf("Len: expected 1, got %d", mp.Len())
	}
	got, _ := mp.Get(refreshed.ID())
	if !got.Proof.Equal(&refreshed.Proof) {
		t.Error("Insert: the refreshed proof must replace the stale one")
	}
}

// After a block, a resident transaction comes back re-targeted at the new
// accumulator state: same kernel except for the mutator set hash, same
// fee, new proof. It must replace its stale version in place even though
// it cannot out-bid it on fee density.
func TestInsertSingleProofRefreshNewMutatorSet(t *testing.T) {
	mp := newTestMempool(nil, externalapi.Digest{})

	oldHash := externalapi.NewDigestFromByteArray(&[externalapi.DigestSize]byte{0xA1})
	newHash := externalapi.NewDigestFromByteArray(&[externalapi.DigestSize]byte{0xA2})

	stale := buildTestTransaction(testTransactionOptions{
		tier: externalapi.ProofTierSingleProof, fee: 10,
		mutatorSetHash: oldHash, proofSalt: 1,
	})
	mp.Insert(stale, model.TransactionOriginOwn)

	refreshed := buildTestTransaction(testTransactionOptions{
		tier: externalapi.ProofTierSingleProof, fee: 10,
		mutatorSetHash: newHash, proofSalt: 2,
	})
	if !refreshed.ID().Equal(stale.ID()) {
		t.Fatal("ID: a mutator set refresh must not change the kernel ID")
	}

	events := mp.Insert(refreshed, model.TransactionOriginOwn)

	if len(events) != 1 || events[0].Type != model.EventUpdateTxMutatorSet {
		t.Fatalf("Insert: expected a single UpdateTxMutatorSet event, got %s", spew.Sdump(events))
	}
	if mp.Len() != 1 {
		t.Errorf("Len: expected 1, got %d", mp.Len())
	}
	got, ok := mp.Get(refreshed.ID())
	if !ok {
		t.Fatal("Get: the refreshed transaction must be resident under its old ID")
	}
	if !got.Kernel.MutatorSetHash.Equal(newHash) {
		t.Error("Insert: the resident version must target the new mutator set state")
	}
	if !got.Proof.Equal(&refreshed.Proof) {
		t.Error("Insert: the refreshed proof must replace the stale one")
	}
}

func TestNoSharedIndicesAfterArbitraryInserts(t *testing.T) {
	mp := newTestMempool(nil, externalapi.Digest{})

	runs := [][]uint64{
		{0}, {1000}, {0, 1000}, {2000}, {1000, 2000}, {500}, {0, 500, 3000},
	}
	for i, inputRuns := range runs {
		transaction := buildTestTransaction(testTransactionOptions{
			tier:      externalapi.TransactionProofTier(i % 3),
			fee:       externalapi.Amount(i * 7),
			inputRuns: inputRuns,
		})
		mp.Insert(transaction, model.TransactionOriginForeign)
		assertNoSharedIndices(t, mp)
	}
}

func TestShrinkToByteBudget(t *testing.T) {
	cheap := buildTestTransaction(testTransactionOptions{fee: 1, inputRuns: []uint64{0}})
	mid := buildTestTransaction(testTransactionOptions{fee: 2, inputRuns: []uint64{1000}})
	rich := buildTestTransaction(testTransactionOptions{fee: 3, inputRuns: []uint64{2000}})

	// Room for exactly two transactions of this shape.
	config := DefaultConfig()
	config.MaximumMempoolSizeInBytes = cheap.EncodedSize() + mid.EncodedSize()
	mp := newTestMempool(config, externalapi.Digest{})

	mp.Insert(cheap, model.TransactionOriginForeign)
	mp.Insert(mid, model.TransactionOriginForeign)
	events := mp.Insert(rich, model.TransactionOriginForeign)

	if mp.Len() != 2 {
		t.Fatalf("Len: expected 2 after shrink, got %d", mp.Len())
	}
	if mp.Contains(cheap.ID()) {
		t.Error("shrink: expected the lowest-fee-density transaction to be evicted")
	}
	if !mp.Contains(mid.ID()) || !mp.Contains(rich.ID()) {
		t.Error("shrink: expected the denser transactions to survive")
	}
	if mp.TotalSizeInBytes() > config.MaximumMempoolSizeInBytes {
		t.Errorf("shrink: size %d exceeds budget %d",
			mp.TotalSizeInBytes(), config.MaximumMempoolSizeInBytes)
	}
	last := events[len(events)-1]
	if last.Type != model.EventRemoveTx || !last.Transaction.Equal(cheap) {
		t.Errorf("shrink: expected a trailing RemoveTx for the evictee, got %v", events)
	}
}

func TestShrinkToCountBudget(t *testing.T) {
	config := DefaultConfig()
	config.MaximumTransactionCount = 2
	mp := newTestMempool(config, externalapi.Digest{})

	cheap := buildTestTransaction(testTransactionOptions{fee: 1, inputRuns: []uint64{0}})
	mid := buildTestTransaction(testTransactionOptions{fee: 2, inputRuns: []uint64{1000}})
	rich := buildTestTransaction(testTransactionOptions{fee: 3, inputRuns: []uint64{2000}})

	mp.Insert(cheap, model.TransactionOriginForeign)
	mp.Insert(mid, model.TransactionOriginForeign)
	mp.Insert(rich, model.TransactionOriginForeign)

	if mp.Len() != 2 {
		t.Fatalf("Len: expected 2 after shrink, got %d", mp.Len())
	}
	if mp.Contains(cheap.ID()) {
		t.Error("shrink: expected the lowest-fee-density transaction to be evicted")
	}
}

func TestRemoveAndClear(t *testing.T) {
	mp := newTestMempool(nil, externalapi.Digest{})

	first := buildTestTransaction(testTransactionOptions{fee: 1, inputRuns: []uint64{0}})
	second := buildTestTransaction(testTransactionOptions{fee: 2, inputRuns: []uint64{1000}})
	mp.Insert(first, model.TransactionOriginForeign)
	mp.Insert(second, model.TransactionOriginForeign)

	if events := mp.Remove(externalapi.Digest{}); len(events) != 0 {
		t.Errorf("Remove: expected no events for an absent transaction, got %v", events)
	}

	events := mp.Remove(first.ID())
	if len(events) != 1 || events[0].Type != model.EventRemoveTx || !events[0].Transaction.Equal(first) {
		t.Errorf("Remove: expected a single RemoveTx event, got %v", events)
	}
	if mp.Len() != 1 || mp.TotalSizeInBytes() != second.EncodedSize() {
		t.Error("Remove: size accounting out of sync")
	}

	events = mp.Clear()
	if len(events) != 1 {
		t.Errorf("Clear: expected 1 RemoveTx event, got %v", events)
	}
	if mp.Len() != 0 || mp.TotalSizeInBytes() != 0 {
		t.Error("Clear: mempool not empty")
	}
}

func TestGetSortedIterDescending(t *testing.T) {
	mp := newTestMempool(nil, externalapi.Digest{})

	fees := []externalapi.Amount{5, 1, 9, 3}
	for i, fee := range fees {
		mp.Insert(buildTestTransaction(testTransactionOptions{
			fee: fee, inputRuns: []uint64{uint64(i) * 1000},
		}), model.TransactionOriginForeign)
	}

	sorted := mp.GetSortedIter()
	if len(sorted) != len(fees) {
		t.Fatalf("GetSortedIter: expected %d transactions, got %d", len(fees), len(sorted))
	}
	for i := 1; i < len(sorted); i++ {
		if sorted[i-1].FeeDensity().Cmp(sorted[i].FeeDensity()) < 0 {
			t.Fatalf("GetSortedIter: not in descending fee-density order at position %d", i)
		}
	}
}

func TestNumOwnTransactions(t *testing.T) {
	mp := newTestMempool(nil, externalapi.Digest{})

	mp.Insert(buildTestTransaction(testTransactionOptions{fee: 1, inputRuns: []uint64{0}}),
		model.TransactionOriginOwn)
	mp.Insert(buildTestTransaction(testTransactionOptions{fee: 2, inputRuns: []uint64{1000}}),
		model.TransactionOriginForeign)
	mp.Insert(buildTestTransaction(testTransactionOptions{fee: 3, inputRuns: []uint64{2000}}),
		model.TransactionOriginOwn)

	if got := mp.NumOwnTransactions(); got != 2 {
		t.Errorf("NumOwnTransactions: expected 2, got %d", got)
	}
}

func TestContainsWithHigherProofQuality(t *testing.T) {
	mp := newTestMempool(nil, externalapi.Digest{})
	transaction := buildTestTransaction(testTransactionOptions{
		tier: externalapi.ProofTierProofCollection, fee: 1,
	})
	mp.Insert(transaction, model.TransactionOriginForeign)

	if !mp.ContainsWithHigherProofQuality(transaction.ID(), externalapi.ProofTierWitness) {
		t.Error("expected true for a tier below the resident's")
	}
	if !mp.ContainsWithHigherProofQuality(transaction.ID(), externalapi.ProofTierProofCollection) {
		t.Error("expected true for the resident's own tier")
	}
	if mp.ContainsWithHigherProofQuality(transaction.ID(), externalapi.ProofTierSingleProof) {
		t.Error("expected false for a tier above the resident's")
	}
	if mp.ContainsWithHigherProofQuality(externalapi.Digest{}, externalapi.ProofTierWitness) {
		t.Error("expected false for an absent transaction")
	}
}
