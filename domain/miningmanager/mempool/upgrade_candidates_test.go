package mempool

import (
	"testing"
	"time"

	"github.com/nereidnetwork/nereidd/domain/consensus/model/externalapi"
	"github.com/nereidnetwork/nereidd/domain/miningmanager/mempool/model"
)

func TestPruneStaleTransactions(t *testing.T) {
	mp := newTestMempool(nil, externalapi.Digest{})

	old := buildTestTransaction(testTransactionOptions{
		fee: 100, inputRuns: []uint64{0}, timestamp: testBaseTimestamp,
	})
	fresh := buildTestTransaction(testTransactionOptions{
		fee: 1, inputRuns: []uint64{1000}, timestamp: testBaseTimestamp.Add(2 * time.Hour),
	})
	mp.Insert(old, model.TransactionOriginOwn)
	mp.Insert(fresh, model.TransactionOriginOwn)

	// One hour past the old transaction's expiry; the fresh one has an
	// hour left.
	now := testBaseTimestamp.Add(defaultTransactionExpireInterval + time.Hour)
	events := mp.PruneStaleTransactions(now)

	if len(events) != 1 || events[0].Type != model.EventRemoveTx ||
		!events[0].Transaction.Equal(old) {
		t.Fatalf("expected a single RemoveTx for the expired transaction, got %v", events)
	}
	if mp.Contains(old.ID()) {
		t.Error("expected the expired transaction to be pruned despite its high fee")
	}
	if !mp.Contains(fresh.ID()) {
		t.Error("expected the fresh transaction to survive")
	}

	// Pruning is idempotent for a given clock reading.
	if events := mp.PruneStaleTransactions(now); len(events) != 0 {
		t.Errorf("expected no events on a second prune, got %v", events)
	}
}

func TestMostDenseProofCollection(t *testing.T) {
	syncedHash := externalapi.NewDigestFromByteArray(&[externalapi.DigestSize]byte{0x42})
	staleHash := externalapi.NewDigestFromByteArray(&[externalapi.DigestSize]byte{0x43})
	mp := newTestMempool(nil, externalapi.Digest{})

	if _, ok := mp.MostDenseProofCollection(syncedHash); ok {
		t.Error("expected no candidate in an empty mempool")
	}

	// A denser SingleProof, a denser-but-stale ProofCollection, and two
	// synced ProofCollections.
	mp.Insert(buildTestTransaction(testTransactionOptions{
		tier: externalapi.ProofTierSingleProof, fee: 100,
		inputRuns: []uint64{0}, mutatorSetHash: syncedHash,
	}), model.TransactionOriginForeign)
	mp.Insert(buildTestTransaction(testTransactionOptions{
		tier: externalapi.ProofTierProofCollection, fee: 90,
		inputRuns: []uint64{1000}, mutatorSetHash: staleHash,
	}), model.TransactionOriginForeign)
	expected := buildTestTransaction(testTransactionOptions{
		tier: externalapi.ProofTierProofCollection, fee: 50,
		inputRuns: []uint64{2000}, mutatorSetHash: syncedHash,
	})
	mp.Insert(expected, model.TransactionOriginForeign)
	mp.Insert(buildTestTransaction(testTransactionOptions{
		tier: externalapi.ProofTierProofCollection, fee: 10,
		inputRuns: []uint64{3000}, mutatorSetHash: syncedHash,
	}), model.TransactionOriginForeign)

	candidate, ok := mp.MostDenseProofCollection(syncedHash)
	if !ok || !candidate.Equal(expected) {
		t.Error("expected the densest synced ProofCollection transaction")
	}
}

func TestMostDenseSingleProofPair(t *testing.T) {
	syncedHash := externalapi.NewDigestFromByteArray(&[externalapi.DigestSize]byte{0x42})
	mp := newTestMempool(nil, externalapi.Digest{})

	richest := buildTestTransaction(testTransactionOptions{
		tier: externalapi.ProofTierSingleProof, fee: 100,
		inputRuns: []uint64{0}, mutatorSetHash: syncedHash,
	})
	mp.Insert(richest, model.TransactionOriginForeign)

	// One SingleProof transaction is not enough to merge.
	if _, _, ok := mp.MostDenseSingleProofPair(syncedHash); ok {
		t.Error("expected no pair with a single candidate")
	}

	// An already-merged transaction is skipped even though it out-bids
	// the eventual second pick.
	merged := buildTestTransaction(testTransactionOptions{
		tier: externalapi.ProofTierSingleProof, fee: 90, mergeBit: true,
		inputRuns: []uint64{1000}, mutatorSetHash: syncedHash,
	})
	second := buildTestTransaction(testTransactionOptions{
		tier: externalapi.ProofTierSingleProof, fee: 50,
		inputRuns: []uint64{2000}, mutatorSetHash: syncedHash,
	})
	witness := buildTestTransaction(testTransactionOptions{
		tier: externalapi.ProofTierWitness, fee: 80,
		inputRuns: []uint64{3000}, mutatorSetHash: syncedHash,
	})
	mp.Insert(merged, model.TransactionOriginForeign)
	mp.Insert(second, model.TransactionOriginForeign)
	mp.Insert(witness, model.TransactionOriginForeign)

	first, other, ok := mp.MostDenseSingleProofPair(syncedHash)
	if !ok {
		t.Fatal("expected a pair")
	}
	if !first.Equal(richest) || !other.Equal(second) {
		t.Error("expected the two densest unmerged SingleProof transactions in order")
	}
}
