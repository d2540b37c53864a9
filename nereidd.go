package main

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"

	"github.com/nereidnetwork/nereidd/chainparams"
	"github.com/nereidnetwork/nereidd/domain/consensus/model/externalapi"
	"github.com/nereidnetwork/nereidd/domain/consensus/processes/blockvalidator"
	"github.com/nereidnetwork/nereidd/domain/miningmanager/mempool"
	"github.com/nereidnetwork/nereidd/domain/miningmanager/mempool/model"
	"github.com/nereidnetwork/nereidd/infrastructure/config"
	"github.com/nereidnetwork/nereidd/infrastructure/db/blockdb"
)

const updateJobQueueSize = 256

// pendingUpdateJob couples an update-job description with the tip it was
// produced for, so a result arriving after the tip moved again can be
// recognized as stale and discarded.
type pendingUpdateJob struct {
	job       *model.UpdateMutatorSetDataJob
	targetTip externalapi.Digest
}

// nereidd owns the shared node state: the chain tip and the mempool.
// All access goes through its mutex; the validator and mempool themselves
// are lock-free and rely on this exclusivity.
type nereidd struct {
	cfg          *config.Config
	params       *chainparams.Params
	db           *blockdb.BlockDB
	validator    blockvalidator.BlockValidator
	mempool      *mempool.Mempool
	proofUpdater proofUpdater

	stateMutex sync.Mutex
	tip        *externalapi.Block

	updateJobs chan pendingUpdateJob
	quit       chan struct{}

	started, shutdown int32
}

func newNereidd(cfg *config.Config, db *blockdb.BlockDB) (*nereidd, error) {
	params := cfg.NetParams()

	tip, err := loadOrCreateTip(db, params)
	if err != nil {
		return nil, err
	}

	mempoolConfig := mempool.DefaultConfig()
	mempoolConfig.MaximumMempoolSizeInBytes = int(cfg.MaxMempoolBytes)
	mempoolConfig.MaximumTransactionCount = cfg.MaxMempoolCount

	return &nereidd{
		cfg:          cfg,
		params:       params,
		db:           db,
		validator:    blockvalidator.New(params, structuralProofVerifier{}),
		mempool:      mempool.New(mempoolConfig, params, tip.Digest()),
		proofUpdater: noProofUpdater{},
		tip:          tip,
		updateJobs:   make(chan pendingUpdateJob, updateJobQueueSize),
		quit:         make(chan struct{}),
	}, nil
}

// loadOrCreateTip restores the persisted tip, falling back to storing and
// adopting the network's genesis block on first start.
func loadOrCreateTip(db *blockdb.BlockDB, params *chainparams.Params) (*externalapi.Block, error) {
	tipDigest, found, err := db.Tip()
	if err != nil {
		return nil, err
	}
	if found {
		tip, ok, err := db.FetchBlock(tipDigest)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errors.Errorf("tip block %s is missing from the block database", tipDigest)
		}
		log.Infof("Restored tip %s at height %d", tip.Digest(), tip.Height())
		return tip, nil
	}

	genesis := params.GenesisBlock()
	if err := db.StoreBlock(genesis); err != nil {
		return nil, err
	}
	if err := db.SetTip(genesis.Digest()); err != nil {
		return nil, err
	}
	log.Infof("Initialized block database with genesis %s", genesis.Digest())
	return genesis, nil
}

// start launches the daemon's background workers.
func (n *nereidd) start() {
	if atomic.AddInt32(&n.started, 1) != 1 {
		return
	}
	log.Trace("Starting nereidd")
	go n.updateJobWorker()
}

// stop gracefully shuts the daemon down.
func (n *nereidd) stop() {
	if atomic.AddInt32(&n.shutdown, 1) != 1 {
		log.Warn("Nereidd is already in the process of shutting down")
		return
	}
	log.Warn("Nereidd shutting down")
	close(n.quit)
}

// handleBlock processes one incoming or self-produced block: validate it
// against its predecessor, check proof-of-work, run fork choice against
// the current tip and, if it wins, adopt it and resynchronize the mempool.
// A rejected block is not an error; only infrastructure failures are.
func (n *nereidd) handleBlock(ctx context.Context, incoming *externalapi.Block) error {
	n.stateMutex.Lock()
	defer n.stateMutex.Unlock()

	predecessor, err := n.predecessorOf(incoming)
	if err != nil {
		return err
	}
	if predecessor == nil {
		log.Infof("Ignoring orphan block %s: unknown predecessor %s",
			incoming.Digest(), incoming.Header().PrevBlockDigest)
		return nil
	}

	now := externalapi.TimestampFromTime(time.Now())
	if !n.validator.IsValid(ctx, incoming, predecessor, now) {
		return nil
	}
	predecessorHeader := predecessor.Header()
	if !n.validator.HasProofOfWork(incoming, &predecessorHeader) {
		log.Warnf("Block %s does not meet its proof-of-work target", incoming.Digest())
		return nil
	}

	// Persist every valid block; a losing fork block may still become a
	// predecessor later.
	if err := n.db.StoreBlock(incoming); err != nil {
		return err
	}

	if blockvalidator.ForkChoice(n.tip, incoming) != incoming {
		log.Debugf("Block %s is valid but loses fork choice to current tip %s",
			incoming.Digest(), n.tip.Digest())
		return nil
	}

	n.tip = incoming
	if err := n.db.SetTip(incoming.Digest()); err != nil {
		return err
	}

	events, jobs := n.mempool.UpdateWithBlockAndPredecessor(
		incoming, predecessor, n.provingCapability(), n.cfg.Compose)
	logMempoolEvents(events)
	for _, job := range jobs {
		select {
		case n.updateJobs <- pendingUpdateJob{job: job, targetTip: incoming.Digest()}:
		default:
			log.Warnf("Update job queue is full; dropping proof update for kernel %s",
				job.Kernel.ID())
		}
	}

	log.Infof("Adopted block %s at height %d (%d mempool events, %d update jobs)",
		incoming.Digest(), incoming.Height(), len(events), len(jobs))
	return nil
}

// submitTransaction offers a transaction to the mempool.
func (n *nereidd) submitTransaction(transaction *externalapi.Transaction,
	origin model.TransactionOrigin) []model.MempoolEvent {

	n.stateMutex.Lock()
	defer n.stateMutex.Unlock()
	events := n.mempool.Insert(transaction, origin)
	logMempoolEvents(events)
	return events
}

// predecessorOf resolves the block an incoming block claims to extend:
// the current tip, a stored fork block, or nil for an orphan.
func (n *nereidd) predecessorOf(incoming *externalapi.Block) (*externalapi.Block, error) {
	predecessorDigest := incoming.Header().PrevBlockDigest
	if predecessorDigest.Equal(n.tip.Digest()) {
		return n.tip, nil
	}
	predecessor, found, err := n.db.FetchBlock(predecessorDigest)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return predecessor, nil
}

// provingCapability reports the strongest transaction proof this node can
// regenerate. Composing nodes run a prover; others can only gossip.
func (n *nereidd) provingCapability() model.TxProvingCapability {
	if n.cfg.Compose {
		return model.CapabilitySingleProof
	}
	return model.CapabilityWitness
}

// updateJobWorker executes proof-update jobs off the state lock. Results
// for a tip that has since been superseded are discarded.
func (n *nereidd) updateJobWorker() {
	for {
		select {
		case pending := <-n.updateJobs:
			n.executeUpdateJob(pending)
		case <-n.quit:
			return
		}
	}
}

func (n *nereidd) executeUpdateJob(pending pendingUpdateJob) {
	job := pending.job
	updated, err := n.proofUpdater.UpdateProof(job)
	if err != nil {
		log.Debugf("Dropping proof update for kernel %s: %s", job.Kernel.ID(), err)
		return
	}

	n.stateMutex.Lock()
	defer n.stateMutex.Unlock()
	if !n.mempool.Tip().Equal(pending.targetTip) {
		log.Debugf("Discarding stale proof update for kernel %s: tip moved from %s to %s",
			job.Kernel.ID(), pending.targetTip, n.mempool.Tip())
		return
	}
	logMempoolEvents(n.mempool.Insert(updated, job.Origin))
}

func logMempoolEvents(events []model.MempoolEvent) {
	for _, event := range events {
		log.Debugf("Mempool event %s for transaction %s", event.Type, event.Transaction.ID())
	}
}
