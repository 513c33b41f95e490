package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/atomic"
	"gorm.io/gorm"

	"github.com/SKR-SG/ASP/internal/ati"
	"github.com/SKR-SG/ASP/internal/domains"
	"github.com/SKR-SG/ASP/internal/domains/job"
	"github.com/SKR-SG/ASP/internal/engine"
	"github.com/SKR-SG/ASP/internal/feed"
	"github.com/SKR-SG/ASP/internal/framework"
	infraredis "github.com/SKR-SG/ASP/internal/infra/redis"
	"github.com/SKR-SG/ASP/internal/listing"
	"github.com/SKR-SG/ASP/internal/publish"
	"github.com/SKR-SG/ASP/internal/store"
	"github.com/SKR-SG/ASP/pkg/config"
	"github.com/SKR-SG/ASP/pkg/lmstfy"
	"github.com/SKR-SG/ASP/pkg/logger"
)

// Manager owns the worker pool and the reconcile trigger.
type Manager interface {
	Start() error
	Shutdown()
}

// ManagerInstance wires the engine and runs the consume pipelines.
type ManagerInstance struct {
	ctx          context.Context
	cfg          *config.Config
	db           *gorm.DB
	lmstfyClient *lmstfy.Client
	platforms    *store.PlatformStore
	workers      []Worker
	closing      *atomic.Bool
	shutdownCh   chan struct{}
	triggerStop  chan struct{}
	triggerDone  chan struct{}
	wg           sync.WaitGroup
	logger       logger.Logger
}

// NewManagerInstance creates a manager and its shared clients.
func NewManagerInstance(cfg *config.Config, log logger.Logger) (Manager, error) {
	ctx := context.Background()

	if len(cfg.Workers) == 0 {
		return nil, fmt.Errorf("at least one worker is required")
	}

	db, err := store.Open(cfg.MySQL.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	lmstfyClient, err := lmstfy.NewClient(cfg.Lmstfy.Host, cfg.Lmstfy.Port, cfg.Lmstfy.Namespace, cfg.Lmstfy.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create lmstfy client: %w", err)
	}

	return &ManagerInstance{
		ctx:          ctx,
		cfg:          cfg,
		db:           db,
		lmstfyClient: lmstfyClient,
		platforms:    store.NewPlatformStore(db),
		closing:      atomic.NewBool(false),
		shutdownCh:   make(chan struct{}),
		triggerStop:  make(chan struct{}),
		triggerDone:  make(chan struct{}),
		workers:      make([]Worker, 0),
		logger:       log,
	}, nil
}

// Start wires the engine, launches every worker and the reconcile trigger,
// then blocks until shutdown.
func (m *ManagerInstance) Start() error {
	m.logger.Infof(m.ctx, "[Manager] Starting...")

	eng, err := m.buildEngine()
	if err != nil {
		return fmt.Errorf("failed to build engine: %w", err)
	}

	if err := m.loadWorkers(eng); err != nil {
		return fmt.Errorf("failed to load workers: %w", err)
	}
	m.logger.Infof(m.ctx, "[Manager] All workers loaded, count: %d", len(m.workers))

	for _, worker := range m.workers {
		w := worker
		m.wg.Add(1)
		go func() {
			defer m.wg.Done()
			w.Start()
		}()
		m.logger.Infof(m.ctx, "[Manager] Worker started: %s", w.GetName())
	}

	go m.reconcileTrigger()

	m.logger.Infof(m.ctx, "[Manager] Start success")

	<-m.shutdownCh
	return nil
}

// Shutdown stops the trigger and drains every worker exactly once.
func (m *ManagerInstance) Shutdown() {
	m.logger.Infof(m.ctx, "[Manager] Began to close")

	if m.closing.CAS(false, true) {
		close(m.triggerStop)
		<-m.triggerDone

		for _, worker := range m.workers {
			m.logger.Infof(m.ctx, "[Manager] Shutting down worker: %s", worker.GetName())
			worker.Shutdown()
		}
		m.wg.Wait()

		if err := store.Close(m.db); err != nil {
			m.logger.Warnf(m.ctx, "[Manager] Close database failed: %v", err)
		}

		close(m.shutdownCh)
		m.logger.Infof(m.ctx, "[Manager] Shutdown complete")
	}
}

// buildEngine assembles the reconciler and binds the publish scheduler to
// it. Marketplace dictionaries are fetched once at startup.
func (m *ManagerInstance) buildEngine() (*engine.Reconciler, error) {
	orders := store.NewOrderStore(m.db)
	ruleStore := store.NewRuleStore(m.db)
	logists := store.NewLogistStore(m.db)

	atiClient := ati.NewClient(m.cfg.Ati.BaseURL, m.cfg.Ati.Token, m.cfg.Ati.BoardID, m.logger)
	feedClient := feed.NewClient(m.cfg.Feed.BaseURL, m.cfg.Feed.Token, m.logger)

	dicts, err := atiClient.Dictionaries(m.ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch dictionaries: %w", err)
	}

	contacts := ati.NewContactDirectory(atiClient, logists, m.logger)
	builder := listing.NewTransformer(atiClient, contacts, ruleStore, dicts, atiClient.BoardID())

	scheduler := publish.NewScheduler(m.lmstfyClient, m.cfg.Sync.Queue, m.cfg.Sync.PublishJobTTL, m.logger)

	rdb, err := infraredis.Dial(m.cfg.Redis.Addr, m.cfg.Redis.Password, m.cfg.Redis.DB)
	if err != nil {
		return nil, err
	}
	notifier := infraredis.NewNotifier(rdb, m.cfg.Sync.NotifyChannel)

	eng := engine.NewReconciler(orders, ruleStore, m.platforms, feedClient, atiClient, builder, scheduler, notifier, m.logger)
	scheduler.SetAction(eng.PublishOrder)

	return eng, nil
}

// loadWorkers builds one pipeline per configured worker.
func (m *ManagerInstance) loadWorkers(eng *engine.Reconciler) error {
	getProcess := domains.GetProcess(m.logger, eng)

	for _, workerCfg := range m.cfg.Workers {
		subCfg := &framework.SubscriberConfig{
			QueueName:    workerCfg.QueueName,
			Concurrency:  workerCfg.Subscriber.Threads,
			Rate:         workerCfg.Subscriber.Rate,
			Timeout:      workerCfg.Subscriber.Timeout,
			TTR:          workerCfg.Subscriber.TTR,
			ErrorBackoff: workerCfg.Subscriber.ErrorBackoff,
		}

		procCfg := &framework.ProcessorConfig{
			Concurrency: workerCfg.Processor.Threads,
			BufferSize:  workerCfg.Processor.BufferSize,
			Timeout:     workerCfg.Processor.Timeout,
		}

		worker, err := NewWorkerInstance(
			m.ctx,
			workerCfg.Name,
			subCfg,
			procCfg,
			m.lmstfyClient,
			getProcess,
			m.logger,
		)
		if err != nil {
			return fmt.Errorf("failed to create worker %s: %w", workerCfg.Name, err)
		}

		m.workers = append(m.workers, worker)
	}

	return nil
}

// reconcileTrigger enqueues one reconcile job per enabled platform on
// every tick. Going through the queue keeps triggered and scheduled runs
// on the same path and lets any worker pick them up.
func (m *ManagerInstance) reconcileTrigger() {
	defer close(m.triggerDone)

	ticker := time.NewTicker(m.cfg.Sync.Interval)
	defer ticker.Stop()

	// First pass right away, then on the interval.
	m.enqueueReconciles()

	for {
		select {
		case <-ticker.C:
			m.enqueueReconciles()
		case <-m.triggerStop:
			return
		}
	}
}

func (m *ManagerInstance) enqueueReconciles() {
	platforms, err := m.platforms.ListEnabled(m.ctx)
	if err != nil {
		m.logger.Errorf(m.ctx, "[Manager] List enabled platforms failed: %v", err)
		return
	}

	for _, platform := range platforms {
		data, err := job.NewReconcile(platform).Encode()
		if err != nil {
			m.logger.Errorf(m.ctx, "[Manager] Encode reconcile job failed: %v", err)
			continue
		}
		ttl := uint32(m.cfg.Sync.Interval.Seconds())
		if err := m.lmstfyClient.Publish(m.cfg.Sync.Queue, data, ttl, 0); err != nil {
			m.logger.Errorf(m.ctx, "[Manager] Enqueue reconcile failed for %s: %v", platform, err)
			continue
		}
		m.logger.Infof(m.ctx, "[Manager] Reconcile enqueued: %s", platform)
	}
}
