// Package worker implements the buffered worker pool for async match
// ingestion. This decouples HTTP request handling from disk writes,
// providing:
// - Backpressure handling via load shedding
// - Batched partition writes for the training data directory
// - Graceful shutdown with flush guarantees

package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/draftwise/draft-api/internal/models"
)

// Prometheus metrics
var (
	matchesIngested = promauto.NewCounter(prometheus.CounterOpts{
		Name: "draft_matches_ingested_total",
		Help: "Total number of match records accepted into the queue",
	})

	matchesWritten = promauto.NewCounter(prometheus.CounterOpts{
		Name: "draft_matches_written_total",
		Help: "Total number of match records written to partitions",
	})

	matchesFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "draft_matches_failed_total",
		Help: "Total number of match records that failed to persist",
	})

	matchesDuplicate = promauto.NewCounter(prometheus.CounterOpts{
		Name: "draft_matches_duplicate_total",
		Help: "Total number of match records dropped as duplicates",
	})

	matchesLoadShed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "draft_matches_load_shed_total",
		Help: "Total number of match records dropped due to load shedding",
	})

	ingestQueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "draft_ingest_queue_depth",
		Help: "Current depth of the ingest queue",
	})

	batchWriteDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "draft_batch_write_duration_seconds",
		Help:    "Duration of batch writes to the data directory",
		Buckets: prometheus.DefBuckets,
	})
)

// Job represents a unit of work for the worker pool
type Job struct {
	Match     *models.RawMatch
	Timestamp time.Time
}

// PoolConfig configures the worker pool
type PoolConfig struct {
	WorkerCount   int
	QueueSize     int
	BatchSize     int
	FlushInterval time.Duration
	DataDir       string
	Logger        *zap.Logger
}

// Pool manages a pool of workers that batch incoming match records into
// JSON partition files under the training data directory.
type Pool struct {
	config   PoolConfig
	jobQueue chan Job
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
	logger   *zap.SugaredLogger

	seenMu sync.Mutex
	seen   map[uuid.UUID]bool
}

// NewPool creates a new worker pool
func NewPool(cfg PoolConfig) *Pool {
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 10000
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 500
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = time.Second
	}

	return &Pool{
		config:   cfg,
		jobQueue: make(chan Job, cfg.QueueSize),
		logger:   cfg.Logger.Sugar(),
		seen:     make(map[uuid.UUID]bool),
	}
}

// Start launches the worker goroutines
func (p *Pool) Start(ctx context.Context) {
	p.ctx, p.cancel = context.WithCancel(ctx)

	for i := 0; i < p.config.WorkerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}

	go p.reportQueueDepth()

	p.logger.Infow("Worker pool started",
		"workers", p.config.WorkerCount,
		"queueSize", p.config.QueueSize,
		"batchSize", p.config.BatchSize,
	)
}

// Stop gracefully shuts down the worker pool
func (p *Pool) Stop() {
	p.logger.Info("Stopping worker pool...")
	p.cancel()
	close(p.jobQueue)
	p.wg.Wait()
	p.logger.Info("Worker pool stopped")
}

// Enqueue adds a match to the queue. Duplicate match IDs are dropped.
// Returns false when the record was not accepted.
func (p *Pool) Enqueue(match *models.RawMatch) bool {
	id := normalizeMatchID(match.MatchID)

	p.seenMu.Lock()
	if p.seen[id] {
		p.seenMu.Unlock()
		matchesDuplicate.Inc()
		return false
	}
	p.seen[id] = true
	p.seenMu.Unlock()

	job := Job{Match: match, Timestamp: time.Now()}

	// Protect against sending on closed channel
	defer func() {
		if r := recover(); r != nil {
			p.logger.Warnw("Failed to enqueue match (pool stopped)", "error", r)
		}
	}()

	select {
	case p.jobQueue <- job:
		matchesIngested.Inc()
		return true
	case <-p.ctx.Done():
		p.logger.Warn("Worker pool context canceled, dropping match")
		matchesLoadShed.Inc()
		return false
	}
}

// QueueDepth returns current queue size
func (p *Pool) QueueDepth() int {
	return len(p.jobQueue)
}

// normalizeMatchID maps an arbitrary upstream match ID to a stable UUID so
// the same match is deduplicated regardless of ID format.
func normalizeMatchID(s string) uuid.UUID {
	if id, err := uuid.Parse(s); err == nil {
		return id
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(s))
}

// worker drains the queue in batches and flushes on size, tick or shutdown
func (p *Pool) worker(id int) {
	defer p.wg.Done()

	batch := make([]Job, 0, p.config.BatchSize)
	ticker := time.NewTicker(p.config.FlushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}

		start := time.Now()
		if err := p.writeBatch(batch); err != nil {
			p.logger.Errorw("Batch write failed",
				"worker", id,
				"batchSize", len(batch),
				"error", err,
			)
			matchesFailed.Add(float64(len(batch)))
		} else {
			p.logger.Infow("Batch written", "worker", id, "batchSize", len(batch), "duration", time.Since(start))
			matchesWritten.Add(float64(len(batch)))
		}
		batchWriteDuration.Observe(time.Since(start).Seconds())

		batch = batch[:0]
	}

	for {
		select {
		case job, ok := <-p.jobQueue:
			if !ok {
				flush()
				return
			}

			batch = append(batch, job)
			if len(batch) >= p.config.BatchSize {
				flush()
			}

		case <-ticker.C:
			flush()

		case <-p.ctx.Done():
			flush()
			return
		}
	}
}

// writeBatch persists a batch as one JSON partition file, day-partitioned
// so the builder can walk the tree cheaply.
func (p *Pool) writeBatch(batch []Job) error {
	matches := make([]models.RawMatch, 0, len(batch))
	for _, job := range batch {
		matches = append(matches, *job.Match)
	}

	day := batch[0].Timestamp.UTC().Format("2006-01-02")
	dir := filepath.Join(p.config.DataDir, day)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create partition dir: %w", err)
	}

	raw, err := json.Marshal(matches)
	if err != nil {
		return fmt.Errorf("failed to marshal batch: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("matches-%s.json", uuid.New().String()))
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write partition %s: %w", path, err)
	}
	return nil
}

func (p *Pool) reportQueueDepth() {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ingestQueueDepth.Set(float64(len(p.jobQueue)))
		case <-p.ctx.Done():
			return
		}
	}
}
