package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/disdrometer-etl/internal/domain"
	"github.com/couchcryptid/disdrometer-etl/internal/observability"
	"github.com/couchcryptid/storm-data-shared/retry"
)

// BatchExtractor reads up to batchSize raw files from the source.
type BatchExtractor interface {
	ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawFile, error)
}

// Transformer converts a raw file into a drop size distribution.
type Transformer interface {
	Transform(ctx context.Context, raw domain.RawFile) (*domain.DropSizeDistribution, error)
}

// BatchLoader writes multiple distributions to the destination.
type BatchLoader interface {
	LoadBatch(ctx context.Context, dsds []*domain.DropSizeDistribution) error
}

// Status is a snapshot of pipeline progress.
type Status struct {
	FilesLoaded   int64     `json:"files_loaded"`
	FilesSkipped  int64     `json:"files_skipped"`
	LastFile      string    `json:"last_file,omitempty"`
	LastDatasetID string    `json:"last_dataset_id,omitempty"`
	LastLoadedAt  time.Time `json:"last_loaded_at,omitzero"`
	LastIntervals int       `json:"last_intervals"`
}

// Pipeline orchestrates the extract-transform-load loop.
type Pipeline struct {
	extractor    BatchExtractor
	transformer  Transformer
	loader       BatchLoader
	logger       *slog.Logger
	metrics      *observability.Metrics
	ready        atomic.Bool
	batchSize    int
	pollInterval time.Duration

	mu     sync.Mutex
	status Status
}

// New creates a Pipeline with the given stages and observability. An empty
// batch waits pollInterval before the next extract.
func New(e BatchExtractor, t Transformer, l BatchLoader, logger *slog.Logger, metrics *observability.Metrics, batchSize int, pollInterval time.Duration) *Pipeline {
	return &Pipeline{
		extractor:    e,
		transformer:  t,
		loader:       l,
		logger:       logger,
		metrics:      metrics,
		batchSize:    batchSize,
		pollInterval: pollInterval,
	}
}

// CheckReadiness returns nil if the pipeline has loaded at least one file,
// or an error describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not loaded any files yet")
	}
	return nil
}

// Status returns a copy of the current progress counters.
func (p *Pipeline) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// Run executes the batch ETL loop until the context is cancelled.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started", "batch_size", p.batchSize, "poll_interval", p.pollInterval)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	// Exponential backoff: start at 200ms, double each retry, cap at 5s.
	backoff := 200 * time.Millisecond
	maxBackoff := 5 * time.Second

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		default:
		}

		if !p.processBatch(ctx, &backoff, maxBackoff) {
			return nil
		}
	}
}

// processBatch runs one extract-transform-load cycle. Returns false if the pipeline should stop.
func (p *Pipeline) processBatch(ctx context.Context, backoff *time.Duration, maxBackoff time.Duration) bool {
	start := time.Now()

	rawBatch, err := p.extractor.ExtractBatch(ctx, p.batchSize)
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		p.logger.Error("extract batch failed", "error", err)
		return p.backoffOrStop(ctx, backoff, maxBackoff)
	}

	if len(rawBatch) == 0 {
		return retry.SleepWithContext(ctx, p.pollInterval)
	}

	p.metrics.FilesConsumed.Add(float64(len(rawBatch)))
	p.metrics.BatchSize.Observe(float64(len(rawBatch)))
	*backoff = 200 * time.Millisecond

	loaded, ok := p.transformAndLoad(ctx, rawBatch, backoff, maxBackoff)
	if !ok {
		return false
	}

	if loaded > 0 {
		p.metrics.BatchProcessingDuration.Observe(time.Since(start).Seconds())
		p.ready.Store(true)
	}
	return true
}

// transformAndLoad transforms each file in the batch, loads the successes,
// and commits them. Files that fail to transform are committed as well so a
// broken file is not retried forever. Returns the number of loaded files and
// false if the pipeline should stop.
func (p *Pipeline) transformAndLoad(ctx context.Context, rawBatch []domain.RawFile, backoff *time.Duration, maxBackoff time.Duration) (int, bool) {
	outBatch := make([]*domain.DropSizeDistribution, 0, len(rawBatch))
	successfulRaws := make([]domain.RawFile, 0, len(rawBatch))

	for _, raw := range rawBatch {
		dsd, err := p.transformer.Transform(ctx, raw)
		if err != nil {
			if ctx.Err() != nil {
				return 0, false
			}
			p.logger.Warn("transform failed, skipping file", "error", err, "file", raw.Name)
			p.metrics.TransformErrors.Inc()
			p.commit(ctx, raw)
			p.mu.Lock()
			p.status.FilesSkipped++
			p.mu.Unlock()
			continue
		}
		outBatch = append(outBatch, dsd)
		successfulRaws = append(successfulRaws, raw)
	}

	if len(outBatch) == 0 {
		return 0, true
	}

	if err := p.loader.LoadBatch(ctx, outBatch); err != nil {
		p.logger.Error("load batch failed", "error", err, "batch_size", len(outBatch))
		return 0, p.backoffOrStop(ctx, backoff, maxBackoff)
	}

	intervals := 0
	for _, dsd := range outBatch {
		intervals += dsd.Len()
	}
	p.metrics.IntervalsProduced.Add(float64(intervals))

	for _, raw := range successfulRaws {
		p.commit(ctx, raw)
	}

	last := outBatch[len(outBatch)-1]
	p.mu.Lock()
	p.status.FilesLoaded += int64(len(outBatch))
	p.status.LastFile = successfulRaws[len(successfulRaws)-1].Name
	p.status.LastDatasetID = last.ID
	p.status.LastIntervals = last.Len()
	p.status.LastLoadedAt = last.ProcessedAt
	p.mu.Unlock()

	return len(outBatch), true
}

// backoffOrStop checks for context cancellation, sleeps with the current backoff,
// and advances the backoff. Returns false if the pipeline should stop.
func (p *Pipeline) backoffOrStop(ctx context.Context, backoff *time.Duration, maxBackoff time.Duration) bool {
	if ctx.Err() != nil {
		return false
	}
	if !retry.SleepWithContext(ctx, *backoff) {
		return false
	}
	*backoff = retry.NextBackoff(*backoff, maxBackoff)
	return true
}

// commit marks the file processed if a commit function is available.
func (p *Pipeline) commit(ctx context.Context, raw domain.RawFile) {
	if raw.Commit == nil {
		return
	}
	if err := raw.Commit(ctx); err != nil {
		p.logger.Warn("commit file failed", "error", err, "file", raw.Name)
	}
}
