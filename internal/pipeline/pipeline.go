package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/weather-history/internal/domain"
	"github.com/couchcryptid/weather-history/internal/observability"
)

// BatchLoader writes multiple records to the destination.
type BatchLoader interface {
	LoadBatch(ctx context.Context, records []domain.Record) error
}

const (
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 5 * time.Second
)

// Publisher pushes records to a BatchLoader in fixed-size batches, retrying
// failed batches with exponential backoff.
type Publisher struct {
	loader      BatchLoader
	logger      *slog.Logger
	metrics     *observability.Metrics
	batchSize   int
	maxAttempts int
	backoff     time.Duration
}

// Result summarizes a Publish call.
type Result struct {
	Batches int `json:"batches"`
	Records int `json:"records"`
}

// New creates a Publisher. batchSize and maxAttempts below 1 are treated as 1.
func New(l BatchLoader, logger *slog.Logger, metrics *observability.Metrics, batchSize, maxAttempts int) *Publisher {
	return &Publisher{
		loader:      l,
		logger:      logger,
		metrics:     metrics,
		batchSize:   max(batchSize, 1),
		maxAttempts: max(maxAttempts, 1),
		backoff:     initialBackoff,
	}
}

// Publish sends records in order. It stops at the first batch that still
// fails after maxAttempts, returning what was published so far.
func (p *Publisher) Publish(ctx context.Context, records []domain.Record) (Result, error) {
	var res Result
	p.logger.Info("publish started", "records", len(records), "batch_size", p.batchSize)

	for start := 0; start < len(records); start += p.batchSize {
		end := min(start+p.batchSize, len(records))
		batch := records[start:end]

		if err := p.publishBatch(ctx, batch); err != nil {
			p.logger.Error("publish stopped", "error", err, "published", res.Records, "remaining", len(records)-start)
			return res, err
		}
		res.Batches++
		res.Records += len(batch)
	}

	p.logger.Info("publish finished", "records", res.Records, "batches", res.Batches)
	return res, nil
}

func (p *Publisher) publishBatch(ctx context.Context, batch []domain.Record) error {
	start := time.Now()
	backoff := p.backoff

	var err error
	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		if err = p.loader.LoadBatch(ctx, batch); err == nil {
			p.metrics.RecordsPublished.Add(float64(len(batch)))
			p.metrics.PublishBatchDuration.Observe(time.Since(start).Seconds())
			return nil
		}
		p.metrics.PublishErrors.Inc()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if errors.Is(err, domain.ErrUnencodable) {
			return fmt.Errorf("publish batch of %d: %w", len(batch), err)
		}
		p.logger.Warn("load batch failed", "error", err, "attempt", attempt, "batch_size", len(batch))
		if attempt == p.maxAttempts {
			break
		}
		if !sleepWithContext(ctx, backoff) {
			return ctx.Err()
		}
		backoff = nextBackoff(backoff, maxBackoff)
	}
	return fmt.Errorf("publish batch of %d after %d attempts: %w", len(batch), p.maxAttempts, err)
}

func nextBackoff(current, maxBackoff time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
