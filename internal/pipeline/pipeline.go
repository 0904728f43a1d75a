// Package pipeline orchestrates the fetch-normalize-summarize-persist-publish
// cycle for earthquake alerts.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/quake-alert-etl/internal/domain"
	"github.com/couchcryptid/quake-alert-etl/internal/observability"
)

// FeedFetcher retrieves the raw event collection from the upstream feed.
type FeedFetcher interface {
	FetchFeed(ctx context.Context) ([]domain.RawFeedItem, error)
}

// Summarizer produces a public description for a normalized alert. It never
// fails; implementations degrade internally to a placeholder.
type Summarizer interface {
	Summarize(ctx context.Context, alert domain.NormalizedAlert) string
}

// AlertStore persists one alert record keyed by its id.
type AlertStore interface {
	PutAlert(ctx context.Context, record domain.AlertRecord) error
}

// SnapshotPublisher overwrites the public snapshot with the given batch.
type SnapshotPublisher interface {
	PublishSnapshot(ctx context.Context, records []domain.AlertRecord) error
}

// Pipeline sequences one invocation: fetch, process each item, sort,
// truncate, publish. All cross-invocation state lives in the durable store
// and the published snapshot.
type Pipeline struct {
	fetcher    FeedFetcher
	summarizer Summarizer
	store      AlertStore
	publisher  SnapshotPublisher
	logger     *slog.Logger
	metrics    *observability.Metrics
	ready      atomic.Bool

	maxItems int
	keep     int
	interval time.Duration
}

// New creates a Pipeline. maxItems bounds how many feed items one invocation
// processes; keep bounds the published snapshot size.
func New(f FeedFetcher, s Summarizer, st AlertStore, pub SnapshotPublisher,
	logger *slog.Logger, metrics *observability.Metrics,
	maxItems, keep int, interval time.Duration) *Pipeline {
	return &Pipeline{
		fetcher:    f,
		summarizer: s,
		store:      st,
		publisher:  pub,
		logger:     logger,
		metrics:    metrics,
		maxItems:   maxItems,
		keep:       keep,
		interval:   interval,
	}
}

// CheckReadiness returns nil once at least one invocation has completed
// successfully, or an error describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("no invocation has completed yet")
	}
	return nil
}

// Run executes an invocation immediately and then on every interval tick
// until the context is cancelled. Invocations run sequentially on this
// goroutine, so at most one is in flight at a time.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started",
		"interval", p.interval, "max_items", p.maxItems, "keep", p.keep)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		p.RunOnce(ctx)

		select {
		case <-ctx.Done():
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		case <-ticker.C:
		}
	}
}

// RunOnce performs a single invocation and always returns a structured
// result, never an error. Only the feed fetch is fatal to the run, and even
// then a valid empty snapshot is published so consumers never observe a
// stale or broken artifact.
func (p *Pipeline) RunOnce(ctx context.Context) domain.Result {
	start := time.Now()
	defer func() {
		p.metrics.RunDuration.Observe(time.Since(start).Seconds())
	}()

	items, err := p.fetcher.FetchFeed(ctx)
	if err != nil {
		p.logger.Error("feed fetch failed, publishing empty snapshot", "error", err)
		p.metrics.RunsTotal.WithLabelValues("fetch_error").Inc()
		p.publish(ctx, nil)
		return domain.ErrorResult(fmt.Errorf("feed fetch failed: %w", err))
	}

	p.metrics.FeedBatchSize.Observe(float64(len(items)))
	if len(items) > p.maxItems {
		items = items[:p.maxItems]
	}

	// One shared timestamp for the whole batch: created_at marks the
	// invocation, not the event.
	now := domain.Now().UTC()
	createdAt := now.Format(time.RFC3339)

	records := make([]domain.AlertRecord, 0, len(items))
	for _, item := range items {
		alert := domain.Normalize(item, now)
		record := domain.AlertRecord{
			ID:        domain.DeriveID(alert.TimeUTC, alert.Place, alert.Magnitude),
			CreatedAt: createdAt,
			Type:      domain.EventTypeEarthquake,
			Data:      alert,
			Summary:   p.summarizer.Summarize(ctx, alert),
		}

		// Durability is auxiliary: a failed write is logged and the record
		// still makes the published snapshot.
		if err := p.store.PutAlert(ctx, record); err != nil {
			p.logger.Warn("persist alert failed", "id", record.ID, "error", err)
			p.metrics.PersistFailures.Inc()
		}

		records = append(records, record)
		p.metrics.AlertsProcessed.Inc()
	}

	// created_at is shared within a run, so the stable sort preserves feed
	// order here; the descending contract matters when snapshots compose
	// records from different runs.
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt > records[j].CreatedAt
	})
	if len(records) > p.keep {
		records = records[:p.keep]
	}

	p.publish(ctx, records)

	p.metrics.RunsTotal.WithLabelValues("success").Inc()
	p.metrics.SnapshotSize.Set(float64(len(records)))
	p.ready.Store(true)
	p.logger.Info("invocation complete",
		"published", len(records), "duration", time.Since(start))
	return domain.SuccessResult(len(records))
}

// publish writes the snapshot best-effort; the next scheduled run is the
// retry policy.
func (p *Pipeline) publish(ctx context.Context, records []domain.AlertRecord) {
	if records == nil {
		records = []domain.AlertRecord{}
	}
	if err := p.publisher.PublishSnapshot(ctx, records); err != nil {
		p.logger.Error("publish snapshot failed", "error", err)
		p.metrics.PublishFailures.Inc()
	}
}
