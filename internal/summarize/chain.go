// Package summarize produces public-facing alert descriptions through an
// ordered chain of text-generation providers with a fixed placeholder as the
// terminal fallback.
package summarize

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/quake-alert-etl/internal/domain"
	"github.com/couchcryptid/quake-alert-etl/internal/observability"
)

// Provider is one summarization backend in the fallback chain.
type Provider interface {
	// Name labels the provider in logs and metrics.
	Name() string

	// Attempt produces a public summary for the alert. An error makes the
	// chain fall through to the next provider.
	Attempt(ctx context.Context, alert domain.NormalizedAlert) (string, error)
}

// Chain tries providers in fixed order and degrades to a placeholder when
// none succeeds. Enrichment is a convenience, not a correctness requirement:
// an unreachable or unauthenticated provider must never stall publication,
// so Summarize swallows every provider error.
type Chain struct {
	providers []Provider
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// NewChain creates a Chain over the given providers. An empty provider list
// is valid and yields placeholder summaries for every alert.
func NewChain(logger *slog.Logger, metrics *observability.Metrics, providers ...Provider) *Chain {
	return &Chain{
		providers: providers,
		logger:    logger,
		metrics:   metrics,
	}
}

// Summarize returns the first provider's successful summary, or the fixed
// placeholder when every provider fails or none is configured. It never
// returns an error.
func (c *Chain) Summarize(ctx context.Context, alert domain.NormalizedAlert) string {
	for _, p := range c.providers {
		text, err := p.Attempt(ctx, alert)
		if err != nil {
			c.logger.Warn("summary provider failed, falling through",
				"provider", p.Name(), "error", err)
			continue
		}
		c.metrics.SummarySource.WithLabelValues(p.Name()).Inc()
		return text
	}

	c.metrics.SummarySource.WithLabelValues("placeholder").Inc()
	return domain.PlaceholderSummary
}
