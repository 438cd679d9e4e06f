// Package pipeline orchestrates the per-request fetch, merge, sort, and
// enrichment cycle. The aggregator holds no mutable state; every request owns
// its own pass through the pipeline.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/couchcryptid/meteor-watch/internal/domain"
	"github.com/couchcryptid/meteor-watch/internal/observability"
)

// Source is one upstream provider adapter.
type Source interface {
	Name() string
	Fetch(ctx context.Context, start, end time.Time) ([]domain.MeteorEvent, error)
}

// Aggregator fans out to all configured sources, merges and orders their
// events, and drives media enrichment.
type Aggregator struct {
	sources []Source
	images  domain.ImageSearcher
	videos  domain.VideoSearcher
	logger  *slog.Logger
	metrics *observability.Metrics
}

// New creates an Aggregator. Pass nil searchers to disable the corresponding
// media enrichment.
func New(sources []Source, images domain.ImageSearcher, videos domain.VideoSearcher, logger *slog.Logger, metrics *observability.Metrics) *Aggregator {
	return &Aggregator{
		sources: sources,
		images:  images,
		videos:  videos,
		logger:  logger,
		metrics: metrics,
	}
}

// Events runs one aggregation cycle for the window. Sources are queried
// concurrently and a failing source contributes an empty list without
// aborting its siblings. The merged list is sorted by time_utc descending
// (plain string comparison), de-duplicated by ID, and then enriched with
// media sequentially; enrichment only fills in a field and never reorders.
func (a *Aggregator) Events(ctx context.Context, win domain.Window) ([]domain.MeteorEvent, error) {
	started := time.Now()

	results := make([][]domain.MeteorEvent, len(a.sources))
	g, gctx := errgroup.WithContext(ctx)
	for i, src := range a.sources {
		g.Go(func() error {
			events, err := src.Fetch(gctx, win.Start, win.End)
			if err != nil {
				// Partial failure policy: log and move on with nothing
				// from this source.
				a.logger.Error("source fetch failed", "source", src.Name(), "error", err)
				return nil
			}
			results[i] = events
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("aggregate: %w", err)
	}

	merged := make([]domain.MeteorEvent, 0)
	for _, events := range results {
		merged = append(merged, events...)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].TimeUTC > merged[j].TimeUTC
	})
	ensureUniqueIDs(merged)

	for i := range merged {
		merged[i] = domain.EnrichWithMedia(ctx, merged[i], a.images, a.videos, a.logger)
	}

	a.metrics.RequestDuration.Observe(time.Since(started).Seconds())
	a.metrics.EventsReturned.Observe(float64(len(merged)))
	a.logger.Info("aggregation complete",
		"events", len(merged),
		"sources", len(a.sources),
		"duration_ms", time.Since(started).Milliseconds(),
	)
	return merged, nil
}

// ensureUniqueIDs suffixes repeated IDs with an occurrence counter so IDs are
// unique within one response. Deterministic hashes collide when distinct
// upstream rows share time and coordinates.
func ensureUniqueIDs(events []domain.MeteorEvent) {
	seen := make(map[string]int, len(events))
	for i := range events {
		id := events[i].ID
		seen[id]++
		if n := seen[id]; n > 1 {
			events[i].ID = fmt.Sprintf("%s-%d", id, n)
		}
	}
}
