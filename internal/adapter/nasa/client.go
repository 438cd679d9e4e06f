// Package nasa adapts the NASA CNEOS Fireball API to the canonical event model.
package nasa

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/couchcryptid/meteor-watch/internal/config"
	"github.com/couchcryptid/meteor-watch/internal/domain"
	"github.com/couchcryptid/meteor-watch/internal/fetch"
	"github.com/couchcryptid/meteor-watch/internal/observability"
)

const dateLayout = "2006-01-02"

// fireballColumns is the fixed positional layout of one API data row:
// date, energy, impact-e, lat, lon, alt, vel.
const fireballColumns = 7

// Client fetches and normalizes fireball events. It implements
// pipeline.Source.
type Client struct {
	baseURL string
	fetcher *fetch.Client
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewClient creates the NASA fireball source adapter.
func NewClient(cfg *config.Config, fetcher *fetch.Client, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		baseURL: cfg.NASABaseURL,
		fetcher: fetcher,
		logger:  logger,
		metrics: metrics,
	}
}

// Name returns the source tag used in event payloads and metrics.
func (c *Client) Name() string { return "nasa" }

// Fetch retrieves fireball events for the window. On any adapter-level
// failure, or when the upstream reports no rows at all, it returns the
// built-in sample events so the map is never empty; individual malformed rows
// are skipped without affecting the batch.
func (c *Client) Fetch(ctx context.Context, start, end time.Time) ([]domain.MeteorEvent, error) {
	params := url.Values{
		"date-min": {start.UTC().Format(dateLayout)},
		"date-max": {end.UTC().Format(dateLayout)},
		"req-loc":  {"true"},
		"req-alt":  {"true"},
		"req-vel":  {"true"},
	}

	body, err := c.fetcher.Get(ctx, c.baseURL, params)
	if err != nil {
		c.logger.Warn("fireball fetch failed, serving samples", "error", err)
		c.metrics.SourceFetches.WithLabelValues(c.Name(), "fallback").Inc()
		return SampleEvents(), nil
	}

	var resp response
	if err := json.Unmarshal(body, &resp); err != nil {
		c.logger.Warn("fireball response undecodable, serving samples", "error", err)
		c.metrics.SourceFetches.WithLabelValues(c.Name(), "fallback").Inc()
		return SampleEvents(), nil
	}

	if len(resp.Data) == 0 {
		c.logger.Info("fireball response empty, serving samples")
		c.metrics.SourceFetches.WithLabelValues(c.Name(), "fallback").Inc()
		return SampleEvents(), nil
	}

	events := make([]domain.MeteorEvent, 0, len(resp.Data))
	for _, row := range resp.Data {
		rec, err := recordFromRow(row)
		if err != nil {
			c.metrics.RecordsSkipped.WithLabelValues(c.Name(), "parse").Inc()
			c.logger.Debug("skipping malformed fireball row", "error", err)
			continue
		}

		event, err := domain.NormalizeFireball(rec)
		if err != nil {
			reason := "parse"
			if errors.Is(err, domain.ErrBelowMagnitude) {
				reason = "magnitude"
			}
			c.metrics.RecordsSkipped.WithLabelValues(c.Name(), reason).Inc()
			c.logger.Debug("skipping fireball record", "reason", reason, "error", err)
			continue
		}

		events = append(events, event)
	}

	c.metrics.SourceFetches.WithLabelValues(c.Name(), "live").Inc()
	c.logger.Info("fireball fetch complete", "rows", len(resp.Data), "events", len(events))
	return events, nil
}

// recordFromRow converts one positional API row into a RawFireball. Rows that
// are not 7-tuples are malformed; null cells become empty strings.
func recordFromRow(row []any) (domain.RawFireball, error) {
	if len(row) != fireballColumns {
		return domain.RawFireball{}, fmt.Errorf("expected %d columns, got %d", fireballColumns, len(row))
	}
	return domain.RawFireball{
		Date:         cellString(row[0]),
		Energy:       cellString(row[1]),
		ImpactEnergy: cellString(row[2]),
		Lat:          cellString(row[3]),
		Lon:          cellString(row[4]),
		Altitude:     cellString(row[5]),
		Velocity:     cellString(row[6]),
	}, nil
}

// cellString renders an API cell as a string. The API documents string cells,
// but nulls appear for unreported fields and some mirrors emit bare numbers.
func cellString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return fmt.Sprintf("%g", t)
	default:
		return fmt.Sprint(t)
	}
}

// NASA fireball API response shape.
type response struct {
	Count  any      `json:"count"` // string in v1, number in some mirrors
	Fields []string `json:"fields"`
	Data   [][]any  `json:"data"`
}

// SampleEvents returns the two illustrative events served when the upstream
// is unreachable or empty, preserving a non-empty demo response. Their type
// tag is intentionally lowercase to mark them as canned data.
func SampleEvents() []domain.MeteorEvent {
	samples := []struct {
		date     string
		lat, lng float64
		mag, vel float64
	}{
		{date: "2025-06-15 12:00:00", lat: 34.05, lng: -118.24, mag: 5.2, vel: 28.7},
		{date: "2025-06-14 08:30:00", lat: 51.5, lng: -0.12, mag: 3.8, vel: 18.3},
	}

	events := make([]domain.MeteorEvent, 0, len(samples))
	for _, s := range samples {
		events = append(events, domain.MeteorEvent{
			ID:          domain.GenerateID("nasa", s.date, s.lat, s.lng),
			TimeUTC:     s.date,
			Lat:         s.lat,
			Lng:         s.lng,
			Magnitude:   s.mag,
			VelocityKMS: s.vel,
			Type:        "fireball",
			Source:      "nasa",
			MapLink:     fmt.Sprintf("https://www.google.com/maps?q=%g,%g", s.lat, s.lng),
			Media:       domain.EmptyMedia(),
		})
	}
	return events
}
