// Package ams adapts a meteor-society style report API to the canonical
// event model. It is a feature-flagged secondary source; unlike the NASA
// adapter it has no sample fallback and simply yields nothing on failure.
package ams

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"github.com/couchcryptid/meteor-watch/internal/config"
	"github.com/couchcryptid/meteor-watch/internal/domain"
	"github.com/couchcryptid/meteor-watch/internal/fetch"
	"github.com/couchcryptid/meteor-watch/internal/observability"
)

const dateLayout = "2006-01-02"

// Client fetches and normalizes meteor-society reports. It implements
// pipeline.Source.
type Client struct {
	baseURL string
	limit   int
	fetcher *fetch.Client
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewClient creates the meteor-society source adapter.
func NewClient(cfg *config.Config, fetcher *fetch.Client, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		baseURL: cfg.AMSBaseURL,
		limit:   cfg.AMSLimit,
		fetcher: fetcher,
		logger:  logger,
		metrics: metrics,
	}
}

// Name returns the source tag used in event payloads and metrics.
func (c *Client) Name() string { return "ams" }

// Fetch retrieves reports for the window. Individual unparseable reports are
// skipped; an unreachable or undecodable upstream surfaces as an error and
// the aggregator treats the source as empty for this request.
func (c *Client) Fetch(ctx context.Context, start, end time.Time) ([]domain.MeteorEvent, error) {
	params := url.Values{
		"start_date": {start.UTC().Format(dateLayout)},
		"end_date":   {end.UTC().Format(dateLayout)},
		"limit":      {strconv.Itoa(c.limit)},
	}

	body, err := c.fetcher.Get(ctx, c.baseURL, params)
	if err != nil {
		c.metrics.SourceFetches.WithLabelValues(c.Name(), "error").Inc()
		return nil, fmt.Errorf("ams fetch: %w", err)
	}

	reports, err := decodeReports(body)
	if err != nil {
		c.metrics.SourceFetches.WithLabelValues(c.Name(), "error").Inc()
		return nil, fmt.Errorf("ams decode: %w", err)
	}

	events := make([]domain.MeteorEvent, 0, len(reports))
	for _, rec := range reports {
		event, err := domain.NormalizeReport(rec)
		if err != nil {
			reason := "parse"
			if errors.Is(err, domain.ErrBelowMagnitude) {
				reason = "magnitude"
			}
			c.metrics.RecordsSkipped.WithLabelValues(c.Name(), reason).Inc()
			c.logger.Debug("skipping report", "reason", reason, "error", err)
			continue
		}
		events = append(events, event)
	}

	outcome := "live"
	if len(events) == 0 {
		outcome = "empty"
	}
	c.metrics.SourceFetches.WithLabelValues(c.Name(), outcome).Inc()
	c.logger.Info("report fetch complete", "reports", len(reports), "events", len(events))
	return events, nil
}

// decodeReports accepts either a bare JSON array or the {"results": [...]}
// wrapper some provider deployments use.
func decodeReports(body []byte) ([]domain.RawReport, error) {
	var reports []domain.RawReport
	if err := json.Unmarshal(body, &reports); err == nil {
		return reports, nil
	}

	var wrapped struct {
		Results []domain.RawReport `json:"results"`
	}
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return nil, err
	}
	return wrapped.Results, nil
}
