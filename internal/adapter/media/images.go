// Package media implements the best-effort image and video search clients
// used for event enrichment.
package media

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/couchcryptid/meteor-watch/internal/domain"
	"github.com/couchcryptid/meteor-watch/internal/observability"
)

const imageSourceLabel = "nasa_images"

// ImageClient searches the NASA Image and Video Library. It implements
// domain.ImageSearcher.
type ImageClient struct {
	client  *resty.Client
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewImageClient creates an image search client against the given base URL
// (https://images-api.nasa.gov in production).
func NewImageClient(baseURL string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *ImageClient {
	return &ImageClient{
		client:  resty.New().SetBaseURL(baseURL).SetTimeout(timeout),
		logger:  logger,
		metrics: metrics,
	}
}

// SearchImages returns up to limit image results for a free-text query.
func (c *ImageClient) SearchImages(ctx context.Context, query string, limit int) ([]domain.MediaItem, error) {
	var result imageSearchResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":          query,
			"media_type": "image",
			"page_size":  strconv.Itoa(limit),
		}).
		SetResult(&result).
		Get("/search")
	if err != nil {
		c.metrics.MediaLookups.WithLabelValues("image", "error").Inc()
		return nil, fmt.Errorf("image search: %w", err)
	}
	if resp.IsError() {
		c.metrics.MediaLookups.WithLabelValues("image", "error").Inc()
		return nil, fmt.Errorf("image search: status %d", resp.StatusCode())
	}

	items := make([]domain.MediaItem, 0, limit)
	for _, hit := range result.Collection.Items {
		if len(items) == limit {
			break
		}
		item, ok := imageItem(hit)
		if !ok {
			continue
		}
		items = append(items, item)
	}

	outcome := "success"
	if len(items) == 0 {
		outcome = "empty"
	}
	c.metrics.MediaLookups.WithLabelValues("image", outcome).Inc()
	return items, nil
}

// imageItem maps one library hit to a MediaItem. Hits without a direct asset
// link or metadata entry are unusable and dropped.
func imageItem(hit imageHit) (domain.MediaItem, bool) {
	if len(hit.Links) == 0 || len(hit.Data) == 0 {
		return domain.MediaItem{}, false
	}
	return domain.MediaItem{
		URL:         hit.Links[0].Href,
		Title:       hit.Data[0].Title,
		Description: hit.Data[0].Description,
		Source:      imageSourceLabel,
	}, true
}

// NASA Image and Video Library response types.

type imageSearchResponse struct {
	Collection struct {
		Items []imageHit `json:"items"`
	} `json:"collection"`
}

type imageHit struct {
	Data []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	} `json:"data"`
	Links []struct {
		Href string `json:"href"`
	} `json:"links"`
}
