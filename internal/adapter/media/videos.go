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

const (
	videoSourceLabel = "youtube"
	watchURLPrefix   = "https://www.youtube.com/watch?v="
)

// VideoClient searches the YouTube Data API. It implements
// domain.VideoSearcher and is only constructed when an API key is configured.
type VideoClient struct {
	client  *resty.Client
	apiKey  string
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewVideoClient creates a video search client against the given base URL
// (https://www.googleapis.com/youtube/v3 in production).
func NewVideoClient(baseURL, apiKey string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *VideoClient {
	return &VideoClient{
		client:  resty.New().SetBaseURL(baseURL).SetTimeout(timeout),
		apiKey:  apiKey,
		logger:  logger,
		metrics: metrics,
	}
}

// SearchVideos returns up to limit video results for a free-text query.
func (c *VideoClient) SearchVideos(ctx context.Context, query string, limit int) ([]domain.MediaItem, error) {
	var result videoSearchResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"part":       "snippet",
			"type":       "video",
			"q":          query,
			"maxResults": strconv.Itoa(limit),
			"key":        c.apiKey,
		}).
		SetResult(&result).
		Get("/search")
	if err != nil {
		c.metrics.MediaLookups.WithLabelValues("video", "error").Inc()
		return nil, fmt.Errorf("video search: %w", err)
	}
	if resp.IsError() {
		c.metrics.MediaLookups.WithLabelValues("video", "error").Inc()
		return nil, fmt.Errorf("video search: status %d", resp.StatusCode())
	}

	items := make([]domain.MediaItem, 0, limit)
	for _, hit := range result.Items {
		if len(items) == limit {
			break
		}
		if hit.ID.VideoID == "" {
			continue
		}
		items = append(items, domain.MediaItem{
			URL:       watchURLPrefix + hit.ID.VideoID,
			Title:     hit.Snippet.Title,
			Thumbnail: hit.Snippet.Thumbnails.Default.URL,
			Source:    videoSourceLabel,
		})
	}

	outcome := "success"
	if len(items) == 0 {
		outcome = "empty"
	}
	c.metrics.MediaLookups.WithLabelValues("video", outcome).Inc()
	return items, nil
}

// YouTube Data API v3 response types.

type videoSearchResponse struct {
	Items []videoHit `json:"items"`
}

type videoHit struct {
	ID struct {
		VideoID string `json:"videoId"`
	} `json:"id"`
	Snippet struct {
		Title      string `json:"title"`
		Thumbnails struct {
			Default struct {
				URL string `json:"url"`
			} `json:"default"`
		} `json:"thumbnails"`
	} `json:"snippet"`
}
