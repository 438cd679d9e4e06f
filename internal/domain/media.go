package domain

import (
	"context"
	"log/slog"
)

// maxMediaPerKind caps how many images/videos are attached per event.
const maxMediaPerKind = 3

// ImageSearcher finds related images for a free-text query.
type ImageSearcher interface {
	SearchImages(ctx context.Context, query string, limit int) ([]MediaItem, error)
}

// VideoSearcher finds related videos for a free-text query.
type VideoSearcher interface {
	SearchVideos(ctx context.Context, query string, limit int) ([]MediaItem, error)
}

// EnrichWithMedia attaches best-effort related media to an event. A nil
// searcher (feature disabled or credential missing) and any lookup failure
// both degrade to empty lists for that event; enrichment never fails the
// request and never affects sibling events.
func EnrichWithMedia(ctx context.Context, event MeteorEvent, images ImageSearcher, videos VideoSearcher, logger *slog.Logger) MeteorEvent {
	event.Media = EmptyMedia()

	if images != nil {
		items, err := images.SearchImages(ctx, "meteor "+event.TimeUTC, maxMediaPerKind)
		if err != nil {
			logger.Warn("image search failed",
				"event_id", event.ID,
				"error", err,
			)
		} else if len(items) > 0 {
			event.Media.Images = capMedia(items)
		}
	}

	if videos != nil {
		items, err := videos.SearchVideos(ctx, "meteor "+event.TimeUTC+" "+event.Type, maxMediaPerKind)
		if err != nil {
			logger.Warn("video search failed",
				"event_id", event.ID,
				"error", err,
			)
		} else if len(items) > 0 {
			event.Media.Videos = capMedia(items)
		}
	}

	return event
}

func capMedia(items []MediaItem) []MediaItem {
	if len(items) > maxMediaPerKind {
		return items[:maxMediaPerKind]
	}
	return items
}
