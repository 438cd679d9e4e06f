package media

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/couchcryptid/meteor-watch/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestImageClient_SearchImages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "meteor 2025-06-15 12:00:00", r.URL.Query().Get("q"))
		assert.Equal(t, "image", r.URL.Query().Get("media_type"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"collection":{"items":[
			{"data":[{"title":"Perseid Fireball","description":"A bright meteor"}],"links":[{"href":"https://img.example/1.jpg"}]},
			{"data":[],"links":[]},
			{"data":[{"title":"Leonid"}],"links":[{"href":"https://img.example/2.jpg"}]},
			{"data":[{"title":"Extra"}],"links":[{"href":"https://img.example/3.jpg"}]},
			{"data":[{"title":"Too many"}],"links":[{"href":"https://img.example/4.jpg"}]}
		]}}`))
	}))
	defer srv.Close()

	c := NewImageClient(srv.URL, 2*time.Second, discardLogger(), observability.NewMetricsForTesting())
	items, err := c.SearchImages(context.Background(), "meteor 2025-06-15 12:00:00", 3)
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, "https://img.example/1.jpg", items[0].URL)
	assert.Equal(t, "Perseid Fireball", items[0].Title)
	assert.Equal(t, "A bright meteor", items[0].Description)
	assert.Equal(t, "nasa_images", items[0].Source)
	assert.Equal(t, "Leonid", items[1].Title)
}

func TestImageClient_UpstreamErrorSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewImageClient(srv.URL, 2*time.Second, discardLogger(), observability.NewMetricsForTesting())
	_, err := c.SearchImages(context.Background(), "meteor", 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
}

func TestVideoClient_SearchVideos(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "snippet", q.Get("part"))
		assert.Equal(t, "video", q.Get("type"))
		assert.Equal(t, "yt-key", q.Get("key"))
		assert.Equal(t, "meteor 2025-06-15 12:00:00 Fireball", q.Get("q"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[
			{"id":{"videoId":"abc123"},"snippet":{"title":"Fireball over LA","thumbnails":{"default":{"url":"https://i.ytimg.com/abc123.jpg"}}}},
			{"id":{},"snippet":{"title":"channel hit, no video id"}}
		]}`))
	}))
	defer srv.Close()

	c := NewVideoClient(srv.URL, "yt-key", 2*time.Second, discardLogger(), observability.NewMetricsForTesting())
	items, err := c.SearchVideos(context.Background(), "meteor 2025-06-15 12:00:00 Fireball", 3)
	require.NoError(t, err)
	require.Len(t, items, 1)

	assert.Equal(t, "https://www.youtube.com/watch?v=abc123", items[0].URL)
	assert.Equal(t, "Fireball over LA", items[0].Title)
	assert.Equal(t, "https://i.ytimg.com/abc123.jpg", items[0].Thumbnail)
	assert.Equal(t, "youtube", items[0].Source)
}

func TestVideoClient_UpstreamErrorSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "quota", http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewVideoClient(srv.URL, "yt-key", 2*time.Second, discardLogger(), observability.NewMetricsForTesting())
	_, err := c.SearchVideos(context.Background(), "meteor", 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 403")
}
