package ams

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/couchcryptid/meteor-watch/internal/config"
	"github.com/couchcryptid/meteor-watch/internal/domain"
	"github.com/couchcryptid/meteor-watch/internal/fetch"
	"github.com/couchcryptid/meteor-watch/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, upstreamURL string) *Client {
	t.Helper()
	cfg := &config.Config{
		AMSBaseURL:      upstreamURL,
		AMSLimit:        50,
		FetchTimeout:    2 * time.Second,
		FetchMaxRetries: 1,
		FetchBaseDelay:  time.Millisecond,
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	metrics := observability.NewMetricsForTesting()
	return NewClient(cfg, fetch.NewClient(cfg, logger, metrics), logger, metrics)
}

func window() (time.Time, time.Time) {
	end := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
	return end.Add(-10 * time.Hour), end
}

func TestFetch_BareArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "2025-06-15", q.Get("start_date"))
		assert.Equal(t, "2025-06-15", q.Get("end_date"))
		assert.Equal(t, "50", q.Get("limit"))

		_, _ = w.Write([]byte(`[
			{"magnitude": 4.1, "latitude": "51.5", "longitude": -0.12, "velocity": 18, "date": "2025-06-15T08:30:00"},
			{"magnitude": "7.3", "latitude": 40.71, "longitude": "-74.0", "date": "2025-06-15T07:00:00"}
		]`))
	}))
	defer srv.Close()

	start, end := window()
	events, err := newTestClient(t, srv.URL).Fetch(context.Background(), start, end)
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, "ams", events[0].Source)
	assert.Equal(t, 4.1, events[0].Magnitude)
	assert.Equal(t, domain.TypeFireball, events[0].Type)
	assert.Equal(t, domain.TypeHighEnergy, events[1].Type)
	assert.Equal(t, 0.0, events[1].VelocityKMS) // missing field defaults to zero
}

func TestFetch_WrappedResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"results": [{"magnitude": 3.3, "date": "2025-06-15T06:00:00"}]}`))
	}))
	defer srv.Close()

	start, end := window()
	events, err := newTestClient(t, srv.URL).Fetch(context.Background(), start, end)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, 3.3, events[0].Magnitude)
}

func TestFetch_SkipsUnparseableReports(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[
			{"magnitude": "faint", "date": "2025-06-15T06:00:00"},
			{"magnitude": 1.9, "date": "2025-06-15T05:00:00"},
			{"magnitude": 5.0, "date": "2025-06-15T04:00:00"}
		]`))
	}))
	defer srv.Close()

	start, end := window()
	events, err := newTestClient(t, srv.URL).Fetch(context.Background(), start, end)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, 5.0, events[0].Magnitude)
}

func TestFetch_UpstreamFailureSurfacesError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	start, end := window()
	_, err := newTestClient(t, srv.URL).Fetch(context.Background(), start, end)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ams fetch")
}

func TestFetch_UndecodableBodySurfacesError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	start, end := window()
	_, err := newTestClient(t, srv.URL).Fetch(context.Background(), start, end)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ams decode")
}
