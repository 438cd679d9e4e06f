package domain

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
)

func TestResolveWindow(t *testing.T) {
	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(now))
	defer SetClock(nil)

	t.Run("preset windows", func(t *testing.T) {
		cases := []struct {
			timeRange string
			lookback  time.Duration
		}{
			{"realtime", time.Hour},
			{"1h", time.Hour},
			{"10h", 10 * time.Hour},
			{"10d", 240 * time.Hour},
			{"5m", 150 * 24 * time.Hour},
		}

		for _, tc := range cases {
			t.Run(tc.timeRange, func(t *testing.T) {
				win := ResolveWindow(tc.timeRange, "", "")
				assert.Equal(t, now, win.End)
				assert.Equal(t, now.Add(-tc.lookback), win.Start)
			})
		}
	})

	t.Run("unknown value gets the default window", func(t *testing.T) {
		win := ResolveWindow("yesterday", "", "")
		assert.Equal(t, now.Add(-time.Hour), win.Start)
		assert.Equal(t, now, win.End)
	})

	t.Run("custom with both dates", func(t *testing.T) {
		win := ResolveWindow("custom", "2025-05-01", "2025-05-20")
		assert.Equal(t, time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC), win.Start)
		assert.Equal(t, time.Date(2025, time.May, 20, 0, 0, 0, 0, time.UTC), win.End)
	})

	t.Run("custom missing start date falls back", func(t *testing.T) {
		win := ResolveWindow("custom", "", "2025-05-20")
		assert.Equal(t, now.Add(-time.Hour), win.Start)
		assert.Equal(t, now, win.End)
	})

	t.Run("custom with malformed date falls back", func(t *testing.T) {
		win := ResolveWindow("custom", "May 1st", "2025-05-20")
		assert.Equal(t, now.Add(-time.Hour), win.Start)
	})

	t.Run("custom with inverted range falls back", func(t *testing.T) {
		win := ResolveWindow("custom", "2025-05-20", "2025-05-01")
		assert.Equal(t, now.Add(-time.Hour), win.Start)
	})
}
