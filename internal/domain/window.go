package domain

import "time"

// Window is the resolved [Start, End] query range passed to source adapters.
type Window struct {
	Start time.Time
	End   time.Time
}

// customDateLayout is the date format accepted for custom range parameters.
const customDateLayout = "2006-01-02"

// windowDurations maps time_range parameter values to lookback windows.
// "5m" is the frontend's "5 months" preset, approximated as 150 days.
var windowDurations = map[string]time.Duration{
	"realtime": time.Hour,
	"1h":       time.Hour,
	"10h":      10 * time.Hour,
	"10d":      240 * time.Hour,
	"5m":       150 * 24 * time.Hour,
}

// ResolveWindow maps the time_range request parameter to a concrete window.
// "custom" requires both dates to parse; missing or malformed custom dates
// fall back to the default realtime window rather than failing the request.
// Unknown time_range values also get the default window.
func ResolveWindow(timeRange, startDate, endDate string) Window {
	if timeRange == "custom" {
		start, errS := time.Parse(customDateLayout, startDate)
		end, errE := time.Parse(customDateLayout, endDate)
		if errS == nil && errE == nil && !start.After(end) {
			return Window{Start: start, End: end}
		}
	}

	d, ok := windowDurations[timeRange]
	if !ok {
		d = time.Hour
	}

	now := clock.Now().UTC()
	return Window{Start: now.Add(-d), End: now}
}
