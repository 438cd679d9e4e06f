// Command genmock generates a mock NASA fireball API response plus the
// expected normalized event fixture. It uses the actual domain package so the
// fixture output matches real pipeline behavior.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -api-out testdata/fireball_api_response.json \
//	  -events-out testdata/fireball_events.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/couchcryptid/meteor-watch/internal/domain"
)

// mockRows is a representative slice of fireball API rows: a high-energy
// event, a regular fireball, one below the display cutoff, and one with an
// unparseable energy field.
var mockRows = [][]any{
	{"2025-06-15 12:00:00", "200", "4.6", "34.05", "-118.24", "36.5", "28.7"},
	{"2025-06-15 03:42:00", "5.4", "0.21", "-23.55", "-46.63", "41.2", "19.8"},
	{"2025-06-14 22:10:00", "0.9", "0.04", "48.85", "2.35", "33.0", "24.1"},
	{"2025-06-14 18:05:00", "N/A", "", "10.2", "44.1", nil, "21.7"},
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	apiOut := flag.String("api-out", "", "output path for the mock API response fixture")
	eventsOut := flag.String("events-out", "", "output path for the expected normalized events fixture")
	flag.Parse()

	if *apiOut == "" || *eventsOut == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -api-out, -events-out")
	}

	apiResponse := map[string]any{
		"count":  fmt.Sprint(len(mockRows)),
		"fields": []string{"date", "energy", "impact-e", "lat", "lon", "alt", "vel"},
		"data":   mockRows,
	}

	var events []domain.MeteorEvent //nolint:prealloc // some rows normalize away
	for _, row := range mockRows {
		rec := domain.RawFireball{
			Date:         str(row[0]),
			Energy:       str(row[1]),
			ImpactEnergy: str(row[2]),
			Lat:          str(row[3]),
			Lon:          str(row[4]),
			Altitude:     str(row[5]),
			Velocity:     str(row[6]),
		}
		event, err := domain.NormalizeFireball(rec)
		if err != nil {
			log.Printf("row %q skipped: %v", rec.Date, err)
			continue
		}
		events = append(events, event)
	}

	if err := writeJSON(*apiOut, apiResponse); err != nil {
		return fmt.Errorf("writing API fixture: %w", err)
	}
	log.Printf("wrote API fixture: %s (%d rows)", *apiOut, len(mockRows))

	if err := writeJSON(*eventsOut, events); err != nil {
		return fmt.Errorf("writing events fixture: %w", err)
	}
	log.Printf("wrote events fixture: %s (%d events)", *eventsOut, len(events))

	return nil
}

func str(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
