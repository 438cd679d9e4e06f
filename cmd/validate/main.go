// Command validate checks a captured (or generated) fireball API payload
// against the normalization invariants: every emitted event carries a
// magnitude at or above the display cutoff, IDs are unique, and skip reasons
// are accounted for. Exits non-zero when the payload is structurally unusable.
//
// Usage:
//
//	go run ./cmd/validate -api-json testdata/fireball_api_response.json
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/couchcryptid/meteor-watch/internal/domain"
)

func main() {
	apiJSON := flag.String("api-json", "", "path to a fireball API response payload")
	flag.Parse()

	if *apiJSON == "" {
		flag.Usage()
		os.Exit(1)
	}

	if err := run(*apiJSON); err != nil {
		fmt.Fprintf(os.Stderr, "validate: %v\n", err)
		os.Exit(1)
	}
}

func run(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var payload struct {
		Data [][]any `json:"data"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	if len(payload.Data) == 0 {
		return errors.New("payload has no data rows")
	}

	var kept, parseSkips, magnitudeSkips, malformed int
	seen := map[string]bool{}

	for i, row := range payload.Data {
		if len(row) != 7 {
			malformed++
			fmt.Printf("row %d: malformed (%d columns)\n", i, len(row))
			continue
		}
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
		switch {
		case errors.Is(err, domain.ErrBelowMagnitude):
			magnitudeSkips++
			continue
		case err != nil:
			parseSkips++
			fmt.Printf("row %d: parse skip: %v\n", i, err)
			continue
		}

		if event.Magnitude < domain.MinMagnitude {
			return fmt.Errorf("row %d: emitted magnitude %.2f below cutoff", i, event.Magnitude)
		}
		if seen[event.ID] {
			fmt.Printf("row %d: duplicate id %s (aggregator will suffix)\n", i, event.ID)
		}
		seen[event.ID] = true
		kept++
	}

	fmt.Printf("rows=%d kept=%d parse_skips=%d magnitude_skips=%d malformed=%d\n",
		len(payload.Data), kept, parseSkips, magnitudeSkips, malformed)

	if kept == 0 {
		return errors.New("no rows survived normalization")
	}
	return nil
}

func str(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}
