package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// MinMagnitude is the absolute display cutoff. Records below it are dropped
// entirely, not defaulted; the filter is not configurable.
const MinMagnitude = 2.5

// Type classification thresholds. Energy-based sources classify on raw energy
// (kilotons), magnitude-based sources on the derived magnitude itself.
const (
	highEnergyKilotons  = 100.0
	highEnergyMagnitude = 6.0
)

const (
	TypeFireball   = "Fireball"
	TypeHighEnergy = "High-Energy Fireball"
)

// Sentinel errors for record-level normalization outcomes. Callers skip the
// record and continue the batch; they never abort sibling records.
var (
	ErrFieldParse     = errors.New("primary field unparseable")
	ErrBelowMagnitude = errors.New("magnitude below display threshold")
)

// NormalizeFireball converts one NASA fireball record into a canonical event.
// Primary kinematic fields (energy, lat, lon, velocity) must parse or the
// record is skipped; empty values coerce to 0. Altitude is a secondary display
// field and always coerces to 0 on failure.
func NormalizeFireball(rec RawFireball) (MeteorEvent, error) {
	energy, err := parseRequired(rec.Energy)
	if err != nil {
		return MeteorEvent{}, fmt.Errorf("energy %q: %w", rec.Energy, ErrFieldParse)
	}
	lat, err := parseRequired(rec.Lat)
	if err != nil {
		return MeteorEvent{}, fmt.Errorf("lat %q: %w", rec.Lat, ErrFieldParse)
	}
	lon, err := parseRequired(rec.Lon)
	if err != nil {
		return MeteorEvent{}, fmt.Errorf("lon %q: %w", rec.Lon, ErrFieldParse)
	}
	vel, err := parseRequired(rec.Velocity)
	if err != nil {
		return MeteorEvent{}, fmt.Errorf("velocity %q: %w", rec.Velocity, ErrFieldParse)
	}

	magnitude := deriveMagnitude(energy)
	if magnitude < MinMagnitude {
		return MeteorEvent{}, fmt.Errorf("magnitude %.2f: %w", magnitude, ErrBelowMagnitude)
	}

	eventType := TypeFireball
	if energy > highEnergyKilotons {
		eventType = TypeHighEnergy
	}

	return newEvent("nasa", rec.Date, lat, lon, magnitude, vel, parseFloatOrZero(rec.Altitude), eventType), nil
}

// NormalizeReport converts one keyed meteor-society record into a canonical
// event. The provider magnitude is already a brightness measure and is used
// directly; it must parse or the record is skipped. Location and velocity
// coerce to 0 when missing but are skipped when present and non-numeric.
func NormalizeReport(rec RawReport) (MeteorEvent, error) {
	magnitude, err := coerceRequired(rec.Magnitude)
	if err != nil {
		return MeteorEvent{}, fmt.Errorf("magnitude %v: %w", rec.Magnitude, ErrFieldParse)
	}
	lat, err := coerceRequired(rec.Latitude)
	if err != nil {
		return MeteorEvent{}, fmt.Errorf("latitude %v: %w", rec.Latitude, ErrFieldParse)
	}
	lon, err := coerceRequired(rec.Longitude)
	if err != nil {
		return MeteorEvent{}, fmt.Errorf("longitude %v: %w", rec.Longitude, ErrFieldParse)
	}
	vel, err := coerceRequired(rec.Velocity)
	if err != nil {
		return MeteorEvent{}, fmt.Errorf("velocity %v: %w", rec.Velocity, ErrFieldParse)
	}

	if magnitude < MinMagnitude {
		return MeteorEvent{}, fmt.Errorf("magnitude %.2f: %w", magnitude, ErrBelowMagnitude)
	}

	eventType := TypeFireball
	if magnitude > highEnergyMagnitude {
		eventType = TypeHighEnergy
	}

	return newEvent("ams", rec.Date, lat, lon, magnitude, vel, 0, eventType), nil
}

// deriveMagnitude computes display magnitude from radiated energy in kilotons.
// See the package documentation for why the linear formula was chosen over
// the sqrt(energy/1000) variant.
func deriveMagnitude(energy float64) float64 {
	return energy * 2
}

func newEvent(source, date string, lat, lon, magnitude, vel, alt float64, eventType string) MeteorEvent {
	lat = round2(lat)
	lon = round2(lon)
	return MeteorEvent{
		ID:          GenerateID(source, date, lat, lon),
		TimeUTC:     date,
		Lat:         lat,
		Lng:         lon,
		Magnitude:   round2(magnitude),
		VelocityKMS: round2(vel),
		AltitudeKM:  round2(alt),
		Type:        eventType,
		Source:      source,
		MapLink:     mapLink(lat, lon),
		Media:       EmptyMedia(),
	}
}

// GenerateID produces a deterministic ID from the event's key fields, prefixed
// with the source tag. Reprocessing the same upstream record yields the same ID.
func GenerateID(source, date string, lat, lon float64) string {
	input := fmt.Sprintf("%s|%s|%.4f|%.4f", source, date, lat, lon)
	hash := sha256.Sum256([]byte(input))
	short := hex.EncodeToString(hash[:8])
	if source == "" {
		return short
	}
	return source + "-" + short
}

// mapLink builds a map URL embedding the event coordinates.
func mapLink(lat, lon float64) string {
	return fmt.Sprintf("https://www.google.com/maps?q=%s,%s", formatCoord(lat), formatCoord(lon))
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// parseRequired parses a primary field: empty means unmeasured and coerces to
// 0, anything else must be numeric.
func parseRequired(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

// coerceRequired applies the parseRequired policy to a loosely-typed JSON
// value: nil/empty → 0, numbers pass through, numeric strings parse, anything
// else is an error.
func coerceRequired(v any) (float64, error) {
	switch t := v.(type) {
	case nil:
		return 0, nil
	case float64:
		return t, nil
	case string:
		return parseRequired(t)
	default:
		return 0, fmt.Errorf("unsupported value type %T", v)
	}
}

// parseFloatOrZero parses a string as float64, returning 0 on failure.
func parseFloatOrZero(s string) float64 {
	v, err := parseRequired(s)
	if err != nil {
		return 0
	}
	return v
}

// round2 rounds to two decimal places for display fields.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
