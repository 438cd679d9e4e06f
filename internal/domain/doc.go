// Package domain models near-real-time fireball (bright meteor) events.
//
// # Data Sources
//
// The primary source is the NASA CNEOS Fireball API
// (https://ssd-api.jpl.nasa.gov/fireball.api), which reports atmospheric
// impact events detected by U.S. Government sensors. The API returns a
// positional array per event rather than keyed objects:
//
//	date, energy, impact-e, lat, lon, alt, vel
//
// Every value is a string; empty strings mean the sensor did not report the
// field. Energy is total radiated energy in kilotons of TNT equivalent.
//
// A secondary meteor-society style source returns keyed JSON objects with
// magnitude, latitude, longitude, velocity, and date fields, with numbers
// encoded inconsistently as strings or JSON numbers depending on provider.
//
// # Field Coercion Policy
//
// Primary kinematic fields (energy, lat, lon, velocity; report magnitude)
// coerce empty/null to 0 but drop the whole record when a non-empty value is
// non-numeric: a record claiming energy "N/A" is garbage, not a zero-energy
// fireball. Secondary display fields (altitude) always coerce to 0. Dropping
// a record never aborts the rest of the batch.
//
// # Magnitude Derivation
//
// Display magnitude is derived, never taken from the energy-based source:
//
//	magnitude = energy * 2
//
// An earlier formulation used sqrt(energy/1000), but combined with the
// absolute 2.5 display cutoff it admits only multi-megaton events, leaving
// the map empty for months at a time. The linear formula keeps kiloton-class
// fireballs visible. Magnitude-based sources report brightness directly and
// are passed through unchanged.
//
// Events with derived magnitude below 2.5 are excluded outright.
//
// # Type Classification
//
//	energy > 100 kt        → "High-Energy Fireball" (energy-based sources)
//	magnitude > 6          → "High-Energy Fireball" (magnitude-based sources)
//	otherwise              → "Fireball"
//
// # Sorting
//
// time_utc is treated as an opaque, lexicographically-sortable key. NASA
// timestamps ("2025-06-15 12:00:00") sort correctly as strings; responses are
// ordered by time_utc descending.
//
// # ID Generation
//
// Event IDs are deterministic truncated SHA-256 hashes of
// source|date|lat|lon, prefixed with the source tag ("nasa-3fa8c1d2..."),
// so the same upstream record always maps to the same ID. The aggregator
// suffixes duplicates to keep IDs response-unique. See [GenerateID].
package domain
