package domain

// RawFireball represents one entry from the NASA CNEOS Fireball API, which
// returns positional arrays rather than keyed objects. All values arrive as
// strings; empty strings mean the instrument did not report the field.
// Positions: date, energy, impact-e, lat, lon, alt, vel.
type RawFireball struct {
	Date         string
	Energy       string // total radiated energy, kilotons
	ImpactEnergy string // impact energy estimate, kilotons (unused downstream)
	Lat          string
	Lon          string
	Altitude     string // peak-brightness altitude, km
	Velocity     string // km/s
}

// RawReport represents one keyed record from a meteor-society style API.
// Providers are inconsistent about numeric encoding, so numeric fields are
// decoded as any and coerced during normalization.
type RawReport struct {
	Magnitude any    `json:"magnitude"`
	Latitude  any    `json:"latitude"`
	Longitude any    `json:"longitude"`
	Velocity  any    `json:"velocity"`
	Date      string `json:"date"`
}

// MediaItem is one related image or video attached to an event.
type MediaItem struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Thumbnail   string `json:"thumbnail,omitempty"`
	Source      string `json:"source"`
}

// Media holds best-effort related media for an event. Both slices are always
// non-nil so the JSON encoding is [] rather than null.
type Media struct {
	Images []MediaItem `json:"images"`
	Videos []MediaItem `json:"videos"`
}

// EmptyMedia returns a Media value with empty, non-nil slices.
func EmptyMedia() Media {
	return Media{Images: []MediaItem{}, Videos: []MediaItem{}}
}

// MeteorEvent is the canonical event shape served to the map frontend.
// Constructed fresh per request from upstream data and never persisted.
type MeteorEvent struct {
	ID          string  `json:"id"`
	TimeUTC     string  `json:"time_utc"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	Magnitude   float64 `json:"magnitude"`
	VelocityKMS float64 `json:"velocity_kms"`
	AltitudeKM  float64 `json:"altitude_km"`
	Type        string  `json:"type"`
	Source      string  `json:"source"`
	MapLink     string  `json:"mapLink"`
	Media       Media   `json:"media"`
}
