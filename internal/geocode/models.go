package geocode

import "errors"

// Geocoding errors.
var (
	ErrNoMatch             = errors.New("no coordinates found for district")
	ErrProviderUnavailable = errors.New("geocoding provider unavailable")
)

// Location is one geocoding match.
type Location struct {
	Name    string
	Lat     float64
	Lon     float64
	Country string
	State   string
}
