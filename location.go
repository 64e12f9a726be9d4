package geodossier

import (
	"context"
	"time"
)

// UnresolvedLocality labels a location whose locality fields were all empty.
const UnresolvedLocality = "unresolved"

// Location is a geocoded, jurisdiction-checked analysis target.
// A Location is only ever constructed for a jurisdiction the Gazetteer allows.
type Location struct {
	RawQuery             string    `json:"rawQuery"`
	ResolvedMunicipality string    `json:"resolvedMunicipality"`
	Jurisdiction         string    `json:"jurisdiction"`
	Latitude             float64   `json:"latitude"`
	Longitude            float64   `json:"longitude"`
	ResolvedAt           time.Time `json:"resolvedAt"`
}

// Place is the raw answer of a geocoding provider.
type Place struct {
	DisplayName string
	// Address is the structured breakdown keyed by provider field name
	// (e.g., "city", "town", "county").
	Address   map[string]string
	Latitude  float64
	Longitude float64
}

// Locality returns the first non-empty address field among fields,
// or UnresolvedLocality if none is set.
func (p *Place) Locality(fields []string) string {
	for _, f := range fields {
		if v := p.Address[f]; v != "" {
			return v
		}
	}
	return UnresolvedLocality
}

// Geocoder looks up a free-text address with a geocoding provider.
type Geocoder interface {
	// Geocode performs a single lookup with address details.
	// Returns EADDRESSNOTFOUND when the provider has no candidate and
	// EGEOCODINGUNAVAILABLE on timeout or transport failure.
	Geocode(ctx context.Context, query string) (*Place, error)
}

// LocationResolver turns a free-text address into a jurisdiction-checked Location.
type LocationResolver interface {
	// Resolve returns EOUTOFJURISDICTION when the resolved administrative
	// area is not allowed, plus the Geocoder error codes.
	Resolve(ctx context.Context, query string) (*Location, error)
}
