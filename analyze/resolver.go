// Package analyze implements the analysis pipeline: jurisdiction-checked
// geocoding followed by harvesting, correlation and dossier compilation.
package analyze

import (
	"context"
	"strings"
	"time"

	"github.com/fwojciec/geodossier"
)

var _ geodossier.LocationResolver = (*Resolver)(nil)

// Resolver geocodes a query once and applies the jurisdiction gate.
type Resolver struct {
	Geocoder  geodossier.Geocoder
	Gazetteer *geodossier.Gazetteer

	// LocalityFields are the address fields tried in order for the
	// municipality name.
	LocalityFields []string
	// AdministrativeField is the address field checked against the gazetteer.
	AdministrativeField string

	Now func() time.Time
}

// NewResolver creates a Resolver configured from cfg.
func NewResolver(geocoder geodossier.Geocoder, cfg geodossier.Config) *Resolver {
	return &Resolver{
		Geocoder:            geocoder,
		Gazetteer:           geodossier.NewGazetteer(cfg.Jurisdictions, cfg.CaseSensitive),
		LocalityFields:      cfg.Geocoding.LocalityFields,
		AdministrativeField: cfg.Geocoding.AdministrativeField,
		Now:                 time.Now,
	}
}

// Resolve looks up query and returns a Location inside an allowed
// jurisdiction. There are no retries.
func (r *Resolver) Resolve(ctx context.Context, query string) (*geodossier.Location, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return nil, geodossier.Errorf(geodossier.EINVALID, "address required")
	}

	place, err := r.Geocoder.Geocode(ctx, trimmed)
	if err != nil {
		switch geodossier.ErrorCode(err) {
		case geodossier.EADDRESSNOTFOUND, geodossier.EGEOCODINGUNAVAILABLE:
			return nil, err
		}
		return nil, geodossier.Errorf(geodossier.EGEOCODINGUNAVAILABLE, "geocoding failed: %v", err)
	}

	administrative := place.Address[r.AdministrativeField]
	if !r.Gazetteer.Allows(administrative) {
		return nil, geodossier.Errorf(geodossier.EOUTOFJURISDICTION,
			"area %q is outside the allowed jurisdictions", administrative)
	}

	now := time.Now
	if r.Now != nil {
		now = r.Now
	}

	return &geodossier.Location{
		RawQuery:             trimmed,
		ResolvedMunicipality: place.Locality(r.LocalityFields),
		Jurisdiction:         administrative,
		Latitude:             place.Latitude,
		Longitude:            place.Longitude,
		ResolvedAt:           now().UTC(),
	}, nil
}
