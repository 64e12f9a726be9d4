package mock

import (
	"context"

	"github.com/fwojciec/geodossier"
)

var _ geodossier.Geocoder = (*Geocoder)(nil)

// Geocoder is a mock implementation of geodossier.Geocoder.
type Geocoder struct {
	GeocodeFn func(ctx context.Context, query string) (*geodossier.Place, error)
}

func (g *Geocoder) Geocode(ctx context.Context, query string) (*geodossier.Place, error) {
	return g.GeocodeFn(ctx, query)
}

var _ geodossier.LocationResolver = (*LocationResolver)(nil)

// LocationResolver is a mock implementation of geodossier.LocationResolver.
type LocationResolver struct {
	ResolveFn func(ctx context.Context, query string) (*geodossier.Location, error)
}

func (r *LocationResolver) Resolve(ctx context.Context, query string) (*geodossier.Location, error) {
	return r.ResolveFn(ctx, query)
}
