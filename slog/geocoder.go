package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/geodossier"
)

// Ensure LoggingGeocoder implements geodossier.Geocoder.
var _ geodossier.Geocoder = (*LoggingGeocoder)(nil)

// LoggingGeocoder wraps a Geocoder with logging.
type LoggingGeocoder struct {
	next   geodossier.Geocoder
	logger *slog.Logger
}

// NewLoggingGeocoder creates a new LoggingGeocoder.
func NewLoggingGeocoder(next geodossier.Geocoder, logger *slog.Logger) *LoggingGeocoder {
	return &LoggingGeocoder{next: next, logger: logger}
}

// Geocode delegates to the wrapped geocoder and logs the lookup.
func (g *LoggingGeocoder) Geocode(ctx context.Context, query string) (place *geodossier.Place, err error) {
	defer func(begin time.Time) {
		var display string
		if place != nil {
			display = place.DisplayName
		}
		g.logger.Info("geocode",
			"query", query,
			"place", display,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return g.next.Geocode(ctx, query)
}
