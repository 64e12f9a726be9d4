// Package nominatim implements geodossier.Geocoder against the
// OpenStreetMap Nominatim search API.
package nominatim

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/fwojciec/geodossier"
)

// DefaultBaseURL is the public Nominatim endpoint.
const DefaultBaseURL = "https://nominatim.openstreetmap.org"

// DefaultTimeout bounds a single lookup.
const DefaultTimeout = 10 * time.Second

// Ensure Geocoder implements geodossier.Geocoder at compile time.
var _ geodossier.Geocoder = (*Geocoder)(nil)

// Geocoder resolves addresses with Nominatim. Nominatim requires an
// identifying User-Agent on every request.
type Geocoder struct {
	client    *http.Client
	baseURL   string
	userAgent string
	language  string
	timeout   time.Duration
}

// Option configures a Geocoder.
type Option func(*Geocoder)

// WithBaseURL sets the Nominatim endpoint.
func WithBaseURL(u string) Option {
	return func(g *Geocoder) {
		g.baseURL = strings.TrimRight(u, "/")
	}
}

// WithLanguage sets the Accept-Language of lookups (e.g., "it").
func WithLanguage(lang string) Option {
	return func(g *Geocoder) {
		g.language = lang
	}
}

// WithTimeout sets the lookup timeout.
func WithTimeout(d time.Duration) Option {
	return func(g *Geocoder) {
		g.timeout = d
	}
}

// NewGeocoder creates a Geocoder identified by userAgent.
func NewGeocoder(userAgent string, opts ...Option) *Geocoder {
	g := &Geocoder{
		baseURL:   DefaultBaseURL,
		userAgent: userAgent,
		timeout:   DefaultTimeout,
	}
	for _, opt := range opts {
		opt(g)
	}

	g.client = &http.Client{
		Timeout: g.timeout,
	}

	return g
}

type place struct {
	Lat         string            `json:"lat"`
	Lon         string            `json:"lon"`
	DisplayName string            `json:"display_name"`
	Address     map[string]string `json:"address"`
}

// Geocode looks up query and returns the best candidate with its address breakdown.
func (g *Geocoder) Geocode(ctx context.Context, query string) (*geodossier.Place, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "jsonv2")
	params.Set("addressdetails", "1")
	params.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, geodossier.Errorf(geodossier.EGEOCODINGUNAVAILABLE, "build request: %v", err)
	}
	req.Header.Set("User-Agent", g.userAgent)
	req.Header.Set("Accept", "application/json")
	if g.language != "" {
		req.Header.Set("Accept-Language", g.language)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, geodossier.Errorf(geodossier.EGEOCODINGUNAVAILABLE, "geocoding request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, geodossier.Errorf(geodossier.EGEOCODINGUNAVAILABLE, "geocoding HTTP %d", resp.StatusCode)
	}

	var places []place
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return nil, geodossier.Errorf(geodossier.EGEOCODINGUNAVAILABLE, "decode geocoding response: %v", err)
	}
	if len(places) == 0 {
		return nil, geodossier.Errorf(geodossier.EADDRESSNOTFOUND, "no match for %q", query)
	}

	return toPlace(places[0])
}

func toPlace(p place) (*geodossier.Place, error) {
	lat, err := strconv.ParseFloat(p.Lat, 64)
	if err != nil {
		return nil, geodossier.Errorf(geodossier.EGEOCODINGUNAVAILABLE, "invalid latitude %q", p.Lat)
	}
	lon, err := strconv.ParseFloat(p.Lon, 64)
	if err != nil {
		return nil, geodossier.Errorf(geodossier.EGEOCODINGUNAVAILABLE, "invalid longitude %q", p.Lon)
	}

	address := p.Address
	if address == nil {
		address = map[string]string{}
	}

	return &geodossier.Place{
		DisplayName: p.DisplayName,
		Address:     address,
		Latitude:    lat,
		Longitude:   lon,
	}, nil
}

