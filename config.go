package geodossier

import "time"

// Result formats understood by the harvest surfaces.
const (
	SurfaceFormatHTML = "html"
	SurfaceFormatRSS  = "rss"
	// SurfaceFormatFeed accepts RSS, Atom and JSON Feed with lenient parsing.
	SurfaceFormatFeed = "feed"
)

// DefaultUserAgent is a browser-like client identity for search surfaces.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0 Safari/537.36"

// Config enumerates every tunable of the pipeline.
type Config struct {
	Jurisdictions []string `yaml:"jurisdictions"`
	CaseSensitive bool     `yaml:"case_sensitive"`

	Geocoding   GeocodingConfig   `yaml:"geocoding"`
	Harvest     HarvestConfig     `yaml:"harvest"`
	Correlation CorrelationConfig `yaml:"correlation"`
	Dossier     DossierStyle      `yaml:"dossier"`
	Storage     StorageConfig     `yaml:"storage"`
}

// GeocodingConfig configures the geocoding provider and the resolver.
type GeocodingConfig struct {
	BaseURL   string        `yaml:"base_url"`
	UserAgent string        `yaml:"user_agent"`
	Language  string        `yaml:"language"`
	Timeout   time.Duration `yaml:"timeout"`
	// LocalityFields are tried in order for the municipality name.
	LocalityFields []string `yaml:"locality_fields"`
	// AdministrativeField is checked against the jurisdiction allow-list.
	AdministrativeField string `yaml:"administrative_field"`
}

// SurfaceConfig describes one search surface.
type SurfaceConfig struct {
	URL    string `yaml:"url"`
	Format string `yaml:"format"`
	// Selector is the CSS selector of result anchors for html surfaces.
	Selector string `yaml:"selector"`
	// MaxAge drops feed items published longer ago. Zero keeps all items.
	MaxAge time.Duration `yaml:"max_age"`
}

// HarvestConfig configures the OSINT harvester.
type HarvestConfig struct {
	Surfaces    map[string]SurfaceConfig `yaml:"surfaces"`
	Queries     []QueryTemplate          `yaml:"queries"`
	PerQueryCap int                      `yaml:"per_query_cap"`
	// Pacing is the minimum spacing between two queries to the same host.
	Pacing time.Duration `yaml:"pacing"`
	// RedisURL shares pacing between processes through Redis when set.
	RedisURL  string        `yaml:"redis_url"`
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"user_agent"`
	// Exclude lists CEL expressions over source.title, source.url,
	// source.host and source.site. Matching sources are dropped.
	Exclude []string `yaml:"exclude"`
}

// CorrelationConfig configures the semantic correlation client.
type CorrelationConfig struct {
	// IndexID selects the vector index. Empty disables correlation.
	IndexID        string        `yaml:"index_id"`
	Limit          int           `yaml:"limit"`
	Timeout        time.Duration `yaml:"timeout"`
	EmbeddingModel string        `yaml:"embedding_model"`
}

// StorageConfig configures s3:// dossier outputs. Credentials come from the
// standard AWS environment.
type StorageConfig struct {
	Region string `yaml:"region"`
	// Endpoint overrides the S3 endpoint for compatible stores.
	Endpoint string `yaml:"endpoint"`
}

// DefaultConfig returns the documented default configuration.
func DefaultConfig() Config {
	return Config{
		Jurisdictions: append([]string(nil), DefaultJurisdictions...),
		CaseSensitive: true,
		Geocoding: GeocodingConfig{
			BaseURL:             "https://nominatim.openstreetmap.org",
			UserAgent:           "geodossier/0.1",
			Language:            "it",
			Timeout:             10 * time.Second,
			LocalityFields:      []string{"city", "town", "village", "suburb"},
			AdministrativeField: "county",
		},
		Harvest: HarvestConfig{
			Surfaces: map[string]SurfaceConfig{
				"web": {
					URL:      "https://html.duckduckgo.com/html/?q={query}",
					Format:   SurfaceFormatHTML,
					Selector: "a.result__a",
				},
				// Bing News wraps item links in click-through URLs that
				// carry the destination in the url parameter.
				// interval="7" limits results to the last week.
				"news": {
					URL:    "https://www.bing.com/news/search?q={query}&format=rss&setlang=it&cc=IT&qft=interval%3d%227%22",
					Format: SurfaceFormatRSS,
				},
			},
			Queries: []QueryTemplate{
				{Surface: "web", Text: `site:prefettura.it "{jurisdiction}" ordine pubblico`},
				{Surface: "web", Text: `site:questure.poliziadistato.it "{jurisdiction}"`},
				{Surface: "web", Text: `"{municipality}" albo pretorio ordinanza sicurezza urbana`},
				{Surface: "news", Text: `"{municipality}" sicurezza`},
			},
			PerQueryCap: 3,
			Pacing:      2 * time.Second,
			Timeout:     5 * time.Second,
			UserAgent:   DefaultUserAgent,
		},
		Correlation: CorrelationConfig{
			Limit:          5,
			Timeout:        10 * time.Second,
			EmbeddingModel: "gemini-embedding-001",
		},
		Dossier: DefaultDossierStyle(),
	}
}

// Validate returns an error if the configuration cannot drive an analysis.
func (c *Config) Validate() error {
	if len(c.Jurisdictions) == 0 {
		return Errorf(EINVALID, "at least one jurisdiction required")
	}
	for _, j := range c.Jurisdictions {
		if j == "" {
			return Errorf(EINVALID, "empty jurisdiction in allow-list")
		}
	}
	if len(c.Geocoding.LocalityFields) == 0 {
		return Errorf(EINVALID, "geocoding locality fields required")
	}
	if c.Geocoding.AdministrativeField == "" {
		return Errorf(EINVALID, "geocoding administrative field required")
	}
	if c.Harvest.PerQueryCap < 1 {
		return Errorf(EINVALID, "harvest per-query cap must be at least 1")
	}
	if c.Harvest.Pacing < 0 {
		return Errorf(EINVALID, "harvest pacing must not be negative")
	}
	for name, s := range c.Harvest.Surfaces {
		if s.URL == "" {
			return Errorf(EINVALID, "surface %q: url required", name)
		}
		switch s.Format {
		case SurfaceFormatHTML, SurfaceFormatRSS, SurfaceFormatFeed:
		default:
			return Errorf(EINVALID, "surface %q: unknown format %q", name, s.Format)
		}
		if s.MaxAge < 0 {
			return Errorf(EINVALID, "surface %q: max age must not be negative", name)
		}
	}
	for i, q := range c.Harvest.Queries {
		if _, ok := c.Harvest.Surfaces[q.Surface]; !ok {
			return Errorf(EINVALID, "query %d: unknown surface %q", i, q.Surface)
		}
		if q.Text == "" {
			return Errorf(EINVALID, "query %d: text required", i)
		}
	}
	return nil
}
