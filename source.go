package geodossier

import (
	"context"
	"net/url"
	"strings"
	"unicode"

	"golang.org/x/net/publicsuffix"
	"golang.org/x/text/unicode/norm"
)

// SourceReference is one open-source finding.
type SourceReference struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Fetcher retrieves a search surface result page.
type Fetcher interface {
	// Fetch issues a GET for url and returns the response body.
	// Non-success statuses are returned as errors.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (body string, err error)

	// Close releases resources held by the fetcher.
	Close() error
}

// ResultParser extracts candidate results from a fetched result page.
// It isolates the markup-specific extraction rule from the rest of the harvest.
type ResultParser interface {
	// ParseResults returns entries in page order. Redirect-wrapper links are
	// unwrapped to their destination. pageURL resolves relative links.
	ParseResults(body string, pageURL string) ([]SourceReference, error)
}

// SourceFilter drops unwanted sources before deduplication and capping.
type SourceFilter interface {
	// Excludes reports whether ref must be left out of the dossier.
	Excludes(ref SourceReference) bool
}

// SearchSurface is an external search endpoint and the parser for its pages.
type SearchSurface struct {
	Name string
	// URL contains a {query} placeholder replaced by the escaped query text.
	URL    string
	Parser ResultParser
}

// QueryURL returns the surface URL for the given query text.
func (s SearchSurface) QueryURL(query string) string {
	return strings.ReplaceAll(s.URL, "{query}", url.QueryEscape(query))
}

// QueryTemplate is a harvest query bound to a named surface.
// Text may contain {municipality}, {jurisdiction} and {slug}.
type QueryTemplate struct {
	Surface string `yaml:"surface"`
	Text    string `yaml:"text"`
}

// Render substitutes the location fields into the template text.
func (q QueryTemplate) Render(municipality, jurisdiction string) string {
	r := strings.NewReplacer(
		"{municipality}", municipality,
		"{jurisdiction}", jurisdiction,
		"{slug}", Slug(municipality),
	)
	return r.Replace(q.Text)
}

// HarvestResult is the outcome of one harvest run.
type HarvestResult struct {
	// Sources is deduplicated by normalized URL, first occurrence wins.
	Sources []SourceReference `json:"sources"`
	// Queries is the number of query templates in the run.
	Queries int `json:"queries"`
	// Failed counts queries that were skipped because of an error.
	Failed int `json:"failed"`
}

// Harvester collects open-source references about a location.
type Harvester interface {
	// Harvest never fails: per-query errors are absorbed and reflected
	// only in a shorter source list and the Failed count.
	Harvest(ctx context.Context, municipality, jurisdiction string) *HarvestResult
}

// NormalizeURL returns the deduplication key for a destination URL.
// Scheme and host are lowercased; default ports, fragments, utm_* tracking
// parameters and trailing slashes are dropped; query parameters are sorted.
// Returns "" for anything that is not an absolute http(s) URL.
func NormalizeURL(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return ""
	}
	u.Scheme = strings.ToLower(u.Scheme)
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ""
	}

	host := strings.ToLower(u.Hostname())
	if strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	port := u.Port()
	if (u.Scheme == "http" && port == "80") || (u.Scheme == "https" && port == "443") {
		port = ""
	}
	if port != "" {
		host = host + ":" + port
	}
	u.Host = host
	u.User = nil
	u.Fragment = ""
	u.RawFragment = ""

	if u.RawQuery != "" {
		q := u.Query()
		for k := range q {
			if strings.HasPrefix(strings.ToLower(k), "utm_") {
				q.Del(k)
			}
		}
		u.RawQuery = q.Encode()
	}

	u.Path = strings.TrimRight(u.Path, "/")
	u.RawPath = ""
	return u.String()
}

// SiteName returns the registrable name of host without its public suffix,
// so "www.google.com" and "news.google.it" both yield "google".
func SiteName(host string) string {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	if h, _, ok := strings.Cut(host, ":"); ok {
		host = h
	}
	etld1, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	suffix, _ := publicsuffix.PublicSuffix(host)
	return strings.TrimSuffix(etld1, "."+suffix)
}

// Slug folds s to lowercase ASCII letters and digits, dropping accents,
// spaces and punctuation ("Cernusco sul Naviglio" → "cernuscosulnaviglio").
func Slug(s string) string {
	var sb strings.Builder
	for _, r := range norm.NFD.String(s) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		r = unicode.ToLower(r)
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// redirectParams lists query parameters search engines use to carry the
// destination of a wrapped link, in lookup order.
var redirectParams = []string{"uddg", "q", "url", "u"}

// ResolveLink resolves href against base and, when the result is a redirect
// wrapper on the base site (e.g., "/l/?uddg=..." or
// "/news/apiclick.aspx?url=..."), returns the wrapped destination instead.
// Returns "" for anything that is not an absolute http(s) URL.
func ResolveLink(base *url.URL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)

	if SiteName(resolved.Host) == SiteName(base.Host) {
		query := resolved.Query()
		for _, param := range redirectParams {
			if dest := query.Get(param); isHTTP(dest) {
				return dest
			}
		}
	}

	if !isHTTP(resolved.String()) {
		return ""
	}
	return resolved.String()
}

// NewSourceReference builds a reference from a result title and link found
// on the page at base. Whitespace in title is collapsed and the link goes
// through ResolveLink. Reports false when either is unusable.
func NewSourceReference(base *url.URL, title, href string) (SourceReference, bool) {
	title = strings.Join(strings.Fields(title), " ")
	if title == "" || strings.TrimSpace(href) == "" {
		return SourceReference{}, false
	}
	dest := ResolveLink(base, href)
	if dest == "" {
		return SourceReference{}, false
	}
	return SourceReference{Title: title, URL: dest}, true
}

func isHTTP(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
