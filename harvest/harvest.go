// Package harvest collects open-source references about a location by
// issuing templated queries against public search surfaces.
package harvest

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/fwojciec/geodossier"
)

// DefaultTimeout bounds a single query when Harvester.Timeout is zero.
const DefaultTimeout = 5 * time.Second

var _ geodossier.Harvester = (*Harvester)(nil)

// Harvester runs every query template once, in order, against its surface.
// Failures of individual queries are absorbed: the query contributes nothing
// and is counted in HarvestResult.Failed.
type Harvester struct {
	Fetcher  geodossier.Fetcher
	Surfaces map[string]geodossier.SearchSurface
	Queries  []geodossier.QueryTemplate

	// PerQueryCap bounds the number of new sources a single query may add.
	PerQueryCap int
	Timeout     time.Duration
	Limiter     Limiter
	// Filter drops sources before they count against the cap. Optional.
	Filter geodossier.SourceFilter
	Logger *slog.Logger
}

// Harvest issues the configured queries for the location and returns the
// deduplicated sources in first-seen order.
func (h *Harvester) Harvest(ctx context.Context, municipality, jurisdiction string) *geodossier.HarvestResult {
	logger := h.logger()
	result := &geodossier.HarvestResult{
		Sources: []geodossier.SourceReference{},
		Queries: len(h.Queries),
	}
	seen := make(map[string]bool)

	for i, tmpl := range h.Queries {
		if err := ctx.Err(); err != nil {
			remaining := len(h.Queries) - i
			result.Failed += remaining
			logger.Warn("harvest interrupted",
				"code", geodossier.EHARVESTPARTIAL,
				"remaining", remaining,
				"err", err)
			break
		}

		refs, err := h.query(ctx, tmpl, municipality, jurisdiction)
		if err != nil {
			result.Failed++
			logger.Warn("harvest query failed",
				"code", geodossier.EHARVESTPARTIAL,
				"surface", tmpl.Surface,
				"query", tmpl.Render(municipality, jurisdiction),
				"err", err)
			continue
		}

		kept, excluded := 0, 0
		for _, ref := range refs {
			if kept >= h.PerQueryCap {
				break
			}
			key := geodossier.NormalizeURL(ref.URL)
			if key == "" || seen[key] {
				continue
			}
			if h.Filter != nil && h.Filter.Excludes(ref) {
				excluded++
				continue
			}
			seen[key] = true
			result.Sources = append(result.Sources, ref)
			kept++
		}

		logger.Debug("harvest query completed",
			"surface", tmpl.Surface,
			"results", len(refs),
			"excluded", excluded,
			"kept", kept)
	}

	return result
}

// query runs one template and returns its results with self-referential
// links to the surface's own site removed.
func (h *Harvester) query(ctx context.Context, tmpl geodossier.QueryTemplate, municipality, jurisdiction string) ([]geodossier.SourceReference, error) {
	surface, ok := h.Surfaces[tmpl.Surface]
	if !ok || surface.Parser == nil {
		return nil, geodossier.Errorf(geodossier.EINVALID, "unknown search surface %q", tmpl.Surface)
	}

	pageURL := surface.QueryURL(tmpl.Render(municipality, jurisdiction))
	u, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("invalid surface URL: %w", err)
	}

	if h.Limiter != nil {
		if err := h.Limiter.Wait(ctx, u.Host); err != nil {
			return nil, fmt.Errorf("pacing: %w", err)
		}
	}

	timeout := h.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	fetchCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	body, err := h.Fetcher.Fetch(fetchCtx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}

	refs, err := surface.Parser.ParseResults(body, pageURL)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}

	self := geodossier.SiteName(u.Host)
	filtered := refs[:0]
	for _, ref := range refs {
		dest, err := url.Parse(ref.URL)
		if err != nil || geodossier.SiteName(dest.Host) == self {
			continue
		}
		filtered = append(filtered, ref)
	}
	return filtered, nil
}

func (h *Harvester) logger() *slog.Logger {
	if h.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return h.Logger
}
