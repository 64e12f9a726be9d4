package mock

import (
	"context"

	"github.com/fwojciec/geodossier"
)

var _ geodossier.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of geodossier.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}

var _ geodossier.ResultParser = (*ResultParser)(nil)

// ResultParser is a mock implementation of geodossier.ResultParser.
type ResultParser struct {
	ParseResultsFn func(body string, pageURL string) ([]geodossier.SourceReference, error)
}

func (p *ResultParser) ParseResults(body string, pageURL string) ([]geodossier.SourceReference, error) {
	return p.ParseResultsFn(body, pageURL)
}

var _ geodossier.Harvester = (*Harvester)(nil)

// Harvester is a mock implementation of geodossier.Harvester.
type Harvester struct {
	HarvestFn func(ctx context.Context, municipality, jurisdiction string) *geodossier.HarvestResult
}

func (h *Harvester) Harvest(ctx context.Context, municipality, jurisdiction string) *geodossier.HarvestResult {
	return h.HarvestFn(ctx, municipality, jurisdiction)
}

var _ geodossier.SourceFilter = (*SourceFilter)(nil)

// SourceFilter is a mock implementation of geodossier.SourceFilter.
type SourceFilter struct {
	ExcludesFn func(ref geodossier.SourceReference) bool
}

func (f *SourceFilter) Excludes(ref geodossier.SourceReference) bool {
	return f.ExcludesFn(ref)
}
