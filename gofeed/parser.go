// Package gofeed provides a lenient news-feed parser built on mmcdole/gofeed.
// It accepts RSS, Atom and JSON Feed documents.
package gofeed

import (
	"net/url"
	"strings"
	"time"

	"github.com/fwojciec/geodossier"
	"github.com/mmcdole/gofeed"
)

// Ensure FeedParser implements geodossier.ResultParser at compile time.
var _ geodossier.ResultParser = (*FeedParser)(nil)

// FeedParser extracts feed items as source references.
type FeedParser struct {
	// MaxAge drops items published longer ago than MaxAge. Items without a
	// publication date are kept. Zero disables the filter.
	MaxAge time.Duration

	Now func() time.Time
}

// NewFeedParser creates a FeedParser with the given age window.
func NewFeedParser(maxAge time.Duration) *FeedParser {
	return &FeedParser{MaxAge: maxAge, Now: time.Now}
}

// ParseResults returns feed items in document order. Items without a title
// or an http(s) link are skipped. Relative links resolve against pageURL and
// same-site redirect wrappers are unwrapped.
func (p *FeedParser) ParseResults(body string, pageURL string) ([]geodossier.SourceReference, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, geodossier.Errorf(geodossier.EINVALID, "invalid page URL: %v", err)
	}

	feed, err := gofeed.NewParser().ParseString(body)
	if err != nil {
		return nil, geodossier.Errorf(geodossier.EINVALID, "failed to parse feed: %v", err)
	}

	var cutoff time.Time
	if p.MaxAge > 0 {
		cutoff = p.now().Add(-p.MaxAge)
	}

	var refs []geodossier.SourceReference
	for _, it := range feed.Items {
		if it == nil {
			continue
		}
		if !cutoff.IsZero() {
			if pub := published(it); pub != nil && pub.Before(cutoff) {
				continue
			}
		}

		link := strings.TrimSpace(it.Link)
		if link == "" && len(it.Links) > 0 {
			link = strings.TrimSpace(it.Links[0])
		}
		if ref, ok := geodossier.NewSourceReference(base, it.Title, link); ok {
			refs = append(refs, ref)
		}
	}
	return refs, nil
}

func (p *FeedParser) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

func published(it *gofeed.Item) *time.Time {
	if it.PublishedParsed != nil {
		return it.PublishedParsed
	}
	return it.UpdatedParsed
}
