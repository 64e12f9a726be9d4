// Package goquery provides an HTML result-page parser built on goquery.
package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/geodossier"
)

// DefaultSelector matches result anchors on the DuckDuckGo HTML endpoint
// and on classic Google result pages.
const DefaultSelector = "a.result__a, div.g a:has(h3)"

// Ensure ResultParser implements geodossier.ResultParser at compile time.
var _ geodossier.ResultParser = (*ResultParser)(nil)

// ResultParser extracts result links from HTML search pages using a CSS selector.
type ResultParser struct {
	selector string
}

// NewResultParser creates a ResultParser for anchors matching selector.
// An empty selector uses DefaultSelector.
func NewResultParser(selector string) *ResultParser {
	if selector == "" {
		selector = DefaultSelector
	}
	return &ResultParser{selector: selector}
}

// ParseResults returns the matched anchors in document order.
// Anchors without a title or an http(s) destination are skipped.
func (p *ResultParser) ParseResults(body string, pageURL string) ([]geodossier.SourceReference, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, geodossier.Errorf(geodossier.EINVALID, "invalid page URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, geodossier.Errorf(geodossier.EINVALID, "failed to parse HTML: %v", err)
	}

	var refs []geodossier.SourceReference
	doc.Find(p.selector).Each(func(_ int, sel *goquery.Selection) {
		href, exists := sel.Attr("href")
		if !exists {
			return
		}

		// Google puts the title in an h3 next to breadcrumb text.
		title := sel.Find("h3").First().Text()
		if strings.TrimSpace(title) == "" {
			title = sel.Text()
		}

		if ref, ok := geodossier.NewSourceReference(base, title, href); ok {
			refs = append(refs, ref)
		}
	})

	return refs, nil
}
