// Package etree provides a news-feed parser built on beevik/etree.
package etree

import (
	"net/url"

	"github.com/beevik/etree"
	"github.com/fwojciec/geodossier"
)

// Ensure FeedParser implements geodossier.ResultParser at compile time.
var _ geodossier.ResultParser = (*FeedParser)(nil)

// FeedParser extracts entries from RSS 2.0 and Atom feeds.
type FeedParser struct{}

// NewFeedParser creates a new FeedParser.
func NewFeedParser() *FeedParser {
	return &FeedParser{}
}

// ParseResults returns feed items in document order. Items without a title
// or an http(s) link are skipped. Relative links resolve against pageURL and
// same-site redirect wrappers are unwrapped.
func (p *FeedParser) ParseResults(body string, pageURL string) ([]geodossier.SourceReference, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, geodossier.Errorf(geodossier.EINVALID, "invalid page URL: %v", err)
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromString(body); err != nil {
		return nil, geodossier.Errorf(geodossier.EINVALID, "failed to parse feed XML: %v", err)
	}

	root := doc.Root()
	if root == nil {
		return nil, geodossier.Errorf(geodossier.EINVALID, "empty feed XML")
	}

	switch root.Tag {
	case "rss":
		var refs []geodossier.SourceReference
		for _, channel := range root.SelectElements("channel") {
			refs = append(refs, parseRSSItems(base, channel)...)
		}
		return refs, nil
	case "feed":
		return parseAtomEntries(base, root), nil
	default:
		return nil, geodossier.Errorf(geodossier.EINVALID, "unsupported feed root <%s>", root.Tag)
	}
}

func parseRSSItems(base *url.URL, channel *etree.Element) []geodossier.SourceReference {
	var refs []geodossier.SourceReference
	for _, item := range channel.SelectElements("item") {
		link := item.SelectElement("link")
		if link == nil {
			continue
		}
		if ref, ok := geodossier.NewSourceReference(base, childText(item, "title"), link.Text()); ok {
			refs = append(refs, ref)
		}
	}
	return refs
}

func parseAtomEntries(base *url.URL, feed *etree.Element) []geodossier.SourceReference {
	var refs []geodossier.SourceReference
	for _, entry := range feed.SelectElements("entry") {
		var href string
		for _, link := range entry.SelectElements("link") {
			rel := link.SelectAttrValue("rel", "alternate")
			if rel == "alternate" {
				href = link.SelectAttrValue("href", "")
				break
			}
		}
		if ref, ok := geodossier.NewSourceReference(base, childText(entry, "title"), href); ok {
			refs = append(refs, ref)
		}
	}
	return refs
}

func childText(el *etree.Element, tag string) string {
	child := el.SelectElement(tag)
	if child == nil {
		return ""
	}
	return child.Text()
}
