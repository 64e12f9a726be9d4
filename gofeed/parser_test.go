package gofeed_test

import (
	"testing"
	"time"

	"github.com/fwojciec/geodossier"
	"github.com/fwojciec/geodossier/gofeed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const feedURL = "https://news.example.it/rss/search?q=monza"

func fixedNow() time.Time {
	return time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
}

func TestFeedParser_ParseResults(t *testing.T) {
	t.Parallel()

	t.Run("extracts RSS items in order", func(t *testing.T) {
		t.Parallel()

		rss := `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel>
	<title>Monza</title>
	<item><title>Controlli in centro a Monza</title><link>https://www.ilcittadinomb.it/cronaca/controlli</link></item>
	<item><title>Ordinanza anti-alcol</title><link>/news/ordinanza</link></item>
</channel></rss>`

		refs, err := gofeed.NewFeedParser(0).ParseResults(rss, feedURL)

		require.NoError(t, err)
		assert.Equal(t, []geodossier.SourceReference{
			{Title: "Controlli in centro a Monza", URL: "https://www.ilcittadinomb.it/cronaca/controlli"},
			{Title: "Ordinanza anti-alcol", URL: "https://news.example.it/news/ordinanza"},
		}, refs)
	})

	t.Run("extracts JSON Feed items", func(t *testing.T) {
		t.Parallel()

		jsonFeed := `{
	"version": "https://jsonfeed.org/version/1.1",
	"title": "Brianza news",
	"items": [
		{"id": "1", "title": "Sicurezza urbana, nuovo piano", "url": "https://www.mbnews.it/sicurezza-piano"}
	]
}`

		refs, err := gofeed.NewFeedParser(0).ParseResults(jsonFeed, feedURL)

		require.NoError(t, err)
		assert.Equal(t, []geodossier.SourceReference{
			{Title: "Sicurezza urbana, nuovo piano", URL: "https://www.mbnews.it/sicurezza-piano"},
		}, refs)
	})

	t.Run("drops items older than max age", func(t *testing.T) {
		t.Parallel()

		rss := `<rss version="2.0"><channel>
	<item><title>Recent</title><link>https://example.com/recent</link><pubDate>Thu, 13 Mar 2025 10:00:00 +0000</pubDate></item>
	<item><title>Stale</title><link>https://example.com/stale</link><pubDate>Mon, 03 Feb 2025 10:00:00 +0000</pubDate></item>
	<item><title>Undated</title><link>https://example.com/undated</link></item>
</channel></rss>`

		p := gofeed.NewFeedParser(7 * 24 * time.Hour)
		p.Now = fixedNow

		refs, err := p.ParseResults(rss, feedURL)

		require.NoError(t, err)
		require.Len(t, refs, 2)
		assert.Equal(t, "Recent", refs[0].Title)
		assert.Equal(t, "Undated", refs[1].Title)
	})

	t.Run("skips items without title or usable link", func(t *testing.T) {
		t.Parallel()

		rss := `<rss version="2.0"><channel>
	<item><link>https://example.com/a</link></item>
	<item><title>No link</title></item>
	<item><title>Mail</title><link>mailto:redazione@example.com</link></item>
	<item><title>Kept</title><link>https://example.com/b</link></item>
</channel></rss>`

		refs, err := gofeed.NewFeedParser(0).ParseResults(rss, feedURL)

		require.NoError(t, err)
		require.Len(t, refs, 1)
		assert.Equal(t, "Kept", refs[0].Title)
	})

	t.Run("rejects documents that are not feeds", func(t *testing.T) {
		t.Parallel()

		_, err := gofeed.NewFeedParser(0).ParseResults("<html><body>captcha</body></html>", feedURL)

		require.Error(t, err)
		assert.Equal(t, geodossier.EINVALID, geodossier.ErrorCode(err))
	})

	t.Run("rejects invalid page URL", func(t *testing.T) {
		t.Parallel()

		_, err := gofeed.NewFeedParser(0).ParseResults("<rss/>", "://bad")

		assert.Equal(t, geodossier.EINVALID, geodossier.ErrorCode(err))
	})
}
