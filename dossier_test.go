package geodossier_test

import (
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/geodossier"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newResult() *geodossier.AnalysisResult {
	return &geodossier.AnalysisResult{
		ID: "run-1",
		Location: geodossier.Location{
			RawQuery:             "Piazza del Duomo, Milano",
			ResolvedMunicipality: "Milano",
			Jurisdiction:         "Milano",
			Latitude:             45.4641943,
			Longitude:            9.1896346,
		},
		Harvest:     geodossier.HarvestCoverage{Performed: true, Queries: 4},
		GeneratedAt: time.Date(2026, 10, 16, 15, 30, 0, 0, time.UTC),
	}
}

func headings(d *geodossier.Dossier) []string {
	var out []string
	for _, s := range d.Sections {
		out = append(out, s.Heading)
	}
	return out
}

func TestComposeDossier(t *testing.T) {
	t.Parallel()

	style := geodossier.DefaultDossierStyle()
	wantHeadings := []string{
		style.TargetHeading,
		style.CorrelationHeading,
		style.SourcesHeading,
		style.NarrativeHeading,
	}

	t.Run("renders all sections when data is empty", func(t *testing.T) {
		t.Parallel()

		d := geodossier.ComposeDossier(newResult(), style)

		assert.Equal(t, wantHeadings, headings(d))
		assert.Equal(t, []string{style.NoCorrelations}, d.Sections[1].Lines)
		assert.Contains(t, d.Sections[2].Lines, style.NoSources)
		assert.Empty(t, d.Sections[1].Entries)
		assert.Empty(t, d.Sections[2].Entries)
	})

	t.Run("frames the target", func(t *testing.T) {
		t.Parallel()

		d := geodossier.ComposeDossier(newResult(), style)

		assert.Equal(t, "DOSSIER: MILANO", d.Title)
		assert.Equal(t, "Generated: 16/10/2026 15:30 UTC", d.Subtitle)
		assert.Equal(t, []string{
			"Target: Piazza del Duomo, Milano",
			"Municipality: Milano",
			"Jurisdiction: Milano",
			"Coordinates: 45.464194, 9.189635",
		}, d.Sections[0].Lines)
	})

	t.Run("lists correlations with score", func(t *testing.T) {
		t.Parallel()

		r := newResult()
		r.Correlations = []geodossier.CorrelationRecord{
			{Label: "Incident report", Score: 0.953, Detail: "High semantic correlation."},
		}

		d := geodossier.ComposeDossier(r, style)

		require.Len(t, d.Sections[1].Entries, 1)
		assert.Empty(t, d.Sections[1].Lines)
		assert.Equal(t, "- Incident report (score: 0.95)", d.Sections[1].Entries[0].Heading)
		assert.Equal(t, "High semantic correlation.", d.Sections[1].Entries[0].Body)
	})

	t.Run("lists sources with truncated link", func(t *testing.T) {
		t.Parallel()

		r := newResult()
		long := "https://www.prefettura.it/milano/contenuti/" + strings.Repeat("x", 80)
		r.Sources = []geodossier.SourceReference{{Title: "Prefettura di Milano", URL: long}}

		d := geodossier.ComposeDossier(r, style)

		require.Len(t, d.Sections[2].Entries, 1)
		assert.Equal(t, "- Prefettura di Milano", d.Sections[2].Entries[0].Heading)
		assert.Equal(t, "Link: "+long[:geodossier.DefaultURLTruncateLength]+"...", d.Sections[2].Entries[0].Body)
		assert.NotContains(t, d.Sections[2].Lines, style.NoSources)
	})

	t.Run("distinguishes harvest not performed from none found", func(t *testing.T) {
		t.Parallel()

		r := newResult()
		r.Harvest = geodossier.HarvestCoverage{}

		d := geodossier.ComposeDossier(r, style)

		assert.Equal(t, []string{style.HarvestSkipped}, d.Sections[2].Lines)
	})

	t.Run("reports failed queries", func(t *testing.T) {
		t.Parallel()

		r := newResult()
		r.Harvest.Failed = 4

		d := geodossier.ComposeDossier(r, style)

		assert.Equal(t, []string{style.NoSources, "Queries issued: 4, failed: 4."}, d.Sections[2].Lines)
	})

	t.Run("interpolates narrative", func(t *testing.T) {
		t.Parallel()

		r := newResult()
		r.Location.ResolvedMunicipality = "Monza"
		r.Location.Jurisdiction = "Monza e della Brianza"

		d := geodossier.ComposeDossier(r, style)

		require.Len(t, d.Sections[3].Lines, 1)
		assert.Contains(t, d.Sections[3].Lines[0], "municipality of Monza, within the jurisdiction of Monza e della Brianza")
	})

	t.Run("is deterministic", func(t *testing.T) {
		t.Parallel()

		r := newResult()
		r.Sources = []geodossier.SourceReference{{Title: "A", URL: "https://a.example"}}

		assert.Equal(t, geodossier.ComposeDossier(r, style), geodossier.ComposeDossier(r, style))
	})
}

func TestTruncateURL(t *testing.T) {
	t.Parallel()

	t.Run("keeps short URLs", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "https://a.example", geodossier.TruncateURL("https://a.example", 60))
	})

	t.Run("cuts long URLs", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "https://...", geodossier.TruncateURL("https://example.com", 8))
	})

	t.Run("does not split escape after percent", func(t *testing.T) {
		t.Parallel()

		// Cut at 10 would leave "https://a%".
		assert.Equal(t, "https://a...", geodossier.TruncateURL("https://a%20b/c", 10))
	})

	t.Run("does not split escape after first hex digit", func(t *testing.T) {
		t.Parallel()

		// Cut at 11 would leave "https://a%2".
		assert.Equal(t, "https://a...", geodossier.TruncateURL("https://a%20b/c", 11))
	})

	t.Run("keeps complete escape", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "https://a%20...", geodossier.TruncateURL("https://a%20b/c", 12))
	})

	t.Run("counts runes not bytes", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "https://città...", geodossier.TruncateURL("https://città.example", 13))
	})

	t.Run("zero length disables truncation", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "https://example.com", geodossier.TruncateURL("https://example.com", 0))
	})
}

func TestArtifactFilename(t *testing.T) {
	t.Parallel()

	ts := time.Date(2026, 10, 16, 17, 30, 0, 0, time.FixedZone("CEST", 2*3600))

	assert.Equal(t, "Dossier_milano_20261016-1530.pdf", geodossier.ArtifactFilename("Milano", ts, "pdf"))
	assert.Equal(t, "Dossier_sestosangiovanni_20261016-1530.docx", geodossier.ArtifactFilename("Sesto San Giovanni", ts, "docx"))
	assert.Equal(t, "Dossier_unresolved_20261016-1530.pdf", geodossier.ArtifactFilename("", ts, "pdf"))
}

func TestNewArtifact(t *testing.T) {
	t.Parallel()

	a := geodossier.NewArtifact("d.pdf", geodossier.MIMETypePDF, []byte("%PDF-1.3"))
	b := geodossier.NewArtifact("d.pdf", geodossier.MIMETypePDF, []byte("%PDF-1.3"))

	assert.NotEmpty(t, a.Checksum)
	assert.Equal(t, a.Checksum, b.Checksum)
	assert.Equal(t, geodossier.MIMETypePDF, a.MIMEType)
}
