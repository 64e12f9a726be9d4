package geodossier

import (
	"fmt"
	"strings"
	"time"
)

// DefaultURLTruncateLength is the number of runes of a source URL shown in a dossier.
const DefaultURLTruncateLength = 60

// DossierStyle holds the text and styling constants of a dossier.
type DossierStyle struct {
	Banner      string `yaml:"banner"`
	TitlePrefix string `yaml:"title_prefix"`
	DateLayout  string `yaml:"date_layout"`

	TargetHeading      string `yaml:"target_heading"`
	CorrelationHeading string `yaml:"correlation_heading"`
	SourcesHeading     string `yaml:"sources_heading"`
	NarrativeHeading   string `yaml:"narrative_heading"`

	NoCorrelations string `yaml:"no_correlations"`
	NoSources      string `yaml:"no_sources"`
	HarvestSkipped string `yaml:"harvest_skipped"`

	// Narrative may contain {municipality} and {jurisdiction}.
	Narrative string `yaml:"narrative"`

	URLTruncateLength int    `yaml:"url_truncate_length"`
	HeadingFill       [3]int `yaml:"heading_fill"`
	Compress          bool   `yaml:"compress"`
}

// DefaultDossierStyle returns the default dossier style.
func DefaultDossierStyle() DossierStyle {
	return DossierStyle{
		Banner:             "STRICTLY CONFIDENTIAL - TERRITORIAL INTELLIGENCE DOSSIER",
		TitlePrefix:        "DOSSIER",
		DateLayout:         "02/01/2006 15:04 MST",
		TargetHeading:      "1. TARGET FRAMING",
		CorrelationHeading: "2. SEMANTIC CORRELATION FINDINGS",
		SourcesHeading:     "3. OPEN-SOURCE FINDINGS",
		NarrativeHeading:   "4. ASSESSMENT",
		NoCorrelations:     "No semantic correlation found in the vector index.",
		NoSources:          "No open-source reference found in this scan.",
		HarvestSkipped:     "Open-source harvesting was not performed for this analysis.",
		Narrative: "The target lies in the municipality of {municipality}, within the jurisdiction of {jurisdiction}. " +
			"The findings above aggregate best-effort signals from third-party sources and must be verified before operational use.",
		URLTruncateLength: DefaultURLTruncateLength,
		HeadingFill:       [3]int{230, 230, 230},
		Compress:          true,
	}
}

// Dossier is the format-independent content of a rendered dossier.
type Dossier struct {
	Banner   string
	Title    string
	Subtitle string
	Sections []DossierSection
}

// DossierSection is one numbered section. Lines are plain paragraphs,
// rendered before Entries.
type DossierSection struct {
	Heading string
	Lines   []string
	Entries []DossierEntry
}

// DossierEntry is an emphasized heading followed by a body paragraph.
type DossierEntry struct {
	Heading string
	Body    string
}

// ComposeDossier builds the dossier content for result. The four sections
// are always present and always in the same order.
func ComposeDossier(result *AnalysisResult, style DossierStyle) *Dossier {
	loc := result.Location

	d := &Dossier{
		Banner:   style.Banner,
		Title:    style.TitlePrefix + ": " + strings.ToUpper(loc.ResolvedMunicipality),
		Subtitle: "Generated: " + result.GeneratedAt.UTC().Format(style.DateLayout),
	}

	d.Sections = append(d.Sections, DossierSection{
		Heading: style.TargetHeading,
		Lines: []string{
			"Target: " + loc.RawQuery,
			"Municipality: " + loc.ResolvedMunicipality,
			"Jurisdiction: " + loc.Jurisdiction,
			fmt.Sprintf("Coordinates: %.6f, %.6f", loc.Latitude, loc.Longitude),
		},
	})

	correlations := DossierSection{Heading: style.CorrelationHeading}
	if len(result.Correlations) == 0 {
		correlations.Lines = []string{style.NoCorrelations}
	}
	for _, c := range result.Correlations {
		correlations.Entries = append(correlations.Entries, DossierEntry{
			Heading: fmt.Sprintf("- %s (score: %.2f)", c.Label, c.Score),
			Body:    c.Detail,
		})
	}
	d.Sections = append(d.Sections, correlations)

	sources := DossierSection{Heading: style.SourcesHeading}
	switch {
	case !result.Harvest.Performed:
		sources.Lines = []string{style.HarvestSkipped}
	case len(result.Sources) == 0:
		sources.Lines = []string{style.NoSources}
	}
	if result.Harvest.Performed {
		sources.Lines = append(sources.Lines, fmt.Sprintf("Queries issued: %d, failed: %d.",
			result.Harvest.Queries, result.Harvest.Failed))
	}
	for _, s := range result.Sources {
		sources.Entries = append(sources.Entries, DossierEntry{
			Heading: "- " + s.Title,
			Body:    "Link: " + TruncateURL(s.URL, style.URLTruncateLength),
		})
	}
	d.Sections = append(d.Sections, sources)

	narrative := strings.NewReplacer(
		"{municipality}", loc.ResolvedMunicipality,
		"{jurisdiction}", loc.Jurisdiction,
	).Replace(style.Narrative)
	d.Sections = append(d.Sections, DossierSection{
		Heading: style.NarrativeHeading,
		Lines:   []string{narrative},
	})

	return d
}

// TruncateURL shortens u to at most n runes followed by "...".
// The cut never splits a percent-escape; n <= 0 disables truncation.
func TruncateURL(u string, n int) string {
	runes := []rune(u)
	if n <= 0 || len(runes) <= n {
		return u
	}

	cut := n
	for i := cut - 1; i >= 0 && i >= n-2; i-- {
		if runes[i] == '%' {
			cut = i
			break
		}
	}
	return string(runes[:cut]) + "..."
}

// ArtifactFilename returns the suggested file name of a dossier:
// Dossier_<municipality slug>_<UTC YYYYMMDD-HHMM>.<ext>.
func ArtifactFilename(municipality string, generatedAt time.Time, ext string) string {
	slug := Slug(municipality)
	if slug == "" {
		slug = UnresolvedLocality
	}
	return fmt.Sprintf("Dossier_%s_%s.%s", slug, generatedAt.UTC().Format("20060102-1504"), ext)
}
