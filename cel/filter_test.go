package cel_test

import (
	"testing"

	"github.com/fwojciec/geodossier"
	"github.com/fwojciec/geodossier/cel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	facebook = geodossier.SourceReference{Title: "Gruppo Sei di Monza se...", URL: "https://www.facebook.com/groups/monza"}
	ilgiorno = geodossier.SourceReference{Title: "Monza, controlli in stazione", URL: "https://www.ilgiorno.it/monza/cronaca/controlli"}
	meteo    = geodossier.SourceReference{Title: "Meteo Monza domani", URL: "https://www.3bmeteo.com/meteo/monza"}
)

func TestSourceFilter_Excludes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		rules    []string
		excluded []geodossier.SourceReference
		kept     []geodossier.SourceReference
	}{
		{
			name: "no rules keep everything",
			kept: []geodossier.SourceReference{facebook, ilgiorno, meteo},
		},
		{
			name:     "site name",
			rules:    []string{`source.site == "facebook"`},
			excluded: []geodossier.SourceReference{facebook},
			kept:     []geodossier.SourceReference{ilgiorno, meteo},
		},
		{
			name:     "title pattern",
			rules:    []string{`source.title.matches("(?i)^meteo")`},
			excluded: []geodossier.SourceReference{meteo},
			kept:     []geodossier.SourceReference{facebook, ilgiorno},
		},
		{
			name:     "any rule matches",
			rules:    []string{`source.host.endsWith("facebook.com")`, `source.url.contains("/meteo/")`},
			excluded: []geodossier.SourceReference{facebook, meteo},
			kept:     []geodossier.SourceReference{ilgiorno},
		},
		{
			name:     "failing rule does not match and later rules still run",
			rules:    []string{`int(source.title) > 0`, `source.host == "www.ilgiorno.it"`},
			excluded: []geodossier.SourceReference{ilgiorno},
			kept:     []geodossier.SourceReference{facebook, meteo},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f, err := cel.NewSourceFilter(tt.rules)
			require.NoError(t, err)
			assert.Equal(t, len(tt.rules), f.Len())

			for _, ref := range tt.excluded {
				assert.True(t, f.Excludes(ref), ref.URL)
			}
			for _, ref := range tt.kept {
				assert.False(t, f.Excludes(ref), ref.URL)
			}
		})
	}
}

func TestNewSourceFilter_InvalidRules(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		rule string
		want string
	}{
		{"syntax error", `source.title ==`, "exclude rule 0"},
		{"not a bool", `source.title`, "want bool"},
		{"unknown variable", `page.title == "x"`, "exclude rule 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := cel.NewSourceFilter([]string{tt.rule})

			require.Error(t, err)
			assert.Equal(t, geodossier.EINVALID, geodossier.ErrorCode(err))
			assert.Contains(t, geodossier.ErrorMessage(err), tt.want)
		})
	}
}
