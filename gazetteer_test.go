package geodossier_test

import (
	"testing"

	"github.com/fwojciec/geodossier"
	"github.com/stretchr/testify/assert"
)

func TestGazetteer_Allows(t *testing.T) {
	t.Parallel()

	g := geodossier.NewGazetteer(geodossier.DefaultJurisdictions, true)

	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"exact province", "Milano", true},
		{"metropolitan city contains name", "Città metropolitana di Milano", true},
		{"full Monza name", "Monza e della Brianza", true},
		{"short Monza name", "Monza e Brianza", true},
		{"other province", "Napoli", false},
		{"empty name", "", false},
		{"case differs", "milano", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, g.Allows(tt.in))
		})
	}
}

func TestGazetteer_CaseInsensitive(t *testing.T) {
	t.Parallel()

	g := geodossier.NewGazetteer([]string{"Milano"}, false)

	assert.True(t, g.Allows("CITTÀ METROPOLITANA DI MILANO"))
	assert.False(t, g.Allows("Roma"))
}

func TestGazetteer_IgnoresEmptyEntries(t *testing.T) {
	t.Parallel()

	g := geodossier.NewGazetteer([]string{""}, true)

	assert.False(t, g.Allows("Napoli"))
}

func TestGazetteer_NilNeverAllows(t *testing.T) {
	t.Parallel()

	var g *geodossier.Gazetteer
	assert.False(t, g.Allows("Milano"))
}

func TestNewGazetteer_CopiesNames(t *testing.T) {
	t.Parallel()

	names := []string{"Milano"}
	g := geodossier.NewGazetteer(names, true)
	names[0] = "Napoli"

	assert.True(t, g.Allows("Milano"))
}

func TestPlace_Locality(t *testing.T) {
	t.Parallel()

	fields := []string{"city", "town", "village", "suburb"}

	t.Run("prefers earlier fields", func(t *testing.T) {
		t.Parallel()

		p := &geodossier.Place{Address: map[string]string{"town": "Monza", "city": "Milano"}}
		assert.Equal(t, "Milano", p.Locality(fields))
	})

	t.Run("falls back through fields", func(t *testing.T) {
		t.Parallel()

		p := &geodossier.Place{Address: map[string]string{"suburb": "Brera"}}
		assert.Equal(t, "Brera", p.Locality(fields))
	})

	t.Run("returns sentinel when nothing matches", func(t *testing.T) {
		t.Parallel()

		p := &geodossier.Place{Address: map[string]string{"county": "Milano"}}
		assert.Equal(t, geodossier.UnresolvedLocality, p.Locality(fields))
	})
}
