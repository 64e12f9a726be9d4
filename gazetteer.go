package geodossier

import "strings"

// DefaultJurisdictions is the allow-list used when no configuration overrides it.
var DefaultJurisdictions = []string{"Milano", "Monza e della Brianza", "Monza e Brianza", "Monza"}

// Gazetteer is the static allow-list of recognized jurisdictions.
type Gazetteer struct {
	Names         []string
	CaseSensitive bool
}

// NewGazetteer returns a Gazetteer over a copy of names.
func NewGazetteer(names []string, caseSensitive bool) *Gazetteer {
	return &Gazetteer{
		Names:         append([]string(nil), names...),
		CaseSensitive: caseSensitive,
	}
}

// Allows reports whether administrativeName contains any allow-listed name.
// Partial names match: "Città metropolitana di Milano" is allowed by "Milano".
func (g *Gazetteer) Allows(administrativeName string) bool {
	if g == nil || administrativeName == "" {
		return false
	}

	name := administrativeName
	if !g.CaseSensitive {
		name = strings.ToLower(name)
	}
	for _, allowed := range g.Names {
		if allowed == "" {
			continue
		}
		if !g.CaseSensitive {
			allowed = strings.ToLower(allowed)
		}
		if strings.Contains(name, allowed) {
			return true
		}
	}
	return false
}
