// Package cel excludes harvested sources with operator-supplied CEL rules.
package cel

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/fwojciec/geodossier"
	"github.com/google/cel-go/cel"
)

var _ geodossier.SourceFilter = (*SourceFilter)(nil)

// SourceFilter drops a source when any of its rules evaluates to true.
// Rules see a single map variable, source, with the string keys title, url,
// host and site:
//
//	source.site == "facebook"
//	source.title.matches("(?i)meteo")
type SourceFilter struct {
	rules    []string
	programs []cel.Program

	// Logger receives rules that fail to evaluate. Optional.
	Logger *slog.Logger
}

// NewSourceFilter compiles rules. Returns EINVALID when a rule does not
// compile or does not yield a bool.
func NewSourceFilter(rules []string) (*SourceFilter, error) {
	env, err := cel.NewEnv(
		cel.Variable("source", cel.MapType(cel.StringType, cel.StringType)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}

	f := &SourceFilter{}
	for i, rule := range rules {
		ast, iss := env.Compile(rule)
		if err := iss.Err(); err != nil {
			return nil, geodossier.Errorf(geodossier.EINVALID, "exclude rule %d: %v", i, err)
		}
		if !ast.OutputType().IsExactType(cel.BoolType) {
			return nil, geodossier.Errorf(geodossier.EINVALID, "exclude rule %d: yields %s, want bool", i, ast.OutputType())
		}
		prg, err := env.Program(ast)
		if err != nil {
			return nil, geodossier.Errorf(geodossier.EINVALID, "exclude rule %d: %v", i, err)
		}
		f.rules = append(f.rules, rule)
		f.programs = append(f.programs, prg)
	}
	return f, nil
}

// Len returns the number of rules.
func (f *SourceFilter) Len() int {
	return len(f.programs)
}

// Excludes reports whether any rule matches ref. A rule that fails at
// runtime does not match.
func (f *SourceFilter) Excludes(ref geodossier.SourceReference) bool {
	if len(f.programs) == 0 {
		return false
	}

	var host string
	if u, err := url.Parse(ref.URL); err == nil {
		host = strings.ToLower(u.Hostname())
	}
	input := map[string]any{
		"source": map[string]string{
			"title": ref.Title,
			"url":   ref.URL,
			"host":  host,
			"site":  geodossier.SiteName(host),
		},
	}

	for i, prg := range f.programs {
		out, _, err := prg.Eval(input)
		if err != nil {
			if f.Logger != nil {
				f.Logger.Debug("exclude rule failed", "rule", f.rules[i], "url", ref.URL, "err", err)
			}
			continue
		}
		if matched, ok := out.Value().(bool); ok && matched {
			return true
		}
	}
	return false
}
