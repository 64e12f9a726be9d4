package main

import "fmt"

// Run executes the jurisdictions command.
func (c *JurisdictionsCmd) Run(deps *Dependencies) error {
	mode := "case-insensitive"
	if deps.Config.CaseSensitive {
		mode = "case-sensitive"
	}
	fmt.Fprintf(deps.Stdout, "Jurisdictions (%s substring match):\n", mode)
	for _, j := range deps.Config.Jurisdictions {
		fmt.Fprintf(deps.Stdout, "  %s\n", j)
	}
	return nil
}
