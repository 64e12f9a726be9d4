package main

import (
	"fmt"

	"github.com/fwojciec/geodossier"
)

// Run executes the analyze command.
func (c *AnalyzeCmd) Run(deps *Dependencies) error {
	if deps.Metrics != nil && c.MetricsFile != "" {
		defer func() {
			if err := deps.Metrics.WriteToTextfile(c.MetricsFile); err != nil {
				fmt.Fprintf(deps.Stderr, "warning: writing metrics: %v\n", err)
			}
		}()
	}

	result, artifact, err := deps.Analyzer.Analyze(deps.Ctx, c.Address)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", geodossier.UserMessage(err))
		return err
	}

	loc := result.Location
	fmt.Fprintf(deps.Stdout, "Location: %s (%s)\n", loc.ResolvedMunicipality, loc.Jurisdiction)
	fmt.Fprintf(deps.Stdout, "  Coordinates: %.6f, %.6f\n", loc.Latitude, loc.Longitude)

	if result.Harvest.Performed {
		fmt.Fprintf(deps.Stdout, "Sources: %d (queries: %d, failed: %d)\n",
			len(result.Sources), result.Harvest.Queries, result.Harvest.Failed)
	} else {
		fmt.Fprintln(deps.Stdout, "Sources: harvesting not performed")
	}
	for _, s := range result.Sources {
		fmt.Fprintf(deps.Stdout, "  %s  %s\n", s.Title, geodossier.TruncateURL(s.URL, geodossier.DefaultURLTruncateLength))
	}

	fmt.Fprintf(deps.Stdout, "Correlations: %d\n", len(result.Correlations))
	for _, r := range result.Correlations {
		fmt.Fprintf(deps.Stdout, "  %.2f  %s\n", r.Score, r.Label)
	}

	if c.DryRun {
		fmt.Fprintf(deps.Stdout, "Dossier %s not written (%s, dry run)\n", artifact.Filename, formatBytes(len(artifact.Content)))
		return nil
	}

	path, err := deps.Store.SaveArtifact(deps.Ctx, artifact)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: saving dossier: %v\n", err)
		return err
	}

	fmt.Fprintf(deps.Stdout, "Dossier written to %s (%s)\n", path, formatBytes(len(artifact.Content)))
	return nil
}

// formatBytes formats a byte count in human-readable form.
func formatBytes(bytes int) string {
	const (
		KB = 1024
		MB = KB * 1024
	)
	switch {
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
