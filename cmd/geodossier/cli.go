package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/geodossier"
	"github.com/fwojciec/geodossier/prometheus"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	Config   geodossier.Config
	Logger   *slog.Logger
	Analyzer geodossier.Analyzer
	Store    geodossier.ArtifactStore
	Index    geodossier.IndexService
	Embedder geodossier.Embedder
	Tokens   geodossier.TokenCounter
	Metrics  *prometheus.Metrics
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config  string `help:"YAML configuration file" type:"path" env:"GEODOSSIER_CONFIG"`
	DB      string `name:"db" help:"Vector index database path" type:"path" env:"GEODOSSIER_DB"`
	Verbose bool   `short:"v" help:"Enable debug logging"`
	APIKey  string `name:"api-key" help:"Gemini API key used for embeddings" env:"GEMINI_API_KEY"`

	Analyze       AnalyzeCmd       `cmd:"" help:"Analyze an address and compile its dossier"`
	Index         IndexCmd         `cmd:"" help:"Manage the local vector index"`
	Jurisdictions JurisdictionsCmd `cmd:"" help:"Print the jurisdiction allow-list in effect"`
}

// AnalyzeCmd is the "analyze" subcommand.
type AnalyzeCmd struct {
	Address string `arg:"" help:"Free-text address to analyze"`
	Output  string `short:"o" default:"." help:"Directory or s3://bucket/prefix the dossier is written to"`
	Index   string `help:"Vector index used for correlation (overrides config)"`
	Format  string `short:"f" default:"pdf" enum:"pdf,docx" help:"Dossier format (pdf, docx)"`
	Browser bool   `help:"Fetch search surfaces with headless Chrome"`
	DryRun  bool   `name:"dry-run" help:"Print the summary without writing the dossier"`

	MetricsFile string `name:"metrics-file" type:"path" env:"GEODOSSIER_METRICS_FILE" help:"Write Prometheus metrics to this file after the run"`
}

// IndexCmd groups the vector index subcommands.
type IndexCmd struct {
	Add    IndexAddCmd    `cmd:"" help:"Embed and store a labelled record"`
	List   IndexListCmd   `cmd:"" help:"List the records of an index"`
	Delete IndexDeleteCmd `cmd:"" help:"Delete an index and all its records"`
}

// IndexAddCmd is the "index add" subcommand.
type IndexAddCmd struct {
	IndexID string `arg:"" name:"index" help:"Index identifier"`
	Label   string `arg:"" help:"Record label"`
	Detail  string `arg:"" help:"Record detail text"`
}

// IndexListCmd is the "index list" subcommand.
type IndexListCmd struct {
	IndexID string `arg:"" name:"index" help:"Index identifier"`
}

// IndexDeleteCmd is the "index delete" subcommand.
type IndexDeleteCmd struct {
	IndexID string `arg:"" name:"index" help:"Index identifier"`
	Force   bool   `help:"Confirm deletion"`
}

// JurisdictionsCmd is the "jurisdictions" subcommand.
type JurisdictionsCmd struct{}
