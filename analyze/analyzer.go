package analyze

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/geodossier"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Stage is a step of an analysis request.
type Stage string

const (
	StageReceived   Stage = "received"
	StageResolving  Stage = "resolving"
	StageHarvesting Stage = "harvesting"
	StageCompiling  Stage = "compiling"
	StageCompleted  Stage = "completed"
)

// ProgressFunc is called as an analysis enters each stage.
type ProgressFunc func(stage Stage)

var _ geodossier.Analyzer = (*Analyzer)(nil)

// Analyzer sequences resolution, harvesting, correlation and compilation.
// Harvester and Correlator are optional; a nil Harvester is recorded as a
// harvest that was not performed.
type Analyzer struct {
	Resolver   geodossier.LocationResolver
	Harvester  geodossier.Harvester
	Correlator geodossier.Correlator
	Compiler   geodossier.Compiler

	// IndexID selects the vector index for correlation. Empty disables it.
	IndexID string

	Now      func() time.Time
	NewID    func() string
	Progress ProgressFunc
	Logger   *slog.Logger
}

// Analyze runs the pipeline for query. Resolution errors abort before any
// harvesting or correlation. Compilation errors are returned as
// ERENDERFAILURE and no artifact is produced.
func (a *Analyzer) Analyze(ctx context.Context, query string) (*geodossier.AnalysisResult, *geodossier.DossierArtifact, error) {
	logger := a.logger()
	begin := time.Now()

	a.progress(StageReceived)
	a.progress(StageResolving)

	loc, err := a.Resolver.Resolve(ctx, query)
	if err != nil {
		logger.Info("analysis rejected", "query", query, "code", geodossier.ErrorCode(err), "err", err)
		return nil, nil, err
	}

	a.progress(StageHarvesting)

	var harvest *geodossier.HarvestResult
	var correlations []geodossier.CorrelationRecord

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if a.Harvester != nil {
			harvest = a.Harvester.Harvest(gctx, loc.ResolvedMunicipality, loc.Jurisdiction)
		}
		return nil
	})
	g.Go(func() error {
		if a.Correlator != nil {
			correlations = a.Correlator.Correlate(gctx, loc.RawQuery, a.IndexID)
		}
		return nil
	})
	_ = g.Wait()

	result := &geodossier.AnalysisResult{
		ID:           a.newID(),
		Location:     *loc,
		Sources:      []geodossier.SourceReference{},
		Correlations: []geodossier.CorrelationRecord{},
		GeneratedAt:  a.now().UTC(),
	}
	if harvest != nil && harvest.Queries > 0 {
		result.Harvest = geodossier.HarvestCoverage{
			Performed: true,
			Queries:   harvest.Queries,
			Failed:    harvest.Failed,
		}
		if harvest.Sources != nil {
			result.Sources = harvest.Sources
		}
	}
	if correlations != nil {
		result.Correlations = correlations
	}

	a.progress(StageCompiling)

	artifact, err := a.Compiler.Compile(result)
	if err != nil {
		if geodossier.ErrorCode(err) != geodossier.ERENDERFAILURE {
			err = geodossier.Errorf(geodossier.ERENDERFAILURE, "compiling dossier: %v", err)
		}
		logger.Error("dossier compilation failed", "id", result.ID, "err", err)
		return nil, nil, err
	}

	a.progress(StageCompleted)

	logger.Info("analysis completed",
		"id", result.ID,
		"municipality", loc.ResolvedMunicipality,
		"jurisdiction", loc.Jurisdiction,
		"sources", len(result.Sources),
		"failed_queries", result.Harvest.Failed,
		"correlations", len(result.Correlations),
		"bytes", len(artifact.Content),
		"duration", time.Since(begin))

	return result, artifact, nil
}

func (a *Analyzer) progress(stage Stage) {
	if a.Progress != nil {
		a.Progress(stage)
	}
}

func (a *Analyzer) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *Analyzer) newID() string {
	if a.NewID != nil {
		return a.NewID()
	}
	return uuid.New().String()
}

func (a *Analyzer) logger() *slog.Logger {
	if a.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return a.Logger
}
