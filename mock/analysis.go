package mock

import (
	"context"

	"github.com/fwojciec/geodossier"
)

var _ geodossier.Compiler = (*Compiler)(nil)

// Compiler is a mock implementation of geodossier.Compiler.
type Compiler struct {
	CompileFn func(result *geodossier.AnalysisResult) (*geodossier.DossierArtifact, error)
}

func (c *Compiler) Compile(result *geodossier.AnalysisResult) (*geodossier.DossierArtifact, error) {
	return c.CompileFn(result)
}

var _ geodossier.Analyzer = (*Analyzer)(nil)

// Analyzer is a mock implementation of geodossier.Analyzer.
type Analyzer struct {
	AnalyzeFn func(ctx context.Context, query string) (*geodossier.AnalysisResult, *geodossier.DossierArtifact, error)
}

func (a *Analyzer) Analyze(ctx context.Context, query string) (*geodossier.AnalysisResult, *geodossier.DossierArtifact, error) {
	return a.AnalyzeFn(ctx, query)
}

var _ geodossier.ArtifactStore = (*ArtifactStore)(nil)

// ArtifactStore is a mock implementation of geodossier.ArtifactStore.
type ArtifactStore struct {
	SaveArtifactFn func(ctx context.Context, artifact *geodossier.DossierArtifact) (string, error)
}

func (s *ArtifactStore) SaveArtifact(ctx context.Context, artifact *geodossier.DossierArtifact) (string, error) {
	return s.SaveArtifactFn(ctx, artifact)
}
