package mock

import (
	"context"

	"github.com/fwojciec/geodossier"
)

var _ geodossier.Correlator = (*Correlator)(nil)

// Correlator is a mock implementation of geodossier.Correlator.
type Correlator struct {
	CorrelateFn func(ctx context.Context, queryText, indexID string) []geodossier.CorrelationRecord
}

func (c *Correlator) Correlate(ctx context.Context, queryText, indexID string) []geodossier.CorrelationRecord {
	return c.CorrelateFn(ctx, queryText, indexID)
}

var _ geodossier.Embedder = (*Embedder)(nil)

// Embedder is a mock implementation of geodossier.Embedder.
type Embedder struct {
	EmbedFn func(ctx context.Context, text string) ([]float32, error)
}

func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return e.EmbedFn(ctx, text)
}

var _ geodossier.VectorIndex = (*VectorIndex)(nil)

// VectorIndex is a mock implementation of geodossier.VectorIndex.
type VectorIndex struct {
	QueryFn func(ctx context.Context, indexID string, vector []float32, limit int) ([]geodossier.CorrelationRecord, error)
}

func (v *VectorIndex) Query(ctx context.Context, indexID string, vector []float32, limit int) ([]geodossier.CorrelationRecord, error) {
	return v.QueryFn(ctx, indexID, vector, limit)
}

var _ geodossier.IndexService = (*IndexService)(nil)

// IndexService is a mock implementation of geodossier.IndexService.
type IndexService struct {
	CreateRecordFn func(ctx context.Context, rec *geodossier.IndexRecord) error
	FindRecordsFn  func(ctx context.Context, filter geodossier.IndexRecordFilter) ([]*geodossier.IndexRecord, error)
	DeleteIndexFn  func(ctx context.Context, indexID string) error
}

func (s *IndexService) CreateRecord(ctx context.Context, rec *geodossier.IndexRecord) error {
	return s.CreateRecordFn(ctx, rec)
}

func (s *IndexService) FindRecords(ctx context.Context, filter geodossier.IndexRecordFilter) ([]*geodossier.IndexRecord, error) {
	return s.FindRecordsFn(ctx, filter)
}

func (s *IndexService) DeleteIndex(ctx context.Context, indexID string) error {
	return s.DeleteIndexFn(ctx, indexID)
}

var _ geodossier.TokenCounter = (*TokenCounter)(nil)

// TokenCounter is a mock implementation of geodossier.TokenCounter.
type TokenCounter struct {
	CountTokensFn func(ctx context.Context, text string) (int, error)
}

func (c *TokenCounter) CountTokens(ctx context.Context, text string) (int, error) {
	return c.CountTokensFn(ctx, text)
}
