package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/geodossier"
)

// Ensure LoggingEmbedder implements geodossier.Embedder.
var _ geodossier.Embedder = (*LoggingEmbedder)(nil)

// LoggingEmbedder wraps an Embedder with debug logging.
type LoggingEmbedder struct {
	next   geodossier.Embedder
	logger *slog.Logger
}

// NewLoggingEmbedder creates a new LoggingEmbedder.
func NewLoggingEmbedder(next geodossier.Embedder, logger *slog.Logger) *LoggingEmbedder {
	return &LoggingEmbedder{next: next, logger: logger}
}

// Embed delegates to the wrapped embedder and logs the vector size.
func (e *LoggingEmbedder) Embed(ctx context.Context, text string) (vector []float32, err error) {
	defer func(begin time.Time) {
		e.logger.Debug("embed",
			"chars", len(text),
			"dimensions", len(vector),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.Embed(ctx, text)
}

// Ensure LoggingVectorIndex implements geodossier.VectorIndex.
var _ geodossier.VectorIndex = (*LoggingVectorIndex)(nil)

// LoggingVectorIndex wraps a VectorIndex with logging.
type LoggingVectorIndex struct {
	next   geodossier.VectorIndex
	logger *slog.Logger
}

// NewLoggingVectorIndex creates a new LoggingVectorIndex.
func NewLoggingVectorIndex(next geodossier.VectorIndex, logger *slog.Logger) *LoggingVectorIndex {
	return &LoggingVectorIndex{next: next, logger: logger}
}

// Query delegates to the wrapped index and logs the match count.
func (v *LoggingVectorIndex) Query(ctx context.Context, indexID string, vector []float32, limit int) (records []geodossier.CorrelationRecord, err error) {
	defer func(begin time.Time) {
		v.logger.Info("vector query",
			"index", indexID,
			"limit", limit,
			"count", len(records),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return v.next.Query(ctx, indexID, vector, limit)
}
