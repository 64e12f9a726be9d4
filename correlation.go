package geodossier

import (
	"context"
	"sort"
	"time"
)

// CorrelationRecord is one semantic match from a vector index.
type CorrelationRecord struct {
	Label  string  `json:"label"`
	Score  float64 `json:"score"` // 0-1
	Detail string  `json:"detail"`
}

// SortCorrelations orders records by descending score, then label.
func SortCorrelations(records []CorrelationRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Score != records[j].Score {
			return records[i].Score > records[j].Score
		}
		return records[i].Label < records[j].Label
	})
}

// ClampScore limits s to [0,1].
func ClampScore(s float64) float64 {
	switch {
	case s < 0 || s != s:
		return 0
	case s > 1:
		return 1
	}
	return s
}

// Correlator correlates a query against a semantic vector index.
// It is best-effort enrichment: configuration and connectivity failures
// yield an empty result, indistinguishable from "no correlations".
type Correlator interface {
	Correlate(ctx context.Context, queryText, indexID string) []CorrelationRecord
}

// Embedder converts text into an embedding vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// VectorIndex runs similarity queries against an index.
type VectorIndex interface {
	// Query returns up to limit records ranked by similarity to vector.
	// An index with no records returns an empty slice.
	Query(ctx context.Context, indexID string, vector []float32, limit int) ([]CorrelationRecord, error)
}

// IndexRecord is a labelled, embedded entry stored in a vector index.
type IndexRecord struct {
	ID          string    `json:"id"`
	IndexID     string    `json:"indexId"`
	Label       string    `json:"label"`
	Detail      string    `json:"detail"`
	ContentHash string    `json:"contentHash"`
	Embedding   []float32 `json:"embedding,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Validate returns an error if the record contains invalid fields.
func (r *IndexRecord) Validate() error {
	if r.IndexID == "" {
		return Errorf(EINVALID, "index ID required")
	}
	if r.Label == "" {
		return Errorf(EINVALID, "record label required")
	}
	if len(r.Embedding) == 0 {
		return Errorf(EINVALID, "record embedding required")
	}
	return nil
}

// IndexService manages records of a local vector index.
type IndexService interface {
	// CreateRecord stores a record. A record whose content already exists
	// in the same index is not stored again; rec is populated from the
	// existing row instead.
	CreateRecord(ctx context.Context, rec *IndexRecord) error

	// FindRecords retrieves records matching the filter.
	FindRecords(ctx context.Context, filter IndexRecordFilter) ([]*IndexRecord, error)

	// DeleteIndex removes every record of an index.
	// Returns ENOTFOUND if the index has no records.
	DeleteIndex(ctx context.Context, indexID string) error
}

// IndexRecordFilter represents a filter for FindRecords.
type IndexRecordFilter struct {
	IndexID *string `json:"indexId"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// MaxEmbeddingTokens is the input limit of the embedding model. Longer record
// texts are rejected rather than silently truncated by the provider.
const MaxEmbeddingTokens = 2048

// TokenCounter counts the tokens a model sees for text.
type TokenCounter interface {
	CountTokens(ctx context.Context, text string) (int, error)
}
