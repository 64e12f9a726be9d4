package sqlite

import (
	"context"

	"github.com/fwojciec/geodossier"
)

var _ geodossier.VectorIndex = (*VectorIndex)(nil)

// VectorIndex ranks the records of an index by cosine similarity.
// Records are scanned in full; indexes are expected to hold at most a few
// thousand entries.
type VectorIndex struct {
	db *DB
}

// NewVectorIndex creates a new VectorIndex.
func NewVectorIndex(db *DB) *VectorIndex {
	return &VectorIndex{db: db}
}

// Query returns up to limit records of indexID, best match first.
// Records whose dimension differs from vector are ignored.
func (v *VectorIndex) Query(ctx context.Context, indexID string, vector []float32, limit int) ([]geodossier.CorrelationRecord, error) {
	if len(vector) == 0 {
		return nil, geodossier.Errorf(geodossier.EINVALID, "query vector required")
	}

	rows, err := v.db.QueryContext(ctx,
		"SELECT label, detail, embedding FROM records WHERE index_id = ?", indexID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []geodossier.CorrelationRecord{}
	for rows.Next() {
		var rec geodossier.CorrelationRecord
		var blob []byte
		if err := rows.Scan(&rec.Label, &rec.Detail, &blob); err != nil {
			return nil, err
		}

		embedding, err := decodeEmbedding(blob)
		if err != nil {
			return nil, err
		}
		if len(embedding) != len(vector) {
			continue
		}

		rec.Score = geodossier.ClampScore(cosine(vector, embedding))
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	geodossier.SortCorrelations(records)
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}
