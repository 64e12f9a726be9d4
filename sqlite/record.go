package sqlite

import (
	"context"
	"encoding/hex"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/geodossier"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ geodossier.IndexService = (*IndexService)(nil)

// IndexService implements geodossier.IndexService using SQLite.
type IndexService struct {
	db *DB
}

// NewIndexService creates a new IndexService.
func NewIndexService(db *DB) *IndexService {
	return &IndexService{db: db}
}

// hashContent computes the xxHash of a record's label and detail as hex.
func hashContent(label, detail string) string {
	d := xxhash.New()
	_, _ = d.WriteString(label)
	_, _ = d.WriteString("\x00")
	_, _ = d.WriteString(detail)
	return hex.EncodeToString(d.Sum(nil))
}

// CreateRecord stores a record, or populates rec from the existing row when
// the same label and detail are already in the index.
func (s *IndexService) CreateRecord(ctx context.Context, rec *geodossier.IndexRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	rec.ContentHash = hashContent(rec.Label, rec.Detail)

	existing, err := s.findOne(ctx, rec.IndexID, rec.ContentHash)
	if err == nil {
		*rec = *existing
		return nil
	}
	if geodossier.ErrorCode(err) != geodossier.ENOTFOUND {
		return err
	}

	rec.ID = uuid.New().String()
	rec.CreatedAt = s.db.now().UTC().Truncate(time.Second)

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO records (id, index_id, label, detail, content_hash, embedding, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.IndexID, rec.Label, rec.Detail, rec.ContentHash,
		encodeEmbedding(rec.Embedding), rec.CreatedAt.Format(time.RFC3339))

	return err
}

func (s *IndexService) findOne(ctx context.Context, indexID, contentHash string) (*geodossier.IndexRecord, error) {
	recs, err := s.find(ctx, "index_id = ? AND content_hash = ?", []any{indexID, contentHash}, 1, 0)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, geodossier.Errorf(geodossier.ENOTFOUND, "record not found")
	}
	return recs[0], nil
}

// FindRecords retrieves records matching the filter, oldest first.
func (s *IndexService) FindRecords(ctx context.Context, filter geodossier.IndexRecordFilter) ([]*geodossier.IndexRecord, error) {
	where := "1=1"
	var args []any
	if filter.IndexID != nil {
		where += " AND index_id = ?"
		args = append(args, *filter.IndexID)
	}
	return s.find(ctx, where, args, filter.Limit, filter.Offset)
}

func (s *IndexService) find(ctx context.Context, where string, args []any, limit, offset int) ([]*geodossier.IndexRecord, error) {
	var query strings.Builder
	query.WriteString("SELECT id, index_id, label, detail, content_hash, embedding, created_at FROM records WHERE ")
	query.WriteString(where)
	query.WriteString(" ORDER BY created_at ASC, rowid ASC")
	appendPagination(&query, &args, limit, offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recs := []*geodossier.IndexRecord{}
	for rows.Next() {
		var rec geodossier.IndexRecord
		var embedding []byte
		var createdAt string

		if err := rows.Scan(&rec.ID, &rec.IndexID, &rec.Label, &rec.Detail,
			&rec.ContentHash, &embedding, &createdAt); err != nil {
			return nil, err
		}

		if rec.Embedding, err = decodeEmbedding(embedding); err != nil {
			return nil, err
		}
		if rec.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
			return nil, err
		}

		recs = append(recs, &rec)
	}

	return recs, rows.Err()
}

// DeleteIndex removes every record of an index.
func (s *IndexService) DeleteIndex(ctx context.Context, indexID string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM records WHERE index_id = ?", indexID)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return geodossier.Errorf(geodossier.ENOTFOUND, "index %q not found", indexID)
	}
	return nil
}
