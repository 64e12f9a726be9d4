// Package correlate implements the semantic correlation client. It queries a
// vector index with the embedding of the analysis target and never fails:
// any problem degrades to an empty result.
package correlate

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/fwojciec/geodossier"
)

// Defaults applied when the corresponding Client field is zero.
const (
	DefaultLimit   = 5
	DefaultTimeout = 10 * time.Second
)

var _ geodossier.Correlator = (*Client)(nil)

// Client correlates query text against a vector index.
type Client struct {
	Embedder geodossier.Embedder
	Index    geodossier.VectorIndex
	Limit    int
	Timeout  time.Duration
	Logger   *slog.Logger
}

// Correlate returns the best matches for queryText in indexID, sorted by
// descending score. It returns an empty slice when indexID is empty, when the
// client is not configured, and on any embedding or index error.
func (c *Client) Correlate(ctx context.Context, queryText, indexID string) []geodossier.CorrelationRecord {
	logger := c.logger()

	if indexID == "" {
		logger.Debug("correlation skipped: no index configured")
		return []geodossier.CorrelationRecord{}
	}

	records, err := c.correlate(ctx, queryText, indexID)
	if err != nil {
		logger.Warn("correlation unavailable",
			"code", geodossier.ECORRELATIONUNAVAILABLE,
			"index", indexID,
			"err", err)
		return []geodossier.CorrelationRecord{}
	}
	return records
}

func (c *Client) correlate(ctx context.Context, queryText, indexID string) ([]geodossier.CorrelationRecord, error) {
	if c.Embedder == nil || c.Index == nil {
		return nil, geodossier.Errorf(geodossier.ECORRELATIONUNAVAILABLE, "correlation client not configured")
	}

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	vector, err := c.Embedder.Embed(ctx, queryText)
	if err != nil {
		return nil, err
	}
	if len(vector) == 0 {
		return nil, errors.New("empty query embedding")
	}

	limit := c.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	found, err := c.Index.Query(ctx, indexID, vector, limit)
	if err != nil {
		return nil, err
	}

	records := make([]geodossier.CorrelationRecord, 0, len(found))
	for _, r := range found {
		r.Score = geodossier.ClampScore(r.Score)
		records = append(records, r)
	}
	geodossier.SortCorrelations(records)
	if len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

func (c *Client) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}
