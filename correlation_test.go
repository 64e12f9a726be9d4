package geodossier_test

import (
	"math"
	"testing"

	"github.com/fwojciec/geodossier"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortCorrelations(t *testing.T) {
	t.Parallel()

	records := []geodossier.CorrelationRecord{
		{Label: "b", Score: 0.5},
		{Label: "c", Score: 0.9},
		{Label: "a", Score: 0.5},
	}

	geodossier.SortCorrelations(records)

	require.Len(t, records, 3)
	assert.Equal(t, "c", records[0].Label)
	assert.Equal(t, "a", records[1].Label)
	assert.Equal(t, "b", records[2].Label)
}

func TestClampScore(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 0.0, geodossier.ClampScore(-0.3), 0)
	assert.InDelta(t, 1.0, geodossier.ClampScore(1.2), 0)
	assert.InDelta(t, 0.42, geodossier.ClampScore(0.42), 0)
	assert.InDelta(t, 0.0, geodossier.ClampScore(math.NaN()), 0)
}

func TestIndexRecord_Validate(t *testing.T) {
	t.Parallel()

	t.Run("requires index ID", func(t *testing.T) {
		t.Parallel()

		r := &geodossier.IndexRecord{Label: "x", Embedding: []float32{1}}
		assert.Equal(t, geodossier.EINVALID, geodossier.ErrorCode(r.Validate()))
	})

	t.Run("requires label", func(t *testing.T) {
		t.Parallel()

		r := &geodossier.IndexRecord{IndexID: "idx", Embedding: []float32{1}}
		assert.Equal(t, geodossier.EINVALID, geodossier.ErrorCode(r.Validate()))
	})

	t.Run("requires embedding", func(t *testing.T) {
		t.Parallel()

		r := &geodossier.IndexRecord{IndexID: "idx", Label: "x"}
		assert.Equal(t, geodossier.EINVALID, geodossier.ErrorCode(r.Validate()))
	})

	t.Run("accepts complete record", func(t *testing.T) {
		t.Parallel()

		r := &geodossier.IndexRecord{IndexID: "idx", Label: "x", Embedding: []float32{1}}
		assert.NoError(t, r.Validate())
	})
}
