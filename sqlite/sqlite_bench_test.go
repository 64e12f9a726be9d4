package sqlite_test

import (
	"context"
	"fmt"
	"math/rand/v2"
	"path/filepath"
	"testing"

	"github.com/fwojciec/geodossier"
	"github.com/fwojciec/geodossier/sqlite"
	"github.com/stretchr/testify/require"
)

const benchDimensions = 768

func randomVector(r *rand.Rand) []float32 {
	v := make([]float32, benchDimensions)
	for i := range v {
		v[i] = r.Float32()*2 - 1
	}
	return v
}

// BenchmarkCreateRecord measures index writes on a file-backed database.
func BenchmarkCreateRecord(b *testing.B) {
	db := sqlite.NewDB(filepath.Join(b.TempDir(), "bench.db"))
	require.NoError(b, db.Open())
	defer db.Close()

	svc := sqlite.NewIndexService(db)
	r := rand.New(rand.NewPCG(1, 2))
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rec := &geodossier.IndexRecord{
			IndexID:   "bench",
			Label:     fmt.Sprintf("record %d", i),
			Detail:    "Segnalazione di esempio per il benchmark dell'indice locale.",
			Embedding: randomVector(r),
		}
		if err := svc.CreateRecord(ctx, rec); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkVectorIndexQuery measures a full-scan similarity query.
func BenchmarkVectorIndexQuery(b *testing.B) {
	for _, size := range []int{100, 1000} {
		b.Run(fmt.Sprintf("records=%d", size), func(b *testing.B) {
			db := sqlite.NewDB(filepath.Join(b.TempDir(), "bench.db"))
			require.NoError(b, db.Open())
			defer db.Close()

			svc := sqlite.NewIndexService(db)
			r := rand.New(rand.NewPCG(3, 4))
			ctx := context.Background()
			for i := 0; i < size; i++ {
				require.NoError(b, svc.CreateRecord(ctx, &geodossier.IndexRecord{
					IndexID:   "bench",
					Label:     fmt.Sprintf("record %d", i),
					Embedding: randomVector(r),
				}))
			}

			idx := sqlite.NewVectorIndex(db)
			query := randomVector(r)

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := idx.Query(ctx, "bench", query, 5); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
