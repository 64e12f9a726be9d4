package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/geodossier"
	"github.com/fwojciec/geodossier/mock"
	geoslog "github.com/fwojciec/geodossier/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingGeocoder_Geocode(t *testing.T) {
	t.Parallel()

	t.Run("logs query and resolved place", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Geocoder{
			GeocodeFn: func(context.Context, string) (*geodossier.Place, error) {
				return &geodossier.Place{DisplayName: "Monza"}, nil
			},
		}

		place, err := geoslog.NewLoggingGeocoder(inner, logger).Geocode(context.Background(), "Via Italia, Monza")

		require.NoError(t, err)
		assert.Equal(t, "Monza", place.DisplayName)
		output := buf.String()
		assert.Contains(t, output, "msg=geocode")
		assert.Contains(t, output, "query=\"Via Italia, Monza\"")
		assert.Contains(t, output, "place=Monza")
	})

	t.Run("logs error code on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Geocoder{
			GeocodeFn: func(context.Context, string) (*geodossier.Place, error) {
				return nil, geodossier.Errorf(geodossier.EADDRESSNOTFOUND, "no match")
			},
		}

		_, err := geoslog.NewLoggingGeocoder(inner, logger).Geocode(context.Background(), "nowhere")

		require.Error(t, err)
		assert.Contains(t, buf.String(), "code=address_not_found")
	})
}

func TestLoggingEmbedder_Embed(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	inner := &mock.Embedder{
		EmbedFn: func(context.Context, string) ([]float32, error) {
			return []float32{0.1, 0.2, 0.3}, nil
		},
	}

	vector, err := geoslog.NewLoggingEmbedder(inner, logger).Embed(context.Background(), "Milano")

	require.NoError(t, err)
	assert.Len(t, vector, 3)
	assert.Contains(t, buf.String(), "dimensions=3")
	assert.Contains(t, buf.String(), "chars=6")
}

func TestLoggingVectorIndex_Query(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	inner := &mock.VectorIndex{
		QueryFn: func(context.Context, string, []float32, int) ([]geodossier.CorrelationRecord, error) {
			return nil, errors.New("database is locked")
		},
	}

	_, err := geoslog.NewLoggingVectorIndex(inner, logger).Query(context.Background(), "watchlist", []float32{1}, 5)

	require.Error(t, err)
	output := buf.String()
	assert.Contains(t, output, "index=watchlist")
	assert.Contains(t, output, "limit=5")
	assert.Contains(t, output, "count=0")
	assert.Contains(t, output, "err=\"database is locked\"")
}

func TestLoggingCompiler_Compile(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	inner := &mock.Compiler{
		CompileFn: func(*geodossier.AnalysisResult) (*geodossier.DossierArtifact, error) {
			return geodossier.NewArtifact("Dossier_milano_20260314-0930.pdf", geodossier.MIMETypePDF, []byte("%PDF-1.3")), nil
		},
	}

	artifact, err := geoslog.NewLoggingCompiler(inner, logger).Compile(&geodossier.AnalysisResult{})

	require.NoError(t, err)
	assert.NotNil(t, artifact)
	output := buf.String()
	assert.Contains(t, output, "filename=Dossier_milano_20260314-0930.pdf")
	assert.Contains(t, output, "bytes=8")
}
