package s3_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/fwojciec/geodossier"
	"github.com/fwojciec/geodossier/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type upload struct {
	method      string
	path        string
	contentType string
	checksum    string
	body        []byte
}

// newBucketServer records PUT requests and answers them with status.
func newBucketServer(t *testing.T, status int) (*httptest.Server, func() []upload) {
	t.Helper()
	var mu sync.Mutex
	var uploads []upload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		uploads = append(uploads, upload{
			method:      r.Method,
			path:        r.URL.Path,
			contentType: r.Header.Get("Content-Type"),
			checksum:    r.Header.Get("X-Amz-Meta-Xxhash64"),
			body:        body,
		})
		mu.Unlock()
		if status != http.StatusOK {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?><Error><Code>AccessDenied</Code><Message>Access Denied</Message></Error>`))
			return
		}
		w.Header().Set("ETag", `"d41d8cd98f00b204e9800998ecf8427e"`)
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)
	return srv, func() []upload {
		mu.Lock()
		defer mu.Unlock()
		return append([]upload(nil), uploads...)
	}
}

func newClient(endpoint string) *awss3.Client {
	return awss3.New(awss3.Options{
		Region:                     "eu-south-1",
		BaseEndpoint:               aws.String(endpoint),
		UsePathStyle:               true,
		Credentials:                aws.AnonymousCredentials{},
		RequestChecksumCalculation: aws.RequestChecksumCalculationWhenRequired,
	})
}

func TestArtifactStore_SaveArtifact(t *testing.T) {
	t.Parallel()

	t.Run("uploads the dossier under the prefix", func(t *testing.T) {
		t.Parallel()

		srv, uploads := newBucketServer(t, http.StatusOK)
		store := s3.NewArtifactStore(newClient(srv.URL), "dossiers", "/lombardia/2025/")
		artifact := geodossier.NewArtifact("Dossier_monza_20250314-0930.pdf", "application/pdf", []byte("%PDF-1.3 test"))

		location, err := store.SaveArtifact(context.Background(), artifact)

		require.NoError(t, err)
		assert.Equal(t, "s3://dossiers/lombardia/2025/Dossier_monza_20250314-0930.pdf", location)

		got := uploads()
		require.Len(t, got, 1)
		assert.Equal(t, http.MethodPut, got[0].method)
		assert.Equal(t, "/dossiers/lombardia/2025/Dossier_monza_20250314-0930.pdf", got[0].path)
		assert.Equal(t, "application/pdf", got[0].contentType)
		assert.Equal(t, artifact.Checksum, got[0].checksum)
		assert.Equal(t, []byte("%PDF-1.3 test"), got[0].body)
	})

	t.Run("bucket root without prefix", func(t *testing.T) {
		t.Parallel()

		srv, uploads := newBucketServer(t, http.StatusOK)
		store := s3.NewArtifactStore(newClient(srv.URL), "dossiers", "")

		location, err := store.SaveArtifact(context.Background(), geodossier.NewArtifact("d.docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document", []byte("PK")))

		require.NoError(t, err)
		assert.Equal(t, "s3://dossiers/d.docx", location)
		require.Len(t, uploads(), 1)
		assert.Equal(t, "/dossiers/d.docx", uploads()[0].path)
	})

	t.Run("rejected upload returns an error", func(t *testing.T) {
		t.Parallel()

		srv, _ := newBucketServer(t, http.StatusForbidden)
		store := s3.NewArtifactStore(newClient(srv.URL), "dossiers", "")

		_, err := store.SaveArtifact(context.Background(), geodossier.NewArtifact("d.pdf", "application/pdf", []byte("%PDF-")))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "s3 put failed")
	})

	t.Run("rejects unsafe filenames without uploading", func(t *testing.T) {
		t.Parallel()

		srv, uploads := newBucketServer(t, http.StatusOK)
		store := s3.NewArtifactStore(newClient(srv.URL), "dossiers", "")

		for _, name := range []string{"", ".", "..", "../escape.pdf", "a/b.pdf", `a\b.pdf`} {
			_, err := store.SaveArtifact(context.Background(), geodossier.NewArtifact(name, "application/pdf", nil))
			assert.Equal(t, geodossier.EINVALID, geodossier.ErrorCode(err), name)
		}
		_, err := store.SaveArtifact(context.Background(), nil)
		assert.Equal(t, geodossier.EINVALID, geodossier.ErrorCode(err))
		assert.Empty(t, uploads())
	})
}

func TestParseLocation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		location string
		bucket   string
		prefix   string
		wantErr  bool
	}{
		{location: "s3://dossiers", bucket: "dossiers"},
		{location: "s3://dossiers/", bucket: "dossiers"},
		{location: "s3://dossiers/lombardia/monza/", bucket: "dossiers", prefix: "lombardia/monza"},
		{location: "./out", wantErr: true},
		{location: "s3:///prefix", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			t.Parallel()

			bucket, prefix, err := s3.ParseLocation(tt.location)

			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, geodossier.EINVALID, geodossier.ErrorCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.bucket, bucket)
			assert.Equal(t, tt.prefix, prefix)
		})
	}
}
