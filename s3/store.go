// Package s3 publishes dossiers to an S3-compatible object store.
package s3

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/fwojciec/geodossier"
)

// Scheme prefixes output locations served by this package.
const Scheme = "s3://"

// NewClient loads the default AWS credential chain. A custom endpoint
// (MinIO, LocalStack) switches to path-style addressing.
func NewClient(ctx context.Context, cfg geodossier.StorageConfig) (*s3.Client, error) {
	var opts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// ParseLocation splits s3://bucket/prefix into its bucket and key prefix.
func ParseLocation(location string) (bucket, prefix string, err error) {
	if !strings.HasPrefix(location, Scheme) {
		return "", "", geodossier.Errorf(geodossier.EINVALID, "not an s3 location: %q", location)
	}
	u, err := url.Parse(location)
	if err != nil || u.Host == "" {
		return "", "", geodossier.Errorf(geodossier.EINVALID, "invalid s3 location: %q", location)
	}
	return u.Host, strings.Trim(u.Path, "/"), nil
}

var _ geodossier.ArtifactStore = (*ArtifactStore)(nil)

// ArtifactStore uploads dossiers under a bucket prefix.
type ArtifactStore struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewArtifactStore creates a new ArtifactStore.
func NewArtifactStore(client *s3.Client, bucket, prefix string) *ArtifactStore {
	return &ArtifactStore{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/")}
}

// SaveArtifact uploads the artifact and returns its s3:// location.
// Objects only become visible once fully uploaded.
func (s *ArtifactStore) SaveArtifact(ctx context.Context, artifact *geodossier.DossierArtifact) (string, error) {
	if artifact == nil {
		return "", geodossier.Errorf(geodossier.EINVALID, "artifact required")
	}
	name := artifact.Filename
	if name == "" || name == "." || name == ".." || path.Base(name) != name || strings.Contains(name, `\`) {
		return "", geodossier.Errorf(geodossier.EINVALID, "invalid artifact filename %q", name)
	}

	key := name
	if s.prefix != "" {
		key = s.prefix + "/" + name
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(artifact.Content),
		ContentType: aws.String(artifact.MIMEType),
		Metadata:    map[string]string{"xxhash64": artifact.Checksum},
	})
	if err != nil {
		return "", fmt.Errorf("s3 put failed: %w", err)
	}
	return Scheme + s.bucket + "/" + key, nil
}
