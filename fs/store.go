// Package fs provides file-based storage for rendered dossiers.
package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fwojciec/geodossier"
)

// Ensure ArtifactStore implements geodossier.ArtifactStore at compile time.
var _ geodossier.ArtifactStore = (*ArtifactStore)(nil)

// ArtifactStore writes dossiers into a directory with atomic update semantics.
// Content is written to <name>.tmp, then renamed over <name>.
type ArtifactStore struct {
	baseDir string
}

// NewArtifactStore creates a new ArtifactStore rooted at baseDir.
// The directory is created on first save.
func NewArtifactStore(baseDir string) *ArtifactStore {
	return &ArtifactStore{baseDir: baseDir}
}

// SaveArtifact writes artifact under its suggested filename. An existing file
// of the same name is replaced.
func (s *ArtifactStore) SaveArtifact(ctx context.Context, artifact *geodossier.DossierArtifact) (string, error) {
	if artifact == nil {
		return "", geodossier.Errorf(geodossier.EINVALID, "artifact required")
	}
	name := artifact.Filename
	if name == "" || name == "." || name == ".." || filepath.Base(name) != name {
		return "", geodossier.Errorf(geodossier.EINVALID, "invalid artifact filename %q", name)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.baseDir, 0755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	finalPath := filepath.Join(s.baseDir, name)
	tempPath := finalPath + ".tmp"

	if err := os.WriteFile(tempPath, artifact.Content, 0644); err != nil {
		_ = os.Remove(tempPath)
		return "", fmt.Errorf("writing artifact: %w", err)
	}

	if err := os.Rename(tempPath, finalPath); err != nil {
		_ = os.Remove(tempPath)
		return "", fmt.Errorf("committing artifact: %w", err)
	}

	return finalPath, nil
}
