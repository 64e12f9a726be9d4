package geodossier

import (
	"context"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
)

// MIME types of the supported dossier formats.
const (
	MIMETypePDF  = "application/pdf"
	MIMETypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// HarvestCoverage records how the harvest stage went for an analysis.
type HarvestCoverage struct {
	// Performed is false when no harvester ran at all, which is rendered
	// differently from a run that found nothing.
	Performed bool `json:"performed"`
	Queries   int  `json:"queries"`
	Failed    int  `json:"failed"`
}

// AnalysisResult is the immutable outcome of a completed analysis.
// It is the only input of a Compiler, which never modifies it.
type AnalysisResult struct {
	ID           string              `json:"id"`
	Location     Location            `json:"location"`
	Sources      []SourceReference   `json:"sources"`
	Harvest      HarvestCoverage     `json:"harvest"`
	Correlations []CorrelationRecord `json:"correlations"`
	GeneratedAt  time.Time           `json:"generatedAt"`
}

// DossierArtifact is a rendered dossier ready for delivery.
type DossierArtifact struct {
	Filename string
	MIMEType string
	Content  []byte
	// Checksum is the xxhash64 of Content in hex.
	Checksum string
}

// NewArtifact returns an artifact with its checksum computed.
func NewArtifact(filename, mimeType string, content []byte) *DossierArtifact {
	return &DossierArtifact{
		Filename: filename,
		MIMEType: mimeType,
		Content:  content,
		Checksum: strconv.FormatUint(xxhash.Sum64(content), 16),
	}
}

// Compiler renders an AnalysisResult into a self-contained artifact.
type Compiler interface {
	// Compile returns ERENDERFAILURE when the document cannot be rendered.
	Compile(result *AnalysisResult) (*DossierArtifact, error)
}

// Analyzer runs the full pipeline for one request.
type Analyzer interface {
	// Analyze returns the result and its dossier, or a terminal error:
	// EINVALID, EADDRESSNOTFOUND, EOUTOFJURISDICTION, EGEOCODINGUNAVAILABLE
	// or ERENDERFAILURE. No artifact is returned on error.
	Analyze(ctx context.Context, query string) (*AnalysisResult, *DossierArtifact, error)
}

// ArtifactStore persists rendered dossiers.
type ArtifactStore interface {
	// SaveArtifact stores artifact and returns the path it was written to.
	// A partially written artifact is never left under its final name.
	SaveArtifact(ctx context.Context, artifact *DossierArtifact) (string, error)
}
