package gemini

import (
	"context"
	"strings"

	"github.com/fwojciec/geodossier"
	"google.golang.org/genai"
)

// DefaultModel is the embedding model used when none is configured.
const DefaultModel = "gemini-embedding-001"

// Embedding task types. Query vectors and stored records use different
// task types so that retrieval scores are asymmetric-aware.
const (
	TaskRetrievalQuery    = "RETRIEVAL_QUERY"
	TaskRetrievalDocument = "RETRIEVAL_DOCUMENT"
)

// Ensure Embedder implements geodossier.Embedder at compile time.
var _ geodossier.Embedder = (*Embedder)(nil)

// Embedder implements geodossier.Embedder using the Gemini embedding API.
type Embedder struct {
	client   *genai.Client
	model    string
	taskType string
}

// NewEmbedder creates a new Embedder. An empty model uses DefaultModel.
func NewEmbedder(client *genai.Client, model, taskType string) *Embedder {
	if model == "" {
		model = DefaultModel
	}
	return &Embedder{client: client, model: model, taskType: taskType}
}

// Embed returns the embedding vector of text.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, geodossier.Errorf(geodossier.EINVALID, "text required")
	}
	if e.client == nil {
		return nil, geodossier.Errorf(geodossier.ECORRELATIONUNAVAILABLE, "gemini client not configured")
	}

	resp, err := e.client.Models.EmbedContent(ctx, e.model, genai.Text(text), BuildConfig(e.taskType))
	if err != nil {
		return nil, err
	}
	if resp == nil || len(resp.Embeddings) == 0 || resp.Embeddings[0] == nil {
		return nil, geodossier.Errorf(geodossier.EINTERNAL, "gemini returned no embedding")
	}

	return resp.Embeddings[0].Values, nil
}

// BuildConfig returns the EmbedContentConfig for the given task type.
// An empty task type leaves the config unset.
func BuildConfig(taskType string) *genai.EmbedContentConfig {
	if taskType == "" {
		return nil
	}
	return &genai.EmbedContentConfig{TaskType: taskType}
}
