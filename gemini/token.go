package gemini

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/fwojciec/geodossier"
	"google.golang.org/genai"
	"google.golang.org/genai/tokenizer"
)

// TokenizerModel is a model the local tokenizer supports. The embedding
// model shares its vocabulary closely enough to bound record length.
const TokenizerModel = "gemini-2.0-flash"

var _ geodossier.TokenCounter = (*TokenCounter)(nil)

// TokenCounter bounds index record length before any embedding request is
// made. Counting runs locally; only the vocabulary is downloaded, once.
type TokenCounter struct {
	mu  sync.Mutex
	tok *tokenizer.LocalTokenizer
}

// NewTokenCounter loads the tokenizer of model. An empty model uses
// TokenizerModel.
func NewTokenCounter(model string) (*TokenCounter, error) {
	if model == "" {
		model = TokenizerModel
	}
	tok, err := tokenizer.NewLocalTokenizer(model)
	if err != nil {
		return nil, geodossier.Errorf(geodossier.EINVALID, "no local tokenizer for %q: %v", model, err)
	}
	return &TokenCounter{tok: tok}, nil
}

// CountTokens returns the number of tokens text occupies as a single user
// turn. Blank text counts as zero.
func (tc *TokenCounter) CountTokens(ctx context.Context, text string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if strings.TrimSpace(text) == "" {
		return 0, nil
	}

	tc.mu.Lock()
	defer tc.mu.Unlock()

	result, err := tc.tok.CountTokens(genai.Text(text), nil)
	if err != nil {
		return 0, fmt.Errorf("counting tokens: %w", err)
	}
	return int(result.TotalTokens), nil
}
