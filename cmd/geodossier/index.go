package main

import (
	"fmt"

	"github.com/fwojciec/geodossier"
)

// Run executes the index add command.
func (c *IndexAddCmd) Run(deps *Dependencies) error {
	if deps.Embedder == nil {
		fmt.Fprintln(deps.Stderr, "error: GEMINI_API_KEY not set. Get an API key at https://aistudio.google.com/apikey")
		return geodossier.Errorf(geodossier.EINVALID, "embedding requires GEMINI_API_KEY")
	}

	text := c.Label + "\n" + c.Detail

	if deps.Tokens != nil {
		n, err := deps.Tokens.CountTokens(deps.Ctx, text)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: counting tokens: %v\n", err)
			return err
		}
		if n > geodossier.MaxEmbeddingTokens {
			fmt.Fprintf(deps.Stderr, "error: record is %d tokens, the limit is %d\n", n, geodossier.MaxEmbeddingTokens)
			return geodossier.Errorf(geodossier.EINVALID, "record too long: %d tokens", n)
		}
	}

	vec, err := deps.Embedder.Embed(deps.Ctx, text)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", geodossier.ErrorMessage(err))
		return err
	}

	rec := &geodossier.IndexRecord{
		IndexID:   c.IndexID,
		Label:     c.Label,
		Detail:    c.Detail,
		Embedding: vec,
	}
	if err := deps.Index.CreateRecord(deps.Ctx, rec); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", geodossier.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Stored %q in index %q (%s)\n", rec.Label, rec.IndexID, rec.ID)
	return nil
}

// Run executes the index list command.
func (c *IndexListCmd) Run(deps *Dependencies) error {
	records, err := deps.Index.FindRecords(deps.Ctx, geodossier.IndexRecordFilter{IndexID: &c.IndexID})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", geodossier.ErrorMessage(err))
		return err
	}

	if len(records) == 0 {
		fmt.Fprintf(deps.Stdout, "No records in index %q. Use 'geodossier index add' to create one.\n", c.IndexID)
		return nil
	}

	for _, r := range records {
		fmt.Fprintf(deps.Stdout, "%s  %s  %d dims\n", r.ID, r.Label, len(r.Embedding))
	}
	return nil
}

// Run executes the index delete command.
func (c *IndexDeleteCmd) Run(deps *Dependencies) error {
	if !c.Force {
		fmt.Fprintf(deps.Stderr, "error: use --force to confirm deletion\n")
		return geodossier.Errorf(geodossier.EINVALID, "use --force to confirm deletion")
	}

	if err := deps.Index.DeleteIndex(deps.Ctx, c.IndexID); err != nil {
		if geodossier.ErrorCode(err) == geodossier.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: index %q not found. Use 'geodossier index list' to inspect an index.\n", c.IndexID)
			return err
		}
		fmt.Fprintf(deps.Stderr, "error: %s\n", geodossier.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Deleted index %q\n", c.IndexID)
	return nil
}
