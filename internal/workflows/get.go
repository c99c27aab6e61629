package workflows

import (
	"context"
	"fmt"

	kerrors "github.com/PolarWolf314/provenv/internal/errors"
	"github.com/PolarWolf314/provenv/internal/secrets"
	"github.com/PolarWolf314/provenv/internal/utils"
)

// GetOptions configures the get workflow.
type GetOptions struct {
	ProvisionOptions

	// Group names the document, e.g. "ai" for ai.yaml, or its relative path.
	Group string

	// Selector addresses one scalar in the document, e.g. "GEMINI_API_KEY".
	Selector string

	// Querier overrides the configured query backend.
	Querier secrets.Querier
}

// GetResult contains the requested value.
type GetResult struct {
	Document secrets.Document

	// Value is a secret. It is returned only because it was asked for.
	Value string
}

// Get decrypts one document and extracts one field from it.
//
// Unlike Provision, failures are returned: the caller explicitly asked for
// this value.
func Get(ctx context.Context, opts GetOptions) (*GetResult, error) {
	opts.SkipSecrets = false
	po, err := opts.ProvisionOptions.normalize()
	if err != nil {
		return nil, err
	}

	querier := opts.Querier
	if querier == nil {
		querier, err = NewQuerier(po.Config)
		if err != nil {
			return nil, err
		}
	}

	r, err := po.resolver()
	if err != nil {
		return nil, err
	}

	if !utils.Exists(r.KeyFile) {
		return nil, fmt.Errorf("%w: %s", kerrors.ErrKeyFileMissing, r.KeyFile)
	}
	if err := r.Decryptor.Available(); err != nil {
		return nil, err
	}

	docs, err := secrets.Discover(r.Dir, r.Pattern)
	if err != nil {
		return nil, err
	}
	doc, err := secrets.FindDocument(docs, opts.Group)
	if err != nil {
		return nil, err
	}

	po.Log.Debugf("Decrypting %s", doc.Rel)
	plaintext, err := r.Decrypt(ctx, doc)
	if err != nil {
		return nil, err
	}
	defer clear(plaintext)

	value, err := querier.Query(ctx, plaintext, opts.Selector)
	if err != nil {
		return nil, err
	}

	recordRun(po.Config, "get", "", nil)
	return &GetResult{Document: doc, Value: value}, nil
}
