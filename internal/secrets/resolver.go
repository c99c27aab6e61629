package secrets

import (
	"context"
	"errors"
	"fmt"
	"time"

	kerrors "github.com/PolarWolf314/provenv/internal/errors"
	logger "github.com/PolarWolf314/provenv/internal/logging"
	"github.com/PolarWolf314/provenv/internal/utils"
)

// DefaultTimeout bounds the decryption of a single document.
const DefaultTimeout = 5 * time.Second

// Alias copies the value of From to To after all documents are merged.
type Alias struct {
	From string `toml:"from" json:"from"`
	To   string `toml:"to" json:"to"`
}

// DocumentResult is the outcome for one document.
type DocumentResult struct {
	Document Document

	// Names lists the variables this document contributed, in document order.
	Names []string

	// Err is set when the document was skipped.
	Err error
}

// OK reports whether the document contributed its entries.
func (r DocumentResult) OK() bool { return r.Err == nil }

// Collision records a name defined by more than one document.
type Collision struct {
	Name     string
	Previous string
	Winner   string
}

// Resolution is everything Resolve learned. Entries holds secret values and
// must not be logged.
type Resolution struct {
	// Entries maps variable names to values.
	Entries map[string]string

	// Sources maps each name to the document path that set it.
	Sources map[string]string

	Documents  []DocumentResult
	Collisions []Collision

	// Aliased lists the alias targets that were set.
	Aliased []string

	// Disabled explains why no documents were processed. Nil when enabled.
	Disabled error

	// Warnings are one line per skipped document or ignored entry.
	Warnings []string
}

// Failed returns the number of documents that were skipped.
func (r *Resolution) Failed() int {
	n := 0
	for _, d := range r.Documents {
		if !d.OK() {
			n++
		}
	}
	return n
}

// Resolver turns the encrypted documents of one machine into variables.
type Resolver struct {
	Decryptor Decryptor
	KeyFile   string
	Dir       string
	Pattern   string
	Policy    FlattenPolicy
	Aliases   []Alias
	Timeout   time.Duration
	Log       logger.Logger
}

// Resolve never fails. Problems are recorded on the returned Resolution and
// the caller decides how to report them.
func (r Resolver) Resolve(ctx context.Context) *Resolution {
	res := &Resolution{
		Entries: make(map[string]string),
		Sources: make(map[string]string),
	}

	if r.KeyFile == "" || !utils.Exists(r.KeyFile) {
		res.Disabled = fmt.Errorf("%w: %s", kerrors.ErrKeyFileMissing, r.KeyFile)
		r.Log.Debugf("Secrets disabled: %v", res.Disabled)
		return res
	}

	if r.Decryptor == nil {
		res.Disabled = fmt.Errorf("%w: no decryptor configured", kerrors.ErrUnknownDecryptor)
		return res
	}

	docs, err := Discover(r.Dir, r.Pattern)
	if err != nil {
		res.Disabled = err
		r.Log.Debugf("Secrets disabled: %v", err)
		return res
	}
	r.Log.Debugf("Discovered %d document(s) in %s", len(docs), r.Dir)

	if err := r.Decryptor.Available(); err != nil {
		res.Disabled = err
		r.Log.Debugf("Secrets disabled: %v", err)
		return res
	}

	for _, doc := range docs {
		result := DocumentResult{Document: doc}

		entries, err := r.Load(ctx, doc)
		if err != nil {
			result.Err = err
			res.Documents = append(res.Documents, result)
			res.Warnings = append(res.Warnings, fmt.Sprintf("skipping %s: %v", doc.Rel, err))
			continue
		}

		for _, e := range entries {
			if utils.IsReservedEnvName(e.Name) {
				res.Warnings = append(res.Warnings, fmt.Sprintf("ignoring %s in %s: %v", e.Name, doc.Rel, kerrors.ErrReservedName))
				continue
			}
			if prev, ok := res.Sources[e.Name]; ok {
				res.Collisions = append(res.Collisions, Collision{Name: e.Name, Previous: prev, Winner: doc.Path})
				r.Log.Infof("%s from %s overrides %s", e.Name, doc.Rel, prev)
			}
			res.Entries[e.Name] = e.Value
			res.Sources[e.Name] = doc.Path
			result.Names = append(result.Names, e.Name)
		}

		r.Log.Debugf("Loaded %d name(s) from %s", len(result.Names), doc.Rel)
		res.Documents = append(res.Documents, result)
	}

	res.Aliased = ApplyAliases(res.Entries, res.Sources, r.Aliases)
	return res
}

// Load decrypts and flattens a single document under the resolver timeout.
func (r Resolver) Load(ctx context.Context, doc Document) ([]Entry, error) {
	plaintext, err := r.Decrypt(ctx, doc)
	if err != nil {
		return nil, err
	}
	defer wipe(plaintext)

	entries, err := Flatten(plaintext, r.Policy)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		entries[i].Document = doc.Path
	}
	return entries, nil
}

// Decrypt returns the plaintext of doc, bounded by the resolver timeout.
// The caller must wipe the result.
func (r Resolver) Decrypt(ctx context.Context, doc Document) ([]byte, error) {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	plaintext, err := r.Decryptor.Decrypt(ctx, doc.Path)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) && !errors.Is(err, kerrors.ErrDecryptTimeout) {
			return nil, fmt.Errorf("%w: %s after %s", kerrors.ErrDecryptTimeout, doc.Rel, timeout)
		}
		return nil, err
	}
	return plaintext, nil
}

// ApplyAliases copies values in declaration order. An alias whose source is
// undefined or whose target is reserved is skipped. Targets are overwritten, and a later alias may read a
// name set by an earlier one. It returns the targets that were set.
func ApplyAliases(entries, sources map[string]string, aliases []Alias) []string {
	var set []string
	for _, a := range aliases {
		value, ok := entries[a.From]
		if !ok || !utils.IsValidEnvName(a.To) || utils.IsReservedEnvName(a.To) {
			continue
		}
		entries[a.To] = value
		if sources != nil {
			sources[a.To] = sources[a.From]
		}
		set = append(set, a.To)
	}
	return set
}
