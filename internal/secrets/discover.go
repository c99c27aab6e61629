package secrets

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	kerrors "github.com/PolarWolf314/provenv/internal/errors"
)

// DefaultPattern matches every YAML document below the secrets directory.
const DefaultPattern = "**/*.yaml"

// Document is one encrypted secret file.
type Document struct {
	// Path is the absolute (or dir-joined) file path.
	Path string

	// Rel is the slash-separated path relative to the secrets directory.
	Rel string

	// Group is the file name up to its first dot, e.g. "ai" for ai.yaml.
	Group string
}

// Discover lists the documents under dir matching pattern, sorted by their
// relative path. Directories and other non-regular files are ignored.
func Discover(dir, pattern string) ([]Document, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", kerrors.ErrSecretsDirMissing, dir)
	}

	if pattern == "" {
		pattern = DefaultPattern
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("%w: invalid secrets pattern %q", kerrors.ErrInvalidConfig, pattern)
	}

	fsys := os.DirFS(dir)
	matches, err := doublestar.Glob(fsys, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to glob %s in %s: %w", pattern, dir, err)
	}

	sort.Strings(matches)

	docs := make([]Document, 0, len(matches))
	for _, m := range matches {
		fi, err := fs.Stat(fsys, m)
		if err != nil || !fi.Mode().IsRegular() {
			continue
		}
		docs = append(docs, Document{
			Path:  filepath.Join(dir, filepath.FromSlash(m)),
			Rel:   m,
			Group: groupName(m),
		})
	}

	return docs, nil
}

// groupName strips the directory and every extension: "team/ai.enc.yaml" is "ai".
func groupName(rel string) string {
	base := path.Base(rel)
	if strings.HasPrefix(base, ".") {
		return base
	}
	name, _, _ := strings.Cut(base, ".")
	return name
}

// FindDocument returns the first document whose group or relative path
// equals name.
func FindDocument(docs []Document, name string) (Document, error) {
	for _, doc := range docs {
		if doc.Group == name || doc.Rel == name {
			return doc, nil
		}
	}
	return Document{}, fmt.Errorf("%w: %q", kerrors.ErrDocumentNotFound, name)
}
