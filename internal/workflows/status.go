package workflows

import (
	"context"
	"path/filepath"
	"sort"

	"github.com/PolarWolf314/provenv/internal/ui"
)

// VariableStatus describes one variable without its value.
type VariableStatus struct {
	Name     string `json:"name"`
	Source   string `json:"source"`
	Redacted string `json:"value"`
	Alias    bool   `json:"alias,omitempty"`
}

// DocumentStatus describes the outcome for one document.
type DocumentStatus struct {
	Path      string `json:"path"`
	Group     string `json:"group"`
	Variables int    `json:"variables"`
	OK        bool   `json:"ok"`
	Error     string `json:"error,omitempty"`
}

// CollisionStatus records a name defined by more than one document.
type CollisionStatus struct {
	Name     string `json:"name"`
	Previous string `json:"previous"`
	Winner   string `json:"winner"`
}

// StatusResult contains everything `provenv status` shows.
type StatusResult struct {
	KeyFile    string            `json:"key_file"`
	SecretsDir string            `json:"secrets_dir"`
	Decryptor  string            `json:"decryptor"`
	Disabled   string            `json:"disabled,omitempty"`
	Path       []string          `json:"path"`
	Variables  []VariableStatus  `json:"variables"`
	Documents  []DocumentStatus  `json:"documents"`
	Collisions []CollisionStatus `json:"collisions,omitempty"`
}

// Status provisions the environment and reports it with values redacted.
func Status(ctx context.Context, opts ProvisionOptions) (*StatusResult, error) {
	opts.SkipSecrets = false
	opts, err := opts.normalize()
	if err != nil {
		return nil, err
	}

	provisioned, err := Provision(ctx, opts)
	if err != nil {
		return nil, err
	}

	res := provisioned.Resolution
	dir := opts.Config.SecretsDir(opts.Env)

	result := &StatusResult{
		KeyFile:    opts.Config.KeyFilePath(opts.Env),
		SecretsDir: dir,
		Decryptor:  opts.Decryptor.Name(),
		Path:       provisioned.Snapshot.Path,
		Variables:  []VariableStatus{},
		Documents:  []DocumentStatus{},
	}
	if res.Disabled != nil {
		result.Disabled = res.Disabled.Error()
	}

	aliased := make(map[string]bool, len(res.Aliased))
	for _, name := range res.Aliased {
		aliased[name] = true
	}

	for _, name := range provisioned.Snapshot.Names() {
		value, _ := provisioned.Snapshot.Get(name)
		result.Variables = append(result.Variables, VariableStatus{
			Name:     name,
			Source:   relTo(dir, res.Sources[name]),
			Redacted: ui.Redact(value),
			Alias:    aliased[name],
		})
	}

	for _, d := range res.Documents {
		ds := DocumentStatus{
			Path:      d.Document.Rel,
			Group:     d.Document.Group,
			Variables: len(d.Names),
			OK:        d.OK(),
		}
		if d.Err != nil {
			ds.Error = d.Err.Error()
		}
		result.Documents = append(result.Documents, ds)
	}

	for _, c := range res.Collisions {
		result.Collisions = append(result.Collisions, CollisionStatus{
			Name:     c.Name,
			Previous: relTo(dir, c.Previous),
			Winner:   relTo(dir, c.Winner),
		})
	}
	sort.SliceStable(result.Collisions, func(i, j int) bool {
		return result.Collisions[i].Name < result.Collisions[j].Name
	})

	recordRun(opts.Config, "status", "", provisioned)
	return result, nil
}

// relTo shortens path relative to dir for display.
func relTo(dir, path string) string {
	if path == "" {
		return ""
	}
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}
