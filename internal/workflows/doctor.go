package workflows

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	kerrors "github.com/PolarWolf314/provenv/internal/errors"
	"github.com/PolarWolf314/provenv/internal/paths"
	"github.com/PolarWolf314/provenv/internal/secrets"
	"github.com/PolarWolf314/provenv/internal/utils"
)

// CheckStatus represents the result status of a health check.
type CheckStatus int

const (
	// CheckPass means the check passed.
	CheckPass CheckStatus = iota
	// CheckWarning means the check found a non-critical issue.
	CheckWarning
	// CheckError means the check found a critical issue.
	CheckError
)

// String returns a string representation of CheckStatus.
func (s CheckStatus) String() string {
	switch s {
	case CheckPass:
		return "pass"
	case CheckWarning:
		return "warning"
	case CheckError:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalJSON implements json.Marshaler for CheckStatus.
func (s CheckStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// CheckResult holds the result of a single health check.
type CheckResult struct {
	Name       string      `json:"name"`
	Status     CheckStatus `json:"status"`
	Message    string      `json:"message"`
	Suggestion string      `json:"suggestion,omitempty"`
}

// DoctorResult holds the complete result of the doctor workflow.
type DoctorResult struct {
	Checks      []CheckResult `json:"checks"`
	Summary     DoctorSummary `json:"summary"`
	Suggestions []string      `json:"suggestions,omitempty"`
}

// DoctorSummary holds counts of checks by status.
type DoctorSummary struct {
	Passed   int `json:"passed"`
	Warnings int `json:"warnings"`
	Errors   int `json:"errors"`
}

// DoctorOptions configures the doctor workflow.
type DoctorOptions struct {
	ProvisionOptions

	// ConfigPath is the file the configuration was read from.
	ConfigPath string

	// ConfigErr is the error configs.Load returned, if any.
	ConfigErr error

	// Querier overrides the configured query backend.
	Querier secrets.Querier
}

// doctor carries state shared between checks. The resolution is computed
// once, on first use.
type doctor struct {
	ctx  context.Context
	opts DoctorOptions
	po   ProvisionOptions

	resolution *secrets.Resolution
}

// Doctor runs health checks on the local provenv setup.
//
// The doctor workflow checks:
//   - Configuration file validity
//   - Decryption key file existence and permissions
//   - Decryptor and query tool availability
//   - Secrets directory and document discovery
//   - Every document decrypts and flattens
//   - Alias sources are defined
//   - Configured path directories exist
func Doctor(ctx context.Context, opts DoctorOptions) (*DoctorResult, error) {
	po, err := opts.ProvisionOptions.normalize()
	if err != nil {
		return nil, err
	}
	d := &doctor{ctx: ctx, opts: opts, po: po}

	checks := []func() CheckResult{
		d.checkConfig,
		d.checkKeyFileExists,
		d.checkKeyFilePermissions,
		d.checkDecryptor,
		d.checkQueryTool,
		d.checkSecretsDir,
		d.checkDocumentsDiscovered,
		d.checkDocumentsDecrypt,
		d.checkAliases,
		d.checkPathDirectories,
	}

	var results []CheckResult
	for _, check := range checks {
		results = append(results, check())
	}

	summary := calculateDoctorSummary(results)

	var suggestions []string
	seen := make(map[string]bool)
	for _, result := range results {
		if result.Suggestion != "" && result.Status != CheckPass && !seen[result.Suggestion] {
			suggestions = append(suggestions, result.Suggestion)
			seen[result.Suggestion] = true
		}
	}

	return &DoctorResult{
		Checks:      results,
		Summary:     summary,
		Suggestions: suggestions,
	}, nil
}

func (d *doctor) keyFile() string    { return d.po.Config.KeyFilePath(d.po.Env) }
func (d *doctor) secretsDir() string { return d.po.Config.SecretsDir(d.po.Env) }

func (d *doctor) resolve() *secrets.Resolution {
	if d.resolution == nil {
		r, err := d.po.resolver()
		if err != nil {
			d.resolution = &secrets.Resolution{Disabled: err}
		} else {
			d.resolution = r.Resolve(d.ctx)
		}
	}
	return d.resolution
}

func (d *doctor) checkConfig() CheckResult {
	name := "Configuration"
	if d.opts.ConfigErr != nil {
		return CheckResult{
			Name:       name,
			Status:     CheckError,
			Message:    fmt.Sprintf("Configuration is invalid, using defaults: %v", d.opts.ConfigErr),
			Suggestion: fmt.Sprintf("Fix %s or run 'provenv config init --force' to start over", d.opts.ConfigPath),
		}
	}
	if d.opts.ConfigPath == "" || !utils.Exists(d.opts.ConfigPath) {
		return CheckResult{
			Name:    name,
			Status:  CheckPass,
			Message: "No configuration file, using built-in defaults",
		}
	}
	return CheckResult{
		Name:    name,
		Status:  CheckPass,
		Message: fmt.Sprintf("Configuration valid (%s)", d.opts.ConfigPath),
	}
}

func (d *doctor) checkKeyFileExists() CheckResult {
	name := "Decryption key"
	if !utils.Exists(d.keyFile()) {
		return CheckResult{
			Name:       name,
			Status:     CheckWarning,
			Message:    fmt.Sprintf("Key file %s not found, secrets are disabled", d.keyFile()),
			Suggestion: fmt.Sprintf("Create a key with 'age-keygen -o %s' or set SOPS_AGE_KEY_FILE", d.keyFile()),
		}
	}
	return CheckResult{
		Name:    name,
		Status:  CheckPass,
		Message: fmt.Sprintf("Key file found (%s)", d.keyFile()),
	}
}

func (d *doctor) checkKeyFilePermissions() CheckResult {
	name := "Key file permissions"
	info, err := os.Stat(d.keyFile())
	if os.IsNotExist(err) {
		return CheckResult{
			Name:    name,
			Status:  CheckPass,
			Message: "Key file not found (skipping permissions check)",
		}
	}
	if err != nil {
		return CheckResult{
			Name:       name,
			Status:     CheckError,
			Message:    fmt.Sprintf("Failed to stat key file: %v", err),
			Suggestion: "Check that the key file is accessible",
		}
	}

	mode := info.Mode().Perm()
	if mode&0o077 != 0 {
		return CheckResult{
			Name:       name,
			Status:     CheckWarning,
			Message:    fmt.Sprintf("Key file is readable by other users (%04o)", mode),
			Suggestion: fmt.Sprintf("Run 'chmod 600 %s' to fix permissions", d.keyFile()),
		}
	}
	return CheckResult{
		Name:    name,
		Status:  CheckPass,
		Message: fmt.Sprintf("Key file permissions are private (%04o)", mode),
	}
}

func (d *doctor) checkDecryptor() CheckResult {
	name := "Decryptor"
	dec := d.po.Decryptor
	if err := dec.Available(); err != nil {
		return CheckResult{
			Name:       name,
			Status:     CheckError,
			Message:    fmt.Sprintf("%s is not available: %v", dec.Name(), err),
			Suggestion: "Install sops (https://github.com/getsops/sops) or set decryptor = \"age\" in the configuration",
		}
	}
	return CheckResult{
		Name:    name,
		Status:  CheckPass,
		Message: fmt.Sprintf("%s is available", dec.Name()),
	}
}

func (d *doctor) checkQueryTool() CheckResult {
	name := "Query backend"
	q := d.opts.Querier
	if q == nil {
		var err error
		q, err = NewQuerier(d.po.Config)
		if err != nil {
			return CheckResult{Name: name, Status: CheckError, Message: err.Error()}
		}
	}

	if yq, ok := q.(secrets.YQQuerier); ok {
		if err := yq.Available(); err != nil {
			return CheckResult{
				Name:       name,
				Status:     CheckWarning,
				Message:    fmt.Sprintf("yq is not available, 'provenv get' will fail: %v", err),
				Suggestion: "Install yq or set query = \"native\" in the configuration",
			}
		}
		return CheckResult{Name: name, Status: CheckPass, Message: "yq is available"}
	}
	return CheckResult{Name: name, Status: CheckPass, Message: "Using the built-in YAML query"}
}

func (d *doctor) checkSecretsDir() CheckResult {
	name := "Secrets directory"
	if !utils.IsDir(d.secretsDir()) {
		return CheckResult{
			Name:       name,
			Status:     CheckWarning,
			Message:    fmt.Sprintf("Directory %s not found, secrets are disabled", d.secretsDir()),
			Suggestion: fmt.Sprintf("Create %s and add encrypted documents, or set secrets.dir", d.secretsDir()),
		}
	}
	return CheckResult{
		Name:    name,
		Status:  CheckPass,
		Message: fmt.Sprintf("Directory found (%s)", d.secretsDir()),
	}
}

func (d *doctor) checkDocumentsDiscovered() CheckResult {
	name := "Secret documents"
	docs, err := secrets.Discover(d.secretsDir(), d.po.Config.Secrets.Pattern)
	if errors.Is(err, kerrors.ErrSecretsDirMissing) {
		return CheckResult{Name: name, Status: CheckPass, Message: "No secrets directory (skipping discovery)"}
	}
	if err != nil {
		return CheckResult{
			Name:       name,
			Status:     CheckError,
			Message:    fmt.Sprintf("Failed to discover documents: %v", err),
			Suggestion: "Check secrets.pattern in the configuration",
		}
	}
	if len(docs) == 0 {
		return CheckResult{
			Name:       name,
			Status:     CheckWarning,
			Message:    fmt.Sprintf("No documents match %s", d.po.Config.Secrets.Pattern),
			Suggestion: "Check secrets.pattern in the configuration",
		}
	}
	return CheckResult{
		Name:    name,
		Status:  CheckPass,
		Message: fmt.Sprintf("%d document(s) found", len(docs)),
	}
}

func (d *doctor) checkDocumentsDecrypt() CheckResult {
	name := "Document decryption"
	res := d.resolve()
	if res.Disabled != nil {
		return CheckResult{
			Name:    name,
			Status:  CheckWarning,
			Message: fmt.Sprintf("Skipped: %v", res.Disabled),
		}
	}

	var failed []string
	for _, doc := range res.Documents {
		if !doc.OK() {
			failed = append(failed, fmt.Sprintf("%s (%v)", doc.Document.Rel, doc.Err))
		}
	}
	if len(failed) > 0 {
		return CheckResult{
			Name:       name,
			Status:     CheckError,
			Message:    fmt.Sprintf("%d of %d document(s) failed: %s", len(failed), len(res.Documents), strings.Join(failed, "; ")),
			Suggestion: "Run 'sops --decrypt <file>' on the failing documents to see the full error",
		}
	}
	return CheckResult{
		Name:    name,
		Status:  CheckPass,
		Message: fmt.Sprintf("All %d document(s) decrypt, %d variable(s)", len(res.Documents), len(res.Entries)),
	}
}

func (d *doctor) checkAliases() CheckResult {
	name := "Aliases"
	res := d.resolve()
	if res.Disabled != nil || len(d.po.Config.Aliases) == 0 {
		return CheckResult{Name: name, Status: CheckPass, Message: "No aliases to check"}
	}

	var missing []string
	for _, a := range d.po.Config.Aliases {
		if _, ok := res.Entries[a.From]; !ok {
			missing = append(missing, a.From)
		}
	}
	if len(missing) > 0 {
		return CheckResult{
			Name:       name,
			Status:     CheckWarning,
			Message:    fmt.Sprintf("Alias source(s) not defined by any document: %s", strings.Join(missing, ", ")),
			Suggestion: "Remove unused [[alias]] entries or add the source variables to a document",
		}
	}
	return CheckResult{
		Name:    name,
		Status:  CheckPass,
		Message: fmt.Sprintf("All %d alias source(s) defined", len(d.po.Config.Aliases)),
	}
}

func (d *doctor) checkPathDirectories() CheckResult {
	name := "Path directories"
	rules, err := d.po.Config.Rules(d.po.Env)
	if err != nil {
		return CheckResult{Name: name, Status: CheckError, Message: err.Error()}
	}

	var missing []string
	applied := 0
	for _, dec := range paths.Trace(rules, d.po.Probe) {
		if !dec.Applied {
			continue
		}
		applied++
		if !d.po.Probe(dec.Rule.Directory) {
			missing = append(missing, dec.Rule.Directory)
		}
	}

	if len(missing) > 0 {
		return CheckResult{
			Name:    name,
			Status:  CheckPass,
			Message: fmt.Sprintf("%d of %d applied directories do not exist yet: %s", len(missing), applied, strings.Join(missing, ", ")),
		}
	}
	return CheckResult{
		Name:    name,
		Status:  CheckPass,
		Message: fmt.Sprintf("All %d applied directories exist", applied),
	}
}

// calculateDoctorSummary calculates the counts of checks by status.
func calculateDoctorSummary(results []CheckResult) DoctorSummary {
	var summary DoctorSummary
	for _, result := range results {
		switch result.Status {
		case CheckPass:
			summary.Passed++
		case CheckWarning:
			summary.Warnings++
		case CheckError:
			summary.Errors++
		}
	}
	return summary
}
