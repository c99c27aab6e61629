package configs

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	kerrors "github.com/PolarWolf314/provenv/internal/errors"
	"github.com/PolarWolf314/provenv/internal/paths"
	"github.com/PolarWolf314/provenv/internal/secrets"
	"github.com/PolarWolf314/provenv/internal/utils"
)

// Config is the parsed configuration file.
type Config struct {
	Secrets SecretsConfig   `toml:"secrets" json:"secrets"`
	Paths   []PathRule      `toml:"path" json:"paths"`
	Aliases []secrets.Alias `toml:"alias" json:"aliases"`
	Audit   AuditConfig     `toml:"audit" json:"audit"`
}

// SecretsConfig configures the Secret Resolver.
type SecretsConfig struct {
	Dir       string `toml:"dir" json:"dir"`
	Pattern   string `toml:"pattern" json:"pattern"`
	KeyFile   string `toml:"key_file" json:"key_file"`
	Decryptor string `toml:"decryptor" json:"decryptor"`
	Timeout   string `toml:"timeout" json:"timeout"`
	Nesting   string `toml:"nesting" json:"nesting"`
	Query     string `toml:"query" json:"query"`
}

// PathRule is the file form of paths.Rule.
type PathRule struct {
	Dir    string `toml:"dir" json:"dir"`
	When   string `toml:"when,omitempty" json:"when,omitempty"`
	Marker string `toml:"marker,omitempty" json:"marker,omitempty"`
}

// AuditConfig configures the run log.
type AuditConfig struct {
	Enabled bool `toml:"enabled" json:"enabled"`
}

// Decryptor and query backends.
const (
	DecryptorSOPS = "sops"
	DecryptorAge  = "age"

	QueryNative = "native"
	QueryYQ     = "yq"
)

// DefaultPaths is the search path of a typical workstation, in prepend order:
// the last rule ends up first on PATH.
func DefaultPaths() []PathRule {
	return []PathRule{
		{Dir: "~/.local/bin"},
		{Dir: "~/.cargo/bin"},
		{Dir: "~/go/bin"},
		{Dir: "~/.bun/bin", When: "exists"},
		{Dir: "/opt/homebrew/bin", When: "exists"},
		{Dir: "/opt/homebrew/sbin", When: "exists"},
		{Dir: "/nix/var/nix/profiles/default/bin", When: "marker", Marker: "/nix"},
		{Dir: "~/.nix-profile/bin", When: "marker", Marker: "/nix"},
		{Dir: "/run/current-system/sw/bin", When: "marker", Marker: "/run/current-system"},
	}
}

// DefaultAliases mirrors the Gemini key under the name Google SDKs read.
func DefaultAliases() []secrets.Alias {
	return []secrets.Alias{
		{From: "GEMINI_API_KEY", To: "GOOGLE_GENERATIVE_AI_API_KEY"},
	}
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Secrets: SecretsConfig{
			Dir:       "~/.config/secrets",
			Pattern:   secrets.DefaultPattern,
			KeyFile:   "~/.config/sops/age/keys.txt",
			Decryptor: DecryptorSOPS,
			Timeout:   secrets.DefaultTimeout.String(),
			Nesting:   secrets.RejectNested.String(),
			Query:     QueryNative,
		},
		Paths:   DefaultPaths(),
		Aliases: DefaultAliases(),
	}
}

// Load reads the configuration at path. A missing file yields the defaults
// and no error. When the file cannot be parsed or is invalid, Load returns
// the defaults together with an error wrapping ErrInvalidConfig so the
// caller can warn and carry on.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}

	cfg := &Config{}
	md, err := LoadTOML(path, cfg)
	if err != nil {
		return Default(), fmt.Errorf("%w: %s: %v", kerrors.ErrInvalidConfig, path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return Default(), fmt.Errorf("%w: %s: unknown keys: %s", kerrors.ErrInvalidConfig, path, strings.Join(keys, ", "))
	}

	if !md.IsDefined("path") {
		cfg.Paths = DefaultPaths()
	}
	if !md.IsDefined("alias") {
		cfg.Aliases = DefaultAliases()
	}
	cfg.fillSecretDefaults()

	if err := cfg.Validate(); err != nil {
		return Default(), fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) fillSecretDefaults() {
	def := Default().Secrets
	s := &c.Secrets
	if s.Dir == "" {
		s.Dir = def.Dir
	}
	if s.Pattern == "" {
		s.Pattern = def.Pattern
	}
	if s.KeyFile == "" {
		s.KeyFile = def.KeyFile
	}
	if s.Decryptor == "" {
		s.Decryptor = def.Decryptor
	}
	if s.Timeout == "" {
		s.Timeout = def.Timeout
	}
	if s.Nesting == "" {
		s.Nesting = def.Nesting
	}
	if s.Query == "" {
		s.Query = def.Query
	}
}

// Save writes the configuration to path. It refuses to overwrite an
// existing file unless force is set.
func (c *Config) Save(path string, force bool) error {
	if !force && utils.Exists(path) {
		return fmt.Errorf("%w: %s", kerrors.ErrConfigExists, path)
	}
	if err := SaveTOML(path, c); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

// Validate checks every enumerated field and alias name.
func (c *Config) Validate() error {
	switch c.Secrets.Decryptor {
	case DecryptorSOPS, DecryptorAge:
	default:
		return fmt.Errorf("%w: %q", kerrors.ErrUnknownDecryptor, c.Secrets.Decryptor)
	}

	switch c.Secrets.Query {
	case QueryNative, QueryYQ:
	default:
		return fmt.Errorf("%w: unknown query backend %q", kerrors.ErrInvalidConfig, c.Secrets.Query)
	}

	if _, err := c.Timeout(); err != nil {
		return err
	}
	if _, err := c.FlattenPolicy(); err != nil {
		return err
	}

	for i, p := range c.Paths {
		if p.Dir == "" {
			return fmt.Errorf("%w: path %d has no dir", kerrors.ErrInvalidConfig, i+1)
		}
		when, err := paths.ParseCondition(p.When)
		if err != nil {
			return fmt.Errorf("%w: path %s: %v", kerrors.ErrInvalidConfig, p.Dir, err)
		}
		if when == paths.MarkerExists && p.Marker == "" {
			return fmt.Errorf("%w: path %s uses when = \"marker\" without a marker", kerrors.ErrInvalidConfig, p.Dir)
		}
	}

	for _, a := range c.Aliases {
		if !utils.IsValidEnvName(a.From) || !utils.IsValidEnvName(a.To) {
			return fmt.Errorf("%w: alias %s -> %s", kerrors.ErrInvalidName, a.From, a.To)
		}
		if utils.IsReservedEnvName(a.To) {
			return fmt.Errorf("%w: alias %s -> %s", kerrors.ErrReservedName, a.From, a.To)
		}
	}
	return nil
}

// Timeout parses secrets.timeout. Zero or empty means the default.
func (c *Config) Timeout() (time.Duration, error) {
	if c.Secrets.Timeout == "" {
		return secrets.DefaultTimeout, nil
	}
	d, err := time.ParseDuration(c.Secrets.Timeout)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("%w: timeout %q", kerrors.ErrInvalidConfig, c.Secrets.Timeout)
	}
	if d == 0 {
		return secrets.DefaultTimeout, nil
	}
	return d, nil
}

// FlattenPolicy parses secrets.nesting.
func (c *Config) FlattenPolicy() (secrets.FlattenPolicy, error) {
	return secrets.ParseFlattenPolicy(c.Secrets.Nesting)
}

// Env supplies the home directory and variables used for expansion.
type Env struct {
	Home   string
	Lookup func(string) (string, bool)
}

// OSEnv reads the real process environment.
func OSEnv() Env {
	home, _ := os.UserHomeDir()
	return Env{Home: home, Lookup: os.LookupEnv}
}

// Expand expands "~" and variable references in p.
func (e Env) Expand(p string) string {
	return utils.ExpandPath(p, e.Home, e.Lookup)
}

func (e Env) get(name string) string {
	if e.Lookup == nil {
		return ""
	}
	v, _ := e.Lookup(name)
	return v
}

// Rules converts the configured paths to expanded paths.Rule values.
func (c *Config) Rules(env Env) ([]paths.Rule, error) {
	rules := make([]paths.Rule, 0, len(c.Paths))
	for _, p := range c.Paths {
		when, err := paths.ParseCondition(p.When)
		if err != nil {
			return nil, fmt.Errorf("%w: path %s: %v", kerrors.ErrInvalidConfig, p.Dir, err)
		}
		rule := paths.Rule{Directory: env.Expand(p.Dir), When: when}
		if p.Marker != "" {
			rule.Marker = env.Expand(p.Marker)
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// KeyFilePath returns the decryption key file. SOPS_AGE_KEY_FILE wins over
// the configured value.
func (c *Config) KeyFilePath(env Env) string {
	if v := env.get("SOPS_AGE_KEY_FILE"); v != "" {
		return env.Expand(v)
	}
	return env.Expand(c.Secrets.KeyFile)
}

// SecretsDir returns the expanded secrets directory.
func (c *Config) SecretsDir(env Env) string {
	return env.Expand(c.Secrets.Dir)
}
