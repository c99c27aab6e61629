// Package configs manages the provenv configuration file.
//
// Configuration is a single TOML file. Its location is, in order:
//
//   - the --config flag
//   - $PROVENV_CONFIG
//   - <UserConfigDir>/provenv/config.toml
//
// A missing file is not an error: the built-in defaults describe a typical
// workstation. A file that fails to parse or validate is reported and the
// defaults are used instead, so shell startup never depends on it.
//
// # Layout
//
//	[secrets]
//	dir = "~/.config/secrets"
//	pattern = "**/*.yaml"
//	key_file = "~/.config/sops/age/keys.txt"
//	decryptor = "sops"
//	timeout = "5s"
//	nesting = "reject"
//	query = "native"
//
//	[[path]]
//	dir = "/nix/var/nix/profiles/default/bin"
//	when = "marker"
//	marker = "/nix"
//
//	[[alias]]
//	from = "GEMINI_API_KEY"
//	to = "GOOGLE_GENERATIVE_AI_API_KEY"
//
//	[audit]
//	enabled = false
//
// Omitting [[path]] or [[alias]] keeps the default list. Writing an empty
// array (path = []) disables it.
//
// # Expansion
//
// Directories, markers and file paths accept "~", $VAR and ${VAR}. The
// SOPS_AGE_KEY_FILE environment variable overrides secrets.key_file.
package configs
