// Package utils provides shared utility functions for provenv.
//
// # Filesystem Utilities
//
//   - ExpandPath / Expand: "~" and $VAR expansion for configured paths
//   - Exists / IsDir: boolean existence checks that never fail
//
// # System Utilities
//
//   - FindBinary: resolves sops, yq and friends on PATH, then in well-known
//     Homebrew and Nix directories (shell startup runs before PATH is built)
//   - FormatCommandError: error text that prefers a tool's stderr
//
// # String Utilities
//
//   - FormatPaths: formats file paths for human-readable output
//   - IsValidEnvName: checks a name is safe to export in every shell dialect
//
// # Terminal Utilities
//
//   - ReadPassphraseFromTTY: hidden passphrase input from /dev/tty
//   - StdoutIsTerminal: detects when a startup fragment would be printed
//     to a screen instead of being evaluated
package utils
