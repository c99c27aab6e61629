// Package ui provides semantic text formatting for CLI output.
//
// This package defines formatters for different types of content (code,
// paths, errors, etc.) that render appropriately based on terminal
// capabilities. When colors are available, content is colorized. When
// NO_COLOR is set or the terminal doesn't support colors, text-based
// decorations (backticks, quotes) are used instead.
//
// # Semantic Formatters
//
//	ui.Code.Sprint("eval \"$(provenv init zsh)\"") // Commands and code
//	ui.Path.Sprint("~/.config/secrets/ai.yaml")     // File paths
//	ui.Success.Sprint("✓")                           // Success indicators
//	ui.Error.Sprint("✗")                             // Error indicators
//	ui.Highlight.Sprint("GEMINI_API_KEY")            // Variable names
//
// Secret values are never printed through these formatters. Use Redact to
// show that a value exists without revealing it.
//
// # Color Behavior
//
// Colors are disabled when:
//   - NO_COLOR environment variable is set (any value)
//   - Terminal doesn't support colors (TERM=dumb, not a TTY)
package ui
