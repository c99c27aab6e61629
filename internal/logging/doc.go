// Package logger provides levelled logging for provenv commands.
//
// The logger supports multiple verbosity levels controlled by command-line
// flags. Output is formatted with coloured prefixes and always goes to
// standard error, because standard output carries the startup fragment that
// shells evaluate.
//
// # Verbosity Levels
//
//   - --verbose: Shows info messages
//   - --debug: Shows all messages including debug details
//
// Warnings and errors are always shown.
//
// # Sensitive Data
//
// Never pass secret values to the logger. Log variable names, document
// paths and error text only.
//
// # Usage
//
//	log := Logger{Verbose: verbose, Debug: debug}
//	log.Infof("Resolved %d variables", count)
package logger
