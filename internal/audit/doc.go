// Package audit records a run log of provenv invocations.
//
// The log is opt-in ([audit] enabled = true) and lives in the state
// directory as JSON Lines:
//
//	$XDG_STATE_HOME/provenv/runs.jsonl   (default ~/.local/state/provenv)
//
// Each entry holds a timestamp, a run id, the operation and counts: how
// many documents were processed and failed, how many variables and path
// entries were produced. Variable values never appear in the log, and
// neither do variable names.
//
// # Failure Handling
//
// Logging is best-effort. A run log that cannot be written never affects
// the shell being started.
//
// # Reading Logs
//
// ReadEntries parses the log for `provenv log`. Malformed lines, such as a
// partial write, are skipped.
package audit
