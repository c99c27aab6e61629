// Package shells renders an environment.Snapshot as shell startup text.
//
// One Renderer exists per dialect. All renderers consume the same neutral
// snapshot, so adding a shell means adding a renderer and nothing else.
//
// # Dialects
//
//   - POSIX: bash, zsh, sh, dash, ksh
//   - CShell: csh, tcsh
//   - Fish: fish
//   - Nushell: nu
//
// # Guarantees
//
// Every fragment is syntactically complete in its dialect and safe to source
// more than once. Path handling removes an existing occurrence of each
// directory before prepending it, so repeated sourcing never grows PATH.
// Values are quoted so the target shell performs no expansion on them. The
// nushell fragment holds no values at all and loads them from
// "provenv env --json" when sourced, so it can be saved to a file.
//
// Typical use from a shell startup file:
//
//	eval "$(provenv init zsh)"      # zsh/bash
//	provenv init fish | source      # fish
//	eval `provenv init tcsh`        # tcsh
//	provenv init nu | save -f ~/.cache/provenv/env.nu   # nushell
package shells
