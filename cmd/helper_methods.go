package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/PolarWolf314/provenv/internal/ui"
	"github.com/PolarWolf314/provenv/internal/utils"

	"github.com/briandowns/spinner"
	"github.com/mattn/go-isatty"
)

// stderrIsTerminal reports whether the spinner has somewhere visible to draw.
func stderrIsTerminal() bool {
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// startSpinner creates and starts a spinner on standard error with the given
// message. The spinner only animates when stderr is a terminal and neither
// verbose nor debug output is enabled, since log lines would tear it.
// Returns the spinner and a function that should be deferred to clean up.
//
// IMPORTANT: spinner.FinalMSG values do NOT need trailing newlines. The cleanup function
// automatically calls ui.EnsureNewline() on the final message before printing it.
func startSpinner(message string, verbose bool) (*spinner.Spinner, func()) {
	Logger.Debugf("Starting spinner with message: %s", message)
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " " + message

	if err := s.Color("cyan"); err != nil {
		// If we can't set spinner color, just continue without it.
		Logger.Warnf("Failed to set spinner color: %v", err)
	}

	animate := !verbose && !debug && stderrIsTerminal()
	if animate {
		s.Start()
	} else {
		Logger.Infof("%s", message)
	}

	cleanup := func() {
		finalMsg := ""
		if s.FinalMSG != "" {
			finalMsg = ui.EnsureNewline(s.FinalMSG)
			// Clear FinalMSG so s.Stop() doesn't print it.
			s.FinalMSG = ""
		}

		if s.Active() {
			s.Stop()
		}

		if finalMsg != "" {
			fmt.Print(finalMsg)
		}
	}

	return s, cleanup
}

// ttyPassphrase returns a passphrase source for encrypted ssh identities that
// pauses the spinner while the user types. Without a terminal there is no
// source at all.
func ttyPassphrase(s *spinner.Spinner) func() ([]byte, error) {
	if !utils.IsTTYAvailable() {
		return nil
	}
	return func() ([]byte, error) {
		if s != nil && s.Active() {
			s.Stop()
			defer s.Start()
		}
		return utils.ReadPassphraseFromTTY("Enter passphrase for SSH key: ")
	}
}
