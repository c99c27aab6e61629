// Package errors provides typed error values for provenv.
//
// Using sentinel errors allows callers to handle specific error conditions
// programmatically with errors.Is() rather than string matching. This makes
// error handling more robust and refactoring-safe.
//
// # Error Categories
//
// Errors are grouped by category:
//
//   - Configuration errors: config file problems (ErrInvalidConfig, ErrUnknownDialect)
//   - Availability errors: feature disabled on this machine (ErrKeyFileMissing, ErrToolNotFound)
//   - Document errors: one secret document could not be used (ErrDecryptFailed, ErrNestedValue)
//   - Query errors: a single field lookup failed (ErrSelectorNotFound)
//
// Availability errors are informational. The bootstrap treats them as
// "no secrets on this machine" and still renders the path fragment.
//
// # Usage
//
// Wrap errors with additional context:
//
//	return fmt.Errorf("%w: %s: %v", kerrors.ErrDecryptFailed, path, err)
//
// Handle errors in the CLI layer:
//
//	if errors.Is(res.Disabled, kerrors.ErrKeyFileMissing) {
//	    // Secrets are simply not configured here.
//	}
package errors
