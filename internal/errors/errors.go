package errors

import "errors"

// Configuration errors indicate problems with the provenv configuration.
var (
	// ErrInvalidConfig indicates the configuration file is malformed.
	ErrInvalidConfig = errors.New("configuration is invalid")

	// ErrConfigExists indicates a configuration file already exists.
	ErrConfigExists = errors.New("configuration file already exists")

	// ErrUnknownDialect indicates the requested shell dialect is not supported.
	ErrUnknownDialect = errors.New("unknown shell dialect")

	// ErrUnknownDecryptor indicates the configured decryptor is not supported.
	ErrUnknownDecryptor = errors.New("unknown decryptor")
)

// Availability errors indicate a feature is disabled on this machine. They are
// informational rather than fatal.
var (
	// ErrKeyFileMissing indicates the decryption key file does not exist.
	ErrKeyFileMissing = errors.New("decryption key file not found")

	// ErrSecretsDirMissing indicates the secrets directory does not exist.
	ErrSecretsDirMissing = errors.New("secrets directory not found")

	// ErrToolNotFound indicates an external binary (sops, yq) is not installed.
	ErrToolNotFound = errors.New("required tool not found")

	// ErrPassphraseRequired indicates the identity is passphrase protected and
	// no passphrase source is available.
	ErrPassphraseRequired = errors.New("identity requires a passphrase")

	// ErrNoIdentities indicates the key file contains no usable identity.
	ErrNoIdentities = errors.New("no identities found in key file")
)

// Document errors indicate a single secret document could not be used.
var (
	// ErrDecryptFailed indicates the decryptor rejected the document.
	ErrDecryptFailed = errors.New("failed to decrypt document")

	// ErrDecryptTimeout indicates decryption did not finish in time.
	ErrDecryptTimeout = errors.New("decryption timed out")

	// ErrMalformedDocument indicates the plaintext is not a valid mapping.
	ErrMalformedDocument = errors.New("malformed secret document")

	// ErrNestedValue indicates a value is nested deeper than the flattening policy allows.
	ErrNestedValue = errors.New("nested value not supported")

	// ErrInvalidName indicates a key cannot be used as an environment variable name.
	ErrInvalidName = errors.New("invalid environment variable name")

	// ErrReservedName indicates a name that would replace the composed search path.
	ErrReservedName = errors.New("reserved environment variable name")

	// ErrDocumentNotFound indicates no document matches the requested group.
	ErrDocumentNotFound = errors.New("secret document not found")
)

// Query errors indicate a structured query could not produce a value.
var (
	// ErrSelectorNotFound indicates the selector does not address any value.
	ErrSelectorNotFound = errors.New("selector did not match any value")

	// ErrNotScalar indicates the selector addresses a mapping or sequence.
	ErrNotScalar = errors.New("selector does not address a scalar value")

	// ErrInvalidSelector indicates the selector syntax is not understood.
	ErrInvalidSelector = errors.New("invalid selector")
)

// Run log errors.
var (
	// ErrNoFilesFound indicates no run log exists yet.
	ErrNoFilesFound = errors.New("no matching files found")

	// ErrInvalidDateFormat indicates a date filter could not be parsed.
	ErrInvalidDateFormat = errors.New("invalid date format")
)
