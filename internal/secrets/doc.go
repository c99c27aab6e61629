// Package secrets resolves encrypted secret documents into environment
// variables.
//
// # Pipeline
//
//  1. The decryption key file must exist, otherwise the feature is disabled.
//  2. Documents under the secrets directory matching a doublestar pattern
//     (default "**/*.yaml") are discovered and sorted lexicographically.
//  3. Each document is decrypted by a Decryptor, bounded by a timeout.
//  4. The plaintext is parsed as a YAML mapping and flattened one level.
//  5. Entries are merged in processing order. A later document overrides an
//     earlier one for the same name.
//  6. Alias rules copy values to additional names.
//
// # Failure Isolation
//
// Resolve never returns an error. A missing key file, secrets directory or
// decryptor tool disables the feature and is recorded once on the
// Resolution. A document that fails to decrypt or parse is recorded on its
// DocumentResult and contributes nothing.
//
// # Decryptors
//
// SOPSDecryptor runs the sops binary with SOPS_AGE_KEY_FILE pointing at the
// key file. AgeDecryptor decrypts age files in process using filippo.io/age
// and accepts age X25519 identities or ssh private keys.
//
// # Handling Plaintext
//
// Plaintext exists only in memory. Buffers are zeroed after parsing and
// values are never formatted into log messages; only names, document paths
// and error text are logged.
package secrets
