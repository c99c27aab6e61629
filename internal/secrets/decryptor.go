package secrets

import "context"

// Decryptor turns an encrypted document into plaintext bytes.
type Decryptor interface {
	// Name identifies the decryptor in messages, e.g. "sops".
	Name() string

	// Available reports whether the decryptor can run on this machine.
	Available() error

	// Decrypt returns the plaintext of the document at path. Callers own the
	// returned slice and should wipe it when done.
	Decrypt(ctx context.Context, path string) ([]byte, error)
}

// wipe zeroes a plaintext buffer.
func wipe(b []byte) {
	clear(b)
}
