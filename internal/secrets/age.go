package secrets

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"filippo.io/age"
	"filippo.io/age/agessh"
	"filippo.io/age/armor"
	"golang.org/x/crypto/ssh"

	kerrors "github.com/PolarWolf314/provenv/internal/errors"
)

// AgeDecryptor decrypts age files in process. The key file holds either age
// X25519 identities (AGE-SECRET-KEY-1...) or a single ssh private key.
type AgeDecryptor struct {
	KeyFile string

	// Passphrase unlocks an encrypted ssh key. It is called at most once, on
	// the first document that needs it. Nil means encrypted keys are refused.
	Passphrase func() ([]byte, error)

	once       sync.Once
	identities []age.Identity
	loadErr    error
}

// NewAgeDecryptor returns an AgeDecryptor for keyFile.
func NewAgeDecryptor(keyFile string, passphrase func() ([]byte, error)) *AgeDecryptor {
	return &AgeDecryptor{KeyFile: keyFile, Passphrase: passphrase}
}

func (d *AgeDecryptor) Name() string { return "age" }

// Available is always nil: decryption needs no external tool.
func (d *AgeDecryptor) Available() error { return nil }

// Decrypt decrypts the age file at path. Armored and binary files are both
// accepted.
func (d *AgeDecryptor) Decrypt(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s", kerrors.ErrDecryptTimeout, path)
	}

	d.once.Do(func() {
		d.identities, d.loadErr = loadIdentities(d.KeyFile, d.Passphrase)
	})
	if d.loadErr != nil {
		return nil, d.loadErr
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrDecryptFailed, err)
	}
	defer f.Close()

	br := bufio.NewReader(f)
	var src io.Reader = br
	if head, _ := br.Peek(len(armor.Header)); string(head) == armor.Header {
		src = armor.NewReader(br)
	}

	r, err := age.Decrypt(src, d.identities...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrDecryptFailed, err)
	}

	plaintext, err := io.ReadAll(r)
	if err != nil {
		wipe(plaintext)
		return nil, fmt.Errorf("%w: %v", kerrors.ErrDecryptFailed, err)
	}

	if err := ctx.Err(); err != nil {
		wipe(plaintext)
		return nil, fmt.Errorf("%w: %s", kerrors.ErrDecryptTimeout, path)
	}

	return plaintext, nil
}

// loadIdentities parses the key file. ssh keys are recognised by their PEM
// header; anything else is read as an age identity file.
func loadIdentities(keyFile string, passphrase func() ([]byte, error)) ([]age.Identity, error) {
	data, err := os.ReadFile(keyFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", kerrors.ErrKeyFileMissing, keyFile)
		}
		return nil, fmt.Errorf("failed to read key file %s: %w", keyFile, err)
	}

	if bytes.Contains(data, []byte("PRIVATE KEY-----")) {
		id, err := loadSSHIdentity(keyFile, data, passphrase)
		if err != nil {
			wipe(data)
			return nil, err
		}
		return []age.Identity{id}, nil
	}
	defer wipe(data)

	ids, err := age.ParseIdentities(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", kerrors.ErrNoIdentities, keyFile, err)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: %s", kerrors.ErrNoIdentities, keyFile)
	}
	return ids, nil
}

func loadSSHIdentity(keyFile string, pemBytes []byte, passphrase func() ([]byte, error)) (age.Identity, error) {
	id, err := agessh.ParseIdentity(pemBytes)
	if err == nil {
		wipe(pemBytes)
		return id, nil
	}

	var missing *ssh.PassphraseMissingError
	if !errors.As(err, &missing) {
		return nil, fmt.Errorf("%w: %s: %v", kerrors.ErrNoIdentities, keyFile, err)
	}

	if passphrase == nil {
		return nil, fmt.Errorf("%w: %s", kerrors.ErrPassphraseRequired, keyFile)
	}

	pub := missing.PublicKey
	if pub == nil {
		// Legacy PEM keys do not embed the public key.
		pubData, err := os.ReadFile(keyFile + ".pub")
		if err != nil {
			return nil, fmt.Errorf("%w: %s.pub is needed to unlock %s", kerrors.ErrPassphraseRequired, keyFile, keyFile)
		}
		pub, _, _, _, err = ssh.ParseAuthorizedKey(pubData)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s.pub: %w", keyFile, err)
		}
	}

	// The encrypted identity decrypts lazily, so it keeps pemBytes.
	encrypted, err := agessh.NewEncryptedSSHIdentity(pub, pemBytes, passphrase)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", kerrors.ErrNoIdentities, keyFile, err)
	}
	return encrypted, nil
}
