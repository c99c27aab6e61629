package workflows

import (
	"fmt"

	"github.com/PolarWolf314/provenv/internal/configs"
	kerrors "github.com/PolarWolf314/provenv/internal/errors"
	"github.com/PolarWolf314/provenv/internal/secrets"
)

// NewDecryptor builds the decryptor selected by secrets.decryptor.
// passphrase is used by the age backend for encrypted ssh keys and may be nil.
func NewDecryptor(cfg *configs.Config, env configs.Env, passphrase func() ([]byte, error)) (secrets.Decryptor, error) {
	keyFile := cfg.KeyFilePath(env)
	switch cfg.Secrets.Decryptor {
	case "", configs.DecryptorSOPS:
		return secrets.SOPSDecryptor{KeyFile: keyFile}, nil
	case configs.DecryptorAge:
		return secrets.NewAgeDecryptor(keyFile, passphrase), nil
	default:
		return nil, fmt.Errorf("%w: %q", kerrors.ErrUnknownDecryptor, cfg.Secrets.Decryptor)
	}
}

// NewQuerier builds the querier selected by secrets.query.
func NewQuerier(cfg *configs.Config) (secrets.Querier, error) {
	switch cfg.Secrets.Query {
	case "", configs.QueryNative:
		return secrets.YAMLQuerier{}, nil
	case configs.QueryYQ:
		return secrets.YQQuerier{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown query backend %q", kerrors.ErrInvalidConfig, cfg.Secrets.Query)
	}
}
