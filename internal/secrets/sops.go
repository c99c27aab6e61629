package secrets

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	kerrors "github.com/PolarWolf314/provenv/internal/errors"
	"github.com/PolarWolf314/provenv/internal/utils"
)

// SOPSDecryptor decrypts documents by running the sops binary.
type SOPSDecryptor struct {
	// Binary is the sops executable name or path. Empty means "sops".
	Binary string

	// KeyFile is exported to sops as SOPS_AGE_KEY_FILE.
	KeyFile string
}

func (d SOPSDecryptor) Name() string { return "sops" }

func (d SOPSDecryptor) binary() string {
	if d.Binary == "" {
		return "sops"
	}
	return d.Binary
}

// Available checks that the sops binary can be found.
func (d SOPSDecryptor) Available() error {
	if _, err := utils.FindBinary(d.binary()); err != nil {
		return fmt.Errorf("%w: %v", kerrors.ErrToolNotFound, err)
	}
	return nil
}

// Decrypt runs `sops --decrypt --output-type yaml <path>` and returns stdout.
// The plaintext is captured in memory and never touches the filesystem.
func (d SOPSDecryptor) Decrypt(ctx context.Context, path string) ([]byte, error) {
	bin, err := utils.FindBinary(d.binary())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrToolNotFound, err)
	}

	cmd := exec.CommandContext(ctx, bin, "--decrypt", "--output-type", "yaml", path)
	cmd.Env = os.Environ()
	if d.KeyFile != "" {
		cmd.Env = append(cmd.Env, "SOPS_AGE_KEY_FILE="+d.KeyFile)
	}
	cmd.WaitDelay = time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		wipe(stdout.Bytes())
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %s", kerrors.ErrDecryptTimeout, path)
		}
		return nil, fmt.Errorf("%w: %v", kerrors.ErrDecryptFailed, utils.FormatCommandError("sops", stderr.String(), err))
	}

	return stdout.Bytes(), nil
}
