// pkg/sshd/keys.go

package sshd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/copperhearth/baseline/pkg/base_io"
	"github.com/copperhearth/baseline/pkg/execute"
	"github.com/copperhearth/baseline/pkg/interaction"
	"github.com/copperhearth/baseline/pkg/users"
)

// SetupKeys ensures ~/.ssh exists with a keypair and an authorized_keys file
// for the operator. authorizedKey may come from a flag; when empty and the
// session is interactive, the user is prompted to paste one.
func SetupKeys(rc *base_io.RuntimeContext, username, authorizedKey string, interactive bool) error {
	logger := otelzap.Ctx(rc.Ctx)
	logger.Info("Setting up SSH keys", zap.String("user", username))

	home, err := users.HomeDir(rc.Ctx, username)
	if err != nil {
		// The passwd lookup can fail mid-bootstrap; fall back to convention.
		home = filepath.Join("/home", username)
		if username == "root" {
			home = "/root"
		}
		logger.Warn("Falling back to conventional home directory", zap.String("home", home))
	}

	sshDir := filepath.Join(home, ".ssh")
	if err := os.MkdirAll(sshDir, 0o700); err != nil {
		return fmt.Errorf("create %s: %w", sshDir, err)
	}
	if err := users.Chown(rc.Ctx, sshDir, username); err != nil {
		return fmt.Errorf("chown %s: %w", sshDir, err)
	}

	keyPath := filepath.Join(sshDir, "id_ed25519")
	if _, err := os.Stat(keyPath); os.IsNotExist(err) {
		logger.Info("Generating SSH keypair", zap.String("user", username), zap.String("path", keyPath))
		if err := execute.RunSimple(rc.Ctx,
			"sudo", "-u", username, "ssh-keygen", "-t", "ed25519", "-N", "", "-f", keyPath); err != nil {
			return fmt.Errorf("ssh-keygen for %s: %w", username, err)
		}
	} else {
		logger.Info("SSH key already exists, skipping generation", zap.String("path", keyPath))
	}

	return ensureAuthorizedKeys(rc, sshDir, username, authorizedKey, interactive)
}

func ensureAuthorizedKeys(rc *base_io.RuntimeContext, sshDir, username, key string, interactive bool) error {
	logger := otelzap.Ctx(rc.Ctx)
	path := filepath.Join(sshDir, "authorized_keys")

	if key == "" && interactive {
		key = interaction.PromptInput("Paste a public SSH key to authorize (ENTER to skip)", "")
	}

	existing, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("read %s: %w", path, err)
	}

	if key != "" && strings.Contains(string(existing), strings.TrimSpace(key)) {
		logger.Info("Key already authorized, skipping")
		key = ""
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	if key != "" {
		if _, err := f.WriteString(strings.TrimSpace(key) + "\n"); err != nil {
			f.Close()
			return fmt.Errorf("append authorized key: %w", err)
		}
		logger.Info("Public key added to authorized_keys")
	}
	f.Close()

	if err := os.Chmod(path, 0o600); err != nil {
		return err
	}
	return users.Chown(rc.Ctx, path, username)
}
