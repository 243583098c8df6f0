// pkg/apt/keyring.go

package apt

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/copperhearth/baseline/pkg/base_io"
	"github.com/copperhearth/baseline/pkg/httpclient"
)

const KeyringDir = "/etc/apt/keyrings"

// AddKeyring downloads an ASCII-armored vendor key and dearmors it into
// dest. Idempotent: an existing keyring file is left alone.
func AddKeyring(rc *base_io.RuntimeContext, keyURL, dest string) error {
	logger := otelzap.Ctx(rc.Ctx)

	if _, err := os.Stat(dest); err == nil {
		logger.Debug("Keyring already present", zap.String("path", dest))
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("create keyring dir: %w", err)
	}

	logger.Info("Fetching vendor signing key", zap.String("url", keyURL))
	armored, err := httpclient.Fetch(rc.Ctx, keyURL)
	if err != nil {
		return fmt.Errorf("fetch key %s: %w", keyURL, err)
	}

	dearmored, err := dearmor(rc, armored)
	if err != nil {
		return fmt.Errorf("dearmor key: %w", err)
	}

	if err := os.WriteFile(dest, dearmored, 0o644); err != nil {
		return fmt.Errorf("write keyring %s: %w", dest, err)
	}
	logger.Info("Keyring installed", zap.String("path", dest))
	return nil
}

// dearmor pipes an armored key through gpg --dearmor. Some vendors already
// ship binary keyrings; those are passed through unchanged.
func dearmor(rc *base_io.RuntimeContext, armored []byte) ([]byte, error) {
	if !bytes.Contains(armored, []byte("BEGIN PGP PUBLIC KEY BLOCK")) {
		return armored, nil
	}

	cmd := exec.CommandContext(rc.Ctx, "gpg", "--dearmor")
	cmd.Stdin = bytes.NewReader(armored)
	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("gpg --dearmor: %w (%s)", err, strings.TrimSpace(errBuf.String()))
	}
	return out.Bytes(), nil
}

// AddRepo writes an apt source list entry, replacing whatever was there.
func AddRepo(rc *base_io.RuntimeContext, listPath, repoLine string) error {
	logger := otelzap.Ctx(rc.Ctx)

	content := repoLine + "\n"
	if existing, err := os.ReadFile(listPath); err == nil && string(existing) == content {
		logger.Debug("Repository entry already present", zap.String("path", listPath))
		return nil
	}

	if err := os.WriteFile(listPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write repo list %s: %w", listPath, err)
	}
	logger.Info("Repository added", zap.String("path", listPath), zap.String("entry", repoLine))
	return nil
}

func splitLines(s string) []string {
	return strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
}

func cutPrefixTrimmed(line, prefix string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if rest, ok := strings.CutPrefix(trimmed, prefix); ok {
		return strings.TrimSpace(rest), true
	}
	return "", false
}
