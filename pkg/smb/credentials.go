// pkg/smb/credentials.go

package smb

import (
	"fmt"
	"os"
	"strings"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/copperhearth/baseline/pkg/base_io"
)

// CredentialsPath returns the per-host credentials file mount.cifs reads.
// Dots in the hostname are flattened so the filename stays a single token.
func CredentialsPath(host string) string {
	return "/etc/.smb_" + strings.ReplaceAll(host, ".", "_")
}

// WriteCredentials writes the mount.cifs credentials file for one host,
// readable by root only.
func WriteCredentials(rc *base_io.RuntimeContext, share Share) (string, error) {
	logger := otelzap.Ctx(rc.Ctx)

	path := CredentialsPath(share.Host)
	content := fmt.Sprintf("username=%s\npassword=%s\n", share.Username, share.Password)

	if existing, err := os.ReadFile(path); err == nil && string(existing) == content {
		return path, nil
	}

	logger.Info("Writing CIFS credentials file", zap.String("path", path), zap.String("host", share.Host))
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return "", fmt.Errorf("write credentials file %s: %w", path, err)
	}
	return path, nil
}
