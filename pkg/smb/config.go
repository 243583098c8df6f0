// pkg/smb/config.go

// Package smb discovers, configures and mounts CIFS shares from the
// home-lab's shares file.
package smb

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/copperhearth/baseline/pkg/base_io"
)

// DefaultSharesFile is where the shares env file lives by default.
const DefaultSharesFile = "/etc/baseline/secrets/.smb"

// Share is one mountable CIFS export with its credentials.
type Share struct {
	Host     string
	Name     string
	Username string
	Password string
}

// Source returns the //host/share form used by mount.cifs and fstab.
func (s Share) Source() string {
	return fmt.Sprintf("//%s/%s", s.Host, s.Name)
}

// MountPoint returns the conventional mount point for the share.
func (s Share) MountPoint() string {
	return filepath.Join("/mnt", s.Name)
}

const sharesTemplate = `# SMB/CIFS shares configuration

# SMB Host 1
SMB_HOST_1=server1.home.arpa
SMB_HOST_1_USER=myuser
SMB_HOST_1_PW=mypassword
SMB_HOST_1_SHARE_1=share1
SMB_HOST_1_SHARE_2=share2

# SMB Host 2
SMB_HOST_2=server2.home.arpa
SMB_HOST_2_USER=otheruser
SMB_HOST_2_PW=otherpassword
SMB_HOST_2_SHARE_1=othershare
`

// EnsureSharesFile writes the documented template when the shares file does
// not exist yet. Returns true when the template was created, meaning the
// operator still has to fill it in.
func EnsureSharesFile(rc *base_io.RuntimeContext, path string) (bool, error) {
	logger := otelzap.Ctx(rc.Ctx)

	if _, err := os.Stat(path); err == nil {
		return false, nil
	}

	logger.Info("Shares file not found, creating template", zap.String("path", path))
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return false, fmt.Errorf("create secrets dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(sharesTemplate), 0o600); err != nil {
		return false, fmt.Errorf("write shares template: %w", err)
	}
	return true, nil
}

// LoadShares parses the shares env file. Hosts are keyed SMB_HOST_<n> with
// _USER/_PW credentials and numbered _SHARE_<m> entries; hosts missing
// credentials are skipped with a warning.
func LoadShares(rc *base_io.RuntimeContext, path string) ([]Share, error) {
	logger := otelzap.Ctx(rc.Ctx)

	env, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("read shares file %s: %w", path, err)
	}
	return parseShares(logger.ZapLogger(), env), nil
}

func parseShares(logger *zap.Logger, env map[string]string) []Share {
	var hostNums []int
	for key := range env {
		rest, ok := strings.CutPrefix(key, "SMB_HOST_")
		if !ok || strings.Contains(rest, "_") {
			continue
		}
		if n, err := strconv.Atoi(rest); err == nil {
			hostNums = append(hostNums, n)
		}
	}
	sort.Ints(hostNums)

	var shares []Share
	for _, n := range hostNums {
		prefix := fmt.Sprintf("SMB_HOST_%d", n)
		host := env[prefix]
		username := env[prefix+"_USER"]
		password := env[prefix+"_PW"]

		if host == "" || username == "" || password == "" {
			logger.Warn("Skipping host with incomplete configuration", zap.String("key", prefix))
			continue
		}

		for m := 1; ; m++ {
			name, ok := env[fmt.Sprintf("%s_SHARE_%d", prefix, m)]
			if !ok {
				break
			}
			shares = append(shares, Share{
				Host:     host,
				Name:     name,
				Username: username,
				Password: password,
			})
		}
	}
	return shares
}
