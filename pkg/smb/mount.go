// pkg/smb/mount.go

package smb

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/copperhearth/baseline/pkg/base_io"
	"github.com/copperhearth/baseline/pkg/execute"
	"github.com/copperhearth/baseline/pkg/users"
)

// cifsVersions are tried newest first. Old NAS firmware sometimes only
// speaks SMB2 or even SMB1.
var cifsVersions = []string{"3.0", "2.0", "1.0"}

// IsMounted reports whether target appears as a mount point in /proc/mounts.
func IsMounted(target string) (bool, error) {
	return isMountedIn("/proc/mounts", target)
}

func isMountedIn(mountsPath, target string) (bool, error) {
	data, err := os.ReadFile(mountsPath)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", mountsPath, err)
	}
	for _, line := range strings.Split(string(data), "\n") {
		fields := strings.Fields(line)
		if len(fields) >= 2 && fields[1] == target {
			return true, nil
		}
	}
	return false, nil
}

// Mount mounts the share at its mount point, trying protocol versions from
// newest to oldest. Already-mounted targets are left alone. The mount point
// is created owned by owner so the desktop user can browse it.
func Mount(rc *base_io.RuntimeContext, share Share, credsPath, owner string) error {
	logger := otelzap.Ctx(rc.Ctx)
	target := share.MountPoint()

	mounted, err := IsMounted(target)
	if err != nil {
		return err
	}
	if mounted {
		logger.Info("Share already mounted", zap.String("target", target))
		return nil
	}

	if err := os.MkdirAll(target, 0o755); err != nil {
		return fmt.Errorf("create mount point %s: %w", target, err)
	}
	if err := os.Chmod(target, 0o755); err != nil {
		return fmt.Errorf("chmod mount point %s: %w", target, err)
	}
	if err := users.Chown(rc.Ctx, target, owner); err != nil {
		return fmt.Errorf("chown mount point %s: %w", target, err)
	}

	// Wait briefly for the NAS to answer before burning through dialect
	// attempts; an unreachable host still gets one mount try so the error
	// surfaces from mount itself.
	if err := execute.RetryCommand(rc.Ctx, 3, 2*time.Second, "ping", "-c", "1", share.Host); err != nil {
		logger.Warn("Host not answering ping, attempting mount anyway",
			zap.String("host", share.Host), zap.Error(err))
	}

	var lastErr error
	for _, vers := range cifsVersions {
		opts := fmt.Sprintf("credentials=%s,iocharset=utf8,uid=%s,gid=%s,vers=%s", credsPath, owner, owner, vers)
		logger.Info("Mounting CIFS share",
			zap.String("source", share.Source()),
			zap.String("target", target),
			zap.String("vers", vers))

		_, err := execute.Run(rc.Ctx, execute.Options{
			Command: "mount",
			Args:    []string{"-t", "cifs", share.Source(), target, "-o", opts},
			Capture: true,
			Timeout: 30 * time.Second,
		})
		if err == nil {
			logger.Info("Mounted share", zap.String("target", target), zap.String("vers", vers))
			return nil
		}
		lastErr = err
		logger.Warn("Mount attempt failed, trying older protocol",
			zap.String("vers", vers), zap.Error(err))
	}
	return fmt.Errorf("mount %s: all protocol versions failed: %w", share.Source(), lastErr)
}
