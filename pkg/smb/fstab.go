// pkg/smb/fstab.go

package smb

import (
	"fmt"
	"os"
	"strings"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/copperhearth/baseline/pkg/base_io"
	"github.com/copperhearth/baseline/pkg/shared"
)

// FstabEntry renders the fstab line for a share. The entry stays mountable
// via mount -a so the automount unit can pick shares up after boot; owner
// names the account that gets uid/gid on the mounted files.
func FstabEntry(share Share, credsPath, owner string) string {
	opts := fmt.Sprintf("credentials=%s,iocharset=utf8,x-gvfs-show,uid=%s,gid=%s", credsPath, owner, owner)
	return fmt.Sprintf("%s %s cifs %s 0 0", share.Source(), share.MountPoint(), opts)
}

// EnsureFstabEntry adds the entry to /etc/fstab, replacing any existing line
// for the same source so repeated runs converge instead of duplicating.
func EnsureFstabEntry(rc *base_io.RuntimeContext, share Share, credsPath, owner string) error {
	return ensureFstabLine(rc, shared.FstabPath, share.Source(), FstabEntry(share, credsPath, owner))
}

func ensureFstabLine(rc *base_io.RuntimeContext, fstabPath, source, entry string) error {
	logger := otelzap.Ctx(rc.Ctx)

	data, err := os.ReadFile(fstabPath)
	if err != nil {
		return fmt.Errorf("read %s: %w", fstabPath, err)
	}

	updated, changed := replaceFstabLine(string(data), source, entry)
	if !changed {
		logger.Debug("fstab already up to date", zap.String("source", source))
		return nil
	}

	info, err := os.Stat(fstabPath)
	if err != nil {
		return fmt.Errorf("stat %s: %w", fstabPath, err)
	}
	logger.Info("Updating fstab", zap.String("source", source), zap.String("entry", entry))
	if err := os.WriteFile(fstabPath, []byte(updated), info.Mode().Perm()); err != nil {
		return fmt.Errorf("write %s: %w", fstabPath, err)
	}
	return nil
}

// replaceFstabLine returns the file content with the line for source set to
// entry. The second return is false when the content already matches.
func replaceFstabLine(content, source, entry string) (string, bool) {
	lines := strings.Split(content, "\n")
	replaced := false
	for i, line := range lines {
		fields := strings.Fields(line)
		if len(fields) > 0 && fields[0] == source {
			if strings.TrimSpace(line) == entry {
				return content, false
			}
			lines[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		out := content
		if out != "" && !strings.HasSuffix(out, "\n") {
			out += "\n"
		}
		return out + entry + "\n", true
	}
	return strings.Join(lines, "\n"), true
}
