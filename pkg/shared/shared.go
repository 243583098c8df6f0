// pkg/shared/shared.go

package shared

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

const (
	// AppID is the canonical short name used for paths and service resources.
	AppID = "baseline"

	Version = "0.4.1"
)

// System paths written or managed by baseline.
const (
	LogDir     = "/var/log/baseline"
	LogFile    = "/var/log/baseline/baseline.log"
	ConfigDir  = "/etc/baseline"
	ConfigFile = "/etc/baseline/config.yaml"

	SSHDConfig       = "/etc/ssh/sshd_config"
	SSHDConfigBackup = "/etc/ssh/sshd_config.bak"

	FstabPath = "/etc/fstab"

	AptAutoUpgradesPath       = "/etc/apt/apt.conf.d/20auto-upgrades"
	AptUnattendedUpgradesPath = "/etc/apt/apt.conf.d/50unattended-upgrades"

	AutomountUnitPath = "/etc/systemd/system/automount-on-start.service"
)

// LogFilePWD is the developer fallback in the working directory.
func LogFilePWD() string {
	wd, err := os.Getwd()
	if err != nil {
		return "./baseline.log"
	}
	return filepath.Join(wd, "baseline.log")
}

// SafeSync flushes the global zap logger, swallowing the EBADF/ENOTTY errors
// zap returns when stdout is a terminal.
func SafeSync() {
	if l := zap.L(); l != nil {
		_ = l.Sync()
	}
}
