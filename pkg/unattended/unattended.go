// pkg/unattended/unattended.go

// Package unattended configures Debian's unattended-upgrades so security
// patches install automatically.
package unattended

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/copperhearth/baseline/pkg/apt"
	"github.com/copperhearth/baseline/pkg/base_io"
	"github.com/copperhearth/baseline/pkg/base_unix"
	"github.com/copperhearth/baseline/pkg/shared"
)

const autoUpgradesContent = `APT::Periodic::Update-Package-Lists "1";
APT::Periodic::Unattended-Upgrade "1";
APT::Periodic::AutocleanInterval "7";
APT::Periodic::Download-Upgradeable-Packages "1";
`

// securityOriginRE matches the Debian-Security origin line whether or not
// it is commented out, tolerating the leading-slash comment styles apt
// config files use.
var securityOriginRE = regexp.MustCompile(`(?m)^(\s*)//\s*("origin=Debian,codename=\$\{distro_codename\},label=Debian-Security";)`)

// rebootLineRE matches any existing Automatic-Reboot setting, commented
// or not.
var rebootLineRE = regexp.MustCompile(`(?m)^\s*(//\s*)?Unattended-Upgrade::Automatic-Reboot\s+"(true|false)";`)

const rebootLine = `Unattended-Upgrade::Automatic-Reboot "false";`

// fallbackUnattendedUpgrades is written whole when the packaged config is
// missing, which should only happen on a very stripped-down image.
const fallbackUnattendedUpgrades = `Unattended-Upgrade::Allowed-Origins {
    "origin=Debian,codename=${distro_codename},label=Debian-Security";
};

Unattended-Upgrade::Package-Blacklist {
};

Unattended-Upgrade::AutoFixInterruptedDpkg "true";
Unattended-Upgrade::MinimalSteps "true";
Unattended-Upgrade::InstallOnShutdown "false";
Unattended-Upgrade::Remove-Unused-Kernel-Packages "true";
Unattended-Upgrade::Remove-New-Unused-Dependencies "true";
Unattended-Upgrade::Remove-Unused-Dependencies "true";
Unattended-Upgrade::Automatic-Reboot "false";
`

// Configure installs unattended-upgrades, enables its periodic jobs and
// restricts it to security updates with automatic reboots off.
func Configure(rc *base_io.RuntimeContext) error {
	logger := otelzap.Ctx(rc.Ctx)

	if err := apt.InstallIfMissing(rc, "unattended-upgrades"); err != nil {
		return err
	}

	logger.Info("Enabling periodic apt jobs", zap.String("path", shared.AptAutoUpgradesPath))
	if err := os.WriteFile(shared.AptAutoUpgradesPath, []byte(autoUpgradesContent), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", shared.AptAutoUpgradesPath, err)
	}

	if err := configureUpgradePolicy(rc); err != nil {
		return err
	}

	if !base_unix.IsEnabled(rc.Ctx, "unattended-upgrades") {
		logger.Info("Enabling unattended-upgrades service")
		if err := base_unix.Enable(rc.Ctx, "unattended-upgrades"); err != nil {
			return err
		}
	}
	if err := base_unix.Restart(rc.Ctx, "unattended-upgrades"); err != nil {
		return err
	}
	if !base_unix.IsActive(rc.Ctx, "unattended-upgrades") {
		logger.Warn("unattended-upgrades did not report active after restart")
	}
	return nil
}

func configureUpgradePolicy(rc *base_io.RuntimeContext) error {
	logger := otelzap.Ctx(rc.Ctx)
	path := shared.AptUnattendedUpgradesPath

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		logger.Warn("Packaged unattended-upgrades config missing, writing minimal policy",
			zap.String("path", path))
		return os.WriteFile(path, []byte(fallbackUnattendedUpgrades), 0o644)
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	updated, changed := rewritePolicy(string(data))
	if !changed {
		logger.Debug("unattended-upgrades policy already configured")
		return nil
	}

	logger.Info("Updating unattended-upgrades policy", zap.String("path", path))
	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// rewritePolicy uncomments the security origin and forces automatic
// reboots off. The second return is false when nothing needed changing.
func rewritePolicy(content string) (string, bool) {
	out := securityOriginRE.ReplaceAllString(content, "$1$2")

	if rebootLineRE.MatchString(out) {
		out = rebootLineRE.ReplaceAllString(out, rebootLine)
	} else {
		if !strings.HasSuffix(out, "\n") {
			out += "\n"
		}
		out += rebootLine + "\n"
	}
	return out, out != content
}
