// cmd/setup/packages.go

package setup

import (
	"sort"
	"time"

	"github.com/spf13/cobra"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/copperhearth/baseline/pkg/apt"
	"github.com/copperhearth/baseline/pkg/base_cli"
	"github.com/copperhearth/baseline/pkg/base_io"
	"github.com/copperhearth/baseline/pkg/interaction"
	"github.com/copperhearth/baseline/pkg/users"
)

// criticalPackages install unconditionally before the menu.
var criticalPackages = []string{"sudo", "curl", "ca-certificates", "cifs-utils", "smbclient"}

// menuPackages are offered for selection. docker, plex, 1password-cli and
// nvm get special handling; the rest install straight from apt.
var menuPackages = []string{
	"1password-cli",
	"certbot",
	"cmake",
	"fail2ban",
	"fdupes",
	"ffmpeg",
	"nginx",
	"nodejs",
	"npm",
	"nvm",
	"pandoc",
	"plex",
}

var packagesCmd = &cobra.Command{
	Use:   "packages",
	Short: "Select and install packages interactively",
	RunE: base_cli.WrapExtended(time.Hour, func(rc *base_io.RuntimeContext, cmd *cobra.Command, args []string) error {
		if err := base_cli.RequireRoot(); err != nil {
			return err
		}
		return installSelectedPackages(rc, users.DetectNonRoot(rc))
	}),
}

func installSelectedPackages(rc *base_io.RuntimeContext, username string) error {
	logger := otelzap.Ctx(rc.Ctx)

	for _, pkg := range criticalPackages {
		if err := apt.InstallIfMissing(rc, pkg); err != nil {
			return err
		}
	}

	// Only offer docker when the upstream repo yields a candidate.
	dockerAvailable := false
	if err := apt.SetupDockerRepo(rc); err != nil {
		logger.Warn("Could not set up Docker repository", zap.Error(err))
	} else {
		dockerAvailable = apt.CandidateAvailable(rc, "docker-ce")
	}

	items := make([]string, len(menuPackages))
	copy(items, menuPackages)
	if dockerAvailable {
		items = append(items, "docker")
	}
	sort.Strings(items)

	var selected []string
	switch {
	case allPackagesFlag:
		selected = items
	case len(packagesFlag) > 0:
		selected = packagesFlag
	case nonInteractiveFlag:
		logger.Info("Non-interactive run without a package list, skipping optional packages")
	default:
		selected = interaction.SelectFromMenu("Package Selection Menu", items)
	}
	if len(selected) == 0 {
		logger.Info("No packages selected")
		return nil
	}
	logger.Info("Installing selected packages", zap.Strings("packages", selected))

	for _, pkg := range selected {
		var err error
		switch pkg {
		case "docker":
			err = installDocker(rc, username)
		case "plex":
			err = apt.InstallPlex(rc)
		case "1password-cli":
			err = apt.InstallOnePasswordCLI(rc)
		case "nvm":
			err = apt.InstallNVM(rc, username)
		default:
			err = apt.InstallIfMissing(rc, pkg)
		}
		if err != nil {
			// One broken vendor repo should not sink the whole run.
			logger.Warn("Package installation failed, continuing",
				zap.String("package", pkg), zap.Error(err))
		}
	}
	return nil
}
