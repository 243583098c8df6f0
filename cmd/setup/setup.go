// cmd/setup/setup.go

// Package setup holds the provisioning commands that take a fresh Debian
// install to a working home-lab baseline.
package setup

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/copperhearth/baseline/pkg/base_cli"
	"github.com/copperhearth/baseline/pkg/base_io"
	"github.com/copperhearth/baseline/pkg/platform"
	"github.com/copperhearth/baseline/pkg/smb"
	"github.com/copperhearth/baseline/pkg/sshd"
	"github.com/copperhearth/baseline/pkg/unattended"
	"github.com/copperhearth/baseline/pkg/users"
)

var (
	nonInteractiveFlag bool
	packagesFlag       []string
	allPackagesFlag    bool
	userFlag           string
)

// SetupCmd is the parent for provisioning subcommands. Run bare it walks
// the whole sequence: packages, user, SSH, shares, security updates.
var SetupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Provision the host (packages, Docker, user, SSH, shares, updates)",
	Long: `Run the full provisioning sequence, or one step via a subcommand:

	baseline setup            full sequence
	baseline setup packages   interactive package selection and install
	baseline setup docker     Docker engine from the upstream repo
	baseline setup user       non-root user, sudoers, docker group`,
	RunE: base_cli.WrapExtended(2*time.Hour, runSetup),
}

func init() {
	SetupCmd.AddCommand(packagesCmd)
	SetupCmd.AddCommand(dockerCmd)
	SetupCmd.AddCommand(userCmd)

	SetupCmd.Flags().BoolVar(&nonInteractiveFlag, "non-interactive", false,
		"never prompt; skip optional packages unless --packages or --all-packages is given")
	SetupCmd.Flags().StringSliceVar(&packagesFlag, "packages", nil,
		"comma-separated optional packages to install instead of the menu")
	SetupCmd.Flags().BoolVar(&allPackagesFlag, "all-packages", false,
		"install every optional package without asking")
	SetupCmd.Flags().StringVar(&userFlag, "user", "",
		"non-root account to provision (default: detected)")
}

func runSetup(rc *base_io.RuntimeContext, cmd *cobra.Command, args []string) error {
	logger := otelzap.Ctx(rc.Ctx)

	if err := base_cli.RequireRoot(); err != nil {
		return err
	}
	if err := checkDebian(rc); err != nil {
		return err
	}

	username := resolveUser(rc)
	logger.Info("Provisioning host", zap.String("user", username))

	if err := installSelectedPackages(rc, username); err != nil {
		return err
	}
	if err := setupUser(rc, username); err != nil {
		return err
	}
	if err := sshd.Harden(rc, username); err != nil {
		return err
	}
	if err := sshd.SetupKeys(rc, username, "", true); err != nil {
		return err
	}
	if err := mountConfiguredShares(rc, username); err != nil {
		return err
	}
	if err := unattended.Configure(rc); err != nil {
		return err
	}
	if err := smb.InstallAutomountUnit(rc); err != nil {
		return err
	}

	logger.Info("Provisioning complete", zap.String("user", username))
	return nil
}

// resolveUser prefers --user and falls back to detection, which may prompt
// when the run is interactive.
func resolveUser(rc *base_io.RuntimeContext) string {
	if userFlag != "" {
		return userFlag
	}
	return users.DetectNonRoot(rc)
}

func checkDebian(rc *base_io.RuntimeContext) error {
	logger := otelzap.Ctx(rc.Ctx)

	release, err := platform.ReadOSRelease()
	if err != nil {
		logger.Warn("Could not determine distribution, continuing", zap.Error(err))
		return nil
	}
	if !release.IsDebian() {
		logger.Warn("Host does not look like Debian, apt operations may fail",
			zap.String("id", release.ID))
		return nil
	}
	if ok, err := release.AtLeast("11"); err == nil && !ok {
		logger.Warn("Debian release is older than 11, some packages may be missing",
			zap.String("version", release.VersionID))
	}
	return nil
}
