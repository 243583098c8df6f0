// cmd/mount/shares.go

package mount

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/copperhearth/baseline/pkg/apt"
	"github.com/copperhearth/baseline/pkg/base_cli"
	"github.com/copperhearth/baseline/pkg/base_err"
	"github.com/copperhearth/baseline/pkg/base_io"
	"github.com/copperhearth/baseline/pkg/config"
	"github.com/copperhearth/baseline/pkg/smb"
	"github.com/copperhearth/baseline/pkg/users"
)

var (
	sharesFileFlag string
	ownerFlag      string
)

var sharesCmd = &cobra.Command{
	Use:   "shares",
	Short: "Mount configured CIFS shares and persist them in fstab",
	Long: `Reads the shares env file, writes per-host credentials files, adds
fstab entries, mounts each share (retrying older SMB dialects), and installs
a systemd unit that remounts everything after the network comes up.

When the shares file does not exist a template is written for you to fill in.`,
	RunE: base_cli.WrapExtended(30*time.Minute, func(rc *base_io.RuntimeContext, cmd *cobra.Command, args []string) error {
		logger := otelzap.Ctx(rc.Ctx)

		if err := base_cli.RequireRoot(); err != nil {
			return err
		}

		cfg, err := config.Load(rc)
		if err != nil {
			return err
		}
		sharesFile := cfg.SharesFile
		if sharesFileFlag != "" {
			sharesFile = sharesFileFlag
		}

		created, err := smb.EnsureSharesFile(rc, sharesFile)
		if err != nil {
			return err
		}
		if created {
			return base_err.NewExpectedError(fmt.Errorf(
				"wrote template %s; fill in your hosts and shares, then re-run", sharesFile))
		}

		if err := apt.InstallIfMissing(rc, "cifs-utils"); err != nil {
			return err
		}

		shares, err := smb.LoadShares(rc, sharesFile)
		if err != nil {
			return err
		}
		if len(shares) == 0 {
			return base_err.NewExpectedError(fmt.Errorf("no usable shares in %s", sharesFile))
		}

		owner := ownerFlag
		if owner == "" {
			owner = users.DetectNonRoot(rc)
		}

		var failed int
		for _, share := range shares {
			credsPath, err := smb.WriteCredentials(rc, share)
			if err != nil {
				return err
			}
			if err := smb.EnsureFstabEntry(rc, share, credsPath, owner); err != nil {
				return err
			}
			if err := smb.Mount(rc, share, credsPath, owner); err != nil {
				logger.Warn("Share did not mount",
					zap.String("source", share.Source()), zap.Error(err))
				failed++
			}
		}

		if err := smb.InstallAutomountUnit(rc); err != nil {
			return err
		}

		logger.Info("Share mounting finished",
			zap.Int("total", len(shares)), zap.Int("failed", failed))
		if failed == len(shares) {
			return fmt.Errorf("none of the %d configured shares mounted", len(shares))
		}
		return nil
	}),
}

func init() {
	sharesCmd.Flags().StringVar(&sharesFileFlag, "shares-file", "", "path to the shares env file")
	sharesCmd.Flags().StringVar(&ownerFlag, "user", "", "account that owns the mount points (default: detected)")
}
