// cmd/secure/updates.go

package secure

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/copperhearth/baseline/pkg/base_cli"
	"github.com/copperhearth/baseline/pkg/base_io"
	"github.com/copperhearth/baseline/pkg/unattended"
)

var updatesCmd = &cobra.Command{
	Use:   "updates",
	Short: "Enable unattended security updates",
	Long: `Installs unattended-upgrades, enables the periodic apt jobs and
restricts automatic installs to the Debian-Security origin. Automatic
reboots stay off.`,
	RunE: base_cli.WrapExtended(15*time.Minute, func(rc *base_io.RuntimeContext, cmd *cobra.Command, args []string) error {
		if err := base_cli.RequireRoot(); err != nil {
			return err
		}
		return unattended.Configure(rc)
	}),
}
