// cmd/mount/mount.go

// Package mount holds the CIFS share commands.
package mount

import (
	"github.com/spf13/cobra"

	"github.com/copperhearth/baseline/pkg/base_cli"
	"github.com/copperhearth/baseline/pkg/base_io"
)

// MountCmd is the parent for share subcommands.
var MountCmd = &cobra.Command{
	Use:   "mount",
	Short: "Discover and mount SMB/CIFS shares",
	Long: `Share commands:

	baseline mount shares     mount configured shares and persist them
	baseline mount discover   enumerate what hosts on the network export`,
	RunE: base_cli.Wrap(func(rc *base_io.RuntimeContext, cmd *cobra.Command, args []string) error {
		return cmd.Help()
	}),
}

func init() {
	MountCmd.AddCommand(sharesCmd)
	MountCmd.AddCommand(discoverCmd)
}
