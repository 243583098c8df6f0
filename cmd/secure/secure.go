// cmd/secure/secure.go

// Package secure holds the hardening commands.
package secure

import (
	"github.com/spf13/cobra"

	"github.com/copperhearth/baseline/pkg/base_cli"
	"github.com/copperhearth/baseline/pkg/base_io"
)

// SecureCmd is the parent for hardening subcommands.
var SecureCmd = &cobra.Command{
	Use:     "secure",
	Aliases: []string{"harden"},
	Short:   "Harden host services",
	Long: `Hardening commands:

	baseline secure ssh       lock down sshd and set up key auth
	baseline secure updates   enable unattended security updates`,
	RunE: base_cli.Wrap(func(rc *base_io.RuntimeContext, cmd *cobra.Command, args []string) error {
		return cmd.Help()
	}),
}

func init() {
	SecureCmd.AddCommand(sshCmd)
	SecureCmd.AddCommand(updatesCmd)
}
