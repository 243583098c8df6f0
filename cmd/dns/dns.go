// cmd/dns/dns.go

// Package dns holds the Cloudflare record commands.
package dns

import (
	"github.com/spf13/cobra"

	"github.com/copperhearth/baseline/pkg/base_cli"
	"github.com/copperhearth/baseline/pkg/base_io"
)

// DNSCmd is the parent for DNS subcommands.
var DNSCmd = &cobra.Command{
	Use:   "dns",
	Short: "Manage Cloudflare DNS records for the compose stack",
	RunE: base_cli.Wrap(func(rc *base_io.RuntimeContext, cmd *cobra.Command, args []string) error {
		return cmd.Help()
	}),
}

func init() {
	DNSCmd.AddCommand(syncCmd)
}
