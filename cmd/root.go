// cmd/root.go

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/copperhearth/baseline/cmd/analyze"
	"github.com/copperhearth/baseline/cmd/dns"
	"github.com/copperhearth/baseline/cmd/mount"
	"github.com/copperhearth/baseline/cmd/secure"
	"github.com/copperhearth/baseline/cmd/setup"
	"github.com/copperhearth/baseline/pkg/base_cli"
	"github.com/copperhearth/baseline/pkg/base_err"
	"github.com/copperhearth/baseline/pkg/base_io"
	"github.com/copperhearth/baseline/pkg/execute"
	"github.com/copperhearth/baseline/pkg/logger"
	"github.com/copperhearth/baseline/pkg/shared"
)

// RootCmd is the base command for baseline.
var RootCmd = &cobra.Command{
	Use:     "baseline",
	Short:   "Provision and maintain a home-lab Debian server",
	Version: shared.Version,
	Long: `baseline provisions a Debian home-lab host: packages, Docker, SSH
hardening, unattended security updates, CIFS share mounting, Cloudflare DNS
records for the compose stack, and reverse-proxy traffic analysis.`,
	RunE: base_cli.Wrap(func(rc *base_io.RuntimeContext, cmd *cobra.Command, args []string) error {
		return cmd.Help()
	}),
}

func init() {
	RootCmd.PersistentFlags().BoolVar(&execute.DefaultDryRun, "dry-run", false,
		"log system commands instead of executing them")
}

// RegisterCommands adds all subcommands to the root command.
func RegisterCommands() {
	for _, subCmd := range []*cobra.Command{
		setup.SetupCmd,
		secure.SecureCmd,
		mount.MountCmd,
		dns.DNSCmd,
		analyze.AnalyzeCmd,
	} {
		RootCmd.AddCommand(subCmd)
	}
}

// Execute runs the CLI and maps expected user errors to a clean exit.
func Execute() {
	defer shared.SafeSync()

	RegisterCommands()

	if err := RootCmd.Execute(); err != nil {
		if base_err.IsExpectedUserError(err) {
			logger.L().Warn("Command completed with user error", zap.Error(err))
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		base_err.ExitWithError("command failed", err)
	}
}
