// cmd/analyze/analyze.go

// Package analyze holds the log-analysis commands.
package analyze

import (
	"github.com/spf13/cobra"

	"github.com/copperhearth/baseline/pkg/base_cli"
	"github.com/copperhearth/baseline/pkg/base_io"
)

// AnalyzeCmd is the parent for analysis subcommands.
var AnalyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze reverse-proxy logs",
	RunE: base_cli.Wrap(func(rc *base_io.RuntimeContext, cmd *cobra.Command, args []string) error {
		return cmd.Help()
	}),
}

func init() {
	AnalyzeCmd.AddCommand(trafficCmd)
}
