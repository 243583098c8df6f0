// cmd/mount/discover.go

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
	"github.com/copperhearth/baseline/pkg/interaction"
	"github.com/copperhearth/baseline/pkg/smb"
)

var (
	discoverSubnet   string
	discoverUser     string
	discoverPassword string
)

var discoverCmd = &cobra.Command{
	Use:   "discover [host...]",
	Short: "Enumerate SMB shares on hosts or a whole subnet",
	Long: `Lists the shares each host exports via smbclient, falling back
through SMB3/SMB2/NT1 dialects. With --subnet, hosts with port 445 open are
found with nmap first.`,
	RunE: base_cli.WrapExtended(10*time.Minute, func(rc *base_io.RuntimeContext, cmd *cobra.Command, args []string) error {
		logger := otelzap.Ctx(rc.Ctx)

		if err := base_cli.RequireRoot(); err != nil {
			return err
		}
		for _, tool := range []string{"smbclient", "nmap"} {
			if err := apt.InstallIfMissing(rc, tool); err != nil {
				return err
			}
		}

		hosts := args
		if discoverSubnet != "" {
			found, err := smb.ScanSubnet(rc, discoverSubnet)
			if err != nil {
				return err
			}
			hosts = append(hosts, found...)
		}
		if len(hosts) == 0 {
			return base_err.NewExpectedError(fmt.Errorf("no hosts given; pass hosts or --subnet"))
		}

		password := discoverPassword
		if discoverUser != "" {
			var err error
			password, err = interaction.PromptIfMissing(cmd, "password",
				fmt.Sprintf("Password for %s", discoverUser), true)
			if err != nil {
				return err
			}
		}

		for _, host := range hosts {
			shares, err := smb.ListShares(rc, host, discoverUser, password)
			if err != nil {
				logger.Warn("Could not enumerate shares", zap.String("host", host), zap.Error(err))
				continue
			}
			fmt.Printf("\n%s:\n", host)
			if len(shares) == 0 {
				fmt.Println("  (no disk shares)")
				continue
			}
			for _, share := range shares {
				if share.Comment != "" {
					fmt.Printf("  %-20s %s\n", share.Name, share.Comment)
				} else {
					fmt.Printf("  %s\n", share.Name)
				}
			}
		}
		return nil
	}),
}

func init() {
	discoverCmd.Flags().StringVar(&discoverSubnet, "subnet", "", "CIDR to scan for SMB hosts (e.g. 192.168.1.0/24)")
	discoverCmd.Flags().StringVar(&discoverUser, "user", "", "username for share enumeration (default: anonymous)")
	discoverCmd.Flags().StringVar(&discoverPassword, "password", "", "password for share enumeration")
}
