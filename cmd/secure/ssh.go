// cmd/secure/ssh.go

package secure

import (
	"github.com/spf13/cobra"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/copperhearth/baseline/pkg/base_cli"
	"github.com/copperhearth/baseline/pkg/base_io"
	"github.com/copperhearth/baseline/pkg/sshd"
	"github.com/copperhearth/baseline/pkg/users"
)

var (
	sshUser       string
	sshPubKey     string
	sshSkipKeygen bool
)

var sshCmd = &cobra.Command{
	Use:   "ssh",
	Short: "Harden sshd and set up key-based auth",
	Long: `Backs up and rewrites /etc/ssh/sshd_config with a hardened policy
(key-only auth, limited users, reduced auth attempts), restarts sshd, and
prepares the user's authorized_keys.`,
	RunE: base_cli.Wrap(func(rc *base_io.RuntimeContext, cmd *cobra.Command, args []string) error {
		logger := otelzap.Ctx(rc.Ctx)

		if err := base_cli.RequireRoot(); err != nil {
			return err
		}

		username := sshUser
		if username == "" {
			username = users.DetectNonRoot(rc)
		}
		logger.Info("Hardening SSH", zap.String("allow_user", username))

		if err := sshd.Harden(rc, username); err != nil {
			return err
		}
		if sshSkipKeygen {
			return nil
		}
		return sshd.SetupKeys(rc, username, sshPubKey, sshPubKey == "")
	}),
}

func init() {
	sshCmd.Flags().StringVar(&sshUser, "user", "", "user allowed to log in (default: detected non-root user)")
	sshCmd.Flags().StringVar(&sshPubKey, "authorized-key", "", "public key to append to authorized_keys")
	sshCmd.Flags().BoolVar(&sshSkipKeygen, "no-keys", false, "skip key generation and authorized_keys setup")
}
