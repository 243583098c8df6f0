// cmd/setup/user.go

package setup

import (
	"github.com/spf13/cobra"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/copperhearth/baseline/pkg/base_cli"
	"github.com/copperhearth/baseline/pkg/base_io"
	"github.com/copperhearth/baseline/pkg/platform"
	"github.com/copperhearth/baseline/pkg/users"
)

var userCmd = &cobra.Command{
	Use:   "user [username]",
	Short: "Ensure the non-root user exists with sudo and docker access",
	Args:  cobra.MaximumNArgs(1),
	RunE: base_cli.Wrap(func(rc *base_io.RuntimeContext, cmd *cobra.Command, args []string) error {
		if err := base_cli.RequireRoot(); err != nil {
			return err
		}
		username := users.DetectNonRoot(rc)
		if len(args) == 1 {
			username = args[0]
		}
		return setupUser(rc, username)
	}),
}

func setupUser(rc *base_io.RuntimeContext, username string) error {
	logger := otelzap.Ctx(rc.Ctx)

	if username == "root" {
		logger.Info("No non-root user to configure")
		return nil
	}

	if err := users.Ensure(rc, username); err != nil {
		return err
	}
	if err := users.EnsureSudoers(rc, username); err != nil {
		return err
	}

	if platform.IsInstalled(rc.Ctx, "docker-ce") || platform.IsInstalled(rc.Ctx, "docker.io") {
		if err := users.AddToGroup(rc, username, "docker"); err != nil {
			logger.Warn("Could not add user to docker group",
				zap.String("user", username), zap.Error(err))
		}
	}

	logger.Info("User configured", zap.String("user", username))
	return nil
}
