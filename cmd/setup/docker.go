// cmd/setup/docker.go

package setup

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/copperhearth/baseline/pkg/apt"
	"github.com/copperhearth/baseline/pkg/base_cli"
	"github.com/copperhearth/baseline/pkg/base_io"
	"github.com/copperhearth/baseline/pkg/base_unix"
	"github.com/copperhearth/baseline/pkg/interaction"
	"github.com/copperhearth/baseline/pkg/users"
)

var dockerCmd = &cobra.Command{
	Use:   "docker",
	Short: "Install the Docker engine from the upstream repository",
	RunE: base_cli.WrapExtended(30*time.Minute, func(rc *base_io.RuntimeContext, cmd *cobra.Command, args []string) error {
		if err := base_cli.RequireRoot(); err != nil {
			return err
		}
		return installDocker(rc, users.DetectNonRoot(rc))
	}),
}

// installDocker prefers the upstream docker-ce packages and falls back to
// Debian's docker.io when the upstream repo has no candidate.
func installDocker(rc *base_io.RuntimeContext, username string) error {
	logger := otelzap.Ctx(rc.Ctx)

	if err := apt.SetupDockerRepo(rc); err != nil {
		logger.Warn("Docker repository setup failed, falling back to docker.io", zap.Error(err))
		return installDockerFallback(rc, username)
	}
	if !apt.CandidateAvailable(rc, "docker-ce") {
		logger.Warn("No docker-ce candidate for this release, falling back to docker.io")
		return installDockerFallback(rc, username)
	}

	if err := apt.InstallDockerEngine(rc); err != nil {
		return err
	}
	return finishDocker(rc, username)
}

func installDockerFallback(rc *base_io.RuntimeContext, username string) error {
	logger := otelzap.Ctx(rc.Ctx)

	if !nonInteractiveFlag {
		if !interaction.PromptYesNo("Install docker.io and docker-compose-plugin?", true) {
			logger.Info("Skipping Docker fallback installation")
			return nil
		}
	}
	if err := apt.InstallDockerFallback(rc); err != nil {
		return err
	}
	return finishDocker(rc, username)
}

func finishDocker(rc *base_io.RuntimeContext, username string) error {
	logger := otelzap.Ctx(rc.Ctx)

	if err := base_unix.Enable(rc.Ctx, "docker"); err != nil {
		return err
	}
	if err := base_unix.Start(rc.Ctx, "docker"); err != nil {
		return err
	}

	if username != "root" {
		if err := users.AddToGroup(rc, username, "docker"); err != nil {
			logger.Warn("Could not add user to docker group",
				zap.String("user", username), zap.Error(err))
		} else {
			logger.Info("Added user to docker group; a re-login is needed for it to apply",
				zap.String("user", username))
		}
	}
	return nil
}
