// pkg/apt/docker.go

package apt

import (
	"fmt"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/copperhearth/baseline/pkg/base_io"
	"github.com/copperhearth/baseline/pkg/platform"
)

const (
	dockerKeyURL   = "https://download.docker.com/linux/debian/gpg"
	dockerKeyring  = "/etc/apt/keyrings/docker.gpg"
	dockerListPath = "/etc/apt/sources.list.d/docker.list"
)

// DockerPackages is the Docker CE engine package set installed when the
// vendor repository is available.
var DockerPackages = []string{
	"containerd.io",
	"docker-buildx-plugin",
	"docker-ce",
	"docker-ce-cli",
	"docker-compose-plugin",
}

// SetupDockerRepo installs Docker's signing key and apt repository for the
// host's codename and architecture, then refreshes the index.
func SetupDockerRepo(rc *base_io.RuntimeContext) error {
	logger := otelzap.Ctx(rc.Ctx)
	logger.Info("Setting up Docker repository")

	if err := AddKeyring(rc, dockerKeyURL, dockerKeyring); err != nil {
		return err
	}

	rel, err := platform.ReadOSRelease()
	if err != nil {
		return fmt.Errorf("detect codename: %w", err)
	}
	if rel.VersionCodename == "" {
		return fmt.Errorf("no VERSION_CODENAME in os-release; cannot pick a Docker channel")
	}

	arch, err := platform.Architecture(rc.Ctx)
	if err != nil {
		return err
	}

	repoLine := fmt.Sprintf(
		"deb [arch=%s signed-by=%s] https://download.docker.com/linux/debian %s stable",
		arch, dockerKeyring, rel.VersionCodename,
	)
	if err := AddRepo(rc, dockerListPath, repoLine); err != nil {
		return err
	}

	return Update(rc)
}

// InstallDockerEngine installs the full Docker CE package set.
func InstallDockerEngine(rc *base_io.RuntimeContext) error {
	return Install(rc, DockerPackages...)
}

// InstallDockerFallback installs Debian's own docker.io packages when the
// vendor repository has no candidate for this release.
func InstallDockerFallback(rc *base_io.RuntimeContext) error {
	logger := otelzap.Ctx(rc.Ctx)
	logger.Info("Docker CE not available, installing docker.io fallback",
		zap.Strings("packages", []string{"docker.io", "docker-compose-plugin"}))
	return Install(rc, "docker.io", "docker-compose-plugin")
}
