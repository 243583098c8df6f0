// pkg/apt/vendors.go

package apt

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/copperhearth/baseline/pkg/base_io"
	"github.com/copperhearth/baseline/pkg/base_unix"
	"github.com/copperhearth/baseline/pkg/httpclient"
	"github.com/copperhearth/baseline/pkg/platform"
)

const (
	plexKeyURL   = "https://downloads.plex.tv/plex-keys/PlexSign.key"
	plexKeyring  = "/usr/share/keyrings/plex.gpg"
	plexListPath = "/etc/apt/sources.list.d/plexmediaserver.list"
	plexRepoLine = "deb [signed-by=/usr/share/keyrings/plex.gpg] https://downloads.plex.tv/repo/deb public main"

	onePasswordKeyURL   = "https://downloads.1password.com/linux/keys/1password.asc"
	onePasswordKeyring  = "/usr/share/keyrings/1password-archive-keyring.gpg"
	onePasswordListPath = "/etc/apt/sources.list.d/1password.list"
	onePasswordPolURL   = "https://downloads.1password.com/linux/debian/debsig/1password.pol"
	onePasswordPolPath  = "/etc/debsig/policies/AC2D62742012EA22/1password.pol"
	onePasswordSigPath  = "/usr/share/debsig/keyrings/AC2D62742012EA22/debsig.gpg"
)

// InstallPlex adds the Plex repository, installs plexmediaserver and enables
// the service.
func InstallPlex(rc *base_io.RuntimeContext) error {
	logger := otelzap.Ctx(rc.Ctx)

	if platform.IsInstalled(rc.Ctx, "plexmediaserver") {
		logger.Info("Plex Media Server already installed, skipping")
		return nil
	}

	logger.Info("Installing Plex Media Server")
	if err := AddKeyring(rc, plexKeyURL, plexKeyring); err != nil {
		return err
	}
	if err := AddRepo(rc, plexListPath, plexRepoLine); err != nil {
		return err
	}
	if err := Update(rc); err != nil {
		return err
	}
	if err := Install(rc, "plexmediaserver"); err != nil {
		return err
	}

	if err := base_unix.Enable(rc.Ctx, "plexmediaserver"); err != nil {
		return err
	}
	if err := base_unix.Start(rc.Ctx, "plexmediaserver"); err != nil {
		return err
	}
	logger.Info("Plex Media Server installed and running")
	return nil
}

// InstallOnePasswordCLI adds the 1Password repository including its
// debsig-verify policy, then installs the CLI.
func InstallOnePasswordCLI(rc *base_io.RuntimeContext) error {
	logger := otelzap.Ctx(rc.Ctx)
	logger.Info("Installing 1Password CLI")

	if err := Install(rc, "gnupg2", "apt-transport-https", "ca-certificates"); err != nil {
		return fmt.Errorf("install 1password prerequisites: %w", err)
	}

	if err := AddKeyring(rc, onePasswordKeyURL, onePasswordKeyring); err != nil {
		return err
	}

	arch, err := platform.Architecture(rc.Ctx)
	if err != nil {
		return err
	}
	repoLine := fmt.Sprintf(
		"deb [arch=%s signed-by=%s] https://downloads.1password.com/linux/debian/%s stable main",
		arch, onePasswordKeyring, arch,
	)
	if err := AddRepo(rc, onePasswordListPath, repoLine); err != nil {
		return err
	}

	// debsig policy so dpkg can verify the package signature
	if err := fetchToFile(rc, onePasswordPolURL, onePasswordPolPath, 0o644); err != nil {
		return fmt.Errorf("install debsig policy: %w", err)
	}
	if err := AddKeyring(rc, onePasswordKeyURL, onePasswordSigPath); err != nil {
		return fmt.Errorf("install debsig keyring: %w", err)
	}

	if err := Update(rc); err != nil {
		return err
	}
	if err := Install(rc, "1password-cli"); err != nil {
		return err
	}
	logger.Info("1Password CLI installation completed")
	return nil
}

func fetchToFile(rc *base_io.RuntimeContext, url, dest string, mode os.FileMode) error {
	if _, err := os.Stat(dest); err == nil {
		return nil
	}
	data, err := httpclient.Fetch(rc.Ctx, url)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(dest, data, mode); err != nil {
		return err
	}
	otelzap.Ctx(rc.Ctx).Debug("Fetched file", zap.String("url", url), zap.String("dest", dest))
	return nil
}
