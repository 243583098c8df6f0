// pkg/apt/nvm.go

package apt

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/copperhearth/baseline/pkg/base_io"
	"github.com/copperhearth/baseline/pkg/execute"
	"github.com/copperhearth/baseline/pkg/httpclient"
	"github.com/copperhearth/baseline/pkg/users"
)

const nvmInstallerURL = "https://raw.githubusercontent.com/nvm-sh/nvm/master/install.sh"

const nvmBashrcSnippet = `
# NVM setup
export NVM_DIR="$HOME/.nvm"
[ -s "$NVM_DIR/nvm.sh" ] && \. "$NVM_DIR/nvm.sh"
[ -s "$NVM_DIR/bash_completion" ] && \. "$NVM_DIR/bash_completion"
`

// InstallNVM installs the Node Version Manager for the target user and for
// root, wires both .bashrc files, and installs the current Node release for
// the target user. The installer script is fetched once and run locally
// instead of piping curl into bash.
func InstallNVM(rc *base_io.RuntimeContext, username string) error {
	logger := otelzap.Ctx(rc.Ctx)
	logger.Info("Installing NVM", zap.String("user", username))

	script, err := httpclient.Fetch(rc.Ctx, nvmInstallerURL)
	if err != nil {
		return fmt.Errorf("fetch nvm installer: %w", err)
	}

	scriptPath := filepath.Join(os.TempDir(), "nvm-install.sh")
	if err := os.WriteFile(scriptPath, script, 0o755); err != nil {
		return fmt.Errorf("write nvm installer: %w", err)
	}
	defer os.Remove(scriptPath)

	if username != "root" {
		home, err := users.HomeDir(rc.Ctx, username)
		if err != nil {
			return fmt.Errorf("resolve home for %s: %w", username, err)
		}
		if err := installNVMFor(rc, username, home, scriptPath); err != nil {
			return err
		}

		// Install the current Node release under the user's NVM.
		nodeCmd := fmt.Sprintf(`export NVM_DIR="%s/.nvm" && [ -s "$NVM_DIR/nvm.sh" ] && . "$NVM_DIR/nvm.sh" && nvm install node && nvm use node`, home)
		if _, err := execute.Run(rc.Ctx, execute.Options{
			Command: "sudo",
			Args:    []string{"-H", "-u", username, "bash", "-c", nodeCmd},
			Timeout: 10 * time.Minute,
		}); err != nil {
			logger.Warn("Node install via NVM failed; install manually with 'nvm install node'", zap.Error(err))
		}
	}

	// Root gets NVM too; the script runs commands as root frequently enough
	// that a missing node in root's environment causes confusion.
	if err := installNVMFor(rc, "root", "/root", scriptPath); err != nil {
		return err
	}

	logger.Info("NVM installed; new shells will source it automatically")
	return nil
}

func installNVMFor(rc *base_io.RuntimeContext, username, home, scriptPath string) error {
	logger := otelzap.Ctx(rc.Ctx)

	if _, err := os.Stat(filepath.Join(home, ".nvm", "nvm.sh")); err == nil {
		logger.Info("NVM already installed, skipping", zap.String("user", username))
	} else {
		opts := execute.Options{
			Command: "bash",
			Args:    []string{scriptPath},
			Env:     []string{"HOME=" + home, "NVM_DIR=" + filepath.Join(home, ".nvm")},
			Timeout: 5 * time.Minute,
		}
		if username != "root" {
			opts.Command = "sudo"
			opts.Args = []string{"-H", "-u", username, "--preserve-env=HOME,NVM_DIR", "bash", scriptPath}
		}
		if _, err := execute.Run(rc.Ctx, opts); err != nil {
			return fmt.Errorf("run nvm installer for %s: %w", username, err)
		}
	}

	return ensureBashrcSnippet(rc, username, home)
}

func ensureBashrcSnippet(rc *base_io.RuntimeContext, username, home string) error {
	logger := otelzap.Ctx(rc.Ctx)
	bashrc := filepath.Join(home, ".bashrc")

	content, err := os.ReadFile(bashrc)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("read %s: %w", bashrc, err)
	}
	if strings.Contains(string(content), "NVM_DIR") {
		logger.Debug("NVM already sourced in .bashrc", zap.String("user", username))
		return nil
	}

	f, err := os.OpenFile(bashrc, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", bashrc, err)
	}
	defer f.Close()
	if _, err := f.WriteString(nvmBashrcSnippet); err != nil {
		return fmt.Errorf("append to %s: %w", bashrc, err)
	}
	logger.Info("Added NVM setup to .bashrc", zap.String("user", username))

	if username != "root" {
		if err := users.Chown(rc.Ctx, bashrc, username); err != nil {
			logger.Warn("Could not restore .bashrc ownership", zap.Error(err))
		}
	}
	return nil
}
