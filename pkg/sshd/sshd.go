// pkg/sshd/sshd.go

// Package sshd hardens the OpenSSH server configuration and manages the
// operator's key material.
package sshd

import (
	"fmt"
	"os"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/copperhearth/baseline/pkg/base_io"
	"github.com/copperhearth/baseline/pkg/base_unix"
	"github.com/copperhearth/baseline/pkg/shared"
)

// RenderConfig produces the hardened sshd_config. Root keeps key-only access
// so a misconfigured operator account cannot lock the box.
func RenderConfig(allowUser string) string {
	return fmt.Sprintf(`Include /etc/ssh/sshd_config.d/*.conf
Port 22
Protocol 2
PermitRootLogin prohibit-password
PasswordAuthentication no
PubkeyAuthentication yes
MaxAuthTries 3
LoginGraceTime 30
X11Forwarding no
ClientAliveInterval 300
ClientAliveCountMax 2
AllowUsers %s root
`, allowUser)
}

// Harden backs up the live sshd_config once, writes the hardened
// configuration and restarts sshd.
func Harden(rc *base_io.RuntimeContext, username string) error {
	logger := otelzap.Ctx(rc.Ctx)
	logger.Info("Configuring SSH server", zap.String("allow_user", username))

	if err := backupOnce(rc, shared.SSHDConfig, shared.SSHDConfigBackup); err != nil {
		return err
	}

	if err := os.WriteFile(shared.SSHDConfig, []byte(RenderConfig(username)), 0o644); err != nil {
		return fmt.Errorf("write sshd_config: %w", err)
	}
	logger.Info("SSH configuration updated")

	if err := base_unix.Restart(rc.Ctx, "sshd"); err != nil {
		return fmt.Errorf("restart sshd: %w", err)
	}
	return nil
}

func backupOnce(rc *base_io.RuntimeContext, src, dst string) error {
	logger := otelzap.Ctx(rc.Ctx)

	if _, err := os.Stat(dst); err == nil {
		logger.Debug("sshd_config backup already exists, keeping it", zap.String("path", dst))
		return nil
	}

	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("read %s: %w", src, err)
	}
	if err := os.WriteFile(dst, data, 0o600); err != nil {
		return fmt.Errorf("write backup %s: %w", dst, err)
	}
	logger.Info("Original sshd_config backed up", zap.String("path", dst))
	return nil
}
