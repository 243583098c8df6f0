// pkg/base_unix/systemctl.go

// Package base_unix wraps the systemd surface baseline touches: unit state
// queries, lifecycle verbs and unit-file installation.
package base_unix

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"go.uber.org/zap"

	"github.com/copperhearth/baseline/pkg/execute"
)

// systemctl exit codes, per systemctl(1). is-active and friends use 3/4 for
// inactive/unknown rather than generic failure.
const (
	ExitSuccess  = 0
	ExitInactive = 3
	ExitUnknown  = 4
)

// IsActive reports whether a unit is currently active.
func IsActive(ctx context.Context, unit string) bool {
	cmd := exec.CommandContext(ctx, "systemctl", "is-active", "--quiet", unit)
	return cmd.Run() == nil
}

// IsEnabled reports whether a unit is enabled at boot.
func IsEnabled(ctx context.Context, unit string) bool {
	out, err := execute.Capture(ctx, "systemctl", "is-enabled", unit)
	return err == nil && strings.TrimSpace(out) == "enabled"
}

// Enable marks a unit for start at boot.
func Enable(ctx context.Context, unit string) error {
	if err := execute.RunSimple(ctx, "systemctl", "enable", unit); err != nil {
		return fmt.Errorf("enable %s: %w", unit, err)
	}
	return nil
}

// Start starts a unit now.
func Start(ctx context.Context, unit string) error {
	if err := execute.RunSimple(ctx, "systemctl", "start", unit); err != nil {
		return fmt.Errorf("start %s: %w", unit, err)
	}
	return nil
}

// Restart restarts a unit, starting it if stopped.
func Restart(ctx context.Context, unit string) error {
	if err := execute.RunSimple(ctx, "systemctl", "restart", unit); err != nil {
		return fmt.Errorf("restart %s: %w", unit, err)
	}
	return nil
}

// DaemonReload reloads systemd unit definitions.
func DaemonReload(ctx context.Context) error {
	if err := execute.RunSimple(ctx, "systemctl", "daemon-reload"); err != nil {
		return fmt.Errorf("daemon-reload: %w", err)
	}
	return nil
}

// InstallUnit writes a unit file (0644), reloads systemd, then enables and
// starts the unit. Writing an identical file is a no-op apart from the
// reload.
func InstallUnit(ctx context.Context, path, content string) error {
	log := zap.L()

	if existing, err := os.ReadFile(path); err == nil && string(existing) == content {
		log.Debug("Unit file already up to date", zap.String("path", path))
	} else {
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return fmt.Errorf("write unit %s: %w", path, err)
		}
		log.Info("Unit file installed", zap.String("path", path))
	}

	if err := DaemonReload(ctx); err != nil {
		return err
	}

	unit := path[strings.LastIndex(path, "/")+1:]
	if err := Enable(ctx, unit); err != nil {
		return err
	}
	return Start(ctx, unit)
}
