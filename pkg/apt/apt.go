// pkg/apt/apt.go

// Package apt manages Debian package state and the third-party vendor
// repositories (Docker, Plex, 1Password) the base setup knows how to add.
package apt

import (
	"fmt"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/copperhearth/baseline/pkg/base_io"
	"github.com/copperhearth/baseline/pkg/execute"
	"github.com/copperhearth/baseline/pkg/platform"
)

// Update refreshes the package index.
func Update(rc *base_io.RuntimeContext) error {
	if err := execute.RunSimple(rc.Ctx, "apt-get", "update"); err != nil {
		return fmt.Errorf("apt-get update: %w", err)
	}
	return nil
}

// Install installs packages non-interactively.
func Install(rc *base_io.RuntimeContext, pkgs ...string) error {
	if len(pkgs) == 0 {
		return nil
	}
	args := append([]string{"install", "-y"}, pkgs...)
	if _, err := execute.Run(rc.Ctx, execute.Options{
		Command: "apt-get",
		Args:    args,
		Env:     []string{"DEBIAN_FRONTEND=noninteractive"},
		Timeout: 10 * time.Minute,
	}); err != nil {
		return fmt.Errorf("apt-get install %v: %w", pkgs, err)
	}
	return nil
}

// InstallIfMissing installs a package unless dpkg already reports it
// installed.
func InstallIfMissing(rc *base_io.RuntimeContext, pkg string) error {
	logger := otelzap.Ctx(rc.Ctx)
	if platform.IsInstalled(rc.Ctx, pkg) {
		logger.Info("Package already installed, skipping", zap.String("package", pkg))
		return nil
	}
	logger.Info("Installing package", zap.String("package", pkg))
	return Install(rc, pkg)
}

// CandidateAvailable reports whether apt has an install candidate for the
// package, i.e. some configured repository carries it.
func CandidateAvailable(rc *base_io.RuntimeContext, pkg string) bool {
	out, err := execute.Capture(rc.Ctx, "apt-cache", "policy", pkg)
	if err != nil {
		return false
	}
	candidate := policyCandidate(out)
	return candidate != "" && candidate != "(none)"
}

// policyCandidate extracts the Candidate version from apt-cache policy
// output, or "" when the line is absent.
func policyCandidate(out string) string {
	for _, line := range splitLines(out) {
		if trimmed, found := cutPrefixTrimmed(line, "Candidate:"); found {
			return trimmed
		}
	}
	return ""
}
