// pkg/platform/platform.go

// Package platform answers "what host is this" questions: distro identity,
// codename, architecture and dpkg package state.
package platform

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	goversion "github.com/hashicorp/go-version"

	"github.com/copperhearth/baseline/pkg/execute"
)

const osReleasePath = "/etc/os-release"

// OSRelease is the subset of /etc/os-release fields baseline cares about.
type OSRelease struct {
	ID              string // "debian"
	VersionID       string // "12"
	VersionCodename string // "bookworm"
	PrettyName      string
}

// ReadOSRelease parses /etc/os-release.
func ReadOSRelease() (*OSRelease, error) {
	return readOSRelease(osReleasePath)
}

func readOSRelease(path string) (*OSRelease, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	rel := &OSRelease{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		value = strings.Trim(value, `"`)
		switch key {
		case "ID":
			rel.ID = value
		case "VERSION_ID":
			rel.VersionID = value
		case "VERSION_CODENAME":
			rel.VersionCodename = value
		case "PRETTY_NAME":
			rel.PrettyName = value
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return rel, nil
}

// IsDebian reports whether the host identifies as Debian.
func (r *OSRelease) IsDebian() bool {
	return r.ID == "debian"
}

// AtLeast reports whether the release version is >= min (e.g. "11").
func (r *OSRelease) AtLeast(min string) (bool, error) {
	if r.VersionID == "" {
		return false, fmt.Errorf("no VERSION_ID in os-release")
	}
	have, err := goversion.NewVersion(r.VersionID)
	if err != nil {
		return false, fmt.Errorf("parse version %q: %w", r.VersionID, err)
	}
	want, err := goversion.NewVersion(min)
	if err != nil {
		return false, fmt.Errorf("parse minimum %q: %w", min, err)
	}
	return have.GreaterThanOrEqual(want), nil
}

// Architecture returns the dpkg architecture string (amd64, arm64, ...).
func Architecture(ctx context.Context) (string, error) {
	out, err := execute.Capture(ctx, "dpkg", "--print-architecture")
	if err != nil {
		return "", fmt.Errorf("dpkg --print-architecture: %w", err)
	}
	return out, nil
}

// IsInstalled checks dpkg for an "ii" (properly installed) entry.
func IsInstalled(ctx context.Context, pkg string) bool {
	out, err := execute.Capture(ctx, "dpkg-query", "-W", "-f=${db:Status-Abbrev}", pkg)
	if err != nil {
		return false
	}
	return strings.HasPrefix(strings.TrimSpace(out), "ii")
}
