// pkg/users/users.go

// Package users handles the non-root operator account: detection, creation,
// sudoers and group membership.
package users

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/copperhearth/baseline/pkg/base_io"
	"github.com/copperhearth/baseline/pkg/execute"
	"github.com/copperhearth/baseline/pkg/interaction"
)

const passwdPath = "/etc/passwd"

// DetectNonRoot determines which account should own mounts, SSH access and
// group memberships. Order: SUDO_USER, LOGNAME, interactive prompt, then the
// first /etc/passwd entry with a /home directory.
func DetectNonRoot(rc *base_io.RuntimeContext) string {
	logger := otelzap.Ctx(rc.Ctx)

	if os.Geteuid() != 0 {
		if u, err := user.Current(); err == nil {
			return u.Username
		}
	}

	if sudoUser := os.Getenv("SUDO_USER"); sudoUser != "" && sudoUser != "root" {
		return sudoUser
	}
	if logname := os.Getenv("LOGNAME"); logname != "" && logname != "root" {
		return logname
	}

	logger.Info("Running as root with no originating user; prompting")
	input := interaction.PromptInput("Name of the non-root user", "")
	if input != "" && input != "root" {
		return input
	}

	logger.Info("No valid username given, scanning /etc/passwd for a home-directory user")
	if name := firstHomeUser(passwdPath); name != "" {
		logger.Info("Using detected user", zap.String("user", name))
		return name
	}

	logger.Warn("No candidate user found, defaulting to 'standard'")
	return "standard"
}

func firstHomeUser(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		parts := strings.Split(scanner.Text(), ":")
		if len(parts) < 6 {
			continue
		}
		name, home := parts[0], parts[5]
		if name == "root" || name == "nobody" || name == "systemd" {
			continue
		}
		if strings.HasPrefix(home, "/home/") {
			return name
		}
	}
	return ""
}

// Exists reports whether the account is known to the system.
func Exists(username string) bool {
	_, err := user.Lookup(username)
	return err == nil
}

// Ensure creates the account with a home directory and bash shell when it
// does not exist yet.
func Ensure(rc *base_io.RuntimeContext, username string) error {
	logger := otelzap.Ctx(rc.Ctx)
	if Exists(username) {
		logger.Info("User already exists, skipping", zap.String("user", username))
		return nil
	}
	logger.Info("Creating user", zap.String("user", username))
	if err := execute.RunSimple(rc.Ctx, "useradd", "-m", "-s", "/bin/bash", username); err != nil {
		return fmt.Errorf("useradd %s: %w", username, err)
	}
	return nil
}

// EnsureSudoers drops a sudoers.d file for the user (0440), the same way the
// manual bootstrap does it.
func EnsureSudoers(rc *base_io.RuntimeContext, username string) error {
	logger := otelzap.Ctx(rc.Ctx)
	path := filepath.Join("/etc/sudoers.d", username)

	if _, err := os.Stat(path); err == nil {
		logger.Info("Sudoers entry already present, skipping", zap.String("user", username))
		return nil
	}

	entry := fmt.Sprintf("%s ALL=(ALL) ALL\n", username)
	if err := os.WriteFile(path, []byte(entry), 0o440); err != nil {
		return fmt.Errorf("write sudoers file %s: %w", path, err)
	}
	logger.Info("User added to sudoers", zap.String("user", username), zap.String("path", path))
	return nil
}

// InGroup reports whether the user is currently a member of the group.
func InGroup(ctx context.Context, username, group string) bool {
	out, err := execute.Capture(ctx, "id", "-nG", username)
	if err != nil {
		return false
	}
	for _, g := range strings.Fields(out) {
		if g == group {
			return true
		}
	}
	return false
}

// AddToGroup adds the user to a supplementary group via usermod, rewriting
// /etc/group directly when usermod is unavailable (minimal containers).
func AddToGroup(rc *base_io.RuntimeContext, username, group string) error {
	logger := otelzap.Ctx(rc.Ctx)

	if InGroup(rc.Ctx, username, group) {
		logger.Info("User already in group, skipping",
			zap.String("user", username), zap.String("group", group))
		return nil
	}

	if execute.Exists("usermod") {
		if err := execute.RunSimple(rc.Ctx, "usermod", "-aG", group, username); err != nil {
			return fmt.Errorf("usermod -aG %s %s: %w", group, username, err)
		}
		logger.Info("User added to group", zap.String("user", username), zap.String("group", group))
		return nil
	}

	logger.Warn("usermod unavailable, editing /etc/group directly")
	return appendToGroupFile("/etc/group", username, group)
}

func appendToGroupFile(path, username, group string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	re := regexp.MustCompile(`(?m)^(` + regexp.QuoteMeta(group) + `:[^:]*:[^:]*:)(.*)$`)
	loc := re.FindSubmatchIndex(content)
	if loc == nil {
		return fmt.Errorf("group %s not found in %s", group, path)
	}

	members := string(content[loc[4]:loc[5]])
	for _, m := range strings.Split(members, ",") {
		if m == username {
			return nil
		}
	}
	if members == "" {
		members = username
	} else {
		members += "," + username
	}

	updated := append([]byte{}, content[:loc[4]]...)
	updated = append(updated, []byte(members)...)
	updated = append(updated, content[loc[5]:]...)
	return os.WriteFile(path, updated, 0o644)
}

// HomeDir resolves the account's home directory from the passwd database.
func HomeDir(ctx context.Context, username string) (string, error) {
	if u, err := user.Lookup(username); err == nil {
		return u.HomeDir, nil
	}
	out, err := execute.Capture(ctx, "getent", "passwd", username)
	if err != nil {
		return "", fmt.Errorf("getent passwd %s: %w", username, err)
	}
	parts := strings.Split(out, ":")
	if len(parts) < 6 {
		return "", fmt.Errorf("malformed passwd entry for %s", username)
	}
	return parts[5], nil
}

// Chown sets owner and group of a path to the user's primary uid/gid.
func Chown(ctx context.Context, path, username string) error {
	u, err := user.Lookup(username)
	if err != nil {
		return fmt.Errorf("lookup %s: %w", username, err)
	}
	uid, err := strconv.Atoi(u.Uid)
	if err != nil {
		return err
	}
	gid, err := strconv.Atoi(u.Gid)
	if err != nil {
		return err
	}
	return os.Chown(path, uid, gid)
}
