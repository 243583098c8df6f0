// pkg/sshd/sshd_test.go

package sshd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderConfig(t *testing.T) {
	cfg := RenderConfig("alice")

	assert.True(t, strings.HasPrefix(cfg, "Include /etc/ssh/sshd_config.d/*.conf\n"))
	assert.Contains(t, cfg, "PasswordAuthentication no\n")
	assert.Contains(t, cfg, "PubkeyAuthentication yes\n")
	assert.Contains(t, cfg, "PermitRootLogin prohibit-password\n")
	assert.Contains(t, cfg, "MaxAuthTries 3\n")
	assert.Contains(t, cfg, "AllowUsers alice root\n")
}

func TestRenderConfigDifferentUsers(t *testing.T) {
	a := RenderConfig("alice")
	b := RenderConfig("bob")
	assert.NotEqual(t, a, b)
	assert.Contains(t, b, "AllowUsers bob root")
}
