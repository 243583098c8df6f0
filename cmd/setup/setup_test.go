// cmd/setup/setup_test.go

package setup

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/copperhearth/baseline/pkg/base_io"
)

func TestSetupCommandFlags(t *testing.T) {
	for _, name := range []string{"non-interactive", "packages", "all-packages", "user"} {
		assert.NotNil(t, SetupCmd.Flags().Lookup(name), "missing flag --%s", name)
	}
}

func TestSetupSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, sub := range SetupCmd.Commands() {
		names[sub.Name()] = true
	}
	for _, want := range []string{"packages", "docker", "user"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}

func TestResolveUserPrefersFlag(t *testing.T) {
	old := userFlag
	defer func() { userFlag = old }()

	userFlag = "alice"
	rc := &base_io.RuntimeContext{Ctx: context.Background()}
	require.Equal(t, "alice", resolveUser(rc))
}
