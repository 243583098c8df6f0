// cmd/root_test.go

package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootDryRunFlag(t *testing.T) {
	flag := RootCmd.PersistentFlags().Lookup("dry-run")
	require.NotNil(t, flag)
	assert.Equal(t, "false", flag.DefValue)
}

func TestRegisterCommands(t *testing.T) {
	RegisterCommands()

	names := make(map[string]bool)
	for _, sub := range RootCmd.Commands() {
		names[sub.Name()] = true
	}
	for _, want := range []string{"setup", "secure", "mount", "dns", "analyze"} {
		assert.True(t, names[want], "missing command %s", want)
	}
}
