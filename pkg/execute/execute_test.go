// pkg/execute/execute_test.go

package execute

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunCapturesOutput(t *testing.T) {
	out, err := Run(context.Background(), Options{
		Command: "echo",
		Args:    []string{"hello"},
		Capture: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "hello\n", out)
}

func TestRunFailureIncludesCommand(t *testing.T) {
	_, err := Run(context.Background(), Options{
		Command: "false",
		Capture: true,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `command "false" failed`)
}

func TestRunDryRun(t *testing.T) {
	out, err := Run(context.Background(), Options{
		Command: "false",
		DryRun:  true,
	})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestRunRetries(t *testing.T) {
	start := time.Now()
	_, err := Run(context.Background(), Options{
		Command: "false",
		Capture: true,
		Retries: 3,
		Delay:   10 * time.Millisecond,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "3 attempt(s)")
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestRunDefaultDryRun(t *testing.T) {
	DefaultDryRun = true
	defer func() { DefaultDryRun = false }()

	out, err := Run(context.Background(), Options{Command: "false"})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestRetryCommandSucceeds(t *testing.T) {
	err := RetryCommand(context.Background(), 2, time.Millisecond, "true")
	require.NoError(t, err)
}

func TestRetryCommandExhaustsAttempts(t *testing.T) {
	err := RetryCommand(context.Background(), 2, time.Millisecond, "false")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all 2 attempts failed")
}

func TestRunTimeout(t *testing.T) {
	_, err := Run(context.Background(), Options{
		Command: "sleep",
		Args:    []string{"5"},
		Capture: true,
		Timeout: 100 * time.Millisecond,
	})
	require.Error(t, err)
}

func TestCaptureTrims(t *testing.T) {
	out, err := Capture(context.Background(), "echo", "  padded  ")
	require.NoError(t, err)
	assert.Equal(t, "padded", out)
}

func TestExists(t *testing.T) {
	assert.True(t, Exists("sh"))
	assert.False(t, Exists("definitely-not-a-real-binary"))
}
