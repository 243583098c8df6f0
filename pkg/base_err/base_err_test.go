// pkg/base_err/base_err_test.go

package base_err

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpectedErrorRoundTrip(t *testing.T) {
	cause := errors.New("shares file is empty")
	err := NewExpectedError(cause)

	assert.True(t, IsExpectedUserError(err))
	assert.Equal(t, "shares file is empty", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestExpectedErrorSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("mount shares: %w", NewExpectedError(errors.New("no usable shares")))
	assert.True(t, IsExpectedUserError(err))
}

func TestIsExpectedUserErrorPlainError(t *testing.T) {
	assert.False(t, IsExpectedUserError(errors.New("disk on fire")))
	assert.False(t, IsExpectedUserError(nil))
}

func TestNewExpectedErrorNil(t *testing.T) {
	assert.Nil(t, NewExpectedError(nil))
}

func TestExtractSummaryPicksErrorLines(t *testing.T) {
	output := `Reading package lists...
Building dependency tree...
E: Unable to locate package notreal
Some other noise
Failed to fetch http://deb.debian.org/...`

	summary := ExtractSummary(output, 3)
	assert.Contains(t, summary, "Unable to locate package notreal")
	assert.Contains(t, summary, "Failed to fetch")
}

func TestExtractSummaryCapsCandidates(t *testing.T) {
	output := "error one\nerror two\nerror three"
	assert.Equal(t, "error one - error two", ExtractSummary(output, 2))
}

func TestExtractSummaryFallsBackToFirstLine(t *testing.T) {
	assert.Equal(t, "all fine here", ExtractSummary("all fine here\nmore output", 3))
}

func TestExtractSummaryEmpty(t *testing.T) {
	assert.Equal(t, "No output provided.", ExtractSummary("  \n ", 3))
}
