// pkg/platform/platform_test.go

package platform

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeOSRelease(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "os-release")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadOSReleaseDebian(t *testing.T) {
	path := writeOSRelease(t, `PRETTY_NAME="Debian GNU/Linux 12 (bookworm)"
NAME="Debian GNU/Linux"
VERSION_ID="12"
VERSION="12 (bookworm)"
VERSION_CODENAME=bookworm
ID=debian
HOME_URL="https://www.debian.org/"
`)

	rel, err := readOSRelease(path)
	require.NoError(t, err)

	assert.Equal(t, "debian", rel.ID)
	assert.Equal(t, "12", rel.VersionID)
	assert.Equal(t, "bookworm", rel.VersionCodename)
	assert.True(t, rel.IsDebian())

	ok, err := rel.AtLeast("11")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = rel.AtLeast("13")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestReadOSReleaseSkipsMalformedLines(t *testing.T) {
	path := writeOSRelease(t, "# comment\nnot a pair\nID=ubuntu\nVERSION_CODENAME=noble\n")

	rel, err := readOSRelease(path)
	require.NoError(t, err)
	assert.Equal(t, "ubuntu", rel.ID)
	assert.Equal(t, "noble", rel.VersionCodename)
	assert.False(t, rel.IsDebian())
}

func TestAtLeastWithoutVersionID(t *testing.T) {
	rel := &OSRelease{ID: "debian"}
	_, err := rel.AtLeast("11")
	assert.Error(t, err)
}
