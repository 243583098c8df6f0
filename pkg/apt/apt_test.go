// pkg/apt/apt_test.go

package apt

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/copperhearth/baseline/pkg/base_io"
)

func testRC() *base_io.RuntimeContext {
	return &base_io.RuntimeContext{Ctx: context.Background()}
}

func TestPolicyCandidate(t *testing.T) {
	out := `docker-ce:
  Installed: (none)
  Candidate: 5:28.1.1-1~debian.12~bookworm
  Version table:
`
	assert.Equal(t, "5:28.1.1-1~debian.12~bookworm", policyCandidate(out))
}

func TestPolicyCandidateNone(t *testing.T) {
	out := "docker-ce:\n  Installed: (none)\n  Candidate: (none)\n"
	assert.Equal(t, "(none)", policyCandidate(out))
}

func TestPolicyCandidateMissingLine(t *testing.T) {
	assert.Equal(t, "", policyCandidate("N: Unable to locate package docker-ce\n"))
}

func TestPolicyCandidateWindowsLineEndings(t *testing.T) {
	out := "docker-ce:\r\n  Candidate: 1.2.3\r\n"
	assert.Equal(t, "1.2.3", policyCandidate(out))
}

func TestDearmorPassesThroughBinaryKey(t *testing.T) {
	// Binary keyrings (no armor header) must come back untouched.
	binary := []byte{0x99, 0x01, 0x0d, 0x04}
	out, err := dearmor(testRC(), binary)
	require.NoError(t, err)
	assert.Equal(t, binary, out)
}

func TestDearmorConvertsArmoredKey(t *testing.T) {
	if _, err := exec.LookPath("gpg"); err != nil {
		t.Skip("gpg not installed")
	}

	armored := []byte(`-----BEGIN PGP PUBLIC KEY BLOCK-----

mQENBFit2ioBCADhWpKkUO4XqPSo0LeMJAYQRA6PlTYo32tls+ndjQg0yK4gcYFo
=XXXX
-----END PGP PUBLIC KEY BLOCK-----
`)
	out, err := dearmor(testRC(), armored)
	if err != nil {
		// gpg rejects the truncated sample key; the point is that the
		// armored branch ran instead of passing the input through.
		assert.NotEqual(t, armored, out)
		return
	}
	assert.NotContains(t, string(out), "BEGIN PGP PUBLIC KEY BLOCK")
}

func TestAddRepoWritesEntry(t *testing.T) {
	listPath := filepath.Join(t.TempDir(), "docker.list")
	repoLine := "deb [arch=amd64] https://download.docker.com/linux/debian bookworm stable"

	require.NoError(t, AddRepo(testRC(), listPath, repoLine))

	data, err := os.ReadFile(listPath)
	require.NoError(t, err)
	assert.Equal(t, repoLine+"\n", string(data))
}

func TestAddRepoIdempotent(t *testing.T) {
	listPath := filepath.Join(t.TempDir(), "docker.list")
	repoLine := "deb [arch=amd64] https://download.docker.com/linux/debian bookworm stable"

	require.NoError(t, AddRepo(testRC(), listPath, repoLine))
	require.NoError(t, AddRepo(testRC(), listPath, repoLine))

	data, err := os.ReadFile(listPath)
	require.NoError(t, err)
	assert.Equal(t, repoLine+"\n", string(data))
}

func TestAddRepoReplacesStaleEntry(t *testing.T) {
	listPath := filepath.Join(t.TempDir(), "docker.list")
	require.NoError(t, os.WriteFile(listPath, []byte("deb https://old.example.com stable\n"), 0o644))

	repoLine := "deb [arch=amd64] https://download.docker.com/linux/debian bookworm stable"
	require.NoError(t, AddRepo(testRC(), listPath, repoLine))

	data, err := os.ReadFile(listPath)
	require.NoError(t, err)
	assert.Equal(t, repoLine+"\n", string(data))
}
