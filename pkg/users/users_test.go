// pkg/users/users_test.go

package users

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirstHomeUser(t *testing.T) {
	tests := []struct {
		name   string
		passwd string
		want   string
	}{
		{
			name: "skips system accounts",
			passwd: "root:x:0:0:root:/root:/bin/bash\n" +
				"daemon:x:1:1:daemon:/usr/sbin:/usr/sbin/nologin\n" +
				"nobody:x:65534:65534:nobody:/nonexistent:/usr/sbin/nologin\n" +
				"alice:x:1000:1000:Alice:/home/alice:/bin/bash\n" +
				"bob:x:1001:1001:Bob:/home/bob:/bin/bash\n",
			want: "alice",
		},
		{
			name:   "no home users",
			passwd: "root:x:0:0:root:/root:/bin/bash\n",
			want:   "",
		},
		{
			name:   "malformed lines ignored",
			passwd: "garbage\nalice:x:1000:1000:Alice:/home/alice:/bin/bash\n",
			want:   "alice",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "passwd")
			require.NoError(t, os.WriteFile(path, []byte(tt.passwd), 0o644))
			assert.Equal(t, tt.want, firstHomeUser(path))
		})
	}
}

func TestAppendToGroupFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "group")
	require.NoError(t, os.WriteFile(path, []byte("sudo:x:27:alice\ndocker:x:998:\n"), 0o644))

	require.NoError(t, appendToGroupFile(path, "bob", "sudo"))
	require.NoError(t, appendToGroupFile(path, "alice", "docker"))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "sudo:x:27:alice,bob\ndocker:x:998:alice\n", string(content))

	// adding an existing member is a no-op
	require.NoError(t, appendToGroupFile(path, "bob", "sudo"))
	content, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "sudo:x:27:alice,bob\ndocker:x:998:alice\n", string(content))
}

func TestAppendToGroupFileMissingGroup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "group")
	require.NoError(t, os.WriteFile(path, []byte("sudo:x:27:\n"), 0o644))
	assert.Error(t, appendToGroupFile(path, "bob", "docker"))
}
