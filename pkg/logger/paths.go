/* pkg/logger/paths.go */

package logger

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/copperhearth/baseline/pkg/shared"
	"go.uber.org/zap/zapcore"
)

// PlatformLogPaths returns candidate log paths in order of preference:
// the system location (best when run via sudo), the user-local XDG state
// directory, the working directory for development, and finally a temp dir.
func PlatformLogPaths() []string {
	return []string{
		shared.LogFile,
		xdgStatePath(shared.AppID, "baseline.log"),
		shared.LogFilePWD(),
		filepath.Join(os.TempDir(), shared.AppID, "baseline.log"),
	}
}

// FindWritableLogPath probes the candidates and returns the first one whose
// directory can be created and whose file can be opened for append.
func FindWritableLogPath() (string, error) {
	for _, path := range PlatformLogPaths() {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			continue
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			continue
		}
		f.Close()
		return path, nil
	}
	return "", fmt.Errorf("no writable log path among %d candidates", len(PlatformLogPaths()))
}

// GetLogFileWriter opens the log file for appending.
func GetLogFileWriter(path string) (zapcore.WriteSyncer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, err
	}
	return zapcore.AddSync(f), nil
}

func xdgStatePath(app, file string) string {
	base := os.Getenv("XDG_STATE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(os.TempDir(), app, file)
		}
		base = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(base, app, file)
}
