// pkg/traffic/logs.go

package traffic

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/copperhearth/baseline/pkg/base_io"
)

// DefaultContainer is the Traefik container name the stack uses.
const DefaultContainer = "traefik"

// FetchContainerLogs pulls stdout and stderr from the named container via
// the Docker API and returns them as lines. Traefik logs to stderr; the
// multiplexed stream has to be demuxed before scanning.
func FetchContainerLogs(rc *base_io.RuntimeContext, containerName string) ([]string, error) {
	logger := otelzap.Ctx(rc.Ctx)

	dockerClient, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("create docker client: %w", err)
	}
	defer dockerClient.Close()

	reader, err := dockerClient.ContainerLogs(rc.Ctx, containerName, container.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
		Tail:       "all",
	})
	if err != nil {
		return nil, fmt.Errorf("fetch logs for container %s: %w", containerName, err)
	}
	defer reader.Close()

	var stdout, stderr bytes.Buffer
	if _, err := stdcopy.StdCopy(&stdout, &stderr, reader); err != nil {
		return nil, fmt.Errorf("demux container log stream: %w", err)
	}

	lines := append(scanLines(&stdout), scanLines(&stderr)...)
	logger.Info("Collected container logs",
		zap.String("container", containerName), zap.Int("lines", len(lines)))
	return lines, nil
}

// ReadLogFile loads a saved Traefik log for offline analysis.
func ReadLogFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", path, err)
	}
	defer f.Close()
	return scanLines(f), nil
}

func scanLines(r io.Reader) []string {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines
}

// Analyze runs every log line through the parser and aggregates the hits.
func Analyze(rc *base_io.RuntimeContext, lines []string, stats *Stats) {
	logger := otelzap.Ctx(rc.Ctx)

	for _, line := range lines {
		if skipLine(line) {
			continue
		}
		if ev := ParseLine(line); ev != nil {
			stats.Add(*ev)
		}
	}
	logger.Info("Processed connection attempts",
		zap.Int("lines", len(lines)), zap.Int("connections", stats.TotalConnections))
}
