// pkg/smb/discover.go

package smb

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/copperhearth/baseline/pkg/base_io"
	"github.com/copperhearth/baseline/pkg/execute"
)

// smbclient protocol levels to try, newest first.
var smbclientProtocols = []string{"SMB3", "SMB2", "NT1"}

// shareLineRE matches rows of smbclient's share table, e.g.
// "        media           Disk      Media library".
var shareLineRE = regexp.MustCompile(`^\s+(\S+)\s+(Disk|IPC|Printer)\s*(.*)$`)

// DiscoveredShare is one export reported by the remote server.
type DiscoveredShare struct {
	Name    string
	Type    string
	Comment string
}

// ListShares enumerates the shares a host exports, trying smbclient with
// progressively older dialects. Administrative shares (trailing $) and IPC
// endpoints are filtered out.
func ListShares(rc *base_io.RuntimeContext, host, username, password string) ([]DiscoveredShare, error) {
	logger := otelzap.Ctx(rc.Ctx)

	var lastErr error
	for _, proto := range smbclientProtocols {
		args := []string{"-L", host, "-m", proto, "-g"}
		if username != "" {
			args = append(args, "-U", fmt.Sprintf("%s%%%s", username, password))
		} else {
			args = append(args, "-N")
		}

		out, err := execute.Run(rc.Ctx, execute.Options{
			Command: "smbclient",
			Args:    args,
			Capture: true,
			Timeout: 30 * time.Second,
		})
		if err != nil {
			lastErr = err
			logger.Debug("smbclient failed, trying older dialect",
				zap.String("protocol", proto), zap.Error(err))
			continue
		}
		shares := parseSmbclientGrepable(out)
		if len(shares) == 0 {
			shares = parseSmbclientTable(out)
		}
		logger.Info("Enumerated shares",
			zap.String("host", host),
			zap.String("protocol", proto),
			zap.Int("count", len(shares)))
		return shares, nil
	}
	return nil, fmt.Errorf("list shares on %s: %w", host, lastErr)
}

// parseSmbclientGrepable handles `smbclient -g` output: "Disk|name|comment".
func parseSmbclientGrepable(out string) []DiscoveredShare {
	var shares []DiscoveredShare
	for _, line := range strings.Split(out, "\n") {
		parts := strings.SplitN(line, "|", 3)
		if len(parts) != 3 || parts[0] != "Disk" {
			continue
		}
		name := parts[1]
		if strings.HasSuffix(name, "$") {
			continue
		}
		shares = append(shares, DiscoveredShare{Name: name, Type: parts[0], Comment: parts[2]})
	}
	return shares
}

// parseSmbclientTable handles the human-readable share table some builds
// emit even with -g.
func parseSmbclientTable(out string) []DiscoveredShare {
	var shares []DiscoveredShare
	for _, line := range strings.Split(out, "\n") {
		m := shareLineRE.FindStringSubmatch(line)
		if m == nil || m[2] != "Disk" {
			continue
		}
		if strings.HasSuffix(m[1], "$") || m[1] == "Sharename" {
			continue
		}
		shares = append(shares, DiscoveredShare{Name: m[1], Type: m[2], Comment: strings.TrimSpace(m[3])})
	}
	return shares
}

// hostLineRE pulls hostnames out of nmap's "Nmap scan report for" lines.
var hostLineRE = regexp.MustCompile(`^Nmap scan report for (\S+)`)

// ScanSubnet finds hosts with port 445 open on the given CIDR using nmap.
func ScanSubnet(rc *base_io.RuntimeContext, cidr string) ([]string, error) {
	logger := otelzap.Ctx(rc.Ctx)

	out, err := execute.Run(rc.Ctx, execute.Options{
		Command: "nmap",
		Args:    []string{"-p", "445", "--open", "-oG", "-", cidr},
		Capture: true,
		Timeout: 2 * time.Minute,
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s for SMB hosts: %w", cidr, err)
	}

	hosts := parseNmapGrepable(out)
	logger.Info("Scanned subnet for SMB hosts", zap.String("cidr", cidr), zap.Int("hosts", len(hosts)))
	return hosts, nil
}

// parseNmapGrepable handles `nmap -oG -` output, keeping hosts where 445
// is reported open.
func parseNmapGrepable(out string) []string {
	var hosts []string
	for _, line := range strings.Split(out, "\n") {
		if !strings.Contains(line, "445/open") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) >= 2 && fields[0] == "Host:" {
			hosts = append(hosts, fields[1])
		}
	}
	return hosts
}
