// pkg/traffic/parse.go

// Package traffic analyzes Traefik access and error logs for the home-lab's
// reverse proxy: who connected, from where, and what they poked at.
package traffic

import (
	"net/netip"
	"regexp"
	"strings"
)

// suspiciousPatterns flag scanner and exploit probes. Matching is
// case-insensitive against the whole log line.
var suspiciousPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)wp-login\.php`),
	regexp.MustCompile(`(?i)wp-admin`),
	regexp.MustCompile(`(?i)\.git`),
	regexp.MustCompile(`(?i)\.env`),
	regexp.MustCompile(`(?i)/admin`),
	regexp.MustCompile(`(?i)/phpMyAdmin`),
	regexp.MustCompile(`(?i)/solr`),
	regexp.MustCompile(`(?i)/jenkins`),
	regexp.MustCompile(`(?i)select.*from`),
	regexp.MustCompile(`(?i)union.*select`),
	regexp.MustCompile(`(?i)eval\(`),
	regexp.MustCompile(`(?i)exec\(`),
	regexp.MustCompile(`(?i)["'].*<script`),
}

var (
	timestampRE = regexp.MustCompile(`time="([^"]+)"`)
	// tcpEndpointRE matches Traefik's connection error form,
	// e.g. `tcp 172.27.0.4:443->203.0.113.7:51442`.
	tcpEndpointRE = regexp.MustCompile(`tcp ([\d.:]+)->([^:]+):(\d+)`)
	localPortRE   = regexp.MustCompile(`:(\d+)$`)
	errorMsgRE    = regexp.MustCompile(`msg="([^"]+)"`)
	requestRE     = regexp.MustCompile(`"(GET|POST|PUT|DELETE) ([^"]+)"`)
	hostRuleRE    = regexp.MustCompile("Host\\(`([^`]+)`\\)")
	hostHeaderRE  = regexp.MustCompile(`Host: ([^\s,]+)`)
)

// standaloneIPREs are fallbacks for lines without the tcp endpoint form.
var standaloneIPREs = []*regexp.Regexp{
	regexp.MustCompile(`(\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}):`),
	regexp.MustCompile(`(\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}) -`),
	regexp.MustCompile(`client=(\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3})`),
	regexp.MustCompile(`rejecting "([^"]+)"`),
}

// Event is one parsed connection attempt.
type Event struct {
	IP         string
	Timestamp  string
	ErrorType  string
	Path       string
	Host       string
	RemotePort string
	LocalPort  string
	Suspicious bool
	RawLog     string
}

// Endpoint renders host+path when a request path was seen.
func (e Event) Endpoint() string {
	if e.Path == "Unknown" {
		return "Unknown"
	}
	return e.Host + e.Path
}

// ParseLine parses one Traefik log line. It returns nil for lines without a
// remote address and for connections from private or loopback addresses.
func ParseLine(line string) *Event {
	ip, remotePort, localPort := extractEndpoint(line)
	if ip == "" || isPrivateIP(ip) {
		return nil
	}

	timestamp := "Unknown"
	if m := timestampRE.FindStringSubmatch(line); m != nil {
		timestamp = m[1]
	}

	path := "Unknown"
	if m := requestRE.FindStringSubmatch(line); m != nil {
		path = m[2]
	}

	host := "Unknown"
	if m := hostRuleRE.FindStringSubmatch(line); m != nil {
		host = m[1]
	} else if m := hostHeaderRE.FindStringSubmatch(line); m != nil {
		host = m[1]
	}

	raw := line
	if len(raw) > 150 {
		raw = raw[:150]
	}

	return &Event{
		IP:         ip,
		Timestamp:  timestamp,
		ErrorType:  classifyError(line),
		Path:       path,
		Host:       host,
		RemotePort: remotePort,
		LocalPort:  localPort,
		Suspicious: isSuspicious(line),
		RawLog:     raw,
	}
}

// extractEndpoint pulls the remote IP plus remote and local ports from a
// line. Ports are "Unknown" when only a bare address was found.
func extractEndpoint(line string) (ip, remotePort, localPort string) {
	if m := tcpEndpointRE.FindStringSubmatch(line); m != nil {
		localPort = "Unknown"
		if pm := localPortRE.FindStringSubmatch(m[1]); pm != nil {
			localPort = pm[1]
		}
		return m[2], m[3], localPort
	}
	for _, re := range standaloneIPREs {
		if m := re.FindStringSubmatch(line); m != nil {
			return m[1], "Unknown", "Unknown"
		}
	}
	return "", "", ""
}

func classifyError(line string) string {
	switch {
	case strings.Contains(line, "read: connection timed out"):
		return "Connection Timeout"
	case strings.Contains(line, "read: connection reset by peer"):
		return "Connection Reset"
	case strings.Contains(line, "write: broken pipe"):
		return "Broken Pipe"
	case strings.Contains(line, "Could not retrieve CanonizedHost, rejecting"):
		return "Host Rejected"
	case strings.Contains(line, "TLS handshake error"):
		return "TLS Handshake Error"
	case strings.Contains(line, "level=error"):
		if m := errorMsgRE.FindStringSubmatch(line); m != nil {
			return m[1]
		}
	}
	return "Unknown"
}

func isSuspicious(line string) bool {
	for _, re := range suspiciousPatterns {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

func isPrivateIP(s string) bool {
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return false
	}
	return addr.IsPrivate() || addr.IsLoopback() || addr.IsLinkLocalUnicast()
}

// skipLine filters Traefik startup noise before parsing.
func skipLine(line string) bool {
	return strings.Contains(line, `level=info msg="Starting provider`) ||
		strings.Contains(line, "Configuration loaded")
}
