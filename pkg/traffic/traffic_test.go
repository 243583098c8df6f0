// pkg/traffic/traffic_test.go

package traffic

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tlsErrorLine = `time="2025-03-01T10:15:00Z" level=debug msg="http: TLS handshake error from 203.0.113.7:51442: read tcp 172.27.0.4:443->203.0.113.7:51442: read: connection timed out"`

func TestParseLineTCPEndpoint(t *testing.T) {
	ev := ParseLine(tlsErrorLine)
	require.NotNil(t, ev)
	assert.Equal(t, "203.0.113.7", ev.IP)
	assert.Equal(t, "51442", ev.RemotePort)
	assert.Equal(t, "443", ev.LocalPort)
	assert.Equal(t, "2025-03-01T10:15:00Z", ev.Timestamp)
	assert.Equal(t, "Connection Timeout", ev.ErrorType)
	assert.False(t, ev.Suspicious)
}

func TestParseLineSkipsPrivateIP(t *testing.T) {
	line := `time="2025-03-01T10:15:00Z" msg="read tcp 172.27.0.4:443->192.168.1.50:40000: read: connection reset by peer"`
	assert.Nil(t, ParseLine(line))
}

func TestParseLineSkipsNoIP(t *testing.T) {
	assert.Nil(t, ParseLine(`time="2025-03-01T10:15:00Z" level=info msg="Shutting down"`))
}

func TestParseLineRejectedHost(t *testing.T) {
	line := `time="2025-03-01T11:00:00Z" level=debug msg="Could not retrieve CanonizedHost, rejecting \" client=198.51.100.9"`
	ev := ParseLine(line)
	require.NotNil(t, ev)
	assert.Equal(t, "198.51.100.9", ev.IP)
	assert.Equal(t, "Host Rejected", ev.ErrorType)
	assert.Equal(t, "Unknown", ev.LocalPort)
}

func TestParseLineSuspiciousRequest(t *testing.T) {
	line := `198.51.100.9 - - [01/Mar/2025:11:00:00 +0000] "GET /wp-login.php HTTP/1.1" 404 19`
	ev := ParseLine(line)
	require.NotNil(t, ev)
	assert.True(t, ev.Suspicious)
	assert.Equal(t, "/wp-login.php HTTP/1.1", ev.Path)
}

func TestParseLineErrorMessageExtraction(t *testing.T) {
	line := `time="2025-03-01T12:00:00Z" level=error msg="service unavailable" client=198.51.100.9`
	ev := ParseLine(line)
	require.NotNil(t, ev)
	assert.Equal(t, "service unavailable", ev.ErrorType)
}

func TestParseLineHostRule(t *testing.T) {
	line := "time=\"2025-03-01T12:00:00Z\" level=debug msg=\"router rule Host(`grafana.example.com`)\" client=198.51.100.9"
	ev := ParseLine(line)
	require.NotNil(t, ev)
	assert.Equal(t, "grafana.example.com", ev.Host)
}

func TestClassifyError(t *testing.T) {
	assert.Equal(t, "Connection Reset", classifyError("read: connection reset by peer"))
	assert.Equal(t, "Broken Pipe", classifyError("write: broken pipe"))
	assert.Equal(t, "TLS Handshake Error", classifyError("http: TLS handshake error from"))
	assert.Equal(t, "Unknown", classifyError("level=info all good"))
}

func TestIsSuspicious(t *testing.T) {
	assert.True(t, isSuspicious("GET /.git/config"))
	assert.True(t, isSuspicious("GET /index.php?q=UNION SELECT password"))
	assert.True(t, isSuspicious(`POST /search "q=<script>alert(1)</script>" referer="x"`))
	assert.False(t, isSuspicious("GET /healthz HTTP/1.1"))
}

func TestSkipLine(t *testing.T) {
	assert.True(t, skipLine(`level=info msg="Starting provider *docker.Provider"`))
	assert.True(t, skipLine("Configuration loaded from flags."))
	assert.False(t, skipLine(tlsErrorLine))
}

type staticGeo map[string]string

func (g staticGeo) Country(ip string) string {
	if c, ok := g[ip]; ok {
		return c
	}
	return "Unknown"
}

func TestStatsAggregation(t *testing.T) {
	stats := NewStats(staticGeo{"203.0.113.7": "DE, Germany"})

	stats.Add(Event{IP: "203.0.113.7", ErrorType: "Connection Timeout", LocalPort: "443", Path: "Unknown"})
	stats.Add(Event{IP: "203.0.113.7", ErrorType: "Host Rejected", LocalPort: "80", Path: "Unknown"})
	stats.Add(Event{IP: "198.51.100.9", ErrorType: "Unknown", LocalPort: "443",
		Host: "grafana.example.com", Path: "/wp-admin", Suspicious: true})

	assert.Equal(t, 3, stats.TotalConnections)
	assert.Equal(t, 2, stats.IPs["203.0.113.7"])
	assert.Equal(t, 1, stats.UnknownHosts)
	assert.Equal(t, 1, stats.ConnectionErrors)
	assert.Equal(t, 1, stats.ErrorTypes["Connection Timeout"])
	assert.Equal(t, "DE, Germany", stats.IPDetails["203.0.113.7"].Country)
	assert.Equal(t, 1, stats.Countries["Unknown"])
	require.Len(t, stats.SuspiciousByIP["198.51.100.9"], 1)
	assert.Equal(t, "grafana.example.com/wp-admin", stats.SuspiciousByIP["198.51.100.9"][0].Endpoint())
}

func TestTopNStableOrdering(t *testing.T) {
	counts := map[string]int{"b": 2, "a": 2, "c": 5}
	top := topN(counts, 2)
	require.Len(t, top, 2)
	assert.Equal(t, "c", top[0].Key)
	assert.Equal(t, "a", top[1].Key)
}

func TestWriteReport(t *testing.T) {
	stats := NewStats(nil)
	stats.Add(Event{IP: "203.0.113.7", ErrorType: "TLS Handshake Error", LocalPort: "443",
		Path: "Unknown", Timestamp: "2025-03-01T10:15:00Z"})
	stats.Add(Event{IP: "198.51.100.9", ErrorType: "Unknown", LocalPort: "443",
		Host: "grafana.example.com", Path: "/wp-admin", Suspicious: true,
		Timestamp: "2025-03-01T11:00:00Z", RawLog: "GET /wp-admin"})

	var buf bytes.Buffer
	WriteReport(&buf, stats, time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	out := buf.String()

	assert.Contains(t, out, "WEB TRAFFIC ANALYSIS REPORT - 2025-03-01 12:00:00")
	assert.Contains(t, out, "Total connection attempts analyzed: 2")
	assert.Contains(t, out, "SUSPICIOUS ACTIVITY DETECTED:")
	assert.Contains(t, out, "IP: 198.51.100.9 (Unknown)")
	assert.Contains(t, out, "Endpoint: grafana.example.com/wp-admin")
	assert.Contains(t, out, "TOP 10 CONNECTING IP ADDRESSES:")
	assert.Contains(t, out, "TLS Handshake Error: 1 occurrences")
}

func TestWriteReportEmpty(t *testing.T) {
	var buf bytes.Buffer
	WriteReport(&buf, NewStats(nil), time.Now())
	assert.Contains(t, buf.String(), "No connection attempts found to analyze.")
}
