// pkg/traffic/geo.go

package traffic

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/copperhearth/baseline/pkg/execute"
)

// GeoResolver maps an IP address to a country name.
type GeoResolver interface {
	Country(ip string) string
}

var geoCountryRE = regexp.MustCompile(`GeoIP Country Edition: ([^,]+)`)

// GeoIPLookup resolves countries with the geoip-bin `geoiplookup` tool,
// caching per IP. When the tool is missing every lookup is "Unknown".
type GeoIPLookup struct {
	ctx       context.Context
	cache     map[string]string
	available bool
}

// NewGeoIPLookup probes for geoiplookup once up front.
func NewGeoIPLookup(ctx context.Context) *GeoIPLookup {
	return &GeoIPLookup{
		ctx:       ctx,
		cache:     make(map[string]string),
		available: execute.Exists("geoiplookup"),
	}
}

// Available reports whether the geoiplookup binary was found.
func (g *GeoIPLookup) Available() bool {
	return g.available
}

func (g *GeoIPLookup) Country(ip string) string {
	if country, ok := g.cache[ip]; ok {
		return country
	}
	country := g.lookup(ip)
	g.cache[ip] = country
	return country
}

func (g *GeoIPLookup) lookup(ip string) string {
	if !g.available {
		return "Unknown"
	}
	out, err := execute.Run(g.ctx, execute.Options{
		Command: "geoiplookup",
		Args:    []string{ip},
		Capture: true,
		Timeout: 10 * time.Second,
	})
	if err != nil {
		return "Unknown"
	}
	if m := geoCountryRE.FindStringSubmatch(out); m != nil {
		return strings.TrimSpace(m[1])
	}
	return "Unknown"
}
