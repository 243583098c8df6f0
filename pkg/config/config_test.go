// pkg/config/config_test.go

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubdomainsFromEnv(t *testing.T) {
	environ := []string{
		"DASHBOARD_SUBDOMAIN=traefik",
		"JELLYFIN_SUBDOMAIN=media",
		"WIREGUARD_SUBDOMAIN=",
		"PATH=/usr/bin",
		"SUBDOMAIN_SUFFIXLESS=nope",
	}
	subs := subdomainsFromEnv(environ)
	assert.Equal(t, []string{"traefik", "media"}, subs)
}

func TestRequireDNS(t *testing.T) {
	cfg := &Config{}
	err := cfg.RequireDNS()
	assert.ErrorContains(t, err, "CLOUDFLARE_API_TOKEN")

	cfg.APIToken = "tok"
	assert.ErrorContains(t, cfg.RequireDNS(), "cloudflare_zone_id")

	cfg.ZoneID = "zone"
	assert.ErrorContains(t, cfg.RequireDNS(), "domain is not configured")

	cfg.Domain = "example.com"
	assert.ErrorContains(t, cfg.RequireDNS(), "no subdomains")

	cfg.Subdomains = []string{"grafana"}
	assert.NoError(t, cfg.RequireDNS())
}
