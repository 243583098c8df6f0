// pkg/config/config.go

// Package config loads baseline's settings from its YAML config file,
// environment variables and optional compose-style .env files.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/copperhearth/baseline/pkg/base_err"
	"github.com/copperhearth/baseline/pkg/base_io"
	"github.com/copperhearth/baseline/pkg/smb"
	"github.com/copperhearth/baseline/pkg/traffic"
)

// Config is everything the commands need beyond their flags.
type Config struct {
	// Domain is the apex domain the compose stack serves.
	Domain string `mapstructure:"domain"`
	// ZoneID is the Cloudflare zone holding Domain.
	ZoneID string `mapstructure:"cloudflare_zone_id"`
	// APIToken authenticates against the Cloudflare API. Environment only,
	// never read from the config file.
	APIToken string `mapstructure:"-"`
	// Subdomains are the CNAMEs to keep pointed at the apex.
	Subdomains []string `mapstructure:"subdomains"`
	// SharesFile is the SMB shares env file.
	SharesFile string `mapstructure:"shares_file"`
	// TraefikContainer is the reverse-proxy container whose logs get
	// analyzed.
	TraefikContainer string `mapstructure:"traefik_container"`
}

// Load reads config.yaml from /etc/baseline or ~/.config/baseline, applies
// BASELINE_* environment overrides and picks up a compose .env from the
// working directory when present. A missing config file is fine; commands
// validate the fields they actually need.
func Load(rc *base_io.RuntimeContext) (*Config, error) {
	logger := otelzap.Ctx(rc.Ctx)

	// Compose stacks keep CLOUDFLARE_* and DOMAIN in .env next to the
	// docker-compose.yml. Existing process env wins.
	if err := godotenv.Load(); err == nil {
		logger.Debug("Loaded .env from working directory")
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/baseline")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home + "/.config/baseline")
	}

	v.SetEnvPrefix("BASELINE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("shares_file", smb.DefaultSharesFile)
	v.SetDefault("traefik_container", traffic.DefaultContainer)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		logger.Debug("No config file found, using defaults and environment")
	} else {
		logger.Debug("Loaded config file", zap.String("path", v.ConfigFileUsed()))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// Compose .env conventions take over where the config file is silent.
	if cfg.Domain == "" {
		cfg.Domain = os.Getenv("DOMAIN")
	}
	if cfg.ZoneID == "" {
		cfg.ZoneID = os.Getenv("CLOUDFLARE_ZONE_ID")
	}
	cfg.APIToken = os.Getenv("CLOUDFLARE_API_TOKEN")
	if len(cfg.Subdomains) == 0 {
		cfg.Subdomains = subdomainsFromEnv(os.Environ())
	}
	return &cfg, nil
}

// RequireDNS validates the fields dns sync needs, returning expected errors
// so missing credentials read as usage problems rather than crashes.
func (c *Config) RequireDNS() error {
	switch {
	case c.APIToken == "":
		return base_err.NewExpectedError(fmt.Errorf("CLOUDFLARE_API_TOKEN is not set"))
	case c.ZoneID == "":
		return base_err.NewExpectedError(fmt.Errorf("cloudflare_zone_id is not configured (config file or CLOUDFLARE_ZONE_ID)"))
	case c.Domain == "":
		return base_err.NewExpectedError(fmt.Errorf("domain is not configured (config file or DOMAIN)"))
	case len(c.Subdomains) == 0:
		return base_err.NewExpectedError(fmt.Errorf("no subdomains configured (config file or *_SUBDOMAIN environment variables)"))
	}
	return nil
}

// subdomainsFromEnv collects *_SUBDOMAIN variables the way the compose
// stack's .env declares them (DASHBOARD_SUBDOMAIN=traefik and so on).
func subdomainsFromEnv(environ []string) []string {
	var subs []string
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || value == "" {
			continue
		}
		if strings.HasSuffix(key, "_SUBDOMAIN") {
			subs = append(subs, value)
		}
	}
	return subs
}
