// cmd/dns/sync.go

package dns

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/copperhearth/baseline/pkg/base_cli"
	"github.com/copperhearth/baseline/pkg/base_io"
	"github.com/copperhearth/baseline/pkg/cloudflare"
	"github.com/copperhearth/baseline/pkg/config"
)

var skipVerify bool

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Ensure every subdomain has an unproxied CNAME to the apex",
	Long: `For each configured subdomain: create an unproxied CNAME pointing
at the apex when missing, rewrite it when proxied or mispointed, then poll
the API until the records are visible. Traefik's ACME challenges need the
records unproxied and propagated before certificates issue.

Credentials come from CLOUDFLARE_API_TOKEN plus the config file or a
compose .env (CLOUDFLARE_ZONE_ID, DOMAIN, *_SUBDOMAIN).`,
	RunE: base_cli.WrapExtended(15*time.Minute, func(rc *base_io.RuntimeContext, cmd *cobra.Command, args []string) error {
		logger := otelzap.Ctx(rc.Ctx)

		cfg, err := config.Load(rc)
		if err != nil {
			return err
		}
		if err := cfg.RequireDNS(); err != nil {
			return err
		}

		manager, err := cloudflare.NewManager(cfg.APIToken, cfg.ZoneID, cfg.Domain)
		if err != nil {
			return err
		}

		var changed []string
		for _, sub := range cfg.Subdomains {
			action, err := manager.EnsureCNAME(rc, sub)
			if err != nil {
				return err
			}
			logger.Info("Record reconciled",
				zap.String("subdomain", sub), zap.String("action", string(action)))
			if action != cloudflare.ActionUnchanged {
				changed = append(changed, sub)
			}
		}

		if skipVerify || len(changed) == 0 {
			logger.Info("DNS sync complete", zap.Int("changed", len(changed)))
			return nil
		}

		for _, sub := range changed {
			if err := manager.VerifyPropagation(rc, sub); err != nil {
				return err
			}
		}
		logger.Info("DNS sync complete, records propagated", zap.Strings("changed", changed))
		return nil
	}),
}

func init() {
	syncCmd.Flags().BoolVar(&skipVerify, "no-verify", false, "skip propagation polling after changes")
}
