// pkg/cloudflare/propagation.go

package cloudflare

import (
	"fmt"
	"time"

	cf "github.com/cloudflare/cloudflare-go"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/copperhearth/baseline/pkg/base_io"
)

const (
	propagationAttempts = 20
	// pollInterval paces API polls so a full verification run stays well
	// under Cloudflare's rate limits.
	pollInterval = 3 * time.Second
	// ACME HTTP-01 ordering: give Cloudflare a moment before and after
	// polling so Traefik's cert requests see the record.
	initialSettle = 5 * time.Second
	finalSettle   = 10 * time.Second
)

// VerifyPropagation polls until the subdomain's CNAME is visible through
// the API, giving up after a bounded number of attempts.
func (m *Manager) VerifyPropagation(rc *base_io.RuntimeContext, subdomain string) error {
	logger := otelzap.Ctx(rc.Ctx)
	fqdn := subdomain + "." + m.domain

	logger.Info("Waiting for DNS record to settle", zap.String("name", fqdn))
	select {
	case <-time.After(m.initialSettle):
	case <-rc.Ctx.Done():
		return rc.Ctx.Err()
	}

	for attempt := 1; attempt <= propagationAttempts; attempt++ {
		if err := m.limiter.Wait(rc.Ctx); err != nil {
			return fmt.Errorf("wait for poll slot: %w", err)
		}

		records, _, err := m.api.ListDNSRecords(rc.Ctx, m.zone, cf.ListDNSRecordsParams{
			Type: "CNAME",
			Name: fqdn,
		})
		if err != nil {
			logger.Warn("Propagation poll failed",
				zap.String("name", fqdn), zap.Int("attempt", attempt), zap.Error(err))
			continue
		}
		if len(records) > 0 && recordCorrect(records[0], m.domain) {
			logger.Info("DNS record propagated",
				zap.String("name", fqdn), zap.Int("attempts", attempt))
			select {
			case <-time.After(m.finalSettle):
			case <-rc.Ctx.Done():
				return rc.Ctx.Err()
			}
			return nil
		}
		logger.Debug("Record not yet visible",
			zap.String("name", fqdn), zap.Int("attempt", attempt))
	}
	return fmt.Errorf("record %s not visible after %d attempts", fqdn, propagationAttempts)
}
