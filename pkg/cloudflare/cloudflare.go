// pkg/cloudflare/cloudflare.go

// Package cloudflare keeps the home-lab's subdomain CNAMEs pointed at the
// apex via the Cloudflare API.
package cloudflare

import (
	"context"
	"fmt"
	"time"

	cf "github.com/cloudflare/cloudflare-go"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/copperhearth/baseline/pkg/base_io"
)

// recordTTL is the TTL in seconds for managed CNAMEs.
const recordTTL = 3600

// dnsAPI is the slice of the Cloudflare client the manager needs, kept
// small so tests can fake it.
type dnsAPI interface {
	ListDNSRecords(ctx context.Context, zone *cf.ResourceContainer, params cf.ListDNSRecordsParams) ([]cf.DNSRecord, *cf.ResultInfo, error)
	CreateDNSRecord(ctx context.Context, zone *cf.ResourceContainer, params cf.CreateDNSRecordParams) (cf.DNSRecord, error)
	UpdateDNSRecord(ctx context.Context, zone *cf.ResourceContainer, params cf.UpdateDNSRecordParams) (cf.DNSRecord, error)
}

// Manager ensures CNAME records for one zone.
type Manager struct {
	api    dnsAPI
	zone   *cf.ResourceContainer
	domain string

	limiter       *rate.Limiter
	initialSettle time.Duration
	finalSettle   time.Duration
}

// NewManager builds a Manager authenticated with an API token. domain is
// the apex the CNAMEs point at and zoneID the Cloudflare zone holding it.
func NewManager(token, zoneID, domain string) (*Manager, error) {
	api, err := cf.NewWithAPIToken(token)
	if err != nil {
		return nil, fmt.Errorf("create cloudflare client: %w", err)
	}
	return &Manager{
		api:           api,
		zone:          cf.ZoneIdentifier(zoneID),
		domain:        domain,
		limiter:       rate.NewLimiter(rate.Every(pollInterval), 1),
		initialSettle: initialSettle,
		finalSettle:   finalSettle,
	}, nil
}

// Action describes what EnsureCNAME did for a record.
type Action string

const (
	ActionCreated   Action = "created"
	ActionUpdated   Action = "updated"
	ActionUnchanged Action = "unchanged"
)

// EnsureCNAME makes sure <subdomain>.<domain> is an unproxied CNAME to the
// apex. Proxied or mispointed records are rewritten in place.
func (m *Manager) EnsureCNAME(rc *base_io.RuntimeContext, subdomain string) (Action, error) {
	logger := otelzap.Ctx(rc.Ctx)
	fqdn := subdomain + "." + m.domain

	// Query by name only. An existing A or AAAA record at the name must be
	// rewritten, not shadowed by a conflicting create.
	records, _, err := m.api.ListDNSRecords(rc.Ctx, m.zone, cf.ListDNSRecordsParams{
		Name: fqdn,
	})
	if err != nil {
		return "", fmt.Errorf("list DNS records for %s: %w", fqdn, err)
	}

	if len(records) == 0 {
		logger.Info("Creating CNAME record",
			zap.String("name", fqdn), zap.String("content", m.domain))
		_, err := m.api.CreateDNSRecord(rc.Ctx, m.zone, cf.CreateDNSRecordParams{
			Type:    "CNAME",
			Name:    fqdn,
			Content: m.domain,
			TTL:     recordTTL,
			Proxied: cf.BoolPtr(false),
		})
		if err != nil {
			return "", fmt.Errorf("create CNAME %s: %w", fqdn, err)
		}
		return ActionCreated, nil
	}

	rec := records[0]
	if recordCorrect(rec, m.domain) {
		logger.Debug("CNAME record already correct", zap.String("name", fqdn))
		return ActionUnchanged, nil
	}

	if rec.Type != "CNAME" {
		logger.Info("Replacing existing record with a CNAME",
			zap.String("name", fqdn),
			zap.String("old_type", rec.Type),
			zap.String("old_content", rec.Content))
	} else {
		logger.Info("Updating CNAME record to unproxied",
			zap.String("name", fqdn),
			zap.String("old_content", rec.Content),
			zap.Boolp("was_proxied", rec.Proxied))
	}
	_, err = m.api.UpdateDNSRecord(rc.Ctx, m.zone, cf.UpdateDNSRecordParams{
		ID:      rec.ID,
		Type:    "CNAME",
		Name:    fqdn,
		Content: m.domain,
		TTL:     recordTTL,
		Proxied: cf.BoolPtr(false),
	})
	if err != nil {
		return "", fmt.Errorf("update CNAME %s: %w", fqdn, err)
	}
	return ActionUpdated, nil
}

func recordCorrect(rec cf.DNSRecord, apex string) bool {
	if rec.Type != "CNAME" {
		return false
	}
	if rec.Content != apex {
		return false
	}
	if rec.Proxied != nil && *rec.Proxied {
		return false
	}
	return rec.TTL == recordTTL
}
