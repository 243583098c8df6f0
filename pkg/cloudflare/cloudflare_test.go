// pkg/cloudflare/cloudflare_test.go

package cloudflare

import (
	"context"
	"testing"
	"time"

	cf "github.com/cloudflare/cloudflare-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/copperhearth/baseline/pkg/base_io"
)

type fakeAPI struct {
	records []cf.DNSRecord
	listErr error

	created []cf.CreateDNSRecordParams
	updated []cf.UpdateDNSRecordParams

	// listCalls counts polls so propagation tests can flip visibility.
	listCalls    int
	visibleAfter int
}

func (f *fakeAPI) ListDNSRecords(_ context.Context, _ *cf.ResourceContainer, params cf.ListDNSRecordsParams) ([]cf.DNSRecord, *cf.ResultInfo, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, nil, f.listErr
	}
	if f.visibleAfter > 0 && f.listCalls <= f.visibleAfter {
		return nil, &cf.ResultInfo{}, nil
	}
	var out []cf.DNSRecord
	for _, r := range f.records {
		if r.Name != params.Name {
			continue
		}
		if params.Type != "" && r.Type != params.Type {
			continue
		}
		out = append(out, r)
	}
	return out, &cf.ResultInfo{}, nil
}

func (f *fakeAPI) CreateDNSRecord(_ context.Context, _ *cf.ResourceContainer, params cf.CreateDNSRecordParams) (cf.DNSRecord, error) {
	f.created = append(f.created, params)
	rec := cf.DNSRecord{
		ID:      "new",
		Type:    params.Type,
		Name:    params.Name,
		Content: params.Content,
		TTL:     params.TTL,
		Proxied: params.Proxied,
	}
	f.records = append(f.records, rec)
	return rec, nil
}

func (f *fakeAPI) UpdateDNSRecord(_ context.Context, _ *cf.ResourceContainer, params cf.UpdateDNSRecordParams) (cf.DNSRecord, error) {
	f.updated = append(f.updated, params)
	for i, r := range f.records {
		if r.ID == params.ID {
			f.records[i].Content = params.Content
			f.records[i].Proxied = params.Proxied
			f.records[i].TTL = params.TTL
		}
	}
	return cf.DNSRecord{ID: params.ID}, nil
}

func testManager(api dnsAPI) *Manager {
	return &Manager{
		api:     api,
		zone:    cf.ZoneIdentifier("zone123"),
		domain:  "example.com",
		limiter: rate.NewLimiter(rate.Inf, 1),
	}
}

func testRC() *base_io.RuntimeContext {
	return &base_io.RuntimeContext{Ctx: context.Background()}
}

func TestEnsureCNAMECreatesMissingRecord(t *testing.T) {
	api := &fakeAPI{}
	m := testManager(api)

	action, err := m.EnsureCNAME(testRC(), "grafana")
	require.NoError(t, err)
	assert.Equal(t, ActionCreated, action)

	require.Len(t, api.created, 1)
	created := api.created[0]
	assert.Equal(t, "CNAME", created.Type)
	assert.Equal(t, "grafana.example.com", created.Name)
	assert.Equal(t, "example.com", created.Content)
	assert.Equal(t, recordTTL, created.TTL)
	require.NotNil(t, created.Proxied)
	assert.False(t, *created.Proxied)
}

func TestEnsureCNAMEUpdatesProxiedRecord(t *testing.T) {
	api := &fakeAPI{records: []cf.DNSRecord{{
		ID:      "rec1",
		Type:    "CNAME",
		Name:    "grafana.example.com",
		Content: "example.com",
		TTL:     recordTTL,
		Proxied: cf.BoolPtr(true),
	}}}
	m := testManager(api)

	action, err := m.EnsureCNAME(testRC(), "grafana")
	require.NoError(t, err)
	assert.Equal(t, ActionUpdated, action)

	require.Len(t, api.updated, 1)
	assert.Equal(t, "rec1", api.updated[0].ID)
	require.NotNil(t, api.updated[0].Proxied)
	assert.False(t, *api.updated[0].Proxied)
}

func TestEnsureCNAMERewritesExistingARecord(t *testing.T) {
	api := &fakeAPI{records: []cf.DNSRecord{{
		ID:      "rec1",
		Type:    "A",
		Name:    "grafana.example.com",
		Content: "203.0.113.7",
		TTL:     300,
		Proxied: cf.BoolPtr(true),
	}}}
	m := testManager(api)

	action, err := m.EnsureCNAME(testRC(), "grafana")
	require.NoError(t, err)
	assert.Equal(t, ActionUpdated, action)

	// The stale A record must be rewritten in place, never duplicated by
	// a second create at the same name.
	assert.Empty(t, api.created)
	require.Len(t, api.updated, 1)
	updated := api.updated[0]
	assert.Equal(t, "rec1", updated.ID)
	assert.Equal(t, "CNAME", updated.Type)
	assert.Equal(t, "example.com", updated.Content)
}

func TestEnsureCNAMELeavesCorrectRecordAlone(t *testing.T) {
	api := &fakeAPI{records: []cf.DNSRecord{{
		ID:      "rec1",
		Type:    "CNAME",
		Name:    "grafana.example.com",
		Content: "example.com",
		TTL:     recordTTL,
		Proxied: cf.BoolPtr(false),
	}}}
	m := testManager(api)

	action, err := m.EnsureCNAME(testRC(), "grafana")
	require.NoError(t, err)
	assert.Equal(t, ActionUnchanged, action)
	assert.Empty(t, api.created)
	assert.Empty(t, api.updated)
}

func TestVerifyPropagationWaitsForVisibility(t *testing.T) {
	api := &fakeAPI{
		records: []cf.DNSRecord{{
			ID:      "rec1",
			Type:    "CNAME",
			Name:    "grafana.example.com",
			Content: "example.com",
			TTL:     recordTTL,
			Proxied: cf.BoolPtr(false),
		}},
		visibleAfter: 2,
	}
	m := testManager(api)

	err := m.VerifyPropagation(testRC(), "grafana")
	require.NoError(t, err)
	assert.Equal(t, 3, api.listCalls)
}

func TestVerifyPropagationGivesUp(t *testing.T) {
	api := &fakeAPI{}
	m := testManager(api)

	err := m.VerifyPropagation(testRC(), "grafana")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not visible")
	assert.Equal(t, propagationAttempts, api.listCalls)
}

func TestVerifyPropagationHonorsCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rc := &base_io.RuntimeContext{Ctx: ctx}

	m := testManager(&fakeAPI{})
	m.initialSettle = time.Hour

	err := m.VerifyPropagation(rc, "grafana")
	assert.ErrorIs(t, err, context.Canceled)
}
