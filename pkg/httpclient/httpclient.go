// pkg/httpclient/httpclient.go

// Package httpclient provides the shared hardened HTTP client used for
// fetching vendor keys and installer scripts, replacing the curl pipelines
// of a shell-based setup.
package httpclient

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

var defaultClient = &http.Client{
	Timeout: 30 * time.Second,
	Transport: &http.Transport{
		TLSClientConfig: &tls.Config{MinVersion: tls.VersionTLS12},
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	},
}

// DefaultClient returns the preconfigured HTTP client used across baseline.
func DefaultClient() *http.Client {
	return defaultClient
}

// SetDefaultClient allows replacing the default client for testing purposes.
func SetDefaultClient(client *http.Client) {
	defaultClient = client
}

// Fetch GETs a URL and returns the response body.
func Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := defaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: unexpected status %s", url, resp.Status)
	}
	return io.ReadAll(resp.Body)
}
