package verify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"
)

// DefaultBootstrapURL is the IANA RDAP bootstrap registry for DNS.
const DefaultBootstrapURL = "https://data.iana.org/rdap/dns.json"

// bootstrapDocument is the IANA RDAP DNS bootstrap file.
type bootstrapDocument struct {
	Version     string       `json:"version"`
	Publication string       `json:"publication"`
	Services    [][][]string `json:"services"`
}

const bootstrapFetchTimeout = 15 * time.Second

// Bootstrap resolves a TLD to its RDAP servers. The IANA document is kept in
// memory after the first successful fetch; a failed fetch is retried by the
// next caller.
type Bootstrap struct {
	HTTPClient *http.Client
	URL        string

	mu      sync.Mutex
	servers map[string][]string
}

// Servers returns the RDAP base URLs registered for tld.
func (b *Bootstrap) Servers(ctx context.Context, tld string) ([]string, error) {
	if b == nil {
		return nil, nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.servers == nil {
		// The document is shared, so the fetch must outlive the caller's request.
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), bootstrapFetchTimeout)
		defer cancel()
		servers, err := b.fetch(fetchCtx)
		if err != nil {
			return nil, err
		}
		b.servers = servers
	}
	return b.servers[normalizeTLD(tld)], nil
}

func (b *Bootstrap) fetch(ctx context.Context) (map[string][]string, error) {
	client := b.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: bootstrapFetchTimeout}
	}
	baseURL := strings.TrimSpace(b.URL)
	if baseURL == "" {
		baseURL = DefaultBootstrapURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build bootstrap request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch bootstrap data: %w", err)
	}
	defer resp.Body.Close() // nolint:errcheck // best-effort cleanup on HTTP response body

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("bootstrap request failed: status %d", resp.StatusCode)
	}

	var doc bootstrapDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode bootstrap data: %w", err)
	}

	servers := make(map[string][]string)
	for _, service := range doc.Services {
		if len(service) != 2 || len(service[0]) == 0 || len(service[1]) == 0 {
			continue
		}
		for _, tld := range service[0] {
			servers[normalizeTLD(tld)] = service[1]
		}
	}
	return servers, nil
}

func normalizeTLD(tld string) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimPrefix(tld, ".")))
}
