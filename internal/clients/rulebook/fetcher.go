package rulebook

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hearthforge/rulebook-api/internal/errors"
)

// Fetcher fetches the raw bytes of a named resource. Implementations tag
// transient failures with CodeUnavailable so the client knows to retry.
type Fetcher interface {
	Fetch(ctx context.Context, key string) ([]byte, error)
}

// HTTPFetcherConfig configures an HTTP-backed fetcher
type HTTPFetcherConfig struct {
	// BaseURL prefixes every resource path, e.g. https://data.example.com/rules/
	BaseURL string
	// Timeout for a single request (default 30s)
	Timeout time.Duration
	// HTTPClient overrides the default client, mainly for tests
	HTTPClient *http.Client
}

// Validate validates the config and sets defaults if not provided
func (cfg *HTTPFetcherConfig) Validate() error {
	if cfg.BaseURL == "" {
		return errors.InvalidArgument("BaseURL is required")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	return nil
}

// HTTPFetcher fetches resources as {baseURL}/{key}.json
type HTTPFetcher struct {
	baseURL string
	client  *http.Client
}

// NewHTTPFetcher creates an HTTP fetcher with the given configuration
func NewHTTPFetcher(cfg *HTTPFetcherConfig) (*HTTPFetcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &HTTPFetcher{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  cfg.HTTPClient,
	}, nil
}

// Fetch retrieves one resource. Network failures and 5xx responses are
// tagged transient; 4xx responses are not, since retrying cannot help.
func (f *HTTPFetcher) Fetch(ctx context.Context, key string) ([]byte, error) {
	url := fmt.Sprintf("%s/%s.json", f.baseURL, key)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to build request for %q", key)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "fetch failed")
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode >= 500:
		return nil, errors.Unavailablef("fetch %q: upstream returned %d", key, resp.StatusCode)
	case resp.StatusCode == http.StatusNotFound:
		return nil, errors.NotFoundf("resource %q not found", key)
	case resp.StatusCode != http.StatusOK:
		return nil, errors.Internalf("fetch %q: unexpected status %d", key, resp.StatusCode)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to read response body")
	}
	return payload, nil
}
