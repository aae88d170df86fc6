// Package catalog implements the HTTP client for the product catalog
// service, used by the disclosure gateway for public lookups.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/retailpulse/console/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Client looks up product records by lookup key. Lookups are rate-limited:
// the public surface is reachable by anonymous callers and must not be
// usable to hammer the catalog.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	limiter    *rate.Limiter
	log        *zap.SugaredLogger
}

// NewClient creates a catalog client.
func NewClient(baseURL, apiKey string, requestsPerSecond float64, timeout time.Duration, log *zap.SugaredLogger) *Client {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 10
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		apiKey:     apiKey,
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), 5),
		log:        log,
	}
}

// FetchProductByLookupKey returns the internal record for a lookup key, or
// ErrNotFound when the catalog has no such record. The caller decides what
// subset, if any, may be disclosed.
func (c *Client) FetchProductByLookupKey(ctx context.Context, key string) (*domain.ProductRecord, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	reqURL := c.baseURL + "/v1/public-products/" + url.PathEscape(key)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "RetailPulseConsole/1.0")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFetchFailure, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, domain.ErrNotFound
	case resp.StatusCode != http.StatusOK:
		c.log.Warnw("catalog API error", "status", resp.StatusCode)
		return nil, fmt.Errorf("%w: status %d", domain.ErrFetchFailure, resp.StatusCode)
	}

	var record domain.ProductRecord
	if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", domain.ErrFetchFailure, err)
	}
	return &record, nil
}
