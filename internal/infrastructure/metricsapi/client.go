// Package metricsapi implements the HTTP client for the aggregates backend,
// which computes scoped KPI data for the console.
package metricsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/retailpulse/console/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Client talks to the aggregates API. It rate-limits outgoing requests so a
// busy console cannot overrun the backend.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	limiter    *rate.Limiter
	log        *zap.SugaredLogger
}

// NewClient creates an aggregates API client. requestsPerSecond bounds the
// outgoing request rate; zero or negative means 10 rps.
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

// FetchDashboardStats loads the KPI aggregate for one scope. Network scope
// and location scope address different backend endpoints.
func (c *Client) FetchDashboardStats(ctx context.Context, scope domain.ScopeKey) (*domain.DashboardStats, error) {
	endpoint := c.baseURL + "/v1/stats/network"
	if scope.Kind == domain.ScopeLocation {
		endpoint = c.baseURL + "/v1/stats/locations/" + url.PathEscape(scope.LocationID)
	}

	var stats domain.DashboardStats
	if err := c.getJSON(ctx, endpoint, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// FetchLocationDetail loads one location record.
func (c *Client) FetchLocationDetail(ctx context.Context, id string) (*domain.LocationRecord, error) {
	endpoint := c.baseURL + "/v1/locations/" + url.PathEscape(id)

	var record domain.LocationRecord
	if err := c.getJSON(ctx, endpoint, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// FetchLocationStats loads the ranged stats summary for one location.
func (c *Client) FetchLocationStats(ctx context.Context, id string, r domain.StatsRange) (*domain.StatsSummary, error) {
	endpoint := fmt.Sprintf("%s/v1/locations/%s/stats?range=%s", c.baseURL, url.PathEscape(id), url.QueryEscape(string(r)))

	var summary domain.StatsSummary
	if err := c.getJSON(ctx, endpoint, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (c *Client) getJSON(ctx context.Context, reqURL string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "RetailPulseConsole/1.0")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrFetchFailure, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return domain.ErrNotFound
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.log.Warnw("aggregates API error", "url", reqURL, "status", resp.StatusCode, "body", string(body))
		return fmt.Errorf("%w: status %d", domain.ErrFetchFailure, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode: %v", domain.ErrFetchFailure, err)
	}
	return nil
}
