// Package eodhd implements the collector interfaces on the EODHD API.
package eodhd

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/fathomq/fathom/internal/core"
	"github.com/fathomq/fathom/internal/metrics"
)

const defaultBaseURL = "https://eodhd.com/api"

// validSymbol matches tickers like AAPL, MSFT, BRK-B
var validSymbol = regexp.MustCompile(`^[A-Za-z0-9]{1,10}(-[A-Za-z0-9]{1,4})?$`)

func validateSymbol(symbol string) error {
	if symbol == "" {
		return fmt.Errorf("symbol cannot be empty")
	}
	if len(symbol) > 20 {
		return fmt.Errorf("symbol too long: %s", symbol)
	}
	if !validSymbol.MatchString(symbol) {
		return fmt.Errorf("invalid symbol format: %s", symbol)
	}
	return nil
}

// Client talks to the EODHD REST API.
type Client struct {
	baseURL  string
	apiKey   string
	exchange string
	client   *http.Client
	metrics  *metrics.Registry
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithMetrics attaches a metrics registry to count API requests.
func WithMetrics(m *metrics.Registry) Option {
	return func(c *Client) { c.metrics = m }
}

// New creates an EODHD client. The exchange suffixes every symbol
// (AAPL.US for exchange "US").
func New(apiKey, exchange string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, core.WrapError(core.ErrConfigMissing, fmt.Errorf("eodhd api key"))
	}
	if exchange == "" {
		exchange = "US"
	}
	c := &Client{
		baseURL:  defaultBaseURL,
		apiKey:   apiKey,
		exchange: exchange,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// getJSON performs a GET against an API path and decodes the body into out.
func (c *Client) getJSON(ctx context.Context, endpoint string, params url.Values, out any) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_token", c.apiKey)
	params.Set("fmt", "json")

	reqURL := fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return core.WrapError(core.ErrFetchFailed, err)
	}

	// label by endpoint family, not per-ticker path
	family, _, _ := strings.Cut(endpoint, "/")

	resp, err := c.client.Do(req)
	if err != nil {
		c.metrics.IncFetch(family, "error")
		return core.WrapError(core.ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	c.metrics.IncFetch(family, strconv.Itoa(resp.StatusCode))
	if resp.StatusCode != http.StatusOK {
		return core.WrapError(core.ErrFetchFailed, fmt.Errorf("%s: unexpected status %d", endpoint, resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return core.WrapError(core.ErrFetchFailed, fmt.Errorf("decoding %s response: %w", endpoint, err))
	}
	return nil
}

// parseFloat converts API values to *float64. EODHD returns numerics
// inconsistently as numbers or strings; anything unparseable is absent.
func parseFloat(v any) *float64 {
	switch x := v.(type) {
	case float64:
		return core.Float(x)
	case string:
		f, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return nil
		}
		return core.Float(f)
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return nil
		}
		return core.Float(f)
	}
	return nil
}
