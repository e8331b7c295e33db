package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/agustinvidal/fintrack/internal/apperrors"
	portssvc "github.com/agustinvidal/fintrack/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

const providerName = "exchangeratesapi"

// Client fetches quotes from the exchangeratesapi.io latest endpoint. Every
// failure mode (network, non-200, unparseable body, success=false, missing
// symbol) maps to apperrors.ErrProviderUnavailable so callers need only one
// branch.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

var _ portssvc.RateProvider = (*Client)(nil)

// NewClient creates a provider client. timeout bounds each fetch end to end.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Name identifies this provider in stored quotes.
func (c *Client) Name() string {
	return providerName
}

// latestResponse is the provider's wire shape for the latest endpoint.
type latestResponse struct {
	Success bool                       `json:"success"`
	Rates   map[string]decimal.Decimal `json:"rates"`
	Error   struct {
		Code string `json:"code"`
		Info string `json:"info"`
	} `json:"error"`
}

// FetchRate returns the current quote for one unit of from expressed in to.
func (c *Client) FetchRate(ctx context.Context, fromCurrencyCode, toCurrencyCode string) (decimal.Decimal, error) {
	endpoint := fmt.Sprintf("%s/latest?%s", c.baseURL, url.Values{
		"access_key": {c.apiKey},
		"base":       {fromCurrencyCode},
		"symbols":    {toCurrencyCode},
	}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: failed to build request: %v", apperrors.ErrProviderUnavailable, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: request failed: %v", apperrors.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("%w: unexpected status %d", apperrors.ErrProviderUnavailable, resp.StatusCode)
	}

	var body latestResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return decimal.Zero, fmt.Errorf("%w: failed to decode response: %v", apperrors.ErrProviderUnavailable, err)
	}

	if !body.Success {
		return decimal.Zero, fmt.Errorf("%w: provider reported failure: %s", apperrors.ErrProviderUnavailable, body.Error.Info)
	}

	rate, ok := body.Rates[toCurrencyCode]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: symbol %s missing from response", apperrors.ErrProviderUnavailable, toCurrencyCode)
	}
	if rate.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, fmt.Errorf("%w: non-positive rate for %s", apperrors.ErrProviderUnavailable, toCurrencyCode)
	}

	return rate, nil
}
