package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
)

// DefaultBaseURL is the Yahoo Finance chart endpoint.
const DefaultBaseURL = "https://query1.finance.yahoo.com/v8/finance/chart"

// FinanceClient fetches price snapshots from the Yahoo Finance chart API.
type FinanceClient struct {
	httpClient *http.Client
	baseURL    string
	backoff    func() retry.Backoff
}

// Option configures a FinanceClient.
type Option func(*FinanceClient)

// WithBaseURL points the client at a different chart endpoint. Used by tests.
func WithBaseURL(baseURL string) Option {
	return func(c *FinanceClient) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *FinanceClient) {
		c.httpClient = hc
	}
}

// WithRetries sets how many times a failed request is retried and the first backoff delay.
func WithRetries(maxRetries uint64, base time.Duration) Option {
	return func(c *FinanceClient) {
		c.backoff = func() retry.Backoff {
			return retry.WithMaxRetries(maxRetries, retry.NewExponential(base))
		}
	}
}

// NewFinanceClient creates a new Yahoo Finance client.
// By default a request is retried twice with exponential backoff starting at 500ms.
func NewFinanceClient(opts ...Option) *FinanceClient {
	c := &FinanceClient{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    DefaultBaseURL,
	}
	WithRetries(2, 500*time.Millisecond)(c)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LatestPrice returns the most recent closing price of symbol over the last five trading days.
func (c *FinanceClient) LatestPrice(ctx context.Context, symbol string) (float64, error) {
	resp, err := c.QueryYahooFiveDaySymbol(ctx, symbol)
	if err != nil {
		return 0, err
	}

	closes, err := ParseCloses(resp)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", symbol, err)
	}
	return closes[len(closes)-1].Close, nil
}

// QueryYahooFiveDaySymbol fetches the last 5 days of daily price data for a symbol.
func (c *FinanceClient) QueryYahooFiveDaySymbol(ctx context.Context, symbol string) (Response, error) {
	u := fmt.Sprintf("%s/%s?interval=1d&range=5d", c.baseURL, url.PathEscape(symbol))

	result, err := c.queryYahoo(ctx, u)
	if err != nil {
		return Response{}, err
	}
	if len(result.Chart.Result) == 0 {
		return Response{}, fmt.Errorf("no results returned for symbol %s", symbol)
	}

	return result, nil
}

// ParseCloses extracts the non-null daily closes of the first result, oldest first.
func ParseCloses(resp Response) ([]ClosePrice, error) {
	if len(resp.Chart.Result) == 0 {
		return nil, fmt.Errorf("no results returned")
	}
	result := resp.Chart.Result[0]

	if len(result.Timestamp) == 0 {
		return nil, fmt.Errorf("no price data returned")
	}
	if len(result.Indicators.Quote) == 0 || len(result.Indicators.Quote[0].Close) == 0 {
		return nil, fmt.Errorf("no close prices returned")
	}

	closes := result.Indicators.Quote[0].Close
	if len(closes) != len(result.Timestamp) {
		return nil, fmt.Errorf("mismatched data lengths")
	}

	out := make([]ClosePrice, 0, len(closes))
	for i, ts := range result.Timestamp {
		if closes[i] == nil || *closes[i] <= 0 {
			continue
		}
		out = append(out, ClosePrice{
			Date:  time.Unix(ts, 0).UTC(),
			Close: *closes[i],
		})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no close prices returned")
	}

	return out, nil
}

// queryYahoo executes a chart request, retrying transport failures and 5xx/429 responses.
func (c *FinanceClient) queryYahoo(ctx context.Context, u string) (Response, error) {
	var response Response

	err := retry.Do(ctx, c.backoff(), func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return err
		}

		req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return retry.RetryableError(err)
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return retry.RetryableError(err)
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
			return retry.RetryableError(fmt.Errorf("yahoo returned status %d", resp.StatusCode))
		}

		var parsed Response
		if err := json.Unmarshal(data, &parsed); err != nil {
			return fmt.Errorf("failed to decode yahoo response (status %d): %w", resp.StatusCode, err)
		}

		if parsed.Chart.Error != nil {
			return fmt.Errorf("yahoo error: %s", parsed.Chart.Error.Description)
		}

		response = parsed
		return nil
	})
	if err != nil {
		return Response{}, err
	}

	return response, nil
}
