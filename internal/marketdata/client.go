// Package marketdata fetches ticker symbols and quotes from an external
// market data source. Prices are consumed, never computed: the rest of the
// system treats this package as a read-only collaborator.
package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const (
	defaultBaseURL = "https://query1.finance.yahoo.com"
	requestTimeout = 10 * time.Second
	userAgent      = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7)"
)

// Symbol is one ticker search result.
type Symbol struct {
	Ticker   string `json:"ticker"`
	Name     string `json:"name"`
	Market   string `json:"market"`
	Currency string `json:"currency,omitempty"`
}

// Quote is a point-in-time price for a ticker.
type Quote struct {
	Ticker        string  `json:"ticker"`
	Price         float64 `json:"price"`
	Currency      string  `json:"currency"`
	ChangePercent float64 `json:"change_percent"`
	PreviousClose float64 `json:"previous_close"`
}

// Client looks up ticker symbols and current quotes.
type Client interface {
	SearchSymbols(ctx context.Context, query string) ([]Symbol, error)
	GetQuote(ctx context.Context, ticker string) (*Quote, error)
}

// HTTPClient fetches symbols and quotes from a Yahoo-style quote API.
type HTTPClient struct {
	httpClient *http.Client
	baseURL    string // overridable for tests
}

// NewHTTPClient creates a market data client against the given base URL.
// An empty baseURL selects the default public endpoint.
func NewHTTPClient(httpClient *http.Client, baseURL string) *HTTPClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: requestTimeout}
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &HTTPClient{httpClient: httpClient, baseURL: baseURL}
}

type searchResponse struct {
	Quotes []struct {
		Symbol    string `json:"symbol"`
		ShortName string `json:"shortname"`
		LongName  string `json:"longname"`
		Exchange  string `json:"exchange"`
		Currency  string `json:"currency"`
	} `json:"quotes"`
}

// SearchSymbols returns ticker symbols matching the query.
func (c *HTTPClient) SearchSymbols(ctx context.Context, query string) ([]Symbol, error) {
	if query == "" {
		return nil, nil
	}

	endpoint := fmt.Sprintf("%s/v1/finance/search?q=%s", c.baseURL, url.QueryEscape(query))
	var parsed searchResponse
	if err := c.getJSON(ctx, endpoint, &parsed); err != nil {
		return nil, err
	}

	symbols := make([]Symbol, 0, len(parsed.Quotes))
	for _, q := range parsed.Quotes {
		name := q.LongName
		if name == "" {
			name = q.ShortName
		}
		symbols = append(symbols, Symbol{
			Ticker:   q.Symbol,
			Name:     name,
			Market:   q.Exchange,
			Currency: q.Currency,
		})
	}
	return symbols, nil
}

type quoteResponse struct {
	QuoteResponse struct {
		Result []struct {
			Symbol                     string  `json:"symbol"`
			RegularMarketPrice         float64 `json:"regularMarketPrice"`
			RegularMarketChangePercent float64 `json:"regularMarketChangePercent"`
			RegularMarketPreviousClose float64 `json:"regularMarketPreviousClose"`
			Currency                   string  `json:"currency"`
		} `json:"result"`
	} `json:"quoteResponse"`
}

// GetQuote returns the current quote for a single ticker.
func (c *HTTPClient) GetQuote(ctx context.Context, ticker string) (*Quote, error) {
	endpoint := fmt.Sprintf("%s/v7/finance/quote?symbols=%s", c.baseURL, url.QueryEscape(ticker))
	var parsed quoteResponse
	if err := c.getJSON(ctx, endpoint, &parsed); err != nil {
		return nil, err
	}

	if len(parsed.QuoteResponse.Result) == 0 {
		return nil, fmt.Errorf("no quote returned for %s", ticker)
	}
	r := parsed.QuoteResponse.Result[0]
	return &Quote{
		Ticker:        r.Symbol,
		Price:         r.RegularMarketPrice,
		Currency:      r.Currency,
		ChangePercent: r.RegularMarketChangePercent,
		PreviousClose: r.RegularMarketPreviousClose,
	}, nil
}

func (c *HTTPClient) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("market data request failed with status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
