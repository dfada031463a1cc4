package marketdata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSearchSymbols(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/finance/search" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("q"); got != "vanguard" {
			t.Errorf("unexpected query %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"quotes":[
			{"symbol":"VOO","longname":"Vanguard S&P 500 ETF","exchange":"PCX","currency":"USD"},
			{"symbol":"VWRL.AS","shortname":"VANGUARD FTSE AW","exchange":"AMS","currency":"EUR"}
		]}`))
	}))
	defer server.Close()

	client := NewHTTPClient(server.Client(), server.URL)
	symbols, err := client.SearchSymbols(context.Background(), "vanguard")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(symbols) != 2 {
		t.Fatalf("expected 2 symbols, got %d", len(symbols))
	}
	if symbols[0].Ticker != "VOO" || symbols[0].Name != "Vanguard S&P 500 ETF" || symbols[0].Market != "PCX" {
		t.Errorf("unexpected first symbol: %+v", symbols[0])
	}
	// Short name fills in when the long name is absent.
	if symbols[1].Name != "VANGUARD FTSE AW" {
		t.Errorf("expected shortname fallback, got %q", symbols[1].Name)
	}
}

func TestSearchSymbolsEmptyQuery(t *testing.T) {
	client := NewHTTPClient(nil, "http://127.0.0.1:0")
	symbols, err := client.SearchSymbols(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if symbols != nil {
		t.Errorf("expected no results for an empty query, got %v", symbols)
	}
}

func TestGetQuote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v7/finance/quote" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"quoteResponse":{"result":[
			{"symbol":"VOO","regularMarketPrice":412.35,"regularMarketChangePercent":0.42,"regularMarketPreviousClose":410.63,"currency":"USD"}
		]}}`))
	}))
	defer server.Close()

	client := NewHTTPClient(server.Client(), server.URL)
	quote, err := client.GetQuote(context.Background(), "VOO")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.Ticker != "VOO" || quote.Price != 412.35 || quote.Currency != "USD" {
		t.Errorf("unexpected quote: %+v", quote)
	}
	if quote.ChangePercent != 0.42 || quote.PreviousClose != 410.63 {
		t.Errorf("unexpected change fields: %+v", quote)
	}
}

func TestGetQuoteNoResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"quoteResponse":{"result":[]}}`))
	}))
	defer server.Close()

	client := NewHTTPClient(server.Client(), server.URL)
	if _, err := client.GetQuote(context.Background(), "NOPE"); err == nil {
		t.Fatal("expected an error for an empty result set")
	}
}

func TestGetQuoteServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewHTTPClient(server.Client(), server.URL)
	if _, err := client.GetQuote(context.Background(), "VOO"); err == nil {
		t.Fatal("expected an error for a non-200 response")
	}
}
