package market

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAlphaVantageGetQuote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("function"); got != "GLOBAL_QUOTE" {
			t.Errorf("function = %q, want GLOBAL_QUOTE", got)
		}
		if got := r.URL.Query().Get("symbol"); got != "AAPL" {
			t.Errorf("symbol = %q, want AAPL", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"Global Quote": {
				"01. symbol": "AAPL",
				"02. open": "178.00",
				"03. high": "182.50",
				"04. low": "177.10",
				"05. price": "181.25",
				"06. volume": "51234567",
				"08. previous close": "177.80",
				"09. change": "3.45",
				"10. change percent": "1.94%"
			}
		}`))
	}))
	defer server.Close()

	client := NewAlphaVantageClient("test-key")
	client.baseURL = server.URL

	quote, err := client.GetQuote(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("GetQuote() error = %v", err)
	}

	if quote.Symbol != "AAPL" {
		t.Errorf("Symbol = %q, want AAPL", quote.Symbol)
	}
	if quote.Price != 181.25 {
		t.Errorf("Price = %v, want 181.25", quote.Price)
	}
	if quote.ChangePercent != 1.94 {
		t.Errorf("ChangePercent = %v, want 1.94", quote.ChangePercent)
	}
	if quote.Volume != 51234567 {
		t.Errorf("Volume = %v, want 51234567", quote.Volume)
	}
}

func TestAlphaVantageGetQuoteNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"Global Quote": {}}`))
	}))
	defer server.Close()

	client := NewAlphaVantageClient("test-key")
	client.baseURL = server.URL

	_, err := client.GetQuote(context.Background(), "NOPE")
	if !errors.Is(err, ErrSymbolNotFound) {
		t.Errorf("GetQuote() error = %v, want ErrSymbolNotFound", err)
	}
}

func TestAlphaVantageSearchSymbols(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("function"); got != "SYMBOL_SEARCH" {
			t.Errorf("function = %q, want SYMBOL_SEARCH", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"bestMatches": [
				{"1. symbol": "TSLA", "2. name": "Tesla Inc", "3. type": "Equity", "4. region": "United States"},
				{"1. symbol": "TL0.DEX", "2. name": "Tesla Inc", "3. type": "Equity", "4. region": "XETRA"}
			]
		}`))
	}))
	defer server.Close()

	client := NewAlphaVantageClient("test-key")
	client.baseURL = server.URL

	results, err := client.SearchSymbols(context.Background(), "tesla")
	if err != nil {
		t.Fatalf("SearchSymbols() error = %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}
	if results[0].Symbol != "TSLA" || results[0].Region != "United States" {
		t.Errorf("results[0] = %+v", results[0])
	}
}

func TestAlphaVantageServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewAlphaVantageClient("test-key")
	client.baseURL = server.URL

	if _, err := client.GetQuote(context.Background(), "AAPL"); err == nil {
		t.Error("GetQuote() succeeded against a 503 response, want error")
	}
}

func TestCoinGeckoListCoins(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/coins/markets" {
			t.Errorf("path = %q, want /coins/markets", r.URL.Path)
		}
		if got := r.URL.Query().Get("per_page"); got != "50" {
			t.Errorf("per_page = %q, want 50", got)
		}
		if got := r.URL.Query().Get("sparkline"); got != "true" {
			t.Errorf("sparkline = %q, want true", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{
				"id": "bitcoin",
				"symbol": "btc",
				"name": "Bitcoin",
				"current_price": 43250.12,
				"price_change_percentage_24h": 2.61,
				"market_cap": 845000000000,
				"sparkline_in_7d": {"price": [42000, 42500, 43250.12]}
			},
			{
				"id": "ethereum",
				"symbol": "eth",
				"name": "Ethereum",
				"current_price": 2280.5,
				"price_change_percentage_24h": -1.2,
				"market_cap": 274000000000
			}
		]`))
	}))
	defer server.Close()

	client := NewCoinGeckoClient(server.URL)

	listings, err := client.ListCoins(context.Background(), 50)
	if err != nil {
		t.Fatalf("ListCoins() error = %v", err)
	}

	if len(listings) != 2 {
		t.Fatalf("len(listings) = %d, want 2", len(listings))
	}
	if listings[0].ID != "bitcoin" || listings[0].Price != 43250.12 {
		t.Errorf("listings[0] = %+v", listings[0])
	}
	if len(listings[0].Sparkline) != 3 {
		t.Errorf("len(Sparkline) = %d, want 3", len(listings[0].Sparkline))
	}
	if listings[1].Sparkline != nil {
		t.Errorf("listings[1].Sparkline = %v, want nil", listings[1].Sparkline)
	}
	if listings[1].ChangePercent != -1.2 {
		t.Errorf("listings[1].ChangePercent = %v, want -1.2", listings[1].ChangePercent)
	}
}
