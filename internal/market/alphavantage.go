package market

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"tradeup/internal/models"
)

// ErrSymbolNotFound is returned when a quote lookup matches nothing
var ErrSymbolNotFound = errors.New("symbol not found")

const alphaVantageBaseURL = "https://www.alphavantage.co/query"

// AlphaVantageClient fetches stock quotes and symbol search results
type AlphaVantageClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewAlphaVantageClient creates a client with a request timeout
func NewAlphaVantageClient(apiKey string) *AlphaVantageClient {
	return &AlphaVantageClient{
		apiKey:  apiKey,
		baseURL: alphaVantageBaseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// GetQuote fetches the latest quote for a stock symbol
func (c *AlphaVantageClient) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	params := url.Values{}
	params.Set("function", "GLOBAL_QUOTE")
	params.Set("symbol", symbol)
	params.Set("apikey", c.apiKey)

	var payload struct {
		GlobalQuote map[string]string `json:"Global Quote"`
	}
	if err := c.get(ctx, params, &payload); err != nil {
		return nil, err
	}
	if len(payload.GlobalQuote) == 0 {
		return nil, ErrSymbolNotFound
	}

	q := payload.GlobalQuote
	return &models.Quote{
		Symbol:        q["01. symbol"],
		Open:          parseFloat(q["02. open"]),
		High:          parseFloat(q["03. high"]),
		Low:           parseFloat(q["04. low"]),
		Price:         parseFloat(q["05. price"]),
		Volume:        parseInt(q["06. volume"]),
		PreviousClose: parseFloat(q["08. previous close"]),
		Change:        parseFloat(q["09. change"]),
		ChangePercent: parseFloat(strings.TrimSuffix(q["10. change percent"], "%")),
	}, nil
}

// SearchSymbols finds symbols matching a keyword
func (c *AlphaVantageClient) SearchSymbols(ctx context.Context, keywords string) ([]models.SymbolSearchResult, error) {
	params := url.Values{}
	params.Set("function", "SYMBOL_SEARCH")
	params.Set("keywords", keywords)
	params.Set("apikey", c.apiKey)

	var payload struct {
		BestMatches []map[string]string `json:"bestMatches"`
	}
	if err := c.get(ctx, params, &payload); err != nil {
		return nil, err
	}

	results := make([]models.SymbolSearchResult, 0, len(payload.BestMatches))
	for _, m := range payload.BestMatches {
		results = append(results, models.SymbolSearchResult{
			Symbol: m["1. symbol"],
			Name:   m["2. name"],
			Type:   m["3. type"],
			Region: m["4. region"],
		})
	}
	return results, nil
}

func (c *AlphaVantageClient) get(ctx context.Context, params url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch market data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("market data request failed with status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode market data: %w", err)
	}
	return nil
}

func parseFloat(s string) float64 {
	v, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return v
}

func parseInt(s string) int64 {
	v, _ := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return v
}
