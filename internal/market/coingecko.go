package market

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"tradeup/internal/models"
)

// CoinGeckoClient fetches crypto market listings
type CoinGeckoClient struct {
	baseURL string
	client  *http.Client
}

// NewCoinGeckoClient creates a client for the given API base URL
func NewCoinGeckoClient(baseURL string) *CoinGeckoClient {
	return &CoinGeckoClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// coinMarket is the relevant subset of the /coins/markets response
type coinMarket struct {
	ID                string  `json:"id"`
	Symbol            string  `json:"symbol"`
	Name              string  `json:"name"`
	CurrentPrice      float64 `json:"current_price"`
	PriceChangePct24h float64 `json:"price_change_percentage_24h"`
	MarketCap         float64 `json:"market_cap"`
	SparklineIn7d     *struct {
		Price []float64 `json:"price"`
	} `json:"sparkline_in_7d"`
}

// ListCoins fetches the top crypto assets by market cap, with 7 day
// sparkline history
func (c *CoinGeckoClient) ListCoins(ctx context.Context, limit int) ([]models.CryptoListing, error) {
	params := url.Values{}
	params.Set("vs_currency", "usd")
	params.Set("order", "market_cap_desc")
	params.Set("per_page", strconv.Itoa(limit))
	params.Set("page", "1")
	params.Set("sparkline", "true")

	endpoint := c.baseURL + "/coins/markets?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch coin listings: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("coin listing request failed with status %d", resp.StatusCode)
	}

	var coins []coinMarket
	if err := json.NewDecoder(resp.Body).Decode(&coins); err != nil {
		return nil, fmt.Errorf("failed to decode coin listings: %w", err)
	}

	listings := make([]models.CryptoListing, 0, len(coins))
	for _, coin := range coins {
		listing := models.CryptoListing{
			ID:            coin.ID,
			Symbol:        coin.Symbol,
			Name:          coin.Name,
			Price:         coin.CurrentPrice,
			ChangePercent: coin.PriceChangePct24h,
			MarketCap:     coin.MarketCap,
		}
		if coin.SparklineIn7d != nil {
			listing.Sparkline = coin.SparklineIn7d.Price
		}
		listings = append(listings, listing)
	}
	return listings, nil
}
