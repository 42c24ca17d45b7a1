package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"tradeup/internal/market"
)

const defaultCoinListSize = 50

// MarketHandler proxies market data lookups. Responses come straight from
// the upstream clients; the server adds no state of its own.
type MarketHandler struct {
	stocks *market.AlphaVantageClient
	crypto *market.CoinGeckoClient
}

// NewMarketHandler creates a new market handler
func NewMarketHandler(stocks *market.AlphaVantageClient, crypto *market.CoinGeckoClient) *MarketHandler {
	return &MarketHandler{stocks: stocks, crypto: crypto}
}

// GetQuote returns the latest quote for a stock symbol
func (h *MarketHandler) GetQuote(w http.ResponseWriter, r *http.Request) {
	symbol := r.PathValue("symbol")
	if symbol == "" {
		respondWithError(w, http.StatusBadRequest, "Symbol is required", "", nil)
		return
	}

	quote, err := h.stocks.GetQuote(r.Context(), symbol)
	if err != nil {
		if errors.Is(err, market.ErrSymbolNotFound) {
			respondWithError(w, http.StatusNotFound, "Symbol not found", "", nil)
			return
		}
		respondWithError(w, http.StatusBadGateway, "Market data unavailable", "quote lookup failed", err)
		return
	}
	respondWithJSON(w, http.StatusOK, quote)
}

// SearchSymbols searches stock symbols by keyword
func (h *MarketHandler) SearchSymbols(w http.ResponseWriter, r *http.Request) {
	keywords := r.URL.Query().Get("q")
	if keywords == "" {
		respondWithError(w, http.StatusBadRequest, "Query parameter q is required", "", nil)
		return
	}

	results, err := h.stocks.SearchSymbols(r.Context(), keywords)
	if err != nil {
		respondWithError(w, http.StatusBadGateway, "Market data unavailable", "symbol search failed", err)
		return
	}
	respondWithJSON(w, http.StatusOK, results)
}

// ListCoins returns the top crypto assets by market cap
func (h *MarketHandler) ListCoins(w http.ResponseWriter, r *http.Request) {
	limit := defaultCoinListSize
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 250 {
			respondWithError(w, http.StatusBadRequest, "Invalid limit", "", nil)
			return
		}
		limit = parsed
	}

	coins, err := h.crypto.ListCoins(r.Context(), limit)
	if err != nil {
		respondWithError(w, http.StatusBadGateway, "Market data unavailable", "coin listing failed", err)
		return
	}
	respondWithJSON(w, http.StatusOK, coins)
}
