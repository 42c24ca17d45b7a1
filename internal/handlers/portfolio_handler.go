package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"tradeup/internal/models"
	"tradeup/internal/service"
)

// PortfolioHandler serves the paper-trading account
type PortfolioHandler struct {
	portfolioService *service.PortfolioService
}

// NewPortfolioHandler creates a new portfolio handler
func NewPortfolioHandler(portfolioService *service.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{portfolioService: portfolioService}
}

// GetPortfolio returns the account summary, creating it on first access
func (h *PortfolioHandler) GetPortfolio(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())

	portfolio, err := h.portfolioService.GetPortfolio(userID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "failed to load portfolio", err)
		return
	}
	respondWithJSON(w, http.StatusOK, newPortfolioView(portfolio))
}

// GetHoldings returns the open positions
func (h *PortfolioHandler) GetHoldings(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())

	holdings, err := h.portfolioService.GetHoldings(userID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "failed to load holdings", err)
		return
	}
	respondWithJSON(w, http.StatusOK, newHoldingViews(holdings))
}

// GetTrades returns recent trades, newest first
func (h *PortfolioHandler) GetTrades(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			respondWithError(w, http.StatusBadRequest, "Invalid limit", "", nil)
			return
		}
		limit = parsed
	}

	trades, err := h.portfolioService.GetTrades(userID, limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "failed to load trades", err)
		return
	}

	views := make([]TradeView, 0, len(trades))
	for _, trade := range trades {
		views = append(views, newTradeView(trade))
	}
	respondWithJSON(w, http.StatusOK, views)
}

type tradeRequest struct {
	Symbol    string  `json:"symbol"`
	AssetType string  `json:"assetType"`
	TradeType string  `json:"tradeType"`
	Quantity  float64 `json:"quantity"`
	Price     float64 `json:"price"`
}

type tradeResponse struct {
	Trade     TradeView     `json:"trade"`
	Portfolio PortfolioView `json:"portfolio"`
}

// ExecuteTrade runs a paper buy or sell at the submitted price
func (h *PortfolioHandler) ExecuteTrade(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())

	var req tradeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidJSON, "", err)
		return
	}

	tradeType := models.TradeType(req.TradeType)
	if tradeType != models.TradeBuy && tradeType != models.TradeSell {
		respondWithError(w, http.StatusBadRequest, "Trade type must be buy or sell", "", nil)
		return
	}
	if req.Symbol == "" {
		respondWithError(w, http.StatusBadRequest, "Symbol is required", "", nil)
		return
	}
	if req.Quantity <= 0 || req.Price <= 0 {
		respondWithError(w, http.StatusBadRequest, "Quantity and price must be positive", "", nil)
		return
	}

	trade, err := h.portfolioService.ExecuteTrade(userID, req.Symbol, req.AssetType, tradeType, req.Quantity, req.Price, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInsufficientFunds):
			respondWithError(w, http.StatusConflict, "Insufficient funds", "", nil)
		case errors.Is(err, service.ErrInsufficientHoldings):
			respondWithError(w, http.StatusConflict, "Insufficient holdings", "", nil)
		default:
			respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "trade failed", err)
		}
		return
	}

	portfolio, err := h.portfolioService.GetPortfolio(userID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "failed to reload portfolio", err)
		return
	}

	respondWithJSON(w, http.StatusOK, tradeResponse{
		Trade:     newTradeView(*trade),
		Portfolio: newPortfolioView(portfolio),
	})
}
