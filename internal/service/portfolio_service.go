package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"tradeup/internal/models"
	"tradeup/internal/repository"
)

var (
	ErrInsufficientFunds    = errors.New("insufficient balance for trade")
	ErrInsufficientHoldings = errors.New("not enough shares to sell")
)

// StartingBalance is the paper money every new portfolio opens with
const StartingBalance = 10000

// PortfolioService executes paper trades against a user's practice account
type PortfolioService struct {
	repo *repository.PortfolioRepository
}

// NewPortfolioService creates a portfolio service
func NewPortfolioService(repo *repository.PortfolioRepository) *PortfolioService {
	return &PortfolioService{repo: repo}
}

// GetPortfolio returns the user's portfolio, opening one on first access
func (s *PortfolioService) GetPortfolio(userID string) (*models.Portfolio, error) {
	portfolio, err := s.repo.GetPortfolioByUser(userID)
	if err != nil {
		return nil, err
	}
	if portfolio == nil {
		portfolio, err = s.repo.CreatePortfolio(uuid.New().String(), userID, StartingBalance)
		if err != nil {
			return nil, err
		}
	}
	return portfolio, nil
}

// GetHoldings returns the open positions in the user's portfolio
func (s *PortfolioService) GetHoldings(userID string) ([]models.Holding, error) {
	portfolio, err := s.GetPortfolio(userID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListHoldings(portfolio.ID)
}

// GetTrades returns the user's trade history, newest first
func (s *PortfolioService) GetTrades(userID string, limit int) ([]models.Trade, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.repo.ListTrades(userID, limit)
}

// ExecuteTrade settles a buy or sell at the given price. Buys merge into
// the existing position at a volume weighted average price; sells realize
// profit or loss against that average.
func (s *PortfolioService) ExecuteTrade(userID, symbol, assetType string, tradeType models.TradeType, quantity, price float64, now time.Time) (*models.Trade, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive, got %v", quantity)
	}
	if price <= 0 {
		return nil, fmt.Errorf("price must be positive, got %v", price)
	}
	if tradeType != models.TradeBuy && tradeType != models.TradeSell {
		return nil, fmt.Errorf("unknown trade type %q", tradeType)
	}

	portfolio, err := s.GetPortfolio(userID)
	if err != nil {
		return nil, err
	}

	total := quantity * price
	holding, err := s.repo.GetHolding(portfolio.ID, symbol)
	if err != nil {
		return nil, err
	}

	// The new state is computed up front and written in one transaction,
	// so a storage failure never leaves the position and balance out of
	// step.
	var upsert *models.Holding
	var removeSymbol string

	switch tradeType {
	case models.TradeBuy:
		if portfolio.Balance < total {
			return nil, ErrInsufficientFunds
		}
		portfolio.Balance -= total

		if holding == nil {
			upsert = &models.Holding{
				ID:          uuid.New().String(),
				PortfolioID: portfolio.ID,
				Symbol:      symbol,
				AssetType:   assetType,
				Quantity:    quantity,
				AvgBuyPrice: price,
			}
		} else {
			newQuantity := holding.Quantity + quantity
			holding.AvgBuyPrice = (holding.Quantity*holding.AvgBuyPrice + total) / newQuantity
			holding.Quantity = newQuantity
			upsert = holding
		}

	case models.TradeSell:
		if holding == nil || holding.Quantity < quantity {
			return nil, ErrInsufficientHoldings
		}
		portfolio.Balance += total
		portfolio.TotalProfitLoss += (price - holding.AvgBuyPrice) * quantity

		holding.Quantity -= quantity
		if holding.Quantity > 1e-9 {
			upsert = holding
		} else {
			removeSymbol = symbol
		}
	}

	// Book value: cash plus open positions at their average cost, with the
	// traded symbol replaced by its post-trade state
	holdings, err := s.repo.ListHoldings(portfolio.ID)
	if err != nil {
		return nil, err
	}
	portfolio.TotalValue = portfolio.Balance
	for _, h := range holdings {
		if h.Symbol == symbol {
			continue
		}
		portfolio.TotalValue += h.Quantity * h.AvgBuyPrice
	}
	if upsert != nil {
		portfolio.TotalValue += upsert.Quantity * upsert.AvgBuyPrice
	}

	trade := &models.Trade{
		ID:          uuid.New().String(),
		UserID:      userID,
		PortfolioID: portfolio.ID,
		Symbol:      symbol,
		AssetType:   assetType,
		TradeType:   tradeType,
		Quantity:    quantity,
		Price:       price,
		TotalValue:  total,
		ExecutedAt:  now,
	}
	if err := s.repo.SettleTrade(portfolio, upsert, removeSymbol, trade); err != nil {
		return nil, err
	}
	return trade, nil
}
