package models

import "time"

// Portfolio is a user's paper-trading account
type Portfolio struct {
	ID              string
	UserID          string
	Balance         float64
	TotalValue      float64
	TotalProfitLoss float64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Holding is an open position within a portfolio
type Holding struct {
	ID          string
	PortfolioID string
	Symbol      string
	AssetType   string
	Quantity    float64
	AvgBuyPrice float64
	UpdatedAt   time.Time
}

// TradeType distinguishes buys from sells
type TradeType string

const (
	TradeBuy  TradeType = "buy"
	TradeSell TradeType = "sell"
)

// Trade is one executed paper trade
type Trade struct {
	ID          string
	UserID      string
	PortfolioID string
	Symbol      string
	AssetType   string
	TradeType   TradeType
	Quantity    float64
	Price       float64
	TotalValue  float64
	ExecutedAt  time.Time
}
