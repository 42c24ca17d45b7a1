package repository

import (
	"testing"
	"time"

	"tradeup/internal/models"
)

func TestSettleTradeIsAtomic(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := newTestDB(t)
	repo := NewPortfolioRepository(db)

	insertTestUser(t, db, "u-1", "SwiftBull42")
	portfolio, err := repo.CreatePortfolio("pf-1", "u-1", 10000)
	if err != nil {
		t.Fatalf("CreatePortfolio() error = %v", err)
	}

	executedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	holding := &models.Holding{
		ID:          "h-1",
		PortfolioID: portfolio.ID,
		Symbol:      "AAPL",
		AssetType:   "stock",
		Quantity:    10,
		AvgBuyPrice: 100,
	}
	portfolio.Balance = 9000
	trade := &models.Trade{
		ID:          "t-1",
		UserID:      "u-1",
		PortfolioID: portfolio.ID,
		Symbol:      "AAPL",
		AssetType:   "stock",
		TradeType:   models.TradeBuy,
		Quantity:    10,
		Price:       100,
		TotalValue:  1000,
		ExecutedAt:  executedAt,
	}
	if err := repo.SettleTrade(portfolio, holding, "", trade); err != nil {
		t.Fatalf("SettleTrade() error = %v", err)
	}

	// A second settlement reusing the trade ID fails on the final insert.
	// Nothing from it may stick: not the holding change, not the balance.
	holding.Quantity = 20
	holding.AvgBuyPrice = 105
	portfolio.Balance = 7900
	if err := repo.SettleTrade(portfolio, holding, "", trade); err == nil {
		t.Fatal("SettleTrade() with duplicate trade ID succeeded, want error")
	}

	stored, err := repo.GetPortfolioByUser("u-1")
	if err != nil {
		t.Fatalf("GetPortfolioByUser() error = %v", err)
	}
	if stored.Balance != 9000 {
		t.Errorf("Balance = %v, want 9000 (failed settlement rolled back)", stored.Balance)
	}

	storedHolding, err := repo.GetHolding(portfolio.ID, "AAPL")
	if err != nil {
		t.Fatalf("GetHolding() error = %v", err)
	}
	if storedHolding == nil {
		t.Fatal("GetHolding() = nil, want surviving position")
	}
	if storedHolding.Quantity != 10 || storedHolding.AvgBuyPrice != 100 {
		t.Errorf("holding = %v @ %v, want 10 @ 100 (failed settlement rolled back)",
			storedHolding.Quantity, storedHolding.AvgBuyPrice)
	}

	trades, err := repo.ListTrades("u-1", 10)
	if err != nil {
		t.Fatalf("ListTrades() error = %v", err)
	}
	if len(trades) != 1 {
		t.Errorf("ListTrades() returned %d trades, want 1", len(trades))
	}
}

func TestSettleTradeRemovesSoldOutPosition(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := newTestDB(t)
	repo := NewPortfolioRepository(db)

	insertTestUser(t, db, "u-1", "SwiftBull42")
	portfolio, err := repo.CreatePortfolio("pf-1", "u-1", 10000)
	if err != nil {
		t.Fatalf("CreatePortfolio() error = %v", err)
	}
	if err := repo.UpsertHolding(&models.Holding{
		ID:          "h-1",
		PortfolioID: portfolio.ID,
		Symbol:      "BTC",
		AssetType:   "crypto",
		Quantity:    2,
		AvgBuyPrice: 30000,
	}); err != nil {
		t.Fatalf("UpsertHolding() error = %v", err)
	}

	portfolio.Balance = 72000
	trade := &models.Trade{
		ID:          "t-sell",
		UserID:      "u-1",
		PortfolioID: portfolio.ID,
		Symbol:      "BTC",
		AssetType:   "crypto",
		TradeType:   models.TradeSell,
		Quantity:    2,
		Price:       31000,
		TotalValue:  62000,
		ExecutedAt:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	if err := repo.SettleTrade(portfolio, nil, "BTC", trade); err != nil {
		t.Fatalf("SettleTrade() error = %v", err)
	}

	storedHolding, err := repo.GetHolding(portfolio.ID, "BTC")
	if err != nil {
		t.Fatalf("GetHolding() error = %v", err)
	}
	if storedHolding != nil {
		t.Errorf("GetHolding() = %+v, want nil after full sell", storedHolding)
	}
}
