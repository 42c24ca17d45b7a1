package repository

import (
	"database/sql"
	"fmt"
	"time"

	"tradeup/internal/database"
	"tradeup/internal/models"
)

// PortfolioRepository handles database operations for paper trading
type PortfolioRepository struct {
	db *database.DB
}

// NewPortfolioRepository creates a new portfolio repository
func NewPortfolioRepository(db *database.DB) *PortfolioRepository {
	return &PortfolioRepository{db: db}
}

// CreatePortfolio opens a paper trading account with the given starting balance
func (r *PortfolioRepository) CreatePortfolio(id, userID string, startingBalance float64) (*models.Portfolio, error) {
	query := `
		INSERT INTO portfolios (id, user_id, balance, total_value, total_profit_loss)
		VALUES (?, ?, ?, ?, 0)
	`
	_, err := r.db.Exec(query, id, userID, startingBalance, startingBalance)
	if err != nil {
		return nil, fmt.Errorf("failed to create portfolio: %w", err)
	}

	return &models.Portfolio{
		ID:         id,
		UserID:     userID,
		Balance:    startingBalance,
		TotalValue: startingBalance,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}, nil
}

// GetPortfolioByUser retrieves a user's portfolio, or nil if none exists
func (r *PortfolioRepository) GetPortfolioByUser(userID string) (*models.Portfolio, error) {
	query := `
		SELECT id, user_id, balance, total_value, total_profit_loss, created_at, updated_at
		FROM portfolios
		WHERE user_id = ?
	`
	portfolio := &models.Portfolio{}
	err := r.db.QueryRow(query, userID).Scan(
		&portfolio.ID,
		&portfolio.UserID,
		&portfolio.Balance,
		&portfolio.TotalValue,
		&portfolio.TotalProfitLoss,
		&portfolio.CreatedAt,
		&portfolio.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get portfolio: %w", err)
	}

	return portfolio, nil
}

// UpdatePortfolio writes back balance and valuation fields
func (r *PortfolioRepository) UpdatePortfolio(portfolio *models.Portfolio) error {
	return updatePortfolio(r.db, portfolio)
}

func updatePortfolio(q database.DBTX, portfolio *models.Portfolio) error {
	query := `
		UPDATE portfolios
		SET balance = ?, total_value = ?, total_profit_loss = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`
	_, err := q.Exec(query,
		portfolio.Balance, portfolio.TotalValue, portfolio.TotalProfitLoss, portfolio.ID)
	if err != nil {
		return fmt.Errorf("failed to update portfolio: %w", err)
	}
	return nil
}

// GetHolding retrieves an open position, or nil if the symbol is not held
func (r *PortfolioRepository) GetHolding(portfolioID, symbol string) (*models.Holding, error) {
	query := `
		SELECT id, portfolio_id, symbol, asset_type, quantity, avg_buy_price, updated_at
		FROM portfolio_holdings
		WHERE portfolio_id = ? AND symbol = ?
	`
	holding := &models.Holding{}
	err := r.db.QueryRow(query, portfolioID, symbol).Scan(
		&holding.ID,
		&holding.PortfolioID,
		&holding.Symbol,
		&holding.AssetType,
		&holding.Quantity,
		&holding.AvgBuyPrice,
		&holding.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get holding: %w", err)
	}

	return holding, nil
}

// ListHoldings retrieves all open positions for a portfolio
func (r *PortfolioRepository) ListHoldings(portfolioID string) ([]models.Holding, error) {
	query := `
		SELECT id, portfolio_id, symbol, asset_type, quantity, avg_buy_price, updated_at
		FROM portfolio_holdings
		WHERE portfolio_id = ?
		ORDER BY symbol
	`
	rows, err := r.db.Query(query, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("failed to query holdings: %w", err)
	}
	defer rows.Close()

	var holdings []models.Holding
	for rows.Next() {
		var h models.Holding
		if err := rows.Scan(
			&h.ID,
			&h.PortfolioID,
			&h.Symbol,
			&h.AssetType,
			&h.Quantity,
			&h.AvgBuyPrice,
			&h.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan holding: %w", err)
		}
		holdings = append(holdings, h)
	}

	return holdings, rows.Err()
}

// UpsertHolding inserts or updates an open position
func (r *PortfolioRepository) UpsertHolding(holding *models.Holding) error {
	return upsertHolding(r.db, holding)
}

func upsertHolding(q database.DBTX, holding *models.Holding) error {
	updateQuery := `
		UPDATE portfolio_holdings
		SET asset_type = ?, quantity = ?, avg_buy_price = ?, updated_at = CURRENT_TIMESTAMP
		WHERE portfolio_id = ? AND symbol = ?
	`
	result, err := q.Exec(updateQuery,
		holding.AssetType, holding.Quantity, holding.AvgBuyPrice,
		holding.PortfolioID, holding.Symbol)
	if err != nil {
		return fmt.Errorf("failed to update holding: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check holding update: %w", err)
	}
	if affected > 0 {
		return nil
	}

	insertQuery := `
		INSERT INTO portfolio_holdings (id, portfolio_id, symbol, asset_type, quantity, avg_buy_price)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err = q.Exec(insertQuery,
		holding.ID, holding.PortfolioID, holding.Symbol, holding.AssetType,
		holding.Quantity, holding.AvgBuyPrice)
	if err != nil {
		return fmt.Errorf("failed to insert holding: %w", err)
	}
	return nil
}

// DeleteHolding removes a fully sold position
func (r *PortfolioRepository) DeleteHolding(portfolioID, symbol string) error {
	return deleteHolding(r.db, portfolioID, symbol)
}

func deleteHolding(q database.DBTX, portfolioID, symbol string) error {
	query := "DELETE FROM portfolio_holdings WHERE portfolio_id = ? AND symbol = ?"
	_, err := q.Exec(query, portfolioID, symbol)
	if err != nil {
		return fmt.Errorf("failed to delete holding: %w", err)
	}
	return nil
}

// RecordTrade appends an executed trade to the history
func (r *PortfolioRepository) RecordTrade(trade *models.Trade) error {
	return recordTrade(r.db, trade)
}

func recordTrade(q database.DBTX, trade *models.Trade) error {
	query := `
		INSERT INTO paper_trades (id, user_id, portfolio_id, symbol, asset_type,
			trade_type, quantity, price, total_value, executed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := q.Exec(query,
		trade.ID, trade.UserID, trade.PortfolioID, trade.Symbol, trade.AssetType,
		trade.TradeType, trade.Quantity, trade.Price, trade.TotalValue, trade.ExecutedAt)
	if err != nil {
		return fmt.Errorf("failed to record trade: %w", err)
	}
	return nil
}

// SettleTrade applies every write of one executed trade in a single
// transaction. Either the holding change, the portfolio balance update and
// the trade record all land, or none of them do. Exactly one of holding
// and removeSymbol should be set; holding nil with an empty removeSymbol
// leaves the positions untouched.
func (r *PortfolioRepository) SettleTrade(portfolio *models.Portfolio, holding *models.Holding, removeSymbol string, trade *models.Trade) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin trade settlement: %w", err)
	}
	defer tx.Rollback()

	if holding != nil {
		if err := upsertHolding(tx, holding); err != nil {
			return err
		}
	}
	if removeSymbol != "" {
		if err := deleteHolding(tx, portfolio.ID, removeSymbol); err != nil {
			return err
		}
	}
	if err := updatePortfolio(tx, portfolio); err != nil {
		return err
	}
	if err := recordTrade(tx, trade); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit trade settlement: %w", err)
	}
	return nil
}

// ListTrades retrieves a user's trade history, newest first
func (r *PortfolioRepository) ListTrades(userID string, limit int) ([]models.Trade, error) {
	query := `
		SELECT id, user_id, portfolio_id, symbol, asset_type, trade_type,
		       quantity, price, total_value, executed_at
		FROM paper_trades
		WHERE user_id = ?
		ORDER BY executed_at DESC
		LIMIT ?
	`
	rows, err := r.db.Query(query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query trades: %w", err)
	}
	defer rows.Close()

	var trades []models.Trade
	for rows.Next() {
		var t models.Trade
		if err := rows.Scan(
			&t.ID,
			&t.UserID,
			&t.PortfolioID,
			&t.Symbol,
			&t.AssetType,
			&t.TradeType,
			&t.Quantity,
			&t.Price,
			&t.TotalValue,
			&t.ExecutedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan trade: %w", err)
		}
		trades = append(trades, t)
	}

	return trades, rows.Err()
}
