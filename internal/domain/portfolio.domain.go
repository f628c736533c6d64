// internal/domain/portfolio.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Portfolio is the ownership scope for accounts, postings and assets.
// Every user owns exactly one.
type Portfolio struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// PortfolioSummary is the cached net-worth view of a portfolio.
type PortfolioSummary struct {
	PortfolioID   string             `json:"portfolio_id"`
	LiquidTotal   decimal.Decimal    `json:"liquid_total"`
	IlliquidTotal decimal.Decimal    `json:"illiquid_total"`
	NetWorth      decimal.Decimal    `json:"net_worth"`
	Accounts      []LiquidityAccount `json:"accounts"`
	Assets        []IlliquidAsset    `json:"assets"`
	GeneratedAt   time.Time          `json:"generated_at"`
}

// BalanceAudit compares an account's cached balance with the fold over its
// effect records.
type BalanceAudit struct {
	AccountID  string          `json:"account_id"`
	Cached     decimal.Decimal `json:"cached_balance"`
	Derived    decimal.Decimal `json:"derived_balance"`
	Consistent bool            `json:"consistent"`
}
