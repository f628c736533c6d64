// internal/domain/account.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LiquidityAccount is a cash-like account holding a cached balance in one
// currency. The balance is maintained incrementally by the ledger usecases
// and must equal the sum of all posted effects against the account.
type LiquidityAccount struct {
	ID          string          `json:"id"`
	PortfolioID string          `json:"portfolio_id"`
	Name        string          `json:"name"` // unique within the portfolio
	Institution string          `json:"institution"`
	Currency    string          `json:"currency"`
	Balance     decimal.Decimal `json:"balance"`
	OpenedAt    *time.Time      `json:"opened_at,omitempty"`
	ClosedAt    *time.Time      `json:"closed_at,omitempty"`
	Note        string          `json:"note,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
