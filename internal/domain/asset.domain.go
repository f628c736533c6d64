// internal/domain/asset.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// IlliquidAsset is a valued, non-posting asset (property, vehicle). It never
// receives ledger effects; only its estimated value feeds the portfolio
// summary.
type IlliquidAsset struct {
	ID             string          `json:"id"`
	PortfolioID    string          `json:"portfolio_id"`
	Name           string          `json:"name"`
	Description    string          `json:"description,omitempty"`
	EstimatedValue decimal.Decimal `json:"estimated_value"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
