// internal/domain/operation.go
package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// EffectDirection is the sign of a balance mutation.
type EffectDirection string

const (
	EffectIncrease EffectDirection = "INCREASE"
	EffectDecrease EffectDirection = "DECREASE"
)

// Valid reports whether the direction is one of the two known values.
func (d EffectDirection) Valid() bool {
	return d == EffectIncrease || d == EffectDecrease
}

// Reverse returns the opposite direction. It is used to compute the inverse
// effect when a posting is updated or removed. Unknown directions are
// returned unchanged so the balance primitive can reject them.
func (d EffectDirection) Reverse() EffectDirection {
	switch d {
	case EffectIncrease:
		return EffectDecrease
	case EffectDecrease:
		return EffectIncrease
	default:
		return d
	}
}

// MovementDirection tags a cash movement as money in or money out.
type MovementDirection string

const (
	MovementIncome  MovementDirection = "INCOME"
	MovementOutcome MovementDirection = "OUTCOME"
)

// Effect maps a movement direction onto its balance effect:
// INCOME increases the account, OUTCOME decreases it.
func (d MovementDirection) Effect() EffectDirection {
	switch d {
	case MovementIncome:
		return EffectIncrease
	case MovementOutcome:
		return EffectDecrease
	default:
		return EffectDirection(d)
	}
}

func ParseMovementDirection(s string) (MovementDirection, error) {
	switch MovementDirection(s) {
	case MovementIncome:
		return MovementIncome, nil
	case MovementOutcome:
		return MovementOutcome, nil
	default:
		return "", fmt.Errorf("unknown cash movement direction: %q", s)
	}
}

// CashMovement is a single-account posting. Its stored (amount, direction,
// account) triple is all that is needed to compute both its original effect
// and its inverse at update or delete time.
type CashMovement struct {
	ID         string            `json:"id"`
	AccountID  string            `json:"account_id"`
	CategoryID *string           `json:"category_id,omitempty"`
	Date       time.Time         `json:"date"`
	Amount     decimal.Decimal   `json:"amount"` // non-negative
	Direction  MovementDirection `json:"direction"`
	Note       string            `json:"note,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// Transfer is a dual-account value-conserving posting: the amount leaves
// FromAccountID and arrives on ToAccountID, so the sum of both balances is
// unchanged by the posting.
type Transfer struct {
	ID            string          `json:"id"`
	FromAccountID string          `json:"from_account_id"`
	ToAccountID   string          `json:"to_account_id"`
	Date          time.Time       `json:"date"`
	Amount        decimal.Decimal `json:"amount"` // unsigned
	Note          string          `json:"note,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Operation kinds recorded on balance effects.
const (
	OperationCashMovement = "cash_movement"
	OperationTransfer     = "transfer"
	OperationOpening      = "opening"
)

// BalanceEffect is one signed, append-only effect record. Every posting
// writes its effects in the same transaction that moves the cached balance,
// so folding the effects of an account always reproduces its balance.
type BalanceEffect struct {
	ID            string          `json:"id"`
	AccountID     string          `json:"account_id"`
	OperationID   string          `json:"operation_id"`
	OperationKind string          `json:"operation_kind"`
	Amount        decimal.Decimal `json:"amount"` // signed
	CreatedAt     time.Time       `json:"created_at"`
}

// SignedAmount returns amount with the sign the direction implies.
func SignedAmount(amount decimal.Decimal, direction EffectDirection) decimal.Decimal {
	if direction == EffectDecrease {
		return amount.Neg()
	}
	return amount
}
