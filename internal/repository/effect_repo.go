package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"portfolio-service/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// EffectRepository stores the append-only signed effect records behind each
// cached balance. Folding an account's effects reproduces its balance.
type EffectRepository interface {
	Append(ctx context.Context, tx pgx.Tx, e *domain.BalanceEffect) error
	DeleteByOperation(ctx context.Context, tx pgx.Tx, operationID string) error
	ListByAccount(ctx context.Context, accountID string) ([]*domain.BalanceEffect, error)
	SumByAccount(ctx context.Context, accountID string) (decimal.Decimal, error)
}

type effectRepo struct {
	db *pgxpool.Pool
}

func NewEffectRepo(db *pgxpool.Pool) EffectRepository {
	return &effectRepo{db: db}
}

// Append inserts a new effect record inside a transaction
func (r *effectRepo) Append(ctx context.Context, tx pgx.Tx, e *domain.BalanceEffect) error {
	if tx == nil {
		return errors.New("transaction cannot be nil")
	}
	_, err := tx.Exec(ctx, `
		INSERT INTO balance_effects (id, account_id, operation_id, operation_kind, amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, e.ID, e.AccountID, e.OperationID, e.OperationKind, e.Amount.String(), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to append balance effect: %w", err)
	}
	return nil
}

// DeleteByOperation drops the effect rows of a posting that is being updated
// or removed. Runs in the same transaction as the replacement appends.
func (r *effectRepo) DeleteByOperation(ctx context.Context, tx pgx.Tx, operationID string) error {
	if tx == nil {
		return errors.New("transaction cannot be nil")
	}
	_, err := tx.Exec(ctx, `DELETE FROM balance_effects WHERE operation_id = $1`, operationID)
	if err != nil {
		return fmt.Errorf("failed to delete balance effects: %w", err)
	}
	return nil
}

func (r *effectRepo) ListByAccount(ctx context.Context, accountID string) ([]*domain.BalanceEffect, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, account_id, operation_id, operation_kind, amount::text, created_at
		FROM balance_effects
		WHERE account_id = $1
		ORDER BY created_at ASC
	`, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list balance effects: %w", err)
	}
	defer rows.Close()

	var effects []*domain.BalanceEffect
	for rows.Next() {
		var e domain.BalanceEffect
		var amount string
		if err := rows.Scan(&e.ID, &e.AccountID, &e.OperationID, &e.OperationKind, &amount, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("failed to parse effect amount: %w", err)
		}
		effects = append(effects, &e)
	}
	return effects, rows.Err()
}

// SumByAccount folds the signed effects of an account into a balance.
func (r *effectRepo) SumByAccount(ctx context.Context, accountID string) (decimal.Decimal, error) {
	var sum string
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0)::text FROM balance_effects WHERE account_id = $1
	`, accountID).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum balance effects: %w", err)
	}
	return decimal.NewFromString(sum)
}
