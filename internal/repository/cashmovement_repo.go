package repository

import (
	"context"
	"errors"
	"fmt"

	"portfolio-service/internal/domain"
	"portfolio-service/pkg/xerrors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// CashMovementRepository persists single-account postings. Movements are
// scoped to a portfolio through the account they reference.
type CashMovementRepository interface {
	Create(ctx context.Context, tx pgx.Tx, m *domain.CashMovement) error
	GetByIDAndPortfolio(ctx context.Context, id, portfolioID string) (*domain.CashMovement, error)
	GetByIDAndPortfolioTx(ctx context.Context, tx pgx.Tx, id, portfolioID string) (*domain.CashMovement, error)
	ListByPortfolio(ctx context.Context, portfolioID string) ([]*domain.CashMovement, error)
	Update(ctx context.Context, tx pgx.Tx, m *domain.CashMovement) error
	Delete(ctx context.Context, tx pgx.Tx, id string) error
}

type cashMovementRepo struct {
	db *pgxpool.Pool
}

func NewCashMovementRepo(db *pgxpool.Pool) CashMovementRepository {
	return &cashMovementRepo{db: db}
}

const movementColumns = `m.id, m.account_id, m.category_id, m.date, m.amount::text, m.direction, m.note, m.created_at, m.updated_at`

func scanMovement(row pgx.Row) (*domain.CashMovement, error) {
	var m domain.CashMovement
	var amount string
	err := row.Scan(&m.ID, &m.AccountID, &m.CategoryID, &m.Date, &amount,
		&m.Direction, &m.Note, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	m.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("failed to parse amount: %w", err)
	}
	return &m, nil
}

func (r *cashMovementRepo) Create(ctx context.Context, tx pgx.Tx, m *domain.CashMovement) error {
	if tx == nil {
		return errors.New("transaction cannot be nil")
	}
	query := `INSERT INTO cash_movements
		(id, account_id, category_id, date, amount, direction, note, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())`
	_, err := tx.Exec(ctx, query,
		m.ID, m.AccountID, m.CategoryID, m.Date, m.Amount.String(), m.Direction, m.Note)
	if err != nil {
		return fmt.Errorf("failed to create cash movement: %w", err)
	}
	return nil
}

const movementByIDQuery = `SELECT ` + movementColumns + `
	FROM cash_movements m
	INNER JOIN liquidity_accounts a ON a.id = m.account_id
	WHERE m.id = $1 AND a.portfolio_id = $2`

func (r *cashMovementRepo) GetByIDAndPortfolio(ctx context.Context, id, portfolioID string) (*domain.CashMovement, error) {
	m, err := scanMovement(r.db.QueryRow(ctx, movementByIDQuery, id, portfolioID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, xerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get cash movement: %w", err)
	}
	return m, nil
}

func (r *cashMovementRepo) GetByIDAndPortfolioTx(ctx context.Context, tx pgx.Tx, id, portfolioID string) (*domain.CashMovement, error) {
	if tx == nil {
		return nil, errors.New("transaction cannot be nil")
	}
	m, err := scanMovement(tx.QueryRow(ctx, movementByIDQuery, id, portfolioID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, xerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get cash movement: %w", err)
	}
	return m, nil
}

func (r *cashMovementRepo) ListByPortfolio(ctx context.Context, portfolioID string) ([]*domain.CashMovement, error) {
	query := `SELECT ` + movementColumns + `
		FROM cash_movements m
		INNER JOIN liquidity_accounts a ON a.id = m.account_id
		WHERE a.portfolio_id = $1
		ORDER BY m.date DESC, m.created_at DESC`
	rows, err := r.db.Query(ctx, query, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cash movements: %w", err)
	}
	defer rows.Close()

	var movements []*domain.CashMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, err
		}
		movements = append(movements, m)
	}
	return movements, rows.Err()
}

// Update rewrites the mutable fields of a movement. The account reference is
// immutable: a movement cannot be moved to a different account.
func (r *cashMovementRepo) Update(ctx context.Context, tx pgx.Tx, m *domain.CashMovement) error {
	if tx == nil {
		return errors.New("transaction cannot be nil")
	}
	query := `UPDATE cash_movements
		SET date = $1, amount = $2, direction = $3, category_id = $4, note = $5, updated_at = NOW()
		WHERE id = $6`
	tag, err := tx.Exec(ctx, query,
		m.Date, m.Amount.String(), m.Direction, m.CategoryID, m.Note, m.ID)
	if err != nil {
		return fmt.Errorf("failed to update cash movement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

func (r *cashMovementRepo) Delete(ctx context.Context, tx pgx.Tx, id string) error {
	if tx == nil {
		return errors.New("transaction cannot be nil")
	}
	tag, err := tx.Exec(ctx, `DELETE FROM cash_movements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete cash movement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}
