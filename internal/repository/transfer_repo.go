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

// TransferRepository persists dual-account postings. Transfers are scoped to
// a portfolio through their source account.
type TransferRepository interface {
	Create(ctx context.Context, tx pgx.Tx, t *domain.Transfer) error
	GetByIDAndPortfolio(ctx context.Context, id, portfolioID string) (*domain.Transfer, error)
	GetByIDAndPortfolioTx(ctx context.Context, tx pgx.Tx, id, portfolioID string) (*domain.Transfer, error)
	ListByPortfolio(ctx context.Context, portfolioID string) ([]*domain.Transfer, error)
	Update(ctx context.Context, tx pgx.Tx, t *domain.Transfer) error
	Delete(ctx context.Context, tx pgx.Tx, id string) error
}

type transferRepo struct {
	db *pgxpool.Pool
}

func NewTransferRepo(db *pgxpool.Pool) TransferRepository {
	return &transferRepo{db: db}
}

const transferColumns = `t.id, t.from_account_id, t.to_account_id, t.date, t.amount::text, t.note, t.created_at, t.updated_at`

func scanTransfer(row pgx.Row) (*domain.Transfer, error) {
	var t domain.Transfer
	var amount string
	err := row.Scan(&t.ID, &t.FromAccountID, &t.ToAccountID, &t.Date, &amount,
		&t.Note, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	t.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("failed to parse amount: %w", err)
	}
	return &t, nil
}

func (r *transferRepo) Create(ctx context.Context, tx pgx.Tx, t *domain.Transfer) error {
	if tx == nil {
		return errors.New("transaction cannot be nil")
	}
	query := `INSERT INTO transfers
		(id, from_account_id, to_account_id, date, amount, note, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())`
	_, err := tx.Exec(ctx, query,
		t.ID, t.FromAccountID, t.ToAccountID, t.Date, t.Amount.String(), t.Note)
	if err != nil {
		return fmt.Errorf("failed to create transfer: %w", err)
	}
	return nil
}

const transferByIDQuery = `SELECT ` + transferColumns + `
	FROM transfers t
	INNER JOIN liquidity_accounts a ON a.id = t.from_account_id
	WHERE t.id = $1 AND a.portfolio_id = $2`

func (r *transferRepo) GetByIDAndPortfolio(ctx context.Context, id, portfolioID string) (*domain.Transfer, error) {
	t, err := scanTransfer(r.db.QueryRow(ctx, transferByIDQuery, id, portfolioID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, xerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get transfer: %w", err)
	}
	return t, nil
}

func (r *transferRepo) GetByIDAndPortfolioTx(ctx context.Context, tx pgx.Tx, id, portfolioID string) (*domain.Transfer, error) {
	if tx == nil {
		return nil, errors.New("transaction cannot be nil")
	}
	t, err := scanTransfer(tx.QueryRow(ctx, transferByIDQuery, id, portfolioID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, xerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get transfer: %w", err)
	}
	return t, nil
}

func (r *transferRepo) ListByPortfolio(ctx context.Context, portfolioID string) ([]*domain.Transfer, error) {
	query := `SELECT ` + transferColumns + `
		FROM transfers t
		INNER JOIN liquidity_accounts a ON a.id = t.from_account_id
		WHERE a.portfolio_id = $1
		ORDER BY t.date DESC, t.created_at DESC`
	rows, err := r.db.Query(ctx, query, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transfers: %w", err)
	}
	defer rows.Close()

	var transfers []*domain.Transfer
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, err
		}
		transfers = append(transfers, t)
	}
	return transfers, rows.Err()
}

func (r *transferRepo) Update(ctx context.Context, tx pgx.Tx, t *domain.Transfer) error {
	if tx == nil {
		return errors.New("transaction cannot be nil")
	}
	query := `UPDATE transfers
		SET from_account_id = $1, to_account_id = $2, date = $3, amount = $4, note = $5, updated_at = NOW()
		WHERE id = $6`
	tag, err := tx.Exec(ctx, query,
		t.FromAccountID, t.ToAccountID, t.Date, t.Amount.String(), t.Note, t.ID)
	if err != nil {
		return fmt.Errorf("failed to update transfer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

func (r *transferRepo) Delete(ctx context.Context, tx pgx.Tx, id string) error {
	if tx == nil {
		return errors.New("transaction cannot be nil")
	}
	tag, err := tx.Exec(ctx, `DELETE FROM transfers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete transfer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}
