package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"portfolio-service/internal/domain"
	"portfolio-service/pkg/xerrors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// AccountRepository defines persistence for liquidity accounts. Balance
// writes always go through a pgx.Tx supplied by the caller so they commit or
// roll back with the rest of the posting.
type AccountRepository interface {
	BeginTx(ctx context.Context) (pgx.Tx, error)

	Create(ctx context.Context, tx pgx.Tx, a *domain.LiquidityAccount) error
	GetByPortfolioAndID(ctx context.Context, portfolioID, id string) (*domain.LiquidityAccount, error)
	GetByPortfolioAndName(ctx context.Context, portfolioID, name string) (*domain.LiquidityAccount, error)
	ListByPortfolio(ctx context.Context, portfolioID string) ([]*domain.LiquidityAccount, error)
	Update(ctx context.Context, a *domain.LiquidityAccount) error
	Delete(ctx context.Context, portfolioID, id string) error

	// Locked reads for posting paths. The row is held FOR UPDATE until the
	// surrounding transaction finishes.
	GetByPortfolioAndNameForUpdate(ctx context.Context, tx pgx.Tx, portfolioID, name string) (*domain.LiquidityAccount, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id string) (*domain.LiquidityAccount, error)

	UpdateBalance(ctx context.Context, tx pgx.Tx, a *domain.LiquidityAccount) error
}

type accountRepo struct {
	db *pgxpool.Pool
}

func NewAccountRepo(db *pgxpool.Pool) AccountRepository {
	return &accountRepo{db: db}
}

func (r *accountRepo) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.ReadCommitted,
		AccessMode: pgx.ReadWrite,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

const accountColumns = `id, portfolio_id, name, institution, currency, balance::text, opened_at, closed_at, note, created_at, updated_at`

func scanAccount(row pgx.Row) (*domain.LiquidityAccount, error) {
	var a domain.LiquidityAccount
	var balance string
	err := row.Scan(&a.ID, &a.PortfolioID, &a.Name, &a.Institution, &a.Currency,
		&balance, &a.OpenedAt, &a.ClosedAt, &a.Note, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	a.Balance, err = decimal.NewFromString(balance)
	if err != nil {
		return nil, fmt.Errorf("failed to parse balance: %w", err)
	}
	return &a, nil
}

// Create inserts the account inside the caller's transaction so the opening
// balance effect can land atomically with the row.
func (r *accountRepo) Create(ctx context.Context, tx pgx.Tx, a *domain.LiquidityAccount) error {
	if tx == nil {
		return errors.New("transaction cannot be nil")
	}
	query := `INSERT INTO liquidity_accounts
		(id, portfolio_id, name, institution, currency, balance, opened_at, closed_at, note, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())`
	_, err := tx.Exec(ctx, query,
		a.ID, a.PortfolioID, a.Name, a.Institution, a.Currency,
		a.Balance.String(), a.OpenedAt, a.ClosedAt, a.Note)
	if err != nil {
		if xerrors.ParsePGErrorCode(err) == "23505" {
			return xerrors.ErrAccountExists
		}
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

func (r *accountRepo) GetByPortfolioAndID(ctx context.Context, portfolioID, id string) (*domain.LiquidityAccount, error) {
	query := `SELECT ` + accountColumns + ` FROM liquidity_accounts WHERE portfolio_id = $1 AND id = $2`
	a, err := scanAccount(r.db.QueryRow(ctx, query, portfolioID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, xerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return a, nil
}

func (r *accountRepo) GetByPortfolioAndName(ctx context.Context, portfolioID, name string) (*domain.LiquidityAccount, error) {
	query := `SELECT ` + accountColumns + ` FROM liquidity_accounts WHERE portfolio_id = $1 AND name = $2`
	a, err := scanAccount(r.db.QueryRow(ctx, query, portfolioID, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, xerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return a, nil
}

func (r *accountRepo) ListByPortfolio(ctx context.Context, portfolioID string) ([]*domain.LiquidityAccount, error) {
	query := `SELECT ` + accountColumns + ` FROM liquidity_accounts WHERE portfolio_id = $1 ORDER BY name ASC`
	rows, err := r.db.Query(ctx, query, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*domain.LiquidityAccount
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (r *accountRepo) Update(ctx context.Context, a *domain.LiquidityAccount) error {
	query := `UPDATE liquidity_accounts
		SET name = $1, institution = $2, currency = $3, opened_at = $4, closed_at = $5, note = $6, updated_at = NOW()
		WHERE id = $7 AND portfolio_id = $8`
	tag, err := r.db.Exec(ctx, query,
		a.Name, a.Institution, a.Currency, a.OpenedAt, a.ClosedAt, a.Note, a.ID, a.PortfolioID)
	if err != nil {
		if xerrors.ParsePGErrorCode(err) == "23505" {
			return xerrors.ErrAccountExists
		}
		return fmt.Errorf("failed to update account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

func (r *accountRepo) Delete(ctx context.Context, portfolioID, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM liquidity_accounts WHERE portfolio_id = $1 AND id = $2`, portfolioID, id)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

func (r *accountRepo) GetByPortfolioAndNameForUpdate(ctx context.Context, tx pgx.Tx, portfolioID, name string) (*domain.LiquidityAccount, error) {
	if tx == nil {
		return nil, errors.New("transaction cannot be nil")
	}
	query := `SELECT ` + accountColumns + ` FROM liquidity_accounts
		WHERE portfolio_id = $1 AND name = $2 FOR UPDATE`
	a, err := scanAccount(tx.QueryRow(ctx, query, portfolioID, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, xerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return a, nil
}

func (r *accountRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id string) (*domain.LiquidityAccount, error) {
	if tx == nil {
		return nil, errors.New("transaction cannot be nil")
	}
	query := `SELECT ` + accountColumns + ` FROM liquidity_accounts WHERE id = $1 FOR UPDATE`
	a, err := scanAccount(tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, xerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return a, nil
}

// UpdateBalance persists only the cached balance. It must run inside the
// transaction that also records the posting and its effect rows.
func (r *accountRepo) UpdateBalance(ctx context.Context, tx pgx.Tx, a *domain.LiquidityAccount) error {
	if tx == nil {
		return errors.New("transaction cannot be nil")
	}
	a.UpdatedAt = time.Now().UTC()
	tag, err := tx.Exec(ctx,
		`UPDATE liquidity_accounts SET balance = $1, updated_at = $2 WHERE id = $3`,
		a.Balance.String(), a.UpdatedAt, a.ID)
	if err != nil {
		return fmt.Errorf("failed to update balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}
