package repository

import (
	"context"
	"errors"
	"fmt"

	"portfolio-service/internal/domain"
	"portfolio-service/pkg/xerrors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PortfolioRepository resolves the caller's portfolio. Every user owns
// exactly one.
type PortfolioRepository interface {
	GetByUserID(ctx context.Context, userID string) (*domain.Portfolio, error)
	Create(ctx context.Context, p *domain.Portfolio) error
}

type portfolioRepo struct {
	db *pgxpool.Pool
}

func NewPortfolioRepo(db *pgxpool.Pool) PortfolioRepository {
	return &portfolioRepo{db: db}
}

func (r *portfolioRepo) GetByUserID(ctx context.Context, userID string) (*domain.Portfolio, error) {
	var p domain.Portfolio
	err := r.db.QueryRow(ctx,
		`SELECT id, user_id, name, created_at FROM portfolios WHERE user_id = $1`,
		userID).Scan(&p.ID, &p.UserID, &p.Name, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, xerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get portfolio: %w", err)
	}
	return &p, nil
}

func (r *portfolioRepo) Create(ctx context.Context, p *domain.Portfolio) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO portfolios (id, user_id, name, created_at) VALUES ($1, $2, $3, NOW())`,
		p.ID, p.UserID, p.Name)
	if err != nil {
		return fmt.Errorf("failed to create portfolio: %w", err)
	}
	return nil
}
