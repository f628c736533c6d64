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

// AssetRepository persists illiquid assets. Assets carry no ledger effects;
// only their estimated value feeds the portfolio summary.
type AssetRepository interface {
	Create(ctx context.Context, a *domain.IlliquidAsset) error
	GetByPortfolioAndID(ctx context.Context, portfolioID, id string) (*domain.IlliquidAsset, error)
	ListByPortfolio(ctx context.Context, portfolioID string) ([]*domain.IlliquidAsset, error)
	Update(ctx context.Context, a *domain.IlliquidAsset) error
	Delete(ctx context.Context, portfolioID, id string) error
}

type assetRepo struct {
	db *pgxpool.Pool
}

func NewAssetRepo(db *pgxpool.Pool) AssetRepository {
	return &assetRepo{db: db}
}

func scanAsset(row pgx.Row) (*domain.IlliquidAsset, error) {
	var a domain.IlliquidAsset
	var value string
	err := row.Scan(&a.ID, &a.PortfolioID, &a.Name, &a.Description, &value, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	a.EstimatedValue, err = decimal.NewFromString(value)
	if err != nil {
		return nil, fmt.Errorf("failed to parse estimated value: %w", err)
	}
	return &a, nil
}

func (r *assetRepo) Create(ctx context.Context, a *domain.IlliquidAsset) error {
	query := `INSERT INTO illiquid_assets (id, portfolio_id, name, description, estimated_value, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())`
	_, err := r.db.Exec(ctx, query, a.ID, a.PortfolioID, a.Name, a.Description, a.EstimatedValue.String())
	if err != nil {
		return fmt.Errorf("failed to create asset: %w", err)
	}
	return nil
}

func (r *assetRepo) GetByPortfolioAndID(ctx context.Context, portfolioID, id string) (*domain.IlliquidAsset, error) {
	query := `SELECT id, portfolio_id, name, description, estimated_value::text, created_at, updated_at
		FROM illiquid_assets WHERE portfolio_id = $1 AND id = $2`
	a, err := scanAsset(r.db.QueryRow(ctx, query, portfolioID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, xerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get asset: %w", err)
	}
	return a, nil
}

func (r *assetRepo) ListByPortfolio(ctx context.Context, portfolioID string) ([]*domain.IlliquidAsset, error) {
	query := `SELECT id, portfolio_id, name, description, estimated_value::text, created_at, updated_at
		FROM illiquid_assets WHERE portfolio_id = $1 ORDER BY name ASC`
	rows, err := r.db.Query(ctx, query, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	defer rows.Close()

	var assets []*domain.IlliquidAsset
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		assets = append(assets, a)
	}
	return assets, rows.Err()
}

func (r *assetRepo) Update(ctx context.Context, a *domain.IlliquidAsset) error {
	query := `UPDATE illiquid_assets SET name = $1, description = $2, estimated_value = $3, updated_at = NOW()
		WHERE id = $4 AND portfolio_id = $5`
	tag, err := r.db.Exec(ctx, query, a.Name, a.Description, a.EstimatedValue.String(), a.ID, a.PortfolioID)
	if err != nil {
		return fmt.Errorf("failed to update asset: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

func (r *assetRepo) Delete(ctx context.Context, portfolioID, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM illiquid_assets WHERE portfolio_id = $1 AND id = $2`, portfolioID, id)
	if err != nil {
		return fmt.Errorf("failed to delete asset: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}
