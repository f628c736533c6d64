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

// CategoryRepository persists user-scoped movement categories.
type CategoryRepository interface {
	Create(ctx context.Context, c *domain.Category) error
	GetByUserAndID(ctx context.Context, userID, id string) (*domain.Category, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Category, error)
	Update(ctx context.Context, c *domain.Category) error
	Delete(ctx context.Context, userID, id string) error
}

type categoryRepo struct {
	db *pgxpool.Pool
}

func NewCategoryRepo(db *pgxpool.Pool) CategoryRepository {
	return &categoryRepo{db: db}
}

func (r *categoryRepo) Create(ctx context.Context, c *domain.Category) error {
	query := `INSERT INTO categories (id, user_id, parent_id, name, color, type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())`
	_, err := r.db.Exec(ctx, query, c.ID, c.UserID, c.ParentID, c.Name, c.Color, c.Type)
	if err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

func (r *categoryRepo) GetByUserAndID(ctx context.Context, userID, id string) (*domain.Category, error) {
	var c domain.Category
	query := `SELECT id, user_id, parent_id, name, color, type, created_at, updated_at
		FROM categories WHERE user_id = $1 AND id = $2`
	err := r.db.QueryRow(ctx, query, userID, id).Scan(
		&c.ID, &c.UserID, &c.ParentID, &c.Name, &c.Color, &c.Type, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, xerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return &c, nil
}

func (r *categoryRepo) ListByUser(ctx context.Context, userID string) ([]*domain.Category, error) {
	query := `SELECT id, user_id, parent_id, name, color, type, created_at, updated_at
		FROM categories WHERE user_id = $1 ORDER BY name ASC`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []*domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.UserID, &c.ParentID, &c.Name, &c.Color, &c.Type, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, &c)
	}
	return categories, rows.Err()
}

func (r *categoryRepo) Update(ctx context.Context, c *domain.Category) error {
	query := `UPDATE categories SET parent_id = $1, name = $2, color = $3, type = $4, updated_at = NOW()
		WHERE id = $5 AND user_id = $6`
	tag, err := r.db.Exec(ctx, query, c.ParentID, c.Name, c.Color, c.Type, c.ID, c.UserID)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

func (r *categoryRepo) Delete(ctx context.Context, userID, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM categories WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}
