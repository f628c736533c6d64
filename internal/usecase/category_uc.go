package usecase

import (
	"context"
	"errors"

	"portfolio-service/internal/domain"
	"portfolio-service/internal/repository"
	"portfolio-service/pkg/xerrors"

	"github.com/oklog/ulid/v2"
)

type CategoryInput struct {
	ParentID *string
	Name     string
	Color    string
	Type     domain.CategoryType
}

type CategoryUsecase struct {
	categoryRepo repository.CategoryRepository
}

func NewCategoryUsecase(categoryRepo repository.CategoryRepository) *CategoryUsecase {
	return &CategoryUsecase{categoryRepo: categoryRepo}
}

func (uc *CategoryUsecase) validate(in CategoryInput) error {
	if in.Name == "" {
		return xerrors.InvalidInputf("category name is required")
	}
	if in.Type != domain.CategoryIncome && in.Type != domain.CategoryOutcome {
		return xerrors.InvalidInputf("unknown category type: %q", in.Type)
	}
	return nil
}

func (uc *CategoryUsecase) Create(ctx context.Context, userID string, in CategoryInput) (*domain.Category, error) {
	if err := uc.validate(in); err != nil {
		return nil, err
	}
	if in.ParentID != nil {
		if _, err := uc.categoryRepo.GetByUserAndID(ctx, userID, *in.ParentID); err != nil {
			if errors.Is(err, xerrors.ErrNotFound) {
				return nil, xerrors.NotFoundf("Category Not Found")
			}
			return nil, err
		}
	}

	category := &domain.Category{
		ID:       ulid.Make().String(),
		UserID:   userID,
		ParentID: in.ParentID,
		Name:     in.Name,
		Color:    in.Color,
		Type:     in.Type,
	}
	if err := uc.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (uc *CategoryUsecase) Get(ctx context.Context, userID, id string) (*domain.Category, error) {
	category, err := uc.categoryRepo.GetByUserAndID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			return nil, xerrors.NotFoundf("Category Not Found")
		}
		return nil, err
	}
	return category, nil
}

func (uc *CategoryUsecase) List(ctx context.Context, userID string) ([]*domain.Category, error) {
	return uc.categoryRepo.ListByUser(ctx, userID)
}

func (uc *CategoryUsecase) Update(ctx context.Context, userID, id string, in CategoryInput) (*domain.Category, error) {
	if err := uc.validate(in); err != nil {
		return nil, err
	}
	category, err := uc.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	category.ParentID = in.ParentID
	category.Name = in.Name
	category.Color = in.Color
	category.Type = in.Type
	if err := uc.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (uc *CategoryUsecase) Delete(ctx context.Context, userID, id string) error {
	err := uc.categoryRepo.Delete(ctx, userID, id)
	if errors.Is(err, xerrors.ErrNotFound) {
		return xerrors.NotFoundf("Category Not Found")
	}
	return err
}
