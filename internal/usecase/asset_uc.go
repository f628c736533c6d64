package usecase

import (
	"context"

	"portfolio-service/internal/domain"
	"portfolio-service/internal/repository"
	"portfolio-service/pkg/xerrors"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type AssetInput struct {
	Name           string
	Description    string
	EstimatedValue decimal.Decimal
}

type AssetUsecase struct {
	assetRepo repository.AssetRepository
	cache     SummaryCache
}

func NewAssetUsecase(assetRepo repository.AssetRepository, cache SummaryCache) *AssetUsecase {
	return &AssetUsecase{assetRepo: assetRepo, cache: cache}
}

func (uc *AssetUsecase) Create(ctx context.Context, portfolioID string, in AssetInput) (*domain.IlliquidAsset, error) {
	if in.Name == "" {
		return nil, xerrors.InvalidInputf("asset name is required")
	}

	asset := &domain.IlliquidAsset{
		ID:             ulid.Make().String(),
		PortfolioID:    portfolioID,
		Name:           in.Name,
		Description:    in.Description,
		EstimatedValue: in.EstimatedValue,
	}
	if err := uc.assetRepo.Create(ctx, asset); err != nil {
		return nil, err
	}
	uc.invalidateSummary(ctx, portfolioID)
	return asset, nil
}

func (uc *AssetUsecase) Get(ctx context.Context, portfolioID, id string) (*domain.IlliquidAsset, error) {
	return uc.assetRepo.GetByPortfolioAndID(ctx, portfolioID, id)
}

func (uc *AssetUsecase) List(ctx context.Context, portfolioID string) ([]*domain.IlliquidAsset, error) {
	return uc.assetRepo.ListByPortfolio(ctx, portfolioID)
}

func (uc *AssetUsecase) Update(ctx context.Context, portfolioID, id string, in AssetInput) (*domain.IlliquidAsset, error) {
	asset, err := uc.assetRepo.GetByPortfolioAndID(ctx, portfolioID, id)
	if err != nil {
		return nil, err
	}

	asset.Name = in.Name
	asset.Description = in.Description
	asset.EstimatedValue = in.EstimatedValue
	if err := uc.assetRepo.Update(ctx, asset); err != nil {
		return nil, err
	}
	uc.invalidateSummary(ctx, portfolioID)
	return asset, nil
}

func (uc *AssetUsecase) Delete(ctx context.Context, portfolioID, id string) error {
	if err := uc.assetRepo.Delete(ctx, portfolioID, id); err != nil {
		return err
	}
	uc.invalidateSummary(ctx, portfolioID)
	return nil
}

func (uc *AssetUsecase) invalidateSummary(ctx context.Context, portfolioID string) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Invalidate(ctx, portfolioID); err != nil {
		log.WithError(err).WithField("portfolio_id", portfolioID).Warn("failed to invalidate summary cache")
	}
}
