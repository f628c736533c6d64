package usecase

import (
	"context"
	"time"

	"portfolio-service/internal/domain"
	"portfolio-service/internal/repository"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// SummaryStore is the read/write side of the summary cache. Get returns
// (nil, nil) on a miss.
type SummaryStore interface {
	SummaryCache
	Get(ctx context.Context, portfolioID string) (*domain.PortfolioSummary, error)
	Set(ctx context.Context, portfolioID string, s *domain.PortfolioSummary) error
}

// SummaryUsecase computes the portfolio net worth: the sum of all liquidity
// account balances plus the estimated values of illiquid assets. Results are
// cached; ledger and asset mutations invalidate the entry.
type SummaryUsecase struct {
	accountRepo repository.AccountRepository
	assetRepo   repository.AssetRepository
	store       SummaryStore
}

func NewSummaryUsecase(accountRepo repository.AccountRepository, assetRepo repository.AssetRepository, store SummaryStore) *SummaryUsecase {
	return &SummaryUsecase{accountRepo: accountRepo, assetRepo: assetRepo, store: store}
}

func (uc *SummaryUsecase) Get(ctx context.Context, portfolioID string) (*domain.PortfolioSummary, error) {
	if uc.store != nil {
		cached, err := uc.store.Get(ctx, portfolioID)
		if err != nil {
			log.WithError(err).Warn("summary cache read failed")
		} else if cached != nil {
			return cached, nil
		}
	}

	accounts, err := uc.accountRepo.ListByPortfolio(ctx, portfolioID)
	if err != nil {
		return nil, err
	}
	assets, err := uc.assetRepo.ListByPortfolio(ctx, portfolioID)
	if err != nil {
		return nil, err
	}

	liquid := decimal.Zero
	for _, a := range accounts {
		liquid = liquid.Add(a.Balance)
	}
	illiquid := decimal.Zero
	for _, a := range assets {
		illiquid = illiquid.Add(a.EstimatedValue)
	}

	summary := &domain.PortfolioSummary{
		PortfolioID:   portfolioID,
		LiquidTotal:   liquid,
		IlliquidTotal: illiquid,
		NetWorth:      liquid.Add(illiquid),
		GeneratedAt:   time.Now().UTC(),
	}
	for _, a := range accounts {
		summary.Accounts = append(summary.Accounts, *a)
	}
	for _, a := range assets {
		summary.Assets = append(summary.Assets, *a)
	}

	if uc.store != nil {
		if err := uc.store.Set(ctx, portfolioID, summary); err != nil {
			log.WithError(err).Warn("summary cache write failed")
		}
	}
	return summary, nil
}
