package usecase

import (
	"context"
	"fmt"
	"time"

	"portfolio-service/internal/domain"
	"portfolio-service/internal/repository"
	"portfolio-service/pkg/xerrors"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// AccountInput carries the caller-supplied fields of a liquidity account.
// Balance is only honored on create, as the opening balance; afterwards the
// cached balance moves exclusively through the ledger usecases.
type AccountInput struct {
	Name        string
	Institution string
	Currency    string
	Balance     decimal.Decimal
	OpenedAt    *time.Time
	ClosedAt    *time.Time
	Note        string
}

type AccountUsecase struct {
	accountRepo repository.AccountRepository
	effectRepo  repository.EffectRepository
	cache       SummaryCache
}

func NewAccountUsecase(accountRepo repository.AccountRepository, effectRepo repository.EffectRepository, cache SummaryCache) *AccountUsecase {
	return &AccountUsecase{accountRepo: accountRepo, effectRepo: effectRepo, cache: cache}
}

// Create registers a new account. A non-zero opening balance is recorded as
// an opening effect so the fold over effects stays equal to the cached
// balance from day one.
func (uc *AccountUsecase) Create(ctx context.Context, portfolioID string, in AccountInput) (*domain.LiquidityAccount, error) {
	if in.Name == "" {
		return nil, xerrors.InvalidInputf("account name is required")
	}
	if in.Currency == "" {
		return nil, xerrors.InvalidInputf("currency is required")
	}

	tx, err := uc.accountRepo.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	account := &domain.LiquidityAccount{
		ID:          ulid.Make().String(),
		PortfolioID: portfolioID,
		Name:        in.Name,
		Institution: in.Institution,
		Currency:    in.Currency,
		Balance:     in.Balance,
		OpenedAt:    in.OpenedAt,
		ClosedAt:    in.ClosedAt,
		Note:        in.Note,
	}
	if err := uc.accountRepo.Create(ctx, tx, account); err != nil {
		return nil, err
	}

	if !in.Balance.IsZero() {
		err := uc.effectRepo.Append(ctx, tx, &domain.BalanceEffect{
			ID:            ulid.Make().String(),
			AccountID:     account.ID,
			OperationID:   account.ID,
			OperationKind: domain.OperationOpening,
			Amount:        in.Balance,
		})
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	uc.invalidateSummary(ctx, portfolioID)
	return account, nil
}

func (uc *AccountUsecase) Get(ctx context.Context, portfolioID, id string) (*domain.LiquidityAccount, error) {
	return uc.accountRepo.GetByPortfolioAndID(ctx, portfolioID, id)
}

func (uc *AccountUsecase) List(ctx context.Context, portfolioID string) ([]*domain.LiquidityAccount, error) {
	return uc.accountRepo.ListByPortfolio(ctx, portfolioID)
}

// Update rewrites identity fields only. The cached balance is never written
// here; it belongs to the ledger usecases.
func (uc *AccountUsecase) Update(ctx context.Context, portfolioID, id string, in AccountInput) (*domain.LiquidityAccount, error) {
	account, err := uc.accountRepo.GetByPortfolioAndID(ctx, portfolioID, id)
	if err != nil {
		return nil, err
	}

	account.Name = in.Name
	account.Institution = in.Institution
	account.Currency = in.Currency
	account.OpenedAt = in.OpenedAt
	account.ClosedAt = in.ClosedAt
	account.Note = in.Note
	if err := uc.accountRepo.Update(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

func (uc *AccountUsecase) Delete(ctx context.Context, portfolioID, id string) error {
	if err := uc.accountRepo.Delete(ctx, portfolioID, id); err != nil {
		return err
	}
	uc.invalidateSummary(ctx, portfolioID)
	return nil
}

// Audit compares the cached balance with the fold over the account's effect
// records.
func (uc *AccountUsecase) Audit(ctx context.Context, portfolioID, id string) (*domain.BalanceAudit, error) {
	account, err := uc.accountRepo.GetByPortfolioAndID(ctx, portfolioID, id)
	if err != nil {
		return nil, err
	}
	derived, err := uc.effectRepo.SumByAccount(ctx, account.ID)
	if err != nil {
		return nil, err
	}
	return &domain.BalanceAudit{
		AccountID:  account.ID,
		Cached:     account.Balance,
		Derived:    derived,
		Consistent: account.Balance.Equal(derived),
	}, nil
}

func (uc *AccountUsecase) invalidateSummary(ctx context.Context, portfolioID string) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Invalidate(ctx, portfolioID); err != nil {
		log.WithError(err).WithField("portfolio_id", portfolioID).Warn("failed to invalidate summary cache")
	}
}
