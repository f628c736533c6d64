package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"portfolio-service/internal/domain"
	"portfolio-service/internal/repository"
	"portfolio-service/pkg/xerrors"

	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// SummaryCache is the portfolio summary cache seen from the ledger side:
// mutations only ever need to drop the cached entry.
type SummaryCache interface {
	Invalidate(ctx context.Context, portfolioID string) error
}

// CashMovementInput carries the caller-supplied fields of a movement.
type CashMovementInput struct {
	AccountName string
	CategoryID  *string
	Date        time.Time
	Amount      decimal.Decimal
	Direction   domain.MovementDirection
	Note        string
}

// CashMovementUsecase posts, updates and removes single-account movements.
// Each mutating operation runs as one pgx transaction: entity resolution,
// the posting row, its effect records and the cached balance all commit or
// roll back together.
type CashMovementUsecase struct {
	movementRepo repository.CashMovementRepository
	accountRepo  repository.AccountRepository
	categoryRepo repository.CategoryRepository
	effectRepo   repository.EffectRepository
	balanceUC    *BalanceUsecase
	cache        SummaryCache
}

func NewCashMovementUsecase(
	movementRepo repository.CashMovementRepository,
	accountRepo repository.AccountRepository,
	categoryRepo repository.CategoryRepository,
	effectRepo repository.EffectRepository,
	balanceUC *BalanceUsecase,
	cache SummaryCache,
) *CashMovementUsecase {
	return &CashMovementUsecase{
		movementRepo: movementRepo,
		accountRepo:  accountRepo,
		categoryRepo: categoryRepo,
		effectRepo:   effectRepo,
		balanceUC:    balanceUC,
		cache:        cache,
	}
}

func (uc *CashMovementUsecase) validate(in CashMovementInput) error {
	if in.Amount.IsNegative() {
		return xerrors.InvalidInputf("amount must be non-negative")
	}
	if !in.Direction.Effect().Valid() {
		return xerrors.InvalidInputf("unknown cash movement direction: %q", in.Direction)
	}
	return nil
}

// Create resolves the account and the optional category, persists the
// movement and applies its effect. Resolution failures abort before any
// balance is touched.
func (uc *CashMovementUsecase) Create(ctx context.Context, portfolioID, userID string, in CashMovementInput) (*domain.CashMovement, error) {
	if err := uc.validate(in); err != nil {
		return nil, err
	}

	tx, err := uc.accountRepo.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	account, err := uc.accountRepo.GetByPortfolioAndNameForUpdate(ctx, tx, portfolioID, in.AccountName)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			return nil, xerrors.NotFoundf("Liquidity Account Not Found")
		}
		return nil, err
	}

	if in.CategoryID != nil {
		if _, err := uc.categoryRepo.GetByUserAndID(ctx, userID, *in.CategoryID); err != nil {
			if errors.Is(err, xerrors.ErrNotFound) {
				return nil, xerrors.NotFoundf("Category Not Found")
			}
			return nil, err
		}
	}

	movement := &domain.CashMovement{
		ID:         ulid.Make().String(),
		AccountID:  account.ID,
		CategoryID: in.CategoryID,
		Date:       in.Date,
		Amount:     in.Amount,
		Direction:  in.Direction,
		Note:       in.Note,
	}
	if err := uc.movementRepo.Create(ctx, tx, movement); err != nil {
		return nil, err
	}

	if err := uc.appendEffect(ctx, tx, account.ID, movement.ID, movement.Amount, movement.Direction.Effect()); err != nil {
		return nil, err
	}
	if err := uc.balanceUC.ApplyEffect(ctx, tx, account, movement.Amount, movement.Direction.Effect()); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	uc.invalidateSummary(ctx, portfolioID)
	return movement, nil
}

// Update reverts the stored effect and applies the new one, so the net
// balance change equals the new effect alone. The revert always happens
// first; any later failure rolls it back with the rest of the transaction.
// The account reference is immutable on update.
func (uc *CashMovementUsecase) Update(ctx context.Context, portfolioID, id string, in CashMovementInput) (*domain.CashMovement, error) {
	if err := uc.validate(in); err != nil {
		return nil, err
	}

	tx, err := uc.accountRepo.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	movement, err := uc.movementRepo.GetByIDAndPortfolioTx(ctx, tx, id, portfolioID)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			return nil, xerrors.NotFoundf("Cash Movement Not Found")
		}
		return nil, err
	}

	account, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, movement.AccountID)
	if err != nil {
		return nil, err
	}

	// Revert previous movement effect
	if err := uc.balanceUC.ApplyEffect(ctx, tx, account, movement.Amount, movement.Direction.Effect().Reverse()); err != nil {
		return nil, err
	}
	// Apply new movement effect
	if err := uc.balanceUC.ApplyEffect(ctx, tx, account, in.Amount, in.Direction.Effect()); err != nil {
		return nil, err
	}

	movement.Date = in.Date
	movement.Amount = in.Amount
	movement.Direction = in.Direction
	movement.Note = in.Note
	if err := uc.movementRepo.Update(ctx, tx, movement); err != nil {
		return nil, err
	}

	if err := uc.effectRepo.DeleteByOperation(ctx, tx, movement.ID); err != nil {
		return nil, err
	}
	if err := uc.appendEffect(ctx, tx, account.ID, movement.ID, movement.Amount, movement.Direction.Effect()); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	uc.invalidateSummary(ctx, portfolioID)
	return movement, nil
}

// Delete reverts the stored effect and removes the movement row, returning
// the account balance to its pre-posting value.
func (uc *CashMovementUsecase) Delete(ctx context.Context, portfolioID, id string) error {
	tx, err := uc.accountRepo.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	movement, err := uc.movementRepo.GetByIDAndPortfolioTx(ctx, tx, id, portfolioID)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			return xerrors.NotFoundf("Cash Movement Not Found")
		}
		return err
	}

	account, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, movement.AccountID)
	if err != nil {
		return err
	}

	// Revert movement effect
	if err := uc.balanceUC.ApplyEffect(ctx, tx, account, movement.Amount, movement.Direction.Effect().Reverse()); err != nil {
		return err
	}
	if err := uc.effectRepo.DeleteByOperation(ctx, tx, movement.ID); err != nil {
		return err
	}
	if err := uc.movementRepo.Delete(ctx, tx, movement.ID); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	uc.invalidateSummary(ctx, portfolioID)
	return nil
}

func (uc *CashMovementUsecase) Get(ctx context.Context, portfolioID, id string) (*domain.CashMovement, error) {
	movement, err := uc.movementRepo.GetByIDAndPortfolio(ctx, id, portfolioID)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			return nil, xerrors.NotFoundf("Cash Movement Not Found")
		}
		return nil, err
	}
	return movement, nil
}

func (uc *CashMovementUsecase) List(ctx context.Context, portfolioID string) ([]*domain.CashMovement, error) {
	return uc.movementRepo.ListByPortfolio(ctx, portfolioID)
}

func (uc *CashMovementUsecase) appendEffect(ctx context.Context, tx pgx.Tx, accountID, operationID string, amount decimal.Decimal, direction domain.EffectDirection) error {
	return uc.effectRepo.Append(ctx, tx, &domain.BalanceEffect{
		ID:            ulid.Make().String(),
		AccountID:     accountID,
		OperationID:   operationID,
		OperationKind: domain.OperationCashMovement,
		Amount:        domain.SignedAmount(amount, direction),
	})
}

func (uc *CashMovementUsecase) invalidateSummary(ctx context.Context, portfolioID string) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Invalidate(ctx, portfolioID); err != nil {
		log.WithError(err).WithField("portfolio_id", portfolioID).Warn("failed to invalidate summary cache")
	}
}
