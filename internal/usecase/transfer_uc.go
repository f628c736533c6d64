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

// TransferInput carries the caller-supplied fields of a transfer.
type TransferInput struct {
	FromAccountName string
	ToAccountName   string
	Date            time.Time
	Amount          decimal.Decimal
	Note            string
}

// TransferUsecase posts, updates and removes dual-account transfers. A
// transfer is value-conserving: the amount leaves the source account and
// arrives on the destination, so the sum of both balances never changes.
type TransferUsecase struct {
	transferRepo repository.TransferRepository
	accountRepo  repository.AccountRepository
	effectRepo   repository.EffectRepository
	balanceUC    *BalanceUsecase
	cache        SummaryCache
}

func NewTransferUsecase(
	transferRepo repository.TransferRepository,
	accountRepo repository.AccountRepository,
	effectRepo repository.EffectRepository,
	balanceUC *BalanceUsecase,
	cache SummaryCache,
) *TransferUsecase {
	return &TransferUsecase{
		transferRepo: transferRepo,
		accountRepo:  accountRepo,
		effectRepo:   effectRepo,
		balanceUC:    balanceUC,
		cache:        cache,
	}
}

// resolvePair locks both accounts by name within the portfolio. Both are
// resolved before the caller mutates anything, so a missing account aborts
// with no balance change. A same-name pair shares one struct so the two
// effects land on the same row state.
func (uc *TransferUsecase) resolvePair(ctx context.Context, tx pgx.Tx, portfolioID, fromName, toName string) (from, to *domain.LiquidityAccount, err error) {
	from, err = uc.accountRepo.GetByPortfolioAndNameForUpdate(ctx, tx, portfolioID, fromName)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			return nil, nil, xerrors.NotFoundf("Liquidity Account not found with name: %s", fromName)
		}
		return nil, nil, err
	}
	if toName == fromName {
		return from, from, nil
	}
	to, err = uc.accountRepo.GetByPortfolioAndNameForUpdate(ctx, tx, portfolioID, toName)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			return nil, nil, xerrors.NotFoundf("Liquidity Account not found with name: %s", toName)
		}
		return nil, nil, err
	}
	return from, to, nil
}

func (uc *TransferUsecase) Create(ctx context.Context, portfolioID string, in TransferInput) (*domain.Transfer, error) {
	if in.Amount.IsNegative() {
		return nil, xerrors.InvalidInputf("amount must be non-negative")
	}

	tx, err := uc.accountRepo.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	from, to, err := uc.resolvePair(ctx, tx, portfolioID, in.FromAccountName, in.ToAccountName)
	if err != nil {
		return nil, err
	}

	transfer := &domain.Transfer{
		ID:            ulid.Make().String(),
		FromAccountID: from.ID,
		ToAccountID:   to.ID,
		Date:          in.Date,
		Amount:        in.Amount,
		Note:          in.Note,
	}
	if err := uc.transferRepo.Create(ctx, tx, transfer); err != nil {
		return nil, err
	}

	if err := uc.applyTransfer(ctx, tx, transfer, from, to); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	uc.invalidateSummary(ctx, portfolioID)
	return transfer, nil
}

// Update reverts the stored effect using the transfer's own account
// references, then resolves the new pair and applies the new effect. Worst
// case this touches four account balances. The revert runs first; if the new
// pair fails to resolve the rollback undoes the revert too.
func (uc *TransferUsecase) Update(ctx context.Context, portfolioID, id string, in TransferInput) (*domain.Transfer, error) {
	if in.Amount.IsNegative() {
		return nil, xerrors.InvalidInputf("amount must be non-negative")
	}

	tx, err := uc.accountRepo.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	transfer, err := uc.transferRepo.GetByIDAndPortfolioTx(ctx, tx, id, portfolioID)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			return nil, xerrors.NotFoundf("Not Found Transfer with id: %s", id)
		}
		return nil, err
	}

	if err := uc.revertTransfer(ctx, tx, transfer); err != nil {
		return nil, err
	}

	// Resolved after the revert was written, so these reads see the
	// restored balances even when the accounts are the same rows.
	from, to, err := uc.resolvePair(ctx, tx, portfolioID, in.FromAccountName, in.ToAccountName)
	if err != nil {
		return nil, err
	}

	transfer.FromAccountID = from.ID
	transfer.ToAccountID = to.ID
	transfer.Date = in.Date
	transfer.Amount = in.Amount
	transfer.Note = in.Note
	if err := uc.transferRepo.Update(ctx, tx, transfer); err != nil {
		return nil, err
	}

	if err := uc.applyTransfer(ctx, tx, transfer, from, to); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	uc.invalidateSummary(ctx, portfolioID)
	return transfer, nil
}

func (uc *TransferUsecase) Delete(ctx context.Context, portfolioID, id string) error {
	tx, err := uc.accountRepo.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	transfer, err := uc.transferRepo.GetByIDAndPortfolioTx(ctx, tx, id, portfolioID)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			return xerrors.NotFoundf("Not Found Transfer with id: %s", id)
		}
		return err
	}

	if err := uc.revertTransfer(ctx, tx, transfer); err != nil {
		return err
	}
	if err := uc.transferRepo.Delete(ctx, tx, transfer.ID); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	uc.invalidateSummary(ctx, portfolioID)
	return nil
}

func (uc *TransferUsecase) Get(ctx context.Context, portfolioID, id string) (*domain.Transfer, error) {
	transfer, err := uc.transferRepo.GetByIDAndPortfolio(ctx, id, portfolioID)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			return nil, xerrors.NotFoundf("Not Found Transfer with id: %s", id)
		}
		return nil, err
	}
	return transfer, nil
}

func (uc *TransferUsecase) List(ctx context.Context, portfolioID string) ([]*domain.Transfer, error) {
	return uc.transferRepo.ListByPortfolio(ctx, portfolioID)
}

// applyTransfer debits the source, credits the destination and appends the
// pair of signed effect records, all in the caller's transaction.
func (uc *TransferUsecase) applyTransfer(ctx context.Context, tx pgx.Tx, t *domain.Transfer, from, to *domain.LiquidityAccount) error {
	if err := uc.appendEffect(ctx, tx, from.ID, t.ID, t.Amount, domain.EffectDecrease); err != nil {
		return err
	}
	if err := uc.appendEffect(ctx, tx, to.ID, t.ID, t.Amount, domain.EffectIncrease); err != nil {
		return err
	}
	if err := uc.balanceUC.ApplyEffect(ctx, tx, from, t.Amount, domain.EffectDecrease); err != nil {
		return err
	}
	return uc.balanceUC.ApplyEffect(ctx, tx, to, t.Amount, domain.EffectIncrease)
}

// revertTransfer cancels the stored effect of a transfer using its own
// account references and amount: credit back the source, debit the
// destination, and drop the effect rows.
func (uc *TransferUsecase) revertTransfer(ctx context.Context, tx pgx.Tx, t *domain.Transfer) error {
	from, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, t.FromAccountID)
	if err != nil {
		return err
	}
	to := from
	if t.ToAccountID != t.FromAccountID {
		to, err = uc.accountRepo.GetByIDForUpdate(ctx, tx, t.ToAccountID)
		if err != nil {
			return err
		}
	}

	if err := uc.balanceUC.ApplyEffect(ctx, tx, from, t.Amount, domain.EffectIncrease); err != nil {
		return err
	}
	if err := uc.balanceUC.ApplyEffect(ctx, tx, to, t.Amount, domain.EffectDecrease); err != nil {
		return err
	}
	return uc.effectRepo.DeleteByOperation(ctx, tx, t.ID)
}

func (uc *TransferUsecase) appendEffect(ctx context.Context, tx pgx.Tx, accountID, operationID string, amount decimal.Decimal, direction domain.EffectDirection) error {
	return uc.effectRepo.Append(ctx, tx, &domain.BalanceEffect{
		ID:            ulid.Make().String(),
		AccountID:     accountID,
		OperationID:   operationID,
		OperationKind: domain.OperationTransfer,
		Amount:        domain.SignedAmount(amount, direction),
	})
}

func (uc *TransferUsecase) invalidateSummary(ctx context.Context, portfolioID string) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Invalidate(ctx, portfolioID); err != nil {
		log.WithError(err).WithField("portfolio_id", portfolioID).Warn("failed to invalidate summary cache")
	}
}
