package usecase

import (
	"context"

	"portfolio-service/internal/domain"
	"portfolio-service/internal/repository"
	"portfolio-service/pkg/xerrors"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// BalanceUsecase is the single mutation path for cached account balances.
// Every posting, revert and reapply goes through ApplyEffect so the cached
// value only ever moves by the signed effect of one posting at a time.
type BalanceUsecase struct {
	accountRepo repository.AccountRepository
}

func NewBalanceUsecase(accountRepo repository.AccountRepository) *BalanceUsecase {
	return &BalanceUsecase{accountRepo: accountRepo}
}

// ApplyEffect adds or subtracts amount on the account's cached balance and
// persists the row inside the caller's transaction. There is no floor at
// zero: a negative balance is a valid result. An unknown direction fails
// before anything is written.
func (uc *BalanceUsecase) ApplyEffect(ctx context.Context, tx pgx.Tx, account *domain.LiquidityAccount, amount decimal.Decimal, direction domain.EffectDirection) error {
	switch direction {
	case domain.EffectIncrease:
		account.Balance = account.Balance.Add(amount)
	case domain.EffectDecrease:
		account.Balance = account.Balance.Sub(amount)
	default:
		return xerrors.ErrInvalidDirection
	}
	return uc.accountRepo.UpdateBalance(ctx, tx, account)
}

// Reverse returns the opposite direction. Pure, no side effects.
func (uc *BalanceUsecase) Reverse(direction domain.EffectDirection) domain.EffectDirection {
	return direction.Reverse()
}
