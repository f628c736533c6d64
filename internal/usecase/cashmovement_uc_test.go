package usecase

import (
	"context"
	"testing"
	"time"

	"portfolio-service/internal/domain"
	"portfolio-service/pkg/xerrors"

	"github.com/stretchr/testify/require"
)

func movementInput(t *testing.T, account, amount string, direction domain.MovementDirection) CashMovementInput {
	t.Helper()
	return CashMovementInput{
		AccountName: account,
		Date:        time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
		Amount:      dec(t, amount),
		Direction:   direction,
	}
}

func TestCashMovementLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	account := f.seedAccount(t, "pfl-1", "Checking", "1000")

	income, err := f.movements.Create(ctx, "pfl-1", "user-1", movementInput(t, "Checking", "500", domain.MovementIncome))
	require.NoError(t, err)
	f.requireBalance(t, account.ID, "1500")

	outcome, err := f.movements.Create(ctx, "pfl-1", "user-1", movementInput(t, "Checking", "300", domain.MovementOutcome))
	require.NoError(t, err)
	f.requireBalance(t, account.ID, "1200")
	f.requireAudited(t, "pfl-1", account.ID)

	require.NoError(t, f.movements.Delete(ctx, "pfl-1", outcome.ID))
	f.requireBalance(t, account.ID, "1500")
	f.requireAudited(t, "pfl-1", account.ID)

	// The income's effect record survives, the outcome's is gone.
	effects, err := f.effectRepo.ListByAccount(ctx, account.ID)
	require.NoError(t, err)
	var opIDs []string
	for _, e := range effects {
		if e.OperationKind == domain.OperationCashMovement {
			opIDs = append(opIDs, e.OperationID)
		}
	}
	require.Equal(t, []string{income.ID}, opIDs)

	_, err = f.movements.Get(ctx, "pfl-1", outcome.ID)
	require.ErrorIs(t, err, xerrors.ErrNotFound)
}

func TestCashMovementUpdateReplacesEffect(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	account := f.seedAccount(t, "pfl-1", "Checking", "1000")

	movement, err := f.movements.Create(ctx, "pfl-1", "user-1", movementInput(t, "Checking", "1500", domain.MovementIncome))
	require.NoError(t, err)
	f.requireBalance(t, account.ID, "2500")

	// Reverting the stored 1500 income and applying the new 2000 income
	// nets +500 on top of the posted balance.
	updated, err := f.movements.Update(ctx, "pfl-1", movement.ID, movementInput(t, "Checking", "2000", domain.MovementIncome))
	require.NoError(t, err)
	require.True(t, updated.Amount.Equal(dec(t, "2000")))
	f.requireBalance(t, account.ID, "3000")
	f.requireAudited(t, "pfl-1", account.ID)
}

func TestCashMovementUpdateFlipsDirection(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	account := f.seedAccount(t, "pfl-1", "Checking", "1000")

	movement, err := f.movements.Create(ctx, "pfl-1", "user-1", movementInput(t, "Checking", "200", domain.MovementIncome))
	require.NoError(t, err)
	f.requireBalance(t, account.ID, "1200")

	_, err = f.movements.Update(ctx, "pfl-1", movement.ID, movementInput(t, "Checking", "200", domain.MovementOutcome))
	require.NoError(t, err)
	f.requireBalance(t, account.ID, "800")
	f.requireAudited(t, "pfl-1", account.ID)
}

func TestCashMovementDeleteRestoresPriorBalance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	account := f.seedAccount(t, "pfl-1", "Checking", "412.77")

	movement, err := f.movements.Create(ctx, "pfl-1", "user-1", movementInput(t, "Checking", "99.03", domain.MovementOutcome))
	require.NoError(t, err)
	require.NoError(t, f.movements.Delete(ctx, "pfl-1", movement.ID))

	f.requireBalance(t, account.ID, "412.77")
	f.requireAudited(t, "pfl-1", account.ID)
}

func TestCashMovementOutcomeMayOverdraw(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	account := f.seedAccount(t, "pfl-1", "Checking", "100")

	_, err := f.movements.Create(ctx, "pfl-1", "user-1", movementInput(t, "Checking", "300", domain.MovementOutcome))
	require.NoError(t, err)
	f.requireBalance(t, account.ID, "-200")
	f.requireAudited(t, "pfl-1", account.ID)
}

func TestCashMovementCreateAccountNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedAccount(t, "pfl-1", "Checking", "1000")

	_, err := f.movements.Create(ctx, "pfl-1", "user-1", movementInput(t, "Savings", "500", domain.MovementIncome))
	require.ErrorIs(t, err, xerrors.ErrNotFound)
	require.EqualError(t, err, "Liquidity Account Not Found")
	require.Empty(t, f.store.movements)
}

func TestCashMovementCreateCategoryNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	account := f.seedAccount(t, "pfl-1", "Checking", "1000")

	in := movementInput(t, "Checking", "500", domain.MovementIncome)
	ghost := "no-such-category"
	in.CategoryID = &ghost

	_, err := f.movements.Create(ctx, "pfl-1", "user-1", in)
	require.ErrorIs(t, err, xerrors.ErrNotFound)
	require.EqualError(t, err, "Category Not Found")

	// Resolution failed before posting, nothing committed.
	require.Empty(t, f.store.movements)
	f.requireBalance(t, account.ID, "1000")
}

func TestCashMovementCreateWithCategory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedAccount(t, "pfl-1", "Checking", "1000")

	category, err := f.categories.Create(ctx, "user-1", CategoryInput{Name: "Groceries", Type: domain.CategoryOutcome})
	require.NoError(t, err)

	in := movementInput(t, "Checking", "42.50", domain.MovementOutcome)
	in.CategoryID = &category.ID
	movement, err := f.movements.Create(ctx, "pfl-1", "user-1", in)
	require.NoError(t, err)
	require.Equal(t, &category.ID, movement.CategoryID)
}

func TestCashMovementCreateRejectsNegativeAmount(t *testing.T) {
	f := newFixture(t)
	f.seedAccount(t, "pfl-1", "Checking", "1000")

	_, err := f.movements.Create(context.Background(), "pfl-1", "user-1", movementInput(t, "Checking", "-5", domain.MovementIncome))
	require.ErrorIs(t, err, xerrors.ErrInvalidInput)
}

func TestCashMovementCreateRejectsUnknownDirection(t *testing.T) {
	f := newFixture(t)
	f.seedAccount(t, "pfl-1", "Checking", "1000")

	in := movementInput(t, "Checking", "5", domain.MovementDirection("SIDEWAYS"))
	_, err := f.movements.Create(context.Background(), "pfl-1", "user-1", in)
	require.ErrorIs(t, err, xerrors.ErrInvalidInput)
}

func TestCashMovementUpdateNotFound(t *testing.T) {
	f := newFixture(t)
	f.seedAccount(t, "pfl-1", "Checking", "1000")

	_, err := f.movements.Update(context.Background(), "pfl-1", "missing", movementInput(t, "Checking", "5", domain.MovementIncome))
	require.ErrorIs(t, err, xerrors.ErrNotFound)
	require.EqualError(t, err, "Cash Movement Not Found")
}

func TestCashMovementDeleteNotFound(t *testing.T) {
	f := newFixture(t)
	f.seedAccount(t, "pfl-1", "Checking", "1000")

	err := f.movements.Delete(context.Background(), "pfl-1", "missing")
	require.ErrorIs(t, err, xerrors.ErrNotFound)
	require.EqualError(t, err, "Cash Movement Not Found")
}

func TestCashMovementScopedToPortfolio(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedAccount(t, "pfl-1", "Checking", "1000")
	other := f.seedAccount(t, "pfl-2", "Checking", "50")

	movement, err := f.movements.Create(ctx, "pfl-2", "user-2", movementInput(t, "Checking", "10", domain.MovementIncome))
	require.NoError(t, err)
	require.Equal(t, other.ID, movement.AccountID)

	// Visible in its own portfolio, invisible from another.
	_, err = f.movements.Get(ctx, "pfl-2", movement.ID)
	require.NoError(t, err)
	_, err = f.movements.Get(ctx, "pfl-1", movement.ID)
	require.ErrorIs(t, err, xerrors.ErrNotFound)
}

func TestCashMovementMutationsInvalidateSummary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedAccount(t, "pfl-1", "Checking", "1000")

	before := f.cache.invalidations
	movement, err := f.movements.Create(ctx, "pfl-1", "user-1", movementInput(t, "Checking", "10", domain.MovementIncome))
	require.NoError(t, err)
	_, err = f.movements.Update(ctx, "pfl-1", movement.ID, movementInput(t, "Checking", "20", domain.MovementIncome))
	require.NoError(t, err)
	require.NoError(t, f.movements.Delete(ctx, "pfl-1", movement.ID))
	require.Equal(t, before+3, f.cache.invalidations)
}
