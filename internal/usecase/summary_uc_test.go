package usecase

import (
	"context"
	"testing"

	"portfolio-service/internal/domain"

	"github.com/stretchr/testify/require"
)

func TestSummaryAddsLiquidAndIlliquid(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedAccount(t, "pfl-1", "Checking", "1000")
	f.seedAccount(t, "pfl-1", "Savings", "500.25")
	_, err := f.assets.Create(ctx, "pfl-1", AssetInput{Name: "Apartment", EstimatedValue: dec(t, "200000")})
	require.NoError(t, err)

	summary, err := f.summary.Get(ctx, "pfl-1")
	require.NoError(t, err)
	require.True(t, summary.LiquidTotal.Equal(dec(t, "1500.25")))
	require.True(t, summary.IlliquidTotal.Equal(dec(t, "200000")))
	require.True(t, summary.NetWorth.Equal(dec(t, "201500.25")))
	require.Len(t, summary.Accounts, 2)
	require.Len(t, summary.Assets, 1)
}

func TestSummaryServedFromCacheUntilInvalidated(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	account := f.seedAccount(t, "pfl-1", "Checking", "1000")

	first, err := f.summary.Get(ctx, "pfl-1")
	require.NoError(t, err)

	// A direct store write is invisible while the cache entry lives.
	f.store.accounts[account.ID].Balance = dec(t, "2000")
	cached, err := f.summary.Get(ctx, "pfl-1")
	require.NoError(t, err)
	require.True(t, cached.NetWorth.Equal(first.NetWorth))

	require.NoError(t, f.cache.Invalidate(ctx, "pfl-1"))
	fresh, err := f.summary.Get(ctx, "pfl-1")
	require.NoError(t, err)
	require.True(t, fresh.NetWorth.Equal(dec(t, "2000")))
}

func TestSummaryRecomputedAfterLedgerMutation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedAccount(t, "pfl-1", "Checking", "1000")

	before, err := f.summary.Get(ctx, "pfl-1")
	require.NoError(t, err)
	require.True(t, before.NetWorth.Equal(dec(t, "1000")))

	_, err = f.movements.Create(ctx, "pfl-1", "user-1", movementInput(t, "Checking", "250", domain.MovementIncome))
	require.NoError(t, err)

	after, err := f.summary.Get(ctx, "pfl-1")
	require.NoError(t, err)
	require.True(t, after.NetWorth.Equal(dec(t, "1250")))
}

func TestSummaryEmptyPortfolio(t *testing.T) {
	f := newFixture(t)

	summary, err := f.summary.Get(context.Background(), "pfl-empty")
	require.NoError(t, err)
	require.True(t, summary.NetWorth.IsZero())
	require.Empty(t, summary.Accounts)
	require.Empty(t, summary.Assets)
}
