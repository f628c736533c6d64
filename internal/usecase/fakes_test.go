package usecase

import (
	"context"
	"testing"
	"time"

	"portfolio-service/internal/domain"
	"portfolio-service/pkg/xerrors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// memStore backs the fake repositories with plain maps. BeginTx snapshots the
// maps; Rollback restores the snapshot, Commit drops it. That keeps the
// commit-or-nothing behavior of the real repositories observable in tests.
type memStore struct {
	accounts   map[string]*domain.LiquidityAccount
	movements  map[string]*domain.CashMovement
	transfers  map[string]*domain.Transfer
	categories map[string]*domain.Category
	assets     map[string]*domain.IlliquidAsset
	effects    map[string]*domain.BalanceEffect

	snapshot *memStore
}

func newMemStore() *memStore {
	return &memStore{
		accounts:   map[string]*domain.LiquidityAccount{},
		movements:  map[string]*domain.CashMovement{},
		transfers:  map[string]*domain.Transfer{},
		categories: map[string]*domain.Category{},
		assets:     map[string]*domain.IlliquidAsset{},
		effects:    map[string]*domain.BalanceEffect{},
	}
}

func (s *memStore) clone() *memStore {
	c := newMemStore()
	for k, v := range s.accounts {
		a := *v
		c.accounts[k] = &a
	}
	for k, v := range s.movements {
		m := *v
		c.movements[k] = &m
	}
	for k, v := range s.transfers {
		t := *v
		c.transfers[k] = &t
	}
	for k, v := range s.categories {
		cat := *v
		c.categories[k] = &cat
	}
	for k, v := range s.assets {
		a := *v
		c.assets[k] = &a
	}
	for k, v := range s.effects {
		e := *v
		c.effects[k] = &e
	}
	return c
}

func (s *memStore) begin() { s.snapshot = s.clone() }

func (s *memStore) restore() {
	if s.snapshot == nil {
		return
	}
	s.accounts = s.snapshot.accounts
	s.movements = s.snapshot.movements
	s.transfers = s.snapshot.transfers
	s.categories = s.snapshot.categories
	s.assets = s.snapshot.assets
	s.effects = s.snapshot.effects
	s.snapshot = nil
}

// memTx satisfies pgx.Tx over a memStore. Only Commit and Rollback carry
// behavior; the query methods are never reached by the usecases under test.
type memTx struct {
	store *memStore
	done  bool
}

func (t *memTx) Commit(ctx context.Context) error {
	if t.done {
		return pgx.ErrTxClosed
	}
	t.done = true
	t.store.snapshot = nil
	return nil
}

func (t *memTx) Rollback(ctx context.Context) error {
	if t.done {
		return pgx.ErrTxClosed
	}
	t.done = true
	t.store.restore()
	return nil
}

func (t *memTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *memTx) Conn() *pgx.Conn                           { return nil }

func (t *memTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}

func (t *memTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *memTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }

func (t *memTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}

func (t *memTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (t *memTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}

func (t *memTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }

type fakeAccountRepo struct {
	store *memStore
}

func (r *fakeAccountRepo) BeginTx(ctx context.Context) (pgx.Tx, error) {
	r.store.begin()
	return &memTx{store: r.store}, nil
}

func (r *fakeAccountRepo) Create(ctx context.Context, tx pgx.Tx, a *domain.LiquidityAccount) error {
	for _, existing := range r.store.accounts {
		if existing.PortfolioID == a.PortfolioID && existing.Name == a.Name {
			return xerrors.ErrAccountExists
		}
	}
	a.CreatedAt = time.Now().UTC()
	a.UpdatedAt = a.CreatedAt
	cp := *a
	r.store.accounts[a.ID] = &cp
	return nil
}

func (r *fakeAccountRepo) GetByPortfolioAndID(ctx context.Context, portfolioID, id string) (*domain.LiquidityAccount, error) {
	a, ok := r.store.accounts[id]
	if !ok || a.PortfolioID != portfolioID {
		return nil, xerrors.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *fakeAccountRepo) GetByPortfolioAndName(ctx context.Context, portfolioID, name string) (*domain.LiquidityAccount, error) {
	for _, a := range r.store.accounts {
		if a.PortfolioID == portfolioID && a.Name == name {
			cp := *a
			return &cp, nil
		}
	}
	return nil, xerrors.ErrNotFound
}

func (r *fakeAccountRepo) ListByPortfolio(ctx context.Context, portfolioID string) ([]*domain.LiquidityAccount, error) {
	var out []*domain.LiquidityAccount
	for _, a := range r.store.accounts {
		if a.PortfolioID == portfolioID {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeAccountRepo) Update(ctx context.Context, a *domain.LiquidityAccount) error {
	stored, ok := r.store.accounts[a.ID]
	if !ok || stored.PortfolioID != a.PortfolioID {
		return xerrors.ErrNotFound
	}
	a.UpdatedAt = time.Now().UTC()
	cp := *a
	cp.Balance = stored.Balance
	r.store.accounts[a.ID] = &cp
	return nil
}

func (r *fakeAccountRepo) Delete(ctx context.Context, portfolioID, id string) error {
	a, ok := r.store.accounts[id]
	if !ok || a.PortfolioID != portfolioID {
		return xerrors.ErrNotFound
	}
	delete(r.store.accounts, id)
	return nil
}

func (r *fakeAccountRepo) GetByPortfolioAndNameForUpdate(ctx context.Context, tx pgx.Tx, portfolioID, name string) (*domain.LiquidityAccount, error) {
	return r.GetByPortfolioAndName(ctx, portfolioID, name)
}

func (r *fakeAccountRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id string) (*domain.LiquidityAccount, error) {
	a, ok := r.store.accounts[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *fakeAccountRepo) UpdateBalance(ctx context.Context, tx pgx.Tx, a *domain.LiquidityAccount) error {
	if _, ok := r.store.accounts[a.ID]; !ok {
		return xerrors.ErrNotFound
	}
	a.UpdatedAt = time.Now().UTC()
	cp := *a
	r.store.accounts[a.ID] = &cp
	return nil
}

type fakeMovementRepo struct {
	store *memStore
}

func (r *fakeMovementRepo) Create(ctx context.Context, tx pgx.Tx, m *domain.CashMovement) error {
	m.CreatedAt = time.Now().UTC()
	m.UpdatedAt = m.CreatedAt
	cp := *m
	r.store.movements[m.ID] = &cp
	return nil
}

func (r *fakeMovementRepo) get(id, portfolioID string) (*domain.CashMovement, error) {
	m, ok := r.store.movements[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	a, ok := r.store.accounts[m.AccountID]
	if !ok || a.PortfolioID != portfolioID {
		return nil, xerrors.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *fakeMovementRepo) GetByIDAndPortfolio(ctx context.Context, id, portfolioID string) (*domain.CashMovement, error) {
	return r.get(id, portfolioID)
}

func (r *fakeMovementRepo) GetByIDAndPortfolioTx(ctx context.Context, tx pgx.Tx, id, portfolioID string) (*domain.CashMovement, error) {
	return r.get(id, portfolioID)
}

func (r *fakeMovementRepo) ListByPortfolio(ctx context.Context, portfolioID string) ([]*domain.CashMovement, error) {
	var out []*domain.CashMovement
	for _, m := range r.store.movements {
		if a, ok := r.store.accounts[m.AccountID]; ok && a.PortfolioID == portfolioID {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeMovementRepo) Update(ctx context.Context, tx pgx.Tx, m *domain.CashMovement) error {
	if _, ok := r.store.movements[m.ID]; !ok {
		return xerrors.ErrNotFound
	}
	m.UpdatedAt = time.Now().UTC()
	cp := *m
	r.store.movements[m.ID] = &cp
	return nil
}

func (r *fakeMovementRepo) Delete(ctx context.Context, tx pgx.Tx, id string) error {
	if _, ok := r.store.movements[id]; !ok {
		return xerrors.ErrNotFound
	}
	delete(r.store.movements, id)
	return nil
}

type fakeTransferRepo struct {
	store *memStore
}

func (r *fakeTransferRepo) Create(ctx context.Context, tx pgx.Tx, t *domain.Transfer) error {
	t.CreatedAt = time.Now().UTC()
	t.UpdatedAt = t.CreatedAt
	cp := *t
	r.store.transfers[t.ID] = &cp
	return nil
}

func (r *fakeTransferRepo) get(id, portfolioID string) (*domain.Transfer, error) {
	t, ok := r.store.transfers[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	a, ok := r.store.accounts[t.FromAccountID]
	if !ok || a.PortfolioID != portfolioID {
		return nil, xerrors.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTransferRepo) GetByIDAndPortfolio(ctx context.Context, id, portfolioID string) (*domain.Transfer, error) {
	return r.get(id, portfolioID)
}

func (r *fakeTransferRepo) GetByIDAndPortfolioTx(ctx context.Context, tx pgx.Tx, id, portfolioID string) (*domain.Transfer, error) {
	return r.get(id, portfolioID)
}

func (r *fakeTransferRepo) ListByPortfolio(ctx context.Context, portfolioID string) ([]*domain.Transfer, error) {
	var out []*domain.Transfer
	for _, t := range r.store.transfers {
		if a, ok := r.store.accounts[t.FromAccountID]; ok && a.PortfolioID == portfolioID {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeTransferRepo) Update(ctx context.Context, tx pgx.Tx, t *domain.Transfer) error {
	if _, ok := r.store.transfers[t.ID]; !ok {
		return xerrors.ErrNotFound
	}
	t.UpdatedAt = time.Now().UTC()
	cp := *t
	r.store.transfers[t.ID] = &cp
	return nil
}

func (r *fakeTransferRepo) Delete(ctx context.Context, tx pgx.Tx, id string) error {
	if _, ok := r.store.transfers[id]; !ok {
		return xerrors.ErrNotFound
	}
	delete(r.store.transfers, id)
	return nil
}

type fakeCategoryRepo struct {
	store *memStore
}

func (r *fakeCategoryRepo) Create(ctx context.Context, c *domain.Category) error {
	c.CreatedAt = time.Now().UTC()
	c.UpdatedAt = c.CreatedAt
	cp := *c
	r.store.categories[c.ID] = &cp
	return nil
}

func (r *fakeCategoryRepo) GetByUserAndID(ctx context.Context, userID, id string) (*domain.Category, error) {
	c, ok := r.store.categories[id]
	if !ok || c.UserID != userID {
		return nil, xerrors.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCategoryRepo) ListByUser(ctx context.Context, userID string) ([]*domain.Category, error) {
	var out []*domain.Category
	for _, c := range r.store.categories {
		if c.UserID == userID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeCategoryRepo) Update(ctx context.Context, c *domain.Category) error {
	stored, ok := r.store.categories[c.ID]
	if !ok || stored.UserID != c.UserID {
		return xerrors.ErrNotFound
	}
	c.UpdatedAt = time.Now().UTC()
	cp := *c
	r.store.categories[c.ID] = &cp
	return nil
}

func (r *fakeCategoryRepo) Delete(ctx context.Context, userID, id string) error {
	c, ok := r.store.categories[id]
	if !ok || c.UserID != userID {
		return xerrors.ErrNotFound
	}
	delete(r.store.categories, id)
	return nil
}

type fakeAssetRepo struct {
	store *memStore
}

func (r *fakeAssetRepo) Create(ctx context.Context, a *domain.IlliquidAsset) error {
	a.CreatedAt = time.Now().UTC()
	a.UpdatedAt = a.CreatedAt
	cp := *a
	r.store.assets[a.ID] = &cp
	return nil
}

func (r *fakeAssetRepo) GetByPortfolioAndID(ctx context.Context, portfolioID, id string) (*domain.IlliquidAsset, error) {
	a, ok := r.store.assets[id]
	if !ok || a.PortfolioID != portfolioID {
		return nil, xerrors.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *fakeAssetRepo) ListByPortfolio(ctx context.Context, portfolioID string) ([]*domain.IlliquidAsset, error) {
	var out []*domain.IlliquidAsset
	for _, a := range r.store.assets {
		if a.PortfolioID == portfolioID {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeAssetRepo) Update(ctx context.Context, a *domain.IlliquidAsset) error {
	stored, ok := r.store.assets[a.ID]
	if !ok || stored.PortfolioID != a.PortfolioID {
		return xerrors.ErrNotFound
	}
	a.UpdatedAt = time.Now().UTC()
	cp := *a
	r.store.assets[a.ID] = &cp
	return nil
}

func (r *fakeAssetRepo) Delete(ctx context.Context, portfolioID, id string) error {
	a, ok := r.store.assets[id]
	if !ok || a.PortfolioID != portfolioID {
		return xerrors.ErrNotFound
	}
	delete(r.store.assets, id)
	return nil
}

type fakeEffectRepo struct {
	store *memStore
}

func (r *fakeEffectRepo) Append(ctx context.Context, tx pgx.Tx, e *domain.BalanceEffect) error {
	e.CreatedAt = time.Now().UTC()
	cp := *e
	r.store.effects[e.ID] = &cp
	return nil
}

func (r *fakeEffectRepo) DeleteByOperation(ctx context.Context, tx pgx.Tx, operationID string) error {
	for id, e := range r.store.effects {
		if e.OperationID == operationID {
			delete(r.store.effects, id)
		}
	}
	return nil
}

func (r *fakeEffectRepo) ListByAccount(ctx context.Context, accountID string) ([]*domain.BalanceEffect, error) {
	var out []*domain.BalanceEffect
	for _, e := range r.store.effects {
		if e.AccountID == accountID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeEffectRepo) SumByAccount(ctx context.Context, accountID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, e := range r.store.effects {
		if e.AccountID == accountID {
			sum = sum.Add(e.Amount)
		}
	}
	return sum, nil
}

// fakeSummaryStore implements SummaryStore over a map and counts
// invalidations so tests can assert cache hygiene after mutations.
type fakeSummaryStore struct {
	entries       map[string]*domain.PortfolioSummary
	invalidations int
}

func newFakeSummaryStore() *fakeSummaryStore {
	return &fakeSummaryStore{entries: map[string]*domain.PortfolioSummary{}}
}

func (s *fakeSummaryStore) Get(ctx context.Context, portfolioID string) (*domain.PortfolioSummary, error) {
	return s.entries[portfolioID], nil
}

func (s *fakeSummaryStore) Set(ctx context.Context, portfolioID string, sum *domain.PortfolioSummary) error {
	s.entries[portfolioID] = sum
	return nil
}

func (s *fakeSummaryStore) Invalidate(ctx context.Context, portfolioID string) error {
	delete(s.entries, portfolioID)
	s.invalidations++
	return nil
}

// fixture wires every usecase over the shared memStore the way the server
// wires them over Postgres.
type fixture struct {
	store *memStore
	cache *fakeSummaryStore

	accountRepo *fakeAccountRepo
	effectRepo  *fakeEffectRepo

	accounts   *AccountUsecase
	movements  *CashMovementUsecase
	transfers  *TransferUsecase
	categories *CategoryUsecase
	assets     *AssetUsecase
	summary    *SummaryUsecase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := newMemStore()
	cache := newFakeSummaryStore()

	accountRepo := &fakeAccountRepo{store: store}
	movementRepo := &fakeMovementRepo{store: store}
	transferRepo := &fakeTransferRepo{store: store}
	categoryRepo := &fakeCategoryRepo{store: store}
	assetRepo := &fakeAssetRepo{store: store}
	effectRepo := &fakeEffectRepo{store: store}

	balanceUC := NewBalanceUsecase(accountRepo)

	return &fixture{
		store:       store,
		cache:       cache,
		accountRepo: accountRepo,
		effectRepo:  effectRepo,
		accounts:    NewAccountUsecase(accountRepo, effectRepo, cache),
		movements:   NewCashMovementUsecase(movementRepo, accountRepo, categoryRepo, effectRepo, balanceUC, cache),
		transfers:   NewTransferUsecase(transferRepo, accountRepo, effectRepo, balanceUC, cache),
		categories:  NewCategoryUsecase(categoryRepo),
		assets:      NewAssetUsecase(assetRepo, cache),
		summary:     NewSummaryUsecase(accountRepo, assetRepo, cache),
	}
}

func (f *fixture) seedAccount(t *testing.T, portfolioID, name, balance string) *domain.LiquidityAccount {
	t.Helper()
	a, err := f.accounts.Create(context.Background(), portfolioID, AccountInput{
		Name:     name,
		Currency: "EUR",
		Balance:  dec(t, balance),
	})
	require.NoError(t, err)
	return a
}

func (f *fixture) balance(t *testing.T, accountID string) decimal.Decimal {
	t.Helper()
	a, ok := f.store.accounts[accountID]
	require.True(t, ok, "account %s not in store", accountID)
	return a.Balance
}

func (f *fixture) requireBalance(t *testing.T, accountID, want string) {
	t.Helper()
	got := f.balance(t, accountID)
	require.True(t, got.Equal(dec(t, want)), "balance: want %s, got %s", want, got)
}

// requireAudited asserts the cached balance still equals the fold over the
// account's effect records.
func (f *fixture) requireAudited(t *testing.T, portfolioID, accountID string) {
	t.Helper()
	audit, err := f.accounts.Audit(context.Background(), portfolioID, accountID)
	require.NoError(t, err)
	require.True(t, audit.Consistent, "cached %s diverged from derived %s", audit.Cached, audit.Derived)
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}
