package account

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugohenrick/restaurante-pedidos/internal/domain/calendar"
	"github.com/hugohenrick/restaurante-pedidos/internal/domain/sequence"
)

type memoryRepository struct {
	mu       sync.Mutex
	accounts map[string]*Account
	orders   map[string][]decimal.Decimal // totais de pedidos ativos por conta
	// beforeCreate simula outra requisição abrindo a conta primeiro
	beforeCreate func(a *Account)
	calls        []string
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		accounts: make(map[string]*Account),
		orders:   make(map[string][]decimal.Decimal),
	}
}

func (r *memoryRepository) insert(a *Account) error {
	for _, existing := range r.accounts {
		if existing.State == StateOpen && existing.BusinessDay == a.BusinessDay && existing.TableID == a.TableID {
			return ErrOpenAccountExists
		}
	}
	copied := *a
	r.accounts[a.ID] = &copied
	return nil
}

func (r *memoryRepository) Create(ctx context.Context, a *Account) error {
	if hook := r.beforeCreate; hook != nil {
		r.beforeCreate = nil
		hook(a)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.insert(a)
}

func (r *memoryRepository) FindByID(ctx context.Context, id string) (*Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return nil, ErrAccountNotFound
	}
	copied := *a
	return &copied, nil
}

func (r *memoryRepository) FindForUpdate(ctx context.Context, id string) (*Account, error) {
	r.mu.Lock()
	r.calls = append(r.calls, "lock")
	r.mu.Unlock()
	return r.FindByID(ctx, id)
}

func (r *memoryRepository) FindOpen(ctx context.Context, day calendar.Day, tableID string) (*Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if a.State == StateOpen && a.BusinessDay == day && a.TableID == tableID {
			copied := *a
			return &copied, nil
		}
	}
	return nil, ErrAccountNotFound
}

func (r *memoryRepository) List(ctx context.Context, filter Filter) ([]*Account, error) {
	return nil, nil
}

func (r *memoryRepository) ListOpenBefore(ctx context.Context, day calendar.Day) ([]*Account, error) {
	return nil, nil
}

func (r *memoryRepository) SumActiveOrders(ctx context.Context, accountID string) (decimal.Decimal, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, "sum")
	total := decimal.Zero
	for _, v := range r.orders[accountID] {
		total = total.Add(v)
	}
	return total, len(r.orders[accountID]), nil
}

func (r *memoryRepository) UpdateTotal(ctx context.Context, id string, total decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return ErrAccountNotFound
	}
	r.calls = append(r.calls, "update")
	a.Total = total
	return nil
}

func (r *memoryRepository) UpdateState(ctx context.Context, a *Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *a
	if stored, ok := r.accounts[a.ID]; ok {
		copied.Total = stored.Total
	}
	r.accounts[a.ID] = &copied
	return nil
}

// counterAllocator entrega números em ordem e repete em caso de duplicidade
type counterAllocator struct {
	mu   sync.Mutex
	next int
}

func (c *counterAllocator) AllocateAndClaim(ctx context.Context, scope sequence.Scope, day calendar.Day, claim sequence.ClaimFunc) (string, error) {
	for attempt := 0; attempt < sequence.DefaultMaxAttempts; attempt++ {
		c.mu.Lock()
		c.next++
		number := scope.Format(c.next)
		c.mu.Unlock()

		err := claim(ctx, number)
		if err == nil {
			return number, nil
		}
		if !errors.Is(err, sequence.ErrDuplicateNumber) {
			return "", err
		}
	}
	return "", sequence.ErrAllocationExhausted
}

var (
	today = calendar.NewDay(2026, time.October, 14)
	now   = time.Date(2026, time.October, 14, 20, 0, 0, 0, time.UTC)
)

func TestResolveOrCreateOpensAccount(t *testing.T) {
	repo := newMemoryRepository()
	ledger := NewLedger(repo, &counterAllocator{})

	a, created, err := ledger.ResolveOrCreate(context.Background(), today, "5", "waiter-1", now)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "Cuenta 001", a.SequenceNumber)
	assert.Equal(t, StateOpen, a.State)
	assert.True(t, a.Total.IsZero())

	again, created, err := ledger.ResolveOrCreate(context.Background(), today, "5", "waiter-2", now)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, a.ID, again.ID)
}

func TestResolveOrCreateSeparatesTablesAndDays(t *testing.T) {
	repo := newMemoryRepository()
	ledger := NewLedger(repo, &counterAllocator{})

	five, _, err := ledger.ResolveOrCreate(context.Background(), today, "5", "w", now)
	require.NoError(t, err)
	six, _, err := ledger.ResolveOrCreate(context.Background(), today, "6", "w", now)
	require.NoError(t, err)
	tomorrow, _, err := ledger.ResolveOrCreate(context.Background(), calendar.NewDay(2026, time.October, 15), "5", "w", now)
	require.NoError(t, err)

	assert.NotEqual(t, five.ID, six.ID)
	assert.NotEqual(t, five.ID, tomorrow.ID)
}

func TestResolveOrCreateLosesRace(t *testing.T) {
	repo := newMemoryRepository()
	ledger := NewLedger(repo, &counterAllocator{})

	winner, err := NewAccount("Cuenta 099", today, "5", "other", now)
	require.NoError(t, err)
	repo.beforeCreate = func(*Account) {
		repo.mu.Lock()
		defer repo.mu.Unlock()
		require.NoError(t, repo.insert(winner))
	}

	a, created, err := ledger.ResolveOrCreate(context.Background(), today, "5", "w", now)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, winner.ID, a.ID)
	assert.Len(t, repo.accounts, 1)
}

func TestResolveOrCreateReopensAfterClose(t *testing.T) {
	repo := newMemoryRepository()
	ledger := NewLedger(repo, &counterAllocator{})

	first, _, err := ledger.ResolveOrCreate(context.Background(), today, "5", "w", now)
	require.NoError(t, err)
	require.NoError(t, first.Close(now))
	require.NoError(t, repo.UpdateState(context.Background(), first))

	second, created, err := ledger.ResolveOrCreate(context.Background(), today, "5", "w", now)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, "Cuenta 002", second.SequenceNumber)
}

func TestRecomputeTotalSumsActiveOrders(t *testing.T) {
	repo := newMemoryRepository()
	ledger := NewLedger(repo, &counterAllocator{})

	a, _, err := ledger.ResolveOrCreate(context.Background(), today, "5", "w", now)
	require.NoError(t, err)

	// pedido de $15 cancelado não entra na soma
	repo.orders[a.ID] = []decimal.Decimal{decimal.NewFromInt(20)}

	updated, err := ledger.RecomputeTotal(context.Background(), a.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(20).Equal(updated.Total))

	// recalcular de novo não altera o resultado
	updated, err = ledger.RecomputeTotal(context.Background(), a.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(20).Equal(updated.Total))
}

func TestRecomputeTotalLocksBeforeSumming(t *testing.T) {
	repo := newMemoryRepository()
	ledger := NewLedger(repo, &counterAllocator{})

	a, _, err := ledger.ResolveOrCreate(context.Background(), today, "5", "w", now)
	require.NoError(t, err)
	repo.calls = nil

	_, err = ledger.RecomputeTotal(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"lock", "sum", "update"}, repo.calls)
}

func TestRecomputeTotalUnknownAccount(t *testing.T) {
	ledger := NewLedger(newMemoryRepository(), &counterAllocator{})

	_, err := ledger.RecomputeTotal(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestAccountLifecycle(t *testing.T) {
	a, err := NewAccount("Cuenta 001", today, "5", "w", now)
	require.NoError(t, err)

	assert.ErrorIs(t, a.Settle(now), ErrInvalidTransition)
	require.NoError(t, a.Close(now))
	assert.ErrorIs(t, a.Close(now), ErrInvalidTransition)
	require.NoError(t, a.Settle(now))
	assert.Equal(t, StateSettled, a.State)
	assert.NotNil(t, a.SettledAt)
	assert.ErrorIs(t, a.Cancel(now, 0), ErrInvalidTransition)
}

func TestAccountCancel(t *testing.T) {
	a, err := NewAccount("Cuenta 001", today, "5", "w", now)
	require.NoError(t, err)

	assert.ErrorIs(t, a.Cancel(now, 2), ErrAccountHasOrders)
	require.NoError(t, a.Cancel(now, 0))
	assert.Equal(t, StateCancelled, a.State)
}

func TestNewAccountValidation(t *testing.T) {
	_, err := NewAccount("Cuenta 001", today, "", "w", now)
	assert.ErrorIs(t, err, ErrEmptyTable)
	_, err = NewAccount("", today, "5", "w", now)
	assert.ErrorIs(t, err, ErrEmptySequenceNumber)
}
