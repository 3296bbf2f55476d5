package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugohenrick/restaurante-pedidos/internal/domain/account"
	"github.com/hugohenrick/restaurante-pedidos/internal/domain/calendar"
	"github.com/hugohenrick/restaurante-pedidos/internal/domain/order"
)

func TestAccountLifecycle(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	result, err := f.orders.Submit(ctx, dineIn("5", item(tacoID, 1)))
	require.NoError(t, err)
	id := result.Order.AccountID

	_, err = f.accounts.SettleAccount(ctx, id)
	assert.ErrorIs(t, err, account.ErrInvalidTransition)

	closed, err := f.accounts.CloseAccount(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, account.StateClosed, closed.State)
	assert.NotNil(t, closed.ClosedAt)

	settled, err := f.accounts.SettleAccount(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, account.StateSettled, settled.State)
	assert.True(t, settled.Total.Equal(money("20")))
	assert.Equal(t, "account.settled", f.sink.last().Event)

	// a mesa volta a abrir uma conta nova
	next, err := f.orders.Submit(ctx, dineIn("5", item(sodaID, 1)))
	require.NoError(t, err)
	assert.True(t, next.AccountNew)
	assert.NotEqual(t, id, next.Order.AccountID)
	assert.Equal(t, "Cuenta 002", next.AccountNumber)
}

func TestCancelAccount(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	result, err := f.orders.Submit(ctx, dineIn("5", item(tacoID, 1)))
	require.NoError(t, err)
	id := result.Order.AccountID

	_, err = f.accounts.CancelAccount(ctx, id)
	assert.ErrorIs(t, err, account.ErrAccountHasOrders)

	_, err = f.orders.ChangeOrderState(ctx, result.Order.ID, order.StateCancelled)
	require.NoError(t, err)

	cancelled, err := f.accounts.CancelAccount(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, account.StateCancelled, cancelled.State)
	assert.True(t, cancelled.Total.IsZero())
}

func TestGetAccountWithOrders(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	first, err := f.orders.Submit(ctx, dineIn("5", item(tacoID, 1)))
	require.NoError(t, err)
	_, err = f.orders.Submit(ctx, dineIn("5", item(sodaID, 1)))
	require.NoError(t, err)

	details, err := f.accounts.GetAccount(ctx, first.Order.AccountID)
	require.NoError(t, err)
	assert.Equal(t, "Cuenta 001", details.Account.SequenceNumber)
	require.Len(t, details.Orders, 2)
	assert.Equal(t, "Pedido 001", details.Orders[0].SequenceNumber)
	assert.Equal(t, "Pedido 002", details.Orders[1].SequenceNumber)

	_, err = f.accounts.GetAccount(ctx, "missing")
	assert.ErrorIs(t, err, account.ErrAccountNotFound)
}

func TestListAccounts(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	a, err := f.orders.Submit(ctx, dineIn("5", item(tacoID, 1)))
	require.NoError(t, err)
	_, err = f.orders.Submit(ctx, dineIn("6", item(tacoID, 1)))
	require.NoError(t, err)
	_, err = f.accounts.CloseAccount(ctx, a.Order.AccountID)
	require.NoError(t, err)

	today := calendar.NewDay(2026, 10, 14)
	all, err := f.accounts.ListAccounts(ctx, account.Filter{Day: &today})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	open, err := f.accounts.ListAccounts(ctx, account.Filter{State: account.StateOpen})
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, "6", open[0].TableID)

	_, err = f.accounts.ListAccounts(ctx, account.Filter{State: "lost"})
	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestCloseStaleAccounts(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	yesterday := calendar.NewDay(2026, 10, 13)
	stale := dineIn("5", item(tacoID, 1))
	stale.Day = &yesterday
	old, err := f.orders.Submit(ctx, stale)
	require.NoError(t, err)
	current, err := f.orders.Submit(ctx, dineIn("5", item(tacoID, 1)))
	require.NoError(t, err)

	closed, err := f.accounts.CloseStaleAccounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, closed)

	acc, err := accountRepo{f.store}.FindByID(ctx, old.Order.AccountID)
	require.NoError(t, err)
	assert.Equal(t, account.StateClosed, acc.State)

	acc, err = accountRepo{f.store}.FindByID(ctx, current.Order.AccountID)
	require.NoError(t, err)
	assert.Equal(t, account.StateOpen, acc.State)
}

func TestAccountWritesLockTheAccount(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	result, err := f.orders.Submit(ctx, dineIn("5", item(tacoID, 1)))
	require.NoError(t, err)
	id := result.Order.AccountID
	assert.Contains(t, f.store.locked, id)

	f.store.locked = nil
	_, err = f.accounts.CloseAccount(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []string{id}, f.store.locked)
}
