package account

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/hugohenrick/restaurante-pedidos/internal/domain/calendar"
)

// Filter restringe a listagem de contas
type Filter struct {
	Day   *calendar.Day
	State State
}

// Repository define a interface para operações de repositório de contas
type Repository interface {
	// Create insere a conta; retorna ErrOpenAccountExists quando outra conta
	// aberta ocupa a mesma mesa no dia
	Create(ctx context.Context, a *Account) error

	// FindByID busca uma conta pelo ID
	FindByID(ctx context.Context, id string) (*Account, error)

	// FindForUpdate busca a conta e bloqueia a linha até o fim da transação
	FindForUpdate(ctx context.Context, id string) (*Account, error)

	// FindOpen busca e bloqueia a conta aberta da mesa no dia;
	// ErrAccountNotFound se não houver
	FindOpen(ctx context.Context, day calendar.Day, tableID string) (*Account, error)

	// List lista as contas que atendem ao filtro
	List(ctx context.Context, filter Filter) ([]*Account, error)

	// ListOpenBefore lista contas abertas de dias anteriores ao informado
	ListOpenBefore(ctx context.Context, day calendar.Day) ([]*Account, error)

	// SumActiveOrders soma os totais dos pedidos não cancelados da conta
	SumActiveOrders(ctx context.Context, accountID string) (decimal.Decimal, int, error)

	// UpdateTotal grava o total recalculado
	UpdateTotal(ctx context.Context, id string, total decimal.Decimal) error

	// UpdateState grava estado e datas do ciclo de vida. O total só muda
	// por UpdateTotal.
	UpdateState(ctx context.Context, a *Account) error
}
