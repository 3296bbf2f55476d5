package order

import (
	"context"
)

// Repository define a interface para operações de repositório de pedidos
type Repository interface {
	// Create insere o pedido e suas linhas; retorna sequence.ErrDuplicateNumber
	// se o número já existir no dia
	Create(ctx context.Context, o *Order) error

	// FindByID busca um pedido com suas linhas
	FindByID(ctx context.Context, id string) (*Order, error)

	// ListByAccount lista os pedidos de uma conta em ordem de criação
	ListByAccount(ctx context.Context, accountID string) ([]*Order, error)

	// UpdateState grava o novo estado
	UpdateState(ctx context.Context, o *Order) error

	// ReplaceLines regrava as linhas e os totais do pedido
	ReplaceLines(ctx context.Context, o *Order) error
}
