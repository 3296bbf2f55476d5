package menu

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrMenuItemNotFound = errors.New("item do cardápio não encontrado")
)

// Item é um produto do cardápio. O preço do catálogo é o preço cobrado.
type Item struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
	Active   bool            `json:"active"`
}

// Repository define a leitura do cardápio
type Repository interface {
	// FindByIDs retorna os itens encontrados indexados pelo ID; IDs ausentes
	// simplesmente não aparecem no mapa
	FindByIDs(ctx context.Context, ids []int64) (map[int64]*Item, error)
}
