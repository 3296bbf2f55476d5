package promotion

import "context"

// Repository define as operações de leitura de promoções
type Repository interface {
	// ListActive retorna as promoções ativas com seus itens elegíveis
	ListActive(ctx context.Context) ([]Promotion, error)

	// FindByID busca uma promoção pelo ID
	FindByID(ctx context.Context, id int64) (*Promotion, error)
}
