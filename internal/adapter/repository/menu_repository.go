package repository

import (
	"context"
	"fmt"

	"github.com/hugohenrick/restaurante-pedidos/internal/domain/menu"
	"github.com/hugohenrick/restaurante-pedidos/internal/infrastructure/database"
)

// MenuRepository implementa menu.Repository
type MenuRepository struct {
	db *database.PostgresDB
}

// NewMenuRepository cria uma nova instância de MenuRepository
func NewMenuRepository(db *database.PostgresDB) *MenuRepository {
	return &MenuRepository{db: db}
}

// FindByIDs implementa menu.Repository.FindByIDs
func (r *MenuRepository) FindByIDs(ctx context.Context, ids []int64) (map[int64]*menu.Item, error) {
	items := make(map[int64]*menu.Item, len(ids))
	if len(ids) == 0 {
		return items, nil
	}

	rows, err := r.db.Querier(ctx).Query(ctx,
		`SELECT id, name, category, price, active FROM menu_items WHERE id = ANY($1)`,
		ids,
	)
	if err != nil {
		return nil, fmt.Errorf("falha ao buscar itens do cardápio: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		item := &menu.Item{}
		if err := rows.Scan(&item.ID, &item.Name, &item.Category, &item.Price, &item.Active); err != nil {
			return nil, fmt.Errorf("falha ao ler item do cardápio: %w", err)
		}
		items[item.ID] = item
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("falha ao iterar itens do cardápio: %w", err)
	}

	return items, nil
}
