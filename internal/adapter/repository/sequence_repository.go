package repository

import (
	"context"
	"fmt"

	"github.com/hugohenrick/restaurante-pedidos/internal/domain/calendar"
	"github.com/hugohenrick/restaurante-pedidos/internal/domain/sequence"
	"github.com/hugohenrick/restaurante-pedidos/internal/infrastructure/database"
)

// SequenceRepository implementa sequence.Repository sobre a tabela
// sequence_reservations
type SequenceRepository struct {
	db *database.PostgresDB
}

// NewSequenceRepository cria uma nova instância de SequenceRepository
func NewSequenceRepository(db *database.PostgresDB) *SequenceRepository {
	return &SequenceRepository{db: db}
}

// Count implementa sequence.Repository.Count
func (r *SequenceRepository) Count(ctx context.Context, scope sequence.Scope, day calendar.Day) (int, error) {
	var count int
	err := r.db.Querier(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM sequence_reservations WHERE scope = $1 AND business_day = $2`,
		string(scope), day.Date(),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("falha ao contar reservas: %w", err)
	}
	return count, nil
}

// Reserve implementa sequence.Repository.Reserve
func (r *SequenceRepository) Reserve(ctx context.Context, scope sequence.Scope, day calendar.Day, number string) error {
	_, err := r.db.Querier(ctx).Exec(ctx,
		`INSERT INTO sequence_reservations (scope, business_day, sequence_number) VALUES ($1, $2, $3)`,
		string(scope), day.Date(), number,
	)
	if err != nil {
		return mapWriteError(err, "falha ao reservar número")
	}
	return nil
}
