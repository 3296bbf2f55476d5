package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/hugohenrick/restaurante-pedidos/internal/domain/promotion"
	"github.com/hugohenrick/restaurante-pedidos/internal/infrastructure/database"
)

const promotionColumns = `
	id, name, active, items_required, items_free, eligible_category,
	applicable_days, start_time, end_time, created_at`

// PromotionRepository implementa promotion.Repository
type PromotionRepository struct {
	db *database.PostgresDB
}

// NewPromotionRepository cria uma nova instância de PromotionRepository
func NewPromotionRepository(db *database.PostgresDB) *PromotionRepository {
	return &PromotionRepository{db: db}
}

// ListActive implementa promotion.Repository.ListActive
func (r *PromotionRepository) ListActive(ctx context.Context) ([]promotion.Promotion, error) {
	q := r.db.Querier(ctx)
	rows, err := q.Query(ctx,
		`SELECT `+promotionColumns+` FROM promotions WHERE active ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar promoções: %w", err)
	}

	var (
		promotions []promotion.Promotion
		ids        []int64
	)
	for rows.Next() {
		p, err := scanPromotion(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		promotions = append(promotions, *p)
		ids = append(ids, p.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("falha ao iterar promoções: %w", err)
	}

	items, err := r.loadItems(ctx, q, ids)
	if err != nil {
		return nil, err
	}
	for i := range promotions {
		promotions[i].EligibleItems = items[promotions[i].ID]
	}
	return promotions, nil
}

// FindByID implementa promotion.Repository.FindByID
func (r *PromotionRepository) FindByID(ctx context.Context, id int64) (*promotion.Promotion, error) {
	q := r.db.Querier(ctx)
	p, err := scanPromotion(q.QueryRow(ctx, `SELECT `+promotionColumns+` FROM promotions WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}

	items, err := r.loadItems(ctx, q, []int64{p.ID})
	if err != nil {
		return nil, err
	}
	p.EligibleItems = items[p.ID]
	return p, nil
}

func (r *PromotionRepository) loadItems(ctx context.Context, q database.Querier, ids []int64) (map[int64][]promotion.EligibleItem, error) {
	items := make(map[int64][]promotion.EligibleItem, len(ids))
	if len(ids) == 0 {
		return items, nil
	}

	rows, err := q.Query(ctx, `
		SELECT pi.promotion_id, m.id, m.price, m.category
		FROM promotion_items pi
		JOIN menu_items m ON m.id = pi.menu_item_id
		WHERE pi.promotion_id = ANY($1) AND m.active
		ORDER BY pi.promotion_id, m.id`, ids)
	if err != nil {
		return nil, fmt.Errorf("falha ao buscar itens das promoções: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			promotionID int64
			item        promotion.EligibleItem
		)
		if err := rows.Scan(&promotionID, &item.MenuItemID, &item.Price, &item.Category); err != nil {
			return nil, fmt.Errorf("falha ao ler item da promoção: %w", err)
		}
		items[promotionID] = append(items[promotionID], item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("falha ao iterar itens das promoções: %w", err)
	}
	return items, nil
}

func scanPromotion(row pgx.Row) (*promotion.Promotion, error) {
	p := &promotion.Promotion{}
	var (
		category   *string
		days       []int32
		start, end pgtype.Time
	)
	err := row.Scan(
		&p.ID, &p.Name, &p.Active, &p.ItemsRequired, &p.ItemsFree, &category,
		&days, &start, &end, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, promotion.ErrPromotionNotFound
		}
		return nil, fmt.Errorf("falha ao ler promoção: %w", err)
	}

	if category != nil {
		p.EligibleCategory = *category
	}
	p.ApplicableDays = weekdays(days)
	p.Window = window(start, end)
	return p, nil
}

// weekdays converte a coluna int[] (0 = domingo) em time.Weekday
func weekdays(days []int32) []time.Weekday {
	out := make([]time.Weekday, 0, len(days))
	for _, d := range days {
		if d >= 0 && d <= 6 {
			out = append(out, time.Weekday(d))
		}
	}
	return out
}

// window monta a janela a partir das colunas TIME; nulas significam o dia todo
func window(start, end pgtype.Time) *promotion.TimeWindow {
	if !start.Valid || !end.Valid {
		return nil
	}
	return &promotion.TimeWindow{
		Start: promotion.TimeOfDay(start.Microseconds / int64(time.Second/time.Microsecond)),
		End:   promotion.TimeOfDay(end.Microseconds / int64(time.Second/time.Microsecond)),
	}
}
