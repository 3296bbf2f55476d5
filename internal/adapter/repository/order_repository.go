package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/hugohenrick/restaurante-pedidos/internal/domain/calendar"
	"github.com/hugohenrick/restaurante-pedidos/internal/domain/order"
	"github.com/hugohenrick/restaurante-pedidos/internal/infrastructure/database"
)

const orderColumns = `
	id, sequence_number, business_day, table_id, account_id, actor_id, is_takeout,
	subtotal, discount_total, total, state, created_at, updated_at`

const insertLine = `
	INSERT INTO order_lines (
		id, order_id, position, menu_item_id, description, unit_price,
		quantity, discount, applied_promotion_id
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

// OrderRepository implementa a interface order.Repository usando PostgreSQL
type OrderRepository struct {
	db *database.PostgresDB
}

// NewOrderRepository cria uma nova instância de OrderRepository
func NewOrderRepository(db *database.PostgresDB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create implementa order.Repository.Create
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	return r.db.WithinTransaction(ctx, func(ctx context.Context) error {
		q := r.db.Querier(ctx)

		var tableID any
		if o.TableID != "" {
			tableID = o.TableID
		}

		_, err := q.Exec(ctx, `
			INSERT INTO orders (`+orderColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
			o.ID,
			o.SequenceNumber,
			o.BusinessDay.Date(),
			tableID,
			o.AccountID,
			o.ActorID,
			o.Takeout,
			o.Subtotal,
			o.DiscountTotal,
			o.Total,
			string(o.State),
			o.CreatedAt,
			o.UpdatedAt,
		)
		if err != nil {
			return mapWriteError(err, "falha ao inserir pedido")
		}

		return r.insertLines(ctx, q, o)
	})
}

func (r *OrderRepository) insertLines(ctx context.Context, q database.Querier, o *order.Order) error {
	if len(o.Lines) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, l := range o.Lines {
		batch.Queue(insertLine,
			l.ID, o.ID, l.Position, l.MenuItemID, l.Description,
			l.UnitPrice, l.Quantity, l.Discount, l.AppliedPromotionID,
		)
	}

	results := q.SendBatch(ctx, batch)
	for range o.Lines {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return mapWriteError(err, "falha ao inserir item do pedido")
		}
	}
	if err := results.Close(); err != nil {
		return mapWriteError(err, "falha ao inserir itens do pedido")
	}
	return nil
}

// FindByID implementa order.Repository.FindByID
func (r *OrderRepository) FindByID(ctx context.Context, id string) (*order.Order, error) {
	q := r.db.Querier(ctx)
	o, err := scanOrder(q.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id::text = $1`, id))
	if err != nil {
		return nil, err
	}

	lines, err := r.loadLines(ctx, q, []string{o.ID})
	if err != nil {
		return nil, err
	}
	o.Lines = lines[o.ID]
	return o, nil
}

// ListByAccount implementa order.Repository.ListByAccount
func (r *OrderRepository) ListByAccount(ctx context.Context, accountID string) ([]*order.Order, error) {
	q := r.db.Querier(ctx)
	rows, err := q.Query(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE account_id::text = $1 ORDER BY created_at, sequence_number`,
		accountID)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar pedidos da conta: %w", err)
	}

	var (
		orders []*order.Order
		ids    []string
	)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		orders = append(orders, o)
		ids = append(ids, o.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("falha ao iterar pedidos: %w", err)
	}

	lines, err := r.loadLines(ctx, q, ids)
	if err != nil {
		return nil, err
	}
	for _, o := range orders {
		o.Lines = lines[o.ID]
	}
	return orders, nil
}

// UpdateState implementa order.Repository.UpdateState
func (r *OrderRepository) UpdateState(ctx context.Context, o *order.Order) error {
	tag, err := r.db.Querier(ctx).Exec(ctx,
		`UPDATE orders SET state = $2, updated_at = $3 WHERE id::text = $1`,
		o.ID, string(o.State), o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("falha ao atualizar estado do pedido: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrOrderNotFound
	}
	return nil
}

// ReplaceLines implementa order.Repository.ReplaceLines
func (r *OrderRepository) ReplaceLines(ctx context.Context, o *order.Order) error {
	return r.db.WithinTransaction(ctx, func(ctx context.Context) error {
		q := r.db.Querier(ctx)

		tag, err := q.Exec(ctx,
			`UPDATE orders SET subtotal = $2, discount_total = $3, total = $4, updated_at = $5 WHERE id::text = $1`,
			o.ID, o.Subtotal, o.DiscountTotal, o.Total, o.UpdatedAt)
		if err != nil {
			return fmt.Errorf("falha ao atualizar totais do pedido: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return order.ErrOrderNotFound
		}

		if _, err := q.Exec(ctx, `DELETE FROM order_lines WHERE order_id::text = $1`, o.ID); err != nil {
			return fmt.Errorf("falha ao remover itens do pedido: %w", err)
		}

		return r.insertLines(ctx, q, o)
	})
}

func (r *OrderRepository) loadLines(ctx context.Context, q database.Querier, orderIDs []string) (map[string][]order.Line, error) {
	lines := make(map[string][]order.Line, len(orderIDs))
	if len(orderIDs) == 0 {
		return lines, nil
	}

	rows, err := q.Query(ctx, `
		SELECT id, order_id, position, menu_item_id, description, unit_price,
		       quantity, discount, applied_promotion_id
		FROM order_lines
		WHERE order_id::text = ANY($1)
		ORDER BY order_id, position`, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("falha ao buscar itens do pedido: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			l       order.Line
			orderID string
		)
		if err := rows.Scan(
			&l.ID, &orderID, &l.Position, &l.MenuItemID, &l.Description, &l.UnitPrice,
			&l.Quantity, &l.Discount, &l.AppliedPromotionID,
		); err != nil {
			return nil, fmt.Errorf("falha ao ler item do pedido: %w", err)
		}
		lines[orderID] = append(lines[orderID], l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("falha ao iterar itens do pedido: %w", err)
	}
	return lines, nil
}

func scanOrder(row pgx.Row) (*order.Order, error) {
	o := &order.Order{}
	var (
		day     time.Time
		tableID *string
		state   string
	)
	err := row.Scan(
		&o.ID, &o.SequenceNumber, &day, &tableID, &o.AccountID, &o.ActorID, &o.Takeout,
		&o.Subtotal, &o.DiscountTotal, &o.Total, &state, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrOrderNotFound
		}
		return nil, fmt.Errorf("falha ao ler pedido: %w", err)
	}
	o.BusinessDay = calendar.DayFromDate(day)
	if tableID != nil {
		o.TableID = *tableID
	}
	o.State = order.State(state)
	return o, nil
}
