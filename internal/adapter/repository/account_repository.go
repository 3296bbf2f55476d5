package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/hugohenrick/restaurante-pedidos/internal/domain/account"
	"github.com/hugohenrick/restaurante-pedidos/internal/domain/calendar"
	"github.com/hugohenrick/restaurante-pedidos/internal/domain/order"
	"github.com/hugohenrick/restaurante-pedidos/internal/infrastructure/database"
)

const accountColumns = `
	id, sequence_number, business_day, table_id, state, total,
	opened_by, opened_at, closed_at, settled_at, updated_at`

// AccountRepository implementa a interface account.Repository usando PostgreSQL
type AccountRepository struct {
	db *database.PostgresDB
}

// NewAccountRepository cria uma nova instância de AccountRepository
func NewAccountRepository(db *database.PostgresDB) *AccountRepository {
	return &AccountRepository{db: db}
}

// Create implementa account.Repository.Create
func (r *AccountRepository) Create(ctx context.Context, a *account.Account) error {
	query := `
		INSERT INTO accounts (
			id, sequence_number, business_day, table_id, state, total,
			opened_by, opened_at, closed_at, settled_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		)
	`

	_, err := r.db.Querier(ctx).Exec(ctx, query,
		a.ID,
		a.SequenceNumber,
		a.BusinessDay.Date(),
		a.TableID,
		string(a.State),
		a.Total,
		a.OpenedBy,
		a.OpenedAt,
		a.ClosedAt,
		a.SettledAt,
		a.UpdatedAt,
	)
	if err != nil {
		return mapWriteError(err, "falha ao inserir conta")
	}
	return nil
}

// FindByID implementa account.Repository.FindByID
func (r *AccountRepository) FindByID(ctx context.Context, id string) (*account.Account, error) {
	row := r.db.Querier(ctx).QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id::text = $1`, id)
	return scanAccount(row)
}

// FindForUpdate implementa account.Repository.FindForUpdate
func (r *AccountRepository) FindForUpdate(ctx context.Context, id string) (*account.Account, error) {
	row := r.db.Querier(ctx).QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id::text = $1 FOR UPDATE`, id)
	return scanAccount(row)
}

// FindOpen implementa account.Repository.FindOpen
func (r *AccountRepository) FindOpen(ctx context.Context, day calendar.Day, tableID string) (*account.Account, error) {
	row := r.db.Querier(ctx).QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts
		 WHERE business_day = $1 AND table_id = $2 AND state = $3
		 FOR UPDATE`,
		day.Date(), tableID, string(account.StateOpen))
	return scanAccount(row)
}

// List implementa account.Repository.List
func (r *AccountRepository) List(ctx context.Context, filter account.Filter) ([]*account.Account, error) {
	var (
		conditions []string
		args       []any
	)
	if filter.Day != nil {
		args = append(args, filter.Day.Date())
		conditions = append(conditions, fmt.Sprintf("business_day = $%d", len(args)))
	}
	if filter.State != "" {
		args = append(args, string(filter.State))
		conditions = append(conditions, fmt.Sprintf("state = $%d", len(args)))
	}

	query := `SELECT ` + accountColumns + ` FROM accounts`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY business_day DESC, opened_at`

	return r.list(ctx, query, args...)
}

// ListOpenBefore implementa account.Repository.ListOpenBefore
func (r *AccountRepository) ListOpenBefore(ctx context.Context, day calendar.Day) ([]*account.Account, error) {
	return r.list(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE state = $1 AND business_day < $2 ORDER BY business_day, opened_at`,
		string(account.StateOpen), day.Date())
}

func (r *AccountRepository) list(ctx context.Context, query string, args ...any) ([]*account.Account, error) {
	rows, err := r.db.Querier(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar contas: %w", err)
	}
	defer rows.Close()

	var accounts []*account.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("falha ao iterar contas: %w", err)
	}
	return accounts, nil
}

// SumActiveOrders implementa account.Repository.SumActiveOrders
func (r *AccountRepository) SumActiveOrders(ctx context.Context, accountID string) (decimal.Decimal, int, error) {
	var (
		total decimal.Decimal
		count int
	)
	err := r.db.Querier(ctx).QueryRow(ctx,
		`SELECT COALESCE(SUM(total), 0), COUNT(*) FROM orders WHERE account_id::text = $1 AND state <> $2`,
		accountID, string(order.StateCancelled),
	).Scan(&total, &count)
	if err != nil {
		return decimal.Zero, 0, fmt.Errorf("falha ao somar pedidos da conta: %w", err)
	}
	return total, count, nil
}

// UpdateTotal implementa account.Repository.UpdateTotal
func (r *AccountRepository) UpdateTotal(ctx context.Context, id string, total decimal.Decimal) error {
	tag, err := r.db.Querier(ctx).Exec(ctx,
		`UPDATE accounts SET total = $2, updated_at = $3 WHERE id::text = $1`,
		id, total, time.Now())
	if err != nil {
		return fmt.Errorf("falha ao atualizar total da conta: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return account.ErrAccountNotFound
	}
	return nil
}

// UpdateState implementa account.Repository.UpdateState
func (r *AccountRepository) UpdateState(ctx context.Context, a *account.Account) error {
	tag, err := r.db.Querier(ctx).Exec(ctx,
		`UPDATE accounts
		 SET state = $2, closed_at = $3, settled_at = $4, updated_at = $5
		 WHERE id::text = $1`,
		a.ID, string(a.State), a.ClosedAt, a.SettledAt, a.UpdatedAt)
	if err != nil {
		return mapWriteError(err, "falha ao atualizar estado da conta")
	}
	if tag.RowsAffected() == 0 {
		return account.ErrAccountNotFound
	}
	return nil
}

func scanAccount(row pgx.Row) (*account.Account, error) {
	a := &account.Account{}
	var (
		day   time.Time
		state string
	)
	err := row.Scan(
		&a.ID, &a.SequenceNumber, &day, &a.TableID, &state, &a.Total,
		&a.OpenedBy, &a.OpenedAt, &a.ClosedAt, &a.SettledAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, account.ErrAccountNotFound
		}
		return nil, fmt.Errorf("falha ao ler conta: %w", err)
	}
	a.BusinessDay = calendar.DayFromDate(day)
	a.State = account.State(state)
	return a, nil
}
