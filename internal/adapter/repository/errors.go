package repository

import (
	"fmt"

	"github.com/hugohenrick/restaurante-pedidos/internal/domain/account"
	"github.com/hugohenrick/restaurante-pedidos/internal/domain/menu"
	"github.com/hugohenrick/restaurante-pedidos/internal/domain/sequence"
	"github.com/hugohenrick/restaurante-pedidos/internal/domain/user"
	"github.com/hugohenrick/restaurante-pedidos/internal/infrastructure/database"
)

// Restrições nomeadas em migrations/000001_init.up.sql
const (
	constraintReservation   = "sequence_reservations_scope_day_number_key"
	constraintAccountNumber = "accounts_day_number_key"
	constraintAccountOpen   = "accounts_open_table_key"
	constraintOrderNumber   = "orders_day_number_key"
	constraintLineMenuItem  = "order_lines_menu_item_id_fkey"
	constraintOrderActor    = "orders_actor_id_fkey"
	constraintAccountOpener = "accounts_opened_by_fkey"
)

var uniqueErrors = map[string]error{
	constraintReservation:   sequence.ErrDuplicateNumber,
	constraintAccountNumber: sequence.ErrDuplicateNumber,
	constraintOrderNumber:   sequence.ErrDuplicateNumber,
	constraintAccountOpen:   account.ErrOpenAccountExists,
}

var foreignKeyErrors = map[string]error{
	constraintLineMenuItem:  menu.ErrMenuItemNotFound,
	constraintOrderActor:    user.ErrUserNotFound,
	constraintAccountOpener: user.ErrUserNotFound,
}

// mapWriteError traduz violações de restrição conhecidas em erros de domínio
func mapWriteError(err error, msg string) error {
	if name, ok := database.UniqueViolation(err); ok {
		if domainErr, known := uniqueErrors[name]; known {
			return fmt.Errorf("%w: %s", domainErr, name)
		}
	}
	if name, ok := database.ForeignKeyViolation(err); ok {
		if domainErr, known := foreignKeyErrors[name]; known {
			return fmt.Errorf("%w: %s", domainErr, name)
		}
	}
	return fmt.Errorf("%s: %w", msg, err)
}
