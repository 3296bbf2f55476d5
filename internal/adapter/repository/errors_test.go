package repository

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/hugohenrick/restaurante-pedidos/internal/domain/account"
	"github.com/hugohenrick/restaurante-pedidos/internal/domain/menu"
	"github.com/hugohenrick/restaurante-pedidos/internal/domain/sequence"
)

func TestMapWriteError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"reserva duplicada", &pgconn.PgError{Code: "23505", ConstraintName: constraintReservation}, sequence.ErrDuplicateNumber},
		{"pedido duplicado", &pgconn.PgError{Code: "23505", ConstraintName: constraintOrderNumber}, sequence.ErrDuplicateNumber},
		{"conta aberta", &pgconn.PgError{Code: "23505", ConstraintName: constraintAccountOpen}, account.ErrOpenAccountExists},
		{"item inexistente", &pgconn.PgError{Code: "23503", ConstraintName: constraintLineMenuItem}, menu.ErrMenuItemNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, mapWriteError(tt.err, "falha"), tt.want)
		})
	}
}

func TestMapWriteErrorKeepsUnknown(t *testing.T) {
	original := &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
	err := mapWriteError(original, "falha ao inserir")

	assert.False(t, errors.Is(err, sequence.ErrDuplicateNumber))
	var pgErr *pgconn.PgError
	assert.True(t, errors.As(err, &pgErr))
	assert.Contains(t, err.Error(), "falha ao inserir")
}
