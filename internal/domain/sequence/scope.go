package sequence

import (
	"context"
	"errors"
	"fmt"

	"github.com/hugohenrick/restaurante-pedidos/internal/domain/calendar"
)

var (
	// ErrAllocationExhausted ocorre quando o limite de tentativas é atingido
	ErrAllocationExhausted = errors.New("não foi possível alocar um número de sequência")

	// ErrDuplicateNumber ocorre quando o número já foi reservado por outra requisição
	ErrDuplicateNumber = errors.New("número de sequência já reservado")

	// ErrInvalidScope ocorre quando o escopo não é conhecido
	ErrInvalidScope = errors.New("escopo de sequência inválido")
)

// Scope identifica um contador diário independente
type Scope string

const (
	ScopeDineIn   Scope = "orders-dine-in" // Pedidos de mesa
	ScopeTakeout  Scope = "orders-takeout" // Pedidos para levar
	ScopeAccounts Scope = "accounts"       // Contas
)

// IsValid verifica se o escopo é conhecido
func (s Scope) IsValid() bool {
	switch s {
	case ScopeDineIn, ScopeTakeout, ScopeAccounts:
		return true
	}
	return false
}

// Format gera o número legível para a posição n do escopo
func (s Scope) Format(n int) string {
	switch s {
	case ScopeDineIn:
		return fmt.Sprintf("Pedido %03d", n)
	case ScopeTakeout:
		return fmt.Sprintf("PL%04d", n)
	case ScopeAccounts:
		return fmt.Sprintf("Cuenta %03d", n)
	}
	return fmt.Sprintf("%s-%d", s, n)
}

// Repository define o armazenamento das reservas de número
type Repository interface {
	// Count conta as reservas existentes do escopo no dia
	Count(ctx context.Context, scope Scope, day calendar.Day) (int, error)

	// Reserve insere a reserva; retorna ErrDuplicateNumber em violação de unicidade
	Reserve(ctx context.Context, scope Scope, day calendar.Day, number string) error
}

// Transactor executa uma função dentro de uma transação (ou savepoint,
// quando já existe uma transação no contexto)
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ClaimFunc insere a linha dona do número reservado na mesma transação
type ClaimFunc func(ctx context.Context, number string) error
