package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hugohenrick/restaurante-pedidos/internal/domain/calendar"
	"github.com/hugohenrick/restaurante-pedidos/internal/domain/sequence"
)

// NumberAllocator reserva números de conta
type NumberAllocator interface {
	AllocateAndClaim(ctx context.Context, scope sequence.Scope, day calendar.Day, claim sequence.ClaimFunc) (string, error)
}

// Ledger mantém no máximo uma conta aberta por mesa e dia e o total de cada
// conta igual à soma dos seus pedidos não cancelados
type Ledger struct {
	repository Repository
	allocator  NumberAllocator
}

// NewLedger cria um novo Ledger
func NewLedger(repository Repository, allocator NumberAllocator) *Ledger {
	return &Ledger{
		repository: repository,
		allocator:  allocator,
	}
}

// ResolveOrCreate retorna a conta aberta da mesa no dia ou abre uma nova.
// Se duas requisições tentarem abrir ao mesmo tempo, a que perder a corrida
// recebe a conta criada pela outra. O booleano indica se a conta foi criada.
func (l *Ledger) ResolveOrCreate(ctx context.Context, day calendar.Day, tableID, openedBy string, now time.Time) (*Account, bool, error) {
	existing, err := l.repository.FindOpen(ctx, day, tableID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, ErrAccountNotFound) {
		return nil, false, fmt.Errorf("erro ao buscar conta aberta: %w", err)
	}

	var created *Account
	_, err = l.allocator.AllocateAndClaim(ctx, sequence.ScopeAccounts, day, func(ctx context.Context, number string) error {
		a, err := NewAccount(number, day, tableID, openedBy, now)
		if err != nil {
			return err
		}
		if err := l.repository.Create(ctx, a); err != nil {
			return err
		}
		created = a
		return nil
	})
	if err == nil {
		return created, true, nil
	}
	if !errors.Is(err, ErrOpenAccountExists) {
		return nil, false, err
	}

	existing, err = l.repository.FindOpen(ctx, day, tableID)
	if err != nil {
		return nil, false, fmt.Errorf("erro ao buscar conta aberta concorrente: %w", err)
	}
	return existing, false, nil
}

// RecomputeTotal recalcula o total a partir de todos os pedidos não cancelados.
// A conta fica bloqueada antes da soma, então duas transações que recalculam a
// mesma conta são serializadas e a segunda soma enxerga o pedido da primeira.
func (l *Ledger) RecomputeTotal(ctx context.Context, accountID string) (*Account, error) {
	if _, err := l.repository.FindForUpdate(ctx, accountID); err != nil {
		return nil, fmt.Errorf("erro ao bloquear conta: %w", err)
	}
	total, _, err := l.repository.SumActiveOrders(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("erro ao somar pedidos da conta: %w", err)
	}
	if err := l.repository.UpdateTotal(ctx, accountID, total); err != nil {
		return nil, fmt.Errorf("erro ao atualizar total da conta: %w", err)
	}
	return l.repository.FindByID(ctx, accountID)
}
