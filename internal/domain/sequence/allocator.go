package sequence

import (
	"context"
	"errors"
	"fmt"

	"github.com/hugohenrick/restaurante-pedidos/internal/domain/calendar"
)

// DefaultMaxAttempts é o limite de tentativas por alocação
const DefaultMaxAttempts = 100

// Allocator gera números de sequência únicos por escopo e dia.
//
// A alocação é otimista: conta as reservas do dia, tenta reservar n+1 e, em
// caso de violação da restrição única (scope, business_day, sequence_number),
// incrementa o candidato e tenta de novo. Cada tentativa roda em seu próprio
// savepoint para que um conflito não aborte a transação do chamador.
// Garante unicidade, não ordem nem ausência de lacunas.
type Allocator struct {
	repository  Repository
	transactor  Transactor
	maxAttempts int
}

// NewAllocator cria um novo alocador; maxAttempts <= 0 usa DefaultMaxAttempts
func NewAllocator(repository Repository, transactor Transactor, maxAttempts int) *Allocator {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Allocator{
		repository:  repository,
		transactor:  transactor,
		maxAttempts: maxAttempts,
	}
}

// Allocate reserva o próximo número livre do escopo no dia
func (a *Allocator) Allocate(ctx context.Context, scope Scope, day calendar.Day) (string, error) {
	return a.AllocateAndClaim(ctx, scope, day, nil)
}

// AllocateAndClaim reserva o próximo número livre e executa claim no mesmo
// savepoint. Se claim retornar ErrDuplicateNumber a tentativa é repetida com o
// próximo candidato; qualquer outro erro é devolvido ao chamador.
func (a *Allocator) AllocateAndClaim(ctx context.Context, scope Scope, day calendar.Day, claim ClaimFunc) (string, error) {
	if !scope.IsValid() {
		return "", fmt.Errorf("%w: %s", ErrInvalidScope, scope)
	}

	count, err := a.repository.Count(ctx, scope, day)
	if err != nil {
		return "", fmt.Errorf("erro ao contar reservas de %s: %w", scope, err)
	}

	candidate := count + 1
	for attempt := 0; attempt < a.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		number := scope.Format(candidate)
		err := a.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
			if err := a.repository.Reserve(ctx, scope, day, number); err != nil {
				return err
			}
			if claim != nil {
				return claim(ctx, number)
			}
			return nil
		})
		if err == nil {
			return number, nil
		}
		if !errors.Is(err, ErrDuplicateNumber) {
			return "", err
		}

		candidate++
	}

	return "", fmt.Errorf("%w: escopo %s, dia %s, %d tentativas", ErrAllocationExhausted, scope, day, a.maxAttempts)
}
