package account

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hugohenrick/restaurante-pedidos/internal/domain/calendar"
)

var (
	ErrAccountNotFound     = errors.New("conta não encontrada")
	ErrOpenAccountExists   = errors.New("já existe uma conta aberta para a mesa no dia")
	ErrInvalidTransition   = errors.New("transição de estado da conta inválida")
	ErrAccountHasOrders    = errors.New("conta possui pedidos ativos")
	ErrEmptyTable          = errors.New("identificador da mesa não pode ser vazio")
	ErrEmptySequenceNumber = errors.New("número da conta não pode ser vazio")
)

// State representa o ciclo de vida da conta
type State string

const (
	StateOpen      State = "open"      // Recebendo pedidos
	StateClosed    State = "closed"    // Conta pedida, aguardando pagamento
	StateSettled   State = "settled"   // Paga
	StateCancelled State = "cancelled" // Cancelada sem pedidos
)

// IsValid verifica se o estado é conhecido
func (s State) IsValid() bool {
	switch s {
	case StateOpen, StateClosed, StateSettled, StateCancelled:
		return true
	}
	return false
}

// Account agrupa os pedidos de uma mesa (ou de um pedido para levar) no dia
type Account struct {
	ID             string          `json:"id"`
	SequenceNumber string          `json:"sequence_number"` // "Cuenta 001"
	BusinessDay    calendar.Day    `json:"business_day"`
	TableID        string          `json:"table_id"` // Mesa, ou número do pedido para levar
	State          State           `json:"state"`
	Total          decimal.Decimal `json:"total"`
	OpenedBy       string          `json:"opened_by"`
	OpenedAt       time.Time       `json:"opened_at"`
	ClosedAt       *time.Time      `json:"closed_at,omitempty"`
	SettledAt      *time.Time      `json:"settled_at,omitempty"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// NewAccount cria uma conta aberta com total zero
func NewAccount(sequenceNumber string, day calendar.Day, tableID, openedBy string, now time.Time) (*Account, error) {
	if tableID == "" {
		return nil, ErrEmptyTable
	}
	if sequenceNumber == "" {
		return nil, ErrEmptySequenceNumber
	}

	return &Account{
		ID:             uuid.New().String(),
		SequenceNumber: sequenceNumber,
		BusinessDay:    day,
		TableID:        tableID,
		State:          StateOpen,
		Total:          decimal.Zero,
		OpenedBy:       openedBy,
		OpenedAt:       now,
		UpdatedAt:      now,
	}, nil
}

// IsOpen verifica se a conta ainda aceita pedidos
func (a *Account) IsOpen() bool {
	return a.State == StateOpen
}

// Close fecha a conta
func (a *Account) Close(now time.Time) error {
	if a.State != StateOpen {
		return a.invalid(StateClosed)
	}
	a.State = StateClosed
	a.ClosedAt = &now
	a.UpdatedAt = now
	return nil
}

// Settle registra o pagamento de uma conta fechada
func (a *Account) Settle(now time.Time) error {
	if a.State != StateClosed {
		return a.invalid(StateSettled)
	}
	a.State = StateSettled
	a.SettledAt = &now
	a.UpdatedAt = now
	return nil
}

// Cancel cancela uma conta aberta ou fechada que não tenha pedidos ativos
func (a *Account) Cancel(now time.Time, activeOrders int) error {
	if a.State != StateOpen && a.State != StateClosed {
		return a.invalid(StateCancelled)
	}
	if activeOrders > 0 {
		return fmt.Errorf("%w: %d pedido(s)", ErrAccountHasOrders, activeOrders)
	}
	a.State = StateCancelled
	a.Total = decimal.Zero
	a.UpdatedAt = now
	return nil
}

func (a *Account) invalid(to State) error {
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, a.State, to)
}
