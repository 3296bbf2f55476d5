package order

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hugohenrick/restaurante-pedidos/internal/domain/calendar"
)

var (
	ErrOrderNotFound      = errors.New("pedido não encontrado")
	ErrInvalidTransition  = errors.New("transição de estado do pedido inválida")
	ErrLinesLocked        = errors.New("itens só podem ser alterados em pedidos pendentes")
	ErrInconsistentTotals = errors.New("totais do pedido inconsistentes")
)

// State representa o andamento do pedido na cozinha
type State string

const (
	StatePending   State = "pending"   // Recebido
	StatePreparing State = "preparing" // Em preparo
	StateReady     State = "ready"     // Pronto
	StateDelivered State = "delivered" // Entregue
	StateCancelled State = "cancelled" // Cancelado
)

var transitions = map[State][]State{
	StatePending:   {StatePreparing, StateCancelled},
	StatePreparing: {StateReady, StateCancelled},
	StateReady:     {StateDelivered, StateCancelled},
}

// IsValid verifica se o estado é conhecido
func (s State) IsValid() bool {
	switch s {
	case StatePending, StatePreparing, StateReady, StateDelivered, StateCancelled:
		return true
	}
	return false
}

// CanTransitionTo verifica se a transição é permitida
func (s State) CanTransitionTo(next State) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Line é um item do pedido
type Line struct {
	ID                 string          `json:"id"`
	Position           int             `json:"position"`
	MenuItemID         *int64          `json:"menu_item_id,omitempty"` // nil para texto livre
	Description        string          `json:"description"`
	UnitPrice          decimal.Decimal `json:"unit_price"`
	Quantity           int             `json:"quantity"`
	Discount           decimal.Decimal `json:"discount"`
	AppliedPromotionID *int64          `json:"applied_promotion_id,omitempty"`
}

// NewLine cria uma linha sem desconto
func NewLine(position int, menuItemID *int64, description string, unitPrice decimal.Decimal, quantity int) Line {
	return Line{
		ID:          uuid.New().String(),
		Position:    position,
		MenuItemID:  menuItemID,
		Description: description,
		UnitPrice:   unitPrice,
		Quantity:    quantity,
		Discount:    decimal.Zero,
	}
}

// Subtotal é preço unitário vezes quantidade
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Total é o subtotal menos o desconto
func (l Line) Total() decimal.Decimal {
	return l.Subtotal().Sub(l.Discount)
}

// Order é um pedido feito por garçom ou cliente
type Order struct {
	ID             string          `json:"id"`
	SequenceNumber string          `json:"sequence_number"` // "Pedido 001" ou "PL0001"
	BusinessDay    calendar.Day    `json:"business_day"`
	TableID        string          `json:"table_id,omitempty"` // Vazio para levar
	AccountID      string          `json:"account_id"`
	ActorID        string          `json:"actor_id"`
	Takeout        bool            `json:"takeout"`
	Lines          []Line          `json:"lines"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountTotal  decimal.Decimal `json:"discount_total"`
	Total          decimal.Decimal `json:"total"`
	State          State           `json:"state"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// NewOrder cria um pedido pendente com os totais calculados a partir das linhas
func NewOrder(sequenceNumber string, day calendar.Day, tableID, accountID, actorID string, takeout bool, lines []Line, now time.Time) *Order {
	o := &Order{
		ID:             uuid.New().String(),
		SequenceNumber: sequenceNumber,
		BusinessDay:    day,
		TableID:        tableID,
		AccountID:      accountID,
		ActorID:        actorID,
		Takeout:        takeout,
		State:          StatePending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	o.SetLines(lines)
	return o
}

// SetLines substitui as linhas e recalcula os totais
func (o *Order) SetLines(lines []Line) {
	o.Lines = lines
	o.Subtotal = decimal.Zero
	o.DiscountTotal = decimal.Zero
	for _, l := range lines {
		o.Subtotal = o.Subtotal.Add(l.Subtotal())
		o.DiscountTotal = o.DiscountTotal.Add(l.Discount)
	}
	o.Total = o.Subtotal.Sub(o.DiscountTotal)
}

// CheckTotals confere os invariantes de valores das linhas e do pedido
func (o *Order) CheckTotals() error {
	subtotal, discount := decimal.Zero, decimal.Zero
	for _, l := range o.Lines {
		if l.Discount.IsNegative() || l.Discount.GreaterThan(l.Subtotal()) {
			return fmt.Errorf("%w: desconto da linha %d fora do limite", ErrInconsistentTotals, l.Position)
		}
		if !l.Discount.IsZero() && l.AppliedPromotionID == nil {
			return fmt.Errorf("%w: linha %d com desconto sem promoção", ErrInconsistentTotals, l.Position)
		}
		subtotal = subtotal.Add(l.Subtotal())
		discount = discount.Add(l.Discount)
	}
	if !subtotal.Equal(o.Subtotal) || !discount.Equal(o.DiscountTotal) || !o.Total.Equal(o.Subtotal.Sub(o.DiscountTotal)) {
		return ErrInconsistentTotals
	}
	return nil
}

// TransitionTo muda o estado do pedido
func (o *Order) TransitionTo(next State, now time.Time) error {
	if !o.State.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.State, next)
	}
	o.State = next
	o.UpdatedAt = now
	return nil
}

// IsActive indica se o pedido conta para o total da conta
func (o *Order) IsActive() bool {
	return o.State != StateCancelled
}

// CanEditLines indica se os itens ainda podem ser alterados
func (o *Order) CanEditLines() bool {
	return o.State == StatePending
}
