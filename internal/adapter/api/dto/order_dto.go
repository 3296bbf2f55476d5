package dto

import (
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/hugohenrick/restaurante-pedidos/internal/domain/calendar"
	"github.com/hugohenrick/restaurante-pedidos/internal/domain/order"
	"github.com/hugohenrick/restaurante-pedidos/internal/service"
)

// LineRequest representa um item do pedido. Itens do cardápio usam o preço
// do catálogo; itens sem menu_item_id precisam de descrição e preço.
type LineRequest struct {
	MenuItemID  *int64           `json:"menu_item_id,omitempty" example:"7"`
	Description string           `json:"description,omitempty" example:"Sem cebola"`
	UnitPrice   *decimal.Decimal `json:"unit_price,omitempty" swaggertype:"string" example:"12.00"`
	Quantity    int              `json:"quantity" example:"2"`
}

// SubmitOrderRequest representa os dados de um novo pedido
type SubmitOrderRequest struct {
	TableID     string        `json:"table_id" example:"5"`
	Takeout     bool          `json:"takeout"`
	Lines       []LineRequest `json:"lines"`
	BusinessDay *calendar.Day `json:"business_day,omitempty" swaggertype:"string" example:"2026-10-14"`
}

// QuoteRequest representa um carrinho a precificar
type QuoteRequest struct {
	Lines []LineRequest `json:"lines"`
}

// ReplaceLinesRequest representa os novos itens de um pedido pendente
type ReplaceLinesRequest struct {
	Lines []LineRequest `json:"lines"`
}

// ChangeOrderStateRequest representa a mudança de estado de um pedido
type ChangeOrderStateRequest struct {
	State string `json:"state" binding:"required" example:"preparing"`
}

// LineResponse representa um item precificado
type LineResponse struct {
	ID                 string `json:"id,omitempty"`
	Position           int    `json:"position"`
	MenuItemID         *int64 `json:"menu_item_id,omitempty"`
	Description        string `json:"description"`
	UnitPrice          string `json:"unit_price"`
	Quantity           int    `json:"quantity"`
	Subtotal           string `json:"subtotal"`
	Discount           string `json:"discount"`
	Total              string `json:"total"`
	AppliedPromotionID *int64 `json:"applied_promotion_id,omitempty"`
}

// OrderResponse representa a resposta com dados de um pedido
type OrderResponse struct {
	ID             string         `json:"id"`
	SequenceNumber string         `json:"sequence_number"`
	BusinessDay    string         `json:"business_day"`
	TableID        string         `json:"table_id,omitempty"`
	Takeout        bool           `json:"takeout"`
	AccountID      string         `json:"account_id"`
	ActorID        string         `json:"actor_id"`
	State          string         `json:"state"`
	Lines          []LineResponse `json:"lines"`
	Subtotal       string         `json:"subtotal"`
	DiscountTotal  string         `json:"discount_total"`
	Total          string         `json:"total"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// OrderAccountSummary resume a conta afetada pelo pedido
type OrderAccountSummary struct {
	ID             string `json:"id"`
	SequenceNumber string `json:"sequence_number"`
	Total          string `json:"total"`
	Created        bool   `json:"created"`
}

// SubmitOrderResponse representa o pedido registrado e sua conta
type SubmitOrderResponse struct {
	Order        OrderResponse       `json:"order"`
	Account      OrderAccountSummary `json:"account"`
	PromotionIDs []int64             `json:"promotion_ids"`
}

// QuoteResponse representa um carrinho precificado
type QuoteResponse struct {
	Lines         []LineResponse `json:"lines"`
	Subtotal      string         `json:"subtotal"`
	DiscountTotal string         `json:"discount_total"`
	Total         string         `json:"total"`
	PromotionIDs  []int64        `json:"promotion_ids"`
}

// ToLineInputs converte os itens da requisição para o serviço
func ToLineInputs(lines []LineRequest) []service.LineInput {
	return lo.Map(lines, func(l LineRequest, _ int) service.LineInput {
		return service.LineInput{
			MenuItemID:  l.MenuItemID,
			Description: l.Description,
			UnitPrice:   l.UnitPrice,
			Quantity:    l.Quantity,
		}
	})
}

// ToCommand monta o comando de registro com o ator autenticado
func (r SubmitOrderRequest) ToCommand(actorID string) service.SubmitOrderCommand {
	return service.SubmitOrderCommand{
		ActorID: actorID,
		TableID: r.TableID,
		Takeout: r.Takeout,
		Lines:   ToLineInputs(r.Lines),
		Day:     r.BusinessDay,
	}
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// ToLineResponses converte as linhas do domínio para DTO de resposta
func ToLineResponses(lines []order.Line) []LineResponse {
	return lo.Map(lines, func(l order.Line, _ int) LineResponse {
		return LineResponse{
			ID:                 l.ID,
			Position:           l.Position,
			MenuItemID:         l.MenuItemID,
			Description:        l.Description,
			UnitPrice:          money(l.UnitPrice),
			Quantity:           l.Quantity,
			Subtotal:           money(l.Subtotal()),
			Discount:           money(l.Discount),
			Total:              money(l.Total()),
			AppliedPromotionID: l.AppliedPromotionID,
		}
	})
}

// ToOrderResponse converte um pedido do domínio para DTO de resposta
func ToOrderResponse(o *order.Order) OrderResponse {
	return OrderResponse{
		ID:             o.ID,
		SequenceNumber: o.SequenceNumber,
		BusinessDay:    o.BusinessDay.String(),
		TableID:        o.TableID,
		Takeout:        o.Takeout,
		AccountID:      o.AccountID,
		ActorID:        o.ActorID,
		State:          string(o.State),
		Lines:          ToLineResponses(o.Lines),
		Subtotal:       money(o.Subtotal),
		DiscountTotal:  money(o.DiscountTotal),
		Total:          money(o.Total),
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}
}

// ToSubmitOrderResponse converte o resultado do registro para DTO de resposta
func ToSubmitOrderResponse(r *service.OrderResult) SubmitOrderResponse {
	return SubmitOrderResponse{
		Order: ToOrderResponse(r.Order),
		Account: OrderAccountSummary{
			ID:             r.Order.AccountID,
			SequenceNumber: r.AccountNumber,
			Total:          money(r.AccountTotal),
			Created:        r.AccountNew,
		},
		PromotionIDs: nonNil(r.PromotionIDs),
	}
}

// ToQuoteResponse converte o carrinho precificado para DTO de resposta
func ToQuoteResponse(q *service.QuoteResult) QuoteResponse {
	return QuoteResponse{
		Lines:         ToLineResponses(q.Lines),
		Subtotal:      money(q.Subtotal),
		DiscountTotal: money(q.DiscountTotal),
		Total:         money(q.Total),
		PromotionIDs:  nonNil(q.PromotionIDs),
	}
}

func nonNil(ids []int64) []int64 {
	if ids == nil {
		return []int64{}
	}
	return ids
}
