package dto

import (
	"time"

	"github.com/samber/lo"

	"github.com/hugohenrick/restaurante-pedidos/internal/domain/account"
	"github.com/hugohenrick/restaurante-pedidos/internal/domain/order"
	"github.com/hugohenrick/restaurante-pedidos/internal/service"
)

// AccountResponse representa a resposta com dados de uma conta
type AccountResponse struct {
	ID             string     `json:"id"`
	SequenceNumber string     `json:"sequence_number"`
	BusinessDay    string     `json:"business_day"`
	TableID        string     `json:"table_id"`
	State          string     `json:"state"`
	Total          string     `json:"total"`
	OpenedBy       string     `json:"opened_by"`
	OpenedAt       time.Time  `json:"opened_at"`
	ClosedAt       *time.Time `json:"closed_at,omitempty"`
	SettledAt      *time.Time `json:"settled_at,omitempty"`
}

// AccountDetailsResponse representa a conta com seus pedidos
type AccountDetailsResponse struct {
	AccountResponse
	Orders []OrderResponse `json:"orders"`
}

// AccountListResponse representa a lista de contas
type AccountListResponse struct {
	Data       []AccountResponse `json:"data"`
	TotalCount int               `json:"total_count"`
}

// ToAccountResponse converte uma conta do domínio para DTO de resposta
func ToAccountResponse(a *account.Account) AccountResponse {
	return AccountResponse{
		ID:             a.ID,
		SequenceNumber: a.SequenceNumber,
		BusinessDay:    a.BusinessDay.String(),
		TableID:        a.TableID,
		State:          string(a.State),
		Total:          money(a.Total),
		OpenedBy:       a.OpenedBy,
		OpenedAt:       a.OpenedAt,
		ClosedAt:       a.ClosedAt,
		SettledAt:      a.SettledAt,
	}
}

// ToAccountDetailsResponse converte a conta e seus pedidos para DTO de resposta
func ToAccountDetailsResponse(d *service.AccountDetails) AccountDetailsResponse {
	return AccountDetailsResponse{
		AccountResponse: ToAccountResponse(d.Account),
		Orders:          lo.Map(d.Orders, func(o *order.Order, _ int) OrderResponse { return ToOrderResponse(o) }),
	}
}

// ToAccountListResponse converte a lista de contas para DTO de resposta
func ToAccountListResponse(accounts []*account.Account) AccountListResponse {
	return AccountListResponse{
		Data:       lo.Map(accounts, func(a *account.Account, _ int) AccountResponse { return ToAccountResponse(a) }),
		TotalCount: len(accounts),
	}
}
