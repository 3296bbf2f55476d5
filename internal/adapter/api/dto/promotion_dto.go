package dto

import (
	"time"

	"github.com/samber/lo"

	"github.com/hugohenrick/restaurante-pedidos/internal/domain/promotion"
)

// PromotionWindowResponse é o horário em que a promoção vale
type PromotionWindowResponse struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// PromotionItemResponse é um item elegível da promoção
type PromotionItemResponse struct {
	MenuItemID int64  `json:"menu_item_id"`
	Price      string `json:"price"`
	Category   string `json:"category"`
}

// PromotionResponse representa uma promoção e seu estado no momento da consulta
type PromotionResponse struct {
	ID               int64                    `json:"id"`
	Name             string                   `json:"name"`
	Active           bool                     `json:"active"`
	State            string                   `json:"state"`
	ItemsRequired    int                      `json:"items_required"`
	ItemsFree        int                      `json:"items_free"`
	EligibleCategory string                   `json:"eligible_category,omitempty"`
	ApplicableDays   []int                    `json:"applicable_days"`
	Window           *PromotionWindowResponse `json:"window,omitempty"`
	EligibleItems    []PromotionItemResponse  `json:"eligible_items"`
	CreatedAt        time.Time                `json:"created_at"`
}

// PromotionListResponse representa a lista de promoções
type PromotionListResponse struct {
	Data       []PromotionResponse `json:"data"`
	TotalCount int                 `json:"total_count"`
}

// ToPromotionResponse converte a promoção avaliada no instante at
func ToPromotionResponse(p promotion.Promotion, at time.Time) PromotionResponse {
	resp := PromotionResponse{
		ID:               p.ID,
		Name:             p.Name,
		Active:           p.Active,
		State:            string(p.TemporalState(at)),
		ItemsRequired:    p.ItemsRequired,
		ItemsFree:        p.ItemsFree,
		EligibleCategory: p.EligibleCategory,
		ApplicableDays:   lo.Map(p.ApplicableDays, func(d time.Weekday, _ int) int { return int(d) }),
		EligibleItems: lo.Map(p.EligibleItems, func(item promotion.EligibleItem, _ int) PromotionItemResponse {
			return PromotionItemResponse{MenuItemID: item.MenuItemID, Price: money(item.Price), Category: item.Category}
		}),
		CreatedAt: p.CreatedAt,
	}
	if p.Window != nil {
		resp.Window = &PromotionWindowResponse{Start: p.Window.Start.String(), End: p.Window.End.String()}
	}
	return resp
}

// ToPromotionListResponse converte a lista de promoções
func ToPromotionListResponse(promotions []promotion.Promotion, at time.Time) PromotionListResponse {
	return PromotionListResponse{
		Data:       lo.Map(promotions, func(p promotion.Promotion, _ int) PromotionResponse { return ToPromotionResponse(p, at) }),
		TotalCount: len(promotions),
	}
}
