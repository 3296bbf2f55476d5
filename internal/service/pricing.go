package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/hugohenrick/restaurante-pedidos/internal/domain/order"
	"github.com/hugohenrick/restaurante-pedidos/internal/domain/promotion"
)

// price resolve os itens do cardápio, aplica as promoções ativas e devolve as
// linhas com desconto. Não grava nada.
func (s *OrderService) price(ctx context.Context, inputs []LineInput, at time.Time) (*priced, error) {
	ids := lo.Uniq(lo.FilterMap(inputs, func(in LineInput, _ int) (int64, bool) {
		if in.MenuItemID == nil {
			return 0, false
		}
		return *in.MenuItemID, true
	}))

	items, err := s.menu.FindByIDs(ctx, ids)
	if err != nil {
		return nil, &InternalError{Cause: fmt.Errorf("erro ao buscar cardápio: %w", err)}
	}

	lines := make([]order.Line, 0, len(inputs))
	for i, in := range inputs {
		if in.MenuItemID != nil {
			item, ok := items[*in.MenuItemID]
			if !ok || !item.Active {
				return nil, &ReferentialIntegrityError{LineIndex: i, MenuItemID: *in.MenuItemID}
			}
			description := strings.TrimSpace(in.Description)
			if description == "" {
				description = item.Name
			}
			// o preço do catálogo prevalece sobre o informado
			lines = append(lines, order.NewLine(i, in.MenuItemID, description, item.Price, in.Quantity))
			continue
		}

		if strings.TrimSpace(in.Description) == "" {
			return nil, &ValidationError{Field: fmt.Sprintf("lines[%d].description", i), Message: "item sem cardápio precisa de descrição"}
		}
		if in.UnitPrice == nil || in.UnitPrice.IsNegative() {
			return nil, &ValidationError{Field: fmt.Sprintf("lines[%d].unit_price", i), Message: "item sem cardápio precisa de preço válido"}
		}
		lines = append(lines, order.NewLine(i, nil, strings.TrimSpace(in.Description), in.UnitPrice.Round(2), in.Quantity))
	}

	promotions, err := s.promotions.ListActive(ctx)
	if err != nil {
		return nil, &InternalError{Cause: fmt.Errorf("erro ao buscar promoções: %w", err)}
	}

	cart := lo.Map(lines, func(l order.Line, _ int) promotion.CartLine {
		return promotion.CartLine{
			LineID:     l.ID,
			MenuItemID: l.MenuItemID,
			UnitPrice:  l.UnitPrice,
			Quantity:   l.Quantity,
		}
	})
	result := s.engine.ComputeDiscounts(cart, promotions, at)

	for i := range lines {
		discount, promotionID := result.DiscountFor(lines[i].ID)
		lines[i].Discount = discount
		lines[i].AppliedPromotionID = promotionID
	}

	return &priced{lines: lines, result: result}, nil
}

func sumLines(lines []order.Line) (subtotal, discount decimal.Decimal) {
	subtotal, discount = decimal.Zero, decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.Subtotal())
		discount = discount.Add(l.Discount)
	}
	return subtotal, discount
}
