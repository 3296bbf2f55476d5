package promotion

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

const (
	TieBreakFirstCreated    = "first_created"
	TieBreakLargestDiscount = "largest_discount"
)

// TieBreak define a ordem de avaliação quando várias promoções disputam as
// mesmas linhas. A primeira da ordem fica com a linha.
type TieBreak interface {
	Order(promotions []Promotion, lines []CartLine, at time.Time) []Promotion
}

// FirstCreated avalia as promoções pela data de criação (e pelo ID no empate)
type FirstCreated struct{}

func (FirstCreated) Order(promotions []Promotion, _ []CartLine, _ time.Time) []Promotion {
	ordered := make([]Promotion, len(promotions))
	copy(ordered, promotions)
	sort.SliceStable(ordered, func(a, b int) bool {
		return createdBefore(ordered[a], ordered[b])
	})
	return ordered
}

// LargestDiscount avalia primeiro a promoção que daria o maior desconto isolada
type LargestDiscount struct{}

func (LargestDiscount) Order(promotions []Promotion, lines []CartLine, _ time.Time) []Promotion {
	ordered := make([]Promotion, len(promotions))
	copy(ordered, promotions)

	standalone := make(map[int64]decimal.Decimal, len(ordered))
	for i := range ordered {
		standalone[ordered[i].ID] = ordered[i].StandaloneDiscount(lines)
	}

	sort.SliceStable(ordered, func(a, b int) bool {
		da := standalone[ordered[a].ID]
		db := standalone[ordered[b].ID]
		if !da.Equal(db) {
			return da.GreaterThan(db)
		}
		return createdBefore(ordered[a], ordered[b])
	})
	return ordered
}

func createdBefore(a, b Promotion) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}

// TieBreakByName resolve a política configurada
func TieBreakByName(name string) (TieBreak, error) {
	switch name {
	case "", TieBreakFirstCreated:
		return FirstCreated{}, nil
	case TieBreakLargestDiscount:
		return LargestDiscount{}, nil
	}
	return nil, fmt.Errorf("política de desempate desconhecida: %s", name)
}
