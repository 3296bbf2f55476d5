package promotion

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrPromotionNotFound = errors.New("promoção não encontrada")
	ErrInvalidRule       = errors.New("regra de promoção inválida")
	ErrInvalidTimeOfDay  = errors.New("horário inválido")
)

// State representa o estado de uma promoção avaliado a cada requisição
type State string

const (
	StateInactive           State = "inactive"            // Desligada pelo administrador
	StateOutOfWindow        State = "out_of_window"       // Fora do dia ou horário
	StateTemporallyEligible State = "temporally_eligible" // Dentro da janela, carrinho ainda não avaliado
	StateUnqualified        State = "unqualified"         // Unidades insuficientes no carrinho
	StateQualifying         State = "qualifying"          // Dispara ao menos uma vez
)

// TimeOfDay é um horário do dia em segundos desde a meia-noite
type TimeOfDay int

// NewTimeOfDay cria um horário a partir de hora, minuto e segundo
func NewTimeOfDay(hour, minute, second int) TimeOfDay {
	return TimeOfDay(hour*3600 + minute*60 + second)
}

// TimeOfDayOf extrai o horário de um instante no seu próprio fuso
func TimeOfDayOf(t time.Time) TimeOfDay {
	return NewTimeOfDay(t.Hour(), t.Minute(), t.Second())
}

// ParseTimeOfDay interpreta HH:MM ou HH:MM:SS
func ParseTimeOfDay(value string) (TimeOfDay, error) {
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, value); err == nil {
			return TimeOfDayOf(t), nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrInvalidTimeOfDay, value)
}

// String formata o horário como HH:MM:SS
func (t TimeOfDay) String() string {
	s := int(t)
	return fmt.Sprintf("%02d:%02d:%02d", s/3600, (s%3600)/60, s%60)
}

// TimeWindow é o intervalo [Start, End] em que a promoção vale.
// Quando End < Start a janela atravessa a meia-noite; Start == End vale o dia todo.
type TimeWindow struct {
	Start TimeOfDay `json:"start"`
	End   TimeOfDay `json:"end"`
}

// Contains verifica se o horário está dentro da janela (limites inclusivos)
func (w TimeWindow) Contains(t TimeOfDay) bool {
	if w.Start == w.End {
		return true
	}
	if w.Start < w.End {
		return t >= w.Start && t <= w.End
	}
	return t >= w.Start || t <= w.End
}

// EligibleItem é um item do cardápio que participa da promoção
type EligibleItem struct {
	MenuItemID int64           `json:"menu_item_id"`
	Price      decimal.Decimal `json:"price"`
	Category   string          `json:"category"`
}

// Promotion é uma regra permanente "leve N, pague N-M". Imutável durante o
// processamento de pedidos.
type Promotion struct {
	ID               int64          `json:"id"`
	Name             string         `json:"name"`
	Active           bool           `json:"active"`
	ItemsRequired    int            `json:"items_required"`
	ItemsFree        int            `json:"items_free"`
	EligibleCategory string         `json:"eligible_category,omitempty"` // Vazio = qualquer categoria
	ApplicableDays   []time.Weekday `json:"applicable_days"`             // 0 = domingo
	Window           *TimeWindow    `json:"window,omitempty"`            // nil = o dia todo
	EligibleItems    []EligibleItem `json:"eligible_items"`
	CreatedAt        time.Time      `json:"created_at"`
}

// Validate verifica a consistência da regra
func (p *Promotion) Validate() error {
	if p.ItemsRequired <= 0 || p.ItemsFree <= 0 {
		return fmt.Errorf("%w: quantidades devem ser positivas", ErrInvalidRule)
	}
	if p.ItemsFree >= p.ItemsRequired {
		return fmt.Errorf("%w: itens grátis devem ser menos que os exigidos", ErrInvalidRule)
	}
	return nil
}

// TemporalState avalia a promoção no instante informado (já no fuso do restaurante)
func (p *Promotion) TemporalState(at time.Time) State {
	if !p.Active {
		return StateInactive
	}
	if !p.appliesOn(at.Weekday()) {
		return StateOutOfWindow
	}
	if p.Window != nil && !p.Window.Contains(TimeOfDayOf(at)) {
		return StateOutOfWindow
	}
	return StateTemporallyEligible
}

func (p *Promotion) appliesOn(day time.Weekday) bool {
	for _, d := range p.ApplicableDays {
		if d == day {
			return true
		}
	}
	return false
}

// eligibleItems retorna os itens que passam pelo filtro de categoria
func (p *Promotion) eligibleItems() map[int64]EligibleItem {
	items := make(map[int64]EligibleItem, len(p.EligibleItems))
	for _, item := range p.EligibleItems {
		if p.EligibleCategory != "" && item.Category != p.EligibleCategory {
			continue
		}
		items[item.MenuItemID] = item
	}
	return items
}
