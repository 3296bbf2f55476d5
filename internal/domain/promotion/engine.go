package promotion

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// CartLine é uma linha do carrinho vista pelo motor de promoções
type CartLine struct {
	LineID     string
	MenuItemID *int64 // nil para produtos de texto livre
	UnitPrice  decimal.Decimal
	Quantity   int
}

// LineDiscount é o desconto atribuído a uma linha
type LineDiscount struct {
	LineID      string          `json:"line_id"`
	Discount    decimal.Decimal `json:"discount"`
	PromotionID *int64          `json:"promotion_id,omitempty"`
}

// Result é o resultado determinístico de uma avaliação
type Result struct {
	Lines        []LineDiscount  `json:"lines"` // Mesma ordem do carrinho
	PromotionIDs []int64         `json:"promotion_ids"`
	Total        decimal.Decimal `json:"total"`
}

// DiscountFor retorna o desconto e a promoção aplicados a uma linha
func (r Result) DiscountFor(lineID string) (decimal.Decimal, *int64) {
	for _, l := range r.Lines {
		if l.LineID == lineID {
			return l.Discount, l.PromotionID
		}
	}
	return decimal.Zero, nil
}

// Engine calcula os itens grátis de um carrinho. Não faz I/O e não altera as
// promoções recebidas.
type Engine struct {
	tieBreak TieBreak
}

// NewEngine cria o motor com a política de desempate informada
// (FirstCreated quando nil)
func NewEngine(tieBreak TieBreak) *Engine {
	if tieBreak == nil {
		tieBreak = FirstCreated{}
	}
	return &Engine{tieBreak: tieBreak}
}

// unit é uma unidade individual de uma linha
type unit struct {
	line  int
	price decimal.Decimal
}

// ComputeDiscounts aplica as promoções ao carrinho no instante informado.
// Cada linha recebe desconto de no máximo uma promoção: a primeira, na ordem
// da política de desempate, que a tornar grátis.
func (e *Engine) ComputeDiscounts(lines []CartLine, promotions []Promotion, at time.Time) Result {
	discounts := make([]decimal.Decimal, len(lines))
	applied := make([]*int64, len(lines))
	for i := range discounts {
		discounts[i] = decimal.Zero
	}

	candidates := make([]Promotion, 0, len(promotions))
	for _, p := range promotions {
		if p.TemporalState(at) == StateTemporallyEligible && p.Validate() == nil {
			candidates = append(candidates, p)
		}
	}

	var promotionIDs []int64
	for _, p := range e.tieBreak.Order(candidates, lines, at) {
		perLine := p.freeUnits(lines, applied)
		fired := false
		for i, amount := range perLine {
			if amount.IsZero() {
				continue
			}
			id := p.ID
			discounts[i] = amount
			applied[i] = &id
			fired = true
		}
		if fired {
			promotionIDs = append(promotionIDs, p.ID)
		}
	}

	result := Result{
		Lines:        make([]LineDiscount, len(lines)),
		PromotionIDs: promotionIDs,
		Total:        decimal.Zero,
	}
	for i, line := range lines {
		result.Lines[i] = LineDiscount{
			LineID:      line.LineID,
			Discount:    discounts[i],
			PromotionID: applied[i],
		}
		result.Total = result.Total.Add(discounts[i])
	}
	sort.Slice(result.PromotionIDs, func(a, b int) bool { return result.PromotionIDs[a] < result.PromotionIDs[b] })

	return result
}

// Qualification indica se a promoção dispararia sobre o carrinho
func (p *Promotion) Qualification(lines []CartLine) State {
	if p.matchingUnits(lines, make([]*int64, len(lines))) >= p.ItemsRequired {
		return StateQualifying
	}
	return StateUnqualified
}

// Evaluate combina o estado temporal com a qualificação do carrinho
func (p *Promotion) Evaluate(lines []CartLine, at time.Time) State {
	if state := p.TemporalState(at); state != StateTemporallyEligible {
		return state
	}
	return p.Qualification(lines)
}

func (p *Promotion) matches(line CartLine, eligible map[int64]EligibleItem, claimed *int64) bool {
	if claimed != nil || line.MenuItemID == nil || line.Quantity <= 0 {
		return false
	}
	_, ok := eligible[*line.MenuItemID]
	return ok
}

func (p *Promotion) matchingUnits(lines []CartLine, claimed []*int64) int {
	eligible := p.eligibleItems()
	total := 0
	for i, line := range lines {
		if p.matches(line, eligible, claimed[i]) {
			total += line.Quantity
		}
	}
	return total
}

// freeUnits devolve o desconto por linha que esta promoção concede.
// As unidades elegíveis são ordenadas da mais barata para a mais cara (ordem
// estável) e, em cada grupo consecutivo de ItemsRequired, as ItemsFree
// unidades mais baratas do grupo ficam grátis.
func (p *Promotion) freeUnits(lines []CartLine, claimed []*int64) []decimal.Decimal {
	perLine := make([]decimal.Decimal, len(lines))
	for i := range perLine {
		perLine[i] = decimal.Zero
	}
	if p.ItemsRequired <= 0 {
		return perLine
	}

	eligible := p.eligibleItems()
	var units []unit
	for i, line := range lines {
		if !p.matches(line, eligible, claimed[i]) {
			continue
		}
		for q := 0; q < line.Quantity; q++ {
			units = append(units, unit{line: i, price: line.UnitPrice})
		}
	}

	applications := len(units) / p.ItemsRequired
	if applications == 0 {
		return perLine
	}

	sort.SliceStable(units, func(a, b int) bool {
		return units[a].price.LessThan(units[b].price)
	})

	for g := 0; g < applications; g++ {
		start := g * p.ItemsRequired
		for pos := start; pos < start+p.ItemsFree; pos++ {
			u := units[pos]
			perLine[u.line] = perLine[u.line].Add(u.price)
		}
	}

	return perLine
}

// StandaloneDiscount calcula o desconto que a promoção daria sozinha
func (p *Promotion) StandaloneDiscount(lines []CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, amount := range p.freeUnits(lines, make([]*int64, len(lines))) {
		total = total.Add(amount)
	}
	return total
}
