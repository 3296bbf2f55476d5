package service

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/hugohenrick/restaurante-pedidos/internal/domain/calendar"
	"github.com/hugohenrick/restaurante-pedidos/internal/domain/order"
	"github.com/hugohenrick/restaurante-pedidos/internal/domain/promotion"
)

// LineInput é um item informado pelo garçom ou pelo cliente
type LineInput struct {
	MenuItemID  *int64           `json:"menu_item_id" validate:"omitempty,gt=0"`
	Description string           `json:"description" validate:"max=200"`
	UnitPrice   *decimal.Decimal `json:"unit_price"` // Obrigatório só para texto livre
	Quantity    int              `json:"quantity" validate:"gt=0,lte=999"`
}

// SubmitOrderCommand é o pedido a registrar
type SubmitOrderCommand struct {
	ActorID string        `json:"actor_id" validate:"required"`
	TableID string        `json:"table_id" validate:"max=30"`
	Takeout bool          `json:"takeout"`
	Lines   []LineInput   `json:"lines" validate:"required,min=1,dive"`
	Day     *calendar.Day `json:"day"` // nil = dia comercial corrente
}

// OrderResult é o retorno de um pedido registrado
type OrderResult struct {
	Order         *order.Order
	AccountNumber string
	AccountTotal  decimal.Decimal
	AccountNew    bool
	PromotionIDs  []int64
}

// QuoteResult é o preço de um carrinho sem gravação
type QuoteResult struct {
	Lines         []order.Line
	Subtotal      decimal.Decimal
	DiscountTotal decimal.Decimal
	Total         decimal.Decimal
	PromotionIDs  []int64
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validationError converte o erro do validator na primeira violação encontrada
func validationError(err error) error {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return &ValidationError{Message: err.Error()}
	}

	fe := errs[0]
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}
	switch fe.Tag() {
	case "required":
		if fe.Field() == "lines" {
			return &ValidationError{Field: field, Message: "o pedido precisa de ao menos um item"}
		}
		return &ValidationError{Field: field, Message: "campo obrigatório"}
	case "min":
		return &ValidationError{Field: field, Message: "o pedido precisa de ao menos um item"}
	case "gt":
		return &ValidationError{Field: field, Message: "deve ser maior que zero"}
	case "max", "lte":
		return &ValidationError{Field: field, Message: "valor acima do limite"}
	}
	return &ValidationError{Field: field, Message: "valor inválido"}
}

// priced é o resultado da precificação de um carrinho
type priced struct {
	lines  []order.Line
	result promotion.Result
}
