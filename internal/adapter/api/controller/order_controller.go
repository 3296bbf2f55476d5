package controller

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hugohenrick/restaurante-pedidos/internal/adapter/api/dto"
	"github.com/hugohenrick/restaurante-pedidos/internal/domain/order"
	"github.com/hugohenrick/restaurante-pedidos/internal/service"
	"github.com/hugohenrick/restaurante-pedidos/pkg/auth"
	"github.com/hugohenrick/restaurante-pedidos/pkg/logger"
)

// OrderService é o subconjunto do serviço de pedidos usado pelo controller
type OrderService interface {
	Submit(ctx context.Context, cmd service.SubmitOrderCommand) (*service.OrderResult, error)
	Quote(ctx context.Context, lines []service.LineInput) (*service.QuoteResult, error)
	GetOrder(ctx context.Context, id string) (*order.Order, error)
	ChangeOrderState(ctx context.Context, id string, next order.State) (*order.Order, error)
	ReplaceLines(ctx context.Context, id string, lines []service.LineInput) (*order.Order, error)
}

// OrderController gerencia as requisições relacionadas a pedidos
type OrderController struct {
	orders OrderService
	logger logger.Logger
}

// NewOrderController cria uma nova instância de OrderController
func NewOrderController(orders OrderService, logger logger.Logger) *OrderController {
	return &OrderController{
		orders: orders,
		logger: logger,
	}
}

// Submit registra um novo pedido
// @Summary Registrar pedido
// @Description Registra um pedido no salão ou para levar, aplica as promoções vigentes e atualiza a conta da mesa
// @Tags orders
// @Accept json
// @Produce json
// @Security Bearer
// @Param order body dto.SubmitOrderRequest true "Dados do pedido"
// @Success 201 {object} dto.SubmitOrderResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /orders [post]
func (c *OrderController) Submit(ctx *gin.Context) {
	var req dto.SubmitOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "dados inválidos", err.Error()))
		return
	}

	result, err := c.orders.Submit(ctx.Request.Context(), req.ToCommand(auth.CurrentUserID(ctx)))
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToSubmitOrderResponse(result))
}

// Quote precifica um carrinho sem registrar o pedido
// @Summary Simular pedido
// @Description Calcula subtotal, descontos e total de um carrinho com as promoções vigentes
// @Tags orders
// @Accept json
// @Produce json
// @Security Bearer
// @Param cart body dto.QuoteRequest true "Itens do carrinho"
// @Success 200 {object} dto.QuoteResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /orders/quote [post]
func (c *OrderController) Quote(ctx *gin.Context) {
	var req dto.QuoteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "dados inválidos", err.Error()))
		return
	}

	quote, err := c.orders.Quote(ctx.Request.Context(), dto.ToLineInputs(req.Lines))
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToQuoteResponse(quote))
}

// Get retorna um pedido pelo ID
// @Summary Buscar pedido
// @Description Retorna um pedido com seus itens
// @Tags orders
// @Produce json
// @Security Bearer
// @Param id path string true "ID do pedido"
// @Success 200 {object} dto.OrderResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /orders/{id} [get]
func (c *OrderController) Get(ctx *gin.Context) {
	o, err := c.orders.GetOrder(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToOrderResponse(o))
}

// ChangeState avança ou cancela um pedido
// @Summary Alterar estado do pedido
// @Description Move o pedido para preparing, ready, delivered ou cancelled; cancelar recalcula a conta
// @Tags orders
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "ID do pedido"
// @Param state body dto.ChangeOrderStateRequest true "Novo estado"
// @Success 200 {object} dto.OrderResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /orders/{id}/state [patch]
func (c *OrderController) ChangeState(ctx *gin.Context) {
	var req dto.ChangeOrderStateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "dados inválidos", err.Error()))
		return
	}

	o, err := c.orders.ChangeOrderState(ctx.Request.Context(), ctx.Param("id"), order.State(req.State))
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToOrderResponse(o))
}

// ReplaceLines reprecifica os itens de um pedido pendente
// @Summary Substituir itens do pedido
// @Description Substitui os itens de um pedido pendente, reaplica as promoções e recalcula a conta
// @Tags orders
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "ID do pedido"
// @Param lines body dto.ReplaceLinesRequest true "Novos itens"
// @Success 200 {object} dto.OrderResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /orders/{id}/lines [put]
func (c *OrderController) ReplaceLines(ctx *gin.Context) {
	var req dto.ReplaceLinesRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "dados inválidos", err.Error()))
		return
	}

	o, err := c.orders.ReplaceLines(ctx.Request.Context(), ctx.Param("id"), dto.ToLineInputs(req.Lines))
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToOrderResponse(o))
}
