package controller

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hugohenrick/restaurante-pedidos/internal/adapter/api/dto"
	"github.com/hugohenrick/restaurante-pedidos/internal/domain/account"
	"github.com/hugohenrick/restaurante-pedidos/internal/domain/order"
	"github.com/hugohenrick/restaurante-pedidos/internal/domain/promotion"
	"github.com/hugohenrick/restaurante-pedidos/internal/domain/sequence"
	"github.com/hugohenrick/restaurante-pedidos/internal/service"
	"github.com/hugohenrick/restaurante-pedidos/pkg/logger"
)

// respondError traduz o erro do serviço para a resposta HTTP. Erros internos
// só vão para o log.
func respondError(ctx *gin.Context, log logger.Logger, err error) {
	var (
		validationErr  *service.ValidationError
		referentialErr *service.ReferentialIntegrityError
		accountErr     *service.AccountCreationError
	)

	switch {
	case errors.As(err, &validationErr):
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "dados inválidos", validationErr.Error()))
	case errors.As(err, &referentialErr):
		ctx.JSON(http.StatusUnprocessableEntity, dto.NewErrorResponse(http.StatusUnprocessableEntity, "item do cardápio inválido", referentialErr.Error()))
	case errors.Is(err, order.ErrOrderNotFound):
		ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "pedido não encontrado", ""))
	case errors.Is(err, promotion.ErrPromotionNotFound):
		ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "promoção não encontrada", ""))
	case errors.Is(err, account.ErrAccountNotFound) && !errors.As(err, &accountErr):
		ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "conta não encontrada", ""))
	case errors.Is(err, order.ErrInvalidTransition), errors.Is(err, account.ErrInvalidTransition),
		errors.Is(err, order.ErrLinesLocked), errors.Is(err, account.ErrAccountHasOrders):
		ctx.JSON(http.StatusConflict, dto.NewErrorResponse(http.StatusConflict, "operação não permitida no estado atual", err.Error()))
	case errors.As(err, &accountErr):
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao abrir conta", ""))
	case errors.Is(err, sequence.ErrAllocationExhausted):
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "não foi possível numerar o pedido", ""))
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		ctx.JSON(http.StatusServiceUnavailable, dto.NewErrorResponse(http.StatusServiceUnavailable, "requisição interrompida", ""))
	default:
		log.Error("erro interno", "path", ctx.FullPath(), "error", err)
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro interno", ""))
	}
}
