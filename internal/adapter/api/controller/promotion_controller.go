package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hugohenrick/restaurante-pedidos/internal/adapter/api/dto"
	"github.com/hugohenrick/restaurante-pedidos/internal/domain/calendar"
	"github.com/hugohenrick/restaurante-pedidos/internal/domain/promotion"
	"github.com/hugohenrick/restaurante-pedidos/pkg/logger"
)

// PromotionController expõe as promoções para consulta do salão
type PromotionController struct {
	promotions promotion.Repository
	clock      calendar.Clock
	logger     logger.Logger
}

// NewPromotionController cria uma nova instância de PromotionController.
// clock deve devolver a hora no fuso do restaurante.
func NewPromotionController(promotions promotion.Repository, clock calendar.Clock, logger logger.Logger) *PromotionController {
	return &PromotionController{
		promotions: promotions,
		clock:      clock,
		logger:     logger,
	}
}

// List retorna as promoções ativas
// @Summary Listar promoções
// @Description Lista as promoções ativas com o estado temporal atual
// @Tags promotions
// @Produce json
// @Security Bearer
// @Success 200 {object} dto.PromotionListResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /promotions [get]
func (c *PromotionController) List(ctx *gin.Context) {
	promotions, err := c.promotions.ListActive(ctx.Request.Context())
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.ToPromotionListResponse(promotions, c.clock.Now()))
}

// Get retorna uma promoção
// @Summary Buscar promoção
// @Description Retorna a promoção, ativa ou não, com seus itens elegíveis
// @Tags promotions
// @Produce json
// @Security Bearer
// @Param id path int true "ID da promoção"
// @Success 200 {object} dto.PromotionResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /promotions/{id} [get]
func (c *PromotionController) Get(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "ID inválido", ctx.Param("id")))
		return
	}

	p, err := c.promotions.FindByID(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.ToPromotionResponse(*p, c.clock.Now()))
}
