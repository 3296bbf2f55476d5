package controller

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hugohenrick/restaurante-pedidos/internal/adapter/api/dto"
	"github.com/hugohenrick/restaurante-pedidos/internal/domain/account"
	"github.com/hugohenrick/restaurante-pedidos/internal/domain/calendar"
	"github.com/hugohenrick/restaurante-pedidos/internal/service"
	"github.com/hugohenrick/restaurante-pedidos/pkg/logger"
)

// AccountService é o subconjunto do serviço de contas usado pelo controller
type AccountService interface {
	GetAccount(ctx context.Context, id string) (*service.AccountDetails, error)
	ListAccounts(ctx context.Context, filter account.Filter) ([]*account.Account, error)
	CloseAccount(ctx context.Context, id string) (*account.Account, error)
	SettleAccount(ctx context.Context, id string) (*account.Account, error)
	CancelAccount(ctx context.Context, id string) (*account.Account, error)
}

// AccountController gerencia as requisições relacionadas a contas
type AccountController struct {
	accounts AccountService
	logger   logger.Logger
}

// NewAccountController cria uma nova instância de AccountController
func NewAccountController(accounts AccountService, logger logger.Logger) *AccountController {
	return &AccountController{
		accounts: accounts,
		logger:   logger,
	}
}

// List retorna as contas filtradas por dia e estado
// @Summary Listar contas
// @Description Lista as contas de um dia comercial, opcionalmente por estado
// @Tags accounts
// @Produce json
// @Security Bearer
// @Param day query string false "Dia comercial (AAAA-MM-DD)"
// @Param state query string false "Estado (open, closed, settled, cancelled)"
// @Success 200 {object} dto.AccountListResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /accounts [get]
func (c *AccountController) List(ctx *gin.Context) {
	filter := account.Filter{State: account.State(ctx.Query("state"))}

	if value := ctx.Query("day"); value != "" {
		day, err := calendar.ParseDay(value)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "dia inválido", err.Error()))
			return
		}
		filter.Day = &day
	}

	accounts, err := c.accounts.ListAccounts(ctx.Request.Context(), filter)
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToAccountListResponse(accounts))
}

// Get retorna uma conta com seus pedidos
// @Summary Buscar conta
// @Description Retorna a conta e todos os seus pedidos
// @Tags accounts
// @Produce json
// @Security Bearer
// @Param id path string true "ID da conta"
// @Success 200 {object} dto.AccountDetailsResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /accounts/{id} [get]
func (c *AccountController) Get(ctx *gin.Context) {
	details, err := c.accounts.GetAccount(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToAccountDetailsResponse(details))
}

// Close fecha uma conta para pagamento
// @Summary Fechar conta
// @Tags accounts
// @Produce json
// @Security Bearer
// @Param id path string true "ID da conta"
// @Success 200 {object} dto.AccountResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /accounts/{id}/close [post]
func (c *AccountController) Close(ctx *gin.Context) {
	c.transition(ctx, c.accounts.CloseAccount)
}

// Settle registra o pagamento de uma conta fechada
// @Summary Quitar conta
// @Tags accounts
// @Produce json
// @Security Bearer
// @Param id path string true "ID da conta"
// @Success 200 {object} dto.AccountResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /accounts/{id}/settle [post]
func (c *AccountController) Settle(ctx *gin.Context) {
	c.transition(ctx, c.accounts.SettleAccount)
}

// Cancel cancela uma conta sem pedidos ativos
// @Summary Cancelar conta
// @Tags accounts
// @Produce json
// @Security Bearer
// @Param id path string true "ID da conta"
// @Success 200 {object} dto.AccountResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /accounts/{id}/cancel [post]
func (c *AccountController) Cancel(ctx *gin.Context) {
	c.transition(ctx, c.accounts.CancelAccount)
}

func (c *AccountController) transition(ctx *gin.Context, fn func(ctx context.Context, id string) (*account.Account, error)) {
	a, err := fn(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToAccountResponse(a))
}
