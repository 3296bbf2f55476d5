package route

import (
	"github.com/gin-gonic/gin"

	"github.com/hugohenrick/restaurante-pedidos/internal/adapter/api/controller"
	"github.com/hugohenrick/restaurante-pedidos/internal/domain/user"
	"github.com/hugohenrick/restaurante-pedidos/pkg/auth"
)

// RegisterAccountRoutes registra as rotas do módulo de contas. Quitar e
// cancelar ficam com caixas e gerentes.
func RegisterAccountRoutes(r *gin.RouterGroup, accountController *controller.AccountController, authMiddleware gin.HandlerFunc) {
	accounts := r.Group("/accounts")
	accounts.Use(authMiddleware)
	{
		accounts.GET("", accountController.List)
		accounts.GET("/:id", accountController.Get)
		accounts.POST("/:id/close", accountController.Close)

		cashier := auth.RoleAuthMiddleware(string(user.RoleCashier), string(user.RoleManager))
		accounts.POST("/:id/settle", cashier, accountController.Settle)
		accounts.POST("/:id/cancel", cashier, accountController.Cancel)
	}
}
