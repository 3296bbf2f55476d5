package route

import (
	"github.com/gin-gonic/gin"

	"github.com/hugohenrick/restaurante-pedidos/internal/adapter/api/controller"
)

// RegisterOrderRoutes registra as rotas do módulo de pedidos
func RegisterOrderRoutes(r *gin.RouterGroup, orderController *controller.OrderController, authMiddleware gin.HandlerFunc) {
	orders := r.Group("/orders")
	orders.Use(authMiddleware)
	{
		orders.POST("", orderController.Submit)
		orders.POST("/quote", orderController.Quote)
		orders.GET("/:id", orderController.Get)
		orders.PATCH("/:id/state", orderController.ChangeState)
		orders.PUT("/:id/lines", orderController.ReplaceLines)
	}
}
