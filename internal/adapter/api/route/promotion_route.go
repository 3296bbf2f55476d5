package route

import (
	"github.com/gin-gonic/gin"

	"github.com/hugohenrick/restaurante-pedidos/internal/adapter/api/controller"
)

// RegisterPromotionRoutes registra as rotas de consulta de promoções
func RegisterPromotionRoutes(r *gin.RouterGroup, promotionController *controller.PromotionController, authMiddleware gin.HandlerFunc) {
	promotions := r.Group("/promotions")
	promotions.Use(authMiddleware)
	{
		promotions.GET("", promotionController.List)
		promotions.GET("/:id", promotionController.Get)
	}
}
