package route

import (
	"github.com/gin-gonic/gin"

	"github.com/hugohenrick/restaurante-pedidos/internal/adapter/api/controller"
)

// RegisterHealthRoutes registra o health check, sem autenticação
func RegisterHealthRoutes(r *gin.RouterGroup, healthController *controller.HealthController) {
	r.GET("/health", healthController.Check)
}
