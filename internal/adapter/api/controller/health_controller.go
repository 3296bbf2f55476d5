package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hugohenrick/restaurante-pedidos/internal/adapter/api/dto"
)

// Version é a versão publicada no health check
const Version = "1.0.0"

// Pinger verifica a conexão com o banco
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthController responde o health check
type HealthController struct {
	db Pinger
}

// NewHealthController cria uma nova instância de HealthController
func NewHealthController(db Pinger) *HealthController {
	return &HealthController{db: db}
}

// Check verifica a API e o banco
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Failure 503 {object} dto.HealthResponse
// @Router /health [get]
func (c *HealthController) Check(ctx *gin.Context) {
	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	if err := c.db.Ping(pingCtx); err != nil {
		ctx.JSON(http.StatusServiceUnavailable, dto.HealthResponse{Status: "degraded", Database: "down", Version: Version})
		return
	}

	ctx.JSON(http.StatusOK, dto.HealthResponse{Status: "ok", Database: "up", Version: Version})
}
