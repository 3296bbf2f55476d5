package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hugohenrick/restaurante-pedidos/internal/adapter/api/dto"
)

// Chaves gravadas no contexto do gin
const (
	ContextUserID   = "user_id"
	ContextUserName = "user_name"
	ContextUserRole = "user_role"
)

func abort(c *gin.Context, code int, message, details string) {
	c.AbortWithStatusJSON(code, dto.NewErrorResponse(code, message, details))
}

// JWTAuthMiddleware cria um middleware para autenticação JWT. O ator do
// pedido é sempre o user_id do token.
func JWTAuthMiddleware(jwtService *JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abort(c, http.StatusUnauthorized, "Autenticação requerida", "O cabeçalho Authorization não foi fornecido")
			return
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			abort(c, http.StatusUnauthorized, "Formato de token inválido", "Use o formato 'Bearer <token>'")
			return
		}

		claims, err := jwtService.ValidateToken(tokenParts[1])
		if err != nil {
			message := "Token inválido"
			if errors.Is(err, ErrExpiredToken) {
				message = "Token expirado"
			}
			abort(c, http.StatusUnauthorized, message, err.Error())
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUserName, claims.Name)
		c.Set(ContextUserRole, claims.Role)

		c.Next()
	}
}

// RoleAuthMiddleware restringe a rota aos papéis informados
func RoleAuthMiddleware(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ContextUserRole)
		if role == "" {
			abort(c, http.StatusUnauthorized, "Autenticação requerida", "")
			return
		}

		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}

		abort(c, http.StatusForbidden, "Acesso negado", "Você não tem permissão para acessar este recurso")
	}
}

// CurrentUserID obtém o ator autenticado do contexto
func CurrentUserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}
