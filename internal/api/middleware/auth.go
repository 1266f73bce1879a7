package middleware

import (
	"net/http"
	"strings"

	"recipe-hub/internal/infrastructure/config"
	"recipe-hub/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Auth 認證中間件：檢查 Bearer token 是否在允許清單內。
// 認證停用時直接放行。
func Auth(cfg *config.Config) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(cfg.Auth.Tokens))
	for _, token := range cfg.Auth.Tokens {
		token = strings.TrimSpace(token)
		if token != "" {
			allowed[token] = struct{}{}
		}
	}

	return func(c *gin.Context) {
		if !cfg.Auth.Enabled {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		token := strings.TrimPrefix(header, "Bearer ")
		if header == "" || token == header || token == "" {
			unauthorized(c)
			return
		}

		if _, ok := allowed[token]; !ok {
			common.LogWarn("認證失敗",
				zap.String("ip", c.ClientIP()),
				zap.String("path", c.Request.URL.Path),
			)
			unauthorized(c)
			return
		}

		c.Next()
	}
}

func unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, common.ErrorResponse{
		Code:    common.ErrCodeUnauthorized,
		Message: "authentication required",
	})
}
