package recipe

import (
	"net/http"

	recipeService "recipe-hub/internal/core/recipe"
	"recipe-hub/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HandleBulkGenerate 處理批次食譜生成請求。
// 任一筆輸入無效就整批拒絕；生成階段的單筆失敗只計入統計。
func (h *Handler) HandleBulkGenerate(c *gin.Context) {
	var req recipeService.BulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidInput(c, map[string]string{"body": "must be a JSON object"})
		return
	}

	if details := h.bulkSvc.ValidateInput(&req); details != nil {
		respondInvalidInput(c, details)
		return
	}

	common.LogInfo("收到批次生成請求",
		zap.String("request_id", c.GetHeader("X-Request-ID")),
		zap.Int("requests", len(req.Requests)),
	)

	result := h.bulkSvc.Generate(c.Request.Context(), &req)
	c.JSON(http.StatusOK, result)
}
