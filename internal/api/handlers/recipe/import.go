package recipe

import (
	"net/http"

	recipeService "recipe-hub/internal/core/recipe"
	"recipe-hub/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HandleImport 處理食譜匯入請求
func (h *Handler) HandleImport(c *gin.Context) {
	var req recipeService.ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidInput(c, map[string]string{"body": "must be a JSON object"})
		return
	}

	// 網址驗證在抓取之前完成；壞網址不會觸發對外請求
	if details := req.ValidateInput(); details != nil {
		respondInvalidInput(c, details)
		return
	}

	common.LogInfo("收到食譜匯入請求",
		zap.String("request_id", c.GetHeader("X-Request-ID")),
		zap.String("url", req.URL),
	)

	result, err := h.importSvc.Import(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
