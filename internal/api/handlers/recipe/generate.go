package recipe

import (
	"net/http"

	recipeService "recipe-hub/internal/core/recipe"
	"recipe-hub/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler 食譜相關處理器
type Handler struct {
	generateSvc *recipeService.GenerateService
	bulkSvc     *recipeService.BulkService
	importSvc   *recipeService.ImportService
}

// NewHandler 創建食譜處理器
func NewHandler(generateSvc *recipeService.GenerateService, bulkSvc *recipeService.BulkService, importSvc *recipeService.ImportService) *Handler {
	return &Handler{
		generateSvc: generateSvc,
		bulkSvc:     bulkSvc,
		importSvc:   importSvc,
	}
}

// HandleGenerate 處理食譜生成請求
func (h *Handler) HandleGenerate(c *gin.Context) {
	var req recipeService.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidInput(c, map[string]string{"body": "must be a JSON object"})
		return
	}

	// 輸入驗證在呼叫模型之前完成；無效輸入不會消耗模型額度
	if details := req.ValidateInput(); details != nil {
		respondInvalidInput(c, details)
		return
	}

	common.LogInfo("收到食譜生成請求",
		zap.String("request_id", c.GetHeader("X-Request-ID")),
		zap.Int("ingredients_length", len(req.Ingredients)),
	)

	result, err := h.generateSvc.Generate(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
