package recipe

import (
	"errors"
	"fmt"
	"net/http"

	"recipe-hub/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// validationDetailsResponse 帶逐欄位細節的 400 響應
type validationDetailsResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details"`
}

// respondInvalidInput 回傳 400 與逐欄位違規說明
func respondInvalidInput(c *gin.Context, details map[string]string) {
	c.JSON(http.StatusBadRequest, validationDetailsResponse{
		Code:    common.ErrCodeInvalidRequest,
		Message: "invalid request",
		Details: details,
	})
}

// respondError 把管線錯誤對應到 HTTP 狀態碼。
// 對應規則集中在這裡，服務層不認識 HTTP。
func respondError(c *gin.Context, err error) {
	var validationErr *common.ValidationError
	if errors.As(err, &validationErr) {
		respondInvalidInput(c, validationErr.Details)
		return
	}

	var fetchErr *common.UpstreamFetchError
	if errors.As(err, &fetchErr) {
		switch fetchErr.Cause {
		case common.FetchCauseTimeout:
			c.JSON(http.StatusRequestTimeout, common.ErrorResponse{
				Code:    common.ErrCodeRequestTimeout,
				Message: "fetching the source page timed out",
			})
		case common.FetchCauseStatus:
			c.JSON(http.StatusBadRequest, common.ErrorResponse{
				Code:    common.ErrCodeInvalidRequest,
				Message: fmt.Sprintf("source page returned status %d", fetchErr.StatusCode),
			})
		default:
			c.JSON(http.StatusBadRequest, common.ErrorResponse{
				Code:    common.ErrCodeInvalidRequest,
				Message: "could not reach the source page",
			})
		}
		return
	}

	var extractionErr *common.ExtractionError
	if errors.As(err, &extractionErr) {
		c.JSON(http.StatusInternalServerError, common.ErrorResponse{
			Code:    common.ErrCodeInternalError,
			Message: fmt.Sprintf("could not extract %s from the page", extractionErr.Field),
		})
		return
	}

	var modelErr *common.ModelOutputError
	if errors.As(err, &modelErr) {
		// 細節已在服務層記錄；對外只給一般訊息
		c.JSON(http.StatusInternalServerError, common.ErrorResponse{
			Code:    common.ErrCodeInternalError,
			Message: "recipe generation failed",
		})
		return
	}

	common.LogError("未分類的處理錯誤",
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	c.JSON(http.StatusInternalServerError, common.ErrorResponse{
		Code:    common.ErrCodeInternalError,
		Message: "internal server error",
	})
}
