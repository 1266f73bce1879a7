package recipe

import (
	"context"
	"net/url"
	"strings"

	"recipe-hub/internal/core/imagehost"
	"recipe-hub/internal/core/scraper"
	"recipe-hub/internal/pkg/common"

	"go.uber.org/zap"
)

// ImportRequest 匯入第三方食譜頁面的請求參數
type ImportRequest struct {
	URL string `json:"url"`
}

// ValidateInput 驗證來源網址：必須是絕對的 http(s) 網址
func (r *ImportRequest) ValidateInput() map[string]string {
	details := make(map[string]string)
	raw := strings.TrimSpace(r.URL)
	if raw == "" {
		details["url"] = "required"
		return details
	}
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") {
		details["url"] = "must be an absolute http or https URL"
	}
	if len(details) == 0 {
		return nil
	}
	return details
}

// ImportService 食譜匯入服務：抓取頁面、挑選解析器、轉存圖片
type ImportService struct {
	fetcher  scraper.PageFetcher
	rehoster imagehost.Rehoster
}

// NewImportService 創建食譜匯入服務
func NewImportService(fetcher scraper.PageFetcher, rehoster imagehost.Rehoster) *ImportService {
	return &ImportService{
		fetcher:  fetcher,
		rehoster: rehoster,
	}
}

// Import 從來源網址匯入一份食譜。
// 抓取與解析失敗是致命錯誤；圖片轉存失敗只捨棄圖片，不影響匯入結果。
func (s *ImportService) Import(ctx context.Context, req *ImportRequest) (*scraper.ImportedRecipe, error) {
	target, err := url.Parse(strings.TrimSpace(req.URL))
	if err != nil {
		return nil, common.NewValidationError(map[string]string{"url": "must be an absolute http or https URL"})
	}

	doc, err := s.fetcher.Fetch(ctx, target.String())
	if err != nil {
		return nil, err
	}

	adapter := scraper.SelectAdapter(target)
	recipe, err := adapter.Parse(doc, target)
	if err != nil {
		common.LogError("頁面解析失敗",
			zap.String("adapter", adapter.Name()),
			zap.String("url", target.String()),
			zap.Error(err),
		)
		return nil, err
	}

	// 圖片轉存是副作用：失敗時記錄並捨棄圖片，匯入照常成功
	if recipe.ImageURL != "" && s.rehoster != nil {
		hosted, rehostErr := s.rehoster.Rehost(ctx, recipe.ImageURL)
		if rehostErr != nil {
			common.LogWarn("圖片轉存失敗，匯入結果不含圖片",
				zap.String("image_url", recipe.ImageURL),
				zap.Error(rehostErr),
			)
			recipe.ImageURL = ""
		} else {
			recipe.ImageURL = hosted
		}
	}

	common.LogInfo("食譜匯入成功",
		zap.String("adapter", adapter.Name()),
		zap.String("title", recipe.Title),
		zap.Int("ingredients", len(recipe.Ingredients)),
	)

	return recipe, nil
}
