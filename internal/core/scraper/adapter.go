package scraper

import (
	"net/url"
	"strings"

	"recipe-hub/internal/pkg/common"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// ImportedRecipe 匯入管線的最終成功型別。
// 必填欄位非空；ImageURL 存在時一定是絕對網址（原始的或轉存後的）。
type ImportedRecipe struct {
	Title        string   `json:"title"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
	Description  string   `json:"description,omitempty"`
	ImageURL     string   `json:"imageUrl,omitempty"`
	Servings     string   `json:"servings,omitempty"`
	TotalTime    string   `json:"totalTime,omitempty"`
}

// Adapter 單一網站的擷取策略
type Adapter interface {
	// Name 回傳網站名稱（用於日誌）
	Name() string

	// CanHandle 判斷是否支援該來源網址
	CanHandle(u *url.URL) bool

	// Parse 從頁面擷取食譜；找不到必填欄位時回傳 ExtractionError
	Parse(doc *goquery.Document, u *url.URL) (*ImportedRecipe, error)
}

// 已知網站的註冊表；新增網站只需要追加一個 Adapter，不用改選擇邏輯
var siteAdapters = []Adapter{
	&BBCGoodFoodAdapter{},
	&AllRecipesAdapter{},
}

// SelectAdapter 依來源網址挑選擷取策略，沒有符合的就退回通用解析
func SelectAdapter(u *url.URL) Adapter {
	for _, adapter := range siteAdapters {
		if adapter.CanHandle(u) {
			common.LogInfo("使用網站專用解析器",
				zap.String("adapter", adapter.Name()),
				zap.String("host", u.Host),
			)
			return adapter
		}
	}
	return &GenericAdapter{}
}

// hostMatches 比對網址主機名（含子網域）
func hostMatches(u *url.URL, domain string) bool {
	host := strings.ToLower(u.Hostname())
	return host == domain || strings.HasSuffix(host, "."+domain)
}

// checkMandatory 確認必填欄位都有擷取到
func checkMandatory(rec *ImportedRecipe) error {
	if strings.TrimSpace(rec.Title) == "" {
		return &common.ExtractionError{Field: "title"}
	}
	if len(rec.Ingredients) == 0 {
		return &common.ExtractionError{Field: "ingredients"}
	}
	if len(rec.Instructions) == 0 {
		return &common.ExtractionError{Field: "instructions"}
	}
	return nil
}

// resolveImageURL 把可能是相對路徑的圖片網址解析成絕對網址。
// 無法解析的相對網址直接丟棄（回傳空字串），不往下傳壞連結。
func resolveImageURL(raw string, base *url.URL) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	ref, err := url.Parse(raw)
	if err != nil {
		common.LogWarn("圖片網址無法解析，已捨棄",
			zap.String("image_url", raw),
		)
		return ""
	}
	resolved := base.ResolveReference(ref)
	if !resolved.IsAbs() || (resolved.Scheme != "http" && resolved.Scheme != "https") {
		common.LogWarn("圖片網址無法解析為絕對網址，已捨棄",
			zap.String("image_url", raw),
		)
		return ""
	}
	return resolved.String()
}

// collectText 收集選擇器命中的非空文字
func collectText(doc *goquery.Document, selector string) []string {
	var out []string
	doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		text := strings.Join(strings.Fields(sel.Text()), " ")
		if text != "" {
			out = append(out, text)
		}
	})
	return out
}
