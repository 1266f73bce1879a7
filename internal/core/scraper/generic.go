package scraper

import (
	"net/url"
	"strings"

	"recipe-hub/internal/pkg/common"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// GenericAdapter 通用退路解析器。
// 依序嘗試：itemprop 微資料 -> 常見 class 命名 -> 頁面標題。
type GenericAdapter struct{}

// 常見的食材與步驟 class 命名，依優先序嘗試
var (
	genericIngredientSelectors = []string{
		"[itemprop='recipeIngredient']",
		"[itemprop='ingredients']",
		".recipe-ingredients li",
		".ingredients li",
		".ingredient-list li",
	}
	genericInstructionSelectors = []string{
		"[itemprop='recipeInstructions'] li",
		"[itemprop='recipeInstructions'] p",
		"[itemprop='recipeInstructions']",
		".instructions li",
		".recipe-instructions li",
		".directions li",
		".method li",
	}
)

func (a *GenericAdapter) Name() string { return "generic" }

// CanHandle 通用解析器接受任何網址
func (a *GenericAdapter) CanHandle(u *url.URL) bool { return true }

// Parse 擷取食譜欄位；必填欄位找不到時回傳 ExtractionError
func (a *GenericAdapter) Parse(doc *goquery.Document, u *url.URL) (*ImportedRecipe, error) {
	rec := &ImportedRecipe{
		Title:        a.extractTitle(doc),
		Ingredients:  firstNonEmpty(doc, genericIngredientSelectors),
		Instructions: firstNonEmpty(doc, genericInstructionSelectors),
	}

	if err := checkMandatory(rec); err != nil {
		return nil, err
	}

	// 可選欄位：缺少時記警告後略過，不報錯
	rec.Description = a.extractDescription(doc)
	if rec.Description == "" {
		common.LogWarn("頁面缺少描述欄位", zap.String("host", u.Host))
	}

	if raw := a.extractImage(doc); raw != "" {
		rec.ImageURL = resolveImageURL(raw, u)
	} else {
		common.LogWarn("頁面缺少圖片欄位", zap.String("host", u.Host))
	}

	rec.Servings = strings.TrimSpace(doc.Find("[itemprop='recipeYield']").First().Text())
	rec.TotalTime = a.extractTotalTime(doc)

	return rec, nil
}

// extractTitle 依優先序：itemprop=name -> 第一個 h1 -> 頁面 <title>
func (a *GenericAdapter) extractTitle(doc *goquery.Document) string {
	if title := strings.TrimSpace(doc.Find("[itemprop='name']").First().Text()); title != "" {
		return title
	}
	if title := strings.TrimSpace(doc.Find("h1").First().Text()); title != "" {
		return title
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

func (a *GenericAdapter) extractDescription(doc *goquery.Document) string {
	if desc := strings.TrimSpace(doc.Find("[itemprop='description']").First().Text()); desc != "" {
		return desc
	}
	if desc, ok := doc.Find("meta[name='description']").Attr("content"); ok {
		return strings.TrimSpace(desc)
	}
	return ""
}

func (a *GenericAdapter) extractImage(doc *goquery.Document) string {
	if src, ok := doc.Find("meta[property='og:image']").Attr("content"); ok && src != "" {
		return src
	}
	if src, ok := doc.Find("[itemprop='image']").Attr("src"); ok && src != "" {
		return src
	}
	if src, ok := doc.Find("[itemprop='image']").Attr("content"); ok && src != "" {
		return src
	}
	return ""
}

func (a *GenericAdapter) extractTotalTime(doc *goquery.Document) string {
	sel := doc.Find("[itemprop='totalTime']").First()
	if datetime, ok := sel.Attr("datetime"); ok && datetime != "" {
		return datetime
	}
	if content, ok := sel.Attr("content"); ok && content != "" {
		return content
	}
	return strings.TrimSpace(sel.Text())
}

// firstNonEmpty 回傳第一個命中非空結果的選擇器內容
func firstNonEmpty(doc *goquery.Document, selectors []string) []string {
	for _, selector := range selectors {
		if items := collectText(doc, selector); len(items) > 0 {
			return items
		}
	}
	return nil
}
