package scraper

import (
	"net/url"
	"strings"

	"recipe-hub/internal/pkg/common"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// BBCGoodFoodAdapter BBC Good Food 專用解析器，使用手調的 DOM 選擇器
type BBCGoodFoodAdapter struct{}

func (a *BBCGoodFoodAdapter) Name() string { return "bbcgoodfood" }

func (a *BBCGoodFoodAdapter) CanHandle(u *url.URL) bool {
	return hostMatches(u, "bbcgoodfood.com")
}

func (a *BBCGoodFoodAdapter) Parse(doc *goquery.Document, u *url.URL) (*ImportedRecipe, error) {
	rec := &ImportedRecipe{
		Title: strings.TrimSpace(doc.Find("h1.heading-1").First().Text()),
	}
	if rec.Title == "" {
		rec.Title = strings.TrimSpace(doc.Find("h1").First().Text())
	}

	rec.Ingredients = collectText(doc, ".recipe__ingredients li")
	if len(rec.Ingredients) == 0 {
		rec.Ingredients = collectText(doc, "section[data-component='IngredientsList'] li")
	}

	rec.Instructions = collectText(doc, ".recipe__method-steps li")
	if len(rec.Instructions) == 0 {
		rec.Instructions = collectText(doc, "section[data-component='MethodList'] li")
	}

	if err := checkMandatory(rec); err != nil {
		return nil, err
	}

	rec.Description = strings.TrimSpace(doc.Find(".editor-content p").First().Text())
	if rec.Description == "" {
		common.LogWarn("BBC 頁面缺少描述欄位", zap.String("url", u.String()))
	}

	if src, ok := doc.Find(".post-header__image img").Attr("src"); ok {
		rec.ImageURL = resolveImageURL(src, u)
	} else if src, ok := doc.Find("meta[property='og:image']").Attr("content"); ok {
		rec.ImageURL = resolveImageURL(src, u)
	} else {
		common.LogWarn("BBC 頁面缺少圖片欄位", zap.String("url", u.String()))
	}

	rec.Servings = strings.TrimSpace(doc.Find(".recipe__servings .mt-xxs").First().Text())

	// 準備與烹調時間列在同一個清單，取整段文字當總時間
	rec.TotalTime = strings.Join(strings.Fields(doc.Find(".recipe__cook-and-prep-time").First().Text()), " ")

	return rec, nil
}
