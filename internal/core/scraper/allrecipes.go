package scraper

import (
	"net/url"
	"strings"

	"recipe-hub/internal/pkg/common"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// AllRecipesAdapter AllRecipes 專用解析器
type AllRecipesAdapter struct{}

func (a *AllRecipesAdapter) Name() string { return "allrecipes" }

func (a *AllRecipesAdapter) CanHandle(u *url.URL) bool {
	return hostMatches(u, "allrecipes.com")
}

func (a *AllRecipesAdapter) Parse(doc *goquery.Document, u *url.URL) (*ImportedRecipe, error) {
	rec := &ImportedRecipe{
		Title: strings.TrimSpace(doc.Find("h1.article-heading").First().Text()),
	}
	if rec.Title == "" {
		rec.Title = strings.TrimSpace(doc.Find("h1").First().Text())
	}

	rec.Ingredients = collectText(doc, ".mm-recipes-structured-ingredients__list-item")
	if len(rec.Ingredients) == 0 {
		rec.Ingredients = collectText(doc, ".ingredients-item-name")
	}

	rec.Instructions = collectText(doc, ".mm-recipes-steps li p")
	if len(rec.Instructions) == 0 {
		rec.Instructions = collectText(doc, ".instructions-section .paragraph p")
	}

	if err := checkMandatory(rec); err != nil {
		return nil, err
	}

	rec.Description = strings.TrimSpace(doc.Find(".article-subheading").First().Text())
	if rec.Description == "" {
		common.LogWarn("AllRecipes 頁面缺少描述欄位", zap.String("url", u.String()))
	}

	if src, ok := doc.Find("meta[property='og:image']").Attr("content"); ok {
		rec.ImageURL = resolveImageURL(src, u)
	} else {
		common.LogWarn("AllRecipes 頁面缺少圖片欄位", zap.String("url", u.String()))
	}

	detail := func(label string) string {
		var value string
		doc.Find(".mm-recipes-details__item").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			if strings.Contains(strings.ToLower(sel.Find(".mm-recipes-details__label").Text()), label) {
				value = strings.TrimSpace(sel.Find(".mm-recipes-details__value").Text())
				return false
			}
			return true
		})
		return value
	}
	rec.Servings = detail("servings")
	rec.TotalTime = detail("total time")

	return rec, nil
}
