package scraper

import (
	"net/url"
	"os"
	"strings"
	"testing"

	"recipe-hub/internal/pkg/common"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	common.Logger = zap.NewNop()
	os.Exit(m.Run())
}

func mustParseURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("invalid test url %q: %v", raw, err)
	}
	return u
}

func docFromHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("failed to parse test html: %v", err)
	}
	return doc
}

func TestSelectAdapter(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://www.bbcgoodfood.com/recipes/tomato-soup", "bbcgoodfood"},
		{"https://bbcgoodfood.com/recipes/tomato-soup", "bbcgoodfood"},
		{"https://www.allrecipes.com/recipe/12345/soup", "allrecipes"},
		{"https://cooking.example.com/recipes/soup", "generic"},
		{"https://notbbcgoodfood.com/recipes/soup", "generic"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			adapter := SelectAdapter(mustParseURL(t, tt.url))
			if adapter.Name() != tt.want {
				t.Errorf("SelectAdapter(%s) = %s, want %s", tt.url, adapter.Name(), tt.want)
			}
		})
	}
}

func TestHostMatches(t *testing.T) {
	tests := []struct {
		host   string
		domain string
		want   bool
	}{
		{"https://bbcgoodfood.com/x", "bbcgoodfood.com", true},
		{"https://www.bbcgoodfood.com/x", "bbcgoodfood.com", true},
		{"https://WWW.BBCGOODFOOD.COM/x", "bbcgoodfood.com", true},
		{"https://evilbbcgoodfood.com/x", "bbcgoodfood.com", false},
		{"https://bbcgoodfood.com.evil.net/x", "bbcgoodfood.com", false},
	}
	for _, tt := range tests {
		if got := hostMatches(mustParseURL(t, tt.host), tt.domain); got != tt.want {
			t.Errorf("hostMatches(%s, %s) = %v, want %v", tt.host, tt.domain, got, tt.want)
		}
	}
}

func TestResolveImageURL(t *testing.T) {
	base := mustParseURL(t, "https://example.com/recipes/soup")

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"絕對網址不變", "https://cdn.example.com/soup.jpg", "https://cdn.example.com/soup.jpg"},
		{"根相對路徑", "/images/soup.jpg", "https://example.com/images/soup.jpg"},
		{"相對路徑", "soup.jpg", "https://example.com/recipes/soup.jpg"},
		{"空字串", "", ""},
		{"非 http scheme 丟棄", "data:image/png;base64,xyz", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolveImageURL(tt.raw, base); got != tt.want {
				t.Errorf("resolveImageURL(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestGenericAdapterParse(t *testing.T) {
	html := `<html>
	<head>
		<title>Soup | Example Cooking</title>
		<meta name="description" content="A simple soup.">
		<meta property="og:image" content="/img/soup.jpg">
	</head>
	<body>
		<h1>Simple Soup</h1>
		<ul class="ingredients">
			<li>2 carrots</li>
			<li>1 onion</li>
			<li></li>
		</ul>
		<ol class="instructions">
			<li>Chop everything.</li>
			<li>   Simmer   for   20   minutes.   </li>
		</ol>
		<span itemprop="recipeYield">4 servings</span>
	</body>
</html>`

	adapter := &GenericAdapter{}
	u := mustParseURL(t, "https://example.com/recipes/soup")

	rec, err := adapter.Parse(docFromHTML(t, html), u)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if rec.Title != "Simple Soup" {
		t.Errorf("Title = %q", rec.Title)
	}
	if len(rec.Ingredients) != 2 {
		t.Errorf("empty list items must be dropped, got %v", rec.Ingredients)
	}
	if len(rec.Instructions) != 2 {
		t.Fatalf("Instructions = %v", rec.Instructions)
	}
	if rec.Instructions[1] != "Simmer for 20 minutes." {
		t.Errorf("whitespace not normalized: %q", rec.Instructions[1])
	}
	if rec.Description != "A simple soup." {
		t.Errorf("Description = %q", rec.Description)
	}
	if rec.ImageURL != "https://example.com/img/soup.jpg" {
		t.Errorf("ImageURL = %q", rec.ImageURL)
	}
	if rec.Servings != "4 servings" {
		t.Errorf("Servings = %q", rec.Servings)
	}
}

func TestGenericAdapterMicrodataPreferred(t *testing.T) {
	html := `<html><body>
		<h1>Wrong Title</h1>
		<h2 itemprop="name">Microdata Title</h2>
		<li itemprop="recipeIngredient">rice</li>
		<ul class="ingredients"><li>should be ignored</li></ul>
		<div itemprop="recipeInstructions"><li>Cook.</li></div>
	</body></html>`

	adapter := &GenericAdapter{}
	rec, err := adapter.Parse(docFromHTML(t, html), mustParseURL(t, "https://example.com/r"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if rec.Title != "Microdata Title" {
		t.Errorf("Title = %q, microdata must win over h1", rec.Title)
	}
	if len(rec.Ingredients) != 1 || rec.Ingredients[0] != "rice" {
		t.Errorf("Ingredients = %v, microdata selector must win", rec.Ingredients)
	}
}

func TestGenericAdapterMissingMandatory(t *testing.T) {
	tests := []struct {
		name      string
		html      string
		wantField string
	}{
		{
			name:      "缺少標題",
			html:      `<html><body><li itemprop="recipeIngredient">rice</li><div itemprop="recipeInstructions"><li>Cook.</li></div></body></html>`,
			wantField: "title",
		},
		{
			name:      "缺少食材",
			html:      `<html><body><h1>Title</h1><div itemprop="recipeInstructions"><li>Cook.</li></div></body></html>`,
			wantField: "ingredients",
		},
		{
			name:      "缺少步驟",
			html:      `<html><body><h1>Title</h1><li itemprop="recipeIngredient">rice</li></body></html>`,
			wantField: "instructions",
		},
	}

	adapter := &GenericAdapter{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := adapter.Parse(docFromHTML(t, tt.html), mustParseURL(t, "https://example.com/r"))
			extractionErr, ok := err.(*common.ExtractionError)
			if !ok {
				t.Fatalf("want ExtractionError, got %v", err)
			}
			if extractionErr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", extractionErr.Field, tt.wantField)
			}
		})
	}
}

func TestBBCGoodFoodAdapterParse(t *testing.T) {
	html := `<html><body>
		<h1 class="heading-1">Classic Lasagne</h1>
		<div class="editor-content"><p>Layers of pasta and ragu.</p></div>
		<section class="recipe__ingredients"><ul>
			<li>500g beef mince</li>
			<li>pasta sheets</li>
		</ul></section>
		<section class="recipe__method-steps"><ul>
			<li>Brown the mince.</li>
			<li>Layer and bake.</li>
		</ul></section>
	</body></html>`

	adapter := &BBCGoodFoodAdapter{}
	rec, err := adapter.Parse(docFromHTML(t, html), mustParseURL(t, "https://www.bbcgoodfood.com/recipes/classic-lasagne"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if rec.Title != "Classic Lasagne" {
		t.Errorf("Title = %q", rec.Title)
	}
	if len(rec.Ingredients) != 2 || len(rec.Instructions) != 2 {
		t.Errorf("Ingredients = %v, Instructions = %v", rec.Ingredients, rec.Instructions)
	}
	if rec.Description != "Layers of pasta and ragu." {
		t.Errorf("Description = %q", rec.Description)
	}
}

func TestAllRecipesAdapterParse(t *testing.T) {
	html := `<html><body>
		<h1 class="article-heading">Banana Bread</h1>
		<p class="article-subheading">Moist and easy.</p>
		<ul>
			<li class="mm-recipes-structured-ingredients__list-item">3 bananas</li>
			<li class="mm-recipes-structured-ingredients__list-item">2 cups flour</li>
		</ul>
		<div class="mm-recipes-steps"><ol>
			<li><p>Mash bananas.</p></li>
			<li><p>Bake for an hour.</p></li>
		</ol></div>
		<div class="mm-recipes-details__item">
			<div class="mm-recipes-details__label">Servings:</div>
			<div class="mm-recipes-details__value">8</div>
		</div>
		<div class="mm-recipes-details__item">
			<div class="mm-recipes-details__label">Total Time:</div>
			<div class="mm-recipes-details__value">1 hr 15 mins</div>
		</div>
	</body></html>`

	adapter := &AllRecipesAdapter{}
	rec, err := adapter.Parse(docFromHTML(t, html), mustParseURL(t, "https://www.allrecipes.com/recipe/1/banana-bread"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if rec.Title != "Banana Bread" {
		t.Errorf("Title = %q", rec.Title)
	}
	if len(rec.Ingredients) != 2 || len(rec.Instructions) != 2 {
		t.Errorf("Ingredients = %v, Instructions = %v", rec.Ingredients, rec.Instructions)
	}
	if rec.Servings != "8" {
		t.Errorf("Servings = %q", rec.Servings)
	}
	if rec.TotalTime != "1 hr 15 mins" {
		t.Errorf("TotalTime = %q", rec.TotalTime)
	}
}
