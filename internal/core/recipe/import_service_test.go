package recipe

import (
	"context"
	"errors"
	"strings"
	"testing"

	"recipe-hub/internal/pkg/common"

	"github.com/PuerkitoBio/goquery"
)

// fakeFetcher 以固定 HTML 或錯誤取代實際抓取
type fakeFetcher struct {
	html  string
	err   error
	calls int
}

func (f *fakeFetcher) Fetch(ctx context.Context, target string) (*goquery.Document, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return goquery.NewDocumentFromReader(strings.NewReader(f.html))
}

// fakeRehoster 記錄轉存呼叫並回傳固定結果
type fakeRehoster struct {
	hostedURL string
	err       error
	calls     int
}

func (f *fakeRehoster) Rehost(ctx context.Context, sourceURL string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.hostedURL, nil
}

const importPageHTML = `<html>
<head>
	<title>Fallback Title</title>
	<meta property="og:image" content="/images/soup.jpg">
</head>
<body>
	<h1 itemprop="name">Garden Soup</h1>
	<ul>
		<li itemprop="recipeIngredient">2 carrots</li>
		<li itemprop="recipeIngredient">1 onion</li>
	</ul>
	<div itemprop="recipeInstructions">
		<li>Chop the vegetables.</li>
		<li>Simmer until soft.</li>
	</div>
</body>
</html>`

func TestImportSuccess(t *testing.T) {
	fetcher := &fakeFetcher{html: importPageHTML}
	rehoster := &fakeRehoster{hostedURL: "https://img.example.com/hosted.jpg"}
	svc := NewImportService(fetcher, rehoster)

	recipe, err := svc.Import(context.Background(), &ImportRequest{URL: "https://example.com/recipes/soup"})
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if recipe.Title != "Garden Soup" {
		t.Errorf("Title = %q", recipe.Title)
	}
	if len(recipe.Ingredients) != 2 {
		t.Errorf("Ingredients = %v", recipe.Ingredients)
	}
	if len(recipe.Instructions) != 2 {
		t.Errorf("Instructions = %v", recipe.Instructions)
	}
	if recipe.ImageURL != "https://img.example.com/hosted.jpg" {
		t.Errorf("ImageURL = %q, want rehosted URL", recipe.ImageURL)
	}
	if rehoster.calls != 1 {
		t.Errorf("rehoster called %d times, want 1", rehoster.calls)
	}
}

func TestImportRehostFailureIsNonFatal(t *testing.T) {
	fetcher := &fakeFetcher{html: importPageHTML}
	rehoster := &fakeRehoster{err: &common.SideEffectError{Op: "image_rehost", Err: errors.New("host down")}}
	svc := NewImportService(fetcher, rehoster)

	recipe, err := svc.Import(context.Background(), &ImportRequest{URL: "https://example.com/recipes/soup"})
	if err != nil {
		t.Fatalf("rehost failure must not fail the import: %v", err)
	}
	if recipe.ImageURL != "" {
		t.Errorf("ImageURL = %q, want empty after rehost failure", recipe.ImageURL)
	}
	if recipe.Title != "Garden Soup" {
		t.Errorf("Title = %q", recipe.Title)
	}
}

func TestImportFetchErrorPropagates(t *testing.T) {
	fetchErr := &common.UpstreamFetchError{Cause: common.FetchCauseStatus, StatusCode: 404, URL: "https://example.com/gone"}
	fetcher := &fakeFetcher{err: fetchErr}
	rehoster := &fakeRehoster{}
	svc := NewImportService(fetcher, rehoster)

	_, err := svc.Import(context.Background(), &ImportRequest{URL: "https://example.com/gone"})
	var gotErr *common.UpstreamFetchError
	if !errors.As(err, &gotErr) || gotErr.StatusCode != 404 {
		t.Fatalf("want UpstreamFetchError with status 404, got %v", err)
	}
	if rehoster.calls != 0 {
		t.Errorf("rehoster must not be called when fetch fails")
	}
}

func TestImportExtractionError(t *testing.T) {
	// 只有標題，缺少食材與步驟
	fetcher := &fakeFetcher{html: "<html><body><h1>Just a title</h1></body></html>"}
	svc := NewImportService(fetcher, &fakeRehoster{})

	_, err := svc.Import(context.Background(), &ImportRequest{URL: "https://example.com/empty"})
	var extractionErr *common.ExtractionError
	if !errors.As(err, &extractionErr) {
		t.Fatalf("want ExtractionError, got %v", err)
	}
	if extractionErr.Field != "ingredients" {
		t.Errorf("Field = %q, want ingredients", extractionErr.Field)
	}
}

func TestImportNoImageSkipsRehost(t *testing.T) {
	html := `<html><body>
		<h1 itemprop="name">Plain</h1>
		<li itemprop="recipeIngredient">rice</li>
		<div itemprop="recipeInstructions"><li>Cook.</li></div>
	</body></html>`
	rehoster := &fakeRehoster{hostedURL: "https://img.example.com/x.jpg"}
	svc := NewImportService(&fakeFetcher{html: html}, rehoster)

	recipe, err := svc.Import(context.Background(), &ImportRequest{URL: "https://example.com/plain"})
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if recipe.ImageURL != "" {
		t.Errorf("ImageURL = %q, want empty", recipe.ImageURL)
	}
	if rehoster.calls != 0 {
		t.Errorf("rehoster called %d times for a page without image", rehoster.calls)
	}
}

func TestImportRequestValidateInput(t *testing.T) {
	tests := []struct {
		name        string
		url         string
		wantInvalid bool
	}{
		{"空白", "", true},
		{"相對路徑", "/recipes/soup", true},
		{"非 http scheme", "ftp://example.com/soup", true},
		{"http", "http://example.com/soup", false},
		{"https", "https://example.com/soup", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &ImportRequest{URL: tt.url}
			details := req.ValidateInput()
			if tt.wantInvalid && details == nil {
				t.Error("expected validation details")
			}
			if !tt.wantInvalid && details != nil {
				t.Errorf("unexpected details: %v", details)
			}
		})
	}
}
