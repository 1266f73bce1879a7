package recipe

import (
	"context"
	"fmt"
	"strings"

	aiservice "recipe-hub/internal/core/ai/service"
	"recipe-hub/internal/core/pipeline"
	"recipe-hub/internal/pkg/common"

	"go.uber.org/zap"
)

// CompletionClient 模型呼叫介面，測試時以假實作替換
type CompletionClient interface {
	ProcessRequest(ctx context.Context, prompt string) (*aiservice.Response, error)
}

// GenerateService 食譜生成服務：prompt 組裝 + 模型呼叫 + 清理/修補/驗證管線
type GenerateService struct {
	aiService CompletionClient
}

// NewGenerateService 創建食譜生成服務
func NewGenerateService(aiService CompletionClient) *GenerateService {
	return &GenerateService{aiService: aiService}
}

// Generate 根據食材與偏好生成一份驗證過的食譜。
// 失敗時回傳 ModelOutputError，階段標記為 completion/parse/validate 之一。
func (s *GenerateService) Generate(ctx context.Context, req *GenerateRequest) (*pipeline.ValidatedRecipe, error) {
	prompt := buildGeneratePrompt(req)

	resp, err := s.aiService.ProcessRequest(ctx, prompt)
	if err != nil {
		return nil, &common.ModelOutputError{Stage: common.StageCompletion, Err: err}
	}
	if resp == nil || strings.TrimSpace(resp.Content) == "" {
		return nil, &common.ModelOutputError{Stage: common.StageCompletion, Err: fmt.Errorf("empty AI response")}
	}

	// 清理與修補都不會讓管線失敗；只有解析與驗證會
	cleaned := pipeline.Clean(resp.Content)

	var candidate map[string]interface{}
	if err := common.ParseJSON(cleaned, &candidate); err != nil {
		common.LogError("模型輸出不是合法 JSON",
			zap.Error(err),
			zap.Int("cleaned_length", len(cleaned)),
		)
		return nil, &common.ModelOutputError{Stage: common.StageParse, Err: err}
	}

	candidate = pipeline.Coerce(candidate)

	validated, failure := pipeline.Validate(candidate)
	if failure != nil {
		// 欄位級細節只記在伺服器端；使用者無法修正模型輸出，不回傳逐欄位錯誤
		common.LogError("模型輸出未通過結構驗證",
			zap.Int("violations", len(failure.Violations)),
			zap.String("detail", failure.Error()),
		)
		return nil, &common.ModelOutputError{Stage: common.StageValidate, Err: failure}
	}

	common.LogInfo("食譜生成成功",
		zap.String("title", validated.Title),
		zap.Int("ingredients", len(validated.Ingredients)),
		zap.Int("instructions", len(validated.Instructions)),
	)

	return validated, nil
}

// buildGeneratePrompt 組裝生成用 prompt
func buildGeneratePrompt(req *GenerateRequest) string {
	var sb strings.Builder
	sb.WriteString("You are a professional chef. Create a single recipe using the following ingredients.\n")
	sb.WriteString(fmt.Sprintf("Ingredients available: %s\n", req.Ingredients))
	if strings.TrimSpace(req.ExcludedIngredients) != "" {
		sb.WriteString(fmt.Sprintf("Do not use: %s\n", req.ExcludedIngredients))
	}
	if strings.TrimSpace(req.DietaryPreference) != "" {
		sb.WriteString(fmt.Sprintf("Dietary preference: %s\n", req.DietaryPreference))
	}
	if strings.TrimSpace(req.CuisineType) != "" {
		sb.WriteString(fmt.Sprintf("Cuisine type: %s\n", req.CuisineType))
	}
	if strings.TrimSpace(req.MealType) != "" {
		sb.WriteString(fmt.Sprintf("Meal type: %s\n", req.MealType))
	}
	sb.WriteString("\nRespond with a single JSON object only, no other text, in this exact shape:\n")
	sb.WriteString(`{
"title": "recipe name",
"ingredients": [{"name": "ingredient", "amount": 1, "unit": "g"}],
"instructions": ["step 1", "step 2"],
"timeEstimate": "30 minutes",
"difficulty": "easy",
"nutrition": {"calories": 0, "protein": 0, "carbs": 0, "fat": 0, "noteworthy_nutrients": []}
}`)
	sb.WriteString("\nRules:\n")
	sb.WriteString("- amount must be a plain number, never a string\n")
	sb.WriteString("- nutrition values must be numbers without units\n")
	sb.WriteString("- all keys must use double quotes\n")
	return sb.String()
}
