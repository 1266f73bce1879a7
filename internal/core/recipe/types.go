package recipe

import "strings"

// GenerateRequest 生成食譜的請求參數
type GenerateRequest struct {
	Ingredients         string `json:"ingredients"`                   // 必填，至少 3 個字元
	ExcludedIngredients string `json:"excludedIngredients,omitempty"` // 不想使用的食材
	DietaryPreference   string `json:"dietaryPreference,omitempty"`   // 飲食偏好（如：素食）
	CuisineType         string `json:"cuisineType,omitempty"`         // 菜系
	MealType            string `json:"mealType,omitempty"`            // 餐別（早餐、晚餐…）
}

// ValidateInput 逐欄位驗證使用者輸入；回傳 欄位 -> 違規說明
func (r *GenerateRequest) ValidateInput() map[string]string {
	details := make(map[string]string)
	if len(strings.TrimSpace(r.Ingredients)) < 3 {
		details["ingredients"] = "required, at least 3 characters"
	}
	if len(details) == 0 {
		return nil
	}
	return details
}
