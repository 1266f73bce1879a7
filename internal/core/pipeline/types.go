package pipeline

// IngredientLine 驗證後的單項食材
type IngredientLine struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}

// Nutrition 營養資訊，所有欄位皆為可選
type Nutrition struct {
	Calories            *float64 `json:"calories,omitempty"`
	Protein             *float64 `json:"protein,omitempty"`
	Carbs               *float64 `json:"carbs,omitempty"`
	Fat                 *float64 `json:"fat,omitempty"`
	Fiber               *float64 `json:"fiber,omitempty"`
	Sugar               *float64 `json:"sugar,omitempty"`
	Sodium              *float64 `json:"sodium,omitempty"`
	Potassium           *float64 `json:"potassium,omitempty"`
	Calcium             *float64 `json:"calcium,omitempty"`
	NoteworthyNutrients []string `json:"noteworthy_nutrients,omitempty"`
}

// ValidatedRecipe 管線的最終成功型別。
// 一旦建構完成，必填欄位保證存在且型別正確；可選欄位要嘛缺席、要嘛型別正確。
type ValidatedRecipe struct {
	Title        string           `json:"title"`
	Ingredients  []IngredientLine `json:"ingredients"`
	Instructions []string         `json:"instructions"`
	TimeEstimate string           `json:"timeEstimate,omitempty"`
	Difficulty   string           `json:"difficulty,omitempty"`
	Nutrition    *Nutrition       `json:"nutrition,omitempty"`
}

// nutrition 物件中允許的數值欄位
var nutritionNumberKeys = []string{
	"calories", "protein", "carbs", "fat", "fiber",
	"sugar", "sodium", "potassium", "calcium",
}
