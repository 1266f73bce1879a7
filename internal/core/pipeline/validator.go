package pipeline

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FieldViolation 單一欄位的違規描述
type FieldViolation struct {
	Path       string `json:"path"`       // 例如 ingredients[0].amount
	Constraint string `json:"constraint"` // 期望的限制
}

// ValidationFailure 彙整所有違規欄位，而不是只回報第一個
type ValidationFailure struct {
	Violations []FieldViolation
}

func (f *ValidationFailure) Error() string {
	parts := make([]string, len(f.Violations))
	for i, v := range f.Violations {
		parts[i] = fmt.Sprintf("%s: %s", v.Path, v.Constraint)
	}
	return "recipe validation failed: " + strings.Join(parts, "; ")
}

// Validate 對修補後的候選樹做宣告式結構驗證。
// 成功時回傳 ValidatedRecipe；失敗時列舉全部違規欄位（批次驗證，非 fail-fast）。
func Validate(candidate map[string]interface{}) (*ValidatedRecipe, *ValidationFailure) {
	var violations []FieldViolation
	add := func(path, constraint string) {
		violations = append(violations, FieldViolation{Path: path, Constraint: constraint})
	}

	if candidate == nil {
		add("$", "object required")
		return nil, &ValidationFailure{Violations: violations}
	}

	// title：非空字串
	if title, ok := candidate["title"].(string); !ok || len(title) == 0 {
		add("title", "non-empty string required")
	}

	// ingredients：至少一項，每項 name/amount/unit
	switch ingredients := candidate["ingredients"].(type) {
	case []interface{}:
		if len(ingredients) == 0 {
			add("ingredients", "at least one ingredient required")
		}
		for i, item := range ingredients {
			entry, ok := item.(map[string]interface{})
			if !ok {
				add(fmt.Sprintf("ingredients[%d]", i), "object required")
				continue
			}
			if name, ok := entry["name"].(string); !ok || len(name) == 0 {
				add(fmt.Sprintf("ingredients[%d].name", i), "non-empty string required")
			}
			if _, ok := asNumber(entry["amount"]); !ok {
				add(fmt.Sprintf("ingredients[%d].amount", i), "number required")
			}
			// unit 可以是空字串，但缺席以外的非字串值視為違規
			if unit, present := entry["unit"]; present {
				if _, ok := unit.(string); !ok {
					add(fmt.Sprintf("ingredients[%d].unit", i), "string required")
				}
			}
		}
	default:
		add("ingredients", "array with at least one ingredient required")
	}

	// instructions：至少一個字串步驟
	switch instructions := candidate["instructions"].(type) {
	case []interface{}:
		if len(instructions) == 0 {
			add("instructions", "at least one instruction required")
		}
		for i, step := range instructions {
			if _, ok := step.(string); !ok {
				add(fmt.Sprintf("instructions[%d]", i), "string required")
			}
		}
	default:
		add("instructions", "array with at least one instruction required")
	}

	// 可選字串欄位
	for _, key := range []string{"timeEstimate", "difficulty"} {
		if value, present := candidate[key]; present {
			if _, ok := value.(string); !ok {
				add(key, "string required")
			}
		}
	}

	// nutrition：可選物件，內部皆為可選數值 + noteworthy_nutrients 字串陣列
	if value, present := candidate["nutrition"]; present {
		nutrition, ok := value.(map[string]interface{})
		if !ok {
			add("nutrition", "object required")
		} else {
			for _, key := range nutritionNumberKeys {
				if field, present := nutrition[key]; present {
					if _, ok := asNumber(field); !ok {
						add("nutrition."+key, "number required")
					}
				}
			}
			if field, present := nutrition["noteworthy_nutrients"]; present {
				list, ok := field.([]interface{})
				if !ok {
					add("nutrition.noteworthy_nutrients", "array of strings required")
				} else {
					for i, item := range list {
						if _, ok := item.(string); !ok {
							add(fmt.Sprintf("nutrition.noteworthy_nutrients[%d]", i), "string required")
						}
					}
				}
			}
		}
	}

	if len(violations) > 0 {
		return nil, &ValidationFailure{Violations: violations}
	}

	// 通過驗證後轉成強型別；未知欄位在這裡被丟棄
	data, err := json.Marshal(candidate)
	if err != nil {
		add("$", "serializable object required")
		return nil, &ValidationFailure{Violations: violations}
	}
	var recipe ValidatedRecipe
	if err := json.Unmarshal(data, &recipe); err != nil {
		add("$", "schema-conformant object required")
		return nil, &ValidationFailure{Violations: violations}
	}

	return &recipe, nil
}
