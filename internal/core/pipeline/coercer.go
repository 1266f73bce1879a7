package pipeline

import (
	"encoding/json"
	"regexp"
	"strconv"
)

var firstNumberPattern = regexp.MustCompile(`\d+(\.\d+)?`)

// Coerce 在嚴格驗證前修補已知的「差一點就對」型別錯誤。
// 純函數，不驗證也不報錯；缺少 ingredients 或 nutrition、或形狀不符時直接跳過。
func Coerce(candidate map[string]interface{}) map[string]interface{} {
	if candidate == nil {
		return nil
	}

	// 食材 amount 若是字串，保守地以 0 取代（寧可丟棄資訊也不猜測）
	if ingredients, ok := candidate["ingredients"].([]interface{}); ok {
		for _, item := range ingredients {
			entry, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			if _, isString := entry["amount"].(string); isString {
				entry["amount"] = float64(0)
			}
		}
	}

	// 營養欄位若是帶單位的字串（例如 "14 oz"），抽出第一段數字；
	// 完全沒有數字時刪除該欄位，讓驗證視為缺席而非型別錯誤
	if nutrition, ok := candidate["nutrition"].(map[string]interface{}); ok {
		for key, value := range nutrition {
			if key == "noteworthy_nutrients" {
				continue
			}
			str, isString := value.(string)
			if !isString {
				continue
			}
			match := firstNumberPattern.FindString(str)
			if match == "" {
				delete(nutrition, key)
				continue
			}
			if parsed, err := strconv.ParseFloat(match, 64); err == nil {
				nutrition[key] = parsed
			} else {
				delete(nutrition, key)
			}
		}
	}

	return candidate
}

// asNumber 把 JSON 解析出的數值統一轉成 float64
func asNumber(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
