package pipeline

import (
	"regexp"
	"strings"

	"recipe-hub/internal/pkg/common"

	"go.uber.org/zap"
)

var (
	// 只取第一個 ```json ... ``` 圍欄區塊
	fencedBlockPattern = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")

	// 模型偶爾會把括號註記放在字串字面值外面，例如：
	//   "unit": "can" (14 oz),
	// 把括號內容折回字串內：
	//   "unit": "can (14 oz)",
	// 這是針對單一觀察到的錯誤型態的修補，不是通用 JSON 修復。
	strayParenPattern = regexp.MustCompile(`"([^"\n]*)"\s*\(([^)\n]*)\)\s*([,}\]])`)
)

// Clean 把模型原始輸出整理成比較接近 JSON 的字串。
// 永不回傳錯誤；輸出不保證是合法 JSON，解析失敗由下游處理。
func Clean(raw string) string {
	text := strings.TrimSpace(raw)

	if m := fencedBlockPattern.FindStringSubmatch(text); m != nil {
		text = strings.TrimSpace(m[1])
	} else {
		// 取最外層大括號範圍；找不到邊界就原樣保留
		start := strings.Index(text, "{")
		end := strings.LastIndex(text, "}")
		if start != -1 && end != -1 && end > start {
			text = text[start : end+1]
		}
	}

	return repairStrayParens(text)
}

// repairStrayParens 套用括號修補；修補過程出錯時退回修補前的文字
func repairStrayParens(text string) (result string) {
	result = text
	defer func() {
		if r := recover(); r != nil {
			common.LogWarn("括號修補失敗，使用原始文字",
				zap.Any("panic", r),
			)
			result = text
		}
	}()

	repaired := strayParenPattern.ReplaceAllString(text, `"$1 ($2)"$3`)
	if repaired != text {
		common.LogDebug("已折回字串外的括號註記",
			zap.Int("length_before", len(text)),
			zap.Int("length_after", len(repaired)),
		)
	}
	return repaired
}
