package pipeline

import (
	"encoding/json"
	"os"
	"testing"

	"recipe-hub/internal/pkg/common"

	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	common.Logger = zap.NewNop()
	os.Exit(m.Run())
}

func TestCleanFencedBlock(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "帶前後說明文字的圍欄區塊",
			raw:  "Here is your recipe:\n```json\n{\"title\": \"Soup\"}\n```\nEnjoy!",
			want: `{"title": "Soup"}`,
		},
		{
			name: "多個圍欄區塊只取第一個",
			raw:  "```json\n{\"title\": \"First\"}\n```\n```json\n{\"title\": \"Second\"}\n```",
			want: `{"title": "First"}`,
		},
		{
			name: "沒有圍欄時取大括號範圍",
			raw:  "Sure! {\"title\": \"Soup\"} Hope you like it.",
			want: `{"title": "Soup"}`,
		},
		{
			name: "完全沒有大括號時原樣保留",
			raw:  "I cannot generate a recipe.",
			want: "I cannot generate a recipe.",
		},
		{
			name: "乾淨輸入不變",
			raw:  `{"title": "Soup"}`,
			want: `{"title": "Soup"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clean(tt.raw); got != tt.want {
				t.Errorf("Clean() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCleanRepairsStrayParens(t *testing.T) {
	raw := `{"ingredients": [{"name": "tomatoes", "amount": 1, "unit": "can" (14 oz)}]}`
	got := Clean(raw)

	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(got), &parsed); err != nil {
		t.Fatalf("repaired output is not valid JSON: %v\noutput: %s", err, got)
	}

	ingredients := parsed["ingredients"].([]interface{})
	entry := ingredients[0].(map[string]interface{})
	if unit := entry["unit"]; unit != "can (14 oz)" {
		t.Errorf("unit = %q, want %q", unit, "can (14 oz)")
	}
}

func TestCleanDoesNotTouchParensInsideStrings(t *testing.T) {
	raw := `{"title": "Chicken (grilled) with rice"}`
	if got := Clean(raw); got != raw {
		t.Errorf("Clean() modified parens inside string literal: %q", got)
	}
}

func TestCleanIdempotent(t *testing.T) {
	raw := "```json\n{\"unit\": \"can\" (14 oz)}\n```"
	once := Clean(raw)
	twice := Clean(once)
	if once != twice {
		t.Errorf("Clean is not idempotent: first %q, second %q", once, twice)
	}
}
