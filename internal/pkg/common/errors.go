package common

import (
	"fmt"
	"net/http"
)

// ErrorResponse 定義 API 錯誤響應結構
type ErrorResponse struct {
	Code    string `json:"code"`              // 錯誤代碼
	Message string `json:"message"`           // 錯誤信息
	Details string `json:"details,omitempty"` // 詳細信息（僅在開發模式顯示）
}

// CustomError 定義自定義錯誤類型
type CustomError struct {
	Code    string // 錯誤代碼
	Message string // 錯誤信息
	Err     error  // 原始錯誤
	Status  int    // HTTP 狀態碼
}

func (e *CustomError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// NewError 創建新的自定義錯誤
func NewError(code string, message string, status int, err error) *CustomError {
	return &CustomError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

// --- 管線錯誤分類 ---
// 每個階段只會回傳這組封閉錯誤類型之一，HTTP 狀態碼統一由 handler 對應，
// 不在訊息字串上做比對。

// AuthenticationError 沒有有效的登入憑證
type AuthenticationError struct{}

func (e *AuthenticationError) Error() string {
	return "authentication required"
}

// ValidationError 使用者輸入驗證失敗，附帶逐欄位說明
type ValidationError struct {
	Details map[string]string // 欄位 -> violated constraint
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid request (%d fields)", len(e.Details))
}

// NewValidationError 創建新的驗證錯誤
func NewValidationError(details map[string]string) *ValidationError {
	return &ValidationError{Details: details}
}

// FetchCause 上游抓取失敗的原因分類
type FetchCause string

const (
	FetchCauseTimeout FetchCause = "timeout" // 408
	FetchCauseStatus  FetchCause = "status"  // 400，帶狀態碼
	FetchCauseNetwork FetchCause = "network" // 400，一般訊息
)

// UpstreamFetchError 抓取第三方頁面失敗
type UpstreamFetchError struct {
	Cause      FetchCause
	StatusCode int    // Cause 為 status 時有效
	URL        string // 目標網址
	Err        error
}

func (e *UpstreamFetchError) Error() string {
	switch e.Cause {
	case FetchCauseTimeout:
		return fmt.Sprintf("fetch timed out: %s", e.URL)
	case FetchCauseStatus:
		return fmt.Sprintf("fetch failed with status %d: %s", e.StatusCode, e.URL)
	default:
		if e.Err != nil {
			return fmt.Sprintf("fetch failed: %v", e.Err)
		}
		return "fetch failed"
	}
}

func (e *UpstreamFetchError) Unwrap() error { return e.Err }

// ExtractionError 網站解析器找不到必填欄位
type ExtractionError struct {
	Field string // 缺少的必填欄位
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("could not locate mandatory field %q in page", e.Field)
}

// ModelOutputStage 模型輸出失敗的階段
type ModelOutputStage string

const (
	StageCompletion ModelOutputStage = "completion" // 模型呼叫失敗或回應為空
	StageParse      ModelOutputStage = "parse"      // 清理後仍不是合法 JSON
	StageValidate   ModelOutputStage = "validate"   // 結構驗證失敗
)

// ModelOutputError 模型輸出無法轉為合法食譜
type ModelOutputError struct {
	Stage ModelOutputStage
	Err   error
}

func (e *ModelOutputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("model output failed at %s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("model output failed at %s", e.Stage)
}

func (e *ModelOutputError) Unwrap() error { return e.Err }

// SideEffectError 非致命副作用失敗（例如圖片轉存）
type SideEffectError struct {
	Op  string
	Err error
}

func (e *SideEffectError) Error() string {
	return fmt.Sprintf("side effect %s failed: %v", e.Op, e.Err)
}

func (e *SideEffectError) Unwrap() error { return e.Err }

// 預定義錯誤代碼
const (
	// 客戶端錯誤 (4xx)
	ErrCodeInvalidRequest   = "INVALID_REQUEST"    // 400
	ErrCodeUnauthorized     = "UNAUTHORIZED"       // 401
	ErrCodeForbidden        = "FORBIDDEN"          // 403
	ErrCodeNotFound         = "NOT_FOUND"          // 404
	ErrCodeMethodNotAllowed = "METHOD_NOT_ALLOWED" // 405
	ErrCodeRequestTimeout   = "REQUEST_TIMEOUT"    // 408
	ErrCodeConflict         = "CONFLICT"           // 409
	ErrCodeTooManyRequests  = "TOO_MANY_REQUESTS"  // 429

	// 服務器錯誤 (5xx)
	ErrCodeInternalError      = "INTERNAL_ERROR"      // 500
	ErrCodeNotImplemented     = "NOT_IMPLEMENTED"     // 501
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE" // 503
	ErrCodeGatewayTimeout     = "GATEWAY_TIMEOUT"     // 504
)

// 預定義錯誤
var (
	// 客戶端錯誤
	ErrInvalidRequest   = NewError(ErrCodeInvalidRequest, "無效的請求", http.StatusBadRequest, nil)
	ErrUnauthorized     = NewError(ErrCodeUnauthorized, "未授權的訪問", http.StatusUnauthorized, nil)
	ErrForbidden        = NewError(ErrCodeForbidden, "禁止訪問", http.StatusForbidden, nil)
	ErrNotFound         = NewError(ErrCodeNotFound, "資源不存在", http.StatusNotFound, nil)
	ErrMethodNotAllowed = NewError(ErrCodeMethodNotAllowed, "不支持的請求方法", http.StatusMethodNotAllowed, nil)
	ErrRequestTimeout   = NewError(ErrCodeRequestTimeout, "請求超時", http.StatusRequestTimeout, nil)
	ErrTooManyRequests  = NewError(ErrCodeTooManyRequests, "請求過於頻繁", http.StatusTooManyRequests, nil)

	// 服務器錯誤
	ErrInternalError      = NewError(ErrCodeInternalError, "服務器內部錯誤", http.StatusInternalServerError, nil)
	ErrServiceUnavailable = NewError(ErrCodeServiceUnavailable, "服務暫時不可用", http.StatusServiceUnavailable, nil)
	ErrGatewayTimeout     = NewError(ErrCodeGatewayTimeout, "網關超時", http.StatusGatewayTimeout, nil)

	// 業務錯誤
	ErrCacheFull      = NewError("CACHE_FULL", "緩存已滿", http.StatusServiceUnavailable, nil)
	ErrCacheDisabled  = NewError("CACHE_DISABLED", "緩存已禁用", http.StatusServiceUnavailable, nil)
	ErrCacheMiss      = NewError("CACHE_MISS", "快取未命中", http.StatusServiceUnavailable, nil)
	ErrAIServiceError = NewError("AI_SERVICE_ERROR", "AI 服務錯誤", http.StatusServiceUnavailable, nil)
)
