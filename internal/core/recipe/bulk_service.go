package recipe

import (
	"context"
	"fmt"
	"sync"

	"recipe-hub/internal/core/pipeline"
	"recipe-hub/internal/infrastructure/config"
	"recipe-hub/internal/pkg/common"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc"
	"go.uber.org/zap"
)

// BulkRequest 批次生成請求：多組生成參數一次送出
type BulkRequest struct {
	Requests []GenerateRequest `json:"requests"`
}

// BulkItemError 批次中單筆失敗的紀錄
type BulkItemError struct {
	Index   int    `json:"index"`
	Message string `json:"message"`
}

// BulkResult 批次生成結果：部分失敗不影響其餘項目
type BulkResult struct {
	Total     int                        `json:"total"`
	Succeeded int                        `json:"succeeded"`
	Failed    int                        `json:"failed"`
	Recipes   []*pipeline.ValidatedRecipe `json:"recipes"`
	Errors    []BulkItemError            `json:"errors,omitempty"`
}

// BulkService 批次食譜生成：固定批次大小的併發扇出
type BulkService struct {
	generateService *GenerateService
	batchSize       int
	maxRequests     int
}

// NewBulkService 創建批次生成服務
func NewBulkService(generateService *GenerateService, cfg *config.Config) *BulkService {
	return &BulkService{
		generateService: generateService,
		batchSize:       cfg.Bulk.BatchSize,
		maxRequests:     cfg.Bulk.MaxRequests,
	}
}

// ValidateInput 驗證整批輸入；任何一筆無效就拒絕整批
func (s *BulkService) ValidateInput(req *BulkRequest) map[string]string {
	details := make(map[string]string)
	if len(req.Requests) == 0 {
		details["requests"] = "required, at least 1 item"
		return details
	}
	if len(req.Requests) > s.maxRequests {
		details["requests"] = fmt.Sprintf("too many items, maximum %d", s.maxRequests)
		return details
	}
	for i := range req.Requests {
		if itemDetails := req.Requests[i].ValidateInput(); itemDetails != nil {
			for field, msg := range itemDetails {
				details[fmt.Sprintf("requests[%d].%s", i, field)] = msg
			}
		}
	}
	if len(details) == 0 {
		return nil
	}
	return details
}

// Generate 以固定批次大小依序處理，同批內併發；
// 單筆失敗只計入 failed，不中斷整批。
func (s *BulkService) Generate(ctx context.Context, req *BulkRequest) *BulkResult {
	jobID := uuid.NewString()
	common.LogInfo("批次生成開始",
		zap.String("job_id", jobID),
		zap.Int("requests", len(req.Requests)),
		zap.Int("batch_size", s.batchSize),
	)

	tracker := newProgressTracker(len(req.Requests))
	recipes := make([]*pipeline.ValidatedRecipe, len(req.Requests))
	itemErrs := make([]error, len(req.Requests))

	for start := 0; start < len(req.Requests); start += s.batchSize {
		end := start + s.batchSize
		if end > len(req.Requests) {
			end = len(req.Requests)
		}

		var wg conc.WaitGroup
		var mu sync.Mutex
		for i := start; i < end; i++ {
			i := i
			wg.Go(func() {
				recipe, err := s.generateService.Generate(ctx, &req.Requests[i])
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					itemErrs[i] = err
					tracker.markFailure()
					return
				}
				recipes[i] = recipe
				tracker.markSuccess()
			})
		}
		// 等待本批完成後才進入下一批
		wg.Wait()
	}

	total, succeeded, failed := tracker.snapshot()
	common.LogInfo("批次生成完成",
		zap.String("job_id", jobID),
		zap.Int64("total", total),
		zap.Int64("succeeded", succeeded),
		zap.Int64("failed", failed),
	)

	result := &BulkResult{
		Total:     int(total),
		Succeeded: int(succeeded),
		Failed:    int(failed),
		Recipes:   make([]*pipeline.ValidatedRecipe, 0, succeeded),
	}
	for i, r := range recipes {
		if r != nil {
			result.Recipes = append(result.Recipes, r)
			continue
		}
		result.Errors = append(result.Errors, BulkItemError{
			Index:   i,
			Message: itemErrs[i].Error(),
		})
	}
	return result
}
