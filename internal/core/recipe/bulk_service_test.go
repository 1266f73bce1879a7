package recipe

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	aiservice "recipe-hub/internal/core/ai/service"
	"recipe-hub/internal/infrastructure/config"
)

// switchingClient 依 prompt 內容決定成功或失敗，並記錄併發峰值
type switchingClient struct {
	mu          sync.Mutex
	inFlight    int
	maxInFlight int
	failMarker  string
}

func (c *switchingClient) ProcessRequest(ctx context.Context, prompt string) (*aiservice.Response, error) {
	c.mu.Lock()
	c.inFlight++
	if c.inFlight > c.maxInFlight {
		c.maxInFlight = c.inFlight
	}
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.inFlight--
		c.mu.Unlock()
	}()

	if c.failMarker != "" && strings.Contains(prompt, c.failMarker) {
		return nil, fmt.Errorf("simulated model failure")
	}
	return &aiservice.Response{Content: `{
		"title": "Generated",
		"ingredients": [{"name": "x", "amount": 1, "unit": "g"}],
		"instructions": ["Cook."]
	}`}, nil
}

func bulkConfig(batchSize, maxRequests int) *config.Config {
	return &config.Config{
		Bulk: config.BulkConfig{BatchSize: batchSize, MaxRequests: maxRequests},
	}
}

func TestBulkGenerateAllSucceed(t *testing.T) {
	client := &switchingClient{}
	svc := NewBulkService(NewGenerateService(client), bulkConfig(2, 10))

	req := &BulkRequest{Requests: []GenerateRequest{
		{Ingredients: "tomatoes"},
		{Ingredients: "potatoes"},
		{Ingredients: "carrots"},
	}}

	result := svc.Generate(context.Background(), req)
	if result.Total != 3 || result.Succeeded != 3 || result.Failed != 0 {
		t.Errorf("counts = %d/%d/%d, want 3/3/0", result.Total, result.Succeeded, result.Failed)
	}
	if len(result.Recipes) != 3 {
		t.Errorf("recipes = %d, want 3", len(result.Recipes))
	}
	if len(result.Errors) != 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
}

func TestBulkGeneratePartialFailure(t *testing.T) {
	client := &switchingClient{failMarker: "poisoned"}
	svc := NewBulkService(NewGenerateService(client), bulkConfig(2, 10))

	req := &BulkRequest{Requests: []GenerateRequest{
		{Ingredients: "tomatoes"},
		{Ingredients: "poisoned mushrooms"},
		{Ingredients: "carrots"},
	}}

	result := svc.Generate(context.Background(), req)
	if result.Succeeded != 2 || result.Failed != 1 {
		t.Errorf("counts = %d/%d, want 2 succeeded 1 failed", result.Succeeded, result.Failed)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("errors = %v, want exactly one", result.Errors)
	}
	if result.Errors[0].Index != 1 {
		t.Errorf("failed index = %d, want 1", result.Errors[0].Index)
	}
	if len(result.Recipes) != 2 {
		t.Errorf("recipes = %d, want 2", len(result.Recipes))
	}
}

func TestBulkGenerateRespectsBatchSize(t *testing.T) {
	client := &switchingClient{}
	svc := NewBulkService(NewGenerateService(client), bulkConfig(2, 10))

	req := &BulkRequest{Requests: []GenerateRequest{
		{Ingredients: "aaa"}, {Ingredients: "bbb"},
		{Ingredients: "ccc"}, {Ingredients: "ddd"},
		{Ingredients: "eee"},
	}}

	svc.Generate(context.Background(), req)
	if client.maxInFlight > 2 {
		t.Errorf("max in-flight = %d, batch size 2 must bound concurrency", client.maxInFlight)
	}
}

func TestBulkValidateInput(t *testing.T) {
	svc := NewBulkService(NewGenerateService(&switchingClient{}), bulkConfig(2, 3))

	t.Run("空批次", func(t *testing.T) {
		details := svc.ValidateInput(&BulkRequest{})
		if details == nil {
			t.Fatal("expected validation details")
		}
		if _, ok := details["requests"]; !ok {
			t.Errorf("details = %v", details)
		}
	})

	t.Run("超過上限", func(t *testing.T) {
		req := &BulkRequest{Requests: make([]GenerateRequest, 4)}
		for i := range req.Requests {
			req.Requests[i].Ingredients = "tomatoes"
		}
		if details := svc.ValidateInput(req); details == nil {
			t.Error("expected validation details for oversized batch")
		}
	})

	t.Run("單筆無效拒絕整批", func(t *testing.T) {
		req := &BulkRequest{Requests: []GenerateRequest{
			{Ingredients: "tomatoes"},
			{Ingredients: ""},
		}}
		details := svc.ValidateInput(req)
		if details == nil {
			t.Fatal("expected validation details")
		}
		if _, ok := details["requests[1].ingredients"]; !ok {
			t.Errorf("details should name the offending item: %v", details)
		}
	})

	t.Run("全部有效", func(t *testing.T) {
		req := &BulkRequest{Requests: []GenerateRequest{
			{Ingredients: "tomatoes"},
			{Ingredients: "potatoes"},
		}}
		if details := svc.ValidateInput(req); details != nil {
			t.Errorf("unexpected details: %v", details)
		}
	})
}
