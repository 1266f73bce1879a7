package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"recipe-hub/internal/infrastructure/config"
	"recipe-hub/internal/pkg/common"

	"go.uber.org/zap"
)

// Store 快取後端介面：redis 或程序內記憶體
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

// CacheManager 模型回應快取：以 prompt 雜湊為鍵
type CacheManager struct {
	store Store
}

// NewManager 創建新的緩存管理器。快取停用時回傳 nil。
func NewManager(cfg *config.Config) *CacheManager {
	if !cfg.Cache.Enabled {
		common.LogInfo("Cache disabled")
		return nil
	}

	var store Store
	if cfg.Cache.RedisAddr != "" {
		redisStore, err := newRedisStore(cfg)
		if err != nil {
			// redis 連不上時退回記憶體快取，不阻擋服務啟動
			common.LogWarn("Redis 連線失敗，改用記憶體快取",
				zap.String("redis_addr", cfg.Cache.RedisAddr),
				zap.Error(err),
			)
			store = newMemoryStore(cfg)
		} else {
			store = redisStore
		}
	} else {
		store = newMemoryStore(cfg)
	}

	common.LogInfo("快取管理員已初始化",
		zap.Int("最大容量", cfg.Cache.MaxSize),
		zap.Duration("存活時間", cfg.Cache.TTL),
		zap.Bool("redis", cfg.Cache.RedisAddr != ""),
	)

	return &CacheManager{store: store}
}

// Get 獲取快取的模型回應
func (m *CacheManager) Get(ctx context.Context, prompt string) (string, error) {
	if m == nil {
		return "", common.ErrCacheDisabled
	}
	value, err := m.store.Get(ctx, hashKey(prompt))
	if err != nil {
		common.LogInfo("快取未命中")
		return "", err
	}
	common.LogInfo("快取命中")
	return value, nil
}

// Set 寫入模型回應
func (m *CacheManager) Set(ctx context.Context, prompt, value string) error {
	if m == nil {
		return nil
	}
	return m.store.Set(ctx, hashKey(prompt), value)
}

// Close 關閉緩存管理器
func (m *CacheManager) Close() error {
	if m == nil {
		return nil
	}
	return m.store.Close()
}

// hashKey 以 SHA-256 產生快取鍵
func hashKey(prompt string) string {
	hash := sha256.Sum256([]byte(prompt))
	return fmt.Sprintf("completion:%s", hex.EncodeToString(hash[:]))
}

// --- 記憶體後端 ---

// memoryStore 程序內 TTL + LRU 快取
type memoryStore struct {
	config *config.Config
	mu     sync.RWMutex
	store  map[string]cacheEntry
	stats  cacheStats
	done   chan struct{}
}

// cacheEntry 緩存條目
type cacheEntry struct {
	value       string
	expiresAt   time.Time
	createdAt   time.Time
	lastAccess  time.Time
	accessCount int
}

// cacheStats 緩存統計
type cacheStats struct {
	hits      int64
	misses    int64
	evictions int64
	errors    int64
}

func newMemoryStore(cfg *config.Config) *memoryStore {
	s := &memoryStore{
		config: cfg,
		store:  make(map[string]cacheEntry),
		done:   make(chan struct{}),
	}

	// 啟動清理過期緩存的協程
	go s.startCleanup()

	return s
}

func (s *memoryStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, exists := s.store[key]
	if !exists {
		s.stats.misses++
		return "", common.ErrCacheMiss
	}

	// 檢查是否過期
	if time.Now().After(entry.expiresAt) {
		delete(s.store, key)
		s.stats.evictions++
		s.stats.misses++
		return "", common.ErrCacheMiss
	}

	// 更新訪問統計
	entry.lastAccess = time.Now()
	entry.accessCount++
	s.store[key] = entry
	s.stats.hits++

	return entry.value, nil
}

func (s *memoryStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// 檢查緩存大小
	if len(s.store) >= s.config.Cache.MaxSize {
		evicted := s.cleanup()
		common.LogInfo("快取清理執行",
			zap.Int("清理數量", evicted),
		)

		// 如果仍然超過大小限制，執行 LRU 清理
		if len(s.store) >= s.config.Cache.MaxSize {
			s.evictLRU()
		}

		// 如果仍然超過大小限制，返回錯誤
		if len(s.store) >= s.config.Cache.MaxSize {
			s.stats.errors++
			common.LogWarn("快取已滿",
				zap.Int("目前容量", len(s.store)),
			)
			return common.ErrCacheFull
		}
	}

	now := time.Now()
	s.store[key] = cacheEntry{
		value:      value,
		expiresAt:  now.Add(s.config.Cache.TTL),
		createdAt:  now,
		lastAccess: now,
	}

	return nil
}

// startCleanup 啟動清理過期緩存的協程
func (s *memoryStore) startCleanup() {
	ticker := time.NewTicker(s.config.Cache.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.mu.Lock()
			s.cleanup()
			s.mu.Unlock()
		case <-s.done:
			return
		}
	}
}

// cleanup 清理過期的緩存；呼叫端需持有鎖
func (s *memoryStore) cleanup() int {
	now := time.Now()
	count := 0

	for key, entry := range s.store {
		if now.After(entry.expiresAt) {
			delete(s.store, key)
			count++
			s.stats.evictions++
		}
	}

	return count
}

// evictLRU 執行 LRU 清理；呼叫端需持有鎖
func (s *memoryStore) evictLRU() {
	var oldestKey string
	var oldestAccess time.Time
	var lowestAccessCount int

	// 找到最少訪問的項目
	for key, entry := range s.store {
		if oldestKey == "" ||
			entry.accessCount < lowestAccessCount ||
			(entry.accessCount == lowestAccessCount && entry.lastAccess.Before(oldestAccess)) {
			oldestKey = key
			oldestAccess = entry.lastAccess
			lowestAccessCount = entry.accessCount
		}
	}

	if oldestKey != "" {
		delete(s.store, oldestKey)
		s.stats.evictions++
		common.LogInfo("快取已淘汰(LRU)")
	}
}

func (s *memoryStore) Close() error {
	close(s.done)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.store = make(map[string]cacheEntry)
	common.LogInfo("快取管理員已關閉",
		zap.Int64("命中次數", s.stats.hits),
		zap.Int64("未命中次數", s.stats.misses),
		zap.Int64("淘汰次數", s.stats.evictions),
	)
	return nil
}
