package recipe

import "sync/atomic"

// progressTracker 批次生成進度統計
type progressTracker struct {
	total     int64
	succeeded int64
	failed    int64
}

func newProgressTracker(total int) *progressTracker {
	return &progressTracker{total: int64(total)}
}

func (t *progressTracker) markSuccess() {
	atomic.AddInt64(&t.succeeded, 1)
}

func (t *progressTracker) markFailure() {
	atomic.AddInt64(&t.failed, 1)
}

// snapshot 回傳目前進度
func (t *progressTracker) snapshot() (total, succeeded, failed int64) {
	return atomic.LoadInt64(&t.total),
		atomic.LoadInt64(&t.succeeded),
		atomic.LoadInt64(&t.failed)
}
