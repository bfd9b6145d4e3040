package middleware

import (
	"fmt"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"carousel_studio_v1/internal/metrics"
)

// ==================== ClientRateLimiter 客户端限流器 ====================

// ClientRateLimiter 按客户端维度的令牌桶
// 防止单个客户端频繁触发模型调用
type ClientRateLimiter struct {
	clients sync.Map // key -> *clientEntry
	limit   rate.Limit
	burst   int
}

// clientEntry 限流条目
type clientEntry struct {
	mu       sync.Mutex
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewClientRateLimiter rps: 每秒补充令牌数，<= 0 表示不限流; burst: 桶容量
func NewClientRateLimiter(rps float64, burst int) *ClientRateLimiter {
	if burst <= 0 {
		burst = 1
	}
	limit := rate.Limit(rps)
	if rps <= 0 {
		limit = rate.Inf
	}
	return &ClientRateLimiter{
		limit: limit,
		burst: burst,
	}
}

// ==================== 限流检查 ====================

// CheckResult 检查结果
type CheckResult struct {
	Allowed    bool          // 是否允许
	RetryAfter time.Duration // 剩余冷却时间
}

// Check 取一个令牌；不足时返回需要等待的时间，不消耗令牌
func (l *ClientRateLimiter) Check(key string) CheckResult {
	actual, _ := l.clients.LoadOrStore(key, &clientEntry{
		limiter: rate.NewLimiter(l.limit, l.burst),
	})
	entry := actual.(*clientEntry)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	now := time.Now()
	entry.lastSeen = now

	r := entry.limiter.ReserveN(now, 1)
	if !r.OK() {
		return CheckResult{Allowed: false, RetryAfter: time.Minute}
	}
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return CheckResult{Allowed: false, RetryAfter: delay}
	}

	return CheckResult{Allowed: true}
}

// Reset 重置指定客户端
func (l *ClientRateLimiter) Reset(key string) {
	l.clients.Delete(key)
}

// Cleanup 清理超过 idle 未访问的客户端，返回清理数量
func (l *ClientRateLimiter) Cleanup(idle time.Duration) int {
	cutoff := time.Now().Add(-idle)
	removed := 0

	l.clients.Range(func(key, value any) bool {
		entry := value.(*clientEntry)
		entry.mu.Lock()
		stale := entry.lastSeen.Before(cutoff)
		entry.mu.Unlock()

		if stale {
			l.clients.Delete(key)
			removed++
		}
		return true
	})

	return removed
}

// ==================== Gin 中间件 ====================

// GenerateRateLimit 生成接口限流中间件，按客户端 IP 限流
//
// 使用示例:
//
//	api.POST("/carousel/text",
//	    middleware.GenerateRateLimit(limiter, m),
//	    ctl.GenerateText,
//	)
func GenerateRateLimit(limiter *ClientRateLimiter, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		result := limiter.Check(c.ClientIP())
		if !result.Allowed {
			if m != nil {
				m.IncRateLimited()
			}

			retryAfter := int(math.Ceil(result.RetryAfter.Seconds()))
			c.Header("Retry-After", fmt.Sprintf("%d", retryAfter))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"code":    http.StatusTooManyRequests,
				"message": formatRetryMessage(result.RetryAfter),
				"data": gin.H{
					"retry_after": retryAfter,
				},
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// ==================== 辅助函数 ====================

// formatRetryMessage 格式化重试提示信息
func formatRetryMessage(d time.Duration) string {
	seconds := int(math.Ceil(d.Seconds()))

	if seconds < 60 {
		return fmt.Sprintf("Too many requests, please retry in %d seconds.", seconds)
	}

	minutes := seconds / 60
	remainingSeconds := seconds % 60

	if remainingSeconds == 0 {
		return fmt.Sprintf("Too many requests, please retry in %d minutes.", minutes)
	}

	return fmt.Sprintf("Too many requests, please retry in %d min %d s.", minutes, remainingSeconds)
}
