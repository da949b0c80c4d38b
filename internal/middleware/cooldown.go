package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// ==================== CooldownLimiter 冷却限流器 ====================

// CooldownLimiter 同一 key 在冷却间隔内只允许执行一次
type CooldownLimiter struct {
	locks sync.Map // key -> *lockEntry
}

// lockEntry 锁条目
type lockEntry struct {
	lastTime time.Time
	mu       sync.Mutex
}

// NewCooldownLimiter 创建冷却限流器
func NewCooldownLimiter() *CooldownLimiter {
	return &CooldownLimiter{}
}

// CheckResult 检查结果
type CheckResult struct {
	Allowed    bool          // 是否允许
	RetryAfter time.Duration // 剩余冷却时间
}

// Check 检查是否允许执行，允许时记录本次执行时间
func (r *CooldownLimiter) Check(key string, interval time.Duration) CheckResult {
	actual, _ := r.locks.LoadOrStore(key, &lockEntry{})
	entry := actual.(*lockEntry)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(entry.lastTime)
	if elapsed < interval {
		return CheckResult{
			Allowed:    false,
			RetryAfter: interval - elapsed,
		}
	}

	entry.lastTime = now
	return CheckResult{Allowed: true}
}

// Reset 重置指定 key 的限流
func (r *CooldownLimiter) Reset(key string) {
	r.locks.Delete(key)
}

// ==================== Gin 中间件 ====================

// KeyFunc 从请求中提取限流 key
type KeyFunc func(c *gin.Context) string

// ClientIPKey 按客户端 IP 限流
func ClientIPKey(c *gin.Context) string {
	return c.ClientIP()
}

// Cooldown 冷却限流中间件
//
// 使用示例:
//
//	admin.POST("/employee/login",
//	    middleware.Cooldown(limiter, "login", time.Second, middleware.ClientIPKey),
//	    ctrl.Login,
//	)
func Cooldown(limiter *CooldownLimiter, scope string, interval time.Duration, keyFn KeyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := scope + ":" + keyFn(c)

		result := limiter.Check(key, interval)
		if !result.Allowed {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"code": 0,
				"msg":  formatRetryMessage(result.RetryAfter),
				"data": gin.H{
					"retryAfter": result.RetryAfter.Milliseconds(),
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
	seconds := int(d.Seconds())
	if seconds < 1 {
		return "操作过于频繁，请稍后重试"
	}
	if seconds < 60 {
		return fmt.Sprintf("操作过于频繁，请 %d 秒后重试", seconds)
	}
	return fmt.Sprintf("操作过于频繁，请 %d 分 %d 秒后重试", seconds/60, seconds%60)
}
