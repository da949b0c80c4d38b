package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCooldownLimiter(t *testing.T) {
	limiter := NewCooldownLimiter()

	assert.True(t, limiter.Check("a", time.Hour).Allowed)

	second := limiter.Check("a", time.Hour)
	assert.False(t, second.Allowed)
	assert.Greater(t, second.RetryAfter, 59*time.Minute)

	assert.True(t, limiter.Check("b", time.Hour).Allowed, "不同 key 互不影响")

	limiter.Reset("a")
	assert.True(t, limiter.Check("a", time.Hour).Allowed)
}

func TestCooldown(t *testing.T) {
	gin.SetMode(gin.TestMode)

	limiter := NewCooldownLimiter()
	r := gin.New()
	r.POST("/login", Cooldown(limiter, "login", time.Minute, ClientIPKey), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, send().Code)

	w := send()
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	var body struct {
		Code int    `json:"code"`
		Msg  string `json:"msg"`
		Data struct {
			RetryAfter int64 `json:"retryAfter"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 0, body.Code)
	assert.Positive(t, body.Data.RetryAfter)
	assert.Contains(t, body.Msg, "秒后重试")

	limiter.Reset("login:10.0.0.1")
	assert.Equal(t, http.StatusOK, send().Code)
}

func TestFormatRetryMessage(t *testing.T) {
	assert.Equal(t, "操作过于频繁，请稍后重试", formatRetryMessage(500*time.Millisecond))
	assert.Equal(t, "操作过于频繁，请 5 秒后重试", formatRetryMessage(5*time.Second))
	assert.Equal(t, "操作过于频繁，请 2 分 5 秒后重试", formatRetryMessage(125*time.Second))
}
