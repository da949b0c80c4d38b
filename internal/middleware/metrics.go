package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ==================== Prometheus 指标 ====================

var (
	// httpRequestDuration 请求耗时
	// Labels: method, route (gin 路由模板), status
	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "sky_takeout",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "route", "status"})

	// catalogRejections 业务规则拒绝次数
	// Labels: kind (sale_conflict, referential_conflict, not_found, validation)
	catalogRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sky_takeout",
		Subsystem: "catalog",
		Name:      "rejections_total",
		Help:      "Total catalog operations rejected by business rules",
	}, []string{"kind"})
)

// Metrics 请求指标中间件
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

// ObserveRejection 记录一次业务拒绝
func ObserveRejection(kind string) {
	catalogRejections.WithLabelValues(kind).Inc()
}
