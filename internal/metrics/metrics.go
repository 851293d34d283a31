// Package metrics 定义 Prometheus 指标，/metrics 暴露
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// VotesTotal 已提交的投票，action: new / switch / undo
	VotesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "modelboard_votes_total",
			Help: "Total number of committed votes",
		},
		[]string{"direction", "action"},
	)

	// VoteFailures 投票失败（存储错误），不含参数/不存在错误
	VoteFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "modelboard_vote_failures_total",
			Help: "Total number of votes rolled back because of storage errors",
		},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "modelboard_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "modelboard_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5},
		},
		[]string{"method", "route"},
	)
)

// Middleware 记录请求数和耗时，route 取 gin 路由模板避免高基数
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		HTTPRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		HTTPRequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler /metrics
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
