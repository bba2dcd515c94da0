package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	awspkg "github.com/puneetkushwaha/Mom-sKitchen-Backend/pkg/aws"
)

// HTTPMetrics is the subset of the CloudWatch metrics client the middleware
// needs.
type HTTPMetrics interface {
	IsEnabled() bool
	RecordCount(ctx context.Context, metricName string, dimensions map[string]string) error
	RecordLatency(ctx context.Context, metricName string, duration time.Duration, dimensions map[string]string) error
}

const metricsTimeout = 5 * time.Second

// Metrics records request count, latency and error counts per route.
// Recording happens off the request path; record is the goroutine launcher.
func Metrics(client HTTPMetrics, serviceName string) gin.HandlerFunc {
	return metrics(client, serviceName, func(f func()) { go f() })
}

func metrics(client HTTPMetrics, serviceName string, record func(func())) gin.HandlerFunc {
	return func(c *gin.Context) {
		if client == nil || !client.IsEnabled() {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		duration := time.Since(start)
		status := c.Writer.Status()

		// FullPath keeps path params out of metric dimensions.
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		dims := map[string]string{
			"Service": serviceName,
			"Method":  c.Request.Method,
			"Path":    path,
			"Status":  statusCodeToRange(status),
		}

		record(func() {
			ctx, cancel := context.WithTimeout(context.Background(), metricsTimeout)
			defer cancel()

			_ = client.RecordCount(ctx, awspkg.MetricHTTPRequests, dims)
			_ = client.RecordLatency(ctx, awspkg.MetricHTTPLatency, duration, dims)
			if status >= 400 {
				_ = client.RecordCount(ctx, awspkg.MetricHTTPErrors, dims)
				if status >= 500 {
					_ = client.RecordCount(ctx, awspkg.MetricHTTP5xx, dims)
				} else {
					_ = client.RecordCount(ctx, awspkg.MetricHTTP4xx, dims)
				}
			}
		})
	}
}

func statusCodeToRange(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return "2xx"
	case statusCode >= 300 && statusCode < 400:
		return "3xx"
	case statusCode >= 400 && statusCode < 500:
		return "4xx"
	case statusCode >= 500:
		return "5xx"
	default:
		return "unknown"
	}
}
