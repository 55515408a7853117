package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mateuschrist/taxdeed-api/internal/metrics"
)

// AccessLog writes one entry per request and feeds the latency histogram.
// Writes to /api/ are logged at info or above; reads only at debug.
func AccessLog(logger *zap.Logger, m *metrics.Metrics) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		dur := time.Since(start)
		status := c.Writer.Status()
		method := strings.ToUpper(c.Request.Method)
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveHTTP(method, route, status, dur)

		level := levelFromStatus(status)
		if level == zapcore.InfoLevel && !isWrite(method, c.Request.URL.Path) {
			level = zapcore.DebugLevel
		}
		if ce := logger.Check(level, "http request"); ce != nil {
			ce.Write(
				zap.String("request_id", RequestIDFromContext(c.Request.Context())),
				zap.String("method", method),
				zap.String("path", c.Request.URL.Path),
				zap.Int("status", status),
				zap.Duration("duration", dur),
				zap.String("client_ip", c.ClientIP()),
				zap.Int("bytes", c.Writer.Size()),
			)
		}
	}
}

func isWrite(method, path string) bool {
	if !strings.HasPrefix(path, "/api/") {
		return false
	}
	return method != http.MethodGet && method != http.MethodHead && method != http.MethodOptions
}

func levelFromStatus(status int) zapcore.Level {
	if status >= 500 {
		return zapcore.ErrorLevel
	}
	if status >= 400 {
		return zapcore.WarnLevel
	}
	return zapcore.InfoLevel
}
