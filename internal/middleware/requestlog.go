package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/axiroad/roadworks-backend/internal/pkg/logger"
)

type RequestLog struct {
	log *logger.Logger
}

func NewRequestLog(baseLog *logger.Logger) *RequestLog {
	return &RequestLog{log: baseLog.With("middleware", "RequestLog")}
}

// Handler logs one line per request after completion. Health checks are
// skipped to keep probe noise out of the logs.
func (m *RequestLog) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.FullPath() == "/healthcheck" {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		fields := []interface{}{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "errors", c.Errors.String())
		}
		if c.Writer.Status() >= 500 {
			m.log.Error("Request failed", fields...)
			return
		}
		m.log.Info("Request handled", fields...)
	}
}
