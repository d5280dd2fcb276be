package middleware

import (
	"bytes"
	"io"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xyz-asif/todospa/internal/pkg/logger"
)

// Logger configuration
type LoggerConfig struct {
	LogRequestBody bool
	MaxBodySize    int64 // Max body size to log (in bytes)
	SkipPaths      []string
}

func DefaultLoggerConfig() LoggerConfig {
	return LoggerConfig{
		LogRequestBody: true,
		MaxBodySize:    2048,
		SkipPaths:      []string{"/api/health"},
	}
}

func Logger(log *logger.Logger) gin.HandlerFunc {
	return LoggerWithConfig(log, DefaultLoggerConfig())
}

// LoggerWithConfig writes one entry per request. Bodies of error responses
// are attached so a 4xx/5xx can be read without reproducing it.
func LoggerWithConfig(log *logger.Logger, config LoggerConfig) gin.HandlerFunc {
	skip := make(map[string]bool, len(config.SkipPaths))
	for _, p := range config.SkipPaths {
		skip[p] = true
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if skip[path] {
			c.Next()
			return
		}

		start := time.Now()

		var requestBody string
		if config.LogRequestBody && c.Request.Body != nil && c.Request.ContentLength > 0 {
			if c.Request.ContentLength > config.MaxBodySize {
				requestBody = "[Request body too large to log]"
			} else {
				bodyBytes, err := io.ReadAll(io.LimitReader(c.Request.Body, config.MaxBodySize))
				if err == nil {
					c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
					requestBody = truncateString(string(bodyBytes), 200)
				}
			}
		}

		writer := &limitedResponseWriter{
			ResponseWriter: c.Writer,
			maxSize:        config.MaxBodySize,
		}
		c.Writer = writer

		c.Next()

		status := writer.Status()
		fields := logger.Fields{
			"method":    c.Request.Method,
			"path":      path,
			"status":    status,
			"latency":   time.Since(start).String(),
			"size":      writer.Size(),
			"ip":        c.ClientIP(),
			"requestId": c.GetString(RequestIDKey),
		}
		if q := c.Request.URL.RawQuery; q != "" {
			fields["query"] = truncateString(q, 100)
		}
		if requestBody != "" {
			fields["body"] = requestBody
		}
		if status >= 400 && writer.body.Len() > 0 {
			fields["response"] = truncateString(strings.TrimSpace(writer.body.String()), 200)
		}

		entry := log.WithFields(fields)
		switch {
		case status >= 500:
			entry.Error("%s %s", c.Request.Method, path)
		case status >= 400:
			entry.Warn("%s %s", c.Request.Method, path)
		default:
			entry.Info("%s %s", c.Request.Method, path)
		}
	}
}

// Size-limited response writer - prevents memory issues
type limitedResponseWriter struct {
	gin.ResponseWriter
	body    bytes.Buffer
	maxSize int64
}

func (w *limitedResponseWriter) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)

	if int64(w.body.Len()+n) <= w.maxSize {
		w.body.Write(b[:n])
	}

	return n, err
}

func (w *limitedResponseWriter) WriteString(s string) (int, error) {
	return w.Write([]byte(s))
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
