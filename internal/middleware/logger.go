package middleware

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"ticketpulse/pkg/logger"
)

// setupLogger -
func setupLogger(engine *gin.Engine, log *logger.Logger) {

	middlewareConfig := DefaultMiddlewareConfig()
	middlewareConfig.SkipPaths = append(middlewareConfig.SkipPaths, "/healthcheck/")
	engine.Use(LoggerMiddleware(log, middlewareConfig))
}

// MiddlewareConfig configures the logging middleware
type MiddlewareConfig struct {
	// Whether to log request bodies
	LogRequestBody bool
	// Whether to log response bodies
	LogResponseBody bool
	// Maximum size of bodies to log (in bytes)
	MaxBodySize int
	// Headers to exclude from logging (case-insensitive)
	ExcludedHeaders []string
	// Paths to skip logging (exact match)
	SkipPaths []string
	// Whether to log only errors (4xx, 5xx status codes)
	ErrorsOnly bool
}

// DefaultMiddlewareConfig returns a default configuration
func DefaultMiddlewareConfig() MiddlewareConfig {
	return MiddlewareConfig{
		LogRequestBody:  true,
		LogResponseBody: false,
		MaxBodySize:     2048,
		ExcludedHeaders: []string{
			"authorization",
			"cookie",
			"set-cookie",
			"x-api-key",
		},
		SkipPaths: []string{
			"/healthcheck",
		},
		ErrorsOnly: false,
	}
}

// responseBodyWriter wraps gin.ResponseWriter to capture response body
type responseBodyWriter struct {
	gin.ResponseWriter
	body  *bytes.Buffer
	limit int
}

func (w *responseBodyWriter) Write(data []byte) (int, error) {
	if room := w.limit - w.body.Len(); room > 0 {
		if len(data) < room {
			room = len(data)
		}
		w.body.Write(data[:room])
	}
	return w.ResponseWriter.Write(data)
}

// LoggerMiddleware creates a Gin middleware that logs every request with its
// HTTP context and duration
func LoggerMiddleware(log *logger.Logger, config ...MiddlewareConfig) gin.HandlerFunc {
	cfg := DefaultMiddlewareConfig()
	if len(config) > 0 {
		cfg = config[0]
	}

	excludedHeaders := make(map[string]bool)
	for _, header := range cfg.ExcludedHeaders {
		excludedHeaders[strings.ToLower(header)] = true
	}

	skipPaths := make(map[string]bool)
	for _, path := range cfg.SkipPaths {
		skipPaths[path] = true
	}

	return func(c *gin.Context) {
		if skipPaths[c.Request.URL.Path] {
			c.Next()
			return
		}

		start := time.Now()

		var requestBody string
		if cfg.LogRequestBody && c.Request.Body != nil {
			bodyBytes, err := io.ReadAll(c.Request.Body)
			if err == nil {
				c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

				if len(bodyBytes) <= cfg.MaxBodySize {
					requestBody = string(bodyBytes)
				} else {
					requestBody = "[BODY TOO LARGE]"
				}
			}
		}

		var responseBodyBuf *bytes.Buffer
		if cfg.LogResponseBody {
			responseBodyBuf = bytes.NewBuffer(make([]byte, 0, cfg.MaxBodySize))
			c.Writer = &responseBodyWriter{
				ResponseWriter: c.Writer,
				body:           responseBodyBuf,
				limit:          cfg.MaxBodySize,
			}
		}

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		if cfg.ErrorsOnly && statusCode < 400 {
			return
		}

		headers := make(map[string]string)
		for name, values := range c.Request.Header {
			if !excludedHeaders[strings.ToLower(name)] && len(values) > 0 {
				headers[name] = values[0]
			}
		}

		httpCtx := &logger.HTTPContext{
			Method:       c.Request.Method,
			Path:         c.Request.URL.Path,
			Query:        c.Request.URL.RawQuery,
			UserAgent:    c.Request.UserAgent(),
			RemoteIP:     c.ClientIP(),
			Headers:      headers,
			StatusCode:   statusCode,
			ResponseSize: int64(c.Writer.Size()),
			RequestID:    GetRequestID(c),
			RequestBody:  requestBody,
		}
		if responseBodyBuf != nil {
			httpCtx.ResponseBody = responseBodyBuf.String()
		}

		level := logger.LevelInfo
		message := "HTTP Request"
		switch {
		case statusCode >= 500:
			level, message = logger.LevelError, "HTTP Server Error"
		case statusCode >= 400:
			level, message = logger.LevelWarn, "HTTP Client Error"
		case statusCode >= 300:
			message = "HTTP Redirect"
		}

		fields := map[string]interface{}{
			"component": "http_middleware",
		}
		if customFields, exists := c.Get("log_fields"); exists {
			if fieldMap, ok := customFields.(map[string]interface{}); ok {
				for k, v := range fieldMap {
					fields[k] = v
				}
			}
		}

		lc := logger.LogContext{
			HTTP: httpCtx,
			Performance: &logger.PerformanceContext{
				Duration:   duration,
				DurationMs: float64(duration.Microseconds()) / 1000,
			},
			Fields: fields,
		}
		if len(c.Errors) > 0 {
			lc.Error = &logger.ErrorContext{Type: "handler", Message: c.Errors.String()}
		}

		log.WithContext(level, fmt.Sprintf("%s - %s %s %d", message, c.Request.Method, c.Request.URL.Path, statusCode), lc)
	}
}

// AddLogFields adds custom fields to be included in logs
func AddLogFields(c *gin.Context, fields map[string]interface{}) {
	existing, exists := c.Get("log_fields")
	if !exists {
		c.Set("log_fields", fields)
		return
	}

	if existingMap, ok := existing.(map[string]interface{}); ok {
		for k, v := range fields {
			existingMap[k] = v
		}
		c.Set("log_fields", existingMap)
	} else {
		c.Set("log_fields", fields)
	}
}
