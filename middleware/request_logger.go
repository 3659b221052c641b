package middleware

import (
	"log/slog"
	"time"

	"financas/logger"

	"github.com/gin-gonic/gin"
)

// RequestLogger 每个请求记录一行访问日志，并把 logger 放入请求 context
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	httpLog := log.WithComponent(logger.ComponentHTTP)
	return func(c *gin.Context) {
		start := time.Now()
		c.Request = c.Request.WithContext(logger.IntoContext(c.Request.Context(), httpLog))

		c.Next()

		status := c.Writer.Status()
		level := slog.LevelInfo
		switch {
		case status >= 500:
			level = slog.LevelError
		case status >= 400:
			level = slog.LevelWarn
		}
		args := []any{
			logger.FieldMethod, c.Request.Method,
			logger.FieldPath, c.FullPath(),
			logger.FieldStatus, status,
			logger.FieldDuration, time.Since(start).Milliseconds(),
			logger.FieldClientIP, c.ClientIP(),
		}
		if user := GetCurrentUserUUID(c); user != "" {
			args = append(args, logger.FieldUser, user)
		}
		if len(c.Errors) > 0 {
			args = append(args, logger.FieldError, c.Errors.String())
		}
		httpLog.Log(c.Request.Context(), level, "request", args...)
	}
}
