package devserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/five82/nutmunch/internal/storefront"
)

const (
	requestIDHeader = "X-Request-ID"
	sessionKey      = "session"
)

type errorBody struct {
	Detail string `json:"detail"`
}

func abort(c *gin.Context, status int, detail string) {
	c.AbortWithStatusJSON(status, errorBody{Detail: detail})
}

// requestID tags every request so log lines from one call can be joined.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDHeader, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// requestLogger logs one line per request, at a level chosen by status.
func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("request_id", c.GetString(requestIDHeader)),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
		}
		if query != "" {
			fields = append(fields, zap.String("query", query))
		}
		if session := c.GetString(sessionKey); session != "" {
			fields = append(fields, zap.String("session", session))
		}

		switch {
		case status >= 500:
			log.Error("http request", fields...)
		case status >= 400:
			log.Warn("http request", fields...)
		default:
			log.Info("http request", fields...)
		}
	}
}

// recovery turns a handler panic into a logged 500.
func recovery(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error("panic recovered",
					zap.String("request_id", c.GetString(requestIDHeader)),
					zap.String("path", c.Request.URL.Path),
					zap.Any("error", err),
					zap.Stack("stacktrace"),
				)
				abort(c, http.StatusInternalServerError, "internal error")
			}
		}()
		c.Next()
	}
}

// requireSession reads the session from the cookie, falling back to the header.
func requireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := c.Cookie(storefront.SessionCookie)
		if err != nil || strings.TrimSpace(session) == "" {
			session = c.GetHeader(storefront.SessionHeader)
		}
		session = strings.TrimSpace(session)
		if session == "" {
			abort(c, http.StatusBadRequest, "session required")
			return
		}
		c.Set(sessionKey, session)
		c.Next()
	}
}
