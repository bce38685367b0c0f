package middleware

import (
	"time"

	"github.com/camdash/camdash/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	RequestIdHeader = "X-Request-Id"
	RequestIdKey    = "request_id"
)

// RequestLogger tags each request with an id and logs one access line after
// the handler chain has run. A well-formed X-Request-Id from the client is kept.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		id := c.GetHeader(RequestIdHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set(RequestIdKey, id)
		c.Header(RequestIdHeader, id)

		c.Next()

		status := c.Writer.Status()
		line := "%s %s %s %d %s %s"
		args := []any{id, c.Request.Method, c.Request.URL.Path, status, time.Since(start), c.ClientIP()}
		switch {
		case status >= 500:
			logger.Errorf(line, args...)
		case status >= 400:
			logger.Warningf(line, args...)
		default:
			logger.Debugf(line, args...)
		}
	}
}
