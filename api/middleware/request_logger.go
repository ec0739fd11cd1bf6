package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/dujoseaugusto/land-data-scraper/internal/logger"
	"github.com/gin-gonic/gin"
)

// RequestLogger writes one structured entry per request
func RequestLogger() gin.HandlerFunc {
	log := logger.NewLogger("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := log.WithFields(map[string]interface{}{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      c.Writer.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
			"client_ip":   c.ClientIP(),
		})

		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			entry.Warn("Request failed")
		case c.Writer.Status() >= http.StatusBadRequest:
			entry.Info("Request rejected")
		default:
			entry.Debug("Request served")
		}
	}
}

// Recovery turns panics into 500 {error} responses
func Recovery() gin.HandlerFunc {
	log := logger.NewLogger("http")
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		err := fmt.Errorf("%v", recovered)
		log.WithField("path", c.Request.URL.Path).Error("Recovered from panic", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	})
}
