package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"traveler-classifier/internal/common/logger"
	"traveler-classifier/internal/common/metrics"
)

func requestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		metrics.HTTPRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()

		fields := map[string]interface{}{
			"method":    c.Request.Method,
			"route":     route,
			"status":    status,
			"latencyMs": time.Since(start).Milliseconds(),
		}
		if status >= http.StatusInternalServerError {
			log.Error("request failed", fields)
			return
		}
		log.Debug("request served", fields)
	}
}

// jsonContentType rejects bodies that are not JSON.
func jsonContentType() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodPost {
			contentType := c.ContentType()
			if contentType != "" && contentType != gin.MIMEJSON {
				c.AbortWithStatusJSON(http.StatusUnsupportedMediaType, gin.H{
					"error": gin.H{
						"code":    "UNSUPPORTED_MEDIA_TYPE",
						"message": "Content-Type must be application/json",
					},
				})
				return
			}
		}
		c.Next()
	}
}
