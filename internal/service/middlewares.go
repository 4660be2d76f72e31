package service

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// loggingMiddleware writes one log line per request.
func loggingMiddleware(logg *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []interface{}{
			"method", c.Request.Method,
			"uri", c.Request.RequestURI,
			"status", status,
			"duration", time.Since(start),
		}
		if status >= http.StatusInternalServerError {
			logg.Errorw("request", fields...)
		} else {
			logg.Infow("request", fields...)
		}
	}
}

// corsMiddleware lets browser front ends on other origins call the API and read the total count.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Expose-Headers", TotalCountHeader)
		c.Next()
	}
}

// preflight answers CORS preflight requests.
func preflight(c *gin.Context) {
	c.Header("Access-Control-Allow-Methods", "GET, PATCH, OPTIONS")
	c.Header("Access-Control-Allow-Headers", "Content-Type")
	c.Status(http.StatusNoContent)
}
