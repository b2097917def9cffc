package metrics

import (
	"github.com/gin-gonic/gin"
)

// GinMiddleware records request and error counts.
func GinMiddleware(m *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		status := c.Writer.Status()
		m.IncRequests(c.Request.Method, status)
		if status >= 400 {
			m.IncErrors()
		}
	}
}
