package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ginrus logs every request of a route group through logrus.
func ginrus(name string) gin.HandlerFunc {
	entry := logrus.WithField("prefix", name)
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		c.Next()

		fields := logrus.Fields{
			"status":  c.Writer.Status(),
			"method":  c.Request.Method,
			"path":    path,
			"ip":      c.ClientIP(),
			"latency": time.Since(start),
		}
		if len(c.Errors) > 0 {
			entry.WithFields(fields).Error(c.Errors.String())
			return
		}
		entry.WithFields(fields).Info()
	}
}
