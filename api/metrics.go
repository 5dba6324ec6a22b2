package api

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// requestMetrics counts requests and records their latency per route and status.
func (s *Server) requestMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := s.clock()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		scope := s.scope.Tagged(map[string]string{
			"route":  route,
			"status": strconv.Itoa(c.Writer.Status()),
		})
		scope.Counter("requests").Inc(1)
		scope.Timer("request_duration").Record(s.clock().Sub(start))
	}
}
