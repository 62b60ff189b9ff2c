package observability

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const metricsPath = "/metrics"

// ObserveRequests counts every request to the bridge's endpoint and logs it
// with the number of agents the endpoint reports on. Scrapes of /metrics
// log at trace; failures raise the level.
func ObserveRequests(logger zerolog.Logger, server string, agents int) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		status := c.Writer.Status()
		RecordHTTPRequest(server, c.Request.Method, path, status)

		var event *zerolog.Event
		switch {
		case status >= 500:
			event = logger.Error()
		case status >= 400:
			event = logger.Warn()
		case path == metricsPath:
			event = logger.Trace()
		default:
			event = logger.Debug()
		}
		event.
			Str("server", server).
			Int("agents", agents).
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", status).
			Dur("duration", time.Since(start)).
			Msg("endpoint request")
	}
}
