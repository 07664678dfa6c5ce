package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
)

// NewRelic instruments each request as a web transaction. A nil app
// yields a pass-through handler so wiring stays unconditional.
func NewRelic(app *newrelic.Application) gin.HandlerFunc {
	if app == nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}
	return nrgin.Middleware(app)
}
