package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/slmiksa/flyboy-beats-core/internal/modules/settings"
	"github.com/slmiksa/flyboy-beats-core/internal/pkg/response"
)

// MaintenanceGate evaluates the Access Gate before any public content
// handler runs. Admin and auth subtrees are exempt so the site can
// always be toggled back.
func MaintenanceGate(svc *settings.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap := svc.Snapshot()
		if settings.Decide(c.Request.URL.Path, snap) == settings.DecisionAllow {
			c.Next()
			return
		}
		response.ServiceUnavailable(c, gin.H{
			"maintenance": true,
			"message":     snap.Message,
			"image":       snap.Image,
		})
	}
}
