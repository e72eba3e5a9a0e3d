package settings

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/slmiksa/flyboy-beats-core/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(public, admin *gin.RouterGroup) {
	public.GET("/settings/status", h.status)

	g := admin.Group("/settings")
	g.GET("", h.get)
	g.PATCH("", h.update)
	g.POST("/maintenance/toggle", h.toggle)
}

// status is the public probe the frontend uses to decide whether to
// render the maintenance placeholder.
func (h *Handler) status(c *gin.Context) {
	snap := h.svc.Snapshot()
	response.OK(c, gin.H{
		"maintenance_mode":    snap.Loaded && snap.MaintenanceMode,
		"maintenance_message": snap.Message,
		"maintenance_image":   snap.Image,
	})
}

func (h *Handler) get(c *gin.Context) {
	row, err := h.svc.Get()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, row)
}

func (h *Handler) toggle(c *gin.Context) {
	row, err := h.svc.ToggleMaintenance()
	if err != nil {
		if errors.Is(err, ErrVersionConflict) {
			response.Conflict(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, row)
}

func (h *Handler) update(c *gin.Context) {
	var dto UpdateDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	row, err := h.svc.Update(&dto)
	if err != nil {
		if errors.Is(err, ErrVersionConflict) {
			response.Conflict(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, row)
}
