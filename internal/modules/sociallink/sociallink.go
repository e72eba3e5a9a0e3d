package sociallink

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/slmiksa/flyboy-beats-core/internal/models"
	"github.com/slmiksa/flyboy-beats-core/internal/pkg/response"
	"gorm.io/gorm"
)

var errPlatformTaken = errors.New("platform already has a link")

type LinkDTO struct {
	Platform  string `json:"platform" binding:"required"`
	URL       string `json:"url"      binding:"required,url"`
	SortOrder int    `json:"sort_order"`
	Visible   *bool  `json:"visible"`
}

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

func (s *Service) ListVisible() ([]models.SocialLinkModel, error) {
	var links []models.SocialLinkModel
	return links, s.db.Where("visible = ?", true).
		Order("sort_order ASC, platform ASC").Find(&links).Error
}

func (s *Service) ListAll() ([]models.SocialLinkModel, error) {
	var links []models.SocialLinkModel
	return links, s.db.Order("sort_order ASC, platform ASC").Find(&links).Error
}

// Upsert creates or replaces the link for a platform. One link per
// platform is the invariant the unique index enforces.
func (s *Service) Upsert(dto *LinkDTO) (*models.SocialLinkModel, error) {
	platform := strings.ToLower(strings.TrimSpace(dto.Platform))

	var link models.SocialLinkModel
	err := s.db.Where("platform = ?", platform).First(&link).Error
	switch {
	case err == nil:
	case errors.Is(err, gorm.ErrRecordNotFound):
		link = models.SocialLinkModel{Platform: platform, Visible: true}
	default:
		return nil, err
	}

	link.URL = dto.URL
	link.SortOrder = dto.SortOrder
	if dto.Visible != nil {
		link.Visible = *dto.Visible
	}
	if err := s.db.Save(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errPlatformTaken
		}
		return nil, err
	}
	return &link, nil
}

func (s *Service) Delete(id string) error {
	res := s.db.Where("id = ?", id).Delete(&models.SocialLinkModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(public, admin *gin.RouterGroup) {
	public.GET("/social-links", h.listVisible)

	g := admin.Group("/social-links")
	g.GET("", h.listAll)
	g.PUT("", h.upsert)
	g.DELETE("/:id", h.delete)
}

func (h *Handler) listVisible(c *gin.Context) {
	links, err := h.svc.ListVisible()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, links)
}

func (h *Handler) listAll(c *gin.Context) {
	links, err := h.svc.ListAll()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, links)
}

func (h *Handler) upsert(c *gin.Context) {
	var dto LinkDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	link, err := h.svc.Upsert(&dto)
	if err != nil {
		if errors.Is(err, errPlatformTaken) {
			response.Conflict(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, link)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("id")); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c)
			return
		}
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}
