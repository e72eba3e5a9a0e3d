package sitetext

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/slmiksa/flyboy-beats-core/internal/models"
	"github.com/slmiksa/flyboy-beats-core/internal/pkg/response"
	"gorm.io/gorm"
)

type TextDTO struct {
	Key   string `json:"key"   binding:"required"`
	Value string `json:"value"`
}

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// Map returns all copy blocks keyed by placement, the shape the
// frontend consumes.
func (s *Service) Map() (map[string]string, error) {
	var texts []models.SiteTextModel
	if err := s.db.Find(&texts).Error; err != nil {
		return nil, err
	}
	out := make(map[string]string, len(texts))
	for _, t := range texts {
		out[t.Key] = t.Value
	}
	return out, nil
}

func (s *Service) List() ([]models.SiteTextModel, error) {
	var texts []models.SiteTextModel
	return texts, s.db.Order("key ASC").Find(&texts).Error
}

// Set creates or updates the block for a key.
func (s *Service) Set(dto *TextDTO) (*models.SiteTextModel, error) {
	key := strings.TrimSpace(dto.Key)

	var text models.SiteTextModel
	err := s.db.Where("key = ?", key).First(&text).Error
	switch {
	case err == nil:
	case errors.Is(err, gorm.ErrRecordNotFound):
		text = models.SiteTextModel{Key: key}
	default:
		return nil, err
	}

	text.Value = dto.Value
	return &text, s.db.Save(&text).Error
}

func (s *Service) Delete(key string) error {
	res := s.db.Where("key = ?", key).Delete(&models.SiteTextModel{})
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
	public.GET("/texts", h.publicMap)

	g := admin.Group("/texts")
	g.GET("", h.list)
	g.PUT("", h.set)
	g.DELETE("/:key", h.delete)
}

func (h *Handler) publicMap(c *gin.Context) {
	texts, err := h.svc.Map()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"texts": texts})
}

func (h *Handler) list(c *gin.Context) {
	texts, err := h.svc.List()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, texts)
}

func (h *Handler) set(c *gin.Context) {
	var dto TextDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	text, err := h.svc.Set(&dto)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, text)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("key")); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c)
			return
		}
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}
