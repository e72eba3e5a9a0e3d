package partner

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/slmiksa/flyboy-beats-core/internal/models"
	"github.com/slmiksa/flyboy-beats-core/internal/pkg/response"
	"gorm.io/gorm"
)

var errNameTaken = errors.New("partner name already exists")

type PartnerDTO struct {
	Name      string `json:"name" binding:"required"`
	LogoURL   string `json:"logo_url"`
	SiteURL   string `json:"site_url"`
	SortOrder int    `json:"sort_order"`
}

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

func (s *Service) List() ([]models.PartnerModel, error) {
	var partners []models.PartnerModel
	return partners, s.db.Order("sort_order ASC, created_at ASC").Find(&partners).Error
}

func (s *Service) Create(dto *PartnerDTO) (*models.PartnerModel, error) {
	partner := models.PartnerModel{
		Name:      dto.Name,
		LogoURL:   dto.LogoURL,
		SiteURL:   dto.SiteURL,
		SortOrder: dto.SortOrder,
	}
	if err := s.db.Create(&partner).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errNameTaken
		}
		return nil, err
	}
	return &partner, nil
}

func (s *Service) Update(id string, dto *PartnerDTO) (*models.PartnerModel, error) {
	var partner models.PartnerModel
	if err := s.db.Where("id = ?", id).First(&partner).Error; err != nil {
		return nil, err
	}
	partner.Name = dto.Name
	partner.LogoURL = dto.LogoURL
	partner.SiteURL = dto.SiteURL
	partner.SortOrder = dto.SortOrder
	if err := s.db.Save(&partner).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errNameTaken
		}
		return nil, err
	}
	return &partner, nil
}

func (s *Service) Delete(id string) error {
	res := s.db.Where("id = ?", id).Delete(&models.PartnerModel{})
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
	public.GET("/partners", h.list)

	g := admin.Group("/partners")
	g.GET("", h.list)
	g.POST("", h.create)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	partners, err := h.svc.List()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, partners)
}

func (h *Handler) create(c *gin.Context) {
	var dto PartnerDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	partner, err := h.svc.Create(&dto)
	if err != nil {
		if errors.Is(err, errNameTaken) {
			response.Conflict(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Created(c, partner)
}

func (h *Handler) update(c *gin.Context) {
	var dto PartnerDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	partner, err := h.svc.Update(c.Param("id"), &dto)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			response.NotFound(c)
		case errors.Is(err, errNameTaken):
			response.Conflict(c, err.Error())
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.OK(c, partner)
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
