package slide

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/slmiksa/flyboy-beats-core/internal/models"
	"github.com/slmiksa/flyboy-beats-core/internal/pkg/response"
	"gorm.io/gorm"
)

type SlideDTO struct {
	Title     string `json:"title"`
	Subtitle  string `json:"subtitle"`
	ImageURL  string `json:"image_url" binding:"required,url"`
	LinkURL   string `json:"link_url"`
	SortOrder int    `json:"sort_order"`
	Published *bool  `json:"published"`
}

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

func (s *Service) ListPublished() ([]models.SlideModel, error) {
	var slides []models.SlideModel
	return slides, s.db.Where("published = ?", true).
		Order("sort_order ASC, created_at ASC").Find(&slides).Error
}

func (s *Service) ListAll() ([]models.SlideModel, error) {
	var slides []models.SlideModel
	return slides, s.db.Order("sort_order ASC, created_at ASC").Find(&slides).Error
}

func (s *Service) Create(dto *SlideDTO) (*models.SlideModel, error) {
	slide := models.SlideModel{
		Title:     dto.Title,
		Subtitle:  dto.Subtitle,
		ImageURL:  dto.ImageURL,
		LinkURL:   dto.LinkURL,
		SortOrder: dto.SortOrder,
		Published: dto.Published == nil || *dto.Published,
	}
	return &slide, s.db.Create(&slide).Error
}

func (s *Service) Update(id string, dto *SlideDTO) (*models.SlideModel, error) {
	var slide models.SlideModel
	if err := s.db.Where("id = ?", id).First(&slide).Error; err != nil {
		return nil, err
	}
	slide.Title = dto.Title
	slide.Subtitle = dto.Subtitle
	slide.ImageURL = dto.ImageURL
	slide.LinkURL = dto.LinkURL
	slide.SortOrder = dto.SortOrder
	if dto.Published != nil {
		slide.Published = *dto.Published
	}
	return &slide, s.db.Save(&slide).Error
}

func (s *Service) Delete(id string) error {
	res := s.db.Where("id = ?", id).Delete(&models.SlideModel{})
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
	public.GET("/slides", h.listPublished)

	g := admin.Group("/slides")
	g.GET("", h.listAll)
	g.POST("", h.create)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)
}

func (h *Handler) listPublished(c *gin.Context) {
	slides, err := h.svc.ListPublished()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, slides)
}

func (h *Handler) listAll(c *gin.Context) {
	slides, err := h.svc.ListAll()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, slides)
}

func (h *Handler) create(c *gin.Context) {
	var dto SlideDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	slide, err := h.svc.Create(&dto)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Created(c, slide)
}

func (h *Handler) update(c *gin.Context) {
	var dto SlideDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	slide, err := h.svc.Update(c.Param("id"), &dto)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c)
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, slide)
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
