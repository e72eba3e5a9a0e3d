package user

import (
	"crypto/rand"
	"encoding/hex"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/slmiksa/flyboy-beats-core/internal/middleware"
	"github.com/slmiksa/flyboy-beats-core/internal/models"
	"github.com/slmiksa/flyboy-beats-core/internal/pkg/response"
	sessionpkg "github.com/slmiksa/flyboy-beats-core/internal/pkg/session"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	errUsernameTaken = errors.New("username already exists")
	errProtectedUser = errors.New("the bootstrap account cannot be deleted")
	errSelfDelete    = errors.New("you cannot delete your own account")
	errUserNotFound  = errors.New("user not found")
)

type CreateDTO struct {
	Username     string `json:"username"       binding:"required,min=3"`
	Password     string `json:"password"       binding:"required,min=8"`
	Name         string `json:"name"`
	IsSuperAdmin bool   `json:"is_super_admin"`
}

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

func (s *Service) List() ([]models.AdminModel, error) {
	var admins []models.AdminModel
	return admins, s.db.Order("created_at ASC").Find(&admins).Error
}

func (s *Service) Create(dto *CreateDTO) (*models.AdminModel, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	name := dto.Name
	if name == "" {
		name = dto.Username
	}
	admin := models.AdminModel{
		Username:     dto.Username,
		Name:         name,
		Password:     string(hash),
		IsSuperAdmin: dto.IsSuperAdmin,
	}
	if err := s.db.Create(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errUsernameTaken
		}
		return nil, err
	}
	return &admin, nil
}

func (s *Service) Delete(callerID, targetID string) error {
	if targetID == callerID {
		return errSelfDelete
	}

	var target models.AdminModel
	if err := s.db.Where("id = ?", targetID).First(&target).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errUserNotFound
		}
		return err
	}
	if target.Username == models.BootstrapUsername {
		return errProtectedUser
	}

	// Hard delete: a soft-deleted row would keep the unique username
	// claimed forever.
	if err := s.db.Unscoped().Delete(&target).Error; err != nil {
		return err
	}
	return sessionpkg.RevokeAll(s.db, target.ID)
}

// EnsureBootstrap creates the reserved admin account on first boot with
// a random password, logged once so the operator can sign in and
// change it.
func EnsureBootstrap(db *gorm.DB, log *zap.Logger) error {
	var count int64
	if err := db.Model(&models.AdminModel{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	raw := make([]byte, 12)
	if _, err := rand.Read(raw); err != nil {
		return err
	}
	password := hex.EncodeToString(raw)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := models.AdminModel{
		Username:     models.BootstrapUsername,
		Name:         models.BootstrapUsername,
		Password:     string(hash),
		IsSuperAdmin: true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	log.Info("bootstrap admin created",
		zap.String("username", admin.Username),
		zap.String("password", password))
	return nil
}

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

// RegisterRoutes mounts the user-management subtree. The caller wraps
// it with the super-admin middleware.
func (h *Handler) RegisterRoutes(admin *gin.RouterGroup) {
	g := admin.Group("/users")
	g.GET("", h.list)
	g.POST("", h.create)
	g.DELETE("/:id", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	admins, err := h.svc.List()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, admins)
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	admin, err := h.svc.Create(&dto)
	if err != nil {
		if errors.Is(err, errUsernameTaken) {
			response.Conflict(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Created(c, admin)
}

func (h *Handler) delete(c *gin.Context) {
	err := h.svc.Delete(middleware.CurrentAdminID(c), c.Param("id"))
	switch {
	case err == nil:
		response.NoContent(c)
	case errors.Is(err, errProtectedUser):
		response.ForbiddenMsg(c, err.Error())
	case errors.Is(err, errSelfDelete):
		response.BadRequest(c, err.Error())
	case errors.Is(err, errUserNotFound):
		response.NotFoundMsg(c, err.Error())
	default:
		response.InternalError(c, err)
	}
}
