package configs

import (
	"encoding/json"
	"errors"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/slmiksa/flyboy-beats-core/internal/config"
	"github.com/slmiksa/flyboy-beats-core/internal/models"
	"github.com/slmiksa/flyboy-beats-core/internal/pkg/response"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const configKey = "configs"

// Service manages the persisted SiteConfig.
type Service struct {
	db  *gorm.DB
	mu  sync.RWMutex
	cfg *config.SiteConfig
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Get returns the current config, loading from DB if not cached.
func (s *Service) Get() (*config.SiteConfig, error) {
	s.mu.RLock()
	if s.cfg != nil {
		defer s.mu.RUnlock()
		return s.cfg, nil
	}
	s.mu.RUnlock()

	return s.load()
}

func (s *Service) load() (*config.SiteConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var opt models.OptionModel
	err := s.db.Where("name = ?", configKey).First(&opt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		defaults := config.DefaultSiteConfig()
		s.cfg = &defaults
		_ = s.persist(&defaults)
		return s.cfg, nil
	}
	if err != nil {
		return nil, err
	}

	cfg := config.DefaultSiteConfig()
	if err := json.Unmarshal([]byte(opt.Value), &cfg); err != nil {
		return nil, err
	}
	s.cfg = &cfg
	return s.cfg, nil
}

// Patch merges a partial JSON update into the current config and
// persists it. Absent keys keep their current values.
func (s *Service) Patch(partial []byte) (*config.SiteConfig, error) {
	current, err := s.Get()
	if err != nil {
		return nil, err
	}

	updated := *current
	if err := json.Unmarshal(partial, &updated); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.cfg = &updated
	s.mu.Unlock()

	return &updated, s.persist(&updated)
}

func (s *Service) persist(cfg *config.SiteConfig) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	opt := models.OptionModel{Name: configKey, Value: string(data)}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&opt).Error
}

// Invalidate clears the in-memory cache, forcing a DB reload on next Get.
func (s *Service) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = nil
}

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(admin *gin.RouterGroup) {
	g := admin.Group("/configs")
	g.GET("", h.get)
	g.PATCH("", h.patch)
}

func (h *Handler) get(c *gin.Context) {
	cfg, err := h.svc.Get()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, redact(cfg))
}

func (h *Handler) patch(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	cfg, err := h.svc.Patch(body)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	response.OK(c, redact(cfg))
}

// redact strips credentials before a config leaves the server.
func redact(cfg *config.SiteConfig) *config.SiteConfig {
	out := *cfg
	if out.MailOptions.SMTP != nil {
		smtp := *out.MailOptions.SMTP
		smtp.Pass = ""
		out.MailOptions.SMTP = &smtp
	}
	if out.MailOptions.Resend != nil && out.MailOptions.Resend.APIKey != "" {
		out.MailOptions.Resend = &config.ResendConfig{APIKey: "********"}
	}
	if out.S3Options.SecretAccessKey != "" {
		out.S3Options.SecretAccessKey = "********"
	}
	return &out
}
