package subscriber

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/mail"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/slmiksa/flyboy-beats-core/internal/models"
	"github.com/slmiksa/flyboy-beats-core/internal/modules/configs"
	pkgmail "github.com/slmiksa/flyboy-beats-core/internal/pkg/mail"
	"github.com/slmiksa/flyboy-beats-core/internal/pkg/response"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// ErrAlreadySubscribed maps the unique-email violation.
	ErrAlreadySubscribed = errors.New("already subscribed")
	errTokenNotFound     = errors.New("unknown cancel token")
)

type SubscribeDTO struct {
	Email string `json:"email" binding:"required,email"`
}

type ImportDTO struct {
	Emails []string `json:"emails" binding:"required"`
}

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// Subscribe adds a new address. A duplicate email is a conflict, not
// an upsert: the caller is told "already subscribed".
func (s *Service) Subscribe(email string) (*models.SubscriberModel, error) {
	token := make([]byte, 16)
	if _, err := rand.Read(token); err != nil {
		return nil, err
	}

	sub := models.SubscriberModel{
		Email:       strings.ToLower(strings.TrimSpace(email)),
		CancelToken: hex.EncodeToString(token),
		IsActive:    true,
	}
	if err := s.db.Create(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadySubscribed
		}
		return nil, err
	}
	return &sub, nil
}

// Unsubscribe deactivates the entry matching a cancel token. The row is
// kept so re-subscribing surfaces as a conflict, matching the public
// subscribe contract.
func (s *Service) Unsubscribe(cancelToken string) error {
	res := s.db.Model(&models.SubscriberModel{}).
		Where("cancel_token = ?", cancelToken).
		Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errTokenNotFound
	}
	return nil
}

// Delete removes an entry for good. A soft delete would keep holding
// the unique email, blocking the address from ever subscribing again.
func (s *Service) Delete(id string) error {
	res := s.db.Unscoped().Where("id = ?", id).Delete(&models.SubscriberModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *Service) List() ([]models.SubscriberModel, error) {
	var subs []models.SubscriberModel
	return subs, s.db.Order("created_at DESC").Find(&subs).Error
}

// ActiveEmails returns the dispatch recipient list in stable order.
func (s *Service) ActiveEmails() ([]string, error) {
	var subs []models.SubscriberModel
	if err := s.db.Where("is_active = ?", true).
		Order("created_at ASC").Find(&subs).Error; err != nil {
		return nil, err
	}
	emails := make([]string, 0, len(subs))
	for _, sub := range subs {
		emails = append(emails, sub.Email)
	}
	return emails, nil
}

// Import bulk-adds addresses, skipping invalid and duplicate entries.
func (s *Service) Import(emails []string) (added, skipped int, err error) {
	for _, raw := range emails {
		addr := strings.ToLower(strings.TrimSpace(raw))
		if _, parseErr := mail.ParseAddress(addr); parseErr != nil {
			skipped++
			continue
		}
		if _, subErr := s.Subscribe(addr); subErr != nil {
			if errors.Is(subErr, ErrAlreadySubscribed) {
				skipped++
				continue
			}
			return added, skipped, subErr
		}
		added++
	}
	return added, skipped, nil
}

type Handler struct {
	svc    *Service
	cfgSvc *configs.Service
	log    *zap.Logger
}

func NewHandler(svc *Service, cfgSvc *configs.Service, log *zap.Logger) *Handler {
	return &Handler{svc: svc, cfgSvc: cfgSvc, log: log}
}

func (h *Handler) RegisterRoutes(public, admin *gin.RouterGroup) {
	g := public.Group("/subscribe")
	g.POST("", h.subscribe)
	g.GET("/cancel", h.unsubscribe) // ?token=...

	ag := admin.Group("/subscribers")
	ag.GET("", h.list)
	ag.POST("/import", h.importBatch)
	ag.DELETE("/:id", h.delete)
}

func (h *Handler) subscribe(c *gin.Context) {
	var dto SubscribeDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	enabled, err := h.isSubscribeEnabled()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if !enabled {
		response.BadRequest(c, "subscriptions are currently closed")
		return
	}

	sub, err := h.svc.Subscribe(dto.Email)
	if err != nil {
		if errors.Is(err, ErrAlreadySubscribed) {
			response.Conflict(c, ErrAlreadySubscribed.Error())
			return
		}
		response.InternalError(c, err)
		return
	}

	// Welcome mail is best effort, the subscription already exists.
	if err := h.sendWelcome(c.Request.Context(), sub); err != nil {
		h.log.Warn("welcome mail failed", zap.String("email", sub.Email), zap.Error(err))
	}

	response.Created(c, gin.H{"email": sub.Email})
}

func (h *Handler) unsubscribe(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.BadRequest(c, "missing token")
		return
	}
	if err := h.svc.Unsubscribe(token); err != nil {
		response.NotFoundMsg(c, err.Error())
		return
	}
	response.OK(c, gin.H{"message": "unsubscribed"})
}

func (h *Handler) list(c *gin.Context) {
	subs, err := h.svc.List()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, subs)
}

func (h *Handler) importBatch(c *gin.Context) {
	var dto ImportDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	added, skipped, err := h.svc.Import(dto.Emails)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"added": added, "skipped": skipped})
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

func (h *Handler) isSubscribeEnabled() (bool, error) {
	if h.cfgSvc == nil {
		return true, nil
	}
	cfg, err := h.cfgSvc.Get()
	if err != nil {
		return false, err
	}
	return cfg.FeatureList.EmailSubscribe, nil
}

func (h *Handler) sendWelcome(ctx context.Context, sub *models.SubscriberModel) error {
	if h.cfgSvc == nil {
		return nil
	}
	cfg, err := h.cfgSvc.Get()
	if err != nil {
		return err
	}
	if !cfg.MailOptions.Enable {
		return nil
	}

	sender := pkgmail.New(pkgmail.BuildMailConfig(cfg))
	return sender.SendSubscribeWelcome(ctx, sub.Email, pkgmail.SubscribeWelcomeData{
		SiteName:       cfg.SEO.Title,
		UnsubscribeURL: buildCancelURL(cfg.URL.ServerURL, sub.CancelToken),
	})
}

func buildCancelURL(baseURL, token string) string {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return ""
	}
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/api/v1/subscribe/cancel"
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String()
}
