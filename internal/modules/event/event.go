package event

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/slmiksa/flyboy-beats-core/internal/models"
	"github.com/slmiksa/flyboy-beats-core/internal/modules/configs"
	"github.com/slmiksa/flyboy-beats-core/internal/modules/notify"
	"github.com/slmiksa/flyboy-beats-core/internal/modules/subscriber"
	pkgmail "github.com/slmiksa/flyboy-beats-core/internal/pkg/mail"
	"github.com/slmiksa/flyboy-beats-core/internal/pkg/response"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	errNotPublished    = errors.New("event is not published")
	errAlreadyNotified = errors.New("event has already been announced")
)

type EventDTO struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	Venue       string     `json:"venue"`
	City        string     `json:"city"`
	StartsAt    *time.Time `json:"starts_at"`
	ImageURL    string     `json:"image_url"`
	TicketURL   string     `json:"ticket_url"`
	Published   *bool      `json:"published"`
}

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// ListPublished returns published events, soonest first, with undated
// events at the end.
func (s *Service) ListPublished() ([]models.EventModel, error) {
	var events []models.EventModel
	return events, s.db.Where("published = ?", true).
		Order("starts_at IS NULL, starts_at ASC").Find(&events).Error
}

func (s *Service) ListAll() ([]models.EventModel, error) {
	var events []models.EventModel
	return events, s.db.Order("created_at DESC").Find(&events).Error
}

func (s *Service) Get(id string) (*models.EventModel, error) {
	var ev models.EventModel
	if err := s.db.Where("id = ?", id).First(&ev).Error; err != nil {
		return nil, err
	}
	return &ev, nil
}

func (s *Service) Create(dto *EventDTO) (*models.EventModel, error) {
	ev := models.EventModel{
		Title:       dto.Title,
		Description: dto.Description,
		Venue:       dto.Venue,
		City:        dto.City,
		StartsAt:    dto.StartsAt,
		ImageURL:    dto.ImageURL,
		TicketURL:   dto.TicketURL,
		Published:   dto.Published == nil || *dto.Published,
	}
	return &ev, s.db.Create(&ev).Error
}

func (s *Service) Update(id string, dto *EventDTO) (*models.EventModel, error) {
	ev, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	ev.Title = dto.Title
	ev.Description = dto.Description
	ev.Venue = dto.Venue
	ev.City = dto.City
	ev.StartsAt = dto.StartsAt
	ev.ImageURL = dto.ImageURL
	ev.TicketURL = dto.TicketURL
	if dto.Published != nil {
		ev.Published = *dto.Published
	}
	return ev, s.db.Save(ev).Error
}

func (s *Service) Delete(id string) error {
	res := s.db.Where("id = ?", id).Delete(&models.EventModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MarkNotified stamps the announcement time after a full dispatch.
func (s *Service) MarkNotified(id string, at time.Time) error {
	return s.db.Model(&models.EventModel{}).
		Where("id = ?", id).Update("notified_at", at).Error
}

// Announcer fans an event announcement out to the subscriber list.
type Announcer struct {
	svc        *Service
	dispatcher *notify.Dispatcher
	subSvc     *subscriber.Service
	cfgSvc     *configs.Service
	log        *zap.Logger
}

func NewAnnouncer(svc *Service, dispatcher *notify.Dispatcher, subSvc *subscriber.Service, cfgSvc *configs.Service, log *zap.Logger) *Announcer {
	return &Announcer{svc: svc, dispatcher: dispatcher, subSvc: subSvc, cfgSvc: cfgSvc, log: log}
}

// Announce renders the event broadcast and dispatches it to all active
// subscribers. The event is only marked notified after every batch went
// out; a partial delivery returns the dispatcher's error untouched so
// the handler can report how far it got.
func (a *Announcer) Announce(ctx context.Context, id string) (notify.Result, error) {
	ev, err := a.svc.Get(id)
	if err != nil {
		return notify.Result{}, err
	}
	if !ev.Published {
		return notify.Result{}, errNotPublished
	}
	if ev.NotifiedAt != nil {
		return notify.Result{}, errAlreadyNotified
	}

	cfg, err := a.cfgSvc.Get()
	if err != nil {
		return notify.Result{}, err
	}

	var when string
	if ev.StartsAt != nil {
		when = ev.StartsAt.Format("Mon, 2 Jan 2006 15:04")
	}
	html, err := pkgmail.RenderEventAnnouncement(pkgmail.EventAnnouncementData{
		SiteName:    cfg.SEO.Title,
		Title:       ev.Title,
		Description: ev.Description,
		Venue:       ev.Venue,
		City:        ev.City,
		When:        when,
		ImageURL:    ev.ImageURL,
		DetailURL:   buildDetailURL(cfg.URL.WebURL, ev.ID),
	})
	if err != nil {
		return notify.Result{}, err
	}

	emails, err := a.subSvc.ActiveEmails()
	if err != nil {
		return notify.Result{}, err
	}

	subject := cfg.SEO.Title + ": " + ev.Title
	res, err := a.dispatcher.Dispatch(ctx, emails, subject, html)
	if err != nil {
		return res, err
	}

	if err := a.svc.MarkNotified(ev.ID, time.Now()); err != nil {
		// The mails are out; losing the stamp only risks a re-send.
		a.log.Error("failed to mark event notified", zap.String("event_id", ev.ID), zap.Error(err))
	}
	return res, nil
}

func buildDetailURL(siteURL, eventID string) string {
	siteURL = strings.TrimRight(strings.TrimSpace(siteURL), "/")
	if siteURL == "" {
		return ""
	}
	return siteURL + "/events/" + eventID
}

type Handler struct {
	svc       *Service
	announcer *Announcer
}

func NewHandler(svc *Service, announcer *Announcer) *Handler {
	return &Handler{svc: svc, announcer: announcer}
}

func (h *Handler) RegisterRoutes(public, admin *gin.RouterGroup) {
	public.GET("/events", h.listPublished)
	public.GET("/events/:id", h.get)

	g := admin.Group("/events")
	g.GET("", h.listAll)
	g.POST("", h.create)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)
	g.POST("/:id/announce", h.announce)
}

func (h *Handler) listPublished(c *gin.Context) {
	events, err := h.svc.ListPublished()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, events)
}

func (h *Handler) get(c *gin.Context) {
	ev, err := h.svc.Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c)
			return
		}
		response.InternalError(c, err)
		return
	}
	if !ev.Published {
		response.NotFound(c)
		return
	}
	response.OK(c, ev)
}

func (h *Handler) listAll(c *gin.Context) {
	events, err := h.svc.ListAll()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, events)
}

func (h *Handler) create(c *gin.Context) {
	var dto EventDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	ev, err := h.svc.Create(&dto)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Created(c, ev)
}

func (h *Handler) update(c *gin.Context) {
	var dto EventDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	ev, err := h.svc.Update(c.Param("id"), &dto)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c)
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, ev)
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

func (h *Handler) announce(c *gin.Context) {
	res, err := h.announcer.Announce(c.Request.Context(), c.Param("id"))
	switch {
	case err == nil:
		response.OK(c, res)
	case errors.Is(err, gorm.ErrRecordNotFound):
		response.NotFound(c)
	case errors.Is(err, errNotPublished), errors.Is(err, errAlreadyNotified):
		response.UnprocessableEntity(c, err.Error())
	case errors.Is(err, notify.ErrEmptyRecipients):
		response.BadRequest(c, err.Error())
	default:
		var downstream *notify.DownstreamError
		if errors.As(err, &downstream) {
			c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{
				"ok":      0,
				"code":    http.StatusBadGateway,
				"message": downstream.Error(),
				"sent":    downstream.Result.Sent,
				"batches": downstream.Result.Batches,
			})
			return
		}
		response.InternalError(c, err)
	}
}
