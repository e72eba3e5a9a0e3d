package notify

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/slmiksa/flyboy-beats-core/internal/modules/configs"
	"github.com/slmiksa/flyboy-beats-core/internal/modules/subscriber"
	pkgmail "github.com/slmiksa/flyboy-beats-core/internal/pkg/mail"
	"github.com/slmiksa/flyboy-beats-core/internal/pkg/response"
	"go.uber.org/zap"
)

type DispatchDTO struct {
	Subject string   `json:"subject" binding:"required"`
	HTML    string   `json:"html"    binding:"required"`
	Emails  []string `json:"emails"` // optional; defaults to active subscribers
}

// mailProvider resolves the configured sender lazily so config changes
// take effect without a restart.
type mailProvider struct {
	cfgSvc *configs.Service
}

func (p *mailProvider) SendBCC(ctx context.Context, bcc []string, subject, html string) error {
	cfg, err := p.cfgSvc.Get()
	if err != nil {
		return err
	}
	sender := pkgmail.New(pkgmail.BuildMailConfig(cfg))
	return sender.SendBCC(ctx, bcc, subject, html)
}

// NewMailProvider returns the production Provider backed by the
// persisted mail configuration.
func NewMailProvider(cfgSvc *configs.Service) Provider {
	return &mailProvider{cfgSvc: cfgSvc}
}

type Handler struct {
	dispatcher *Dispatcher
	subSvc     *subscriber.Service
	log        *zap.Logger
}

func NewHandler(dispatcher *Dispatcher, subSvc *subscriber.Service, log *zap.Logger) *Handler {
	return &Handler{dispatcher: dispatcher, subSvc: subSvc, log: log}
}

func (h *Handler) RegisterRoutes(admin *gin.RouterGroup) {
	admin.POST("/notify", h.dispatch)
}

func (h *Handler) dispatch(c *gin.Context) {
	var dto DispatchDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	emails := dto.Emails
	if len(emails) == 0 {
		var err error
		emails, err = h.subSvc.ActiveEmails()
		if err != nil {
			response.InternalError(c, err)
			return
		}
	}

	res, err := h.dispatcher.Dispatch(c.Request.Context(), emails, dto.Subject, dto.HTML)
	if err != nil {
		if errors.Is(err, ErrEmptyRecipients) {
			response.BadRequest(c, err.Error())
			return
		}
		var downstream *DownstreamError
		if errors.As(err, &downstream) {
			// Partial delivery: the caller must see how far we got.
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
		return
	}

	response.OK(c, res)
}
