package auth

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	redislib "github.com/redis/go-redis/v9"
	"github.com/slmiksa/flyboy-beats-core/internal/middleware"
	"github.com/slmiksa/flyboy-beats-core/internal/pkg/response"
	"go.uber.org/zap"
)

const (
	loginThrottleMax    = 5
	loginThrottleWindow = time.Minute
)

type Handler struct {
	svc *Service
	rdb *redislib.Client
	log *zap.Logger
}

func NewHandler(svc *Service, rdb *redislib.Client, log *zap.Logger) *Handler {
	return &Handler{svc: svc, rdb: rdb, log: log}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	a := rg.Group("/auth")
	a.POST("/login", h.login)
	a.POST("/logout", authMW, h.logout)
	a.GET("/session", authMW, h.session)
}

func (h *Handler) login(c *gin.Context) {
	var dto LoginDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if h.throttled(c) {
		c.Header("Retry-After", "60")
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"ok":      0,
			"code":    http.StatusTooManyRequests,
			"message": "too many login attempts, try again in a minute",
		})
		return
	}

	token, admin, err := h.svc.Login(dto.Username, dto.Password, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		switch {
		case errors.Is(err, errUserNotFound):
			h.log.Warn("login rejected", zap.String("username", dto.Username),
				zap.String("ip", c.ClientIP()), zap.String("cause", "unknown username"))
			response.ForbiddenMsg(c, uniformCredentialError)
		case errors.Is(err, errWrongPassword):
			h.log.Warn("login rejected", zap.String("username", dto.Username),
				zap.String("ip", c.ClientIP()), zap.String("cause", "wrong password"))
			response.ForbiddenMsg(c, uniformCredentialError)
		default:
			h.log.Error("login verification failed", zap.Error(err))
			response.InternalError(c, errors.New("an error occurred"))
		}
		return
	}

	setAuthTokenCookie(c, token)
	response.OK(c, loginResponse{
		Token:        token,
		Username:     admin.Username,
		IsSuperAdmin: admin.IsSuperAdmin,
	})
}

func (h *Handler) logout(c *gin.Context) {
	err := h.svc.Logout(middleware.CurrentAdminID(c), middleware.CurrentSessionID(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	clearAuthTokenCookie(c)
	response.NoContent(c)
}

// session lets the admin panel restore its state on load. A missing or
// revoked token fails in the auth middleware with 401, which is the
// signal to redirect to the login view.
func (h *Handler) session(c *gin.Context) {
	admin, err := h.svc.GetAdmin(middleware.CurrentAdminID(c))
	if err != nil {
		response.Unauthorized(c)
		return
	}
	response.OK(c, sessionResponse{
		AdminID:      admin.ID,
		Username:     admin.Username,
		Name:         admin.Name,
		IsSuperAdmin: admin.IsSuperAdmin,
	})
}

// throttled counts login attempts per IP in Redis. Fails open when
// Redis is unavailable.
func (h *Handler) throttled(c *gin.Context) bool {
	if h.rdb == nil {
		return false
	}
	ip := c.ClientIP()
	if ip == "" {
		return false
	}
	ctx := c.Request.Context()
	key := fmt.Sprintf("fb:login_attempts:%s", ip)

	count, err := h.rdb.Incr(ctx, key).Result()
	if err != nil {
		return false
	}
	if count == 1 {
		h.rdb.Expire(ctx, key, loginThrottleWindow)
	}
	return count > loginThrottleMax
}

func setAuthTokenCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie("fb-token", token, int((7 * 24 * time.Hour).Seconds()), "/", "", false, true)
}

func clearAuthTokenCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie("fb-token", "", -1, "/", "", false, true)
}
