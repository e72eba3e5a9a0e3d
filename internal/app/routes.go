package app

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/slmiksa/flyboy-beats-core/internal/middleware"
	"github.com/slmiksa/flyboy-beats-core/internal/modules/auth"
	"github.com/slmiksa/flyboy-beats-core/internal/modules/configs"
	"github.com/slmiksa/flyboy-beats-core/internal/modules/event"
	"github.com/slmiksa/flyboy-beats-core/internal/modules/notify"
	"github.com/slmiksa/flyboy-beats-core/internal/modules/partner"
	"github.com/slmiksa/flyboy-beats-core/internal/modules/settings"
	"github.com/slmiksa/flyboy-beats-core/internal/modules/sitetext"
	"github.com/slmiksa/flyboy-beats-core/internal/modules/slide"
	"github.com/slmiksa/flyboy-beats-core/internal/modules/sociallink"
	"github.com/slmiksa/flyboy-beats-core/internal/modules/storage"
	"github.com/slmiksa/flyboy-beats-core/internal/modules/subscriber"
	"github.com/slmiksa/flyboy-beats-core/internal/modules/user"
	pkgredis "github.com/slmiksa/flyboy-beats-core/internal/pkg/redis"
	"github.com/slmiksa/flyboy-beats-core/internal/pkg/response"
)

func (a *App) registerRoutes(rc *pkgredis.Client) error {
	r := a.router
	db := a.db
	authMW := middleware.Auth(db)

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	// Rate limiting and idempotence run on every route (requires Redis).
	r.Use(middleware.RateLimit(rc.Raw()))
	r.Use(middleware.Idempotence(rc.Raw()))

	if err := user.EnsureBootstrap(db, a.logger); err != nil {
		return err
	}

	// Shared services
	cfgSvc := configs.NewService(db)
	settingsSvc := settings.NewService(db)
	subSvc := subscriber.NewService(db)
	dispatcher := notify.NewDispatcher(notify.NewMailProvider(cfgSvc), a.logger)

	api := r.Group("/api/v1")
	api.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"data": "pong"}) })
	api.GET("/uptime", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"uptime_ms": time.Since(processStart).Milliseconds()})
	})

	// Public content goes through the maintenance gate; the admin and
	// auth subtrees stay reachable so the site can always be brought
	// back up.
	public := api.Group("", middleware.MaintenanceGate(settingsSvc))
	admin := api.Group("/admin", authMW)

	// Auth
	auth.NewHandler(auth.NewService(db), rc.Raw(), a.logger).RegisterRoutes(api, authMW)

	// Site settings + maintenance mode
	settingsHdl := settings.NewHandler(settingsSvc)
	settingsHdl.RegisterRoutes(api, admin)

	// Config (admin panel options)
	configs.NewHandler(cfgSvc).RegisterRoutes(admin)

	// Content
	slide.NewHandler(slide.NewService(db)).RegisterRoutes(public, admin)
	eventSvc := event.NewService(db)
	announcer := event.NewAnnouncer(eventSvc, dispatcher, subSvc, cfgSvc, a.logger)
	event.NewHandler(eventSvc, announcer).RegisterRoutes(public, admin)
	partner.NewHandler(partner.NewService(db)).RegisterRoutes(public, admin)
	sociallink.NewHandler(sociallink.NewService(db)).RegisterRoutes(public, admin)
	sitetext.NewHandler(sitetext.NewService(db)).RegisterRoutes(public, admin)

	// Subscribers + broadcast
	subscriber.NewHandler(subSvc, cfgSvc, a.logger).RegisterRoutes(public, admin)
	notify.NewHandler(dispatcher, subSvc, a.logger).RegisterRoutes(admin)

	// File uploads
	storage.NewHandler(storage.NewService(cfgSvc, a.logger)).RegisterRoutes(admin)

	// Admin account management (super admin only)
	superAdmin := admin.Group("", middleware.RequireSuperAdmin(db))
	user.NewHandler(user.NewService(db)).RegisterRoutes(superAdmin)

	return nil
}

var processStart = time.Now()
