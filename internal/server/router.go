// Package server assembles the gin engine from handlers and middleware.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/sanctuary/backend/internal/handlers"
	"github.com/sanctuary/backend/internal/middleware"
	applog "github.com/sanctuary/backend/internal/platform/log"
	"github.com/sanctuary/backend/internal/platform/metrics"
	"github.com/sanctuary/backend/internal/websocket"
)

// Deps is everything the router wires. WS and LocalUploads are optional.
type Deps struct {
	Logger         zerolog.Logger
	Metrics        *metrics.Metrics
	Tokens         middleware.TokenValidator
	Users          middleware.UserLookup
	AllowedOrigins []string
	FormLimiter    *middleware.RateLimiter

	Auth     *handlers.AuthHandler
	Home     *handlers.HomeHandler
	Events   *handlers.EventHandler
	Donation *handlers.DonationHandler
	Gallery  *handlers.GalleryHandler
	Videos   *handlers.VideoHandler
	Live     *handlers.LiveHandler
	Contact  *handlers.ContactHandler
	Admin    *handlers.AdminHandler
	WS       *websocket.Handler

	// LocalUploads serves the local storage directory at its public prefix
	LocalUploads *StaticDir
}

type StaticDir struct {
	Prefix string
	Root   string
}

func NewRouter(d Deps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(applog.GinMiddleware(d.Logger))
	if d.Metrics != nil {
		router.Use(metrics.GinMiddleware(d.Metrics))
	}
	router.Use(middleware.CORSMiddleware(d.AllowedOrigins))
	router.Use(middleware.SessionMiddleware(d.Tokens, d.Users))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if d.Metrics != nil {
		router.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}
	if d.LocalUploads != nil {
		router.Static(d.LocalUploads.Prefix, d.LocalUploads.Root)
	}

	forms := middleware.RateLimitMiddleware(d.FormLimiter)

	// Public routes
	authRoutes := router.Group("/auth")
	{
		authRoutes.POST("/register", d.Auth.Register)
		authRoutes.POST("/login", d.Auth.Login)
		authRoutes.POST("/logout", d.Auth.Logout)
	}

	router.GET("/live-videos", d.Live.ListLiveVideos)
	if d.WS != nil {
		router.GET("/ws/live", d.WS.HandleWebSocket)
	}

	api := router.Group("/api/v1")
	{
		api.GET("/home", d.Home.Home)
		api.GET("/events", d.Events.ListEvents)
		api.GET("/events/:id", d.Events.GetEvent)
		api.POST("/donations", forms, d.Donation.CreateDonation)
		api.GET("/gallery", d.Gallery.ListGallery)
		api.GET("/videos", d.Videos.ListVideos)
		api.GET("/live", d.Live.Current)
		api.POST("/contact", forms, d.Contact.CreateMessage)
	}

	// Authenticated routes
	me := api.Group("")
	me.Use(middleware.AuthMiddleware())
	{
		me.GET("/me", d.Auth.GetMe)
		me.PUT("/me", d.Auth.UpdateMe)
		me.GET("/session", d.Auth.Session)
	}

	// Back-office
	var gateRec middleware.GateRecorder
	if d.Metrics != nil {
		gateRec = d.Metrics
	}
	admin := api.Group("/admin")
	admin.Use(middleware.RequireAdmin(gateRec))
	{
		admin.GET("/events", d.Events.AdminListEvents)
		admin.POST("/events", d.Events.CreateEvent)
		admin.PUT("/events/:id", d.Events.UpdateEvent)
		admin.DELETE("/events/:id", d.Events.DeleteEvent)

		admin.POST("/videos", d.Videos.CreateVideo)
		admin.PUT("/videos/:id", d.Videos.UpdateVideo)
		admin.DELETE("/videos/:id", d.Videos.DeleteVideo)

		admin.GET("/live-videos", d.Live.ListLiveVideos)
		admin.POST("/live-videos", d.Live.CreateLiveVideo)
		admin.PUT("/live-videos/:id", d.Live.UpdateLiveVideo)
		admin.DELETE("/live-videos/:id", d.Live.DeleteLiveVideo)

		admin.POST("/gallery", d.Gallery.UploadImage)
		admin.DELETE("/gallery/:id", d.Gallery.DeleteImage)

		admin.GET("/donations", d.Donation.ListDonations)

		admin.GET("/contact", d.Contact.ListMessages)
		admin.PUT("/contact/:id/handled", d.Contact.MarkHandled)

		admin.GET("/users", d.Admin.ListUsers)
		admin.PUT("/users/:id/role", d.Admin.SetRole)
	}

	return router
}
