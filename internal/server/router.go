package server

import (
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hospital-slots/internal/app"
)

type Options struct {
	StaticTokens   []string
	JWTSecret      string
	CORSOrigins    []string
	RateLimitRPS   float64
	RateLimitBurst int
	// Google is optional; calendar routes are only mounted when set.
	Google *app.GoogleCalendar
	Log    *zap.Logger
}

func NewRouter(a *app.App, opts Options) *gin.Engine {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}

	router := gin.New()
	router.Use(app.Recovery(log), app.RequestLogger(log))
	router.Use(cors.New(corsConfig(opts.CORSOrigins)))

	router.GET("/healthz", a.HealthHandler)

	// OAuth2 callback (must be before auth middleware)
	if opts.Google != nil {
		router.GET("/oauth2callback", opts.Google.OAuth2CallbackHandler)
	}

	api := router.Group("/api")
	if opts.RateLimitRPS > 0 && opts.RateLimitBurst > 0 {
		api.Use(app.RateLimit(opts.RateLimitRPS, opts.RateLimitBurst, log))
	}
	api.Use(app.AuthMiddleware(opts.StaticTokens, opts.JWTSecret))
	{
		doctors := api.Group("/doctors")
		{
			doctors.GET("/:id/slots", a.GetDoctorSlotsHandler)
			doctors.GET("/:id/availability", a.GetDoctorAvailabilityHandler)
		}
		api.GET("/appointments", app.RequireRole(app.RoleAdmin, app.RoleDoctor), a.ListAppointmentsHandler)
		api.GET("/slots", a.PreviewSlotsHandler)

		if opts.Google != nil {
			calendar := api.Group("/calendar", app.RequireRole(app.RoleAdmin, app.RoleDoctor))
			{
				calendar.GET("/auth", opts.Google.AuthHandler)
				calendar.GET("/busy", opts.Google.BusyHandler)
			}
		}
	}

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Authorization", "Content-Type", "X-Google-Token", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
