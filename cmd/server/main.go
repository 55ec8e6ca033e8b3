package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"hospital-slots/internal/app"
	"hospital-slots/internal/cache"
	"hospital-slots/internal/config"
	"hospital-slots/internal/hospitalapi"
	"hospital-slots/internal/logger"
	"hospital-slots/internal/server"
	"hospital-slots/migrations"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zlog, err := logger.New(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zlog.Sync()

	if !cfg.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	appInstance := &app.App{Log: zlog, Checks: map[string]func(context.Context) error{}}

	var doctors app.DoctorDirectory
	switch cfg.DataSource {
	case config.SourcePostgres:
		poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
		if err != nil {
			zlog.Fatal("invalid DATABASE_URL", zap.Error(err))
		}
		poolCfg.MaxConns = cfg.DBMaxConns
		pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
		if err != nil {
			zlog.Fatal("failed to connect to db", zap.Error(err))
		}
		defer pool.Close()

		if cfg.RunMigrations {
			if err := migrations.Up(ctx, pool); err != nil {
				zlog.Fatal("failed to run migrations", zap.Error(err))
			}
			zlog.Info("migrations completed")
		}

		store := &app.PGStore{DB: pool}
		doctors = store
		appInstance.Appointments = store
		appInstance.Checks["postgres"] = store.Ping
	case config.SourceAPI:
		client := hospitalapi.NewClient(cfg.HospitalAPIURL, cfg.HospitalAPIToken,
			hospitalapi.DefaultHTTPClient(cfg.HospitalAPITimeout))
		doctors = client
		appInstance.Appointments = client
		appInstance.Checks["hospital_api"] = client.Ping
	}

	if cfg.RedisURL != "" {
		rdb, err := cache.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			zlog.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer rdb.Close()
		cached := cache.NewDoctors(rdb, doctors, cfg.CacheTTL, zlog.Named("cache"))
		doctors = cached
		appInstance.Checks["redis"] = cached.Ping
	}
	appInstance.Doctors = doctors

	google := app.NewGoogleCalendar(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL, zlog.Named("calendar"))
	if google != nil {
		appInstance.Calendar = google
	}

	router := server.NewRouter(appInstance, server.Options{
		StaticTokens:   cfg.Tokens(),
		JWTSecret:      cfg.JWTSecret,
		CORSOrigins:    cfg.CORSOrigins,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		Google:         google,
		Log:            zlog,
	})

	zlog.Info("hospital-slots starting",
		zap.String("data_source", cfg.DataSource),
		zap.Bool("cache", cfg.RedisURL != ""),
		zap.Bool("google_calendar", google != nil))

	if err := server.Run(ctx, router, cfg.Addr(), cfg.ShutdownTimeout, zlog); err != nil {
		zlog.Fatal("http server error", zap.Error(err))
	}
}
