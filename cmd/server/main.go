package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sanctuary/backend/config"
	"github.com/sanctuary/backend/internal/auth"
	"github.com/sanctuary/backend/internal/cache"
	"github.com/sanctuary/backend/internal/database"
	"github.com/sanctuary/backend/internal/handlers"
	"github.com/sanctuary/backend/internal/live"
	"github.com/sanctuary/backend/internal/middleware"
	applog "github.com/sanctuary/backend/internal/platform/log"
	"github.com/sanctuary/backend/internal/platform/metrics"
	"github.com/sanctuary/backend/internal/repository"
	"github.com/sanctuary/backend/internal/repository/memory"
	"github.com/sanctuary/backend/internal/server"
	"github.com/sanctuary/backend/internal/storage"
	"github.com/sanctuary/backend/internal/websocket"
)

const serviceName = "sanctuary-backend"

// stores groups the repositories the handlers need
type stores struct {
	users     handlers.UserStore
	events    handlers.EventStore
	donations handlers.DonationStore
	gallery   handlers.GalleryStore
	videos    handlers.VideoStore
	lives     handlers.LiveVideoStore
	contact   handlers.ContactStore
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		l := applog.L()
		l.Fatal().Err(err).Msg("failed to load config")
	}

	applog.Init(applog.Config{
		Level:       cfg.Log.Level,
		Pretty:      cfg.Log.Pretty,
		ServiceName: serviceName,
	})
	logger := applog.L()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = applog.WithLogger(ctx, logger)

	logger.Info().
		Str("env", cfg.Server.Env).
		Str("db_driver", cfg.Database.Driver).
		Str("storage_driver", cfg.Storage.Driver).
		Msg("starting sanctuary server")

	repos, closeDB := initStores(cfg)
	defer closeDB()

	// Connect to Redis
	var redis *cache.RedisClient
	if cfg.Redis.Enabled {
		redis, err = cache.NewRedisClient(cfg.GetRedisAddr(), cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Warn().Err(err).Msg("running without Redis: live cache off, updates stay on this instance")
			redis = nil
		} else {
			defer redis.Close()
		}
	}

	if cfg.Admin.Email != "" {
		created, err := server.EnsureAdmin(repos.users, cfg.Admin.Email, cfg.Admin.Password, cfg.Admin.DisplayName)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to bootstrap admin")
		}
		logger.Info().Str("email", cfg.Admin.Email).Bool("created", created).Msg("admin account ensured")
	}

	files, localDir, err := initStorage(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}

	// Initialize services
	m := metrics.New()
	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpiryHours)

	hub := websocket.NewHub(redis, m)
	go hub.Run(ctx)

	// Interfaces must stay nil, not typed-nil, when Redis is absent
	var liveCache live.Cache
	var livePub live.Publisher = hub
	var throttle handlers.Throttle
	if redis != nil {
		liveCache = redis
		livePub = redis
		throttle = handlers.NewRedisThrottle(redis, "login", cfg.API.LoginPerSecond, cfg.API.LoginBurst)
	} else {
		local := handlers.NewLocalThrottle(cfg.API.LoginPerSecond*60, cfg.API.LoginBurst)
		local.Limiter().Cleanup(ctx.Done())
		throttle = local
	}
	liveSvc := live.NewService(repos.lives, liveCache, livePub, m, cfg.Live.CacheTTL)

	formLimiter := middleware.NewRateLimiter(cfg.API.FormsPerMinute, cfg.API.FormsBurst)
	formLimiter.Cleanup(ctx.Done())

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := server.NewRouter(server.Deps{
		Logger:         logger,
		Metrics:        m,
		Tokens:         jwtService,
		Users:          repos.users,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		FormLimiter:    formLimiter,
		Auth:           handlers.NewAuthHandler(repos.users, jwtService, throttle, cfg.IsProduction()),
		Home:           handlers.NewHomeHandler(repos.events, repos.videos, liveSvc),
		Events:         handlers.NewEventHandler(repos.events),
		Donation:       handlers.NewDonationHandler(repos.donations),
		Gallery:        handlers.NewGalleryHandler(repos.gallery, files, cfg.Storage.MaxUploadBytes),
		Videos:         handlers.NewVideoHandler(repos.videos),
		Live:           handlers.NewLiveHandler(repos.lives, liveSvc),
		Contact:        handlers.NewContactHandler(repos.contact),
		Admin:          handlers.NewAdminHandler(repos.users),
		WS:             websocket.NewHandler(hub, jwtService, repos.users, liveSvc, cfg.CORS.AllowedOrigins),
		LocalUploads:   localDir,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("sanctuary server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down sanctuary server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("sanctuary server stopped")
}

func initStores(cfg *config.Config) (stores, func()) {
	logger := applog.L()

	if cfg.Database.Driver == "memory" {
		logger.Warn().Msg("using in-memory stores; data is lost on restart")
		return stores{
			users:     memory.NewUserStore(),
			events:    memory.NewEventStore(),
			donations: memory.NewDonationStore(),
			gallery:   memory.NewGalleryStore(),
			videos:    memory.NewVideoStore(),
			lives:     memory.NewLiveVideoStore(),
			contact:   memory.NewContactStore(),
		}, func() {}
	}

	db, err := database.NewPostgresDB(cfg.GetDSN())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}

	logger.Info().Msg("running database migrations")
	if err := database.RunMigrations(db.DB); err != nil {
		logger.Fatal().Err(err).Msg("failed to run migrations")
	}

	return stores{
		users:     repository.NewUserRepository(db),
		events:    repository.NewEventRepository(db),
		donations: repository.NewDonationRepository(db),
		gallery:   repository.NewGalleryRepository(db),
		videos:    repository.NewVideoRepository(db),
		lives:     repository.NewLiveVideoRepository(db),
		contact:   repository.NewContactRepository(db),
	}, func() { db.Close() }
}

// initStorage returns the gallery blob store and, for local storage, the
// directory the router should serve.
func initStorage(ctx context.Context, cfg *config.Config) (storage.Storage, *server.StaticDir, error) {
	switch cfg.Storage.Driver {
	case "s3":
		s, err := storage.NewS3Storage(ctx, storage.S3Config{
			Endpoint:        cfg.Storage.S3Endpoint,
			Region:          cfg.Storage.S3Region,
			Bucket:          cfg.Storage.S3Bucket,
			AccessKeyID:     cfg.Storage.S3AccessKey,
			SecretAccessKey: cfg.Storage.S3SecretKey,
			UsePathStyle:    cfg.Storage.S3UsePathStyle,
			PublicURL:       cfg.Storage.S3PublicURL,
		})
		return s, nil, err
	default:
		s, err := storage.NewLocalStorage(cfg.Storage.LocalPath, cfg.Storage.PublicPrefix)
		if err != nil {
			return nil, nil, err
		}
		return s, &server.StaticDir{Prefix: cfg.Storage.PublicPrefix, Root: s.BasePath()}, nil
	}
}
