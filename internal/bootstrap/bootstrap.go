package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/mentorlink/internal/app/controllers"
	appMigrations "github.com/yigit/mentorlink/internal/app/migrations"
	appRepos "github.com/yigit/mentorlink/internal/app/repositories"
	"github.com/yigit/mentorlink/internal/app/repositories/memory"
	appRoutes "github.com/yigit/mentorlink/internal/app/routes"
	appServices "github.com/yigit/mentorlink/internal/app/services"
	"github.com/yigit/mentorlink/internal/config"
	"github.com/yigit/mentorlink/internal/db"
	appMiddleware "github.com/yigit/mentorlink/internal/middleware"
	pkgAuth "github.com/yigit/mentorlink/internal/pkg/auth"
	"github.com/yigit/mentorlink/internal/pkg/cache"
	"github.com/yigit/mentorlink/internal/pkg/helpers"
	"github.com/yigit/mentorlink/internal/pkg/logger"
	"github.com/yigit/mentorlink/internal/pkg/metrics"
	"github.com/yigit/mentorlink/internal/seed"
)

// DefaultConfigPath is read when no --config flag is given.
const DefaultConfigPath = "configs/config.yaml"

// Storage is the opened store together with the resources behind it.
type Storage struct {
	Store appRepos.Store
	Pool  *pgxpool.Pool // nil for the memory driver
}

// Close releases the database pool.
func (s *Storage) Close() {
	if s != nil && s.Pool != nil {
		s.Pool.Close()
	}
}

// Dependencies holds all the application dependencies
type Dependencies struct {
	Services       *appServices.Services
	Controllers    *appControllers.Controllers
	AuthMiddleware *appMiddleware.AuthMiddleware
	JWTService     *pkgAuth.JWTService
	Metrics        *metrics.Metrics
	Registry       *prometheus.Registry
	Redis          *cache.Redis
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Str("path", configPath).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	lgr := logger.Configure(logger.Config{
		Level:  cfg.Logging.Level,
		Format: logger.Format(strings.ToLower(cfg.Logging.Format)),
	})
	lgr.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// OpenStorage opens the store selected by database.driver. For postgres the
// embedded migrations are applied first.
func OpenStorage(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*Storage, error) {
	if cfg.Database.Driver == config.DriverMemory {
		lgr.Warn().Msg("Using in-memory store; data is lost on restart")
		return &Storage{Store: memory.NewStore()}, nil
	}

	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	if err := RunMigrations(ctx, database.Pool, lgr); err != nil {
		database.Close()
		return nil, err
	}

	return &Storage{Store: appRepos.NewPostgresStore(database.Pool), Pool: database.Pool}, nil
}

// RunMigrations applies the embedded SQL migrations.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool, lgr zerolog.Logger) error {
	lgr.Info().Msg("Running database migrations...")
	applied, err := appMigrations.NewMigrator(pool).Up(ctx)
	if err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Int("applied", applied).Msg("Database migrations successfully applied.")
	return nil
}

// SetupRedis connects to Redis when enabled. It returns nil when Redis is
// disabled or unreachable; the service then runs without a directory cache
// and without token revocation.
func SetupRedis(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) *cache.Redis {
	if !cfg.Redis.Enabled {
		lgr.Warn().Msg("Redis disabled: mentor cache off, logout cannot revoke tokens")
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	rdb, err := cache.NewRedis(ctx, cache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, logger.Component("redis"))
	if err != nil {
		lgr.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis unavailable: mentor cache off, logout cannot revoke tokens")
		return nil
	}
	lgr.Info().Str("addr", cfg.Redis.Addr).Msg("Redis connected")
	return rdb
}

// BuildDependencies initializes services, middleware, and controllers.
func BuildDependencies(cfg *config.Config, store appRepos.Store, rdb *cache.Redis, lgr zerolog.Logger) *Dependencies {
	deps := &Dependencies{Logger: lgr, Redis: rdb}

	deps.Registry = prometheus.NewRegistry()
	deps.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	deps.Metrics = metrics.New(deps.Registry)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 24*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	var tokens pkgAuth.TokenStore = pkgAuth.NoopTokenStore{}
	var directory appServices.DirectoryCache
	if rdb.Enabled() {
		tokens = pkgAuth.NewRedisTokenStore(rdb)
		directory = rdb
	}

	mentorService := appServices.NewMentorService(
		store,
		directory,
		helpers.ParseDuration(cfg.Redis.CacheTTL, 5*time.Minute),
		deps.Metrics,
		logger.Component("mentors"),
	)
	deps.Services = &appServices.Services{
		Auth:     appServices.NewAuthService(store, deps.JWTService, tokens, mentorService, logger.Component("auth")),
		Mentors:  mentorService,
		Requests: appServices.NewRequestService(store, deps.Metrics, logger.Component("requests")),
		Messages: appServices.NewMessageService(store, deps.Metrics, logger.Component("messages")),
	}

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, tokens, logger.Component("auth"))

	deps.Controllers = &appControllers.Controllers{
		Auth:    appControllers.NewAuthController(deps.Services.Auth, logger.Component("auth")),
		Mentor:  appControllers.NewMentorController(deps.Services.Mentors),
		Request: appControllers.NewRequestController(deps.Services.Requests),
		Message: appControllers.NewMessageController(deps.Services.Messages),
	}

	return deps
}

// SeedIfEnabled loads the demo accounts when seed.enabled is set.
func SeedIfEnabled(ctx context.Context, cfg *config.Config, store appRepos.Store, deps *Dependencies, lgr zerolog.Logger) {
	if !cfg.Seed.Enabled {
		return
	}
	if _, err := seed.CreateDefaultData(ctx, store, deps.Services.Auth, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) (*gin.Engine, error) {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	if err := router.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}
	router.Use(
		gin.Recovery(),
		appMiddleware.RequestLogger(logger.Component("http")),
		appMiddleware.Metrics(deps.Metrics),
	)

	var metricsHandler http.Handler
	if cfg.Metrics.Enabled {
		metricsHandler = promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{Registry: deps.Registry})
	}

	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware, metricsHandler, cfg.Metrics.Path)
	return router, nil
}
