package bootstrap

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/questionbank/internal/app/controllers"
	appMigrations "github.com/yigit/questionbank/internal/app/migrations"
	appRepos "github.com/yigit/questionbank/internal/app/repositories"
	memoryRepos "github.com/yigit/questionbank/internal/app/repositories/memory"
	postgresRepos "github.com/yigit/questionbank/internal/app/repositories/postgres"
	appRoutes "github.com/yigit/questionbank/internal/app/routes"
	appServices "github.com/yigit/questionbank/internal/app/services"
	"github.com/yigit/questionbank/internal/config"
	"github.com/yigit/questionbank/internal/db"
	appMiddleware "github.com/yigit/questionbank/internal/middleware"
	pkgAuth "github.com/yigit/questionbank/internal/pkg/auth"
	"github.com/yigit/questionbank/internal/pkg/helpers"
	"github.com/yigit/questionbank/internal/pkg/logger"
	"github.com/yigit/questionbank/internal/pkg/ratelimit"
	"github.com/yigit/questionbank/internal/seed"
)

// loginScope namespaces login attempts in the rate limiter
const loginScope = "login"

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos          *appRepos.Repositories
	Services       *appServices.Services
	Controllers    appRoutes.Controllers
	AuthMiddleware *appMiddleware.AuthMiddleware
	JWTService     *pkgAuth.JWTService
	Hasher         *pkgAuth.PasswordHasher
	Limiter        ratelimit.Limiter
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := config.GetEnv("CONFIG_PATH", filepath.Join("configs", "config.yaml"))
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	lgr := logger.Configure(logger.Config{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		Service: "questionbank",
	})
	lgr.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase opens the configured store. The postgres driver connects and
// applies migrations; the memory driver returns a nil pool.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, *appRepos.Repositories, error) {
	if cfg.Database.Driver == config.DriverMemory {
		lgr.Warn().Msg("Using in-memory storage, data is lost on restart")
		return nil, memoryRepos.NewRepositories(), nil
	}

	lgr.Info().Msg("Establishing database connection...")
	dbPool, err := db.Connect(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	if err := appMigrations.NewMigrator(dbPool, lgr).Migrate(ctx); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		dbPool.Close()
		return nil, nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	return dbPool, postgresRepos.NewRepositories(dbPool), nil
}

// SetupRateLimiter returns the login limiter. A reachable Redis shares counters
// across instances; otherwise counting stays in process. The client is nil
// when Redis is not used.
func SetupRateLimiter(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (ratelimit.Limiter, *redis.Client) {
	if !cfg.RateLimit.Enabled {
		return nil, nil
	}

	window := helpers.ParseDuration(cfg.RateLimit.Window, time.Minute)
	if cfg.RateLimit.RedisAddr == "" {
		lgr.Info().Dur("window", window).Msg("Login rate limiter using in-memory counters")
		return ratelimit.NewInMemory(window), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RateLimit.RedisAddr,
		Password: cfg.RateLimit.RedisPassword,
		DB:       cfg.RateLimit.RedisDB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		// the limiter still works, through its in-memory fallback, until redis comes back
		lgr.Warn().Err(err).Str("addr", cfg.RateLimit.RedisAddr).Msg("Redis unreachable at startup")
	} else {
		lgr.Info().Str("addr", cfg.RateLimit.RedisAddr).Msg("Login rate limiter using redis")
	}

	return ratelimit.NewRedis(client, window), client
}

// BuildDependencies initializes services, middleware and controllers on top of repos.
func BuildDependencies(cfg *config.Config, repos *appRepos.Repositories, limiter ratelimit.Limiter, lgr zerolog.Logger) *Dependencies {
	deps := &Dependencies{
		Repos:   repos,
		Limiter: limiter,
		Logger:  lgr,
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 24*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})
	deps.Hasher = pkgAuth.NewPasswordHasher(cfg.Security.BcryptCost)

	deps.Services = appServices.NewServices(repos, deps.JWTService, deps.Hasher, lgr)
	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, repos.Users)

	deps.Controllers = appRoutes.Controllers{
		Auth:         appControllers.NewAuthController(deps.Services.Auth, cfg.Server.CookieSecure, lgr),
		Subject:      appControllers.NewSubjectController(deps.Services.Subjects),
		Grade:        appControllers.NewGradeController(deps.Services.Grades),
		QuestionType: appControllers.NewQuestionTypeController(deps.Services.QuestionTypes),
		Chapter:      appControllers.NewChapterController(deps.Services.Chapters),
		Question:     appControllers.NewQuestionController(deps.Services.Questions),
	}

	return deps
}

// SeedDefaults provisions the configured admin account. Failures are logged and returned.
func SeedDefaults(ctx context.Context, cfg *config.Config, deps *Dependencies) error {
	return seed.CreateDefaultData(ctx, deps.Repos, deps.Hasher, seed.AdminAccount{
		Email:    cfg.Seed.AdminEmail,
		Password: cfg.Seed.AdminPassword,
	}, deps.Logger)
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(appMiddleware.RequestLogger(), appMiddleware.Recovery())
	router.NoRoute(appMiddleware.NotFound())

	appRoutes.SetupSwagger(router, cfg.Server.PublicHost)

	var loginGuard gin.HandlerFunc
	if deps.Limiter != nil {
		loginGuard = appMiddleware.RateLimit(deps.Limiter, loginScope, cfg.RateLimit.LoginLimit)
	}

	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware, loginGuard)

	return router
}
