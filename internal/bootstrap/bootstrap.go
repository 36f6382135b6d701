// Package bootstrap assembles the application from its configuration.
package bootstrap

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	appAuth "github.com/huddlesocial/huddle/internal/app/auth"
	appControllers "github.com/huddlesocial/huddle/internal/app/controllers"
	appMigrations "github.com/huddlesocial/huddle/internal/app/migrations"
	appRepos "github.com/huddlesocial/huddle/internal/app/repositories"
	appRoutes "github.com/huddlesocial/huddle/internal/app/routes"
	appServices "github.com/huddlesocial/huddle/internal/app/services"
	"github.com/huddlesocial/huddle/internal/config"
	"github.com/huddlesocial/huddle/internal/db"
	appMiddleware "github.com/huddlesocial/huddle/internal/middleware"
	pkgAuth "github.com/huddlesocial/huddle/internal/pkg/auth"
	"github.com/huddlesocial/huddle/internal/pkg/cache"
	"github.com/huddlesocial/huddle/internal/pkg/filestorage"
	"github.com/huddlesocial/huddle/internal/pkg/geo"
	"github.com/huddlesocial/huddle/internal/pkg/helpers"
	"github.com/huddlesocial/huddle/internal/pkg/logger"
	"github.com/huddlesocial/huddle/internal/pkg/validation"
	"github.com/huddlesocial/huddle/internal/pkg/websocket"
	"github.com/huddlesocial/huddle/internal/rater"
	"github.com/huddlesocial/huddle/internal/seed"
)

// cacheKeyPrefix namespaces every key this service writes to Redis.
const cacheKeyPrefix = "huddle:"

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos          *appRepos.Repositories
	Services       *appServices.Services
	Handlers       appRoutes.Handlers
	JWTService     *pkgAuth.JWTService
	AuthzService   *appAuth.AuthorizationService
	AuthMiddleware *appMiddleware.AuthMiddleware
	FileStorage    *filestorage.LocalStorage
	Cache          *cache.RedisCache
	Hub            *websocket.Hub
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(filepath.Join("configs", "config.yaml"))
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	level := logger.ParseLevel(cfg.Logging.Level)
	logger.Configure(logger.Config{
		Level:  level,
		Pretty: strings.EqualFold(cfg.Logging.Format, "text"),
	})

	lgr := logger.Get()
	lgr.Info().Str("logLevel", string(level)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase connects to PostgreSQL, applies migrations and seeds default data.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := appMigrations.NewMigrator(database.Pool).MigrateFromDirectory(ctx, "migrations"); err != nil {
		database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	if cfg.Seed.Enabled {
		opts := seed.Options{
			AdminEmail:      cfg.Seed.AdminEmail,
			AdminPassword:   cfg.Seed.AdminPassword,
			CampusLatitude:  cfg.Campus.Latitude,
			CampusLongitude: cfg.Campus.Longitude,
		}
		// Seed rows land together or not at all.
		err := database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
			return seed.CreateDefaultData(ctx, appRepos.NewRepositories(tx), opts, lgr)
		})
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
		}
	}

	return database, nil
}

// SetupCache creates the Redis client. An unreachable Redis is logged, not
// fatal: schedule lookups fall back to the database.
func SetupCache(cfg *config.Config, lgr zerolog.Logger) *cache.RedisCache {
	rc := cache.NewRedis(cache.Options{
		Address:  cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, cacheKeyPrefix)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rc.Ping(ctx); err != nil {
		lgr.Warn().Err(err).Str("address", cfg.Redis.Address).Msg("Redis unavailable, continuing without cache")
	} else {
		lgr.Info().Str("address", cfg.Redis.Address).Msg("Redis connection established")
	}
	return rc
}

// courseSource picks where composed schedules read course data from.
func courseSource(cfg *config.Config, repos *appRepos.Repositories, lgr zerolog.Logger) appServices.CourseDataSource {
	if cfg.Schedule.CourseSource == config.CourseSourceFixture {
		lgr.Info().Msg("Schedule rater uses the in-memory demo course catalog")
		return rater.NewFixtureSource(rater.DemoCourses()...)
	}
	return repos.CourseRepository
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, redisCache *cache.RedisCache, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr, Cache: redisCache}

	if err := validation.RegisterRules(); err != nil {
		return nil, fmt.Errorf("failed to register validation rules: %w", err)
	}

	deps.Repos = appRepos.NewRepositories(database.Pool)

	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath, cfg.BaseURL()+"/uploads")
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.Hub = websocket.NewHub(logger.Component("live"))

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})
	deps.AuthzService = appAuth.NewAuthorizationService(deps.Repos.EventRepository, deps.Repos.HousingRepository)
	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	campus := geo.Point{Latitude: cfg.Campus.Latitude, Longitude: cfg.Campus.Longitude}
	deps.Services = &appServices.Services{
		AuthService: appServices.NewAuthService(
			deps.Repos.UserRepository,
			deps.Repos.TokenRepository,
			deps.JWTService,
			cfg.Campus.EmailDomain,
			logger.Component("auth"),
		),
		EventService: appServices.NewEventService(
			deps.Repos.EventRepository,
			deps.AuthzService,
			deps.Hub,
			logger.Component("events"),
		),
		HousingService: appServices.NewHousingService(
			deps.Repos.HousingRepository,
			deps.AuthzService,
			deps.FileStorage,
			campus,
			logger.Component("housing"),
		),
		CourseService: appServices.NewCourseService(deps.Repos.CourseRepository, logger.Component("courses")),
		ScheduleService: appServices.NewScheduleService(
			courseSource(cfg, deps.Repos, lgr),
			deps.Repos.ScheduleUploadRepository,
			redisCache,
			deps.FileStorage,
			appServices.ScheduleOptions{
				CacheTTL:       helpers.ParseDuration(cfg.Schedule.CacheTTL, 24*time.Hour),
				MaxUploadBytes: cfg.Schedule.MaxUploadBytes,
			},
			logger.Component("schedule"),
		),
	}

	deps.Handlers = appRoutes.Handlers{
		Auth:     appControllers.NewAuthController(deps.Services.AuthService, lgr),
		Event:    appControllers.NewEventController(deps.Services.EventService, lgr),
		Housing:  appControllers.NewHousingController(deps.Services.HousingService, lgr),
		Course:   appControllers.NewCourseController(deps.Services.CourseService, lgr),
		Schedule: appControllers.NewScheduleController(deps.Services.ScheduleService, lgr),
		Health: appControllers.NewHealthController(lgr,
			appControllers.HealthCheck{Name: "database", Target: database, Required: true},
			appControllers.HealthCheck{Name: "redis", Target: redisCache},
		),
		Live: websocket.NewHandler(deps.Hub, logger.Component("live")),
	}

	return deps, nil
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
	router.Use(appMiddleware.RequestLogger(logger.Component("http")), appMiddleware.Recovery(lgr))
	router.MaxMultipartMemory = cfg.Schedule.MaxUploadBytes + 1<<20

	appRoutes.SetupRouter(router, deps.Handlers, deps.AuthMiddleware)
	router.Static("/uploads", cfg.Server.StoragePath)

	return router
}
