// Package bootstrap wires configuration, storage and the HTTP stack together
package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/anchalrajput45678-bit/Student-leave-management/docs" // generated swagger docs
	appControllers "github.com/anchalrajput45678-bit/Student-leave-management/internal/app/controllers"
	appMigrations "github.com/anchalrajput45678-bit/Student-leave-management/internal/app/migrations"
	appRepos "github.com/anchalrajput45678-bit/Student-leave-management/internal/app/repositories"
	appRoutes "github.com/anchalrajput45678-bit/Student-leave-management/internal/app/routes"
	appServices "github.com/anchalrajput45678-bit/Student-leave-management/internal/app/services"
	"github.com/anchalrajput45678-bit/Student-leave-management/internal/config"
	"github.com/anchalrajput45678-bit/Student-leave-management/internal/db"
	appMiddleware "github.com/anchalrajput45678-bit/Student-leave-management/internal/middleware"
	pkgAuth "github.com/anchalrajput45678-bit/Student-leave-management/internal/pkg/auth"
	"github.com/anchalrajput45678-bit/Student-leave-management/internal/pkg/filestorage"
	"github.com/anchalrajput45678-bit/Student-leave-management/internal/pkg/helpers"
	"github.com/anchalrajput45678-bit/Student-leave-management/internal/pkg/logger"
	"github.com/anchalrajput45678-bit/Student-leave-management/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService     appServices.AuthService
	LeaveService    appServices.LeaveService
	UserService     appServices.UserService
	AuthController  *appControllers.AuthController
	LeaveController *appControllers.LeaveController
	UserController  *appControllers.UserController
	Repos           *appRepos.Repositories
	JWTService      *pkgAuth.JWTService
	FileStorage     *filestorage.LocalStorage
	Logger          zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and
// seeds the default accounts
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		dbPool.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)
	if err := migrator.MigrateFromDirectory(ctx, migrationsDir); err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultData(ctx, dbPool, cfg.Auth.BcryptCost, lgr); err != nil {
		// Startup continues; only the convenience accounts are affected
		lgr.Error().Err(err).Msg("Failed to create default accounts, proceeding anyway...")
	}

	return dbPool, nil
}

// BuildDependencies initializes repositories, services and controllers
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath, cfg.Uploads.MaxFileSizeMB, cfg.Uploads.MaxFiles)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:   cfg.JWT.Secret,
		TokenExp:    helpers.ParseDuration(cfg.JWT.TokenExpiration, 720*time.Hour),
		TokenIssuer: cfg.JWT.Issuer,
	})

	deps.AuthService = appServices.NewAuthService(deps.Repos.UserRepository, deps.JWTService, cfg.Auth.BcryptCost, lgr)
	deps.LeaveService = appServices.NewLeaveService(deps.Repos.LeaveRepository, deps.Repos.UserRepository, lgr)
	deps.UserService = appServices.NewUserService(deps.Repos.UserRepository, lgr)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService, lgr)
	deps.LeaveController = appControllers.NewLeaveController(deps.LeaveService, deps.FileStorage, lgr)
	deps.UserController = appControllers.NewUserController(deps.UserService, lgr)

	return deps, nil
}

// SetupRouter configures the gin engine with middleware and routes
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}
	appMiddleware.SetProductionMode(cfg.IsProduction())

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(appMiddleware.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	// Uploaded documents are served straight from disk
	router.Static("/uploads", cfg.Server.StoragePath)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler,
		ginSwagger.URL("/swagger/doc.json"), ginSwagger.DefaultModelsExpandDepth(1)))

	appRoutes.SetupRoutes(router, appRoutes.Controllers{
		Auth:  deps.AuthController,
		Leave: deps.LeaveController,
		User:  deps.UserController,
	}, deps.JWTService, deps.Repos.UserRepository)

	return router
}
