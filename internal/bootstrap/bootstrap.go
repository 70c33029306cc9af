package bootstrap

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/examprep/internal/app/controllers"
	appMigrations "github.com/yigit/examprep/internal/app/migrations"
	appRepos "github.com/yigit/examprep/internal/app/repositories"
	"github.com/yigit/examprep/internal/app/repositories/memrepo"
	"github.com/yigit/examprep/internal/app/repositories/mongorepo"
	"github.com/yigit/examprep/internal/app/repositories/pgrepo"
	appRoutes "github.com/yigit/examprep/internal/app/routes"
	appServices "github.com/yigit/examprep/internal/app/services"
	"github.com/yigit/examprep/internal/config"
	"github.com/yigit/examprep/internal/db"
	appMiddleware "github.com/yigit/examprep/internal/middleware"
	pkgAuth "github.com/yigit/examprep/internal/pkg/auth"
	"github.com/yigit/examprep/internal/pkg/cache"
	"github.com/yigit/examprep/internal/pkg/logger"
	"github.com/yigit/examprep/internal/seed"
)

// Store is an opened storage backend with its repositories
type Store struct {
	Driver string
	Repos  *appRepos.Repositories
	close  func(ctx context.Context) error
}

// Close releases the backend's connections
func (s *Store) Close(ctx context.Context) error {
	if s == nil || s.close == nil {
		return nil
	}
	return s.close(ctx)
}

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService       appServices.AuthService
	StudentService    appServices.StudentService
	ContentService    appServices.ContentService
	AuthController    *appControllers.AuthController
	StudentController *appControllers.StudentController
	ContentController *appControllers.ContentController
	AuthMiddleware    *appMiddleware.AuthMiddleware
	Repos             *appRepos.Repositories
	JWTService        *pkgAuth.JWTService
	Logger            zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	lgr := logger.Configure(logger.Config{
		Level:  cfg.Logging.Level,
		Pretty: strings.ToLower(cfg.Logging.Format) == "text",
	})
	lgr.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase opens the configured storage backend, prepares its schema
// and seeds the question banks.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*Store, error) {
	store, err := openStore(ctx, cfg, lgr)
	if err != nil {
		return nil, err
	}

	if err := seed.CreateDefaultData(ctx, store.Repos.Questions, cfg.Content.Subjects, cfg.Content.SeedFile, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return store, nil
}

func openStore(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*Store, error) {
	lgr.Info().Str("driver", cfg.Database.Driver).Msg("Establishing database connection...")

	switch cfg.Database.Driver {
	case config.DriverMongo:
		mdb, err := db.NewMongoDB(ctx, cfg)
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to connect to database")
			return nil, err
		}
		if err := mdb.EnsureIndexes(ctx); err != nil {
			_ = mdb.Close(ctx)
			return nil, fmt.Errorf("failed to prepare indexes: %w", err)
		}
		lgr.Info().Str("database", cfg.Database.Mongo.Database).Msg("MongoDB connection successfully established.")
		return &Store{Driver: config.DriverMongo, Repos: mongorepo.NewRepositories(mdb.Database), close: mdb.Close}, nil

	case config.DriverPostgres:
		pdb, err := db.NewPostgresDB(ctx, cfg)
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to connect to database")
			return nil, err
		}
		lgr.Info().Msg("Running database migrations...")
		if err := appMigrations.NewMigrator(pdb, lgr).Migrate(ctx); err != nil {
			_ = pdb.Close(ctx)
			lgr.Error().Err(err).Msg("Database migration error")
			return nil, fmt.Errorf("database migrations failed: %w", err)
		}
		lgr.Info().Msg("Database migrations successfully applied.")
		return &Store{Driver: config.DriverPostgres, Repos: pgrepo.NewRepositories(pdb.Pool), close: pdb.Close}, nil

	case config.DriverMemory:
		lgr.Warn().Msg("Using in-memory store, data is lost on restart")
		return &Store{Driver: config.DriverMemory, Repos: memrepo.NewRepositories()}, nil
	}

	return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
}

// BuildDependencies initializes application services, middleware and controllers.
func BuildDependencies(cfg *config.Config, repos *appRepos.Repositories, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr, Repos: repos}

	jwtService, err := pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:   cfg.JWT.Secret,
		Expiration:  cfg.JWT.Expiration,
		TokenIssuer: cfg.JWT.Issuer,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize jwt service: %w", err)
	}
	deps.JWTService = jwtService

	hasher := pkgAuth.NewPasswordHasher(cfg.Security.BcryptCost)

	deps.AuthService = appServices.NewAuthService(repos.Students, hasher, jwtService, logger.WithComponent("auth"))
	deps.StudentService = appServices.NewStudentService(repos.Students, logger.WithComponent("student"))
	deps.ContentService = appServices.NewContentService(
		repos.Questions,
		repos.ModelTests,
		cache.NewQuestionCache(cfg.Content.CacheTTL),
		cfg.Content.Subjects,
		logger.WithComponent("content"),
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(jwtService, lgr)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService, cfg.Server.CookieSecure, lgr)
	deps.StudentController = appControllers.NewStudentController(deps.StudentService, deps.AuthService, lgr)
	deps.ContentController = appControllers.NewContentController(deps.ContentService, lgr)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger(lgr))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.StudentController,
		deps.ContentController,
		deps.AuthMiddleware,
	)

	return router
}
