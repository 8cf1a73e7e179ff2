package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/eventhub/internal/app/controllers"
	appMigrations "github.com/yigit/eventhub/internal/app/migrations"
	appRepos "github.com/yigit/eventhub/internal/app/repositories"
	appRoutes "github.com/yigit/eventhub/internal/app/routes"
	appServices "github.com/yigit/eventhub/internal/app/services"
	"github.com/yigit/eventhub/internal/config"
	"github.com/yigit/eventhub/internal/db"
	appMiddleware "github.com/yigit/eventhub/internal/middleware"
	pkgAuth "github.com/yigit/eventhub/internal/pkg/auth"
	"github.com/yigit/eventhub/internal/pkg/email"
	"github.com/yigit/eventhub/internal/pkg/filestorage"
	"github.com/yigit/eventhub/internal/pkg/helpers"
	"github.com/yigit/eventhub/internal/pkg/llm"
	"github.com/yigit/eventhub/internal/pkg/logger"
	"github.com/yigit/eventhub/internal/pkg/metrics"
	"github.com/yigit/eventhub/internal/pkg/websocket"
	"github.com/yigit/eventhub/internal/seed"
)

// DefaultConfigPath is used when no --config flag is given
const DefaultConfigPath = "configs/config.yaml"

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos          *appRepos.Repositories
	JWTService     *pkgAuth.JWTService
	Storage        *filestorage.LocalStorage
	Hub            *websocket.Hub
	Metrics        *metrics.Metrics
	AuditService   appServices.AuditService
	AuthMiddleware *appMiddleware.AuthMiddleware
	Controllers    appRoutes.Controllers
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

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	lgr := logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: strings.EqualFold(cfg.Logging.Format, "text"),
	})

	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// OpenDatabase establishes the connection pool.
func OpenDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Str("host", cfg.Database.Host).Str("database", cfg.Database.DBName).Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")
	return database, nil
}

// MigrateAndSeed applies pending migrations, then makes sure an admin account exists.
func MigrateAndSeed(ctx context.Context, cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) error {
	migrator := appMigrations.NewMigrator(database.Pool, cfg.Server.MigrationsDir, logger.Component("migrations"))
	ran, err := migrator.Up(ctx)
	if err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Int("applied", ran).Msg("Database migrations up to date")

	account := seed.AdminAccount{
		Email:     cfg.Admin.Email,
		Password:  cfg.Admin.Password,
		FirstName: cfg.Admin.FirstName,
		LastName:  cfg.Admin.LastName,
	}
	if err := seed.EnsureAdmin(ctx, appRepos.NewUserRepository(database.Pool), account, lgr); err != nil {
		return fmt.Errorf("failed to seed admin account: %w", err)
	}
	return nil
}

// newLLMProvider falls back to the disabled provider when the configured one cannot start,
// so a bad AI key never keeps the API down.
func newLLMProvider(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) llm.Provider {
	provider, err := llm.New(ctx, llm.Config{
		Provider: cfg.AI.Provider,
		APIKey:   cfg.AI.APIKey,
		Model:    cfg.AI.Model,
		BaseURL:  cfg.AI.BaseURL,
		Timeout:  helpers.ParseDuration(cfg.AI.Timeout, 60*time.Second),
	})
	if err != nil {
		lgr.Error().Err(err).Str("provider", cfg.AI.Provider).Msg("AI provider unavailable, assistant disabled")
		return llm.Disabled{}
	}
	lgr.Info().Str("provider", provider.Name()).Str("model", provider.Model()).Msg("AI provider configured")
	return provider
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(ctx context.Context, cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	if err := appMiddleware.RegisterValidators(); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}

	deps.Repos = appRepos.NewRepositories(database.Pool)

	var err error
	deps.Storage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath, cfg.Server.PublicBaseURL)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	if cfg.Metrics.Enabled {
		deps.Metrics = metrics.New()
	}
	deps.Hub = websocket.NewHub(logger.Component("live"))

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})
	signer := pkgAuth.NewURLSigner(cfg.SigningSecret(), helpers.ParseDuration(cfg.Storage.SignedURLTTL, 15*time.Minute))

	var mailer email.EmailService
	if cfg.SMTP.Host != "" {
		mailer = email.NewEmailService(email.SMTPConfig{
			Host:      cfg.SMTP.Host,
			Port:      cfg.SMTP.Port,
			Username:  cfg.SMTP.Username,
			Password:  cfg.SMTP.Password,
			FromName:  cfg.SMTP.FromName,
			FromEmail: cfg.SMTP.FromEmail,
			UseTLS:    cfg.SMTP.UseTLS,
			BaseURL:   cfg.SMTP.BaseURL,
		}, logger.Component("email"))
	} else {
		lgr.Warn().Msg("SMTP host not configured, review emails are disabled")
	}

	r := deps.Repos
	svcLog := logger.Component("services")

	fileService := appServices.NewFileService(r.Files, deps.Storage, signer, deps.Metrics, cfg.Server.PublicBaseURL, svcLog)
	deps.AuditService = appServices.NewAuditService(r.AuditLogs, deps.Hub, cfg.Storage.MaxExportRows, svcLog)
	authService := appServices.NewAuthService(r.Users, r.Tokens, deps.JWTService, svcLog)
	profileService := appServices.NewProfileService(r.Users, fileService, svcLog)
	companyService := appServices.NewCompanyService(r.Companies, r.Users, r.Files, fileService, deps.AuditService, mailer, svcLog)
	eventService := appServices.NewEventService(r.Events, r.Companies, r.Registrations, fileService, deps.AuditService, database, svcLog)
	registrationService := appServices.NewRegistrationService(r.Events, r.Companies, r.Registrations, database, svcLog)
	moderationService := appServices.NewModerationService(r.Events, r.Companies, r.Moderation, deps.AuditService, deps.Hub, database, svcLog)
	internshipService := appServices.NewInternshipService(r.Internships, r.Companies, deps.AuditService, svcLog)
	resumeService := appServices.NewResumeService(r.Resumes, database, svcLog)
	chatService := appServices.NewChatService(newLLMProvider(ctx, cfg, lgr), cfg.AI.SystemPrompt, cfg.AI.MaxHistory, deps.Metrics, logger.Component("ai"))
	adminService := appServices.NewAdminService(r.Users, r.Tokens, r.Companies, r.Events, r.Registrations, deps.AuditService, svcLog)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.Controllers = appRoutes.Controllers{
		Auth:        appControllers.NewAuthController(authService, lgr),
		Profile:     appControllers.NewProfileController(profileService, registrationService),
		Company:     appControllers.NewCompanyController(companyService, eventService, lgr),
		Event:       appControllers.NewEventController(eventService, registrationService, moderationService),
		Internship:  appControllers.NewInternshipController(internshipService),
		Resume:      appControllers.NewResumeController(resumeService),
		Chat:        appControllers.NewChatController(chatService),
		Admin:       appControllers.NewAdminController(adminService, moderationService, deps.AuditService, lgr),
		File:        appControllers.NewFileController(fileService, lgr),
		LiveHandler: websocket.NewHandler(deps.Hub, cfg.Origins(), logger.Component("live")),
	}

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, database *db.PostgresDB, lgr zerolog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.MaxMultipartMemory = filestorage.MaxUploadSize()
	router.Use(
		appMiddleware.Recovery(lgr),
		appMiddleware.RequestLogger(logger.Component("http")),
		appMiddleware.Metrics(deps.Metrics),
	)

	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware, deps.AuditService, lgr)

	router.Static(filestorage.PublicMount, deps.Storage.PublicDir())

	if deps.Metrics != nil {
		router.GET(cfg.Metrics.Path, gin.WrapH(deps.Metrics.Handler()))
	}

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})
	router.GET("/api/v1/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := database.Ping(ctx); err != nil {
			lgr.Warn().Err(err).Msg("Health check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": "down"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "database": "up", "liveClients": deps.Hub.ClientCount()})
	})

	return router
}
