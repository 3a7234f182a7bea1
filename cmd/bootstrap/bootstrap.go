package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clinic-booking-service/config"
	deliveryHttp "clinic-booking-service/internal/delivery/http"
	"clinic-booking-service/internal/delivery/http/handler"
	"clinic-booking-service/internal/delivery/http/middleware"
	"clinic-booking-service/internal/infrastructure/cache"
	"clinic-booking-service/internal/infrastructure/database"
	"clinic-booking-service/internal/infrastructure/mail"
	"clinic-booking-service/internal/job"
	"clinic-booking-service/internal/repository"
	"clinic-booking-service/internal/service"
	"clinic-booking-service/internal/usecase"
	"clinic-booking-service/pkg/jwt"
	"clinic-booking-service/pkg/response"
	"clinic-booking-service/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	startupTimeout  = 30 * time.Second
	shutdownTimeout = 10 * time.Second
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	Log         *logrus.Logger
	Mongo       *database.MongoProvider
	DB          *gorm.DB
	RedisClient *redis.Client
	Scheduler   *job.Scheduler
	Server      *http.Server
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{Log: setupLogger()}

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg
	app.Log.Info("Configuration loaded successfully")

	response.SetExposeErrors(!cfg.App.IsProduction())
	decimal.MarshalJSONWithoutQuotes = true

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	app.Mongo = database.NewMongoProvider(cfg.Mongo, app.Log)
	if _, err := app.Mongo.Client(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := database.RunMongoMigrations(ctx, app.Mongo, app.Log); err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to run MongoDB migrations: %w", err)
	}
	app.Log.Info("MongoDB connected successfully")

	// Postgres only backs the audit trail; without it audit entries go to the log
	if cfg.DB.Enabled() {
		db, err := database.NewPostgresConnection(cfg.DB, cfg.App.Timezone)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		app.DB = db
	} else {
		app.Log.Warn("DB_HOST is empty, audit entries are written to the log only")
	}

	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient
	app.Log.Info("Redis connected successfully")

	if err := app.initialize(ctx); err != nil {
		app.Close()
		return nil, err
	}

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger() *logrus.Logger {
	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)
	log.SetLevel(logrus.InfoLevel)
	return log
}

// initialize wires every layer, prepares indexes and slot claims, and builds the server and scheduler.
func (app *App) initialize(ctx context.Context) error {
	cfg := app.Config
	log := app.Log
	location := cfg.App.Location()
	strict := cfg.Booking.SlotPolicy == config.SlotPolicyStrict

	jwtService := jwt.NewJWTService(cfg.JWT)
	customValidator := validator.NewValidator()

	// Repositories
	appointmentRepo := repository.NewAppointmentRepository(app.Mongo)
	doctorRepo := repository.NewDoctorRepository(app.Mongo)
	userRepo := repository.NewUserRepository(app.Mongo)
	planRepo := repository.NewPlanRepository(app.Mongo)
	crmRepo := repository.NewCRMRepository(app.Mongo)
	contactRepo := repository.NewContactRepository(app.Mongo)
	contactMessageRepo := repository.NewContactMessageRepository(app.Mongo)
	auditLogRepo := repository.NewAuditLogRepository()

	for name, ensure := range map[string]func(context.Context) error{
		"appointments": appointmentRepo.EnsureIndexes,
		"doctors":      doctorRepo.EnsureIndexes,
		"users":        userRepo.EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			return fmt.Errorf("failed to create %s indexes: %w", name, err)
		}
	}

	// Services
	auditService := service.NewAuditService(app.DB, log, auditLogRepo)
	mailer := mail.NewMailer(cfg.SMTP, log)

	var slotClaimService *service.SlotClaimService
	if strict {
		slotClaimService = service.NewSlotClaimService(app.RedisClient, appointmentRepo, log)
		if err := slotClaimService.SyncOnStartup(ctx); err != nil {
			return fmt.Errorf("failed to sync slot claims: %w", err)
		}
	}
	log.Infof("Booking slot policy: %s", cfg.Booking.SlotPolicy)

	// Usecases
	authUsecase := usecase.NewAuthUsecase(log, userRepo, jwtService, app.RedisClient, mailer, auditService, cfg.Auth.OTPExpiry)
	doctorUsecase := usecase.NewDoctorUsecase(log, doctorRepo, auditService, cfg.Auth.DoctorDefaultPassword)
	appointmentUsecase := usecase.NewAppointmentUsecase(log, appointmentRepo, doctorRepo, slotClaimService, auditService, cfg.Booking.SlotPolicy, location)
	planUsecase := usecase.NewPlanUsecase(log, planRepo, auditService)
	crmUsecase := usecase.NewCRMUsecase(log, crmRepo, auditService, location)
	contactUsecase := usecase.NewContactUsecase(log, contactRepo)
	contactMessageUsecase := usecase.NewContactMessageUsecase(log, contactMessageRepo, auditService)
	auditLogUsecase := usecase.NewAuditLogUsecase(app.DB, log, auditLogRepo)

	// Handlers
	healthChecks := map[string]handler.HealthCheck{
		"mongo": func(ctx context.Context) error {
			client, err := app.Mongo.Client(ctx)
			if err != nil {
				return err
			}
			return client.Ping(ctx, nil)
		},
		"redis": func(ctx context.Context) error {
			return app.RedisClient.Ping(ctx).Err()
		},
	}
	if app.DB != nil {
		healthChecks["postgres"] = func(ctx context.Context) error {
			sqlDB, err := app.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}
	}

	router := deliveryHttp.NewRouter(
		handler.NewAuthHandler(authUsecase, customValidator, cfg.App.IsProduction()),
		handler.NewDoctorHandler(doctorUsecase, customValidator),
		handler.NewAppointmentHandler(appointmentUsecase, customValidator),
		handler.NewPlanHandler(planUsecase, customValidator),
		handler.NewCRMHandler(crmUsecase, customValidator),
		handler.NewContactHandler(contactUsecase, contactMessageUsecase, customValidator),
		handler.NewAuditLogHandler(auditLogUsecase),
		handler.NewHealthHandler(healthChecks),
		middleware.NewAuthMiddleware(jwtService, app.RedisClient),
		middleware.NewCORSMiddleware(cfg.CORS.AllowedOrigins),
		middleware.NewLoggingMiddleware(log),
	)

	app.Server = &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.App.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Jobs
	var syncer job.SlotSyncer
	if slotClaimService != nil {
		syncer = slotClaimService
	}
	scheduler, err := job.NewScheduler(log, location, authUsecase, syncer)
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}
	app.Scheduler = scheduler

	return nil
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	app.Scheduler.Start()

	go func() {
		app.Log.Infof("Server starting on port %s", app.Config.App.Port)
		app.Log.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	app.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := app.Server.Shutdown(ctx); err != nil {
		app.Log.Errorf("Server forced to shutdown: %v", err)
	}

	app.Scheduler.Stop(ctx)
	app.Close()

	app.Log.Info("Server shutdown complete")
}

// Close closes Mongo, Redis and Postgres, in that order
func (app *App) Close() {
	if app.Mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		if err := app.Mongo.Disconnect(ctx); err != nil {
			app.Log.Warnf("Failed to disconnect MongoDB: %v", err)
		}
		cancel()
	}

	if app.RedisClient != nil {
		app.RedisClient.Close()
	}

	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
}
