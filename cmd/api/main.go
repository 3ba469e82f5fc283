package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"hatchops/docs"
	"hatchops/internal/config"
	"hatchops/internal/database"
	"hatchops/internal/database/migration"
	handlers "hatchops/internal/http/handler"
	"hatchops/internal/http/middleware"
	"hatchops/internal/notify"
	"hatchops/internal/otel"
	"hatchops/internal/repository/postgres"
	"hatchops/internal/scheduler"
	"hatchops/internal/service"
	"hatchops/internal/storage"
	"hatchops/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

// @title Hatchery Operations API
// @version 1.0
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	log := logger.Must(logger.New(cfg.Log))
	defer log.Sync()
	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid_configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, logger.Named(log, "otel"))
	if err != nil {
		log.Fatal("tracing_init_failed", zap.Error(err))
	}

	db, err := database.NewPostgres(ctx, cfg.Database, logger.Named(log, "database"))
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := migration.Migrate(ctx, db, logger.Named(log, "migration"), cfg.Database.Host); err != nil {
		log.Fatal("failed to migrate database", zap.Error(err))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	if err := database.RegisterPoolMetrics(reg, db); err != nil {
		log.Fatal("failed to register pool metrics", zap.Error(err))
	}
	httpMetrics, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.Fatal("failed to register http metrics", zap.Error(err))
	}
	approvalMetrics, err := service.NewApprovalMetrics(reg)
	if err != nil {
		log.Fatal("failed to register approval metrics", zap.Error(err))
	}

	// S3-compatible object storage for report exports
	objStore, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		log.Fatal("failed to initialize object storage", zap.Error(err))
	}

	// Repositories
	companyRepo := postgres.NewCompanyPostgres(db)
	shedRepo := postgres.NewShedPostgres(db)
	userRepo := postgres.NewUserPostgres(db)
	psRepo := postgres.NewPsReceivePostgres(db)
	firmRepo := postgres.NewFirmReceivePostgres(db)
	shedReceiveRepo := postgres.NewShedReceivePostgres(db)
	batchRepo := postgres.NewBatchAssignPostgres(db)
	transferRepo := postgres.NewBirdTransferPostgres(db)
	approvalRepo := postgres.NewApprovalPostgres(db)

	// Services
	loc := cfg.Location()
	notifier := notify.NewAsync(notify.New(cfg.Notify), cfg.Notify, logger.Named(log, "notify"))
	approvals := service.NewApprovalService(approvalRepo, notifier, approvalMetrics, logger.Named(log, "approval"))
	auth := service.NewAuthService(userRepo, cfg.Auth, logger.Named(log, "auth"))
	reports := service.NewReportService(postgres.NewReportPostgres(db), batchRepo, objStore, loc, logger.Named(log, "report"))
	svc := handlers.Services{
		Auth:               auth,
		Companies:          service.NewCompanyService(companyRepo),
		Sheds:              service.NewShedService(shedRepo, companyRepo),
		Users:              service.NewUserService(userRepo),
		PsReceives:         service.NewPsReceiveService(psRepo, firmRepo, companyRepo, approvals),
		FirmReceives:       service.NewFirmReceiveService(firmRepo, psRepo, shedReceiveRepo, companyRepo, approvals),
		ShedReceives:       service.NewShedReceiveService(shedReceiveRepo, firmRepo, shedRepo, batchRepo, approvals),
		BatchAssigns:       service.NewBatchAssignService(batchRepo, shedReceiveRepo, shedRepo, approvals),
		BirdTransfers:      service.NewBirdTransferService(transferRepo, batchRepo, shedRepo, approvals),
		VaccineSchedules:   service.NewVaccineScheduleService(postgres.NewVaccineSchedulePostgres(db), batchRepo),
		EggClassifications: service.NewEggClassificationService(postgres.NewEggClassificationPostgres(db), batchRepo),
		DailyOperations:    service.NewDailyOperationService(postgres.NewDailyOperationPostgres(db), batchRepo),
		Reports:            reports,
		Approvals:          approvals,
	}

	if _, err := auth.BootstrapAdmin(ctx); err != nil {
		log.Fatal("failed to bootstrap admin", zap.Error(err))
	}

	jobs := scheduler.NewScheduler(cfg.Scheduler, approvals, reports, loc, logger.Named(log, "scheduler"))
	if err := jobs.Start(); err != nil {
		log.Fatal("failed to start scheduler", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	})

	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(middleware.RequestID())
	app.Use(otelfiber.Middleware())
	app.Use(middleware.Logger(logger.Named(log, "http")))
	app.Use(httpMetrics.Handler())

	handlers.RegisterRoutes(app, db, reg, svc)

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info("http_server_started", zap.String("addr", ":"+cfg.Port))
		errCh <- app.Listen(":" + cfg.Port)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown_signal_received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Error("http_server_failed", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error("http_shutdown_failed", zap.Error(err))
	}
	select {
	case <-jobs.Stop().Done():
	case <-shutdownCtx.Done():
		log.Warn("scheduler_jobs_still_running")
	}
	if err := notifier.Close(shutdownCtx); err != nil {
		log.Warn("approval_notifications_pending", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error("tracing_shutdown_failed", zap.Error(err))
	}
	log.Info("shutdown_complete")
}
