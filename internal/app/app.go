package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"fibu_trainer_backend/internal/config"
	"fibu_trainer_backend/internal/controller"
	"fibu_trainer_backend/internal/repository"
	"fibu_trainer_backend/internal/service"
	"fibu_trainer_backend/pkg/configwatcher"
	"fibu_trainer_backend/pkg/database"
	"fibu_trainer_backend/pkg/logger"
	"fibu_trainer_backend/pkg/monitoring"
	"fibu_trainer_backend/pkg/tracing"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client

	tracerProvider *sdktrace.TracerProvider

	userRepo    *repository.UserRepository
	taskRepo    *repository.TaskRepository
	counterRepo *repository.CounterRepository

	authService     *service.AuthService
	taskService     *service.TaskService
	importService   *service.ImportService
	examService     *service.ExamService
	practiceService *service.PracticeService
	storageService  *service.StorageService

	authController         *controller.AuthController
	taskController         *controller.TaskController
	importExportController *controller.ImportExportController
	userController         *controller.UserController
	practiceController     *controller.PracticeController
	healthController       *controller.HealthController
}

func NewApp(cfg *config.Config) (*App, error) {
	logger.InitLogger(cfg)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		return nil, err
	}
	// Release deployments migrate explicitly via the -migrate flag.
	if cfg.Server.Mode != "release" || cfg.ForceMigrate {
		if err := database.Migrate(db); err != nil {
			return nil, err
		}
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		// A dead redis only disables caching, never the service.
		logger.Log.Warn("redis unavailable, continuing without cache", zap.Error(err))
		rdb = nil
	}

	var tp *sdktrace.TracerProvider
	if cfg.Tracing.Enabled {
		tp, err = tracing.InitTracer("fibu-trainer", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Warn("tracing init failed", zap.Error(err))
			tp = nil
		}
	}

	monitoring.Init()

	app := &App{
		Config:         cfg,
		DB:             db,
		Redis:          rdb,
		tracerProvider: tp,
	}

	app.initRepositories()
	app.initServices()
	app.initControllers()

	gin.SetMode(cfg.Server.Mode)
	app.Router = gin.New()
	app.setupMiddlewares()
	app.setupRoutes()

	go configwatcher.WatchConfig("configs", func(newCfg *config.Config) {
		logger.Log.Info("config reloaded",
			zap.Int("practiceExamSize", newCfg.Practice.ExamSize))
		app.Config.Practice = newCfg.Practice
		app.Config.RateLimit = newCfg.RateLimit
	})

	return app, nil
}

func (a *App) initRepositories() {
	a.userRepo = repository.NewUserRepository(a.DB)
	a.taskRepo = repository.NewTaskRepository(a.DB)
	a.counterRepo = repository.NewCounterRepository(a.DB)
}

func (a *App) initServices() {
	policy := service.NewTaskPolicy()
	a.authService = service.NewAuthService(a.userRepo, a.Config)
	a.taskService = service.NewTaskService(a.taskRepo, a.counterRepo, policy, a.Redis, logger.Log)
	a.storageService = service.NewStorageService(a.Config.Storage, logger.Log)
	a.importService = service.NewImportService(a.taskRepo, a.counterRepo, a.taskService, a.storageService, logger.Log)
	a.examService = service.NewExamService(a.userRepo, logger.Log)
	a.practiceService = service.NewPracticeService(a.taskService, a.Config)
}

func (a *App) initControllers() {
	a.authController = controller.NewAuthController(a.authService)
	a.taskController = controller.NewTaskController(a.taskService)
	a.importExportController = controller.NewImportExportController(a.importService)
	a.userController = controller.NewUserController(a.examService)
	a.practiceController = controller.NewPracticeController(a.practiceService)
	a.healthController = controller.NewHealthController(a.DB)
}

// Run starts the HTTP server and blocks until SIGINT/SIGTERM, then
// shuts down gracefully.
func (a *App) Run() error {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Log.Info("server listening", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Log.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}

	tracing.Shutdown(a.tracerProvider)
	if a.Redis != nil {
		a.Redis.Close()
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		sqlDB.Close()
	}
	logger.Log.Info("server stopped")
	return nil
}
