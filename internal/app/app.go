package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/abdallahade1/ConceptCatch/internal/config"
	"github.com/abdallahade1/ConceptCatch/internal/controller"
	"github.com/abdallahade1/ConceptCatch/internal/repository"
	"github.com/abdallahade1/ConceptCatch/internal/service"
	"github.com/abdallahade1/ConceptCatch/pkg/database"
	"github.com/abdallahade1/ConceptCatch/pkg/logger"
	"github.com/abdallahade1/ConceptCatch/pkg/monitoring"
	"github.com/abdallahade1/ConceptCatch/pkg/security"
	"github.com/abdallahade1/ConceptCatch/pkg/tracing"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client
}

type repositories struct {
	user    *repository.UserRepository
	quiz    *repository.QuizRepository
	attempt *repository.AttemptRepository
	mistake *repository.MistakeRepository
	share   *repository.ShareRepository
}

type services struct {
	auth       *service.AuthService
	llm        *service.LLMService
	storage    *service.StorageService
	quiz       *service.QuizService
	document   *service.DocumentService
	export     *service.ExportService
	analytics  *service.AnalyticsService
	evaluation *service.EvaluationService
	feedback   *service.FeedbackService
}

type controllers struct {
	auth      *controller.AuthController
	quiz      *controller.QuizController
	attempt   *controller.AttemptController
	analytics *controller.AnalyticsController
	document  *controller.DocumentController
	feedback  *controller.FeedbackController
	health    *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:    repository.NewUserRepository(db),
		quiz:    repository.NewQuizRepository(db),
		attempt: repository.NewAttemptRepository(db),
		mistake: repository.NewMistakeRepository(db),
		share:   repository.NewShareRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.llm = service.NewLLMService(cfg.AI)
	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg.JWT)
	s.quiz = service.NewQuizService(repos.quiz, repos.share, repos.mistake, s.llm)
	s.document = service.NewDocumentService(cfg.Upload, s.llm)
	s.export = service.NewExportService(s.quiz, s.storage)
	s.analytics = service.NewAnalyticsService(repos.attempt, repos.mistake, repos.quiz, rdb)
	s.evaluation = service.NewEvaluationService(s.quiz, repos.attempt, repos.mistake, s.llm, s.analytics)
	s.feedback = service.NewFeedbackService(s.llm)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:      controller.NewAuthController(s.auth),
		quiz:      controller.NewQuizController(s.quiz, s.document, s.export),
		attempt:   controller.NewAttemptController(s.evaluation),
		analytics: controller.NewAnalyticsController(s.analytics),
		document:  controller.NewDocumentController(s.document),
		feedback:  controller.NewFeedbackController(s.feedback),
		health:    controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 600
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	// AutoMigrate already ran inside InitDB.
	if cfg.MigrateOnly {
		return &App{Config: cfg, DB: db}
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		// Analytics caching degrades gracefully without Redis.
		logger.Log.Warn("Redis unavailable, analytics caching disabled", zap.Error(err))
		rdb = nil
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	controllers := app.initControllers(services, db)

	monitoring.Init()

	gin.SetMode(ginMode(cfg.Server.Mode))
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("conceptcatch", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/files", cfg.Storage.LocalPath)
	}

	return app
}

func ginMode(mode string) string {
	switch mode {
	case "release":
		return gin.ReleaseMode
	case "test":
		return gin.TestMode
	default:
		return gin.DebugMode
	}
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	logger.Log.Info("Server exiting")
}
