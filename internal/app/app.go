package app

import (
	"clarity_hub_backend/internal/config"
	"clarity_hub_backend/internal/controller"
	"clarity_hub_backend/internal/repository"
	"clarity_hub_backend/internal/service"
	"clarity_hub_backend/internal/util"
	"clarity_hub_backend/pkg/configwatcher"
	"clarity_hub_backend/pkg/database"
	"clarity_hub_backend/pkg/logger"
	"clarity_hub_backend/pkg/monitoring"
	"clarity_hub_backend/pkg/security"
	"clarity_hub_backend/pkg/tracing"
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const configDir = "configs"

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	tracer          *sdktrace.TracerProvider
	configCallbacks []func(*config.Config)
}

type repositories struct {
	roadmap       *repository.RoadmapRepository
	quiz          *repository.QuizRepository
	subtopicCache *repository.SubtopicCacheRepository
}

type services struct {
	roadmap        *service.RoadmapService
	quiz           *service.QuizService
	subtopicDetail *service.SubtopicDetailService
}

type controllers struct {
	roadmap  *controller.RoadmapController
	quiz     *controller.QuizController
	subtopic *controller.SubtopicController
	health   *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client) *repositories {
	repos := &repositories{
		roadmap: repository.NewRoadmapRepository(db),
		quiz:    repository.NewQuizRepository(db),
	}
	if rdb != nil {
		repos.subtopicCache = repository.NewSubtopicCacheRepository(rdb)
	}
	return repos
}

func (a *App) initServices(repos *repositories, cfg *config.Config, generator service.ContentGenerator) *services {
	// Redis 不可用时只用数据库缓存
	var cache service.DetailCache
	if repos.subtopicCache != nil {
		cache = repos.subtopicCache
	}

	return &services{
		roadmap:        service.NewRoadmapService(repos.roadmap, generator),
		quiz:           service.NewQuizService(repos.quiz, generator),
		subtopicDetail: service.NewSubtopicDetailService(repos.roadmap, cache, generator, cfg.Cache.DetailTTL),
	}
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		roadmap:  controller.NewRoadmapController(s.roadmap),
		quiz:     controller.NewQuizController(s.quiz),
		subtopic: controller.NewSubtopicController(s.subtopicDetail),
		health:   controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	if cfg.RateLimit.MaxRequests > 0 && cfg.RateLimit.WindowMinutes > 0 {
		router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))
	}

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// build 组装仓储、服务、控制器和路由，rdb 可以为空
func build(cfg *config.Config, db *gorm.DB, rdb *redis.Client, generator service.ContentGenerator) *App {
	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	util.RegisterValidation()
	monitoring.Init()

	repos := app.initRepositories(db, rdb)
	services := app.initServices(repos, cfg, generator)
	controllers := app.initControllers(services, db, rdb)

	gin.SetMode(cfg.Server.Mode)
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, cfg)

	app.RegisterConfigCallback(logger.SetLevel)
	return app
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		logger.Log.Fatal("Failed to migrate database", zap.Error(err))
	}
	if cfg.MigrateOnly {
		return &App{Config: cfg, DB: db}
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Warn("Redis unavailable, subtopic details are served from the database only", zap.Error(err))
		rdb = nil
	}

	generator, err := service.NewContentGenerator(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to initialize content generator", zap.Error(err))
	}

	app := build(cfg, db, rdb, generator)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(tracing.ServiceName, cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	logger.Log.Info("Application initialized",
		zap.String("mode", cfg.Server.Mode),
		zap.String("generation_provider", cfg.Generation.Provider),
		zap.Bool("redis", rdb != nil))
	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	watchCtx, stopWatch := context.WithCancel(context.Background())
	defer stopWatch()
	go func() {
		err := configwatcher.WatchConfig(watchCtx, filepath.Join(configDir, "config.yaml"), func(newCfg *config.Config) {
			for _, callback := range a.configCallbacks {
				callback(newCfg)
			}
		})
		if err != nil {
			logger.Log.Warn("Config hot reload disabled", zap.Error(err))
		}
	}()

	// 启动服务器
	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}

	log.Println("Server exiting")
}
