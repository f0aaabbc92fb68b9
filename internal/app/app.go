package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"ritual_tracker_backend/internal/config"
	"ritual_tracker_backend/internal/controller"
	"ritual_tracker_backend/internal/repository"
	"ritual_tracker_backend/internal/service"
	"ritual_tracker_backend/pkg/database"
	"ritual_tracker_backend/pkg/logger"
	"ritual_tracker_backend/pkg/monitoring"
	"ritual_tracker_backend/pkg/security"
	"ritual_tracker_backend/pkg/tracing"
	"syscall"
	"time"

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
	ritual  *repository.RitualRepository
	session *repository.PracticeSessionRepository
}

type services struct {
	auth     *service.AuthService
	user     *service.UserService
	timer    *service.TimerService
	stats    *service.StatsService
	practice *service.PracticeService
}

type controllers struct {
	auth      *controller.AuthController
	ritual    *controller.RitualController
	practice  *controller.PracticeController
	dashboard *controller.DashboardController
	user      *controller.UserController
	health    *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client, cfg *config.Config) *repositories {
	return &repositories{
		user:    repository.NewUserRepository(db),
		ritual:  repository.NewRitualRepository(db, rdb, cfg.Practice.CatalogCacheTTL),
		session: repository.NewPracticeSessionRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config) *services {
	s := &services{}

	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user)
	s.timer = service.NewTimerService(repos.ritual)
	s.stats = service.NewStatsService(repos.session, repos.ritual, cfg.Practice.RecentSessionsLimit)
	s.practice = service.NewPracticeService(repos.session, repos.ritual, s.timer, s.stats)

	return s
}

func (a *App) initControllers(s *services, repos *repositories, db *gorm.DB) *controllers {
	return &controllers{
		auth:      controller.NewAuthController(s.auth),
		ritual:    controller.NewRitualController(repos.ritual),
		practice:  controller.NewPracticeController(s.timer, s.practice, s.stats),
		dashboard: controller.NewDashboardController(s.stats),
		user:      controller.NewUserController(s.user, s.auth, s.stats),
		health:    controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 10000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db, rdb, cfg)
	services := app.initServices(repos, cfg)
	controllers := app.initControllers(services, repos, db)

	// 监控初始化
	monitoring.Init()

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("ritual-tracker", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
			}
		}()
	}

	app.registerRoutes(router, controllers, repos, cfg)

	return app
}

// ApplyConfig 应用热加载后的配置。路由和连接池在启动时已固定，
// 这里只替换运行期读取的配置引用
func (a *App) ApplyConfig(cfg *config.Config) {
	a.Config = cfg
	logger.Log.Info("Config reloaded", zap.String("port", cfg.Server.Port))
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

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

	log.Println("Server exiting")
}
