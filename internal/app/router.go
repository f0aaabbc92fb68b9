package app

import (
	"ritual_tracker_backend/docs"
	"ritual_tracker_backend/internal/config"
	"ritual_tracker_backend/internal/middleware"
	"ritual_tracker_backend/internal/model"
	"ritual_tracker_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/login", c.auth.Login)
		public.POST("/admin/login", c.auth.AdminLogin)
		public.GET("/rituals", c.ritual.ListRituals)
		public.GET("/rituals/:id", c.ritual.GetRitual)
	}

	// 2. 学生授权接口
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		authGroup.GET("/profile", c.auth.GetProfile)
		authGroup.GET("/dashboard", c.dashboard.GetDashboard)

		practice := authGroup.Group("/practice/:ritualId")
		{
			practice.POST("/timer/start", c.practice.StartTimer)
			practice.POST("/timer/pause", c.practice.PauseTimer)
			practice.POST("/timer/resume", c.practice.ResumeTimer)
			practice.POST("/timer/stop", c.practice.StopTimer)
			practice.POST("/timer/reset", c.practice.ResetTimer)
			practice.GET("/timer", c.practice.GetTimer)
			practice.DELETE("/timer", c.practice.DiscardTimer)
			practice.POST("/save", c.practice.SaveSession)
			practice.GET("/stats", c.practice.GetStats)
			practice.GET("/sessions", c.practice.GetRecentSessions)
		}
	}

	// 3. 管理员接口
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Admin))
	{
		admin.GET("/students", c.user.ListStudents)
		admin.POST("/students", c.user.CreateStudent)
		admin.PUT("/students/:id", c.user.UpdateStudent)
		admin.DELETE("/students/:id", c.user.DeleteStudent)
		admin.POST("/students/:id/reset-password", c.user.ResetStudentPassword)
		admin.GET("/students/:id/stats", c.user.GetStudentStats)
	}
}
