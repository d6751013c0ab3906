package app

import (
	"clarity_hub_backend/docs"
	"clarity_hub_backend/internal/config"
	"clarity_hub_backend/internal/middleware"
	"clarity_hub_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
	}

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		a.registerRoadmapRoutes(authGroup, c)
		a.registerQuizRoutes(authGroup, c)
	}
}

func (a *App) registerRoadmapRoutes(group *gin.RouterGroup, c *controllers) {
	group.POST("/generate-roadmap", c.roadmap.GenerateRoadmap)
	group.GET("/roadmaps", c.roadmap.ListRoadmaps)
	group.GET("/roadmap/:id", c.roadmap.GetRoadmap)
	group.POST("/roadmap/:id/progress", c.roadmap.UpdateProgress)
	group.GET("/subtopic-details", c.subtopic.GetSubtopicDetails)
}

func (a *App) registerQuizRoutes(group *gin.RouterGroup, c *controllers) {
	group.POST("/quiz", c.quiz.CreateQuiz)
	group.GET("/quizzes", c.quiz.ListQuizzes)
	group.GET("/quiz/:id", c.quiz.GetQuiz)
	group.POST("/quiz/:id/score", c.quiz.RecordScore)
}
