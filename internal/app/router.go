package app

import (
	"github.com/abdallahade1/ConceptCatch/docs"
	"github.com/abdallahade1/ConceptCatch/internal/config"
	"github.com/abdallahade1/ConceptCatch/internal/middleware"
	"github.com/abdallahade1/ConceptCatch/internal/model"
	"github.com/abdallahade1/ConceptCatch/pkg/monitoring"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// Public routes, no token required.
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/auth/register", c.auth.Register)
		public.POST("/auth/login", c.auth.Login)
		public.GET("/quiz/shared/:code", c.quiz.Shared)
	}

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		authGroup.GET("/auth/profile", c.auth.Profile)

		authGroup.GET("/quiz", c.quiz.List)
		authGroup.GET("/quiz/:id", c.quiz.Get)
		authGroup.POST("/quiz/:id/attempt", c.attempt.Start)
		// Anyone can export a published quiz; answers stay owner-only.
		authGroup.GET("/quiz/:id/export", c.quiz.Export)
		authGroup.GET("/quiz/:id/attempts", c.attempt.ListForQuiz)

		authGroup.GET("/attempts", c.attempt.List)
		authGroup.GET("/attempts/:id", c.attempt.Get)
		authGroup.POST("/attempts/:id/submit", c.attempt.Submit)

		authGroup.GET("/analytics/student", c.analytics.Student)

		authGroup.POST("/feedback", c.feedback.Generate)
		authGroup.POST("/documents/summarize", c.document.Summarize)

		// Authoring routes, teachers only.
		teacher := authGroup.Group("")
		teacher.Use(middleware.RoleMiddleware(model.Teacher))
		{
			teacher.POST("/quiz/generate", c.quiz.Generate)
			teacher.PUT("/quiz/:id", c.quiz.Update)
			teacher.POST("/quiz/:id/publish", c.quiz.Publish)
			teacher.POST("/quiz/:id/share", c.quiz.Share)

			teacher.GET("/users/students", c.auth.ListStudents)
			teacher.GET("/analytics/teacher", c.analytics.Teacher)
		}
	}
}
