package app

import (
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"fibu_trainer_backend/docs"
	"fibu_trainer_backend/internal/middleware"
	"fibu_trainer_backend/internal/model"
	"fibu_trainer_backend/pkg/monitoring"
	"fibu_trainer_backend/pkg/security"
	"fibu_trainer_backend/pkg/tracing"
)

func (a *App) setupMiddlewares() {
	a.Router.Use(gin.Recovery())
	a.Router.Use(security.CORS(a.Config.CORS.AllowedOrigins))
	a.Router.Use(security.Secure())
	a.Router.Use(monitoring.MetricsMiddleware())
	if a.Config.Tracing.Enabled {
		a.Router.Use(tracing.GinMiddleware())
	}
	if a.Config.RateLimit.MaxRequests > 0 {
		window := time.Duration(a.Config.RateLimit.WindowMinutes) * time.Minute
		a.Router.Use(security.RateLimiter(a.Config.RateLimit.MaxRequests, window))
	}
}

func (a *App) setupRoutes() {
	docs.SwaggerInfo.BasePath = "/api"

	a.Router.GET("/metrics", monitoring.PrometheusHandler())
	a.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := a.Router.Group("/api")
	{
		api.GET("/health", a.healthController.Check)
		api.POST("/register", a.authController.Register)
		api.POST("/login", a.authController.Login)
	}

	auth := api.Group("")
	auth.Use(middleware.AuthMiddleware(a.Config))
	{
		auth.GET("/tasks", a.taskController.List)
		auth.POST("/tasks", a.taskController.Create)
		auth.GET("/tasks/:id", a.taskController.Get)
		auth.PUT("/tasks/:id", a.taskController.Update)
		auth.DELETE("/tasks/:id", a.taskController.Delete)

		auth.GET("/tasks/importexport", a.importExportController.Export)
		auth.POST("/tasks/importexport", a.importExportController.Import)
		auth.POST("/tasks/importtxt",
			middleware.RoleMiddleware(model.RoleAdmin),
			a.importExportController.ImportTxt)

		auth.GET("/user/exams", a.userController.GetExams)
		auth.POST("/user/exams", a.userController.PostExam)
		auth.GET("/user/badges", a.userController.GetBadges)
		auth.POST("/user/badges", a.userController.PostBadges)
		auth.GET("/user/profile", a.userController.GetProfile)

		auth.GET("/practice/exam", a.practiceController.ComposeExam)
	}
}
