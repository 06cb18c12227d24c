package app

import (
	"training_portal_backend/docs"
	"training_portal_backend/internal/config"
	"training_portal_backend/internal/middleware"
	"training_portal_backend/internal/model"
	"training_portal_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	a.registerPublicRoutes(router, c)

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		a.registerLearnerRoutes(authGroup, c)
		a.registerAdminRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)

		// Third parties confirm a certificate without an account.
		public.GET("/certificates/verify/:code", c.certificate.Verify)
	}
}

func (a *App) registerLearnerRoutes(group *gin.RouterGroup, c *controllers) {
	group.GET("/me", c.auth.Me)

	group.GET("/courses", c.course.List)
	group.GET("/courses/:id", c.course.Get)
	group.POST("/courses/:id/enroll", c.course.Enroll)
	group.GET("/courses/:id/state", c.course.State)
	group.GET("/courses/:id/eligibility", c.course.Eligibility)

	group.GET("/enrollments", c.enrollment.List)
	group.PUT("/enrollments/:id/progress", c.enrollment.UpdateProgress)

	group.GET("/quizzes/:id", c.quiz.Get)
	group.POST("/quizzes/:id/attempts", c.quiz.SubmitAttempt)
	group.GET("/quizzes/:id/attempts", c.quiz.ListAttempts)

	group.POST("/courses/:id/certificate", c.certificate.Request)
	group.GET("/certificates", c.certificate.List)

	group.POST("/courses/:id/feedback", c.feedback.Submit)
	group.GET("/courses/:id/feedback", c.feedback.ListByCourse)
}

func (a *App) registerAdminRoutes(group *gin.RouterGroup, c *controllers) {
	admin := group.Group("/admin")
	admin.Use(middleware.RoleMiddleware(model.Admin))
	{
		admin.POST("/courses", c.admin.CreateCourse)
		admin.PUT("/courses/:id/active", c.admin.SetCourseActive)
		admin.POST("/courses/:id/quiz", c.admin.AttachQuiz)
		admin.POST("/courses/:id/video", c.admin.UploadVideo)
	}
}
