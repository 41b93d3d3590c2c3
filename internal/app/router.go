package app

import (
	"exam_practice_backend/docs"
	"exam_practice_backend/internal/config"
	"exam_practice_backend/internal/middleware"
	"exam_practice_backend/internal/model"

	"exam_practice_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 游客可看的题库概览，带合法token时附带个人待复习数
	preview := router.Group("/api")
	preview.Use(middleware.TryAuthMiddleware(cfg))
	{
		preview.GET("/bank/overview", c.dashboard.BankOverview)
	}

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		a.registerStudentRoutes(authGroup, c)
	}

	// 3. 管理员相关接口
	a.registerAdminRoutes(router, c, repos, cfg)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}
}

func (a *App) registerStudentRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/profile", c.auth.GetProfile)
	rg.PUT("/profile", c.user.UpdateProfile)
	rg.PUT("/profile/password", c.user.ChangePassword)
	rg.POST("/profile/avatar", c.user.UploadAvatar)
	rg.GET("/dashboard", c.dashboard.StudentOverview)

	// 练习会话
	practice := rg.Group("/practice")
	{
		practice.POST("/sessions", c.practice.CreateSession)
		practice.GET("/sessions/:id", c.practice.GetSession)
		practice.GET("/sessions/:id/question", c.practice.CurrentQuestion)
		practice.POST("/sessions/:id/select", c.practice.SelectAnswer)
		practice.POST("/sessions/:id/submit", c.practice.SubmitAnswer)
		practice.POST("/sessions/:id/advance", c.practice.Advance)
		practice.GET("/sessions/:id/summary", c.practice.Summary)
		practice.GET("/tasks", c.practice.ListTasks)
	}

	// 错题本与错因分析
	wrong := rg.Group("/wrong-questions")
	{
		wrong.GET("", c.wrong.List)
		wrong.GET("/stats", c.wrong.Counts)
		wrong.POST("/:questionId/master", c.wrong.MarkMastered)
		wrong.POST("/analysis", c.wrong.GenerateAnalysis)
		wrong.GET("/analysis", c.wrong.ListAnalysis)
		wrong.GET("/analysis/latest", c.wrong.LatestAnalysis)
	}
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))

	// 平台管理，仅管理员
	ops := admin.Group("")
	ops.Use(middleware.RoleMiddleware(model.Admin))
	{
		ops.GET("/dashboard", c.dashboard.AdminOverview)
		ops.GET("/users", c.user.ListUsers)
		ops.PUT("/users/:id", c.user.UpdateUser)
		ops.POST("/users/:id/reset-password", c.user.ResetPassword)
	}

	// 题库维护对教师开放，管理员经 RoleMiddleware 直接放行
	bank := admin.Group("/questions")
	bank.Use(middleware.RoleMiddleware(model.Teacher, model.Admin))
	{
		bank.GET("", c.question.List)
		bank.POST("", c.question.Create)
		bank.GET("/duplicates", c.question.ScanDuplicates)
		bank.POST("/import", c.question.Import)
		bank.GET("/:id", c.question.Get)
		bank.PUT("/:id", c.question.Update)
		bank.DELETE("/:id", c.question.Delete)
		bank.POST("/:id/image", c.question.AttachImage)
	}
}
