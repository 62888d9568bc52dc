package router

import (
	"io/fs"
	"net/http"
	"time"

	"ledger/api"
	"ledger/config"
	_ "ledger/docs"
	"ledger/middleware"
	"ledger/web"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config) *gin.Engine {
	// 设置运行模式
	gin.SetMode(cfg.Server.Mode)

	r := gin.Default()

	// CORS 中间件
	r.Use(CORSMiddleware())

	// 嵌入的静态页面
	staticFS, _ := fs.Sub(web.StaticFS, ".")

	servePage := func(name string) gin.HandlerFunc {
		return func(c *gin.Context) {
			content, err := fs.ReadFile(staticFS, name)
			if err != nil {
				c.String(http.StatusInternalServerError, "加载页面失败")
				return
			}
			c.Data(http.StatusOK, "text/html; charset=utf-8", content)
		}
	}

	// 首页需要有效会话，未登录跳转到登录页
	r.GET("/", func(c *gin.Context) {
		token, err := c.Cookie(middleware.SessionCookieName)
		if err != nil || token == "" {
			c.Redirect(http.StatusFound, "/login")
			return
		}
		if _, err := middleware.ParseToken(token); err != nil {
			c.Redirect(http.StatusFound, "/login")
			return
		}
		servePage("index.html")(c)
	})
	r.GET("/login", servePage("login.html"))

	// Swagger 文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API v1 路由组
	v1 := r.Group("/api/v1")
	{
		// 认证相关路由（无需登录）
		authHandler := api.NewAuthHandler(cfg)
		passwordResetHandler := api.NewPasswordResetHandler(cfg)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", middleware.LoginRateLimit(10, time.Minute), authHandler.Login)
			auth.POST("/logout", authHandler.Logout)

			// 密码重置（无需登录）
			auth.POST("/password/request-reset", passwordResetHandler.RequestPasswordReset)
			auth.GET("/password/verify-token", passwordResetHandler.VerifyResetToken)
			auth.POST("/password/reset", passwordResetHandler.ResetPassword)
		}

		// 账户表单元数据（无需登录，登录页注册表单也会用到）
		accountHandler := api.NewAccountHandler()
		v1.GET("/accounts/meta", accountHandler.GetMeta)

		// 需要 JWT 认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth())
		{
			// 用户相关
			authorized.GET("/auth/profile", authHandler.GetProfile)
			authorized.PUT("/auth/password", authHandler.ChangePassword)

			// 资金账户
			accounts := authorized.Group("/accounts")
			{
				accounts.POST("", accountHandler.Create)
				accounts.GET("", accountHandler.List)
			}

			// 交易分类
			categoryHandler := api.NewCategoryHandler()
			categories := authorized.Group("/categories")
			{
				categories.POST("", categoryHandler.Create)
				categories.GET("", categoryHandler.List)
			}

			// 交易记录
			transactionHandler := api.NewTransactionHandler()
			transactions := authorized.Group("/transactions")
			{
				transactions.POST("", transactionHandler.Create)
				transactions.GET("", transactionHandler.List)
				transactions.GET("/:id", transactionHandler.Get)
				transactions.PUT("/:id", transactionHandler.Update)
				transactions.DELETE("/:id", transactionHandler.Delete)
			}

			// 转账
			authorized.POST("/transfers", transactionHandler.CreateTransfer)

			// 统计
			statistics := authorized.Group("/statistics")
			{
				statistics.GET("/summary", transactionHandler.GetIncomeExpenseSummary)
				statistics.GET("/categories", transactionHandler.GetCategoryStatistics)
			}

			// 导出
			exportHandler := api.NewExportHandler()
			export := authorized.Group("/export")
			{
				export.GET("/csv", exportHandler.ExportCSV)
				export.GET("/json", exportHandler.ExportJSON)
				export.GET("/excel", exportHandler.ExportExcel)
			}
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	return r
}

// CORSMiddleware CORS 跨域中间件
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
