package router

import (
	"net/http"
	"time"

	"financas/api"
	"financas/config"
	_ "financas/docs"
	"financas/logger"
	"financas/middleware"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// 登录限流：每个 IP 每分钟 5 次
const (
	loginAttempts = 5
	loginWindow   = time.Minute
)

// Handlers 路由用到的全部处理器
type Handlers struct {
	Auth        *api.AuthHandler
	User        *api.UserHandler
	Transaction *api.TransactionHandler
	Category    *api.CategoryHandler
}

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config, h Handlers, log *logger.Logger) *gin.Engine {
	// 设置运行模式
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))

	// CORS 中间件
	r.Use(CORSMiddleware())

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/categories", h.Category.List)

		// 认证（无需登录）
		auth := apiGroup.Group("/auth")
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", middleware.LoginRateLimit(loginAttempts, loginWindow), h.Auth.Login)
		}

		// 用户，只能访问自己的数据
		users := apiGroup.Group("/users")
		users.Use(middleware.JWTAuth())
		{
			self := middleware.SameUser("userId")
			users.GET("/:userId", self, h.User.Get)
			users.PUT("/:userId", self, h.User.Update)
			users.GET("/:userId/dashboard", self, h.User.Dashboard)
			users.GET("/:userId/export", self, h.User.Export)
		}

		// 交易
		transactions := apiGroup.Group("/transactions")
		transactions.Use(middleware.JWTAuth())
		{
			self := middleware.SameUser("userId")
			transactions.POST("/:userId/entries", self, h.Transaction.CreateEntry)
			transactions.POST("/:userId/expenses", self, h.Transaction.CreateExpense)

			// 归属在服务层按 token 用户校验
			transactions.PUT("/expenses/:expenseId", h.Transaction.UpdateExpense)
			transactions.DELETE("/expenses/:expenseId", h.Transaction.DeleteExpense)
		}
	}

	// Swagger 文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return r
}

// CORSMiddleware CORS 跨域中间件
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Authorization, Accept, Origin, Cache-Control, X-Requested-With")
		h.Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
		h.Set("Access-Control-Expose-Headers", "Content-Disposition, Retry-After")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
