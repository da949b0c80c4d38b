package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"sky_takeout/internal/controller"
	"sky_takeout/internal/middleware"
)

// Controllers 控制器集合
type Controllers struct {
	Employee    *controller.EmployeeController
	Category    *controller.CategoryController
	Dish        *controller.DishController
	Setmeal     *controller.SetmealController
	Common      *controller.CommonController
	UserCatalog *controller.UserCatalogController
}

// Options 路由选项
type Options struct {
	Logger        *zap.Logger
	AllowOrigins  []string
	UploadDir     string // 本地存储目录，非空时挂载 /uploads 静态访问
	LoginLimiter  *middleware.CooldownLimiter
	LoginCooldown time.Duration
}

// SetupRouter 创建 gin 引擎并注册所有路由
func SetupRouter(ctrls *Controllers, opts Options) *gin.Engine {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	r := gin.New()
	r.Use(
		middleware.RequestLogger(log),
		middleware.Recovery(log),
		middleware.Metrics(),
		cors.New(corsConfig(opts.AllowOrigins)),
	)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if opts.UploadDir != "" {
		r.Static("/uploads", opts.UploadDir)
	}

	InitRoutes(r, ctrls, opts)
	return r
}

// InitRoutes 注册业务路由
func InitRoutes(r *gin.Engine, ctrls *Controllers, opts Options) {
	// 1. 管理端
	admin := r.Group("/admin")
	{
		// POST /admin/employee/login 无需登录，按 IP 冷却
		login := []gin.HandlerFunc{}
		if opts.LoginLimiter != nil {
			login = append(login, middleware.Cooldown(opts.LoginLimiter, "login", opts.LoginCooldown, middleware.ClientIPKey))
		}
		login = append(login, ctrls.Employee.Login)
		admin.POST("/employee/login", login...)
	}

	authed := admin.Group("", middleware.JWTAuth(), middleware.AuditContext())
	{
		authed.POST("/employee/logout", ctrls.Employee.Logout)

		category := authed.Group("/category")
		{
			category.POST("", ctrls.Category.Create)
			category.PUT("", ctrls.Category.Update)
			category.DELETE("", ctrls.Category.Delete)
			category.GET("/page", ctrls.Category.Page)
			category.GET("/list", ctrls.Category.List)
			category.POST("/status/:status", ctrls.Category.SetStatus)
		}

		dish := authed.Group("/dish")
		{
			dish.POST("", ctrls.Dish.Create)
			dish.PUT("", ctrls.Dish.Update)
			// DELETE /admin/dish?ids=1,2,3
			dish.DELETE("", ctrls.Dish.Delete)
			dish.GET("/page", ctrls.Dish.Page)
			dish.GET("/list", ctrls.Dish.ListByCategory)
			dish.GET("/:id", ctrls.Dish.Get)
			dish.POST("/status/:status", ctrls.Dish.SetStatus)
		}

		setmeal := authed.Group("/setmeal")
		{
			setmeal.POST("", ctrls.Setmeal.Create)
			setmeal.PUT("", ctrls.Setmeal.Update)
			setmeal.DELETE("", ctrls.Setmeal.Delete)
			setmeal.GET("/page", ctrls.Setmeal.Page)
			setmeal.GET("/:id", ctrls.Setmeal.Get)
			setmeal.POST("/status/:status", ctrls.Setmeal.SetStatus)
		}

		common := authed.Group("/common")
		{
			common.POST("/upload", ctrls.Common.Upload)
			common.POST("/upload/url", ctrls.Common.UploadFromURL)
		}
	}

	// 2. 用户端，只读
	user := r.Group("/user")
	{
		user.GET("/category/list", ctrls.UserCatalog.Categories)
		user.GET("/dish/list", ctrls.UserCatalog.Dishes)
		user.GET("/setmeal/list", ctrls.UserCatalog.Setmeals)
		user.GET("/setmeal/dish/:id", ctrls.UserCatalog.SetmealDishes)
	}
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "token"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
