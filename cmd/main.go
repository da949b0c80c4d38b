package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"sky_takeout/internal/api/dto"
	"sky_takeout/internal/controller"
	"sky_takeout/internal/middleware"
	"sky_takeout/internal/model"
	"sky_takeout/internal/repository"
	"sky_takeout/internal/router"
	"sky_takeout/internal/service"
	"sky_takeout/internal/task"
	"sky_takeout/pkg/config"
	"sky_takeout/pkg/database"
	"sky_takeout/pkg/logger"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:           "sky_takeout",
		Short:         "外卖后台菜品/套餐管理服务",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "配置文件路径")

	root.AddCommand(serveCmd(), migrateCmd(), seedAdminCmd(), cleanupImagesCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// ==================== 子命令 ====================

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "启动 HTTP 服务",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := bootstrap()
			if err != nil {
				return err
			}
			defer logger.Sync()

			// 1. 初始化依赖
			deps, err := initDependencies(cfg, db)
			if err != nil {
				return err
			}

			// 2. 启动定时任务
			if err := deps.Tasks.Start(); err != nil {
				return err
			}
			defer deps.Tasks.Stop()

			// 3. 初始化路由
			gin.SetMode(cfg.Server.Mode)
			r := router.SetupRouter(deps.Controllers, router.Options{
				Logger:        logger.L(),
				AllowOrigins:  cfg.Server.AllowOrigins,
				UploadDir:     deps.Services.Storage.LocalDir(),
				LoginLimiter:  deps.LoginLimiter,
				LoginCooldown: cfg.Server.LoginCooldown,
			})

			// 4. 启动服务
			return startServer(r, cfg.Server.Port)
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "执行数据库迁移",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := bootstrap()
			if err != nil {
				return err
			}
			defer logger.Sync()

			if err := database.Migrate(db, model.AllModels()...); err != nil {
				return err
			}
			logger.L().Info("数据库迁移完成")
			return nil
		},
	}
}

func seedAdminCmd() *cobra.Command {
	var username, name, password string

	cmd := &cobra.Command{
		Use:   "seed-admin",
		Short: "创建后台管理员账号",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := bootstrap()
			if err != nil {
				return err
			}
			defer logger.Sync()

			if err := database.Migrate(db, model.AllModels()...); err != nil {
				return err
			}

			svc := service.NewEmployeeService(repository.NewEmployeeRepository(db))
			id, err := svc.Create(cmd.Context(), username, name, password)
			if errors.Is(err, service.ErrUsernameExists) {
				logger.L().Info("管理员账号已存在", zap.String("username", username))
				return nil
			}
			if err != nil {
				return err
			}
			logger.L().Info("管理员账号已创建", zap.Int64("id", id), zap.String("username", username))
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "admin", "登录用户名")
	cmd.Flags().StringVar(&name, "name", "管理员", "姓名")
	cmd.Flags().StringVar(&password, "password", "123456", "登录密码")
	return cmd
}

func cleanupImagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup-images",
		Short: "立即清理未被菜品或套餐引用的图片",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := bootstrap()
			if err != nil {
				return err
			}
			defer logger.Sync()

			deps, err := initDependencies(cfg, db)
			if err != nil {
				return err
			}

			result, err := deps.Tasks.TriggerImageCleanup(cmd.Context())
			if errors.Is(err, task.ErrTaskDisabled) {
				return errors.New("图片清理未启用，请配置 task.image_cleanup_cron")
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "scanned=%d deleted=%d failed=%d\n",
				result.Scanned, result.Deleted, result.Failed)
			return nil
		},
	}
}

// ==================== 初始化函数 ====================

// bootstrap 加载配置、初始化日志与数据库
func bootstrap() (*config.Config, *gorm.DB, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	if _, err := logger.Init(cfg.Log.Level); err != nil {
		return nil, nil, err
	}

	// 金额以数字而非字符串输出
	decimal.MarshalJSONWithoutQuotes = true

	if err := dto.RegisterValidators(); err != nil {
		return nil, nil, err
	}

	middleware.SetJWTConfig(&middleware.JWTConfig{
		SecretKey: cfg.JWT.Secret,
		TTL:       cfg.JWT.TTL,
		Issuer:    cfg.JWT.Issuer,
	})

	db, err := database.Open(database.Options{
		Driver:   cfg.Database.Driver,
		DSN:      cfg.Database.DSN,
		LogLevel: cfg.Database.LogLevel,
	})
	if err != nil {
		return nil, nil, err
	}

	if err := middleware.RegisterAuditCallbacks(db); err != nil {
		return nil, nil, fmt.Errorf("注册审计回调失败: %w", err)
	}
	return cfg, db, nil
}

// ==================== 依赖容器 ====================

// Dependencies 依赖容器
type Dependencies struct {
	DB          *gorm.DB
	Repos       *Repositories
	Services    *Services
	Controllers *router.Controllers
	Tasks       *task.TaskManager

	LoginLimiter *middleware.CooldownLimiter
}

// Repositories 仓库集合
type Repositories struct {
	Catalog  *repository.CatalogUnitOfWork
	Employee repository.EmployeeRepository
}

// Services 服务集合
type Services struct {
	Category *service.CategoryService
	Dish     *service.DishService
	Setmeal  *service.SetmealService
	Employee *service.EmployeeService
	Storage  *service.StorageService
}

// initDependencies 初始化所有依赖
func initDependencies(cfg *config.Config, db *gorm.DB) (*Dependencies, error) {
	if cfg.Database.AutoMigrate {
		if err := database.Migrate(db, model.AllModels()...); err != nil {
			return nil, err
		}
	}

	// -------- Repo 层 --------
	repos := &Repositories{
		Catalog:  repository.NewCatalogUnitOfWork(db),
		Employee: repository.NewEmployeeRepository(db),
	}

	// -------- 存储服务 --------
	storageSvc, err := service.NewStorageService(service.StorageConfig{
		Provider:  cfg.Storage.Provider,
		Bucket:    cfg.Storage.Bucket,
		Region:    cfg.Storage.Region,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Endpoint:  cfg.Storage.Endpoint,
		CDNDomain: cfg.Storage.CDNDomain,
		BasePath:  cfg.Storage.BasePath,
	})
	if err != nil {
		return nil, fmt.Errorf("存储服务初始化失败: %w", err)
	}

	// -------- 业务服务 --------
	index := service.NewAssociationIndex(repos.Catalog.SetmealDishes)
	services := &Services{
		Category: service.NewCategoryService(repos.Catalog),
		Dish:     service.NewDishService(repos.Catalog, index),
		Setmeal:  service.NewSetmealService(repos.Catalog, index),
		Employee: service.NewEmployeeService(repos.Employee),
		Storage:  storageSvc,
	}

	// -------- Controller 层 --------
	loginLimiter := middleware.NewCooldownLimiter()
	controllers := &router.Controllers{
		Employee:    controller.NewEmployeeController(services.Employee, loginLimiter),
		Category:    controller.NewCategoryController(services.Category),
		Dish:        controller.NewDishController(services.Dish),
		Setmeal:     controller.NewSetmealController(services.Setmeal),
		Common:      controller.NewCommonController(services.Storage),
		UserCatalog: controller.NewUserCatalogController(services.Category, services.Dish, services.Setmeal),
	}

	// -------- 定时任务 --------
	tasks := task.NewTaskManager(&task.TaskManagerDeps{
		ImageStore:   storageSvc,
		ImageSources: []task.ImageSource{repos.Catalog.Dishes, repos.Catalog.Setmeals},
	}, &task.TaskManagerConfig{
		ImageCleanupEnabled: cfg.Task.ImageCleanupCron != "",
		ImageCleanupCron:    cfg.Task.ImageCleanupCron,
		ImageCleanupGrace:   cfg.Task.ImageCleanupGrace,
	})

	return &Dependencies{
		DB:          db,
		Repos:       repos,
		Services:    services,
		Controllers: controllers,
		Tasks:       tasks,

		LoginLimiter: loginLimiter,
	}, nil
}

// ==================== 服务启动 ====================

// startServer 启动服务，收到退出信号后优雅关闭
func startServer(r *gin.Engine, port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.L().Info("服务启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("服务启动失败: %w", err)
	case <-quit:
	}

	logger.L().Info("正在关闭服务...")

	// 优雅关闭，最多等待 30 秒
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("服务强制关闭: %w", err)
	}

	logger.L().Info("服务已退出")
	return nil
}
