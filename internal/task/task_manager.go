package task

import (
	"context"
	"time"

	"sky_takeout/pkg/logger"
)

// ==================== TaskManager 后台任务管理器 ====================

// TaskManager 统一管理后台定时任务
type TaskManager struct {
	imageCleanup *ImageCleanupTask
}

// TaskManagerDeps 任务管理器依赖
type TaskManagerDeps struct {
	ImageStore   ImageStore
	ImageSources []ImageSource
}

// TaskManagerConfig 任务管理器配置
type TaskManagerConfig struct {
	ImageCleanupEnabled bool
	ImageCleanupCron    string
	ImageCleanupGrace   time.Duration
}

// DefaultConfig 默认配置
func DefaultConfig() *TaskManagerConfig {
	return &TaskManagerConfig{
		ImageCleanupEnabled: true,
		ImageCleanupCron:    "0 30 3 * * *",
		ImageCleanupGrace:   24 * time.Hour,
	}
}

// NewTaskManager 创建任务管理器
func NewTaskManager(deps *TaskManagerDeps, cfg *TaskManagerConfig) *TaskManager {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	tm := &TaskManager{}

	if cfg.ImageCleanupEnabled && deps.ImageStore != nil {
		tm.imageCleanup = NewImageCleanupTask(
			deps.ImageStore,
			cfg.ImageCleanupCron,
			cfg.ImageCleanupGrace,
			deps.ImageSources...,
		)
	}

	return tm
}

// ==================== 生命周期管理 ====================

// Start 启动所有任务
func (tm *TaskManager) Start() error {
	logger.L().Info("[TaskManager] 正在启动后台任务...")

	if tm.imageCleanup != nil {
		if err := tm.imageCleanup.Start(); err != nil {
			return err
		}
	}

	logger.L().Info("[TaskManager] 后台任务已全部启动")
	return nil
}

// Stop 停止所有任务
func (tm *TaskManager) Stop() {
	if tm.imageCleanup != nil {
		tm.imageCleanup.Stop()
	}
	logger.L().Info("[TaskManager] 后台任务已全部停止")
}

// ==================== 手动触发接口 ====================

// TriggerImageCleanup 立即执行一次图片清理
func (tm *TaskManager) TriggerImageCleanup(ctx context.Context) (*CleanupResult, error) {
	if tm.imageCleanup == nil {
		return nil, ErrTaskDisabled
	}
	return tm.imageCleanup.RunOnce(ctx)
}

// ==================== 错误定义 ====================

type TaskError string

func (e TaskError) Error() string { return string(e) }

const (
	ErrTaskDisabled TaskError = "task is disabled"
)
