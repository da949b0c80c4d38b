package task

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"sky_takeout/internal/service"
	"sky_takeout/pkg/logger"
)

// ==================== ImageCleanupTask 图片清理任务 ====================

// ImageSource 提供当前被引用的图片地址
type ImageSource interface {
	ListImages(ctx context.Context) ([]string, error)
}

// ImageStore 可列举、可删除的图片存储
type ImageStore interface {
	List(ctx context.Context) ([]service.StoredObject, error)
	Delete(ctx context.Context, url string) error
	KeyOf(url string) (string, bool)
}

// CleanupResult 单次清理结果
type CleanupResult struct {
	Scanned int
	Deleted int
	Failed  int
}

// ImageCleanupTask 删除不再被菜品或套餐引用的上传图片
type ImageCleanupTask struct {
	store   ImageStore
	sources []ImageSource
	cron    *cron.Cron
	spec    string

	// 上传后的保护期，避免删除刚上传尚未保存到菜品的图片
	grace time.Duration
	now   func() time.Time
}

// NewImageCleanupTask 创建图片清理任务
func NewImageCleanupTask(store ImageStore, spec string, grace time.Duration, sources ...ImageSource) *ImageCleanupTask {
	if spec == "" {
		spec = "0 30 3 * * *"
	}
	return &ImageCleanupTask{
		store:   store,
		sources: sources,
		cron:    cron.New(cron.WithSeconds()),
		spec:    spec,
		grace:   grace,
		now:     time.Now,
	}
}

// Start 启动定时任务
func (t *ImageCleanupTask) Start() error {
	_, err := t.cron.AddFunc(t.spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		if _, err := t.RunOnce(ctx); err != nil {
			logger.L().Error("[ImageCleanupTask] 执行失败", zap.Error(err))
		}
	})
	if err != nil {
		return err
	}

	t.cron.Start()
	logger.L().Info("[ImageCleanupTask] 已启动", zap.String("spec", t.spec), zap.Duration("grace", t.grace))
	return nil
}

// Stop 停止任务，等待正在执行的清理结束
func (t *ImageCleanupTask) Stop() {
	ctx := t.cron.Stop()
	<-ctx.Done()
	logger.L().Info("[ImageCleanupTask] 已停止")
}

// RunOnce 执行一次清理
// 按存储 key 判断引用关系；任一引用地址无法识别时不删除任何文件
func (t *ImageCleanupTask) RunOnce(ctx context.Context) (*CleanupResult, error) {
	referenced, err := t.referencedKeys(ctx)
	if err != nil {
		return nil, err
	}

	objects, err := t.store.List(ctx)
	if err != nil {
		return nil, err
	}

	result := &CleanupResult{Scanned: len(objects)}
	cutoff := t.now().Add(-t.grace)
	var candidates []service.StoredObject
	for _, obj := range objects {
		if _, ok := referenced[obj.Key]; ok {
			continue
		}
		if obj.ModTime.After(cutoff) {
			continue
		}
		candidates = append(candidates, obj)
	}

	if len(candidates) > 0 {
		// 扫描期间可能有旧图片被重新引用，删除前再读一次
		referenced, err = t.referencedKeys(ctx)
		if err != nil {
			return result, err
		}
	}

	for _, obj := range candidates {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		if _, ok := referenced[obj.Key]; ok {
			continue
		}

		if err := t.store.Delete(ctx, obj.URL); err != nil {
			result.Failed++
			logger.L().Warn("[ImageCleanupTask] 删除失败", zap.String("url", obj.URL), zap.Error(err))
			continue
		}
		result.Deleted++
	}

	logger.L().Info("[ImageCleanupTask] 清理完成",
		zap.Int("scanned", result.Scanned),
		zap.Int("deleted", result.Deleted),
		zap.Int("failed", result.Failed),
	)
	return result, nil
}

// referencedKeys 汇总所有来源引用的存储 key
func (t *ImageCleanupTask) referencedKeys(ctx context.Context) (map[string]struct{}, error) {
	keys := make(map[string]struct{})
	for _, src := range t.sources {
		images, err := src.ListImages(ctx)
		if err != nil {
			return nil, err
		}
		for _, img := range images {
			if img == "" {
				continue
			}
			key, ok := t.store.KeyOf(img)
			if !ok {
				return nil, fmt.Errorf("无法识别图片地址 %s，本次不清理", img)
			}
			keys[key] = struct{}{}
		}
	}
	return keys, nil
}
