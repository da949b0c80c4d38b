package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"sky_takeout/internal/api/dto"
	"sky_takeout/internal/model"
	"sky_takeout/internal/repository"
	"sky_takeout/pkg/logger"
)

// CategoryService 分类管理
type CategoryService struct {
	uow *repository.CatalogUnitOfWork
}

func NewCategoryService(uow *repository.CatalogUnitOfWork) *CategoryService {
	return &CategoryService{uow: uow}
}

// Create 新增分类，默认禁用
func (s *CategoryService) Create(ctx context.Context, category *model.Category) (int64, error) {
	if err := validateCategory(category); err != nil {
		return 0, err
	}

	category.ID = 0
	category.Status = model.StatusDisable
	id, err := s.uow.Categories.Insert(ctx, category)
	if err != nil {
		return 0, storeError("新增分类失败", err)
	}
	return id, nil
}

func (s *CategoryService) Update(ctx context.Context, category *model.Category) error {
	if err := validateCategory(category); err != nil {
		return err
	}

	existing, err := s.uow.Categories.GetByID(ctx, category.ID)
	if err != nil {
		return storeError("查询分类失败", err)
	}
	if existing == nil {
		return notFound(MsgCategoryNotFound)
	}

	if err := s.uow.Categories.Update(ctx, category); err != nil {
		return storeError("修改分类失败", err)
	}
	return nil
}

func (s *CategoryService) PageQuery(ctx context.Context, filter repository.CategoryFilter) (*dto.PageResult[model.Category], error) {
	rows, total, err := s.uow.Categories.PageQuery(ctx, filter)
	if err != nil {
		return nil, storeError("分页查询分类失败", err)
	}
	return dto.NewPageResult(rows, total), nil
}

// ListByType 查询启用的分类，categoryType 为 0 时返回全部类型
func (s *CategoryService) ListByType(ctx context.Context, categoryType int) ([]model.Category, error) {
	categories, err := s.uow.Categories.List(ctx, categoryType)
	if err != nil {
		return nil, storeError("查询分类失败", err)
	}
	return categories, nil
}

// SetStatus 启用/禁用分类，不影响分类下的菜品与套餐
func (s *CategoryService) SetStatus(ctx context.Context, id int64, status int) error {
	if !model.ValidStatus(status) {
		return validation(MsgInvalidStatus)
	}

	existing, err := s.uow.Categories.GetByID(ctx, id)
	if err != nil {
		return storeError("查询分类失败", err)
	}
	if existing == nil {
		return notFound(MsgCategoryNotFound)
	}

	if err := s.uow.Categories.UpdateStatus(ctx, id, status); err != nil {
		return storeError("修改分类状态失败", err)
	}
	return nil
}

// Delete 删除分类，分类下仍有菜品或套餐时不能删除
func (s *CategoryService) Delete(ctx context.Context, id int64) error {
	err := s.uow.Transaction(ctx, func(tx *repository.CatalogUnitOfWork) error {
		category, err := tx.Categories.GetByID(ctx, id)
		if err != nil {
			return storeError("查询分类失败", err)
		}
		if category == nil {
			return notFound(MsgCategoryNotFound)
		}

		dishCount, err := tx.Dishes.CountByCategoryID(ctx, id)
		if err != nil {
			return storeError("统计分类菜品失败", err)
		}
		if dishCount > 0 {
			logger.L().Info("拒绝删除分类：存在关联菜品", zap.Int64("category_id", id), zap.Int64("dishes", dishCount))
			return referentialConflict(MsgCategoryBeRelatedDish)
		}

		setmealCount, err := tx.Setmeals.CountByCategoryID(ctx, id)
		if err != nil {
			return storeError("统计分类套餐失败", err)
		}
		if setmealCount > 0 {
			logger.L().Info("拒绝删除分类：存在关联套餐", zap.Int64("category_id", id), zap.Int64("setmeals", setmealCount))
			return referentialConflict(MsgCategoryBeRelatedMeal)
		}

		if err := tx.Categories.DeleteByID(ctx, id); err != nil {
			return storeError("删除分类失败", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.L().Info("删除分类", zap.Int64("category_id", id))
	return nil
}

func validateCategory(category *model.Category) error {
	if category == nil {
		return validation("分类信息不能为空")
	}
	if category.Type != model.CategoryTypeDish && category.Type != model.CategoryTypeSetmeal {
		return validation("分类类型不合法")
	}
	category.Name = strings.TrimSpace(category.Name)
	if category.Name == "" {
		return validation("分类名称不能为空")
	}
	if category.Sort < 0 {
		return validation("排序值不能为负数")
	}
	return nil
}
