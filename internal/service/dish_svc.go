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

// DishService 菜品生命周期管理
type DishService struct {
	uow   *repository.CatalogUnitOfWork
	index *AssociationIndex
}

func NewDishService(uow *repository.CatalogUnitOfWork, index *AssociationIndex) *DishService {
	return &DishService{uow: uow, index: index}
}

// ==================== 新增 / 修改 ====================

// Create 新增菜品及口味，返回菜品ID
func (s *DishService) Create(ctx context.Context, dish *model.Dish, flavors []model.DishFlavor) (int64, error) {
	if err := validateDish(dish); err != nil {
		return 0, err
	}

	var dishID int64
	err := s.uow.Transaction(ctx, func(tx *repository.CatalogUnitOfWork) error {
		if err := ensureCategory(ctx, tx, dish.CategoryID, model.CategoryTypeDish); err != nil {
			return err
		}

		dish.ID = 0
		id, err := tx.Dishes.Insert(ctx, dish)
		if err != nil {
			return storeError("新增菜品失败", err)
		}

		if err := tx.Flavors.InsertBatch(ctx, attachFlavors(id, flavors)); err != nil {
			return storeError("新增菜品口味失败", err)
		}
		dishID = id
		return nil
	})
	if err != nil {
		return 0, err
	}

	logger.L().Info("新增菜品", zap.Int64("dish_id", dishID), zap.Int("flavors", len(flavors)))
	return dishID, nil
}

// Update 修改菜品基础信息并整体替换口味，状态只能通过 SetStatus 修改
func (s *DishService) Update(ctx context.Context, dish *model.Dish, flavors []model.DishFlavor) error {
	if err := validateDish(dish); err != nil {
		return err
	}

	return s.uow.Transaction(ctx, func(tx *repository.CatalogUnitOfWork) error {
		existing, err := tx.Dishes.GetByID(ctx, dish.ID)
		if err != nil {
			return storeError("查询菜品失败", err)
		}
		if existing == nil {
			return notFound(MsgDishNotFound)
		}
		if err := ensureCategory(ctx, tx, dish.CategoryID, model.CategoryTypeDish); err != nil {
			return err
		}

		if err := tx.Dishes.Update(ctx, dish); err != nil {
			return storeError("修改菜品失败", err)
		}

		// 口味整体替换
		if err := tx.Flavors.DeleteByDishID(ctx, dish.ID); err != nil {
			return storeError("删除菜品口味失败", err)
		}
		if err := tx.Flavors.InsertBatch(ctx, attachFlavors(dish.ID, flavors)); err != nil {
			return storeError("新增菜品口味失败", err)
		}
		return nil
	})
}

// ==================== 删除 ====================

// Delete 批量删除菜品，全部校验通过才执行删除
// 起售中的菜品、被套餐关联的菜品不能删除
func (s *DishService) Delete(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return validation("请选择要删除的菜品")
	}

	err := s.uow.Transaction(ctx, func(tx *repository.CatalogUnitOfWork) error {
		for _, id := range ids {
			dish, err := tx.Dishes.GetByID(ctx, id)
			if err != nil {
				return storeError("查询菜品失败", err)
			}
			if dish == nil {
				return notFound(MsgDishNotFound)
			}
			if dish.Status == model.StatusEnable {
				logger.L().Info("拒绝删除起售中的菜品", zap.Int64("dish_id", id))
				return saleConflict(MsgDishOnSale)
			}
		}

		setmealIDs, err := s.index.Within(tx).SetmealsReferencingDishes(ctx, ids)
		if err != nil {
			return err
		}
		if len(setmealIDs) > 0 {
			logger.L().Info("拒绝删除被套餐关联的菜品",
				zap.Int64s("dish_ids", ids), zap.Int64s("setmeal_ids", setmealIDs))
			return referentialConflict(MsgDishBeRelatedBySetmeal)
		}

		if err := tx.Flavors.DeleteByDishIDs(ctx, ids); err != nil {
			return storeError("删除菜品口味失败", err)
		}
		if err := tx.Dishes.DeleteByIDs(ctx, ids); err != nil {
			return storeError("删除菜品失败", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.L().Info("删除菜品", zap.Int64s("dish_ids", ids))
	return nil
}

// ==================== 起售 / 停售 ====================

// SetStatus 菜品起售/停售，停售时同步停售所有关联套餐
func (s *DishService) SetStatus(ctx context.Context, id int64, status int) error {
	if !model.ValidStatus(status) {
		return validation(MsgInvalidStatus)
	}

	var cascaded []int64
	err := s.uow.Transaction(ctx, func(tx *repository.CatalogUnitOfWork) error {
		dish, err := tx.Dishes.GetByID(ctx, id)
		if err != nil {
			return storeError("查询菜品失败", err)
		}
		if dish == nil {
			return notFound(MsgDishNotFound)
		}

		if err := tx.Dishes.UpdateStatus(ctx, id, status); err != nil {
			return storeError("修改菜品状态失败", err)
		}
		if status != model.StatusDisable {
			return nil
		}

		setmealIDs, err := s.index.Within(tx).SetmealsReferencingDishes(ctx, []int64{id})
		if err != nil {
			return err
		}
		for _, setmealID := range setmealIDs {
			if err := tx.Setmeals.UpdateStatus(ctx, setmealID, model.StatusDisable); err != nil {
				return storeError("停售关联套餐失败", err)
			}
		}
		cascaded = setmealIDs
		return nil
	})
	if err != nil {
		return err
	}

	if len(cascaded) > 0 {
		logger.L().Info("菜品停售，关联套餐同步停售",
			zap.Int64("dish_id", id), zap.Int64s("setmeal_ids", cascaded))
	}
	return nil
}

// ==================== 查询 ====================

// PageQuery 菜品分页查询
func (s *DishService) PageQuery(ctx context.Context, filter repository.DishFilter) (*dto.PageResult[dto.DishVO], error) {
	rows, total, err := s.uow.Dishes.PageQuery(ctx, filter)
	if err != nil {
		return nil, storeError("分页查询菜品失败", err)
	}

	records := make([]dto.DishVO, 0, len(rows))
	for _, row := range rows {
		records = append(records, dto.DishVO{Dish: row.Dish, CategoryName: row.CategoryName})
	}
	return dto.NewPageResult(records, total), nil
}

// GetWithFlavors 查询菜品详情及口味
func (s *DishService) GetWithFlavors(ctx context.Context, id int64) (*dto.DishVO, error) {
	dish, err := s.uow.Dishes.GetByID(ctx, id)
	if err != nil {
		return nil, storeError("查询菜品失败", err)
	}
	if dish == nil {
		return nil, notFound(MsgDishNotFound)
	}

	flavors, err := s.uow.Flavors.GetByDishID(ctx, id)
	if err != nil {
		return nil, storeError("查询菜品口味失败", err)
	}

	names, err := s.uow.Categories.GetNamesByIDs(ctx, []int64{dish.CategoryID})
	if err != nil {
		return nil, storeError("查询分类失败", err)
	}

	return &dto.DishVO{Dish: *dish, CategoryName: names[dish.CategoryID], Flavors: flavors}, nil
}

// ListByCategory 查询分类下起售中的菜品
func (s *DishService) ListByCategory(ctx context.Context, categoryID int64) ([]model.Dish, error) {
	status := model.StatusEnable
	dishes, err := s.uow.Dishes.List(ctx, repository.DishFilter{CategoryID: categoryID, Status: &status})
	if err != nil {
		return nil, storeError("查询菜品失败", err)
	}
	return dishes, nil
}

// ListWithFlavors 条件查询菜品并逐个加载口味
func (s *DishService) ListWithFlavors(ctx context.Context, filter repository.DishFilter) ([]dto.DishVO, error) {
	dishes, err := s.uow.Dishes.List(ctx, filter)
	if err != nil {
		return nil, storeError("查询菜品失败", err)
	}

	result := make([]dto.DishVO, 0, len(dishes))
	for _, dish := range dishes {
		flavors, err := s.uow.Flavors.GetByDishID(ctx, dish.ID)
		if err != nil {
			return nil, storeError("查询菜品口味失败", err)
		}
		result = append(result, dto.DishVO{Dish: dish, Flavors: flavors})
	}
	return result, nil
}

// ==================== 辅助函数 ====================

func validateDish(dish *model.Dish) error {
	if dish == nil {
		return validation("菜品信息不能为空")
	}
	dish.Name = strings.TrimSpace(dish.Name)
	if dish.Name == "" {
		return validation("菜品名称不能为空")
	}
	if dish.Price.IsNegative() {
		return validation("菜品价格不能为负数")
	}
	if !model.ValidStatus(dish.Status) {
		return validation(MsgInvalidStatus)
	}
	return nil
}

// ensureCategory 校验分类存在且类型匹配
func ensureCategory(ctx context.Context, tx *repository.CatalogUnitOfWork, categoryID int64, categoryType int) error {
	category, err := tx.Categories.GetByID(ctx, categoryID)
	if err != nil {
		return storeError("查询分类失败", err)
	}
	if category == nil {
		return notFound(MsgCategoryNotFound)
	}
	if category.Type != categoryType {
		return validation(MsgCategoryTypeMismatch)
	}
	return nil
}

// attachFlavors 为口味设置菜品ID，忽略请求中的主键
func attachFlavors(dishID int64, flavors []model.DishFlavor) []model.DishFlavor {
	rows := make([]model.DishFlavor, 0, len(flavors))
	for _, f := range flavors {
		f.ID = 0
		f.DishID = dishID
		rows = append(rows, f)
	}
	return rows
}
