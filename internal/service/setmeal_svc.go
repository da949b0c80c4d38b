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

// SetmealService 套餐生命周期管理
type SetmealService struct {
	uow   *repository.CatalogUnitOfWork
	index *AssociationIndex
}

func NewSetmealService(uow *repository.CatalogUnitOfWork, index *AssociationIndex) *SetmealService {
	return &SetmealService{uow: uow, index: index}
}

// ==================== 新增 / 修改 ====================

// Create 新增套餐及菜品关联，返回套餐ID
// 以起售状态新增时，套餐内菜品必须全部起售
func (s *SetmealService) Create(ctx context.Context, setmeal *model.Setmeal, items []model.SetmealDish) (int64, error) {
	if err := validateSetmeal(setmeal, items); err != nil {
		return 0, err
	}

	var setmealID int64
	err := s.uow.Transaction(ctx, func(tx *repository.CatalogUnitOfWork) error {
		if err := ensureCategory(ctx, tx, setmeal.CategoryID, model.CategoryTypeSetmeal); err != nil {
			return err
		}

		rows, err := resolveSetmealDishes(ctx, tx, items, setmeal.Status == model.StatusEnable)
		if err != nil {
			return err
		}

		setmeal.ID = 0
		id, err := tx.Setmeals.Insert(ctx, setmeal)
		if err != nil {
			return storeError("新增套餐失败", err)
		}

		if err := tx.SetmealDishes.InsertBatch(ctx, attachSetmealDishes(id, rows)); err != nil {
			return storeError("新增套餐菜品失败", err)
		}
		setmealID = id
		return nil
	})
	if err != nil {
		return 0, err
	}

	logger.L().Info("新增套餐", zap.Int64("setmeal_id", setmealID), zap.Int("dishes", len(items)))
	return setmealID, nil
}

// Update 修改套餐并整体替换菜品关联，状态只能通过 SetStatus 修改
func (s *SetmealService) Update(ctx context.Context, setmeal *model.Setmeal, items []model.SetmealDish) error {
	if err := validateSetmeal(setmeal, items); err != nil {
		return err
	}

	return s.uow.Transaction(ctx, func(tx *repository.CatalogUnitOfWork) error {
		existing, err := tx.Setmeals.GetByID(ctx, setmeal.ID)
		if err != nil {
			return storeError("查询套餐失败", err)
		}
		if existing == nil {
			return notFound(MsgSetmealNotFound)
		}
		if err := ensureCategory(ctx, tx, setmeal.CategoryID, model.CategoryTypeSetmeal); err != nil {
			return err
		}

		// 起售中的套餐替换菜品后仍需满足全部菜品起售
		rows, err := resolveSetmealDishes(ctx, tx, items, existing.Status == model.StatusEnable)
		if err != nil {
			return err
		}

		if err := tx.Setmeals.Update(ctx, setmeal); err != nil {
			return storeError("修改套餐失败", err)
		}
		if err := tx.SetmealDishes.DeleteBySetmealIDs(ctx, []int64{setmeal.ID}); err != nil {
			return storeError("删除套餐菜品失败", err)
		}
		if err := tx.SetmealDishes.InsertBatch(ctx, attachSetmealDishes(setmeal.ID, rows)); err != nil {
			return storeError("新增套餐菜品失败", err)
		}
		return nil
	})
}

// ==================== 删除 ====================

// Delete 批量删除套餐，起售中的套餐不能删除
func (s *SetmealService) Delete(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return validation("请选择要删除的套餐")
	}

	err := s.uow.Transaction(ctx, func(tx *repository.CatalogUnitOfWork) error {
		for _, id := range ids {
			setmeal, err := tx.Setmeals.GetByID(ctx, id)
			if err != nil {
				return storeError("查询套餐失败", err)
			}
			if setmeal == nil {
				return notFound(MsgSetmealNotFound)
			}
			if setmeal.Status == model.StatusEnable {
				logger.L().Info("拒绝删除起售中的套餐", zap.Int64("setmeal_id", id))
				return saleConflict(MsgSetmealOnSale)
			}
		}

		if err := tx.SetmealDishes.DeleteBySetmealIDs(ctx, ids); err != nil {
			return storeError("删除套餐菜品失败", err)
		}
		if err := tx.Setmeals.DeleteByIDs(ctx, ids); err != nil {
			return storeError("删除套餐失败", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.L().Info("删除套餐", zap.Int64s("setmeal_ids", ids))
	return nil
}

// ==================== 起售 / 停售 ====================

// SetStatus 套餐起售/停售，起售时套餐内菜品必须全部起售
func (s *SetmealService) SetStatus(ctx context.Context, id int64, status int) error {
	if !model.ValidStatus(status) {
		return validation(MsgInvalidStatus)
	}

	return s.uow.Transaction(ctx, func(tx *repository.CatalogUnitOfWork) error {
		setmeal, err := tx.Setmeals.GetByID(ctx, id)
		if err != nil {
			return storeError("查询套餐失败", err)
		}
		if setmeal == nil {
			return notFound(MsgSetmealNotFound)
		}

		if status == model.StatusEnable {
			dishes, err := s.index.Within(tx).DishesInSetmeal(ctx, id)
			if err != nil {
				return err
			}
			for _, d := range dishes {
				if d.Status == model.StatusDisable {
					logger.L().Info("套餐内包含停售菜品，拒绝起售",
						zap.Int64("setmeal_id", id), zap.Int64("dish_id", d.ID))
					return saleConflict(MsgSetmealEnableFailed)
				}
			}
		}

		if err := tx.Setmeals.UpdateStatus(ctx, id, status); err != nil {
			return storeError("修改套餐状态失败", err)
		}
		return nil
	})
}

// ==================== 查询 ====================

// PageQuery 套餐分页查询
func (s *SetmealService) PageQuery(ctx context.Context, filter repository.SetmealFilter) (*dto.PageResult[dto.SetmealVO], error) {
	rows, total, err := s.uow.Setmeals.PageQuery(ctx, filter)
	if err != nil {
		return nil, storeError("分页查询套餐失败", err)
	}

	records := make([]dto.SetmealVO, 0, len(rows))
	for _, row := range rows {
		records = append(records, dto.SetmealVO{Setmeal: row.Setmeal, CategoryName: row.CategoryName})
	}
	return dto.NewPageResult(records, total), nil
}

// GetWithDishes 查询套餐详情及菜品关联
func (s *SetmealService) GetWithDishes(ctx context.Context, id int64) (*dto.SetmealVO, error) {
	setmeal, err := s.uow.Setmeals.GetByID(ctx, id)
	if err != nil {
		return nil, storeError("查询套餐失败", err)
	}
	if setmeal == nil {
		return nil, notFound(MsgSetmealNotFound)
	}

	items, err := s.uow.SetmealDishes.GetBySetmealID(ctx, id)
	if err != nil {
		return nil, storeError("查询套餐菜品失败", err)
	}

	names, err := s.uow.Categories.GetNamesByIDs(ctx, []int64{setmeal.CategoryID})
	if err != nil {
		return nil, storeError("查询分类失败", err)
	}

	return &dto.SetmealVO{Setmeal: *setmeal, CategoryName: names[setmeal.CategoryID], SetmealDishes: items}, nil
}

// ListByCategory 查询分类下起售中的套餐
func (s *SetmealService) ListByCategory(ctx context.Context, categoryID int64) ([]model.Setmeal, error) {
	status := model.StatusEnable
	setmeals, err := s.uow.Setmeals.List(ctx, repository.SetmealFilter{CategoryID: categoryID, Status: &status})
	if err != nil {
		return nil, storeError("查询套餐失败", err)
	}
	return setmeals, nil
}

// DishItems 查询套餐内菜品展示项
func (s *SetmealService) DishItems(ctx context.Context, setmealID int64) ([]dto.DishItemVO, error) {
	dishes, err := s.index.DishesInSetmeal(ctx, setmealID)
	if err != nil {
		return nil, err
	}

	items := make([]dto.DishItemVO, 0, len(dishes))
	for _, d := range dishes {
		items = append(items, dto.DishItemVO{
			Name:        d.Name,
			Copies:      d.Copies,
			Image:       d.Image,
			Description: d.Description,
		})
	}
	return items, nil
}

// ==================== 辅助函数 ====================

func validateSetmeal(setmeal *model.Setmeal, items []model.SetmealDish) error {
	if setmeal == nil {
		return validation("套餐信息不能为空")
	}
	setmeal.Name = strings.TrimSpace(setmeal.Name)
	if setmeal.Name == "" {
		return validation("套餐名称不能为空")
	}
	if setmeal.Price.IsNegative() {
		return validation("套餐价格不能为负数")
	}
	if !model.ValidStatus(setmeal.Status) {
		return validation(MsgInvalidStatus)
	}
	for _, item := range items {
		if item.Copies <= 0 {
			return validation("菜品份数必须大于0")
		}
	}
	return nil
}

// resolveSetmealDishes 校验套餐内菜品存在，并补全冗余的名称与价格
// requireOnSale 为 true 时菜品必须全部起售
func resolveSetmealDishes(ctx context.Context, tx *repository.CatalogUnitOfWork, items []model.SetmealDish, requireOnSale bool) ([]model.SetmealDish, error) {
	rows := make([]model.SetmealDish, 0, len(items))
	for _, item := range items {
		dish, err := tx.Dishes.GetByID(ctx, item.DishID)
		if err != nil {
			return nil, storeError("查询菜品失败", err)
		}
		if dish == nil {
			return nil, notFound(MsgDishNotFound)
		}
		if requireOnSale && dish.Status != model.StatusEnable {
			return nil, saleConflict(MsgSetmealEnableFailed)
		}

		if item.Name == "" {
			item.Name = dish.Name
		}
		if item.Price.IsZero() {
			item.Price = dish.Price
		}
		rows = append(rows, item)
	}
	return rows, nil
}

// attachSetmealDishes 为关联记录设置套餐ID，忽略请求中的主键
func attachSetmealDishes(setmealID int64, items []model.SetmealDish) []model.SetmealDish {
	for i := range items {
		items[i].ID = 0
		items[i].SetmealID = setmealID
	}
	return items
}
