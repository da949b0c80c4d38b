package service

import (
	"context"

	"sky_takeout/internal/repository"
)

// AssociationIndex 套餐与菜品的关联查询
// 每次调用实时查询关联表，不缓存
type AssociationIndex struct {
	setmealDishes repository.SetmealDishRepository
}

func NewAssociationIndex(setmealDishes repository.SetmealDishRepository) *AssociationIndex {
	return &AssociationIndex{setmealDishes: setmealDishes}
}

// Within 绑定到事务内的仓储
func (a *AssociationIndex) Within(uow *repository.CatalogUnitOfWork) *AssociationIndex {
	return &AssociationIndex{setmealDishes: uow.SetmealDishes}
}

// SetmealsReferencingDishes 引用了任一菜品的套餐ID，去重升序
func (a *AssociationIndex) SetmealsReferencingDishes(ctx context.Context, dishIDs []int64) ([]int64, error) {
	ids, err := a.setmealDishes.GetSetmealIDsByDishIDs(ctx, dishIDs)
	if err != nil {
		return nil, storeError("查询菜品关联套餐失败", err)
	}
	return ids, nil
}

// DishesInSetmeal 套餐内的菜品及份数，按关联记录顺序
func (a *AssociationIndex) DishesInSetmeal(ctx context.Context, setmealID int64) ([]repository.DishCopies, error) {
	dishes, err := a.setmealDishes.GetDishesBySetmealID(ctx, setmealID)
	if err != nil {
		return nil, storeError("查询套餐菜品失败", err)
	}
	return dishes, nil
}
