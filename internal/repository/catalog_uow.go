package repository

import (
	"context"

	"gorm.io/gorm"
)

// CatalogUnitOfWork 菜品/套餐/分类工作单元（事务）
type CatalogUnitOfWork struct {
	db            *gorm.DB
	Categories    CategoryRepository
	Dishes        DishRepository
	Flavors       DishFlavorRepository
	Setmeals      SetmealRepository
	SetmealDishes SetmealDishRepository
}

// NewCatalogUnitOfWork 创建工作单元
func NewCatalogUnitOfWork(db *gorm.DB) *CatalogUnitOfWork {
	return newCatalogUnitOfWork(db)
}

func newCatalogUnitOfWork(db *gorm.DB) *CatalogUnitOfWork {
	return &CatalogUnitOfWork{
		db:            db,
		Categories:    NewCategoryRepository(db),
		Dishes:        NewDishRepository(db),
		Flavors:       NewDishFlavorRepository(db),
		Setmeals:      NewSetmealRepository(db),
		SetmealDishes: NewSetmealDishRepository(db),
	}
}

// Transaction 执行事务，fn 返回错误时整体回滚
// fn 内只能使用 uow 上的仓储，外部仓储不在同一事务中
func (u *CatalogUnitOfWork) Transaction(ctx context.Context, fn func(uow *CatalogUnitOfWork) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(newCatalogUnitOfWork(tx))
	})
}
