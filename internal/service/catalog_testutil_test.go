package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"sky_takeout/internal/model"
	"sky_takeout/internal/repository"
)

// ==================== 测试辅助函数 ====================

type catalogEnv struct {
	db       *gorm.DB
	uow      *repository.CatalogUnitOfWork
	dish     *DishService
	setmeal  *SetmealService
	category *CategoryService
}

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("获取连接池失败: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(model.AllModels()...); err != nil {
		t.Fatalf("数据库迁移失败: %v", err)
	}
	return db
}

func newCatalogEnv(t *testing.T) *catalogEnv {
	db := setupCatalogTestDB(t)
	uow := repository.NewCatalogUnitOfWork(db)
	index := NewAssociationIndex(uow.SetmealDishes)

	return &catalogEnv{
		db:       db,
		uow:      uow,
		dish:     NewDishService(uow, index),
		setmeal:  NewSetmealService(uow, index),
		category: NewCategoryService(uow),
	}
}

func (e *catalogEnv) mustCategory(t *testing.T, name string, categoryType int) int64 {
	t.Helper()
	id, err := e.category.Create(context.Background(), &model.Category{Type: categoryType, Name: name})
	if err != nil {
		t.Fatalf("创建分类失败: %v", err)
	}
	return id
}

func (e *catalogEnv) mustDish(t *testing.T, categoryID int64, name string, status int, flavors ...model.DishFlavor) int64 {
	t.Helper()
	id, err := e.dish.Create(context.Background(), &model.Dish{
		Name:       name,
		CategoryID: categoryID,
		Price:      decimal.RequireFromString("28.00"),
		Image:      "http://localhost:8080/uploads/" + name + ".png",
		Status:     status,
	}, flavors)
	if err != nil {
		t.Fatalf("创建菜品失败: %v", err)
	}
	return id
}

func (e *catalogEnv) mustSetmeal(t *testing.T, categoryID int64, name string, dishIDs ...int64) int64 {
	t.Helper()
	items := make([]model.SetmealDish, 0, len(dishIDs))
	for _, id := range dishIDs {
		items = append(items, model.SetmealDish{DishID: id, Copies: 1})
	}

	id, err := e.setmeal.Create(context.Background(), &model.Setmeal{
		Name:       name,
		CategoryID: categoryID,
		Price:      decimal.RequireFromString("66.00"),
		Status:     model.StatusDisable,
	}, items)
	if err != nil {
		t.Fatalf("创建套餐失败: %v", err)
	}
	return id
}

func (e *catalogEnv) dishStatus(t *testing.T, id int64) int {
	t.Helper()
	dish, err := e.uow.Dishes.GetByID(context.Background(), id)
	if err != nil || dish == nil {
		t.Fatalf("查询菜品失败: id=%d err=%v", id, err)
	}
	return dish.Status
}

func (e *catalogEnv) setmealStatus(t *testing.T, id int64) int {
	t.Helper()
	setmeal, err := e.uow.Setmeals.GetByID(context.Background(), id)
	if err != nil || setmeal == nil {
		t.Fatalf("查询套餐失败: id=%d err=%v", id, err)
	}
	return setmeal.Status
}

func (e *catalogEnv) count(t *testing.T, m interface{}) int64 {
	t.Helper()
	var n int64
	if err := e.db.Model(m).Count(&n).Error; err != nil {
		t.Fatalf("统计失败: %v", err)
	}
	return n
}

func twoFlavors() []model.DishFlavor {
	return []model.DishFlavor{
		{Name: "辣度", Value: []string{"不辣", "微辣", "重辣"}},
		{Name: "忌口", Value: []string{"不要葱", "不要蒜"}},
	}
}
