package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"sky_takeout/internal/model"
)

// ==================== 测试辅助函数 ====================

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}

	// 内存库每个连接独立，固定为单连接
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

func seedCategory(t *testing.T, db *gorm.DB, name string, categoryType int) int64 {
	id, err := NewCategoryRepository(db).Insert(context.Background(), &model.Category{
		Type:   categoryType,
		Name:   name,
		Status: model.StatusEnable,
	})
	if err != nil {
		t.Fatalf("创建分类失败: %v", err)
	}
	return id
}

func seedDish(t *testing.T, db *gorm.DB, name string, categoryID int64, status int) int64 {
	id, err := NewDishRepository(db).Insert(context.Background(), &model.Dish{
		Name:       name,
		CategoryID: categoryID,
		Price:      decimal.RequireFromString("18.50"),
		Image:      "/uploads/" + name + ".png",
		Status:     status,
	})
	if err != nil {
		t.Fatalf("创建菜品失败: %v", err)
	}
	return id
}

func seedSetmeal(t *testing.T, db *gorm.DB, name string, categoryID int64, dishIDs ...int64) int64 {
	ctx := context.Background()
	id, err := NewSetmealRepository(db).Insert(ctx, &model.Setmeal{
		Name:       name,
		CategoryID: categoryID,
		Price:      decimal.RequireFromString("39.00"),
		Status:     model.StatusDisable,
	})
	if err != nil {
		t.Fatalf("创建套餐失败: %v", err)
	}

	items := make([]model.SetmealDish, 0, len(dishIDs))
	for i, dishID := range dishIDs {
		items = append(items, model.SetmealDish{SetmealID: id, DishID: dishID, Copies: i + 1})
	}
	if err := NewSetmealDishRepository(db).InsertBatch(ctx, items); err != nil {
		t.Fatalf("创建套餐菜品失败: %v", err)
	}
	return id
}

// ==================== Category 测试 ====================

func TestCategoryRepo_GetByID_NotExist(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewCategoryRepository(db)

	category, err := repo.GetByID(context.Background(), 999)
	require.NoError(t, err)
	assert.Nil(t, category)
}

func TestCategoryRepo_PageQueryAndList(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewCategoryRepository(db)
	ctx := context.Background()

	seedCategory(t, db, "湘菜", model.CategoryTypeDish)
	seedCategory(t, db, "川菜", model.CategoryTypeDish)
	disabledID, err := repo.Insert(ctx, &model.Category{
		Type:   model.CategoryTypeSetmeal,
		Name:   "商务套餐",
		Status: model.StatusDisable,
	})
	require.NoError(t, err)

	rows, total, err := repo.PageQuery(ctx, CategoryFilter{Type: model.CategoryTypeDish})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, rows, 2)

	rows, total, err = repo.PageQuery(ctx, CategoryFilter{Name: "套餐"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, disabledID, rows[0].ID)

	// List 只返回启用的分类
	list, err := repo.List(ctx, model.CategoryTypeSetmeal)
	require.NoError(t, err)
	assert.Empty(t, list)

	list, err = repo.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestCategoryRepo_UpdateKeepsStatus(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewCategoryRepository(db)
	ctx := context.Background()

	id := seedCategory(t, db, "粤菜", model.CategoryTypeDish)

	err := repo.Update(ctx, &model.Category{ID: id, Type: model.CategoryTypeDish, Name: "广东菜", Sort: 3})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "广东菜", got.Name)
	assert.Equal(t, 3, got.Sort)
	assert.Equal(t, model.StatusEnable, got.Status)

	require.NoError(t, repo.UpdateStatus(ctx, id, model.StatusDisable))
	got, _ = repo.GetByID(ctx, id)
	assert.Equal(t, model.StatusDisable, got.Status)
}

// ==================== Dish 测试 ====================

func TestDishRepo_InsertReturnsID(t *testing.T) {
	db := setupCatalogTestDB(t)
	categoryID := seedCategory(t, db, "热菜", model.CategoryTypeDish)

	first := seedDish(t, db, "宫保鸡丁", categoryID, model.StatusEnable)
	second := seedDish(t, db, "鱼香肉丝", categoryID, model.StatusEnable)

	if first <= 0 || second <= first {
		t.Fatalf("主键未正确返回: first=%d second=%d", first, second)
	}

	dish, err := NewDishRepository(db).GetByID(context.Background(), second)
	require.NoError(t, err)
	assert.Equal(t, "鱼香肉丝", dish.Name)
	assert.True(t, dish.Price.Equal(decimal.RequireFromString("18.5")))
}

func TestDishRepo_PageQuery(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewDishRepository(db)
	ctx := context.Background()

	hot := seedCategory(t, db, "热菜", model.CategoryTypeDish)
	cold := seedCategory(t, db, "凉菜", model.CategoryTypeDish)

	d1 := seedDish(t, db, "红烧肉", hot, model.StatusEnable)
	d2 := seedDish(t, db, "拍黄瓜", cold, model.StatusDisable)
	d3 := seedDish(t, db, "红烧排骨", hot, model.StatusDisable)

	t.Run("默认分页，按创建时间倒序", func(t *testing.T) {
		rows, total, err := repo.PageQuery(ctx, DishFilter{})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, rows, 3)
		assert.Equal(t, []int64{d3, d2, d1}, []int64{rows[0].ID, rows[1].ID, rows[2].ID})
		assert.Equal(t, "热菜", rows[0].CategoryName)
		assert.Equal(t, "凉菜", rows[1].CategoryName)
	})

	t.Run("名称模糊匹配", func(t *testing.T) {
		rows, total, err := repo.PageQuery(ctx, DishFilter{Name: "红烧"})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, rows, 2)
	})

	t.Run("状态与分类过滤", func(t *testing.T) {
		status := model.StatusDisable
		rows, total, err := repo.PageQuery(ctx, DishFilter{CategoryID: hot, Status: &status})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, rows, 1)
		assert.Equal(t, d3, rows[0].ID)
	})

	t.Run("翻页", func(t *testing.T) {
		rows, total, err := repo.PageQuery(ctx, DishFilter{Page: 2, PageSize: 2})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, rows, 1)
		assert.Equal(t, d1, rows[0].ID)
	})
}

func TestNameFilter_WildcardsAreLiteral(t *testing.T) {
	db := setupCatalogTestDB(t)
	ctx := context.Background()

	hot := seedCategory(t, db, "热菜", model.CategoryTypeDish)
	seedCategory(t, db, "5折_特价", model.CategoryTypeDish)
	meal := seedCategory(t, db, "套餐", model.CategoryTypeSetmeal)
	discounted := seedDish(t, db, "红烧肉50%", hot, model.StatusEnable)
	seedDish(t, db, "拍黄瓜", hot, model.StatusEnable)
	seedDish(t, db, `椒盐\排骨`, hot, model.StatusEnable)
	seedSetmeal(t, db, "单人餐", meal)

	dishes := NewDishRepository(db)

	rows, total, err := dishes.PageQuery(ctx, DishFilter{Name: "%"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, rows, 1)
	assert.Equal(t, discounted, rows[0].ID)

	_, total, err = dishes.PageQuery(ctx, DishFilter{Name: "_"})
	require.NoError(t, err)
	assert.Zero(t, total)

	list, err := dishes.List(ctx, DishFilter{Name: `\`})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, total, err = NewSetmealRepository(db).PageQuery(ctx, SetmealFilter{Name: "%"})
	require.NoError(t, err)
	assert.Zero(t, total)

	categories, total, err := NewCategoryRepository(db).PageQuery(ctx, CategoryFilter{Name: "_"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "5折_特价", categories[0].Name)
}

func TestDishRepo_UpdateKeepsStatus(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewDishRepository(db)
	ctx := context.Background()

	categoryID := seedCategory(t, db, "热菜", model.CategoryTypeDish)
	id := seedDish(t, db, "水煮鱼", categoryID, model.StatusEnable)

	err := repo.Update(ctx, &model.Dish{
		ID:         id,
		Name:       "水煮鱼片",
		CategoryID: categoryID,
		Price:      decimal.RequireFromString("58"),
	})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "水煮鱼片", got.Name)
	assert.Equal(t, model.StatusEnable, got.Status)
	assert.Empty(t, got.Image)
}

func TestDishRepo_CountAndImages(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewDishRepository(db)
	ctx := context.Background()

	categoryID := seedCategory(t, db, "热菜", model.CategoryTypeDish)
	seedDish(t, db, "回锅肉", categoryID, model.StatusEnable)
	seedDish(t, db, "麻婆豆腐", categoryID, model.StatusEnable)

	count, err := repo.CountByCategoryID(ctx, categoryID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	count, err = repo.CountByCategoryID(ctx, categoryID+1)
	require.NoError(t, err)
	assert.Zero(t, count)

	images, err := repo.ListImages(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"/uploads/回锅肉.png", "/uploads/麻婆豆腐.png"}, images)
}

func TestDishFlavorRepo_ReplaceFlavors(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewDishFlavorRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.InsertBatch(ctx, nil))

	err := repo.InsertBatch(ctx, []model.DishFlavor{
		{DishID: 1, Name: "辣度", Value: []string{"不辣", "微辣", "中辣"}},
		{DishID: 1, Name: "忌口", Value: []string{"不要葱"}},
		{DishID: 2, Name: "甜味", Value: []string{"无糖"}},
	})
	require.NoError(t, err)

	flavors, err := repo.GetByDishID(ctx, 1)
	require.NoError(t, err)
	require.Len(t, flavors, 2)
	assert.Equal(t, "辣度", flavors[0].Name)
	assert.Equal(t, []string{"不辣", "微辣", "中辣"}, []string(flavors[0].Value))

	require.NoError(t, repo.DeleteByDishID(ctx, 1))
	flavors, _ = repo.GetByDishID(ctx, 1)
	assert.Empty(t, flavors)

	require.NoError(t, repo.DeleteByDishIDs(ctx, []int64{2}))
	flavors, _ = repo.GetByDishID(ctx, 2)
	assert.Empty(t, flavors)
}

// ==================== Setmeal 测试 ====================

func TestSetmealDishRepo_GetSetmealIDsByDishIDs(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewSetmealDishRepository(db)
	ctx := context.Background()

	dishCategory := seedCategory(t, db, "热菜", model.CategoryTypeDish)
	setmealCategory := seedCategory(t, db, "午餐套餐", model.CategoryTypeSetmeal)

	a := seedDish(t, db, "番茄炒蛋", dishCategory, model.StatusEnable)
	b := seedDish(t, db, "青椒肉丝", dishCategory, model.StatusEnable)
	c := seedDish(t, db, "白米饭", dishCategory, model.StatusEnable)

	s1 := seedSetmeal(t, db, "单人餐", setmealCategory, a, c)
	s2 := seedSetmeal(t, db, "双人餐", setmealCategory, a, b, c)

	tests := []struct {
		name    string
		dishIDs []int64
		want    []int64
	}{
		{"空输入", nil, []int64{}},
		{"单个菜品", []int64{b}, []int64{s2}},
		{"去重并升序", []int64{c, a}, []int64{s1, s2}},
		{"无引用", []int64{9999}, []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.GetSetmealIDsByDishIDs(ctx, tt.dishIDs)
			require.NoError(t, err)
			if len(tt.want) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSetmealDishRepo_GetDishesBySetmealID(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewSetmealDishRepository(db)
	ctx := context.Background()

	dishCategory := seedCategory(t, db, "热菜", model.CategoryTypeDish)
	setmealCategory := seedCategory(t, db, "午餐套餐", model.CategoryTypeSetmeal)

	a := seedDish(t, db, "可乐鸡翅", dishCategory, model.StatusEnable)
	b := seedDish(t, db, "紫菜蛋汤", dishCategory, model.StatusDisable)
	setmealID := seedSetmeal(t, db, "鸡翅套餐", setmealCategory, b, a)

	rows, err := repo.GetDishesBySetmealID(ctx, setmealID)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, b, rows[0].ID)
	assert.Equal(t, model.StatusDisable, rows[0].Status)
	assert.Equal(t, 1, rows[0].Copies)
	assert.Equal(t, a, rows[1].ID)
	assert.Equal(t, 2, rows[1].Copies)

	rows, err = repo.GetDishesBySetmealID(ctx, setmealID+100)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestSetmealRepo_PageQueryAndDelete(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewSetmealRepository(db)
	itemRepo := NewSetmealDishRepository(db)
	ctx := context.Background()

	dishCategory := seedCategory(t, db, "热菜", model.CategoryTypeDish)
	setmealCategory := seedCategory(t, db, "儿童套餐", model.CategoryTypeSetmeal)
	dishID := seedDish(t, db, "薯条", dishCategory, model.StatusEnable)

	s1 := seedSetmeal(t, db, "儿童餐A", setmealCategory, dishID)
	s2 := seedSetmeal(t, db, "儿童餐B", setmealCategory, dishID)

	rows, total, err := repo.PageQuery(ctx, SetmealFilter{CategoryID: setmealCategory})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, rows, 2)
	assert.Equal(t, s2, rows[0].ID)
	assert.Equal(t, "儿童套餐", rows[0].CategoryName)

	count, err := repo.CountByCategoryID(ctx, setmealCategory)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	require.NoError(t, itemRepo.DeleteBySetmealIDs(ctx, []int64{s1}))
	require.NoError(t, repo.DeleteByIDs(ctx, []int64{s1}))

	got, err := repo.GetByID(ctx, s1)
	require.NoError(t, err)
	assert.Nil(t, got)

	ids, err := itemRepo.GetSetmealIDsByDishIDs(ctx, []int64{dishID})
	require.NoError(t, err)
	assert.Equal(t, []int64{s2}, ids)
}

// ==================== 工作单元测试 ====================

func TestCatalogUnitOfWork_Rollback(t *testing.T) {
	db := setupCatalogTestDB(t)
	uow := NewCatalogUnitOfWork(db)
	ctx := context.Background()

	categoryID := seedCategory(t, db, "热菜", model.CategoryTypeDish)
	errBoom := errors.New("boom")

	err := uow.Transaction(ctx, func(tx *CatalogUnitOfWork) error {
		id, err := tx.Dishes.Insert(ctx, &model.Dish{
			Name:       "东坡肉",
			CategoryID: categoryID,
			Price:      decimal.NewFromInt(48),
		})
		if err != nil {
			return err
		}
		if err := tx.Flavors.InsertBatch(ctx, []model.DishFlavor{{DishID: id, Name: "辣度", Value: []string{"不辣"}}}); err != nil {
			return err
		}
		return errBoom
	})
	assert.ErrorIs(t, err, errBoom)

	dishes, err := uow.Dishes.List(ctx, DishFilter{})
	require.NoError(t, err)
	assert.Empty(t, dishes, "事务回滚后不应残留菜品")

	var flavorCount int64
	db.Model(&model.DishFlavor{}).Count(&flavorCount)
	assert.Zero(t, flavorCount)
}

func TestCatalogUnitOfWork_Commit(t *testing.T) {
	db := setupCatalogTestDB(t)
	uow := NewCatalogUnitOfWork(db)
	ctx := context.Background()

	categoryID := seedCategory(t, db, "热菜", model.CategoryTypeDish)

	var dishID int64
	err := uow.Transaction(ctx, func(tx *CatalogUnitOfWork) error {
		var err error
		dishID, err = tx.Dishes.Insert(ctx, &model.Dish{Name: "糖醋里脊", CategoryID: categoryID, Price: decimal.NewFromInt(32)})
		return err
	})
	require.NoError(t, err)

	got, err := uow.Dishes.GetByID(ctx, dishID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "糖醋里脊", got.Name)
}
