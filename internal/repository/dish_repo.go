package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"sky_takeout/internal/model"
)

// ==================== 接口定义 ====================

// DishRepository 菜品仓储接口
type DishRepository interface {
	// 基础 CRUD
	Insert(ctx context.Context, dish *model.Dish) (int64, error)
	GetByID(ctx context.Context, id int64) (*model.Dish, error)
	Update(ctx context.Context, dish *model.Dish) error
	UpdateStatus(ctx context.Context, id int64, status int) error
	DeleteByIDs(ctx context.Context, ids []int64) error

	// 查询
	PageQuery(ctx context.Context, filter DishFilter) ([]DishRow, int64, error)
	List(ctx context.Context, filter DishFilter) ([]model.Dish, error)
	CountByCategoryID(ctx context.Context, categoryID int64) (int64, error)
	ListImages(ctx context.Context) ([]string, error)
}

// DishFlavorRepository 菜品口味仓储接口
type DishFlavorRepository interface {
	InsertBatch(ctx context.Context, flavors []model.DishFlavor) error
	GetByDishID(ctx context.Context, dishID int64) ([]model.DishFlavor, error)
	DeleteByDishID(ctx context.Context, dishID int64) error
	DeleteByDishIDs(ctx context.Context, dishIDs []int64) error
}

// ==================== 过滤条件 ====================

// DishFilter 菜品过滤条件，Status 为 nil 表示不限状态
type DishFilter struct {
	Name       string
	CategoryID int64
	Status     *int
	Page       int
	PageSize   int
}

// DishRow 菜品分页行（附带分类名称）
type DishRow struct {
	model.Dish
	CategoryName string `json:"categoryName"`
}

// ==================== Dish 仓储实现 ====================

type dishRepo struct {
	db *gorm.DB
}

// NewDishRepository 创建菜品仓储
func NewDishRepository(db *gorm.DB) DishRepository {
	return &dishRepo{db: db}
}

// Insert 插入菜品并返回生成的主键
func (r *dishRepo) Insert(ctx context.Context, dish *model.Dish) (int64, error) {
	if err := r.db.WithContext(ctx).Create(dish).Error; err != nil {
		return 0, err
	}
	return dish.ID, nil
}

// GetByID 记录不存在时返回 (nil, nil)
func (r *dishRepo) GetByID(ctx context.Context, id int64) (*model.Dish, error) {
	var dish model.Dish
	err := r.db.WithContext(ctx).First(&dish, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &dish, nil
}

// Update 更新菜品基础信息，不修改 status
func (r *dishRepo) Update(ctx context.Context, dish *model.Dish) error {
	return r.db.WithContext(ctx).
		Model(dish).
		Select("name", "category_id", "price", "image", "description", "update_user").
		Updates(dish).Error
}

func (r *dishRepo) UpdateStatus(ctx context.Context, id int64, status int) error {
	return r.db.WithContext(ctx).
		Model(&model.Dish{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": status}).Error
}

func (r *dishRepo) DeleteByIDs(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&model.Dish{}).Error
}

// PageQuery 菜品分页查询，按创建时间倒序、主键倒序保证翻页稳定
func (r *dishRepo) PageQuery(ctx context.Context, filter DishFilter) ([]DishRow, int64, error) {
	var rows []DishRow
	var total int64

	query := r.db.WithContext(ctx).
		Table("dish AS d").
		Joins("LEFT JOIN category AS c ON d.category_id = c.id")

	if filter.Name != "" {
		query = query.Where(nameContains("d.name", filter.Name))
	}
	if filter.CategoryID > 0 {
		query = query.Where("d.category_id = ?", filter.CategoryID)
	}
	if filter.Status != nil {
		query = query.Where("d.status = ?", *filter.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, pageSize := normalizePage(filter.Page, filter.PageSize)
	err := query.
		Select("d.*, c.name AS category_name").
		Order(newestFirst("d")).
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Scan(&rows).Error

	return rows, total, err
}

// List 动态条件查询菜品
func (r *dishRepo) List(ctx context.Context, filter DishFilter) ([]model.Dish, error) {
	var dishes []model.Dish

	query := r.db.WithContext(ctx).Model(&model.Dish{})
	if filter.Name != "" {
		query = query.Where(nameContains("name", filter.Name))
	}
	if filter.CategoryID > 0 {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	err := query.Order(newestFirst("")).Find(&dishes).Error
	return dishes, err
}

func (r *dishRepo) CountByCategoryID(ctx context.Context, categoryID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Dish{}).
		Where("category_id = ?", categoryID).
		Count(&count).Error
	return count, err
}

// ListImages 返回所有菜品引用的图片地址
func (r *dishRepo) ListImages(ctx context.Context) ([]string, error) {
	var images []string
	err := r.db.WithContext(ctx).
		Model(&model.Dish{}).
		Where("image <> ''").
		Pluck("image", &images).Error
	return images, err
}

// ==================== DishFlavor 仓储实现 ====================

type dishFlavorRepo struct {
	db *gorm.DB
}

// NewDishFlavorRepository 创建菜品口味仓储
func NewDishFlavorRepository(db *gorm.DB) DishFlavorRepository {
	return &dishFlavorRepo{db: db}
}

func (r *dishFlavorRepo) InsertBatch(ctx context.Context, flavors []model.DishFlavor) error {
	if len(flavors) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&flavors).Error
}

func (r *dishFlavorRepo) GetByDishID(ctx context.Context, dishID int64) ([]model.DishFlavor, error) {
	var flavors []model.DishFlavor
	err := r.db.WithContext(ctx).
		Where("dish_id = ?", dishID).
		Order("id ASC").
		Find(&flavors).Error
	return flavors, err
}

func (r *dishFlavorRepo) DeleteByDishID(ctx context.Context, dishID int64) error {
	return r.db.WithContext(ctx).
		Where("dish_id = ?", dishID).
		Delete(&model.DishFlavor{}).Error
}

func (r *dishFlavorRepo) DeleteByDishIDs(ctx context.Context, dishIDs []int64) error {
	if len(dishIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("dish_id IN ?", dishIDs).
		Delete(&model.DishFlavor{}).Error
}
