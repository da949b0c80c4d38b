package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"sky_takeout/internal/model"
)

// ==================== 接口定义 ====================

// SetmealRepository 套餐仓储接口
type SetmealRepository interface {
	Insert(ctx context.Context, setmeal *model.Setmeal) (int64, error)
	GetByID(ctx context.Context, id int64) (*model.Setmeal, error)
	Update(ctx context.Context, setmeal *model.Setmeal) error
	UpdateStatus(ctx context.Context, id int64, status int) error
	DeleteByIDs(ctx context.Context, ids []int64) error

	PageQuery(ctx context.Context, filter SetmealFilter) ([]SetmealRow, int64, error)
	List(ctx context.Context, filter SetmealFilter) ([]model.Setmeal, error)
	CountByCategoryID(ctx context.Context, categoryID int64) (int64, error)
	ListImages(ctx context.Context) ([]string, error)
}

// SetmealDishRepository 套餐-菜品关联仓储接口
type SetmealDishRepository interface {
	InsertBatch(ctx context.Context, items []model.SetmealDish) error
	GetBySetmealID(ctx context.Context, setmealID int64) ([]model.SetmealDish, error)
	DeleteBySetmealIDs(ctx context.Context, setmealIDs []int64) error

	// 关联查询
	GetSetmealIDsByDishIDs(ctx context.Context, dishIDs []int64) ([]int64, error)
	GetDishesBySetmealID(ctx context.Context, setmealID int64) ([]DishCopies, error)
}

// ==================== 过滤条件 ====================

// SetmealFilter 套餐过滤条件，Status 为 nil 表示不限状态
type SetmealFilter struct {
	Name       string
	CategoryID int64
	Status     *int
	Page       int
	PageSize   int
}

// SetmealRow 套餐分页行（附带分类名称）
type SetmealRow struct {
	model.Setmeal
	CategoryName string `json:"categoryName"`
}

// DishCopies 套餐内的菜品及份数
type DishCopies struct {
	model.Dish
	Copies int `json:"copies"`
}

// ==================== Setmeal 仓储实现 ====================

type setmealRepo struct {
	db *gorm.DB
}

// NewSetmealRepository 创建套餐仓储
func NewSetmealRepository(db *gorm.DB) SetmealRepository {
	return &setmealRepo{db: db}
}

func (r *setmealRepo) Insert(ctx context.Context, setmeal *model.Setmeal) (int64, error) {
	if err := r.db.WithContext(ctx).Create(setmeal).Error; err != nil {
		return 0, err
	}
	return setmeal.ID, nil
}

// GetByID 记录不存在时返回 (nil, nil)
func (r *setmealRepo) GetByID(ctx context.Context, id int64) (*model.Setmeal, error) {
	var setmeal model.Setmeal
	err := r.db.WithContext(ctx).First(&setmeal, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &setmeal, nil
}

// Update 更新套餐基础信息，不修改 status
func (r *setmealRepo) Update(ctx context.Context, setmeal *model.Setmeal) error {
	return r.db.WithContext(ctx).
		Model(setmeal).
		Select("category_id", "name", "price", "description", "image", "update_user").
		Updates(setmeal).Error
}

func (r *setmealRepo) UpdateStatus(ctx context.Context, id int64, status int) error {
	return r.db.WithContext(ctx).
		Model(&model.Setmeal{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": status}).Error
}

func (r *setmealRepo) DeleteByIDs(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&model.Setmeal{}).Error
}

func (r *setmealRepo) PageQuery(ctx context.Context, filter SetmealFilter) ([]SetmealRow, int64, error) {
	var rows []SetmealRow
	var total int64

	query := r.db.WithContext(ctx).
		Table("setmeal AS s").
		Joins("LEFT JOIN category AS c ON s.category_id = c.id")

	if filter.Name != "" {
		query = query.Where(nameContains("s.name", filter.Name))
	}
	if filter.CategoryID > 0 {
		query = query.Where("s.category_id = ?", filter.CategoryID)
	}
	if filter.Status != nil {
		query = query.Where("s.status = ?", *filter.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, pageSize := normalizePage(filter.Page, filter.PageSize)
	err := query.
		Select("s.*, c.name AS category_name").
		Order(newestFirst("s")).
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Scan(&rows).Error

	return rows, total, err
}

func (r *setmealRepo) List(ctx context.Context, filter SetmealFilter) ([]model.Setmeal, error) {
	var setmeals []model.Setmeal

	query := r.db.WithContext(ctx).Model(&model.Setmeal{})
	if filter.Name != "" {
		query = query.Where(nameContains("name", filter.Name))
	}
	if filter.CategoryID > 0 {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	err := query.Order(newestFirst("")).Find(&setmeals).Error
	return setmeals, err
}

func (r *setmealRepo) CountByCategoryID(ctx context.Context, categoryID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Setmeal{}).
		Where("category_id = ?", categoryID).
		Count(&count).Error
	return count, err
}

func (r *setmealRepo) ListImages(ctx context.Context) ([]string, error) {
	var images []string
	err := r.db.WithContext(ctx).
		Model(&model.Setmeal{}).
		Where("image <> ''").
		Pluck("image", &images).Error
	return images, err
}

// ==================== SetmealDish 仓储实现 ====================

type setmealDishRepo struct {
	db *gorm.DB
}

// NewSetmealDishRepository 创建套餐-菜品关联仓储
func NewSetmealDishRepository(db *gorm.DB) SetmealDishRepository {
	return &setmealDishRepo{db: db}
}

func (r *setmealDishRepo) InsertBatch(ctx context.Context, items []model.SetmealDish) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *setmealDishRepo) GetBySetmealID(ctx context.Context, setmealID int64) ([]model.SetmealDish, error) {
	var items []model.SetmealDish
	err := r.db.WithContext(ctx).
		Where("setmeal_id = ?", setmealID).
		Order("id ASC").
		Find(&items).Error
	return items, err
}

func (r *setmealDishRepo) DeleteBySetmealIDs(ctx context.Context, setmealIDs []int64) error {
	if len(setmealIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("setmeal_id IN ?", setmealIDs).
		Delete(&model.SetmealDish{}).Error
}

// GetSetmealIDsByDishIDs 查询引用了任一菜品的套餐ID（去重，升序）
func (r *setmealDishRepo) GetSetmealIDsByDishIDs(ctx context.Context, dishIDs []int64) ([]int64, error) {
	ids := make([]int64, 0)
	if len(dishIDs) == 0 {
		return ids, nil
	}

	err := r.db.WithContext(ctx).
		Model(&model.SetmealDish{}).
		Where("dish_id IN ?", dishIDs).
		Distinct().
		Order("setmeal_id ASC").
		Pluck("setmeal_id", &ids).Error
	return ids, err
}

// GetDishesBySetmealID 查询套餐内的菜品（按关联记录顺序）
func (r *setmealDishRepo) GetDishesBySetmealID(ctx context.Context, setmealID int64) ([]DishCopies, error) {
	var rows []DishCopies
	err := r.db.WithContext(ctx).
		Table("setmeal_dish AS sd").
		Select("d.*, sd.copies").
		Joins("JOIN dish AS d ON d.id = sd.dish_id").
		Where("sd.setmeal_id = ?", setmealID).
		Order("sd.id ASC").
		Scan(&rows).Error
	return rows, err
}
