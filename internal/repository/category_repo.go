package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"sky_takeout/internal/model"
)

// ==================== 接口定义 ====================

// CategoryRepository 分类仓储接口
type CategoryRepository interface {
	Insert(ctx context.Context, category *model.Category) (int64, error)
	GetByID(ctx context.Context, id int64) (*model.Category, error)
	GetNamesByIDs(ctx context.Context, ids []int64) (map[int64]string, error)
	Update(ctx context.Context, category *model.Category) error
	UpdateStatus(ctx context.Context, id int64, status int) error
	DeleteByID(ctx context.Context, id int64) error
	PageQuery(ctx context.Context, filter CategoryFilter) ([]model.Category, int64, error)
	List(ctx context.Context, categoryType int) ([]model.Category, error)
}

// CategoryFilter 分类过滤条件
type CategoryFilter struct {
	Name     string
	Type     int
	Page     int
	PageSize int
}

// ==================== 仓储实现 ====================

type categoryRepo struct {
	db *gorm.DB
}

// NewCategoryRepository 创建分类仓储
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepo{db: db}
}

func (r *categoryRepo) Insert(ctx context.Context, category *model.Category) (int64, error) {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return 0, err
	}
	return category.ID, nil
}

// GetByID 记录不存在时返回 (nil, nil)
func (r *categoryRepo) GetByID(ctx context.Context, id int64) (*model.Category, error) {
	var category model.Category
	err := r.db.WithContext(ctx).First(&category, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// GetNamesByIDs 批量查询分类名称
func (r *categoryRepo) GetNamesByIDs(ctx context.Context, ids []int64) (map[int64]string, error) {
	names := make(map[int64]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	var categories []model.Category
	err := r.db.WithContext(ctx).
		Select("id", "name").
		Where("id IN ?", ids).
		Find(&categories).Error
	if err != nil {
		return nil, err
	}

	for _, c := range categories {
		names[c.ID] = c.Name
	}
	return names, nil
}

// Update 只更新可编辑字段，状态走 UpdateStatus
func (r *categoryRepo) Update(ctx context.Context, category *model.Category) error {
	return r.db.WithContext(ctx).
		Model(category).
		Select("type", "name", "sort", "update_user").
		Updates(category).Error
}

func (r *categoryRepo) UpdateStatus(ctx context.Context, id int64, status int) error {
	return r.db.WithContext(ctx).
		Model(&model.Category{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": status}).Error
}

func (r *categoryRepo) DeleteByID(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.Category{}, id).Error
}

func (r *categoryRepo) PageQuery(ctx context.Context, filter CategoryFilter) ([]model.Category, int64, error) {
	var categories []model.Category
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Category{})

	if filter.Name != "" {
		query = query.Where(nameContains("name", filter.Name))
	}
	if filter.Type > 0 {
		query = query.Where("type = ?", filter.Type)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, pageSize := normalizePage(filter.Page, filter.PageSize)
	err := query.
		Order("sort ASC, create_time DESC, id DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&categories).Error

	return categories, total, err
}

// List 按类型查询启用的分类，categoryType 为 0 时不限类型
func (r *categoryRepo) List(ctx context.Context, categoryType int) ([]model.Category, error) {
	var categories []model.Category

	query := r.db.WithContext(ctx).Where("status = ?", model.StatusEnable)
	if categoryType > 0 {
		query = query.Where("type = ?", categoryType)
	}

	err := query.Order("sort ASC, create_time DESC, id DESC").Find(&categories).Error
	return categories, err
}

// ==================== 工具函数 ====================

// normalizePage 分页参数兜底
func normalizePage(page, pageSize int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	return page, pageSize
}

// newestFirst 按创建时间倒序，同一时刻按 ID 倒序，保证分页稳定
func newestFirst(table string) clause.OrderBy {
	return clause.OrderBy{Columns: []clause.OrderByColumn{
		{Column: clause.Column{Table: table, Name: "create_time"}, Desc: true},
		{Column: clause.Column{Table: table, Name: "id"}, Desc: true},
	}}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// nameContains 名称模糊匹配，用户输入中的 % _ \ 按字面量处理
func nameContains(column, name string) clause.Expr {
	return gorm.Expr(column+` LIKE ? ESCAPE '\'`, "%"+likeEscaper.Replace(name)+"%")
}
