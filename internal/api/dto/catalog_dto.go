package dto

import (
	"github.com/shopspring/decimal"

	"sky_takeout/internal/model"
)

// ==================== 通用 ====================

// PageResult 分页结果
type PageResult[T any] struct {
	Total   int64 `json:"total"`
	Records []T   `json:"records"`
}

// NewPageResult 构造分页结果，records 为空时返回空数组而非 null
func NewPageResult[T any](records []T, total int64) *PageResult[T] {
	if records == nil {
		records = []T{}
	}
	return &PageResult[T]{Total: total, Records: records}
}

// ==================== 分类 ====================

// CategoryRequest 新增/修改分类
type CategoryRequest struct {
	ID   int64  `json:"id"`
	Type int    `json:"type" binding:"required,oneof=1 2"`
	Name string `json:"name" binding:"required,max=32"`
	Sort int    `json:"sort" binding:"gte=0"`
}

// CategoryPageQuery 分类分页查询
type CategoryPageQuery struct {
	Page     int    `form:"page"`
	PageSize int    `form:"pageSize"`
	Name     string `form:"name"`
	Type     int    `form:"type" binding:"omitempty,oneof=1 2"`
}

// ==================== 菜品 ====================

// DishFlavorRequest 口味
type DishFlavorRequest struct {
	Name  string   `json:"name" binding:"required,max=32"`
	Value []string `json:"value" binding:"required,min=1"`
}

// DishRequest 新增/修改菜品
type DishRequest struct {
	ID          int64               `json:"id"`
	Name        string              `json:"name" binding:"required,max=32"`
	CategoryID  int64               `json:"categoryId" binding:"required,gt=0"`
	Price       decimal.Decimal     `json:"price"`
	Image       string              `json:"image" binding:"max=255"`
	Description string              `json:"description" binding:"max=255"`
	Status      *int                `json:"status" binding:"omitempty,catalog_status"`
	Flavors     []DishFlavorRequest `json:"flavors" binding:"dive"`
}

// DishPageQuery 菜品分页查询
type DishPageQuery struct {
	Page       int    `form:"page"`
	PageSize   int    `form:"pageSize"`
	Name       string `form:"name"`
	CategoryID int64  `form:"categoryId"`
	Status     *int   `form:"status" binding:"omitempty,catalog_status"`
}

// DishVO 菜品详情（含分类名称与口味）
type DishVO struct {
	model.Dish
	CategoryName string             `json:"categoryName"`
	Flavors      []model.DishFlavor `json:"flavors"`
}

// ToModel 请求转模型，未传状态时默认停售
func (r *DishRequest) ToModel() (*model.Dish, []model.DishFlavor) {
	status := model.StatusDisable
	if r.Status != nil {
		status = *r.Status
	}

	dish := &model.Dish{
		ID:          r.ID,
		Name:        r.Name,
		CategoryID:  r.CategoryID,
		Price:       r.Price,
		Image:       r.Image,
		Description: r.Description,
		Status:      status,
	}

	flavors := make([]model.DishFlavor, 0, len(r.Flavors))
	for _, f := range r.Flavors {
		flavors = append(flavors, model.DishFlavor{Name: f.Name, Value: f.Value})
	}
	return dish, flavors
}

// ==================== 套餐 ====================

// SetmealDishRequest 套餐内菜品
type SetmealDishRequest struct {
	DishID int64           `json:"dishId" binding:"required,gt=0"`
	Name   string          `json:"name"`
	Price  decimal.Decimal `json:"price"`
	Copies int             `json:"copies" binding:"required,gt=0"`
}

// SetmealRequest 新增/修改套餐
type SetmealRequest struct {
	ID            int64                `json:"id"`
	CategoryID    int64                `json:"categoryId" binding:"required,gt=0"`
	Name          string               `json:"name" binding:"required,max=32"`
	Price         decimal.Decimal      `json:"price"`
	Status        *int                 `json:"status" binding:"omitempty,catalog_status"`
	Description   string               `json:"description" binding:"max=255"`
	Image         string               `json:"image" binding:"max=255"`
	SetmealDishes []SetmealDishRequest `json:"setmealDishes" binding:"dive"`
}

// SetmealPageQuery 套餐分页查询
type SetmealPageQuery struct {
	Page       int    `form:"page"`
	PageSize   int    `form:"pageSize"`
	Name       string `form:"name"`
	CategoryID int64  `form:"categoryId"`
	Status     *int   `form:"status" binding:"omitempty,catalog_status"`
}

// SetmealVO 套餐详情（含分类名称与菜品关联）
type SetmealVO struct {
	model.Setmeal
	CategoryName  string              `json:"categoryName"`
	SetmealDishes []model.SetmealDish `json:"setmealDishes"`
}

// DishItemVO 套餐内菜品展示项
type DishItemVO struct {
	Name        string `json:"name"`
	Copies      int    `json:"copies"`
	Image       string `json:"image"`
	Description string `json:"description"`
}

// ToModel 请求转模型，未传状态时默认停售
func (r *SetmealRequest) ToModel() (*model.Setmeal, []model.SetmealDish) {
	status := model.StatusDisable
	if r.Status != nil {
		status = *r.Status
	}

	setmeal := &model.Setmeal{
		ID:          r.ID,
		CategoryID:  r.CategoryID,
		Name:        r.Name,
		Price:       r.Price,
		Status:      status,
		Description: r.Description,
		Image:       r.Image,
	}

	items := make([]model.SetmealDish, 0, len(r.SetmealDishes))
	for _, d := range r.SetmealDishes {
		items = append(items, model.SetmealDish{
			DishID: d.DishID,
			Name:   d.Name,
			Price:  d.Price,
			Copies: d.Copies,
		})
	}
	return setmeal, items
}
