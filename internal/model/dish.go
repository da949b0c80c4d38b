package model

import (
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Dish 菜品
type Dish struct {
	ID          int64           `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"size:32;not null;uniqueIndex" json:"name"`
	CategoryID  int64           `gorm:"not null;index" json:"categoryId"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Image       string          `gorm:"size:255" json:"image"`
	Description string          `gorm:"size:255" json:"description"`
	Status      int             `gorm:"not null;index" json:"status"`
	AuditFields
}

func (Dish) TableName() string {
	return "dish"
}

// DishFlavor 菜品口味，随菜品一起创建/删除
type DishFlavor struct {
	ID     int64                       `gorm:"primaryKey" json:"id"`
	DishID int64                       `gorm:"not null;index" json:"dishId"`
	Name   string                      `gorm:"size:32" json:"name"`
	Value  datatypes.JSONSlice[string] `json:"value"` // 口味选项列表，如 ["不辣","微辣"]
}

func (DishFlavor) TableName() string {
	return "dish_flavor"
}
