package model

import "github.com/shopspring/decimal"

// Setmeal 套餐
type Setmeal struct {
	ID          int64           `gorm:"primaryKey" json:"id"`
	CategoryID  int64           `gorm:"not null;index" json:"categoryId"`
	Name        string          `gorm:"size:32;not null;uniqueIndex" json:"name"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Status      int             `gorm:"not null;index" json:"status"`
	Description string          `gorm:"size:255" json:"description"`
	Image       string          `gorm:"size:255" json:"image"`
	AuditFields
}

func (Setmeal) TableName() string {
	return "setmeal"
}

// SetmealDish 套餐-菜品关联（归属于套餐）
type SetmealDish struct {
	ID        int64           `gorm:"primaryKey" json:"id"`
	SetmealID int64           `gorm:"not null;index" json:"setmealId"`
	DishID    int64           `gorm:"not null;index" json:"dishId"`
	Name      string          `gorm:"size:32" json:"name"` // 冗余菜品名称
	Price     decimal.Decimal `gorm:"type:decimal(10,2)" json:"price"`
	Copies    int             `gorm:"not null;default:1" json:"copies"`
}

func (SetmealDish) TableName() string {
	return "setmeal_dish"
}
