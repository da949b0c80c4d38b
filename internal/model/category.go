package model

// Category 菜品/套餐分类
type Category struct {
	ID     int64  `gorm:"primaryKey" json:"id"`
	Type   int    `gorm:"not null;uniqueIndex:idx_category_type_name,priority:1" json:"type"` // 1:菜品分类 2:套餐分类
	Name   string `gorm:"size:32;not null;uniqueIndex:idx_category_type_name,priority:2" json:"name"`
	Sort   int    `gorm:"not null;default:0" json:"sort"`
	Status int    `gorm:"not null" json:"status"`
	AuditFields
}

func (Category) TableName() string {
	return "category"
}
