package model

import "time"

// ==================== 通用常量 ====================

// 起售/停售状态
const (
	StatusDisable = 0 // 停售 / 禁用
	StatusEnable  = 1 // 起售 / 启用
)

// 分类类型
const (
	CategoryTypeDish    = 1 // 菜品分类
	CategoryTypeSetmeal = 2 // 套餐分类
)

// AuditFields 审计字段
// create_user / update_user 由 middleware.RegisterAuditCallbacks 在写入时自动填充
type AuditFields struct {
	CreateTime time.Time `gorm:"autoCreateTime" json:"createTime"`
	UpdateTime time.Time `gorm:"autoUpdateTime" json:"updateTime"`
	CreateUser int64     `gorm:"comment:创建人ID" json:"createUser"`
	UpdateUser int64     `gorm:"comment:更新人ID" json:"updateUser"`
}

// ValidStatus 状态值是否合法
func ValidStatus(status int) bool {
	return status == StatusEnable || status == StatusDisable
}

// AllModels 需要自动迁移的全部模型
func AllModels() []interface{} {
	return []interface{}{
		&Employee{},
		&Category{},
		&Dish{}, &DishFlavor{},
		&Setmeal{}, &SetmealDish{},
	}
}
