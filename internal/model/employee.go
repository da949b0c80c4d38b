package model

// Employee 后台员工账号
type Employee struct {
	ID       int64  `gorm:"primaryKey" json:"id"`
	Username string `gorm:"size:32;uniqueIndex;not null" json:"username"`
	Name     string `gorm:"size:32" json:"name"`
	Password string `gorm:"size:255;not null" json:"-"` // bcrypt 哈希
	Phone    string `gorm:"size:11" json:"phone"`
	Status   int    `gorm:"not null" json:"status"`
	AuditFields
}

func (Employee) TableName() string {
	return "employee"
}
