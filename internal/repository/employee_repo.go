package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"sky_takeout/internal/model"
)

// ==================== EmployeeRepository 员工仓库 ====================

// EmployeeRepository 员工仓库接口
type EmployeeRepository interface {
	Create(ctx context.Context, employee *model.Employee) error
	GetByID(ctx context.Context, id int64) (*model.Employee, error)
	GetByUsername(ctx context.Context, username string) (*model.Employee, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}

type employeeRepository struct {
	db *gorm.DB
}

// NewEmployeeRepository 创建员工仓库
func NewEmployeeRepository(db *gorm.DB) EmployeeRepository {
	return &employeeRepository{db: db}
}

func (r *employeeRepository) Create(ctx context.Context, employee *model.Employee) error {
	return r.db.WithContext(ctx).Create(employee).Error
}

func (r *employeeRepository) GetByID(ctx context.Context, id int64) (*model.Employee, error) {
	var employee model.Employee
	err := r.db.WithContext(ctx).First(&employee, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

// GetByUsername 根据用户名获取员工
func (r *employeeRepository) GetByUsername(ctx context.Context, username string) (*model.Employee, error) {
	var employee model.Employee
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&employee).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *employeeRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Employee{}).
		Where("username = ?", username).
		Count(&count).Error
	return count > 0, err
}
