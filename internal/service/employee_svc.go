package service

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"sky_takeout/internal/api/dto"
	"sky_takeout/internal/middleware"
	"sky_takeout/internal/model"
	"sky_takeout/internal/repository"
)

var (
	ErrInvalidCredentials = errors.New("用户名或密码错误")
	ErrAccountLocked      = errors.New("账号被锁定")
	ErrUsernameExists     = errors.New("用户名已存在")
)

// EmployeeService 员工服务
type EmployeeService struct {
	employeeRepo repository.EmployeeRepository
}

func NewEmployeeService(employeeRepo repository.EmployeeRepository) *EmployeeService {
	return &EmployeeService{employeeRepo: employeeRepo}
}

// Login 员工登录，成功后签发 Token
func (s *EmployeeService) Login(ctx context.Context, req *dto.EmployeeLoginRequest) (*dto.EmployeeLoginVO, error) {
	employee, err := s.employeeRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, storeError("查询员工失败", err)
	}
	if employee == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(employee.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if employee.Status != model.StatusEnable {
		return nil, ErrAccountLocked
	}

	token, err := middleware.GenerateToken(employee.ID)
	if err != nil {
		return nil, err
	}

	return &dto.EmployeeLoginVO{
		ID:       employee.ID,
		UserName: employee.Username,
		Name:     employee.Name,
		Token:    token,
	}, nil
}

// Create 新增员工，密码以 bcrypt 哈希保存
func (s *EmployeeService) Create(ctx context.Context, username, name, password string) (int64, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return 0, validation("用户名和密码不能为空")
	}

	exists, err := s.employeeRepo.ExistsByUsername(ctx, username)
	if err != nil {
		return 0, storeError("查询员工失败", err)
	}
	if exists {
		return 0, ErrUsernameExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, err
	}

	employee := &model.Employee{
		Username: username,
		Name:     name,
		Password: string(hashed),
		Status:   model.StatusEnable,
	}
	if err := s.employeeRepo.Create(ctx, employee); err != nil {
		return 0, storeError("新增员工失败", err)
	}
	return employee.ID, nil
}
