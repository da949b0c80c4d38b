package dto

// EmployeeLoginRequest 员工登录
type EmployeeLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// EmployeeLoginVO 登录结果
type EmployeeLoginVO struct {
	ID       int64  `json:"id"`
	UserName string `json:"userName"`
	Name     string `json:"name"`
	Token    string `json:"token"`
}
