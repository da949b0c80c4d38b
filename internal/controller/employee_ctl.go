package controller

import (
	"github.com/gin-gonic/gin"

	"sky_takeout/internal/api/dto"
	"sky_takeout/internal/middleware"
	"sky_takeout/internal/service"
)

// EmployeeController 员工登录
type EmployeeController struct {
	employeeSvc *service.EmployeeService
	limiter     *middleware.CooldownLimiter
}

func NewEmployeeController(employeeSvc *service.EmployeeService, limiter *middleware.CooldownLimiter) *EmployeeController {
	return &EmployeeController{employeeSvc: employeeSvc, limiter: limiter}
}

// Login 员工登录
// @Summary 员工登录
// @Tags Employee (员工)
// @Router /admin/employee/login [post]
func (c *EmployeeController) Login(ctx *gin.Context) {
	var req dto.EmployeeLoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	vo, err := c.employeeSvc.Login(ctx.Request.Context(), &req)
	if err != nil {
		handleError(ctx, err)
		return
	}

	// 登录成功后清除冷却，不影响正常的重新登录
	if c.limiter != nil {
		c.limiter.Reset("login:" + ctx.ClientIP())
	}
	success(ctx, vo)
}

// Logout 退出登录，Token 无状态，由前端丢弃
// @Summary 员工退出
// @Tags Employee (员工)
// @Router /admin/employee/logout [post]
func (c *EmployeeController) Logout(ctx *gin.Context) {
	success(ctx, nil)
}
