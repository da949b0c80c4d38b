package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sky_takeout/internal/api/dto"
	"sky_takeout/internal/repository"
	"sky_takeout/internal/service"
)

// SetmealController 套餐管理
type SetmealController struct {
	setmealSvc *service.SetmealService
}

func NewSetmealController(setmealSvc *service.SetmealService) *SetmealController {
	return &SetmealController{setmealSvc: setmealSvc}
}

// Create 新增套餐
// @Summary 新增套餐（含菜品关联）
// @Tags Setmeal (套餐管理)
// @Router /admin/setmeal [post]
func (c *SetmealController) Create(ctx *gin.Context) {
	var req dto.SetmealRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	setmeal, items := req.ToModel()
	id, err := c.setmealSvc.Create(ctx.Request.Context(), setmeal, items)
	if err != nil {
		handleError(ctx, err)
		return
	}
	success(ctx, gin.H{"id": id})
}

// Update 修改套餐，菜品关联整体替换
// @Summary 修改套餐
// @Tags Setmeal (套餐管理)
// @Router /admin/setmeal [put]
func (c *SetmealController) Update(ctx *gin.Context) {
	var req dto.SetmealRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}
	if req.ID <= 0 {
		fail(ctx, http.StatusBadRequest, "无效的套餐ID")
		return
	}

	setmeal, items := req.ToModel()
	if err := c.setmealSvc.Update(ctx.Request.Context(), setmeal, items); err != nil {
		handleError(ctx, err)
		return
	}
	success(ctx, nil)
}

// Delete 批量删除套餐
// @Summary 批量删除套餐
// @Tags Setmeal (套餐管理)
// @Router /admin/setmeal [delete]
func (c *SetmealController) Delete(ctx *gin.Context) {
	ids, err := parseIDs(ctx.Query("ids"))
	if err != nil {
		badRequest(ctx, err)
		return
	}

	if err := c.setmealSvc.Delete(ctx.Request.Context(), ids); err != nil {
		handleError(ctx, err)
		return
	}
	success(ctx, nil)
}

// SetStatus 套餐起售/停售
// @Summary 套餐起售停售
// @Tags Setmeal (套餐管理)
// @Router /admin/setmeal/status/{status} [post]
func (c *SetmealController) SetStatus(ctx *gin.Context) {
	status, ok := pathStatus(ctx)
	if !ok {
		return
	}
	id, ok := queryID(ctx, "id")
	if !ok {
		return
	}

	if err := c.setmealSvc.SetStatus(ctx.Request.Context(), id, status); err != nil {
		handleError(ctx, err)
		return
	}
	success(ctx, nil)
}

// Page 套餐分页查询
// @Summary 套餐分页查询
// @Tags Setmeal (套餐管理)
// @Router /admin/setmeal/page [get]
func (c *SetmealController) Page(ctx *gin.Context) {
	var q dto.SetmealPageQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		badRequest(ctx, err)
		return
	}

	result, err := c.setmealSvc.PageQuery(ctx.Request.Context(), repository.SetmealFilter{
		Name:       q.Name,
		CategoryID: q.CategoryID,
		Status:     q.Status,
		Page:       q.Page,
		PageSize:   q.PageSize,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}
	success(ctx, result)
}

// Get 根据ID查询套餐（含菜品关联）
// @Summary 查询套餐详情
// @Tags Setmeal (套餐管理)
// @Router /admin/setmeal/{id} [get]
func (c *SetmealController) Get(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	vo, err := c.setmealSvc.GetWithDishes(ctx.Request.Context(), id)
	if err != nil {
		handleError(ctx, err)
		return
	}
	success(ctx, vo)
}
