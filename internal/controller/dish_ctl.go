package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sky_takeout/internal/api/dto"
	"sky_takeout/internal/repository"
	"sky_takeout/internal/service"
)

// DishController 菜品管理
type DishController struct {
	dishSvc *service.DishService
}

func NewDishController(dishSvc *service.DishService) *DishController {
	return &DishController{dishSvc: dishSvc}
}

// Create 新增菜品
// @Summary 新增菜品（含口味）
// @Tags Dish (菜品管理)
// @Router /admin/dish [post]
func (c *DishController) Create(ctx *gin.Context) {
	var req dto.DishRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	dish, flavors := req.ToModel()
	id, err := c.dishSvc.Create(ctx.Request.Context(), dish, flavors)
	if err != nil {
		handleError(ctx, err)
		return
	}
	success(ctx, gin.H{"id": id})
}

// Update 修改菜品，口味整体替换
// @Summary 修改菜品
// @Tags Dish (菜品管理)
// @Router /admin/dish [put]
func (c *DishController) Update(ctx *gin.Context) {
	var req dto.DishRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}
	if req.ID <= 0 {
		fail(ctx, http.StatusBadRequest, "无效的菜品ID")
		return
	}

	dish, flavors := req.ToModel()
	if err := c.dishSvc.Update(ctx.Request.Context(), dish, flavors); err != nil {
		handleError(ctx, err)
		return
	}
	success(ctx, nil)
}

// Delete 批量删除菜品
// @Summary 批量删除菜品
// @Tags Dish (菜品管理)
// @Param ids query string true "菜品ID，逗号分隔"
// @Router /admin/dish [delete]
func (c *DishController) Delete(ctx *gin.Context) {
	ids, err := parseIDs(ctx.Query("ids"))
	if err != nil {
		badRequest(ctx, err)
		return
	}

	if err := c.dishSvc.Delete(ctx.Request.Context(), ids); err != nil {
		handleError(ctx, err)
		return
	}
	success(ctx, nil)
}

// SetStatus 菜品起售/停售
// @Summary 菜品起售停售
// @Tags Dish (菜品管理)
// @Param status path int true "1起售 0停售"
// @Param id query int true "菜品ID"
// @Router /admin/dish/status/{status} [post]
func (c *DishController) SetStatus(ctx *gin.Context) {
	status, ok := pathStatus(ctx)
	if !ok {
		return
	}
	id, ok := queryID(ctx, "id")
	if !ok {
		return
	}

	if err := c.dishSvc.SetStatus(ctx.Request.Context(), id, status); err != nil {
		handleError(ctx, err)
		return
	}
	success(ctx, nil)
}

// Page 菜品分页查询
// @Summary 菜品分页查询
// @Tags Dish (菜品管理)
// @Router /admin/dish/page [get]
func (c *DishController) Page(ctx *gin.Context) {
	var q dto.DishPageQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		badRequest(ctx, err)
		return
	}

	result, err := c.dishSvc.PageQuery(ctx.Request.Context(), repository.DishFilter{
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

// Get 根据ID查询菜品（含口味）
// @Summary 查询菜品详情
// @Tags Dish (菜品管理)
// @Router /admin/dish/{id} [get]
func (c *DishController) Get(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	vo, err := c.dishSvc.GetWithFlavors(ctx.Request.Context(), id)
	if err != nil {
		handleError(ctx, err)
		return
	}
	success(ctx, vo)
}

// ListByCategory 查询分类下起售中的菜品，套餐编辑时选择菜品使用
// @Summary 根据分类查询菜品
// @Tags Dish (菜品管理)
// @Router /admin/dish/list [get]
func (c *DishController) ListByCategory(ctx *gin.Context) {
	categoryID, ok := queryID(ctx, "categoryId")
	if !ok {
		return
	}

	dishes, err := c.dishSvc.ListByCategory(ctx.Request.Context(), categoryID)
	if err != nil {
		handleError(ctx, err)
		return
	}
	success(ctx, dishes)
}
