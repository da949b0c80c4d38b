package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"sky_takeout/internal/api/dto"
	"sky_takeout/internal/model"
	"sky_takeout/internal/repository"
	"sky_takeout/internal/service"
)

// CategoryController 分类管理
type CategoryController struct {
	categorySvc *service.CategoryService
}

func NewCategoryController(categorySvc *service.CategoryService) *CategoryController {
	return &CategoryController{categorySvc: categorySvc}
}

// Create 新增分类，默认禁用
// @Summary 新增分类
// @Tags Category (分类管理)
// @Router /admin/category [post]
func (c *CategoryController) Create(ctx *gin.Context) {
	var req dto.CategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	id, err := c.categorySvc.Create(ctx.Request.Context(), &model.Category{
		Type: req.Type,
		Name: req.Name,
		Sort: req.Sort,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}
	success(ctx, gin.H{"id": id})
}

// Update 修改分类
// @Summary 修改分类
// @Tags Category (分类管理)
// @Router /admin/category [put]
func (c *CategoryController) Update(ctx *gin.Context) {
	var req dto.CategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}
	if req.ID <= 0 {
		fail(ctx, http.StatusBadRequest, "无效的分类ID")
		return
	}

	err := c.categorySvc.Update(ctx.Request.Context(), &model.Category{
		ID:   req.ID,
		Type: req.Type,
		Name: req.Name,
		Sort: req.Sort,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}
	success(ctx, nil)
}

// Delete 删除分类
// @Summary 删除分类
// @Tags Category (分类管理)
// @Param id query int true "分类ID"
// @Router /admin/category [delete]
func (c *CategoryController) Delete(ctx *gin.Context) {
	id, ok := queryID(ctx, "id")
	if !ok {
		return
	}

	if err := c.categorySvc.Delete(ctx.Request.Context(), id); err != nil {
		handleError(ctx, err)
		return
	}
	success(ctx, nil)
}

// SetStatus 启用/禁用分类
// @Summary 启用禁用分类
// @Tags Category (分类管理)
// @Router /admin/category/status/{status} [post]
func (c *CategoryController) SetStatus(ctx *gin.Context) {
	status, ok := pathStatus(ctx)
	if !ok {
		return
	}
	id, ok := queryID(ctx, "id")
	if !ok {
		return
	}

	if err := c.categorySvc.SetStatus(ctx.Request.Context(), id, status); err != nil {
		handleError(ctx, err)
		return
	}
	success(ctx, nil)
}

// Page 分类分页查询
// @Summary 分类分页查询
// @Tags Category (分类管理)
// @Router /admin/category/page [get]
func (c *CategoryController) Page(ctx *gin.Context) {
	var q dto.CategoryPageQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		badRequest(ctx, err)
		return
	}

	result, err := c.categorySvc.PageQuery(ctx.Request.Context(), repository.CategoryFilter{
		Name:     q.Name,
		Type:     q.Type,
		Page:     q.Page,
		PageSize: q.PageSize,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}
	success(ctx, result)
}

// List 根据类型查询启用的分类
// @Summary 根据类型查询分类
// @Tags Category (分类管理)
// @Param type query int false "1菜品分类 2套餐分类"
// @Router /admin/category/list [get]
func (c *CategoryController) List(ctx *gin.Context) {
	categoryType := 0
	if raw := ctx.Query("type"); raw != "" {
		t, err := strconv.Atoi(raw)
		if err != nil {
			fail(ctx, http.StatusBadRequest, "无效的分类类型")
			return
		}
		categoryType = t
	}

	categories, err := c.categorySvc.ListByType(ctx.Request.Context(), categoryType)
	if err != nil {
		handleError(ctx, err)
		return
	}
	success(ctx, categories)
}
