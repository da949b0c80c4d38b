package controller

import (
	"github.com/gin-gonic/gin"

	"sky_takeout/internal/model"
	"sky_takeout/internal/repository"
	"sky_takeout/internal/service"
)

// UserCatalogController C 端浏览接口，只返回起售中的数据
type UserCatalogController struct {
	categorySvc *service.CategoryService
	dishSvc     *service.DishService
	setmealSvc  *service.SetmealService
}

func NewUserCatalogController(
	categorySvc *service.CategoryService,
	dishSvc *service.DishService,
	setmealSvc *service.SetmealService,
) *UserCatalogController {
	return &UserCatalogController{
		categorySvc: categorySvc,
		dishSvc:     dishSvc,
		setmealSvc:  setmealSvc,
	}
}

// Categories 查询启用的分类
// @Router /user/category/list [get]
func (c *UserCatalogController) Categories(ctx *gin.Context) {
	categoryType := 0
	switch ctx.Query("type") {
	case "1":
		categoryType = model.CategoryTypeDish
	case "2":
		categoryType = model.CategoryTypeSetmeal
	}

	categories, err := c.categorySvc.ListByType(ctx.Request.Context(), categoryType)
	if err != nil {
		handleError(ctx, err)
		return
	}
	success(ctx, categories)
}

// Dishes 查询分类下起售中的菜品（含口味）
// @Router /user/dish/list [get]
func (c *UserCatalogController) Dishes(ctx *gin.Context) {
	categoryID, ok := queryID(ctx, "categoryId")
	if !ok {
		return
	}

	status := model.StatusEnable
	dishes, err := c.dishSvc.ListWithFlavors(ctx.Request.Context(), repository.DishFilter{
		CategoryID: categoryID,
		Status:     &status,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}
	success(ctx, dishes)
}

// Setmeals 查询分类下起售中的套餐
// @Router /user/setmeal/list [get]
func (c *UserCatalogController) Setmeals(ctx *gin.Context) {
	categoryID, ok := queryID(ctx, "categoryId")
	if !ok {
		return
	}

	setmeals, err := c.setmealSvc.ListByCategory(ctx.Request.Context(), categoryID)
	if err != nil {
		handleError(ctx, err)
		return
	}
	success(ctx, setmeals)
}

// SetmealDishes 查询套餐内菜品
// @Router /user/setmeal/dish/{id} [get]
func (c *UserCatalogController) SetmealDishes(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	items, err := c.setmealSvc.DishItems(ctx.Request.Context(), id)
	if err != nil {
		handleError(ctx, err)
		return
	}
	success(ctx, items)
}
