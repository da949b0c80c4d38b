package controller

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"sky_takeout/internal/service"
)

const maxUploadSize = service.MaxImageSize

// CommonController 通用接口
type CommonController struct {
	storageSvc *service.StorageService
}

func NewCommonController(storageSvc *service.StorageService) *CommonController {
	return &CommonController{storageSvc: storageSvc}
}

// Upload 上传图片，返回访问地址
// @Summary 文件上传
// @Tags Common (通用接口)
// @Accept multipart/form-data
// @Param file formData file true "图片文件"
// @Router /admin/common/upload [post]
func (c *CommonController) Upload(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		fail(ctx, http.StatusBadRequest, "请选择要上传的文件")
		return
	}
	if fileHeader.Size > maxUploadSize {
		fail(ctx, http.StatusBadRequest, "文件大小不能超过10MB")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		handleError(ctx, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		handleError(ctx, err)
		return
	}

	url, err := c.storageSvc.UploadImage(ctx.Request.Context(), data, fileHeader.Filename)
	if err != nil {
		handleError(ctx, err)
		return
	}
	success(ctx, url)
}

// UploadFromURL 抓取远程图片并保存
// @Summary 通过URL上传图片
// @Tags Common (通用接口)
// @Router /admin/common/upload/url [post]
func (c *CommonController) UploadFromURL(ctx *gin.Context) {
	var req struct {
		URL string `json:"url" binding:"required,url"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	url, err := c.storageSvc.UploadFromURL(ctx.Request.Context(), req.URL)
	if err != nil {
		handleError(ctx, err)
		return
	}
	success(ctx, url)
}
