package controller

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sky_takeout/internal/middleware"
	"sky_takeout/internal/service"
	"sky_takeout/pkg/logger"
)

// ==================== 统一响应 ====================

// Result 统一响应结构，code 为 1 表示成功，0 表示失败
type Result struct {
	Code int         `json:"code"`
	Msg  string      `json:"msg,omitempty"`
	Data interface{} `json:"data"`
}

func success(ctx *gin.Context, data interface{}) {
	ctx.JSON(http.StatusOK, Result{Code: 1, Data: data})
}

func fail(ctx *gin.Context, status int, msg string) {
	ctx.JSON(status, Result{Code: 0, Msg: msg})
}

func badRequest(ctx *gin.Context, err error) {
	middleware.ObserveRejection("validation")
	fail(ctx, http.StatusBadRequest, "参数错误: "+err.Error())
}

// handleError 业务错误映射为 HTTP 状态码
func handleError(ctx *gin.Context, err error) {
	var catalogErr *service.CatalogError
	switch {
	case errors.As(err, &catalogErr):
		status, kind := catalogStatus(catalogErr.Kind)
		middleware.ObserveRejection(kind)
		fail(ctx, status, catalogErr.Msg)
	case errors.Is(err, service.ErrInvalidCredentials):
		fail(ctx, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrAccountLocked):
		fail(ctx, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrUsernameExists):
		fail(ctx, http.StatusConflict, err.Error())
	default:
		logger.L().Error("请求处理失败",
			zap.String("path", ctx.FullPath()),
			zap.Error(err),
		)
		_ = ctx.Error(err)
		fail(ctx, http.StatusInternalServerError, "服务器内部错误")
	}
}

func catalogStatus(kind error) (int, string) {
	switch {
	case errors.Is(kind, service.ErrValidation):
		return http.StatusBadRequest, "validation"
	case errors.Is(kind, service.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(kind, service.ErrSaleConflict):
		return http.StatusConflict, "sale_conflict"
	case errors.Is(kind, service.ErrReferentialConflict):
		return http.StatusConflict, "referential_conflict"
	default:
		return http.StatusInternalServerError, "unknown"
	}
}

// ==================== 参数解析 ====================

func pathID(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		fail(ctx, http.StatusBadRequest, "无效的ID")
		return 0, false
	}
	return id, true
}

func queryID(ctx *gin.Context, key string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Query(key), 10, 64)
	if err != nil || id <= 0 {
		fail(ctx, http.StatusBadRequest, "无效的参数: "+key)
		return 0, false
	}
	return id, true
}

// pathStatus 解析 /status/:status
func pathStatus(ctx *gin.Context) (int, bool) {
	status, err := strconv.Atoi(ctx.Param("status"))
	if err != nil {
		fail(ctx, http.StatusBadRequest, "无效的状态值")
		return 0, false
	}
	return status, true
}

// parseIDs 解析逗号分隔的 ID 列表，如 ids=1,2,3
func parseIDs(raw string) ([]int64, error) {
	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, errors.New("无效的ID: " + p)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
