package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ==================== 错误类型 ====================

// 业务错误类别，使用 errors.Is 判断
var (
	ErrSaleConflict        = errors.New("起售状态冲突")
	ErrReferentialConflict = errors.New("存在关联数据")
	ErrNotFound            = errors.New("记录不存在")
	ErrValidation          = errors.New("参数校验失败")
)

// 业务提示信息
const (
	MsgDishOnSale             = "起售中的菜品不能删除"
	MsgDishBeRelatedBySetmeal = "当前菜品关联了套餐,不能删除"
	MsgDishNotFound           = "菜品不存在"
	MsgSetmealOnSale          = "起售中的套餐不能删除"
	MsgSetmealEnableFailed    = "套餐内包含未启售菜品，无法启售"
	MsgSetmealNotFound        = "套餐不存在"
	MsgCategoryBeRelatedDish  = "当前分类关联了菜品,不能删除"
	MsgCategoryBeRelatedMeal  = "当前分类关联了套餐,不能删除"
	MsgCategoryNotFound       = "分类不存在"
	MsgCategoryTypeMismatch   = "分类类型不匹配"
	MsgInvalidStatus          = "状态值不合法"
)

// CatalogError 携带业务提示的错误
type CatalogError struct {
	Kind error
	Msg  string
}

func (e *CatalogError) Error() string {
	return e.Msg
}

func (e *CatalogError) Unwrap() error {
	return e.Kind
}

func saleConflict(msg string) error {
	return &CatalogError{Kind: ErrSaleConflict, Msg: msg}
}

func referentialConflict(msg string) error {
	return &CatalogError{Kind: ErrReferentialConflict, Msg: msg}
}

func notFound(msg string) error {
	return &CatalogError{Kind: ErrNotFound, Msg: msg}
}

func validation(format string, args ...interface{}) error {
	return &CatalogError{Kind: ErrValidation, Msg: fmt.Sprintf(format, args...)}
}

// storeError 包装存储层错误；唯一约束冲突转为参数错误
func storeError(op string, err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return validation("%s: 名称已存在", op)
	}
	return fmt.Errorf("%s: %w", op, err)
}
