package dto

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"sky_takeout/internal/model"
)

// RegisterValidators 注册自定义校验规则
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("catalog_status", validateCatalogStatus)
}

// catalog_status: 仅允许 0(停售) / 1(起售)
func validateCatalogStatus(fl validator.FieldLevel) bool {
	return model.ValidStatus(int(fl.Field().Int()))
}
