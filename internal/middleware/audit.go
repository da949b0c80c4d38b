package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ==================== 审计上下文 ====================

// AuditContext Key
type auditContextKey struct{}

// WithAuditUser 注入当前操作人到 context
func WithAuditUser(ctx context.Context, empID int64) context.Context {
	return context.WithValue(ctx, auditContextKey{}, empID)
}

// GetAuditUserID 从 context 获取当前操作人 ID
func GetAuditUserID(ctx context.Context) int64 {
	if id, ok := ctx.Value(auditContextKey{}).(int64); ok {
		return id
	}
	return 0
}

// ==================== Gin 中间件 ====================

// AuditContext 审计上下文中间件
// 将 JWT 中的员工 ID 注入到 request context，供 GORM 回调使用
func AuditContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		if empID := GetEmpID(c); empID > 0 {
			c.Request = c.Request.WithContext(WithAuditUser(c.Request.Context(), empID))
		}
		c.Next()
	}
}

// ==================== GORM 回调 ====================

// RegisterAuditCallbacks 注册 GORM 审计回调
// Create 时填充 create_user/update_user，Update 时填充 update_user
func RegisterAuditCallbacks(db *gorm.DB) error {
	err := db.Callback().Create().Before("gorm:create").Register("audit:create", func(tx *gorm.DB) {
		userID := auditUserID(tx)
		if userID == 0 {
			return
		}
		setAuditColumn(tx, "create_user", userID)
		setAuditColumn(tx, "update_user", userID)
	})
	if err != nil {
		return err
	}

	return db.Callback().Update().Before("gorm:update").Register("audit:update", func(tx *gorm.DB) {
		if userID := auditUserID(tx); userID != 0 {
			setAuditColumn(tx, "update_user", userID)
		}
	})
}

func auditUserID(tx *gorm.DB) int64 {
	if tx.Statement.Context == nil {
		return 0
	}
	return GetAuditUserID(tx.Statement.Context)
}

// setAuditColumn 设置审计字段，兼容结构体与 map 两种更新方式
func setAuditColumn(tx *gorm.DB, column string, value int64) {
	if tx.Statement.Schema == nil || tx.Statement.Schema.LookUpField(column) == nil {
		return
	}
	tx.Statement.SetColumn(column, value, true)
}
