package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// ==================== JWT 配置 ====================

// JWTConfig JWT 配置
type JWTConfig struct {
	SecretKey string        // 签名密钥
	TTL       time.Duration // Token 有效期
	Issuer    string        // 签发者
	TokenName string        // 前端传递 Token 的请求头
}

// DefaultJWTConfig 默认配置
func DefaultJWTConfig() *JWTConfig {
	return &JWTConfig{
		SecretKey: "sky-takeout-secret-change-in-production",
		TTL:       2 * time.Hour,
		Issuer:    "sky_takeout",
		TokenName: "token",
	}
}

// 全局配置
var jwtConfig = DefaultJWTConfig()

// SetJWTConfig 设置 JWT 配置
func SetJWTConfig(cfg *JWTConfig) {
	if cfg.TokenName == "" {
		cfg.TokenName = "token"
	}
	jwtConfig = cfg
}

// GetJWTConfig 获取 JWT 配置
func GetJWTConfig() *JWTConfig {
	return jwtConfig
}

// ==================== Claims 定义 ====================

// EmployeeClaims 员工声明
type EmployeeClaims struct {
	EmpID int64 `json:"emp_id"`
	jwt.RegisteredClaims
}

// GenerateToken 为员工签发 Token
func GenerateToken(empID int64) (string, error) {
	now := time.Now()
	claims := &EmployeeClaims{
		EmpID: empID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    jwtConfig.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(jwtConfig.TTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtConfig.SecretKey))
}

// ParseToken 解析 Token
func ParseToken(tokenString string) (*EmployeeClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &EmployeeClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(jwtConfig.SecretKey), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*EmployeeClaims); ok && token.Valid && claims.EmpID > 0 {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}

// ==================== Gin 中间件 ====================

// Context Keys
const (
	ContextKeyEmpID  = "emp_id"
	ContextKeyClaims = "claims"
)

// JWTAuth JWT 认证中间件
// 优先读取 token 请求头，其次 Authorization: Bearer {token}
func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code": 0,
				"msg":  "未提供认证信息",
			})
			c.Abort()
			return
		}

		claims, err := ParseToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code": 0,
				"msg":  "Token 无效或已过期",
			})
			c.Abort()
			return
		}

		// 注入员工信息到 Context
		c.Set(ContextKeyEmpID, claims.EmpID)
		c.Set(ContextKeyClaims, claims)

		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	if token := c.GetHeader(jwtConfig.TokenName); token != "" {
		return token
	}

	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}

// ==================== 辅助函数 ====================

// GetEmpID 从 Context 获取员工 ID
func GetEmpID(c *gin.Context) int64 {
	if id, exists := c.Get(ContextKeyEmpID); exists {
		return id.(int64)
	}
	return 0
}
