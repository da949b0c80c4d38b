package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withJWTConfig(t *testing.T, cfg *JWTConfig) {
	prev := GetJWTConfig()
	SetJWTConfig(cfg)
	t.Cleanup(func() { SetJWTConfig(prev) })
}

func TestGenerateAndParseToken(t *testing.T) {
	withJWTConfig(t, &JWTConfig{SecretKey: "test-secret", TTL: time.Hour, Issuer: "test"})

	token, err := GenerateToken(42)
	require.NoError(t, err)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.EmpID)
	assert.Equal(t, "test", claims.Issuer)
	assert.Equal(t, "token", GetJWTConfig().TokenName)
}

func TestParseToken_Invalid(t *testing.T) {
	withJWTConfig(t, &JWTConfig{SecretKey: "test-secret", TTL: time.Hour})

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &EmployeeClaims{
		EmpID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	expiredToken, err := expired.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	otherKey, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &EmployeeClaims{EmpID: 1}).
		SignedString([]byte("other-secret"))
	require.NoError(t, err)

	noEmp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &EmployeeClaims{}).
		SignedString([]byte("test-secret"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"格式错误", "not-a-token"},
		{"已过期", expiredToken},
		{"密钥不匹配", otherKey},
		{"缺少员工ID", noEmp},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseToken(tt.token)
			assert.Error(t, err)
		})
	}
}

func TestJWTAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	withJWTConfig(t, &JWTConfig{SecretKey: "test-secret", TTL: time.Hour})

	r := gin.New()
	r.GET("/me", JWTAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"empId": GetEmpID(c)})
	})

	token, err := GenerateToken(7)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header map[string]string
		want   int
	}{
		{"token 请求头", map[string]string{"token": token}, http.StatusOK},
		{"Bearer", map[string]string{"Authorization": "Bearer " + token}, http.StatusOK},
		{"未提供", nil, http.StatusUnauthorized},
		{"无效 token", map[string]string{"token": "bad"}, http.StatusUnauthorized},
		{"非 Bearer", map[string]string{"Authorization": "Basic " + token}, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusOK {
				assert.JSONEq(t, `{"empId":7}`, w.Body.String())
			}
		})
	}
}
