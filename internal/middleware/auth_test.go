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

	"github.com/wint11/SmartRead-sub001/config"
	usermodel "github.com/wint11/SmartRead-sub001/internal/model/user"
)

func setupTestConfig() {
	config.Conf = &config.AppConfig{
		Server: config.ServerConfig{Mode: "debug"},
		JWT:    config.JWTConfig{Secret: "test-secret", ExpireTime: 1},
		Session: config.SessionConfig{
			CookieName:       "smartread_session",
			SecureCookieName: "__Secure-smartread_session",
		},
	}
}

func signToken(t *testing.T, userID uint, role string) string {
	t.Helper()

	claims := Claims{
		UserID: userID,
		Email:  "user@example.com",
		Name:   "user",
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(config.Conf.JWT.Secret))
	require.NoError(t, err)
	return token
}

func protectedRouter(minRole string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/protected", JWTAuth(), RequireRole(minRole), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetUint("user_id")})
	})
	return r
}

func TestJWTAuth_CookieAndBearer(t *testing.T) {
	setupTestConfig()
	r := protectedRouter(usermodel.RoleReader)
	token := signToken(t, 5, usermodel.RoleReader)

	// Cookie 认证
	req := httptest.NewRequest(http.MethodPost, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "smartread_session", Value: token})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// Bearer 兜底
	req = httptest.NewRequest(http.MethodPost, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// 无令牌
	req = httptest.NewRequest(http.MethodPost, "/protected", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// 伪造令牌
	req = httptest.NewRequest(http.MethodPost, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRole(t *testing.T) {
	setupTestConfig()

	tests := []struct {
		name     string
		role     string
		minRole  string
		wantCode int
	}{
		{"读者访问读者接口", usermodel.RoleReader, usermodel.RoleReader, http.StatusOK},
		{"读者访问作者接口", usermodel.RoleReader, usermodel.RoleAuthor, http.StatusForbidden},
		{"作者访问管理接口", usermodel.RoleAuthor, usermodel.RoleAdmin, http.StatusForbidden},
		{"管理员访问管理接口", usermodel.RoleAdmin, usermodel.RoleAdmin, http.StatusOK},
		{"超管访问管理接口", usermodel.RoleSuperAdmin, usermodel.RoleAdmin, http.StatusOK},
		{"未知角色一律拒绝", "GHOST", usermodel.RoleReader, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := protectedRouter(tt.minRole)
			token := signToken(t, 1, tt.role)

			req := httptest.NewRequest(http.MethodPost, "/protected", nil)
			req.AddCookie(&http.Cookie{Name: "smartread_session", Value: token})
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
		})
	}
}
