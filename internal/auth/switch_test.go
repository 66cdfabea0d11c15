package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
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
			StashPrefix:      "smartread_stash_",
			StashMaxAgeDays:  30,
		},
	}
}

// cookieByName 从响应里取指定名字的 Cookie
func cookieByName(resp *http.Response, name string) *http.Cookie {
	for _, ck := range resp.Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	return nil
}

func TestActiveCookieName(t *testing.T) {
	setupTestConfig()

	debug := NewCookieStash(config.Conf.Session, "debug")
	assert.Equal(t, "smartread_session", debug.ActiveCookieName())

	release := NewCookieStash(config.Conf.Session, "release")
	assert.Equal(t, "__Secure-smartread_session", release.ActiveCookieName())
}

func TestStashActiveAndRestore_RoundTrip(t *testing.T) {
	setupTestConfig()
	gin.SetMode(gin.TestMode)

	token, err := GenerateAccessToken(&usermodel.User{
		ID: 7, Email: "alice@example.com", Name: "Alice", Role: usermodel.RoleAuthor,
	})
	require.NoError(t, err)

	stash := NewCookieStash(config.Conf.Session, "debug")

	r := gin.New()
	r.POST("/stash", func(c *gin.Context) {
		assert.True(t, stash.StashActive(c))
		c.Status(http.StatusOK)
	})
	r.POST("/restore", func(c *gin.Context) {
		assert.True(t, stash.Restore(c, 7))
		c.Status(http.StatusOK)
	})

	// 1. 暂存当前会话：活动 Cookie 清空，出现按用户ID命名的暂存 Cookie
	req := httptest.NewRequest(http.MethodPost, "/stash", nil)
	req.AddCookie(&http.Cookie{Name: "smartread_session", Value: token})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	resp := w.Result()
	stashed := cookieByName(resp, "smartread_stash_7")
	require.NotNil(t, stashed)
	assert.Equal(t, token, stashed.Value)
	assert.True(t, stashed.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, stashed.SameSite)

	cleared := cookieByName(resp, "smartread_session")
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.Negative(t, cleared.MaxAge)

	// 2. 恢复：暂存令牌原样回到活动 Cookie，暂存被删除
	req = httptest.NewRequest(http.MethodPost, "/restore", nil)
	req.AddCookie(&http.Cookie{Name: "smartread_stash_7", Value: token})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	resp = w.Result()
	active := cookieByName(resp, "smartread_session")
	require.NotNil(t, active)
	assert.Equal(t, token, active.Value, "令牌必须原样搬运，不重新签发")

	deleted := cookieByName(resp, "smartread_stash_7")
	require.NotNil(t, deleted)
	assert.Negative(t, deleted.MaxAge)
}

func TestRestore_NoStash(t *testing.T) {
	setupTestConfig()
	gin.SetMode(gin.TestMode)

	stash := NewCookieStash(config.Conf.Session, "debug")

	r := gin.New()
	r.POST("/restore", func(c *gin.Context) {
		// 暂存缺失时恢复失败，活动会话保持清空
		assert.False(t, stash.Restore(c, 42))
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/restore", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Nil(t, cookieByName(w.Result(), "smartread_session"))
}

func TestRestore_TokenUserMismatch(t *testing.T) {
	setupTestConfig()
	gin.SetMode(gin.TestMode)

	// 用户 7 的令牌被塞进用户 9 的暂存位，不允许恢复
	token, err := GenerateAccessToken(&usermodel.User{ID: 7, Email: "a@b.c", Name: "A", Role: usermodel.RoleReader})
	require.NoError(t, err)

	stash := NewCookieStash(config.Conf.Session, "debug")

	r := gin.New()
	r.POST("/restore", func(c *gin.Context) {
		assert.False(t, stash.Restore(c, 9))
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/restore", nil)
	req.AddCookie(&http.Cookie{Name: "smartread_stash_9", Value: token})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	resp := w.Result()
	assert.Nil(t, cookieByName(resp, "smartread_session"))

	// 不符的暂存被清理
	deleted := cookieByName(resp, "smartread_stash_9")
	require.NotNil(t, deleted)
	assert.Negative(t, deleted.MaxAge)
}

func TestStashActive_InvalidToken(t *testing.T) {
	setupTestConfig()
	gin.SetMode(gin.TestMode)

	stash := NewCookieStash(config.Conf.Session, "debug")

	r := gin.New()
	r.POST("/stash", func(c *gin.Context) {
		assert.False(t, stash.StashActive(c))
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/stash", nil)
	req.AddCookie(&http.Cookie{Name: "smartread_session", Value: "not-a-jwt"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	// 伪令牌不入暂存，但活动 Cookie 被清空
	resp := w.Result()
	cleared := cookieByName(resp, "smartread_session")
	require.NotNil(t, cleared)
	assert.Negative(t, cleared.MaxAge)
}

func TestGenerateAndParseAccessToken(t *testing.T) {
	setupTestConfig()

	u := &usermodel.User{ID: 3, Email: "bob@example.com", Name: "Bob", Role: usermodel.RoleAdmin}
	token, err := GenerateAccessToken(u)
	require.NoError(t, err)

	claims, err := ParseAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(3), claims.UserID)
	assert.Equal(t, "bob@example.com", claims.Email)
	assert.Equal(t, usermodel.RoleAdmin, claims.Role)

	_, err = ParseAccessToken("garbage")
	assert.Error(t, err)
}
