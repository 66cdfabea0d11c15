package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wint11/SmartRead-sub001/config"
)

// CookieStash 同一浏览器内的多账号会话存取
// 活动会话只有一个 Cookie；其余账号的令牌以「前缀+用户ID」的 Cookie 暂存，
// 切换时原样搬运，不重新签发
type CookieStash struct {
	conf config.SessionConfig
	mode string
}

func NewCookieStash(conf config.SessionConfig, mode string) *CookieStash {
	return &CookieStash{conf: conf, mode: mode}
}

func (s *CookieStash) secure() bool {
	return s.mode == "release"
}

// ActiveCookieName 当前环境的活动会话 Cookie 名
func (s *CookieStash) ActiveCookieName() string {
	return s.conf.ActiveCookieName(s.mode)
}

// ActiveToken 读取活动会话令牌
func (s *CookieStash) ActiveToken(c *gin.Context) (string, bool) {
	token, err := c.Cookie(s.ActiveCookieName())
	if err != nil || token == "" {
		return "", false
	}
	return token, true
}

// SetActive 写入活动会话 Cookie
func (s *CookieStash) SetActive(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.ActiveCookieName(), token, s.conf.StashMaxAge(), "/", "", s.secure(), true)
}

// ClearActive 清除活动会话 Cookie
func (s *CookieStash) ClearActive(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.ActiveCookieName(), "", -1, "/", "", s.secure(), true)
}

// Stash 将令牌按用户ID暂存
func (s *CookieStash) Stash(c *gin.Context, userID uint, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.conf.StashCookieName(userID), token, s.conf.StashMaxAge(), "/", "", s.secure(), true)
}

// StashedToken 读取指定用户的暂存令牌
func (s *CookieStash) StashedToken(c *gin.Context, userID uint) (string, bool) {
	token, err := c.Cookie(s.conf.StashCookieName(userID))
	if err != nil || token == "" {
		return "", false
	}
	return token, true
}

// DeleteStash 删除指定用户的暂存 Cookie
func (s *CookieStash) DeleteStash(c *gin.Context, userID uint) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.conf.StashCookieName(userID), "", -1, "/", "", s.secure(), true)
}

// StashActive 把当前活动会话暂存到其所属用户名下并清空活动 Cookie
// 活动令牌无效时只做清空；返回是否发生了暂存
func (s *CookieStash) StashActive(c *gin.Context) bool {
	token, ok := s.ActiveToken(c)
	if !ok {
		return false
	}

	claims, err := ParseAccessToken(token)
	if err != nil {
		// 过期或伪造的令牌不值得暂存
		s.ClearActive(c)
		return false
	}

	s.Stash(c, claims.UserID, token)
	s.ClearActive(c)
	return true
}

// Restore 把目标用户的暂存令牌恢复为活动会话并删除暂存
// 令牌原样搬运；暂存缺失或令牌与目标用户不符时返回 false
func (s *CookieStash) Restore(c *gin.Context, targetUserID uint) bool {
	token, ok := s.StashedToken(c, targetUserID)
	if !ok {
		return false
	}

	claims, err := ParseAccessToken(token)
	if err != nil || claims.UserID != targetUserID {
		s.DeleteStash(c, targetUserID)
		return false
	}

	s.SetActive(c, token)
	s.DeleteStash(c, targetUserID)
	return true
}
