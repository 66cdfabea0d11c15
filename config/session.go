package config

import "fmt"

// ActiveCookieName 当前环境使用的会话 Cookie 名
// release 模式使用 __Secure- 前缀的生产名，其余环境使用普通名
func (s SessionConfig) ActiveCookieName(mode string) string {
	if mode == "release" {
		if s.SecureCookieName != "" {
			return s.SecureCookieName
		}
		return "__Secure-smartread_session"
	}
	if s.CookieName != "" {
		return s.CookieName
	}
	return "smartread_session"
}

// StashCookieName 指定用户的会话暂存 Cookie 名：固定前缀 + 用户ID
func (s SessionConfig) StashCookieName(userID uint) string {
	prefix := s.StashPrefix
	if prefix == "" {
		prefix = "smartread_stash_"
	}
	return fmt.Sprintf("%s%d", prefix, userID)
}

// StashMaxAge 暂存 Cookie 生存期（秒），默认 30 天
func (s SessionConfig) StashMaxAge() int {
	days := s.StashMaxAgeDays
	if days <= 0 {
		days = 30
	}
	return days * 24 * 3600
}
