// Package auth 用户注册、登录与多账号会话管理
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/wint11/SmartRead-sub001/config"
	"github.com/wint11/SmartRead-sub001/internal/middleware"
	usermodel "github.com/wint11/SmartRead-sub001/internal/model/user"
)

// GenerateAccessToken 签发访问令牌，角色快照写入载荷
// 角色变更后需重新登录或由 /me 接口现查生效
func GenerateAccessToken(u *usermodel.User) (string, error) {
	expireHours := config.Conf.JWT.ExpireTime
	if expireHours <= 0 {
		expireHours = 24
	}

	now := time.Now()
	claims := middleware.Claims{
		UserID: u.ID,
		Email:  u.Email,
		Name:   u.Name,
		Role:   u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "smartread",
			Subject:   u.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expireHours) * time.Hour)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.Conf.JWT.Secret))
}

// ParseAccessToken 校验令牌并返回载荷，供会话暂存恢复时验证归属
func ParseAccessToken(tokenString string) (*middleware.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &middleware.Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(config.Conf.JWT.Secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*middleware.Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
