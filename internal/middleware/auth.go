package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/wint11/SmartRead-sub001/config"
	"github.com/wint11/SmartRead-sub001/internal/dto"
	"github.com/wint11/SmartRead-sub001/internal/model/user"
	"github.com/wint11/SmartRead-sub001/pkg/response"
)

// Claims JWT 载荷
type Claims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// parseToken 从会话 Cookie 或 Authorization header 中解析 token
func parseToken(c *gin.Context) (*Claims, error) {
	var tokenString string

	// 优先从会话 Cookie 中获取
	cookieName := config.Conf.Session.ActiveCookieName(config.Conf.Server.Mode)
	tokenString, err := c.Cookie(cookieName)
	if err != nil || tokenString == "" {
		// Cookie 中没有则尝试 Authorization header（兼容 API 调用）
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			return nil, fmt.Errorf("未提供认证令牌")
		}

		// 验证格式: Bearer <token>
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			tokenString = authHeader[7:]
		} else {
			return nil, fmt.Errorf("认证格式错误")
		}
	}

	// 解析 token
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// 验证签名算法
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(config.Conf.JWT.Secret), nil
	})

	if err != nil {
		return nil, fmt.Errorf("无效的认证令牌")
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("认证令牌无效")
}

// JWTAuth JWT 认证中间件（必需认证）
func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := parseToken(c)
		if err != nil {
			dto.ErrorResponse(c, response.NewBusinessError(
				response.WithErrorCode(response.Unauthorized),
				response.WithErrorMessage(err.Error()),
			))
			c.Abort()
			return
		}

		// 将用户信息存入上下文
		c.Set("user_id", claims.UserID)
		c.Set("user_name", claims.Name)
		c.Set("email", claims.Email)
		c.Set("user_role", claims.Role)
		c.Next()
	}
}

// OptionalJWTAuth 可选的 JWT 认证中间件（不强制要求认证，但如果有token则解析）
func OptionalJWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := parseToken(c)
		if err == nil && claims != nil {
			c.Set("user_id", claims.UserID)
			c.Set("user_name", claims.Name)
			c.Set("email", claims.Email)
			c.Set("user_role", claims.Role)
		}
		// 无论是否有 token，都继续执行
		c.Next()
	}
}

// RequireRole 角色门禁中间件，要求全局角色达到 minRole 层级
// 必须挂在 JWTAuth 之后
func RequireRole(minRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := c.Get("user_role")
		roleStr, _ := role.(string)

		if !user.RoleAtLeast(roleStr, minRole) {
			dto.ErrorResponse(c, response.NewBusinessError(
				response.WithErrorCode(response.Forbidden),
				response.WithErrorMessage("权限不足"),
			))
			c.Abort()
			return
		}
		c.Next()
	}
}
