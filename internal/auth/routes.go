package auth

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/wint11/SmartRead-sub001/config"
	"github.com/wint11/SmartRead-sub001/internal/audit"
	"github.com/wint11/SmartRead-sub001/internal/middleware"
)

// SetupAuthRoutes 设置认证相关路由
func SetupAuthRoutes(r *gin.RouterGroup, db *gorm.DB) {
	service := NewService(db)
	stash := NewCookieStash(config.Conf.Session, config.Conf.Server.Mode)
	auditor := audit.NewLogger(db)
	handler := NewHandler(service, stash, auditor)

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", handler.Register)
		authGroup.POST("/login", handler.Login)
		authGroup.POST("/logout", handler.Logout)
	}

	// 需要登录的部分
	authed := r.Group("/auth")
	authed.Use(middleware.JWTAuth())
	{
		authed.GET("/me", handler.Me)
		authed.POST("/accounts/add", handler.AddAccount)
		authed.POST("/accounts/switch", handler.SwitchAccount)
	}
}
