package ctf

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupGhostRoutes 设置幽灵留言板路由（公开）
func SetupGhostRoutes(r *gin.RouterGroup, db *gorm.DB) {
	handler := NewHandler(db)

	ghost := r.Group("/ghost-messages")
	{
		ghost.GET("", handler.ListMessages)
		ghost.POST("", handler.PostMessage)
	}
}
