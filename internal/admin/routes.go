package admin

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/wint11/SmartRead-sub001/config"
	"github.com/wint11/SmartRead-sub001/internal/audit"
	"github.com/wint11/SmartRead-sub001/internal/database"
	"github.com/wint11/SmartRead-sub001/internal/mail"
	"github.com/wint11/SmartRead-sub001/internal/middleware"
	usermodel "github.com/wint11/SmartRead-sub001/internal/model/user"
	"github.com/wint11/SmartRead-sub001/internal/novel"
	"github.com/wint11/SmartRead-sub001/internal/review"
	"github.com/wint11/SmartRead-sub001/internal/setting"
)

// SetupAdminRoutes 设置审核后台路由，整组要求管理员身份
func SetupAdminRoutes(r *gin.RouterGroup, db *gorm.DB) {
	novelRepo := novel.NewRepository(db, database.RedisDB)
	evaluator := review.NewEvaluator(config.Conf.AIReview)
	engine := review.NewEngine(db, evaluator, mail.NewClient(config.Conf.Mail))
	service := NewService(db, novelRepo, engine)
	handler := NewHandler(service, setting.NewRepository(db), audit.NewLogger(db))

	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.JWTAuth(), middleware.RequireRole(usermodel.RoleAdmin))
	{
		// 待审队列
		adminGroup.GET("/novels/pending", handler.PendingNovels)
		adminGroup.GET("/chapters/pending", handler.PendingChapters)
		adminGroup.GET("/revisions/pending", handler.PendingRevisions)

		// 人工审核
		adminGroup.POST("/novels/:id/review", handler.ReviewNovel)
		adminGroup.POST("/chapters/:id/review", handler.ReviewChapter)
		adminGroup.POST("/revisions/:id/review", handler.ReviewRevision)

		// 审核与审计记录
		adminGroup.GET("/review-logs", handler.ReviewLogs)
		adminGroup.GET("/audit-logs", handler.AuditLogs)

		// 站点配置
		adminGroup.GET("/settings", handler.GetSettings)
		adminGroup.PUT("/settings", handler.UpsertSetting)

		// 用户管理（管理员角色授予在 service 层限定超级管理员）
		adminGroup.GET("/users", handler.ListUsers)
		adminGroup.PUT("/users/:id/role", handler.UpdateUserRole)
	}
}
