package novel

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/wint11/SmartRead-sub001/config"
	"github.com/wint11/SmartRead-sub001/internal/audit"
	"github.com/wint11/SmartRead-sub001/internal/database"
	"github.com/wint11/SmartRead-sub001/internal/mail"
	"github.com/wint11/SmartRead-sub001/internal/middleware"
	usermodel "github.com/wint11/SmartRead-sub001/internal/model/user"
	"github.com/wint11/SmartRead-sub001/internal/review"
	"github.com/wint11/SmartRead-sub001/internal/setting"
)

// SetupNovelRoutes 设置小说与章节相关路由
func SetupNovelRoutes(r *gin.RouterGroup, db *gorm.DB) {
	repo := NewRepository(db, database.RedisDB)
	evaluator := review.NewEvaluator(config.Conf.AIReview)
	engine := review.NewEngine(db, evaluator, mail.NewClient(config.Conf.Mail))
	service := NewService(repo, engine, setting.NewRepository(db))
	handler := NewHandler(service, audit.NewLogger(db))

	// 公开浏览 - 可选认证（所有者/管理员可见未发布内容）
	novels := r.Group("/novels")
	novels.Use(middleware.OptionalJWTAuth())
	{
		novels.GET("", handler.ListNovels)                // 已发布小说列表
		novels.GET("/:id", handler.GetNovel)              // 小说详情（计阅读量）
		novels.GET("/:id/chapters", handler.ListChapters) // 小说目录
		novels.POST("/batch", handler.BatchNovels)        // 批量获取
	}

	chapters := r.Group("/chapters")
	chapters.Use(middleware.OptionalJWTAuth())
	{
		chapters.GET("/:id", handler.GetChapter)       // 章节正文
		chapters.GET("/:id/next", handler.NextChapter) // 下一章
		chapters.GET("/:id/prev", handler.PrevChapter) // 上一章
	}

	// 创作管理 - 需要作者身份
	authorNovels := r.Group("/novels")
	authorNovels.Use(middleware.JWTAuth(), middleware.RequireRole(usermodel.RoleAuthor))
	{
		authorNovels.POST("", handler.CreateNovel)
		authorNovels.PUT("/:id", handler.UpdateNovel)
		authorNovels.DELETE("/:id", handler.DeleteNovel)
		authorNovels.POST("/:id/submit", handler.SubmitNovel)
		authorNovels.POST("/:id/chapters", handler.CreateChapter)
	}

	authorChapters := r.Group("/chapters")
	authorChapters.Use(middleware.JWTAuth(), middleware.RequireRole(usermodel.RoleAuthor))
	{
		authorChapters.PUT("/:id", handler.UpdateChapter)
		authorChapters.DELETE("/:id", handler.DeleteChapter)
		authorChapters.POST("/:id/submit", handler.SubmitChapter)
		authorChapters.GET("/:id/revisions", handler.ListRevisions)
	}

	revisions := r.Group("/revisions")
	revisions.Use(middleware.JWTAuth(), middleware.RequireRole(usermodel.RoleAuthor))
	{
		revisions.POST("/:id/submit", handler.SubmitRevision)
	}

	// 作者工作台
	my := r.Group("/my")
	my.Use(middleware.JWTAuth(), middleware.RequireRole(usermodel.RoleAuthor))
	{
		my.GET("/novels", handler.MyNovels)
	}
}
