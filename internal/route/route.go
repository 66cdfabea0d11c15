package route

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/wint11/SmartRead-sub001/config"
	"github.com/wint11/SmartRead-sub001/internal/admin"
	"github.com/wint11/SmartRead-sub001/internal/auth"
	"github.com/wint11/SmartRead-sub001/internal/ctf"
	"github.com/wint11/SmartRead-sub001/internal/database"
	"github.com/wint11/SmartRead-sub001/internal/novel"
)

// initRoute 注册各业务模块路由，统一挂在 /api 下
func initRoute(r *gin.Engine) {
	db := database.GetDB()

	api := r.Group("/api")
	{
		auth.SetupAuthRoutes(api, db)
		novel.SetupNovelRoutes(api, db)
		admin.SetupAdminRoutes(api, db)
		ctf.SetupGhostRoutes(api, db)
	}
}

func SetupRouter() *gin.Engine {
	gin.SetMode(config.Conf.Server.Mode)
	r := gin.Default()

	origin := config.Conf.Server.FrontendURL
	if origin == "" {
		origin = "http://localhost:5173" // 默认值
	}

	// 设置跨域请求；会话走 Cookie，需要放行凭证
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{origin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	}))

	initRoute(r)

	return r
}
