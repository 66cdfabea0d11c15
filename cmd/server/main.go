package main

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/wint11/SmartRead-sub001/config"
	"github.com/wint11/SmartRead-sub001/internal/database"
	"github.com/wint11/SmartRead-sub001/internal/logger"
	"github.com/wint11/SmartRead-sub001/internal/route"
)

func main() {
	// 1. 加载配置
	config.MustLoad("config.yaml")

	// 2. 初始化日志
	if err := logger.Init(config.Conf.Log, config.Conf.Server.Mode != "release"); err != nil {
		panic(err)
	}
	defer logger.Sync()

	// 3. 初始化数据库
	database.InitDatabase()

	// 4. 设置路由
	r := route.SetupRouter()

	// 5. 启动服务
	addr := fmt.Sprintf("%s:%d", config.Conf.Server.Host, config.Conf.Server.Port)
	logger.L().Info("服务启动", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		logger.L().Fatal("服务退出", zap.Error(err))
	}
}
