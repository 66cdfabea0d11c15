package database

import (
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/wint11/SmartRead-sub001/config"
	"github.com/wint11/SmartRead-sub001/internal/logger"
	"github.com/wint11/SmartRead-sub001/internal/model"
)

var (
	PostgresDB *gorm.DB
	RedisDB    *RedisClient
)

func InitDatabase() {
	initPostgres()
	initRedis()
}

func initPostgres() {
	databaseConf := config.Conf.Database

	var err error
	PostgresDB, err = InitPostgres(
		&PostgresConfig{
			ServiceName:     "smartread",
			Username:        databaseConf.Username,
			Password:        databaseConf.Password,
			Host:            databaseConf.Host,
			Port:            databaseConf.Port,
			Database:        databaseConf.Database,
			SSLMode:         databaseConf.SSLMode,
			LogLevel:        databaseConf.LogLevel,
			MaxIdleConns:    databaseConf.MaxIdleConns,
			MaxOpenConns:    databaseConf.MaxOpenConns,
			ConnMaxLifetime: time.Duration(databaseConf.MaxLifetime) * time.Second,
		},
	)

	if err != nil {
		panic(err)
	}

	// 初始化数据库表
	if err = model.InitTable(PostgresDB); err != nil {
		panic(err)
	}

	logger.L().Info("数据库连接成功")
}

// initRedis Redis 仅用于阅读量去重，连接失败时降级运行
func initRedis() {
	redisConf := config.Conf.Redis

	client, err := InitRedis(&RedisConfig{
		ServiceName: "smartread",
		Host:        redisConf.Host,
		Port:        redisConf.Port,
		Password:    redisConf.Password,
		DB:          redisConf.DB,
		PoolSize:    redisConf.PoolSize,
	})
	if err != nil {
		logger.L().Warn("Redis 连接失败，阅读量去重降级为每次计数", zap.Error(err))
		return
	}

	RedisDB = client
	logger.L().Info("Redis 连接成功")
}

// GetDB 获取数据库实例
func GetDB() *gorm.DB {
	return PostgresDB
}
