package testutils

import (
	"fmt"
	"os"
	"strconv"
	"testing"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	dbPkg "github.com/wint11/SmartRead-sub001/internal/database"
	"github.com/wint11/SmartRead-sub001/internal/model"
)

// SetupTestDB 连接测试数据库并完成建表
// 数据库不可用时跳过测试而非失败，保证纯逻辑测试在无环境时也能跑通；
// 返回的是事务，测试结束自动回滚
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		host := getEnvOrDefault("POSTGRES_HOST", "localhost")
		port := getEnvOrDefault("POSTGRES_PORT", "5433")
		user := getEnvOrDefault("POSTGRES_USER", "test")
		password := getEnvOrDefault("POSTGRES_PASSWORD", "test")
		dbname := getEnvOrDefault("POSTGRES_DB", "smartread_test")

		dsn = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			host, port, user, password, dbname)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Skipf("测试数据库不可用，跳过: %v", err)
	}

	if err := model.InitTable(db); err != nil {
		t.Fatalf("测试数据库建表失败: %v", err)
	}

	tx := db.Begin()
	t.Cleanup(func() {
		tx.Rollback()
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	return tx
}

// SetupTestRedis 连接测试 Redis；不可用时返回 nil，依赖方按降级路径测试
func SetupTestRedis(t *testing.T) *dbPkg.RedisClient {
	t.Helper()

	redisHost := getEnvOrDefault("REDIS_HOST", "localhost")
	redisPort, err := strconv.Atoi(getEnvOrDefault("REDIS_PORT", "6380"))
	if err != nil || redisPort == 0 {
		redisPort = 6380
	}

	redisClient, err := dbPkg.InitRedis(&dbPkg.RedisConfig{
		ServiceName: "smartread-test",
		Host:        redisHost,
		Port:        redisPort,
		Password:    "",
		DB:          0,
	})
	if err != nil {
		return nil
	}

	t.Cleanup(func() {
		redisClient.Close()
	})
	return redisClient
}

func getEnvOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
