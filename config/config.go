// config/config.go - 配置管理文件
package config

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

var (
	Conf *AppConfig
	once sync.Once
	k    *koanf.Koanf
)

// AppConfig 应用配置结构
type AppConfig struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Redis    RedisConfig    `koanf:"redis"`
	Log      LogConfig      `koanf:"log"`
	JWT      JWTConfig      `koanf:"jwt"`
	Session  SessionConfig  `koanf:"session"`
	AIReview AIReviewConfig `koanf:"ai_review"`
	Mail     MailConfig     `koanf:"mail"`
}

type ServerConfig struct {
	Host         string        `koanf:"host"`
	Port         int           `koanf:"port"`
	Mode         string        `koanf:"mode"` // debug, release
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
	FrontendURL  string        `koanf:"frontend_url"`
}

type DatabaseConfig struct {
	Driver       string `koanf:"driver"`
	Host         string `koanf:"host"`
	Port         int    `koanf:"port"`
	Username     string `koanf:"username"`
	Password     string `koanf:"password"`
	Database     string `koanf:"database"`
	SSLMode      bool   `koanf:"sslmode"`
	LogLevel     string `koanf:"log_level"` // 数据库日志级别
	MaxOpenConns int    `koanf:"max_open_conns"`
	MaxIdleConns int    `koanf:"max_idle_conns"`
	MaxLifetime  int    `koanf:"max_lifetime"` // 秒
}

type RedisConfig struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
	PoolSize int    `koanf:"pool_size"`
}

type LogConfig struct {
	Level  string `koanf:"level"`  // debug, info, warn, error
	Format string `koanf:"format"` // json, console
	Output string `koanf:"output"` // stdout, stderr, file
	Path   string `koanf:"path"`   // 日志文件路径
}

type JWTConfig struct {
	Secret     string `koanf:"secret"`
	ExpireTime int    `koanf:"expire_time"` // 小时
}

// SessionConfig 会话 Cookie 配置
// 生产环境与非生产环境使用不同的固定 Cookie 名，防止跨环境串号
type SessionConfig struct {
	CookieName       string `koanf:"cookie_name"`        // 非生产环境会话 Cookie 名
	SecureCookieName string `koanf:"secure_cookie_name"` // 生产环境会话 Cookie 名
	StashPrefix      string `koanf:"stash_prefix"`       // 多账号暂存 Cookie 前缀
	StashMaxAgeDays  int    `koanf:"stash_max_age_days"` // 暂存 Cookie 过期天数
}

// AIReviewConfig AI 预审配置
// Endpoint 为空时退化为本地启发式评分
type AIReviewConfig struct {
	Endpoint string        `koanf:"endpoint"`
	APIKey   string        `koanf:"api_key"`
	Timeout  time.Duration `koanf:"timeout"` // 秒
}

type MailConfig struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Username string `koanf:"username"`
	Password string `koanf:"password"`
	From     string `koanf:"from"`
	UseTLS   bool   `koanf:"tls"`
}

// Load 加载配置文件
func Load(configPath string) error {
	var err error
	once.Do(func() {
		// 首先加载 .env 文件到环境变量
		if envErr := godotenv.Load(".env"); envErr != nil {
			log.Printf("警告: 无法加载 .env 文件: %v", envErr)
		}

		k = koanf.New(".")

		// 加载配置文件
		if err = k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			err = fmt.Errorf("加载配置文件失败: %w", err)
			return
		}

		// 加载环境变量（会覆盖配置文件）
		if envErr := k.Load(env.Provider("", ".", func(s string) string {
			return strings.Replace(strings.ToLower(s), "_", ".", -1)
		}), nil); envErr != nil {
			log.Printf("加载环境变量失败: %v", envErr)
		}

		// 解析到结构体
		Conf = &AppConfig{}
		if err = k.Unmarshal("", Conf); err != nil {
			err = fmt.Errorf("解析配置失败: %w", err)
			return
		}

		// 转换时间单位
		Conf.Server.ReadTimeout = Conf.Server.ReadTimeout * time.Second
		Conf.Server.WriteTimeout = Conf.Server.WriteTimeout * time.Second
		Conf.AIReview.Timeout = Conf.AIReview.Timeout * time.Second
	})

	return err
}

// MustLoad 加载配置，失败则 panic
func MustLoad(configPath string) {
	if err := Load(configPath); err != nil {
		log.Fatalf("配置加载失败: %v", err)
	}
}

// GetString 获取字符串配置
func GetString(key string) string {
	if k == nil {
		log.Fatal("配置未初始化")
	}
	return k.String(key)
}

// GetInt 获取整数配置
func GetInt(key string) int {
	if k == nil {
		log.Fatal("配置未初始化")
	}
	return k.Int(key)
}

// GetBool 获取布尔配置
func GetBool(key string) bool {
	if k == nil {
		log.Fatal("配置未初始化")
	}
	return k.Bool(key)
}

// Reload 重新加载配置
func Reload(configPath string) error {
	if k == nil {
		return fmt.Errorf("配置未初始化")
	}

	if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
		return err
	}

	Conf = &AppConfig{}
	if err := k.Unmarshal("", Conf); err != nil {
		return err
	}

	Conf.Server.ReadTimeout = Conf.Server.ReadTimeout * time.Second
	Conf.Server.WriteTimeout = Conf.Server.WriteTimeout * time.Second
	Conf.AIReview.Timeout = Conf.AIReview.Timeout * time.Second

	return nil
}
