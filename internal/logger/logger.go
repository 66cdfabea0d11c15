// Package logger 结构化日志（zap）
package logger

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wint11/SmartRead-sub001/config"
)

var (
	global *zap.Logger
	mu     sync.RWMutex
)

// Init 根据配置初始化全局日志器
func Init(conf config.LogConfig, development bool) error {
	logger, err := New(conf, development)
	if err != nil {
		return err
	}

	mu.Lock()
	global = logger
	mu.Unlock()
	return nil
}

// L 获取全局日志器；未初始化时返回 no-op，避免空指针
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	if global == nil {
		return zap.NewNop()
	}
	return global
}

// Sync 刷新缓冲的日志，进程退出前调用
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	if global != nil {
		_ = global.Sync()
	}
}

// New 创建 zap 日志器
func New(conf config.LogConfig, development bool) (*zap.Logger, error) {
	// 日志级别
	level := zap.NewAtomicLevel()
	switch conf.Level {
	case "debug":
		level.SetLevel(zapcore.DebugLevel)
	case "warn":
		level.SetLevel(zapcore.WarnLevel)
	case "error":
		level.SetLevel(zapcore.ErrorLevel)
	default:
		level.SetLevel(zapcore.InfoLevel)
	}

	// 编码器
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if development {
		encoderConfig = zap.NewDevelopmentEncoderConfig()
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	var encoder zapcore.Encoder
	if conf.Format == "console" {
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	} else {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	}

	// 输出目标
	var writeSyncer zapcore.WriteSyncer
	switch conf.Output {
	case "stderr":
		writeSyncer = zapcore.AddSync(os.Stderr)
	case "file":
		if conf.Path == "" {
			writeSyncer = zapcore.AddSync(os.Stdout)
		} else {
			file, err := os.OpenFile(conf.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
			if err != nil {
				return nil, err
			}
			writeSyncer = zapcore.AddSync(file)
		}
	default:
		writeSyncer = zapcore.AddSync(os.Stdout)
	}

	core := zapcore.NewCore(encoder, writeSyncer, level)
	logger := zap.New(core, zap.AddStacktrace(zapcore.ErrorLevel))

	if development {
		logger = logger.WithOptions(zap.AddCaller())
	}

	return logger, nil
}
