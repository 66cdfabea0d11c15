// Package audit 审计日志写入与查询
package audit

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/wint11/SmartRead-sub001/internal/logger"
	auditmodel "github.com/wint11/SmartRead-sub001/internal/model/audit"
)

// Logger 审计日志服务
// 写入为 best-effort：失败只记录本地日志，绝不阻塞业务主流程
type Logger struct {
	db *gorm.DB
}

func NewLogger(db *gorm.DB) *Logger {
	return &Logger{db: db}
}

// Log 写入一条审计记录；userID 为 nil 表示系统行为
func (l *Logger) Log(userID *uint, action, resource, details, ipAddress string) {
	entry := &auditmodel.AuditLog{
		UserID:    userID,
		Action:    action,
		Resource:  resource,
		Details:   details,
		IPAddress: ipAddress,
	}

	if err := l.db.Create(entry).Error; err != nil {
		// 审计完整性是 best-effort，不回传错误
		logger.L().Warn("审计日志写入失败",
			zap.String("action", action),
			zap.String("resource", resource),
			zap.Error(err))
	}
}

// List 分页查询审计日志（按时间倒序），action 为空表示不过滤
func (l *Logger) List(action string, offset, limit int) ([]auditmodel.AuditLog, int64, error) {
	query := l.db.Model(&auditmodel.AuditLog{})
	if action != "" {
		query = query.Where("action = ?", action)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []auditmodel.AuditLog
	err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&logs).Error
	return logs, total, err
}
