// Package audit 审计日志模型
package audit

import "time"

// AuditLog 系统级审计日志，只追加
// UserID 为 NULL 表示系统自动产生的记录
type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    *uint     `gorm:"index" json:"user_id,omitempty"`
	Action    string    `gorm:"type:varchar(100);not null;index" json:"action"`
	Resource  string    `gorm:"type:varchar(100);not null" json:"resource"`
	Details   string    `gorm:"type:text" json:"details,omitempty"`
	IPAddress string    `gorm:"type:varchar(45)" json:"ip_address,omitempty"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
