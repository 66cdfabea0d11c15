// Package setting 站点配置模型
package setting

import "time"

// AI 预审开关，值为字符串 "true" / "false"
const KeyAIReviewEnabled = "AI_REVIEW_ENABLED"

// AppSetting 键值配置表，由管理员 upsert，提交送审时读取
type AppSetting struct {
	Key       string    `gorm:"type:varchar(100);primaryKey" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (AppSetting) TableName() string {
	return "app_settings"
}
