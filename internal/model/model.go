package model

import (
	"gorm.io/gorm"

	"github.com/wint11/SmartRead-sub001/internal/model/audit"
	"github.com/wint11/SmartRead-sub001/internal/model/ctf"
	"github.com/wint11/SmartRead-sub001/internal/model/novel"
	"github.com/wint11/SmartRead-sub001/internal/model/setting"
	"github.com/wint11/SmartRead-sub001/internal/model/user"
)

func InitTable(db *gorm.DB) error {
	// 自动迁移数据库表结构
	err := db.AutoMigrate(
		// 用户模型
		&user.User{},
		// 小说相关模型
		&novel.Novel{},
		&novel.Chapter{},
		&novel.ChapterRevision{},
		&novel.ReviewLog{},
		// 审计与配置
		&audit.AuditLog{},
		&setting.AppSetting{},
		// CTF
		&ctf.GhostMessage{},
	)
	if err != nil {
		return err
	}
	return nil
}
