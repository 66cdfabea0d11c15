// Package setting 站点配置仓储层
package setting

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	settingmodel "github.com/wint11/SmartRead-sub001/internal/model/setting"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Get 读取配置值；不存在时返回空字符串
func (r *Repository) Get(key string) (string, error) {
	var s settingmodel.AppSetting
	err := r.db.Where("key = ?", key).First(&s).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", nil
		}
		return "", err
	}
	return s.Value, nil
}

// Upsert 写入或覆盖配置
func (r *Repository) Upsert(key, value string) error {
	s := &settingmodel.AppSetting{Key: key, Value: value}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(s).Error
}

// List 返回全部配置项
func (r *Repository) List() ([]settingmodel.AppSetting, error) {
	var settings []settingmodel.AppSetting
	err := r.db.Order("key ASC").Find(&settings).Error
	return settings, err
}

// IsAIReviewEnabled 每次提交送审时现查，不做进程内缓存
// 读取失败按关闭处理，不阻塞提交
func (r *Repository) IsAIReviewEnabled() bool {
	value, err := r.Get(settingmodel.KeyAIReviewEnabled)
	if err != nil {
		return false
	}
	return value == "true"
}
