// Package ctf CTF 小游戏相关模型
package ctf

import "time"

// GhostMessage 幽灵留言板
// 站内 CTF 玩法的一部分：匿名留言，公开可读可写
type GhostMessage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Nickname  string    `gorm:"type:varchar(50);not null" json:"nickname"`
	Content   string    `gorm:"type:varchar(500);not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

func (GhostMessage) TableName() string {
	return "ghost_messages"
}
