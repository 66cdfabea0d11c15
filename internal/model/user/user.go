// Package user 用户相关模型
package user

import "time"

// 全局角色，层级：SUPER_ADMIN > ADMIN > AUTHOR > READER
const (
	RoleReader     = "READER"
	RoleAuthor     = "AUTHOR"
	RoleAdmin      = "ADMIN"
	RoleSuperAdmin = "SUPER_ADMIN"
)

// roleLevel 角色层级表，未知角色视为最低权限
var roleLevel = map[string]int{
	RoleReader:     1,
	RoleAuthor:     2,
	RoleAdmin:      3,
	RoleSuperAdmin: 4,
}

// RoleAtLeast 判断 role 是否达到 required 的层级
func RoleAtLeast(role, required string) bool {
	return roleLevel[role] >= roleLevel[required] && roleLevel[role] > 0
}

// IsValidRole 判断角色是否合法（大小写敏感）
func IsValidRole(role string) bool {
	_, ok := roleLevel[role]
	return ok
}

// User 用户表
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	Name         string    `gorm:"type:varchar(100);not null" json:"name"`
	Role         string    `gorm:"type:varchar(20);not null;default:'READER'" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
