package dto

// UpsertSettingRequest 站点配置 upsert 请求
type UpsertSettingRequest struct {
	Key   string `json:"key" binding:"required,max=100"`
	Value string `json:"value" binding:"required"`
}

// UpdateUserRoleRequest 修改用户角色请求
type UpdateUserRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=READER AUTHOR ADMIN SUPER_ADMIN"`
}

// GhostMessageRequest 幽灵留言请求
type GhostMessageRequest struct {
	Nickname string `json:"nickname" binding:"required,max=50"`
	Content  string `json:"content" binding:"required,max=500"`
}
