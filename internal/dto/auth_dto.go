package dto

// RegisterRequest 注册请求
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Name     string `json:"name" binding:"required,min=2,max=100"`
	// 注册身份，默认 READER；AUTHOR 需要显式声明
	Role string `json:"role" binding:"omitempty,oneof=READER AUTHOR"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// SwitchAccountRequest 多账号切换请求
type SwitchAccountRequest struct {
	TargetUserID uint `json:"target_user_id" binding:"required"`
}
