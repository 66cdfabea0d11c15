package auth

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/wint11/SmartRead-sub001/internal/audit"
	"github.com/wint11/SmartRead-sub001/internal/dto"
	"github.com/wint11/SmartRead-sub001/internal/logger"
	res "github.com/wint11/SmartRead-sub001/pkg/response"
)

type Handler struct {
	service *Service
	stash   *CookieStash
	auditor *audit.Logger
}

func NewHandler(service *Service, stash *CookieStash, auditor *audit.Logger) *Handler {
	return &Handler{service: service, stash: stash, auditor: auditor}
}

// Register 用户注册，成功后直接建立会话
func (h *Handler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}

	u, err := h.service.Register(req.Email, req.Password, req.Name, req.Role)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			dto.ErrorResponse(c, res.NewBusinessError(
				res.WithErrorCode(res.Conflict),
				res.WithErrorMessage(err.Error()),
			))
			return
		}
		dto.ErrorResponse(c, res.NewBusinessError(
			res.WithErrorCode(res.Fail),
			res.WithErrorMessage("注册失败"),
		))
		return
	}

	token, err := GenerateAccessToken(u)
	if err != nil {
		dto.ErrorResponse(c, res.NewBusinessError(
			res.WithErrorCode(res.Fail),
			res.WithErrorMessage("令牌签发失败"),
		))
		return
	}
	h.stash.SetActive(c, token)

	h.auditor.Log(&u.ID, "USER_REGISTER", "user", u.Email, c.ClientIP())
	dto.SuccessResponse(c, gin.H{"user": u, "token": token})
}

// Login 登录
// 浏览器里已有别的账号在线时，先把旧会话暂存再写入新会话，
// 支持一个浏览器同时挂多个账号
func (h *Handler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}

	u, err := h.service.Login(req.Email, req.Password)
	if err != nil {
		h.auditor.Log(nil, "USER_LOGIN_FAILED", "user", req.Email, c.ClientIP())
		dto.ErrorResponse(c, res.NewBusinessError(
			res.WithErrorCode(res.Unauthorized),
			res.WithErrorMessage(ErrInvalidCredentials.Error()),
		))
		return
	}

	token, err := GenerateAccessToken(u)
	if err != nil {
		dto.ErrorResponse(c, res.NewBusinessError(
			res.WithErrorCode(res.Fail),
			res.WithErrorMessage("令牌签发失败"),
		))
		return
	}

	h.stash.StashActive(c)
	h.stash.SetActive(c, token)

	h.auditor.Log(&u.ID, "USER_LOGIN", "user", u.Email, c.ClientIP())
	dto.SuccessResponse(c, gin.H{"user": u, "token": token})
}

// Logout 登出，仅清当前活动会话，暂存的其他账号不受影响
func (h *Handler) Logout(c *gin.Context) {
	if userID, exists := c.Get("user_id"); exists {
		if id, ok := userID.(uint); ok {
			h.auditor.Log(&id, "USER_LOGOUT", "user", "", c.ClientIP())
		}
	}

	h.stash.ClearActive(c)
	dto.SuccessResponse(c, gin.H{"message": "已退出登录"})
}

// Me 返回当前用户信息；角色现查数据库而非令牌快照
func (h *Handler) Me(c *gin.Context) {
	userID := c.GetUint("user_id")

	u, err := h.service.GetUser(userID)
	if err != nil {
		dto.ErrorResponse(c, res.NewBusinessError(
			res.WithErrorCode(res.NotFound),
			res.WithErrorMessage("用户不存在"),
		))
		return
	}
	dto.SuccessResponse(c, u)
}

// AddAccount 暂存当前会话并跳转登录，用于再登一个账号
func (h *Handler) AddAccount(c *gin.Context) {
	userID := c.GetUint("user_id")

	h.stash.StashActive(c)

	h.auditor.Log(&userID, "ACCOUNT_ADD", "session", "", c.ClientIP())
	dto.SuccessResponse(c, gin.H{"redirect": "/login"})
}

// SwitchAccount 切换到浏览器内暂存的另一个账号
// 当前会话先入暂存；目标暂存缺失时活动会话保持清空、
// 仍然跳转首页（前端会落到未登录态）
func (h *Handler) SwitchAccount(c *gin.Context) {
	var req dto.SwitchAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}

	userID := c.GetUint("user_id")

	h.stash.StashActive(c)

	if !h.stash.Restore(c, req.TargetUserID) {
		logger.L().Warn("切换目标无暂存会话，活动会话保持清空",
			zap.Uint("from_user", userID),
			zap.Uint("target_user", req.TargetUserID))
	}

	h.auditor.Log(&userID, "ACCOUNT_SWITCH", "session", "", c.ClientIP())
	dto.SuccessResponse(c, gin.H{"redirect": "/"})
}
