package admin

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/wint11/SmartRead-sub001/internal/audit"
	"github.com/wint11/SmartRead-sub001/internal/dto"
	"github.com/wint11/SmartRead-sub001/internal/review"
	"github.com/wint11/SmartRead-sub001/internal/setting"
	res "github.com/wint11/SmartRead-sub001/pkg/response"
)

type Handler struct {
	service  *Service
	settings *setting.Repository
	auditor  *audit.Logger
}

func NewHandler(service *Service, settings *setting.Repository, auditor *audit.Logger) *Handler {
	return &Handler{service: service, settings: settings, auditor: auditor}
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		dto.ErrorResponse(c, res.NewBusinessError(
			res.WithErrorCode(res.InvalidParameter),
			res.WithErrorMessage("非法的 ID"),
		))
		return 0, false
	}
	return uint(id), true
}

func parsePaging(c *gin.Context) (offset, limit int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	size, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if size < 1 || size > 100 {
		size = 20
	}
	return (page - 1) * size, size
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		dto.ErrorResponse(c, res.NewBusinessError(
			res.WithErrorCode(res.NotFound),
			res.WithErrorMessage("内容不存在"),
		))
	case errors.Is(err, review.ErrStatusConflict):
		dto.ErrorResponse(c, res.NewBusinessError(
			res.WithErrorCode(res.Conflict),
			res.WithErrorMessage(err.Error()),
		))
	case errors.Is(err, ErrRoleEscalation):
		dto.ErrorResponse(c, res.NewBusinessError(
			res.WithErrorCode(res.Forbidden),
			res.WithErrorMessage(err.Error()),
		))
	case errors.Is(err, review.ErrInvalidTransition), errors.Is(err, ErrUnknownRole):
		dto.ErrorResponse(c, res.NewBusinessError(
			res.WithErrorCode(res.InvalidParameter),
			res.WithErrorMessage(err.Error()),
		))
	default:
		dto.ErrorResponse(c, res.NewBusinessError(
			res.WithErrorCode(res.Fail),
			res.WithErrorMessage("操作失败"),
		))
	}
}

// PendingNovels 待审小说队列
func (h *Handler) PendingNovels(c *gin.Context) {
	offset, limit := parsePaging(c)
	novels, total, err := h.service.PendingNovels(offset, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	dto.SuccessResponse(c, gin.H{"items": novels, "total": total})
}

// PendingChapters 待审章节队列
func (h *Handler) PendingChapters(c *gin.Context) {
	offset, limit := parsePaging(c)
	chapters, total, err := h.service.PendingChapters(offset, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	dto.SuccessResponse(c, gin.H{"items": chapters, "total": total})
}

// PendingRevisions 待审修订稿队列
func (h *Handler) PendingRevisions(c *gin.Context) {
	offset, limit := parsePaging(c)
	revs, total, err := h.service.PendingRevisions(offset, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	dto.SuccessResponse(c, gin.H{"items": revs, "total": total})
}

// ReviewNovel 审核小说（approve/reject）
func (h *Handler) ReviewNovel(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.ReviewActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}

	reviewerID := c.GetUint("user_id")
	if err := h.service.ReviewNovel(c.Request.Context(), id, reviewerID, req.Action, req.Feedback); err != nil {
		respondError(c, err)
		return
	}

	h.auditor.Log(&reviewerID, "NOVEL_REVIEW", "novel",
		strconv.FormatUint(uint64(id), 10)+":"+req.Action, c.ClientIP())
	dto.SuccessResponse(c, gin.H{"message": "审核完成"})
}

// ReviewChapter 审核章节
func (h *Handler) ReviewChapter(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.ReviewActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}

	reviewerID := c.GetUint("user_id")
	if err := h.service.ReviewChapter(c.Request.Context(), id, reviewerID, req.Action, req.Feedback); err != nil {
		respondError(c, err)
		return
	}

	h.auditor.Log(&reviewerID, "CHAPTER_REVIEW", "chapter",
		strconv.FormatUint(uint64(id), 10)+":"+req.Action, c.ClientIP())
	dto.SuccessResponse(c, gin.H{"message": "审核完成"})
}

// ReviewRevision 审核修订稿
func (h *Handler) ReviewRevision(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.ReviewActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}

	reviewerID := c.GetUint("user_id")
	if err := h.service.ReviewRevision(c.Request.Context(), id, reviewerID, req.Action, req.Feedback); err != nil {
		respondError(c, err)
		return
	}

	h.auditor.Log(&reviewerID, "REVISION_REVIEW", "revision",
		strconv.FormatUint(uint64(id), 10)+":"+req.Action, c.ClientIP())
	dto.SuccessResponse(c, gin.H{"message": "审核完成"})
}

// ReviewLogs 审核记录列表，novel_id 查询参数可选
func (h *Handler) ReviewLogs(c *gin.Context) {
	offset, limit := parsePaging(c)
	novelID, _ := strconv.ParseUint(c.Query("novel_id"), 10, 64)

	logs, total, err := h.service.ReviewLogs(uint(novelID), offset, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	dto.SuccessResponse(c, gin.H{"items": logs, "total": total})
}

// AuditLogs 审计日志列表，action 查询参数可选
func (h *Handler) AuditLogs(c *gin.Context) {
	offset, limit := parsePaging(c)

	logs, total, err := h.auditor.List(c.Query("action"), offset, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	dto.SuccessResponse(c, gin.H{"items": logs, "total": total})
}

// GetSettings 站点配置列表
func (h *Handler) GetSettings(c *gin.Context) {
	settings, err := h.settings.List()
	if err != nil {
		respondError(c, err)
		return
	}
	dto.SuccessResponse(c, settings)
}

// UpsertSetting 写入站点配置（如 AI_REVIEW_ENABLED）
func (h *Handler) UpsertSetting(c *gin.Context) {
	var req dto.UpsertSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}

	if err := h.settings.Upsert(req.Key, req.Value); err != nil {
		respondError(c, err)
		return
	}

	actorID := c.GetUint("user_id")
	h.auditor.Log(&actorID, "SETTING_UPDATE", "setting", req.Key+"="+req.Value, c.ClientIP())
	dto.SuccessResponse(c, gin.H{"key": req.Key, "value": req.Value})
}

// ListUsers 用户列表
func (h *Handler) ListUsers(c *gin.Context) {
	offset, limit := parsePaging(c)
	users, total, err := h.service.ListUsers(offset, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	dto.SuccessResponse(c, gin.H{"items": users, "total": total})
}

// UpdateUserRole 修改用户角色；管理员角色授予仅限超级管理员
func (h *Handler) UpdateUserRole(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateUserRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}

	actorID := c.GetUint("user_id")
	actorRole := c.GetString("user_role")

	u, err := h.service.UpdateUserRole(actorRole, id, req.Role)
	if err != nil {
		respondError(c, err)
		return
	}

	h.auditor.Log(&actorID, "USER_ROLE_UPDATE", "user",
		strconv.FormatUint(uint64(id), 10)+":"+req.Role, c.ClientIP())
	dto.SuccessResponse(c, u)
}
