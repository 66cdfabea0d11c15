package novel

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/wint11/SmartRead-sub001/internal/audit"
	"github.com/wint11/SmartRead-sub001/internal/dto"
	"github.com/wint11/SmartRead-sub001/internal/review"
	res "github.com/wint11/SmartRead-sub001/pkg/response"
)

type Handler struct {
	service *Service
	auditor *audit.Logger
}

func NewHandler(service *Service, auditor *audit.Logger) *Handler {
	return &Handler{service: service, auditor: auditor}
}

// viewerFrom 从上下文取访问者身份；未登录时为零值
func viewerFrom(c *gin.Context) Viewer {
	return Viewer{
		UserID: c.GetUint("user_id"),
		Role:   c.GetString("user_role"),
	}
}

// visitorKey 阅读量去重的访问来源：登录用户按用户ID，匿名按客户端IP
func visitorKey(c *gin.Context) string {
	if userID := c.GetUint("user_id"); userID > 0 {
		return fmt.Sprintf("u%d", userID)
	}
	return "ip:" + c.ClientIP()
}

// parseIDParam 解析路径里的数字 ID
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

// parsePaging 解析 page/page_size，默认第 1 页、每页 20、上限 100
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

// respondError 业务错误到响应码的统一映射
func respondError(c *gin.Context, err error) {
	switch {
	case IsNotFound(err):
		dto.ErrorResponse(c, res.NewBusinessError(
			res.WithErrorCode(res.NotFound),
			res.WithErrorMessage("内容不存在"),
		))
	case errors.Is(err, review.ErrPermissionDenied):
		dto.ErrorResponse(c, res.NewBusinessError(
			res.WithErrorCode(res.Forbidden),
			res.WithErrorMessage(err.Error()),
		))
	case errors.Is(err, review.ErrStatusConflict):
		dto.ErrorResponse(c, res.NewBusinessError(
			res.WithErrorCode(res.Conflict),
			res.WithErrorMessage(err.Error()),
		))
	case errors.Is(err, review.ErrInvalidTransition), errors.Is(err, ErrInvalidID):
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

// ListNovels 已发布小说浏览（公开）
func (h *Handler) ListNovels(c *gin.Context) {
	offset, limit := parsePaging(c)
	category := c.Query("category")
	search := c.Query("search")

	novels, total, err := h.service.ListPublished(category, search, offset, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	dto.SuccessResponse(c, gin.H{"items": novels, "total": total})
}

// GetNovel 小说详情（公开，计阅读量）
func (h *Handler) GetNovel(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	n, err := h.service.GetNovel(c.Request.Context(), id, viewerFrom(c), visitorKey(c))
	if err != nil {
		respondError(c, err)
		return
	}
	dto.SuccessResponse(c, n)
}

// BatchNovels 批量获取（公开），前端以字符串数组传 ID
func (h *Handler) BatchNovels(c *gin.Context) {
	var req dto.BatchNovelsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}

	novels, err := h.service.BatchNovels(req.IDs)
	if err != nil {
		respondError(c, err)
		return
	}
	dto.SuccessResponse(c, novels)
}

// ListChapters 小说目录（公开，读者仅见已发布章节）
func (h *Handler) ListChapters(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	chapters, err := h.service.ListChapters(id, viewerFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	dto.SuccessResponse(c, chapters)
}

// GetChapter 章节正文（公开，未发布仅所有者/管理员）
func (h *Handler) GetChapter(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ch, err := h.service.GetChapter(id, viewerFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	dto.SuccessResponse(c, ch)
}

// NextChapter 下一章（公开）
func (h *Handler) NextChapter(c *gin.Context) {
	h.adjacentChapter(c, +1)
}

// PrevChapter 上一章（公开）
func (h *Handler) PrevChapter(c *gin.Context) {
	h.adjacentChapter(c, -1)
}

func (h *Handler) adjacentChapter(c *gin.Context, delta int) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ch, err := h.service.AdjacentChapter(id, delta)
	if err != nil {
		respondError(c, err)
		return
	}
	dto.SuccessResponse(c, ch)
}

// CreateNovel 新建小说（AUTHOR+）
func (h *Handler) CreateNovel(c *gin.Context) {
	var req dto.CreateNovelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}

	actorID := c.GetUint("user_id")
	n, err := h.service.CreateNovel(actorID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.auditor.Log(&actorID, "NOVEL_CREATE", "novel", n.Title, c.ClientIP())
	dto.SuccessResponse(c, n)
}

// UpdateNovel 更新小说基础信息（所有者）
func (h *Handler) UpdateNovel(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateNovelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}

	actorID := c.GetUint("user_id")
	n, err := h.service.UpdateNovel(actorID, id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	dto.SuccessResponse(c, n)
}

// DeleteNovel 删除小说（所有者）
func (h *Handler) DeleteNovel(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	actorID := c.GetUint("user_id")
	if err := h.service.DeleteNovel(actorID, id); err != nil {
		respondError(c, err)
		return
	}

	h.auditor.Log(&actorID, "NOVEL_DELETE", "novel", strconv.FormatUint(uint64(id), 10), c.ClientIP())
	dto.SuccessResponse(c, gin.H{"message": "已删除"})
}

// SubmitNovel 小说送审（所有者）
func (h *Handler) SubmitNovel(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	actorID := c.GetUint("user_id")
	if err := h.service.SubmitNovel(c.Request.Context(), actorID, id); err != nil {
		respondError(c, err)
		return
	}

	h.auditor.Log(&actorID, "NOVEL_SUBMIT", "novel", strconv.FormatUint(uint64(id), 10), c.ClientIP())
	dto.SuccessResponse(c, gin.H{"message": "已提交审核"})
}

// MyNovels 作者自己的作品列表
func (h *Handler) MyNovels(c *gin.Context) {
	novels, err := h.service.MyNovels(c.GetUint("user_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	dto.SuccessResponse(c, novels)
}

// CreateChapter 新建章节（所有者）
func (h *Handler) CreateChapter(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.CreateChapterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}

	actorID := c.GetUint("user_id")
	ch, err := h.service.CreateChapter(actorID, id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	dto.SuccessResponse(c, ch)
}

// UpdateChapter 编辑章节（所有者）
// 已发布章节返回的是新落的修订稿
func (h *Handler) UpdateChapter(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateChapterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}

	actorID := c.GetUint("user_id")
	ch, rev, err := h.service.UpdateChapter(actorID, id, req)
	if err != nil {
		respondError(c, err)
		return
	}

	if rev != nil {
		dto.SuccessResponse(c, gin.H{"chapter": ch, "revision": rev})
		return
	}
	dto.SuccessResponse(c, ch)
}

// DeleteChapter 删除章节（所有者）
func (h *Handler) DeleteChapter(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	actorID := c.GetUint("user_id")
	if err := h.service.DeleteChapter(actorID, id); err != nil {
		respondError(c, err)
		return
	}
	dto.SuccessResponse(c, gin.H{"message": "已删除"})
}

// SubmitChapter 章节送审（所有者）
// 首次送审可能触发 AI 预审；未通过时章节保持草稿并返回评分
func (h *Handler) SubmitChapter(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	actorID := c.GetUint("user_id")
	evalResult, err := h.service.SubmitChapter(c.Request.Context(), actorID, id)
	if err != nil {
		if errors.Is(err, review.ErrPreReviewRejected) {
			c.JSON(400, res.CustomResponse(
				res.WithCode(res.InvalidParameter),
				res.WithMessage(err.Error()),
				res.WithData(evalResult),
			))
			return
		}
		respondError(c, err)
		return
	}

	h.auditor.Log(&actorID, "CHAPTER_SUBMIT", "chapter", strconv.FormatUint(uint64(id), 10), c.ClientIP())
	dto.SuccessResponse(c, gin.H{"message": "已提交审核", "eval": evalResult})
}

// ListRevisions 章节修订稿历史（所有者）
func (h *Handler) ListRevisions(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	revs, err := h.service.ListRevisions(c.GetUint("user_id"), id)
	if err != nil {
		respondError(c, err)
		return
	}
	dto.SuccessResponse(c, revs)
}

// SubmitRevision 修订稿送审（所有者）
func (h *Handler) SubmitRevision(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	actorID := c.GetUint("user_id")
	if err := h.service.SubmitRevision(c.Request.Context(), actorID, id); err != nil {
		respondError(c, err)
		return
	}

	h.auditor.Log(&actorID, "REVISION_SUBMIT", "revision", strconv.FormatUint(uint64(id), 10), c.ClientIP())
	dto.SuccessResponse(c, gin.H{"message": "已提交审核"})
}
