// Package ctf 幽灵留言板：无需登录的匿名公共留言
package ctf

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/wint11/SmartRead-sub001/internal/dto"
	ctfmodel "github.com/wint11/SmartRead-sub001/internal/model/ctf"
	res "github.com/wint11/SmartRead-sub001/pkg/response"
)

// 留言板只保留最近的一批，防刷
const maxListSize = 100

type Handler struct {
	db *gorm.DB
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// ListMessages 最近留言，按时间倒序
func (h *Handler) ListMessages(c *gin.Context) {
	var messages []ctfmodel.GhostMessage
	if err := h.db.Order("created_at DESC").Limit(maxListSize).Find(&messages).Error; err != nil {
		dto.ErrorResponse(c, res.NewBusinessError(
			res.WithErrorCode(res.Fail),
			res.WithErrorMessage("留言加载失败"),
		))
		return
	}
	dto.SuccessResponse(c, messages)
}

// PostMessage 匿名留言
func (h *Handler) PostMessage(c *gin.Context) {
	var req dto.GhostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}

	msg := &ctfmodel.GhostMessage{
		Nickname: req.Nickname,
		Content:  req.Content,
	}
	if err := h.db.Create(msg).Error; err != nil {
		dto.ErrorResponse(c, res.NewBusinessError(
			res.WithErrorCode(res.Fail),
			res.WithErrorMessage("留言失败"),
		))
		return
	}
	dto.SuccessResponse(c, msg)
}
