package dto

// CreateNovelRequest 创建小说请求
type CreateNovelRequest struct {
	Title       string `json:"title" binding:"required,max=255"`
	Author      string `json:"author" binding:"required,max=100"`
	Description string `json:"description" binding:"max=5000"`
	Category    string `json:"category" binding:"max=50"`
	CoverURL    string `json:"cover_url" binding:"omitempty,url,max=500"`
}

// UpdateNovelRequest 更新小说基础信息请求（仅所有者，nil 字段不更新）
type UpdateNovelRequest struct {
	Title       *string `json:"title" binding:"omitempty,max=255"`
	Author      *string `json:"author" binding:"omitempty,max=100"`
	Description *string `json:"description" binding:"omitempty,max=5000"`
	Category    *string `json:"category" binding:"omitempty,max=50"`
	CoverURL    *string `json:"cover_url" binding:"omitempty,url,max=500"`
}

// CreateChapterRequest 创建章节请求
// Order 为 0 时自动追加到末尾
type CreateChapterRequest struct {
	Title   string `json:"title" binding:"required,max=255"`
	Content string `json:"content" binding:"required"`
	Order   int    `json:"order" binding:"omitempty,min=1"`
}

// UpdateChapterRequest 更新章节请求
type UpdateChapterRequest struct {
	Title   *string `json:"title" binding:"omitempty,max=255"`
	Content *string `json:"content"`
}

// BatchNovelsRequest 批量获取小说请求
// 前端以字符串形式传 ID
type BatchNovelsRequest struct {
	IDs []string `json:"ids" binding:"required,min=1,max=100"`
}

// ReviewActionRequest 审核操作请求
type ReviewActionRequest struct {
	Action   string `json:"action" binding:"required,oneof=approve reject"`
	Feedback string `json:"feedback" binding:"max=2000"`
}
