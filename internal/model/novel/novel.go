// Package novel 小说与章节相关模型
package novel

import (
	"time"
)

// 内容状态机：DRAFT → PENDING → PUBLISHED/REJECTED
// REJECTED 修改后可重新进入 PENDING；状态只能通过工作流引擎变更
const (
	StatusDraft     = "DRAFT"
	StatusPending   = "PENDING"
	StatusPublished = "PUBLISHED"
	StatusRejected  = "REJECTED"
)

// 审核动作
const (
	ActionApprove = "APPROVE"
	ActionReject  = "REJECT"
)

// Novel 小说基础信息表
type Novel struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"type:varchar(255);not null" json:"title"`
	Author      string `gorm:"type:varchar(100);not null" json:"author"`
	Description string `gorm:"type:text" json:"description"`
	Category    string `gorm:"type:varchar(50);index" json:"category"`
	CoverURL    string `gorm:"type:varchar(500)" json:"cover_url"`
	// 发布状态，仅允许工作流引擎中定义的转移
	Status string `gorm:"type:varchar(20);not null;default:'DRAFT';index" json:"status"`
	Views  uint   `gorm:"default:0" json:"views"`
	Rating float64 `gorm:"type:numeric(3,1);default:0" json:"rating"`
	// 上传者（所有者），编辑权仅归上传者，审核员只能变更状态
	UploaderID uint `gorm:"not null;index" json:"uploader_id"`
	// 最近一次提交送审时间；PENDING 状态下必须非空
	LastSubmittedAt *time.Time `json:"last_submitted_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	// 级联删除章节
	Chapters []Chapter `gorm:"foreignKey:NovelID;constraint:OnDelete:CASCADE" json:"chapters,omitempty"`
}

// Chapter 章节表
// SortOrder 在小说内唯一且连续，上一章/下一章通过 order±1 定位
type Chapter struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	NovelID uint   `gorm:"not null;uniqueIndex:idx_novel_chapter_order" json:"novel_id"`
	Title   string `gorm:"type:varchar(255);not null" json:"title"`
	Content string `gorm:"type:text;not null" json:"content"`
	// 阅读顺序，小说内从 1 开始递增
	SortOrder int    `gorm:"column:sort_order;not null;uniqueIndex:idx_novel_chapter_order" json:"order"`
	Status    string `gorm:"type:varchar(20);not null;default:'DRAFT';index" json:"status"`
	// 是否已经历过首次送审（AI 预审只在首次送审时执行）
	FirstSubmitted bool `gorm:"default:false" json:"first_submitted"`
	// 预审未通过时写入的反馈，供作者修改参考
	ReviewFeedback string    `gorm:"type:text" json:"review_feedback,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ChapterRevision 已发布章节的修订稿
// 已发布内容不允许直接改写，作者的编辑先落为修订稿，走与章节相同的状态机，
// 审核通过后才覆盖正文
type ChapterRevision struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ChapterID uint      `gorm:"not null;index" json:"chapter_id"`
	Title     string    `gorm:"type:varchar(255);not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Status    string    `gorm:"type:varchar(20);not null;default:'DRAFT';index" json:"status"`
	EditorID  uint      `gorm:"not null;index" json:"editor_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ReviewLog 人工审核记录表，只追加，不修改不删除
type ReviewLog struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	NovelID uint `gorm:"not null;index" json:"novel_id"`
	// 章节审核时记录章节ID；小说整体审核为 NULL
	ChapterID  *uint     `gorm:"index" json:"chapter_id,omitempty"`
	ReviewerID uint      `gorm:"not null;index" json:"reviewer_id"`
	Action     string    `gorm:"type:varchar(20);not null" json:"action"` // APPROVE / REJECT
	Feedback   string    `gorm:"type:text" json:"feedback,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Novel) TableName() string {
	return "novels"
}

func (Chapter) TableName() string {
	return "chapters"
}

func (ChapterRevision) TableName() string {
	return "chapter_revisions"
}

func (ReviewLog) TableName() string {
	return "review_logs"
}
