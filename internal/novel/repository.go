// Package novel 小说浏览、作者创作与章节管理
package novel

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/wint11/SmartRead-sub001/internal/database"
	novelmodel "github.com/wint11/SmartRead-sub001/internal/model/novel"
)

// 同一来源对同一本书的阅读计数去重窗口
const viewDedupTTL = 24 * time.Hour

type Repository struct {
	db    *gorm.DB
	redis *database.RedisClient
}

func NewRepository(db *gorm.DB, redis *database.RedisClient) *Repository {
	return &Repository{db: db, redis: redis}
}

// CreateNovel 新建小说（DRAFT）
func (r *Repository) CreateNovel(n *novelmodel.Novel) error {
	return r.db.Create(n).Error
}

// FindNovelByID 按 ID 查小说
func (r *Repository) FindNovelByID(id uint) (*novelmodel.Novel, error) {
	var n novelmodel.Novel
	if err := r.db.First(&n, id).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

// UpdateNovel 更新小说基础信息，updates 里不允许携带 status
func (r *Repository) UpdateNovel(id uint, updates map[string]any) error {
	return r.db.Model(&novelmodel.Novel{}).Where("id = ?", id).Updates(updates).Error
}

// DeleteNovel 删除小说，章节由外键级联清理
func (r *Repository) DeleteNovel(id uint) error {
	return r.db.Select("Chapters").Delete(&novelmodel.Novel{ID: id}).Error
}

// ListPublished 已发布小说分页浏览，支持分类过滤与标题/作者模糊搜索
func (r *Repository) ListPublished(category, search string, offset, limit int) ([]novelmodel.Novel, int64, error) {
	query := r.db.Model(&novelmodel.Novel{}).Where("status = ?", novelmodel.StatusPublished)

	if category != "" {
		query = query.Where("category = ?", category)
	}
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("title ILIKE ? OR author ILIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var novels []novelmodel.Novel
	err := query.Order("updated_at DESC").Offset(offset).Limit(limit).Find(&novels).Error
	return novels, total, err
}

// ListByUploader 作者自己的小说列表，全部状态
func (r *Repository) ListByUploader(uploaderID uint) ([]novelmodel.Novel, error) {
	var novels []novelmodel.Novel
	err := r.db.Where("uploader_id = ?", uploaderID).
		Order("updated_at DESC").Find(&novels).Error
	return novels, err
}

// FindNovelsByIDs 批量查询，只返回已发布的，顺序不保证
func (r *Repository) FindNovelsByIDs(ids []uint) ([]novelmodel.Novel, error) {
	var novels []novelmodel.Novel
	err := r.db.Where("id IN ? AND status = ?", ids, novelmodel.StatusPublished).
		Find(&novels).Error
	return novels, err
}

// ListPendingNovels 待审核小说队列（按提交时间先到先审）
func (r *Repository) ListPendingNovels(offset, limit int) ([]novelmodel.Novel, int64, error) {
	query := r.db.Model(&novelmodel.Novel{}).Where("status = ?", novelmodel.StatusPending)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var novels []novelmodel.Novel
	err := query.Order("last_submitted_at ASC").Offset(offset).Limit(limit).Find(&novels).Error
	return novels, total, err
}

// IncrementViews 阅读量 +1
// Redis 可用时按「来源+书」在 24h 窗口内去重；Redis 不可用降级为每次计数
func (r *Repository) IncrementViews(ctx context.Context, novelID uint, visitor string) error {
	if r.redis != nil && visitor != "" {
		key := fmt.Sprintf("novel:view:%d:%s", novelID, visitor)
		ok, err := r.redis.SetNX(ctx, key, 1, viewDedupTTL).Result()
		if err == nil && !ok {
			// 窗口内重复访问，不计数
			return nil
		}
	}

	return r.db.Model(&novelmodel.Novel{}).Where("id = ?", novelID).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
}

// CreateChapter 新建章节；Order 为 0 时自动追加到末尾
func (r *Repository) CreateChapter(ch *novelmodel.Chapter) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if ch.SortOrder <= 0 {
			var maxOrder int
			if err := tx.Model(&novelmodel.Chapter{}).
				Where("novel_id = ?", ch.NovelID).
				Select("COALESCE(MAX(sort_order), 0)").
				Scan(&maxOrder).Error; err != nil {
				return err
			}
			ch.SortOrder = maxOrder + 1
		}
		return tx.Create(ch).Error
	})
}

// FindChapterByID 按 ID 查章节
func (r *Repository) FindChapterByID(id uint) (*novelmodel.Chapter, error) {
	var ch novelmodel.Chapter
	if err := r.db.First(&ch, id).Error; err != nil {
		return nil, err
	}
	return &ch, nil
}

// UpdateChapter 更新章节标题/正文
func (r *Repository) UpdateChapter(id uint, updates map[string]any) error {
	return r.db.Model(&novelmodel.Chapter{}).Where("id = ?", id).Updates(updates).Error
}

// DeleteChapter 删除章节
func (r *Repository) DeleteChapter(id uint) error {
	return r.db.Delete(&novelmodel.Chapter{}, id).Error
}

// ListChapters 小说目录
// publishedOnly 为真时只返回已发布章节（读者视角），正文不随目录返回
func (r *Repository) ListChapters(novelID uint, publishedOnly bool) ([]novelmodel.Chapter, error) {
	query := r.db.Select("id", "novel_id", "title", "sort_order", "status", "created_at", "updated_at").
		Where("novel_id = ?", novelID)
	if publishedOnly {
		query = query.Where("status = ?", novelmodel.StatusPublished)
	}

	var chapters []novelmodel.Chapter
	err := query.Order("sort_order ASC").Find(&chapters).Error
	return chapters, err
}

// AdjacentChapter 上一章/下一章：同一本书内 sort_order±1 且已发布
// 不存在时返回 gorm.ErrRecordNotFound
func (r *Repository) AdjacentChapter(novelID uint, sortOrder, delta int) (*novelmodel.Chapter, error) {
	var ch novelmodel.Chapter
	err := r.db.Where("novel_id = ? AND sort_order = ? AND status = ?",
		novelID, sortOrder+delta, novelmodel.StatusPublished).First(&ch).Error
	if err != nil {
		return nil, err
	}
	return &ch, nil
}

// ListPendingChapters 待审核章节队列
func (r *Repository) ListPendingChapters(offset, limit int) ([]novelmodel.Chapter, int64, error) {
	query := r.db.Model(&novelmodel.Chapter{}).Where("status = ?", novelmodel.StatusPending)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var chapters []novelmodel.Chapter
	err := query.Order("updated_at ASC").Offset(offset).Limit(limit).Find(&chapters).Error
	return chapters, total, err
}

// CreateRevision 为已发布章节落一份修订稿
func (r *Repository) CreateRevision(rev *novelmodel.ChapterRevision) error {
	return r.db.Create(rev).Error
}

// FindRevisionByID 按 ID 查修订稿
func (r *Repository) FindRevisionByID(id uint) (*novelmodel.ChapterRevision, error) {
	var rev novelmodel.ChapterRevision
	if err := r.db.First(&rev, id).Error; err != nil {
		return nil, err
	}
	return &rev, nil
}

// ListRevisions 章节的修订稿历史
func (r *Repository) ListRevisions(chapterID uint) ([]novelmodel.ChapterRevision, error) {
	var revs []novelmodel.ChapterRevision
	err := r.db.Where("chapter_id = ?", chapterID).
		Order("created_at DESC").Find(&revs).Error
	return revs, err
}

// ListPendingRevisions 待审核修订稿队列
func (r *Repository) ListPendingRevisions(offset, limit int) ([]novelmodel.ChapterRevision, int64, error) {
	query := r.db.Model(&novelmodel.ChapterRevision{}).Where("status = ?", novelmodel.StatusPending)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var revs []novelmodel.ChapterRevision
	err := query.Order("updated_at ASC").Offset(offset).Limit(limit).Find(&revs).Error
	return revs, total, err
}

// ListReviewLogs 审核记录，novelID 为 0 表示不过滤
func (r *Repository) ListReviewLogs(novelID uint, offset, limit int) ([]novelmodel.ReviewLog, int64, error) {
	query := r.db.Model(&novelmodel.ReviewLog{})
	if novelID > 0 {
		query = query.Where("novel_id = ?", novelID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []novelmodel.ReviewLog
	err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&logs).Error
	return logs, total, err
}
