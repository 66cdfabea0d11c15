package review

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/wint11/SmartRead-sub001/internal/logger"
	novelmodel "github.com/wint11/SmartRead-sub001/internal/model/novel"
	usermodel "github.com/wint11/SmartRead-sub001/internal/model/user"
)

// 工作流事件
const (
	EventSubmit  = "SUBMIT"
	EventApprove = "APPROVE"
	EventReject  = "REJECT"
)

var (
	// ErrInvalidTransition 当前状态不允许该事件
	ErrInvalidTransition = errors.New("当前状态不允许该操作")
	// ErrStatusConflict 并发写入冲突，状态已被其他请求变更
	ErrStatusConflict = errors.New("状态已变更，请刷新后重试")
	// ErrPermissionDenied 非所有者操作内容
	ErrPermissionDenied = errors.New("没有权限操作该内容")
	// ErrPreReviewRejected 预审未通过，内容保持草稿
	ErrPreReviewRejected = errors.New("预审未通过")
)

// transitions 状态机转移表，表外的一律拒绝
// DRAFT --SUBMIT--> PENDING
// REJECTED --SUBMIT--> PENDING
// PENDING --APPROVE--> PUBLISHED
// PENDING --REJECT--> REJECTED
var transitions = map[string]map[string]string{
	novelmodel.StatusDraft: {
		EventSubmit: novelmodel.StatusPending,
	},
	novelmodel.StatusRejected: {
		EventSubmit: novelmodel.StatusPending,
	},
	novelmodel.StatusPending: {
		EventApprove: novelmodel.StatusPublished,
		EventReject:  novelmodel.StatusRejected,
	},
}

// NextStatus 计算状态转移，不合法时返回 ErrInvalidTransition
func NextStatus(current, event string) (string, error) {
	if next, ok := transitions[current][event]; ok {
		return next, nil
	}
	return "", fmt.Errorf("%w: %s 状态下无法执行 %s", ErrInvalidTransition, current, event)
}

// eventForAction 审核动作到工作流事件的映射
func eventForAction(action string) (string, error) {
	switch action {
	case novelmodel.ActionApprove:
		return EventApprove, nil
	case novelmodel.ActionReject:
		return EventReject, nil
	default:
		return "", fmt.Errorf("%w: 未知审核动作 %s", ErrInvalidTransition, action)
	}
}

// Notifier 审核结果通知接口，由邮件客户端实现
type Notifier interface {
	NotifyReviewResult(toEmail, title, action, feedback string) error
}

// Engine 发布工作流引擎
// 所有状态变更都经由引擎执行：转移表校验 + 条件更新（乐观并发控制），
// 审核动作与审核记录写入在同一事务内
type Engine struct {
	db        *gorm.DB
	evaluator *Evaluator
	notifier  Notifier
}

func NewEngine(db *gorm.DB, evaluator *Evaluator, notifier Notifier) *Engine {
	return &Engine{db: db, evaluator: evaluator, notifier: notifier}
}

// SubmitNovel 小说整体送审：DRAFT/REJECTED → PENDING
// 仅上传者本人可提交
func (e *Engine) SubmitNovel(ctx context.Context, novelID, actorID uint) error {
	var n novelmodel.Novel
	if err := e.db.WithContext(ctx).First(&n, novelID).Error; err != nil {
		return err
	}
	if n.UploaderID != actorID {
		return ErrPermissionDenied
	}

	next, err := NextStatus(n.Status, EventSubmit)
	if err != nil {
		return err
	}

	// 以读到的状态为条件做更新，并发提交只有一个生效
	now := time.Now()
	result := e.db.WithContext(ctx).Model(&novelmodel.Novel{}).
		Where("id = ? AND status = ?", novelID, n.Status).
		Updates(map[string]any{
			"status":            next,
			"last_submitted_at": now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStatusConflict
	}
	return nil
}

// SubmitChapter 章节送审：DRAFT/REJECTED → PENDING
// 首次送审且站点开启 AI 预审时先过预审；预审未通过则保持草稿、
// 写入反馈并返回 ErrPreReviewRejected，下次提交仍按首次处理
func (e *Engine) SubmitChapter(ctx context.Context, chapterID, actorID uint, aiReviewEnabled bool) (*EvalResult, error) {
	var ch novelmodel.Chapter
	if err := e.db.WithContext(ctx).First(&ch, chapterID).Error; err != nil {
		return nil, err
	}

	var n novelmodel.Novel
	if err := e.db.WithContext(ctx).First(&n, ch.NovelID).Error; err != nil {
		return nil, err
	}
	if n.UploaderID != actorID {
		return nil, ErrPermissionDenied
	}

	next, err := NextStatus(ch.Status, EventSubmit)
	if err != nil {
		return nil, err
	}

	var evalResult *EvalResult
	if aiReviewEnabled && !ch.FirstSubmitted {
		result := e.evaluator.Evaluate(ctx, EvalInput{
			Title:       ch.Title,
			Description: n.Description,
			Content:     ch.Content,
		})
		evalResult = &result

		logger.L().Info("章节预审完成",
			zap.Uint("chapter_id", chapterID),
			zap.Bool("pass", result.Pass),
			zap.Int("score", result.QualityScore))

		if !result.Pass {
			feedback := fmt.Sprintf("AI 预审未通过（评分 %d/10），请扩充内容后重新提交", result.QualityScore)
			if err := e.db.WithContext(ctx).Model(&novelmodel.Chapter{}).
				Where("id = ?", chapterID).
				Update("review_feedback", feedback).Error; err != nil {
				return evalResult, err
			}
			return evalResult, ErrPreReviewRejected
		}
	}

	updates := map[string]any{
		"status":          next,
		"review_feedback": "",
	}
	// 真正进入 PENDING 才算完成首次送审
	if !ch.FirstSubmitted {
		updates["first_submitted"] = true
	}

	result := e.db.WithContext(ctx).Model(&novelmodel.Chapter{}).
		Where("id = ? AND status = ?", chapterID, ch.Status).
		Updates(updates)
	if result.Error != nil {
		return evalResult, result.Error
	}
	if result.RowsAffected == 0 {
		return evalResult, ErrStatusConflict
	}
	return evalResult, nil
}

// ReviewNovel 人工审核小说：PENDING → PUBLISHED/REJECTED
// 条件更新与审核记录在同一事务内，RowsAffected=0 说明已被其他审核员处理
func (e *Engine) ReviewNovel(ctx context.Context, novelID, reviewerID uint, action, feedback string) error {
	event, err := eventForAction(action)
	if err != nil {
		return err
	}
	next, err := NextStatus(novelmodel.StatusPending, event)
	if err != nil {
		return err
	}

	var n novelmodel.Novel
	if err := e.db.WithContext(ctx).First(&n, novelID).Error; err != nil {
		return err
	}

	err = e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&novelmodel.Novel{}).
			Where("id = ? AND status = ?", novelID, novelmodel.StatusPending).
			Update("status", next)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrStatusConflict
		}

		return tx.Create(&novelmodel.ReviewLog{
			NovelID:    novelID,
			ReviewerID: reviewerID,
			Action:     action,
			Feedback:   feedback,
		}).Error
	})
	if err != nil {
		return err
	}

	e.notifyUploader(ctx, n.UploaderID, n.Title, action, feedback)
	return nil
}

// ReviewChapter 人工审核章节：PENDING → PUBLISHED/REJECTED
func (e *Engine) ReviewChapter(ctx context.Context, chapterID, reviewerID uint, action, feedback string) error {
	event, err := eventForAction(action)
	if err != nil {
		return err
	}
	next, err := NextStatus(novelmodel.StatusPending, event)
	if err != nil {
		return err
	}

	var ch novelmodel.Chapter
	if err := e.db.WithContext(ctx).First(&ch, chapterID).Error; err != nil {
		return err
	}
	var n novelmodel.Novel
	if err := e.db.WithContext(ctx).First(&n, ch.NovelID).Error; err != nil {
		return err
	}

	err = e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{"status": next}
		if action == novelmodel.ActionReject {
			updates["review_feedback"] = feedback
		}

		result := tx.Model(&novelmodel.Chapter{}).
			Where("id = ? AND status = ?", chapterID, novelmodel.StatusPending).
			Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrStatusConflict
		}

		chID := chapterID
		return tx.Create(&novelmodel.ReviewLog{
			NovelID:    ch.NovelID,
			ChapterID:  &chID,
			ReviewerID: reviewerID,
			Action:     action,
			Feedback:   feedback,
		}).Error
	})
	if err != nil {
		return err
	}

	e.notifyUploader(ctx, n.UploaderID, ch.Title, action, feedback)
	return nil
}

// SubmitRevision 已发布章节的修订稿送审：DRAFT/REJECTED → PENDING
func (e *Engine) SubmitRevision(ctx context.Context, revisionID, actorID uint) error {
	var rev novelmodel.ChapterRevision
	if err := e.db.WithContext(ctx).First(&rev, revisionID).Error; err != nil {
		return err
	}
	if rev.EditorID != actorID {
		return ErrPermissionDenied
	}

	next, err := NextStatus(rev.Status, EventSubmit)
	if err != nil {
		return err
	}

	result := e.db.WithContext(ctx).Model(&novelmodel.ChapterRevision{}).
		Where("id = ? AND status = ?", revisionID, rev.Status).
		Update("status", next)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStatusConflict
	}
	return nil
}

// ReviewRevision 审核修订稿；通过时在同一事务内用修订稿覆盖章节正文
func (e *Engine) ReviewRevision(ctx context.Context, revisionID, reviewerID uint, action, feedback string) error {
	event, err := eventForAction(action)
	if err != nil {
		return err
	}
	next, err := NextStatus(novelmodel.StatusPending, event)
	if err != nil {
		return err
	}

	var rev novelmodel.ChapterRevision
	if err := e.db.WithContext(ctx).First(&rev, revisionID).Error; err != nil {
		return err
	}
	var ch novelmodel.Chapter
	if err := e.db.WithContext(ctx).First(&ch, rev.ChapterID).Error; err != nil {
		return err
	}

	return e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&novelmodel.ChapterRevision{}).
			Where("id = ? AND status = ?", revisionID, novelmodel.StatusPending).
			Update("status", next)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrStatusConflict
		}

		if action == novelmodel.ActionApprove {
			if err := tx.Model(&novelmodel.Chapter{}).
				Where("id = ?", rev.ChapterID).
				Updates(map[string]any{
					"title":   rev.Title,
					"content": rev.Content,
				}).Error; err != nil {
				return err
			}
		}

		chID := rev.ChapterID
		return tx.Create(&novelmodel.ReviewLog{
			NovelID:    ch.NovelID,
			ChapterID:  &chID,
			ReviewerID: reviewerID,
			Action:     action,
			Feedback:   feedback,
		}).Error
	})
}

// notifyUploader 审核结果邮件通知，失败只记日志
func (e *Engine) notifyUploader(ctx context.Context, uploaderID uint, title, action, feedback string) {
	if e.notifier == nil {
		return
	}

	var u usermodel.User
	if err := e.db.WithContext(ctx).First(&u, uploaderID).Error; err != nil {
		logger.L().Warn("查询作者邮箱失败，跳过审核通知",
			zap.Uint("uploader_id", uploaderID), zap.Error(err))
		return
	}

	if err := e.notifier.NotifyReviewResult(u.Email, title, action, feedback); err != nil {
		logger.L().Warn("审核结果通知发送失败",
			zap.String("email", u.Email), zap.Error(err))
	}
}
