package novel

import (
	"context"
	"errors"
	"strconv"

	"gorm.io/gorm"

	"github.com/wint11/SmartRead-sub001/internal/dto"
	novelmodel "github.com/wint11/SmartRead-sub001/internal/model/novel"
	usermodel "github.com/wint11/SmartRead-sub001/internal/model/user"
	"github.com/wint11/SmartRead-sub001/internal/review"
	"github.com/wint11/SmartRead-sub001/internal/setting"
)

var (
	// ErrNotFound 资源不存在或对当前访问者不可见
	ErrNotFound = errors.New("内容不存在")
	// ErrInvalidID 批量接口里混入了非法 ID
	ErrInvalidID = errors.New("非法的内容 ID")
)

// Viewer 访问者身份，匿名访问 UserID 为 0
type Viewer struct {
	UserID uint
	Role   string
}

// canSeeUnpublished 未发布内容只有所有者和管理员可见
func (v Viewer) canSeeUnpublished(uploaderID uint) bool {
	if v.UserID == 0 {
		return false
	}
	return v.UserID == uploaderID || usermodel.RoleAtLeast(v.Role, usermodel.RoleAdmin)
}

type Service struct {
	repo     *Repository
	engine   *review.Engine
	settings *setting.Repository
}

func NewService(repo *Repository, engine *review.Engine, settings *setting.Repository) *Service {
	return &Service{repo: repo, engine: engine, settings: settings}
}

// CreateNovel 新建小说，上传者即所有者，初始为草稿
func (s *Service) CreateNovel(actorID uint, req dto.CreateNovelRequest) (*novelmodel.Novel, error) {
	n := &novelmodel.Novel{
		Title:       req.Title,
		Author:      req.Author,
		Description: req.Description,
		Category:    req.Category,
		CoverURL:    req.CoverURL,
		Status:      novelmodel.StatusDraft,
		UploaderID:  actorID,
	}
	if err := s.repo.CreateNovel(n); err != nil {
		return nil, err
	}
	return n, nil
}

// UpdateNovel 更新小说基础信息，仅所有者；状态不在此处变更
func (s *Service) UpdateNovel(actorID, novelID uint, req dto.UpdateNovelRequest) (*novelmodel.Novel, error) {
	n, err := s.repo.FindNovelByID(novelID)
	if err != nil {
		return nil, err
	}
	if n.UploaderID != actorID {
		return nil, review.ErrPermissionDenied
	}

	updates := map[string]any{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Author != nil {
		updates["author"] = *req.Author
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.CoverURL != nil {
		updates["cover_url"] = *req.CoverURL
	}
	if len(updates) > 0 {
		if err := s.repo.UpdateNovel(novelID, updates); err != nil {
			return nil, err
		}
	}
	return s.repo.FindNovelByID(novelID)
}

// DeleteNovel 删除小说，仅所有者
func (s *Service) DeleteNovel(actorID, novelID uint) error {
	n, err := s.repo.FindNovelByID(novelID)
	if err != nil {
		return err
	}
	if n.UploaderID != actorID {
		return review.ErrPermissionDenied
	}
	return s.repo.DeleteNovel(novelID)
}

// SubmitNovel 小说送审
func (s *Service) SubmitNovel(ctx context.Context, actorID, novelID uint) error {
	return s.engine.SubmitNovel(ctx, novelID, actorID)
}

// MyNovels 作者自己的作品列表
func (s *Service) MyNovels(actorID uint) ([]novelmodel.Novel, error) {
	return s.repo.ListByUploader(actorID)
}

// GetNovel 小说详情
// 已发布内容公开访问并计一次阅读；未发布内容仅所有者与管理员可见
func (s *Service) GetNovel(ctx context.Context, novelID uint, viewer Viewer, visitor string) (*novelmodel.Novel, error) {
	n, err := s.repo.FindNovelByID(novelID)
	if err != nil {
		return nil, err
	}

	if n.Status != novelmodel.StatusPublished {
		if !viewer.canSeeUnpublished(n.UploaderID) {
			return nil, ErrNotFound
		}
		return n, nil
	}

	// 阅读量统计失败不影响详情返回
	_ = s.repo.IncrementViews(ctx, novelID, visitor)
	return n, nil
}

// ListPublished 已发布小说浏览
func (s *Service) ListPublished(category, search string, offset, limit int) ([]novelmodel.Novel, int64, error) {
	return s.repo.ListPublished(category, search, offset, limit)
}

// BatchNovels 批量获取已发布小说，ID 以字符串传入
func (s *Service) BatchNovels(rawIDs []string) ([]novelmodel.Novel, error) {
	ids := make([]uint, 0, len(rawIDs))
	for _, raw := range rawIDs {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			return nil, ErrInvalidID
		}
		ids = append(ids, uint(id))
	}
	return s.repo.FindNovelsByIDs(ids)
}

// ListChapters 小说目录；读者只能看到已发布章节
func (s *Service) ListChapters(novelID uint, viewer Viewer) ([]novelmodel.Chapter, error) {
	n, err := s.repo.FindNovelByID(novelID)
	if err != nil {
		return nil, err
	}

	publishedOnly := !viewer.canSeeUnpublished(n.UploaderID)
	if publishedOnly && n.Status != novelmodel.StatusPublished {
		return nil, ErrNotFound
	}
	return s.repo.ListChapters(novelID, publishedOnly)
}

// CreateChapter 新建章节，仅所有者
func (s *Service) CreateChapter(actorID, novelID uint, req dto.CreateChapterRequest) (*novelmodel.Chapter, error) {
	n, err := s.repo.FindNovelByID(novelID)
	if err != nil {
		return nil, err
	}
	if n.UploaderID != actorID {
		return nil, review.ErrPermissionDenied
	}

	ch := &novelmodel.Chapter{
		NovelID:   novelID,
		Title:     req.Title,
		Content:   req.Content,
		SortOrder: req.Order,
		Status:    novelmodel.StatusDraft,
	}
	if err := s.repo.CreateChapter(ch); err != nil {
		return nil, err
	}
	return ch, nil
}

// GetChapter 章节正文；未发布章节仅所有者与管理员可见
func (s *Service) GetChapter(chapterID uint, viewer Viewer) (*novelmodel.Chapter, error) {
	ch, err := s.repo.FindChapterByID(chapterID)
	if err != nil {
		return nil, err
	}

	if ch.Status != novelmodel.StatusPublished {
		n, err := s.repo.FindNovelByID(ch.NovelID)
		if err != nil {
			return nil, err
		}
		if !viewer.canSeeUnpublished(n.UploaderID) {
			return nil, ErrNotFound
		}
	}
	return ch, nil
}

// AdjacentChapter 上一章（delta=-1）/ 下一章（delta=+1），只在已发布章节间跳转
func (s *Service) AdjacentChapter(chapterID uint, delta int) (*novelmodel.Chapter, error) {
	ch, err := s.repo.FindChapterByID(chapterID)
	if err != nil {
		return nil, err
	}
	return s.repo.AdjacentChapter(ch.NovelID, ch.SortOrder, delta)
}

// UpdateChapter 编辑章节
// 草稿/驳回状态就地修改；已发布章节不允许直接改写，落为修订稿走审核；
// 待审状态下冻结编辑
func (s *Service) UpdateChapter(actorID, chapterID uint, req dto.UpdateChapterRequest) (*novelmodel.Chapter, *novelmodel.ChapterRevision, error) {
	ch, err := s.repo.FindChapterByID(chapterID)
	if err != nil {
		return nil, nil, err
	}
	n, err := s.repo.FindNovelByID(ch.NovelID)
	if err != nil {
		return nil, nil, err
	}
	if n.UploaderID != actorID {
		return nil, nil, review.ErrPermissionDenied
	}

	switch ch.Status {
	case novelmodel.StatusPending:
		return nil, nil, review.ErrStatusConflict

	case novelmodel.StatusPublished:
		rev := &novelmodel.ChapterRevision{
			ChapterID: chapterID,
			Title:     ch.Title,
			Content:   ch.Content,
			Status:    novelmodel.StatusDraft,
			EditorID:  actorID,
		}
		if req.Title != nil {
			rev.Title = *req.Title
		}
		if req.Content != nil {
			rev.Content = *req.Content
		}
		if err := s.repo.CreateRevision(rev); err != nil {
			return nil, nil, err
		}
		return ch, rev, nil

	default:
		updates := map[string]any{}
		if req.Title != nil {
			updates["title"] = *req.Title
		}
		if req.Content != nil {
			updates["content"] = *req.Content
		}
		if len(updates) > 0 {
			if err := s.repo.UpdateChapter(chapterID, updates); err != nil {
				return nil, nil, err
			}
		}
		updated, err := s.repo.FindChapterByID(chapterID)
		return updated, nil, err
	}
}

// DeleteChapter 删除章节，仅所有者
func (s *Service) DeleteChapter(actorID, chapterID uint) error {
	ch, err := s.repo.FindChapterByID(chapterID)
	if err != nil {
		return err
	}
	n, err := s.repo.FindNovelByID(ch.NovelID)
	if err != nil {
		return err
	}
	if n.UploaderID != actorID {
		return review.ErrPermissionDenied
	}
	return s.repo.DeleteChapter(chapterID)
}

// SubmitChapter 章节送审；AI 预审开关每次提交现查
func (s *Service) SubmitChapter(ctx context.Context, actorID, chapterID uint) (*review.EvalResult, error) {
	aiEnabled := s.settings.IsAIReviewEnabled()
	return s.engine.SubmitChapter(ctx, chapterID, actorID, aiEnabled)
}

// SubmitRevision 修订稿送审
func (s *Service) SubmitRevision(ctx context.Context, actorID, revisionID uint) error {
	return s.engine.SubmitRevision(ctx, revisionID, actorID)
}

// ListRevisions 章节修订稿历史，仅所有者
func (s *Service) ListRevisions(actorID, chapterID uint) ([]novelmodel.ChapterRevision, error) {
	ch, err := s.repo.FindChapterByID(chapterID)
	if err != nil {
		return nil, err
	}
	n, err := s.repo.FindNovelByID(ch.NovelID)
	if err != nil {
		return nil, err
	}
	if n.UploaderID != actorID {
		return nil, review.ErrPermissionDenied
	}
	return s.repo.ListRevisions(chapterID)
}

// IsNotFound 判断是否为「不存在」类错误
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, ErrNotFound)
}
