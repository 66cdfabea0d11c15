// Package admin 审核后台：待审队列、人工审核、配置与用户管理
package admin

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	novelmodel "github.com/wint11/SmartRead-sub001/internal/model/novel"
	usermodel "github.com/wint11/SmartRead-sub001/internal/model/user"
	"github.com/wint11/SmartRead-sub001/internal/novel"
	"github.com/wint11/SmartRead-sub001/internal/review"
)

var (
	// ErrRoleEscalation 管理员及以上角色只能由超级管理员授予
	ErrRoleEscalation = errors.New("只有超级管理员可以授予管理员角色")
	// ErrUnknownRole 非法角色
	ErrUnknownRole = errors.New("未知角色")
)

type Service struct {
	db        *gorm.DB
	novelRepo *novel.Repository
	engine    *review.Engine
}

func NewService(db *gorm.DB, novelRepo *novel.Repository, engine *review.Engine) *Service {
	return &Service{db: db, novelRepo: novelRepo, engine: engine}
}

// normalizeAction 请求里的小写动作转为审核动作常量
func normalizeAction(action string) string {
	switch strings.ToLower(action) {
	case "approve":
		return novelmodel.ActionApprove
	case "reject":
		return novelmodel.ActionReject
	default:
		return ""
	}
}

// PendingNovels 待审小说队列
func (s *Service) PendingNovels(offset, limit int) ([]novelmodel.Novel, int64, error) {
	return s.novelRepo.ListPendingNovels(offset, limit)
}

// PendingChapters 待审章节队列
func (s *Service) PendingChapters(offset, limit int) ([]novelmodel.Chapter, int64, error) {
	return s.novelRepo.ListPendingChapters(offset, limit)
}

// PendingRevisions 待审修订稿队列
func (s *Service) PendingRevisions(offset, limit int) ([]novelmodel.ChapterRevision, int64, error) {
	return s.novelRepo.ListPendingRevisions(offset, limit)
}

// ReviewNovel 人工审核小说
func (s *Service) ReviewNovel(ctx context.Context, novelID, reviewerID uint, action, feedback string) error {
	act := normalizeAction(action)
	if act == "" {
		return review.ErrInvalidTransition
	}
	return s.engine.ReviewNovel(ctx, novelID, reviewerID, act, feedback)
}

// ReviewChapter 人工审核章节
func (s *Service) ReviewChapter(ctx context.Context, chapterID, reviewerID uint, action, feedback string) error {
	act := normalizeAction(action)
	if act == "" {
		return review.ErrInvalidTransition
	}
	return s.engine.ReviewChapter(ctx, chapterID, reviewerID, act, feedback)
}

// ReviewRevision 人工审核修订稿
func (s *Service) ReviewRevision(ctx context.Context, revisionID, reviewerID uint, action, feedback string) error {
	act := normalizeAction(action)
	if act == "" {
		return review.ErrInvalidTransition
	}
	return s.engine.ReviewRevision(ctx, revisionID, reviewerID, act, feedback)
}

// ReviewLogs 审核记录查询
func (s *Service) ReviewLogs(novelID uint, offset, limit int) ([]novelmodel.ReviewLog, int64, error) {
	return s.novelRepo.ListReviewLogs(novelID, offset, limit)
}

// ListUsers 用户列表分页
func (s *Service) ListUsers(offset, limit int) ([]usermodel.User, int64, error) {
	var total int64
	if err := s.db.Model(&usermodel.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []usermodel.User
	err := s.db.Order("id ASC").Offset(offset).Limit(limit).Find(&users).Error
	return users, total, err
}

// UpdateUserRole 修改用户角色
// 授予 ADMIN/SUPER_ADMIN 需要操作者本身是超级管理员
func (s *Service) UpdateUserRole(actorRole string, targetID uint, newRole string) (*usermodel.User, error) {
	if !usermodel.IsValidRole(newRole) {
		return nil, ErrUnknownRole
	}
	if usermodel.RoleAtLeast(newRole, usermodel.RoleAdmin) &&
		actorRole != usermodel.RoleSuperAdmin {
		return nil, ErrRoleEscalation
	}

	var u usermodel.User
	if err := s.db.First(&u, targetID).Error; err != nil {
		return nil, err
	}

	if err := s.db.Model(&u).Update("role", newRole).Error; err != nil {
		return nil, err
	}
	u.Role = newRole
	return &u, nil
}
