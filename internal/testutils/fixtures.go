package testutils

import (
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	novelmodel "github.com/wint11/SmartRead-sub001/internal/model/novel"
	usermodel "github.com/wint11/SmartRead-sub001/internal/model/user"
)

// CreateTestUser 创建邮箱唯一的测试用户，默认读者角色，密码 password123
func CreateTestUser(db *gorm.DB, opts ...UserOption) *usermodel.User {
	uniqueID := uuid.New().String()
	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)

	testUser := &usermodel.User{
		Email:        fmt.Sprintf("test_%s@example.com", uniqueID),
		PasswordHash: string(hash),
		Name:         fmt.Sprintf("测试用户_%s", uniqueID[:8]),
		Role:         usermodel.RoleReader,
	}

	for _, opt := range opts {
		opt(testUser)
	}

	if err := db.Create(testUser).Error; err != nil {
		panic(fmt.Sprintf("创建测试用户失败: %v", err))
	}
	return testUser
}

// UserOption 测试用户定制项
type UserOption func(*usermodel.User)

func WithEmail(email string) UserOption {
	return func(u *usermodel.User) {
		u.Email = email
	}
}

func WithRole(role string) UserOption {
	return func(u *usermodel.User) {
		u.Role = role
	}
}

// CreateTestNovel 创建测试小说，默认草稿状态
func CreateTestNovel(db *gorm.DB, uploaderID uint, opts ...NovelOption) *novelmodel.Novel {
	uniqueID := uuid.New().String()

	testNovel := &novelmodel.Novel{
		Title:       fmt.Sprintf("测试小说_%s", uniqueID[:8]),
		Author:      "测试作者",
		Description: "测试小说简介",
		Category:    "fantasy",
		Status:      novelmodel.StatusDraft,
		UploaderID:  uploaderID,
	}

	for _, opt := range opts {
		opt(testNovel)
	}

	if err := db.Create(testNovel).Error; err != nil {
		panic(fmt.Sprintf("创建测试小说失败: %v", err))
	}
	return testNovel
}

// NovelOption 测试小说定制项
type NovelOption func(*novelmodel.Novel)

func WithNovelStatus(status string) NovelOption {
	return func(n *novelmodel.Novel) {
		n.Status = status
	}
}

func WithCategory(category string) NovelOption {
	return func(n *novelmodel.Novel) {
		n.Category = category
	}
}

// CreateTestChapter 创建测试章节，默认草稿、顺序 1
func CreateTestChapter(db *gorm.DB, novelID uint, opts ...ChapterOption) *novelmodel.Chapter {
	uniqueID := uuid.New().String()

	testChapter := &novelmodel.Chapter{
		NovelID:   novelID,
		Title:     fmt.Sprintf("测试章节_%s", uniqueID[:8]),
		Content:   "测试章节正文内容。",
		SortOrder: 1,
		Status:    novelmodel.StatusDraft,
	}

	for _, opt := range opts {
		opt(testChapter)
	}

	if err := db.Create(testChapter).Error; err != nil {
		panic(fmt.Sprintf("创建测试章节失败: %v", err))
	}
	return testChapter
}

// ChapterOption 测试章节定制项
type ChapterOption func(*novelmodel.Chapter)

func WithChapterStatus(status string) ChapterOption {
	return func(ch *novelmodel.Chapter) {
		ch.Status = status
	}
}

func WithSortOrder(order int) ChapterOption {
	return func(ch *novelmodel.Chapter) {
		ch.SortOrder = order
	}
}

func WithContent(content string) ChapterOption {
	return func(ch *novelmodel.Chapter) {
		ch.Content = content
	}
}
