package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	usermodel "github.com/wint11/SmartRead-sub001/internal/model/user"
)

var (
	// ErrEmailTaken 邮箱已被注册
	ErrEmailTaken = errors.New("邮箱已被注册")
	// ErrInvalidCredentials 邮箱或密码错误，登录失败统一返回该错误，不区分原因
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Register 注册新用户
// 角色只允许 READER/AUTHOR，管理员身份只能由超级管理员后台授予
func (s *Service) Register(email, password, name, role string) (*usermodel.User, error) {
	if role == "" {
		role = usermodel.RoleReader
	}
	if role != usermodel.RoleReader && role != usermodel.RoleAuthor {
		return nil, ErrInvalidCredentials
	}

	// 1. 邮箱唯一性检查
	var count int64
	if err := s.db.Model(&usermodel.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	// 2. 密码哈希
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	// 3. 落库（唯一索引兜底并发注册）
	u := &usermodel.User{
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         role,
	}
	if err := s.db.Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return u, nil
}

// Login 校验邮箱密码
func (s *Service) Login(email, password string) (*usermodel.User, error) {
	var u usermodel.User
	if err := s.db.Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &u, nil
}

// GetUser 按 ID 查询用户
// /me 与角色门禁变更场景下现查数据库，保证角色是最新值而非令牌快照
func (s *Service) GetUser(id uint) (*usermodel.User, error) {
	var u usermodel.User
	if err := s.db.First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}
