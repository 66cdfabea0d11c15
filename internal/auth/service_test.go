package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	usermodel "github.com/wint11/SmartRead-sub001/internal/model/user"
	"github.com/wint11/SmartRead-sub001/internal/testutils"
)

func TestService_RegisterAndLogin(t *testing.T) {
	db := testutils.SetupTestDB(t)
	s := NewService(db)

	u, err := s.Register("alice@example.com", "secret-password", "Alice", usermodel.RoleAuthor)
	require.NoError(t, err)
	assert.Equal(t, usermodel.RoleAuthor, u.Role)
	assert.NotEqual(t, "secret-password", u.PasswordHash, "密码必须哈希存储")

	// 重复邮箱
	_, err = s.Register("alice@example.com", "another-password", "Alice2", "")
	assert.ErrorIs(t, err, ErrEmailTaken)

	// 正确密码登录
	got, err := s.Login("alice@example.com", "secret-password")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	// 错误密码与不存在的邮箱返回同一错误，不泄露用户是否存在
	_, err = s.Login("alice@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = s.Login("nobody@example.com", "whatever-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_Register_DefaultsToReader(t *testing.T) {
	db := testutils.SetupTestDB(t)
	s := NewService(db)

	u, err := s.Register("bob@example.com", "secret-password", "Bob", "")
	require.NoError(t, err)
	assert.Equal(t, usermodel.RoleReader, u.Role)

	// 注册口不允许声明管理员
	_, err = s.Register("eve@example.com", "secret-password", "Eve", usermodel.RoleAdmin)
	assert.Error(t, err)
}

func TestService_GetUser(t *testing.T) {
	db := testutils.SetupTestDB(t)
	s := NewService(db)

	created := testutils.CreateTestUser(db, testutils.WithRole(usermodel.RoleAdmin))

	u, err := s.GetUser(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Email, u.Email)
	assert.Equal(t, usermodel.RoleAdmin, u.Role)

	_, err = s.GetUser(999999)
	assert.Error(t, err)
}
