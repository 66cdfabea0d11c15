package admin

import (
	"testing"

	"github.com/stretchr/testify/assert"

	novelmodel "github.com/wint11/SmartRead-sub001/internal/model/novel"
	usermodel "github.com/wint11/SmartRead-sub001/internal/model/user"
)

func TestNormalizeAction(t *testing.T) {
	assert.Equal(t, novelmodel.ActionApprove, normalizeAction("approve"))
	assert.Equal(t, novelmodel.ActionApprove, normalizeAction("APPROVE"))
	assert.Equal(t, novelmodel.ActionReject, normalizeAction("reject"))
	assert.Equal(t, novelmodel.ActionReject, normalizeAction("Reject"))
	assert.Empty(t, normalizeAction("delete"))
	assert.Empty(t, normalizeAction(""))
}

func TestUpdateUserRole_Guards(t *testing.T) {
	s := &Service{}

	// 非法角色
	_, err := s.UpdateUserRole(usermodel.RoleSuperAdmin, 1, "OWNER")
	assert.ErrorIs(t, err, ErrUnknownRole)

	// 普通管理员不能授予管理员角色
	_, err = s.UpdateUserRole(usermodel.RoleAdmin, 1, usermodel.RoleAdmin)
	assert.ErrorIs(t, err, ErrRoleEscalation)

	_, err = s.UpdateUserRole(usermodel.RoleAdmin, 1, usermodel.RoleSuperAdmin)
	assert.ErrorIs(t, err, ErrRoleEscalation)
}
