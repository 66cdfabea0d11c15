package novel

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	usermodel "github.com/wint11/SmartRead-sub001/internal/model/user"
)

func TestViewerCanSeeUnpublished(t *testing.T) {
	tests := []struct {
		name       string
		viewer     Viewer
		uploaderID uint
		want       bool
	}{
		{"匿名访问者", Viewer{}, 1, false},
		{"所有者本人", Viewer{UserID: 1, Role: usermodel.RoleAuthor}, 1, true},
		{"其他读者", Viewer{UserID: 2, Role: usermodel.RoleReader}, 1, false},
		{"其他作者", Viewer{UserID: 2, Role: usermodel.RoleAuthor}, 1, false},
		{"管理员", Viewer{UserID: 2, Role: usermodel.RoleAdmin}, 1, true},
		{"超级管理员", Viewer{UserID: 2, Role: usermodel.RoleSuperAdmin}, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.viewer.canSeeUnpublished(tt.uploaderID))
		})
	}
}

func TestParsePaging(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		query      string
		wantOffset int
		wantLimit  int
	}{
		{"默认分页", "", 0, 20},
		{"第二页", "?page=2&page_size=10", 10, 10},
		{"非法页码回退", "?page=-3", 0, 20},
		{"超大页长回退", "?page_size=500", 0, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest("GET", "/novels"+tt.query, nil)

			offset, limit := parsePaging(c)
			assert.Equal(t, tt.wantOffset, offset)
			assert.Equal(t, tt.wantLimit, limit)
		})
	}
}

func TestVisitorKey(t *testing.T) {
	gin.SetMode(gin.TestMode)

	// 登录用户按用户ID去重
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/novels/1", nil)
	c.Set("user_id", uint(42))
	assert.Equal(t, "u42", visitorKey(c))

	// 匿名按客户端IP去重
	c, _ = gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/novels/1", nil)
	c.Request.RemoteAddr = "10.0.0.9:1234"
	assert.Equal(t, "ip:10.0.0.9", visitorKey(c))
}
