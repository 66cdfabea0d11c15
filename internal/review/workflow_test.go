package review

import (
	"testing"

	"github.com/stretchr/testify/assert"

	novelmodel "github.com/wint11/SmartRead-sub001/internal/model/novel"
)

func TestNextStatus(t *testing.T) {
	tests := []struct {
		name    string
		current string
		event   string
		want    string
		wantErr bool
	}{
		{"草稿送审", novelmodel.StatusDraft, EventSubmit, novelmodel.StatusPending, false},
		{"驳回后重新送审", novelmodel.StatusRejected, EventSubmit, novelmodel.StatusPending, false},
		{"待审通过", novelmodel.StatusPending, EventApprove, novelmodel.StatusPublished, false},
		{"待审驳回", novelmodel.StatusPending, EventReject, novelmodel.StatusRejected, false},

		{"草稿不能直接通过", novelmodel.StatusDraft, EventApprove, "", true},
		{"草稿不能直接驳回", novelmodel.StatusDraft, EventReject, "", true},
		{"待审不能重复送审", novelmodel.StatusPending, EventSubmit, "", true},
		{"已发布不能送审", novelmodel.StatusPublished, EventSubmit, "", true},
		{"已发布不能再审核", novelmodel.StatusPublished, EventApprove, "", true},
		{"驳回状态不能审核", novelmodel.StatusRejected, EventApprove, "", true},
		{"未知状态", "ARCHIVED", EventSubmit, "", true},
		{"未知事件", novelmodel.StatusDraft, "PUBLISH", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextStatus(tt.current, tt.event)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTransition)
				assert.Empty(t, got)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestEventForAction(t *testing.T) {
	event, err := eventForAction(novelmodel.ActionApprove)
	assert.NoError(t, err)
	assert.Equal(t, EventApprove, event)

	event, err = eventForAction(novelmodel.ActionReject)
	assert.NoError(t, err)
	assert.Equal(t, EventReject, event)

	_, err = eventForAction("DELETE")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

// 模拟完整生命周期：草稿 → 送审 → 驳回 → 重新送审 → 通过
func TestWorkflowLifecycle(t *testing.T) {
	status := novelmodel.StatusDraft

	status, err := NextStatus(status, EventSubmit)
	assert.NoError(t, err)
	assert.Equal(t, novelmodel.StatusPending, status)

	status, err = NextStatus(status, EventReject)
	assert.NoError(t, err)
	assert.Equal(t, novelmodel.StatusRejected, status)

	status, err = NextStatus(status, EventSubmit)
	assert.NoError(t, err)
	assert.Equal(t, novelmodel.StatusPending, status)

	status, err = NextStatus(status, EventApprove)
	assert.NoError(t, err)
	assert.Equal(t, novelmodel.StatusPublished, status)

	// 已发布是终态，任何事件都不再接受
	for _, event := range []string{EventSubmit, EventApprove, EventReject} {
		_, err := NextStatus(novelmodel.StatusPublished, event)
		assert.Error(t, err)
	}
}
