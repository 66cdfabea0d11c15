package review

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wint11/SmartRead-sub001/config"
	novelmodel "github.com/wint11/SmartRead-sub001/internal/model/novel"
	usermodel "github.com/wint11/SmartRead-sub001/internal/model/user"
	"github.com/wint11/SmartRead-sub001/internal/testutils"
)

func TestEngine_NovelLifecycle(t *testing.T) {
	db := testutils.SetupTestDB(t)
	ctx := context.Background()

	author := testutils.CreateTestUser(db, testutils.WithRole(usermodel.RoleAuthor))
	reviewer := testutils.CreateTestUser(db, testutils.WithRole(usermodel.RoleAdmin))
	n := testutils.CreateTestNovel(db, author.ID)

	engine := NewEngine(db, NewEvaluator(config.AIReviewConfig{}), nil)

	// 送审
	require.NoError(t, engine.SubmitNovel(ctx, n.ID, author.ID))

	var got novelmodel.Novel
	require.NoError(t, db.First(&got, n.ID).Error)
	assert.Equal(t, novelmodel.StatusPending, got.Status)
	assert.NotNil(t, got.LastSubmittedAt)

	// 重复送审被拒
	assert.ErrorIs(t, engine.SubmitNovel(ctx, n.ID, author.ID), ErrInvalidTransition)

	// 驳回
	require.NoError(t, engine.ReviewNovel(ctx, n.ID, reviewer.ID, novelmodel.ActionReject, "情节太薄"))
	require.NoError(t, db.First(&got, n.ID).Error)
	assert.Equal(t, novelmodel.StatusRejected, got.Status)

	// 同一决定只落一条审核记录
	var logCount int64
	require.NoError(t, db.Model(&novelmodel.ReviewLog{}).Where("novel_id = ?", n.ID).Count(&logCount).Error)
	assert.EqualValues(t, 1, logCount)

	// 已驳回的不能再审核，状态不变
	assert.ErrorIs(t,
		engine.ReviewNovel(ctx, n.ID, reviewer.ID, novelmodel.ActionApprove, ""),
		ErrStatusConflict)
	require.NoError(t, db.First(&got, n.ID).Error)
	assert.Equal(t, novelmodel.StatusRejected, got.Status)

	// 修改后重新送审并通过
	require.NoError(t, engine.SubmitNovel(ctx, n.ID, author.ID))
	require.NoError(t, engine.ReviewNovel(ctx, n.ID, reviewer.ID, novelmodel.ActionApprove, ""))
	require.NoError(t, db.First(&got, n.ID).Error)
	assert.Equal(t, novelmodel.StatusPublished, got.Status)
}

func TestEngine_SubmitNovel_NotOwner(t *testing.T) {
	db := testutils.SetupTestDB(t)

	author := testutils.CreateTestUser(db, testutils.WithRole(usermodel.RoleAuthor))
	other := testutils.CreateTestUser(db, testutils.WithRole(usermodel.RoleAuthor))
	n := testutils.CreateTestNovel(db, author.ID)

	engine := NewEngine(db, NewEvaluator(config.AIReviewConfig{}), nil)

	assert.ErrorIs(t, engine.SubmitNovel(context.Background(), n.ID, other.ID), ErrPermissionDenied)

	var got novelmodel.Novel
	require.NoError(t, db.First(&got, n.ID).Error)
	assert.Equal(t, novelmodel.StatusDraft, got.Status)
}

func TestEngine_SubmitChapter_PreReview(t *testing.T) {
	db := testutils.SetupTestDB(t)
	ctx := context.Background()

	author := testutils.CreateTestUser(db, testutils.WithRole(usermodel.RoleAuthor))
	n := testutils.CreateTestNovel(db, author.ID)

	engine := NewEngine(db, NewEvaluator(config.AIReviewConfig{}), nil)

	t.Run("内容太短预审不过且保持草稿", func(t *testing.T) {
		ch := testutils.CreateTestChapter(db, n.ID,
			testutils.WithContent("太短了"), testutils.WithSortOrder(1))

		result, err := engine.SubmitChapter(ctx, ch.ID, author.ID, true)
		assert.ErrorIs(t, err, ErrPreReviewRejected)
		require.NotNil(t, result)
		assert.False(t, result.Pass)

		var got novelmodel.Chapter
		require.NoError(t, db.First(&got, ch.ID).Error)
		assert.Equal(t, novelmodel.StatusDraft, got.Status)
		assert.False(t, got.FirstSubmitted, "预审失败不消耗首次送审")
		assert.NotEmpty(t, got.ReviewFeedback)
	})

	t.Run("足够长的内容进入待审", func(t *testing.T) {
		ch := testutils.CreateTestChapter(db, n.ID,
			testutils.WithContent(longContent(1000)), testutils.WithSortOrder(2))

		result, err := engine.SubmitChapter(ctx, ch.ID, author.ID, true)
		require.NoError(t, err)
		require.NotNil(t, result)
		assert.True(t, result.Pass)

		var got novelmodel.Chapter
		require.NoError(t, db.First(&got, ch.ID).Error)
		assert.Equal(t, novelmodel.StatusPending, got.Status)
		assert.True(t, got.FirstSubmitted)
	})

	t.Run("开关关闭时短内容也能送审", func(t *testing.T) {
		ch := testutils.CreateTestChapter(db, n.ID,
			testutils.WithContent("短"), testutils.WithSortOrder(3))

		result, err := engine.SubmitChapter(ctx, ch.ID, author.ID, false)
		require.NoError(t, err)
		assert.Nil(t, result, "预审关闭时不产生评估结果")

		var got novelmodel.Chapter
		require.NoError(t, db.First(&got, ch.ID).Error)
		assert.Equal(t, novelmodel.StatusPending, got.Status)
	})
}

func longContent(n int) string {
	buf := make([]rune, n)
	for i := range buf {
		buf[i] = '字'
	}
	return string(buf)
}
