package service

import (
	"Inkstone/internal/pkg/consts"
	"Inkstone/internal/pkg/popularity"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStatService(repo *fakeStatRepo) DiaryStatService {
	return NewDiaryStatService(repo, NewDiaryCounterService(), NewDiaryRankingService())
}

func TestLifecycleHooks(t *testing.T) {
	mr := setupTestRedis(t)
	repo := newFakeStatRepo()
	svc := newStatService(repo)
	ctx := context.Background()

	const userID, bookID, diaryID = uint64(1), uint64(2), uint64(100)

	require.NoError(t, svc.OnDiaryCreated(ctx, userID, bookID, diaryID, time.Now()))

	st := repo.get(diaryID)
	require.NotNil(t, st)
	assert.Equal(t, bookID, st.BookID)
	assert.Equal(t, 0.0, st.PopularityScore)

	// 0 分入榜
	rankKey := consts.DiaryPopularKey(userID, bookID)
	score, err := mr.ZScore(rankKey, "100")
	require.NoError(t, err)
	assert.Equal(t, 0.0, score)

	// 浏览去重：同一访客两次只计一次，榜单只加一次 0.1
	require.NoError(t, svc.OnDiaryViewed(ctx, userID, bookID, diaryID, 500))
	require.NoError(t, svc.OnDiaryViewed(ctx, userID, bookID, diaryID, 500))

	require.NoError(t, svc.OnLikeChanged(ctx, userID, bookID, diaryID, 1))
	require.NoError(t, svc.OnCommentCountChanged(ctx, userID, bookID, diaryID, 1))

	score, err = mr.ZScore(rankKey, "100")
	require.NoError(t, err)
	assert.InDelta(t, popularity.WeightView+popularity.WeightLike+popularity.WeightComment, score, 1e-9)

	counts, err := svc.GetCounts(ctx, []uint64{diaryID})
	require.NoError(t, err)
	require.Len(t, counts, 1)
	assert.Equal(t, int64(1), counts[0].ViewCount)
	assert.Equal(t, int64(1), counts[0].LikeCount)
	assert.Equal(t, int64(1), counts[0].CommentCount)

	// 取消赞回落
	require.NoError(t, svc.OnLikeChanged(ctx, userID, bookID, diaryID, -1))
	score, err = mr.ZScore(rankKey, "100")
	require.NoError(t, err)
	assert.InDelta(t, popularity.WeightView+popularity.WeightComment, score, 1e-9)

	// 删除后全部清理
	require.NoError(t, svc.OnDiaryDeleted(ctx, userID, bookID, diaryID))
	assert.Nil(t, repo.get(diaryID))
	_, err = mr.ZScore(rankKey, "100")
	assert.Error(t, err)
}

func TestReconcile_FlushesDirtyCounts(t *testing.T) {
	setupTestRedis(t)
	repo := newFakeStatRepo()
	svc := newStatService(repo)
	ctx := context.Background()

	const userID, bookID = uint64(1), uint64(2)

	require.NoError(t, svc.OnDiaryCreated(ctx, userID, bookID, 100, time.Now()))
	require.NoError(t, svc.OnDiaryCreated(ctx, userID, bookID, 101, time.Now()))

	require.NoError(t, svc.OnDiaryViewed(ctx, userID, bookID, 100, 500))
	require.NoError(t, svc.OnLikeChanged(ctx, userID, bookID, 100, 1))
	require.NoError(t, svc.OnLikeChanged(ctx, userID, bookID, 100, 1))
	require.NoError(t, svc.OnCommentCountChanged(ctx, userID, bookID, 101, 1))

	result, err := svc.Reconcile(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Processed)
	assert.Equal(t, 1, result.Batches)

	st := repo.get(100)
	require.NotNil(t, st)
	assert.Equal(t, int64(1), st.ViewCount)
	assert.Equal(t, int64(2), st.LikeCount)
	// 当天创建不衰减
	assert.InDelta(t, 1*popularity.WeightView+2*popularity.WeightLike, st.PopularityScore, 1e-9)

	st = repo.get(101)
	require.NotNil(t, st)
	assert.Equal(t, int64(1), st.CommentCount)
	assert.InDelta(t, popularity.WeightComment, st.PopularityScore, 1e-9)
}

func TestReconcile_Idempotent(t *testing.T) {
	setupTestRedis(t)
	repo := newFakeStatRepo()
	svc := newStatService(repo)
	ctx := context.Background()

	require.NoError(t, svc.OnDiaryCreated(ctx, 1, 2, 100, time.Now()))
	require.NoError(t, svc.OnLikeChanged(ctx, 1, 2, 100, 1))

	first, err := svc.Reconcile(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Processed)
	after := repo.get(100)

	// 无新增互动时再次执行不改变结果
	second, err := svc.Reconcile(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Processed)
	assert.Equal(t, after, repo.get(100))
}

func TestReconcile_SkipsMissingStat(t *testing.T) {
	setupTestRedis(t)
	repo := newFakeStatRepo()
	svc := newStatService(repo)
	ctx := context.Background()

	require.NoError(t, svc.OnDiaryCreated(ctx, 1, 2, 100, time.Now()))
	require.NoError(t, svc.OnLikeChanged(ctx, 1, 2, 100, 1))
	// 101 标脏但统计行不存在（批次中途被删）
	require.NoError(t, svc.OnLikeChanged(ctx, 1, 2, 101, 1))
	require.NoError(t, repo.Delete(ctx, 101))

	result, err := svc.Reconcile(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Processed)
	require.NotNil(t, repo.get(100))
	assert.Equal(t, int64(1), repo.get(100).LikeCount)
}

func TestReconcile_StopsRunOnSaveFailure(t *testing.T) {
	setupTestRedis(t)
	repo := newFakeStatRepo()
	svc := newStatService(repo)
	ctx := context.Background()

	require.NoError(t, svc.OnDiaryCreated(ctx, 1, 2, 100, time.Now()))
	require.NoError(t, svc.OnLikeChanged(ctx, 1, 2, 100, 1))

	repo.saveErr = assert.AnError
	_, err := svc.Reconcile(ctx)
	require.Error(t, err)

	// 失败的 ID 不回插脏集合，等待下次互动重新标脏
	repo.saveErr = nil
	result, err := svc.Reconcile(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Processed)

	require.NoError(t, svc.OnLikeChanged(ctx, 1, 2, 100, 1))
	result, err = svc.Reconcile(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Processed)
	assert.Equal(t, int64(2), repo.get(100).LikeCount)
}

func TestGetPopularFeed_DualCursorStable(t *testing.T) {
	setupTestRedis(t)
	repo := newFakeStatRepo()
	svc := newStatService(repo)
	ctx := context.Background()

	const bookID = uint64(2)

	// 构造同分行：score = diaryID % 3
	for diaryID := uint64(1); diaryID <= 23; diaryID++ {
		require.NoError(t, svc.OnDiaryCreated(ctx, 1, bookID, diaryID, time.Now()))
		for i := int64(0); i < int64(diaryID%3); i++ {
			require.NoError(t, svc.OnLikeChanged(ctx, 1, bookID, diaryID, 1))
		}
	}
	_, err := svc.Reconcile(ctx)
	require.NoError(t, err)

	seen := map[uint64]bool{}
	cursor, subCursor := int64(0), 0.0
	for {
		feed, err := svc.GetPopularFeed(ctx, bookID, cursor, subCursor, 5)
		require.NoError(t, err)

		var prevScore = subCursor
		for i, row := range feed.Data {
			assert.False(t, seen[row.DiaryID], "diary %d returned twice", row.DiaryID)
			seen[row.DiaryID] = true
			// 页内分数非递增
			if cursor > 0 || i > 0 {
				assert.LessOrEqual(t, row.PopularityScore, prevScore)
			}
			prevScore = row.PopularityScore
		}

		if !feed.HasNext {
			assert.Equal(t, int64(-1), feed.NextCursor)
			break
		}
		cursor, subCursor = feed.NextCursor, feed.NextSubCursor
	}

	assert.Len(t, seen, 23)
}

func TestGetRecentFeed_SingleCursor(t *testing.T) {
	setupTestRedis(t)
	repo := newFakeStatRepo()
	svc := newStatService(repo)
	ctx := context.Background()

	const bookID = uint64(2)
	for diaryID := uint64(1); diaryID <= 25; diaryID++ {
		require.NoError(t, svc.OnDiaryCreated(ctx, 1, bookID, diaryID, time.Now()))
	}

	feed, err := svc.GetRecentFeed(ctx, bookID, 0, 10)
	require.NoError(t, err)
	require.Len(t, feed.Data, 10)
	assert.True(t, feed.HasNext)
	assert.Equal(t, uint64(25), feed.Data[0].DiaryID)
	assert.Equal(t, int64(16), feed.NextCursor)

	feed, err = svc.GetRecentFeed(ctx, bookID, feed.NextCursor, 10)
	require.NoError(t, err)
	require.Len(t, feed.Data, 10)
	assert.True(t, feed.HasNext)
	assert.Equal(t, int64(6), feed.NextCursor)

	feed, err = svc.GetRecentFeed(ctx, bookID, feed.NextCursor, 10)
	require.NoError(t, err)
	assert.Len(t, feed.Data, 5)
	assert.False(t, feed.HasNext)
	assert.Equal(t, int64(-1), feed.NextCursor)
}
