package service

import (
	"Inkstone/internal/pkg/consts"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCounts_NoActivity(t *testing.T) {
	setupTestRedis(t)
	svc := NewDiaryCounterService()
	ctx := context.Background()

	counts, err := svc.GetCounts(ctx, []uint64{1, 2, 3})
	require.NoError(t, err)

	for _, id := range []uint64{1, 2, 3} {
		assert.Equal(t, DiaryCounts{}, counts[id])
	}
}

func TestIncrementView_DedupWithin24h(t *testing.T) {
	mr := setupTestRedis(t)
	svc := NewDiaryCounterService()
	ctx := context.Background()

	counted, err := svc.IncrementView(ctx, 10, 100)
	require.NoError(t, err)
	assert.True(t, counted)

	// 同一访客重复浏览不计数
	counted, err = svc.IncrementView(ctx, 10, 100)
	require.NoError(t, err)
	assert.False(t, counted)

	counts, err := svc.GetCounts(ctx, []uint64{10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[10].View)

	// 其他访客正常计数
	counted, err = svc.IncrementView(ctx, 10, 200)
	require.NoError(t, err)
	assert.True(t, counted)

	// 过了去重窗口后再次计数
	mr.FastForward(25 * time.Hour)
	counted, err = svc.IncrementView(ctx, 10, 100)
	require.NoError(t, err)
	assert.True(t, counted)

	counts, err = svc.GetCounts(ctx, []uint64{10})
	require.NoError(t, err)
	assert.Equal(t, int64(3), counts[10].View)
}

func TestIncrementDecrement(t *testing.T) {
	setupTestRedis(t)
	svc := NewDiaryCounterService()
	ctx := context.Background()

	require.NoError(t, svc.IncrementCount(ctx, 20, consts.MetricLike))
	require.NoError(t, svc.IncrementCount(ctx, 20, consts.MetricLike))
	require.NoError(t, svc.IncrementCount(ctx, 20, consts.MetricComment))
	require.NoError(t, svc.DecrementCount(ctx, 20, consts.MetricLike, 1))

	counts, err := svc.GetCounts(ctx, []uint64{20})
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[20].Like)
	assert.Equal(t, int64(1), counts[20].Comment)
	assert.Equal(t, int64(0), counts[20].View)
}

func TestDecrement_NoFloorClamp(t *testing.T) {
	setupTestRedis(t)
	svc := NewDiaryCounterService()
	ctx := context.Background()

	// 乱序事件可能先到取消：缓存允许负数，落库时由 Apply 钳 0
	require.NoError(t, svc.DecrementCount(ctx, 21, consts.MetricLike, 1))

	counts, err := svc.GetCounts(ctx, []uint64{21})
	require.NoError(t, err)
	assert.Equal(t, int64(-1), counts[21].Like)
}

func TestPopDirty_DrainsExhaustively(t *testing.T) {
	setupTestRedis(t)
	svc := NewDiaryCounterService()
	ctx := context.Background()

	dirty := map[uint64]bool{}
	for id := uint64(1); id <= 25; id++ {
		require.NoError(t, svc.IncrementCount(ctx, id, consts.MetricLike))
		dirty[id] = true
	}

	// 小批量弹出，验证不重复且最终排空
	seen := map[uint64]bool{}
	for {
		ids, err := svc.PopDirty(ctx, 10)
		require.NoError(t, err)
		if len(ids) == 0 {
			break
		}
		for _, id := range ids {
			assert.False(t, seen[id], "id %d popped twice", id)
			seen[id] = true
		}
	}

	assert.Equal(t, dirty, seen)

	ids, err := svc.PopDirty(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestDeleteCounts_Cleanup(t *testing.T) {
	setupTestRedis(t)
	svc := NewDiaryCounterService()
	ctx := context.Background()

	_, err := svc.IncrementView(ctx, 30, 100)
	require.NoError(t, err)
	require.NoError(t, svc.IncrementCount(ctx, 30, consts.MetricLike))

	require.NoError(t, svc.DeleteCounts(ctx, []uint64{30}))

	counts, err := svc.GetCounts(ctx, []uint64{30})
	require.NoError(t, err)
	assert.Equal(t, DiaryCounts{}, counts[30])

	// 脏集合里也不再有该日记
	ids, err := svc.PopDirty(ctx, consts.ReconcileBatchSize)
	require.NoError(t, err)
	assert.Empty(t, ids)

	// 删除后同一访客的浏览重新计数（去重日志已清）
	counted, err := svc.IncrementView(ctx, 30, 100)
	require.NoError(t, err)
	assert.True(t, counted)
}
