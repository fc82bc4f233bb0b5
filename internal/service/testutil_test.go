package service

import (
	"Inkstone/internal/model"
	pkgredis "Inkstone/internal/pkg/redis"
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/redis/go-redis/v9/maintnotifications"
)

// setupTestRedis 用 miniredis 替换全局客户端，测试结束后还原
func setupTestRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
		MaintNotificationsConfig: &maintnotifications.Config{
			Mode: maintnotifications.ModeDisabled,
		},
	})

	old := pkgredis.Rdb
	pkgredis.Rdb = client
	t.Cleanup(func() {
		_ = client.Close()
		pkgredis.Rdb = old
	})

	return mr
}

// fakeStatRepo 内存版 DiaryStatRepo，替代 MySQL
type fakeStatRepo struct {
	mu    sync.Mutex
	stats map[uint64]*model.DiaryStat

	saveErr error
}

func newFakeStatRepo() *fakeStatRepo {
	return &fakeStatRepo{stats: make(map[uint64]*model.DiaryStat)}
}

func (r *fakeStatRepo) Create(_ context.Context, stat *model.DiaryStat) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.stats[stat.DiaryID]; exists {
		return nil
	}
	cp := *stat
	r.stats[stat.DiaryID] = &cp
	return nil
}

func (r *fakeStatRepo) Delete(_ context.Context, diaryID uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.stats, diaryID)
	return nil
}

func (r *fakeStatRepo) GetByIDs(_ context.Context, diaryIDs []uint64) ([]*model.DiaryStat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]*model.DiaryStat, 0, len(diaryIDs))
	for _, id := range diaryIDs {
		if st, ok := r.stats[id]; ok {
			cp := *st
			result = append(result, &cp)
		}
	}
	return result, nil
}

func (r *fakeStatRepo) Save(_ context.Context, stat *model.DiaryStat) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	if st, ok := r.stats[stat.DiaryID]; ok {
		st.ViewCount = stat.ViewCount
		st.LikeCount = stat.LikeCount
		st.CommentCount = stat.CommentCount
		st.PopularityScore = stat.PopularityScore
	}
	return nil
}

func (r *fakeStatRepo) ListPopularByBook(_ context.Context, bookID uint64, cursor int64, subCursor float64, limit int) ([]*model.DiaryStat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var rows []*model.DiaryStat
	for _, st := range r.stats {
		if st.BookID != bookID {
			continue
		}
		if cursor > 0 {
			keep := st.PopularityScore < subCursor ||
				(st.PopularityScore == subCursor && int64(st.DiaryID) < cursor)
			if !keep {
				continue
			}
		}
		cp := *st
		rows = append(rows, &cp)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].PopularityScore != rows[j].PopularityScore {
			return rows[i].PopularityScore > rows[j].PopularityScore
		}
		return rows[i].DiaryID > rows[j].DiaryID
	})

	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (r *fakeStatRepo) ListRecentByBook(_ context.Context, bookID uint64, cursor int64, limit int) ([]*model.DiaryStat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var rows []*model.DiaryStat
	for _, st := range r.stats {
		if st.BookID != bookID {
			continue
		}
		if cursor > 0 && int64(st.DiaryID) >= cursor {
			continue
		}
		cp := *st
		rows = append(rows, &cp)
	}

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].DiaryID > rows[j].DiaryID
	})

	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (r *fakeStatRepo) get(diaryID uint64) *model.DiaryStat {
	r.mu.Lock()
	defer r.mu.Unlock()
	if st, ok := r.stats[diaryID]; ok {
		cp := *st
		return &cp
	}
	return nil
}
