package service

import (
	"Inkstone/internal/pkg/consts"
	"Inkstone/internal/pkg/redis"
	"Inkstone/internal/pkg/util"
	"context"
	log "log/slog"
)

// DiaryCounts 单篇日记的三项实时计数
type DiaryCounts struct {
	View    int64
	Like    int64
	Comment int64
}

// DiaryCounterService 日记计数缓存。
// 计数只存在于 Redis，按键原子更新；任何变更都会把日记标脏，
// 等待回写任务落库。计数值在下一次回写前以缓存为准。
type DiaryCounterService interface {
	// IncrementView 浏览计数。同一访客 24 小时内只计一次，返回本次是否计入
	IncrementView(ctx context.Context, diaryID, viewerID uint64) (bool, error)
	// IncrementCount 指定指标 +1 并标脏
	IncrementCount(ctx context.Context, diaryID uint64, metric string) error
	// DecrementCount 指定指标 -amount 并标脏
	DecrementCount(ctx context.Context, diaryID uint64, metric string, amount int64) error
	// GetCounts 批量读取三项计数，缺失的键按 0 返回
	GetCounts(ctx context.Context, diaryIDs []uint64) (map[uint64]DiaryCounts, error)
	// DeleteCounts 删除计数键、浏览去重集合并移出脏集合（日记删除时清理）
	DeleteCounts(ctx context.Context, diaryIDs []uint64) error
	// PopDirty 原子弹出至多 n 个待回写日记 ID
	PopDirty(ctx context.Context, n int64) ([]uint64, error)
}

type diaryCounterServiceImpl struct{}

func NewDiaryCounterService() DiaryCounterService {
	return &diaryCounterServiceImpl{}
}

func (s *diaryCounterServiceImpl) IncrementView(ctx context.Context, diaryID, viewerID uint64) (bool, error) {
	logKey := consts.DiaryViewLogKey(diaryID)
	counted, err := redis.AddToSetOnceWithTTL(ctx, logKey, util.Uint64ToStr(viewerID), consts.ViewLogExpiration)
	if err != nil {
		log.ErrorContext(ctx, "mark view log error", "diaryID", diaryID, "err", err)
		return false, ErrCacheUnavailable
	}
	if !counted {
		return false, nil
	}

	if err = s.adjust(ctx, diaryID, consts.MetricView, 1); err != nil {
		return false, err
	}
	return true, nil
}

func (s *diaryCounterServiceImpl) IncrementCount(ctx context.Context, diaryID uint64, metric string) error {
	return s.adjust(ctx, diaryID, metric, 1)
}

func (s *diaryCounterServiceImpl) DecrementCount(ctx context.Context, diaryID uint64, metric string, amount int64) error {
	return s.adjust(ctx, diaryID, metric, -amount)
}

// adjust 调整计数并把日记加入脏集合。
// 两步不在一个事务里：计数成功而标脏失败时返回错误，
// 调用方（通常是消费端）重试即可补上脏标记。
func (s *diaryCounterServiceImpl) adjust(ctx context.Context, diaryID uint64, metric string, delta int64) error {
	key := consts.DiaryCountKey(diaryID, metric)

	var err error
	if delta >= 0 {
		_, err = redis.IncrBy(ctx, key, delta)
	} else {
		_, err = redis.DecrBy(ctx, key, -delta)
	}
	if err != nil {
		log.ErrorContext(ctx, "adjust count error", "diaryID", diaryID, "metric", metric, "err", err)
		return ErrCacheUnavailable
	}

	if err = redis.SAddMember(ctx, consts.DiaryDirtyKey, util.Uint64ToStr(diaryID)); err != nil {
		log.ErrorContext(ctx, "mark dirty error", "diaryID", diaryID, "err", err)
		return ErrCacheUnavailable
	}
	return nil
}

func (s *diaryCounterServiceImpl) GetCounts(ctx context.Context, diaryIDs []uint64) (map[uint64]DiaryCounts, error) {
	result := make(map[uint64]DiaryCounts, len(diaryIDs))
	if len(diaryIDs) == 0 {
		return result, nil
	}

	// 每篇日记三个键，一次 MGET 往返
	keys := make([]string, 0, len(diaryIDs)*3)
	for _, id := range diaryIDs {
		keys = append(keys,
			consts.DiaryCountKey(id, consts.MetricView),
			consts.DiaryCountKey(id, consts.MetricLike),
			consts.DiaryCountKey(id, consts.MetricComment),
		)
	}

	vals, err := redis.MGetInt64(ctx, keys)
	if err != nil {
		log.ErrorContext(ctx, "bulk get counts error", "err", err)
		return nil, ErrCacheUnavailable
	}

	for i, id := range diaryIDs {
		result[id] = DiaryCounts{
			View:    vals[i*3],
			Like:    vals[i*3+1],
			Comment: vals[i*3+2],
		}
	}
	return result, nil
}

func (s *diaryCounterServiceImpl) DeleteCounts(ctx context.Context, diaryIDs []uint64) error {
	if len(diaryIDs) == 0 {
		return nil
	}

	keys := make([]string, 0, len(diaryIDs)*4)
	members := make([]string, 0, len(diaryIDs))
	for _, id := range diaryIDs {
		keys = append(keys,
			consts.DiaryCountKey(id, consts.MetricView),
			consts.DiaryCountKey(id, consts.MetricLike),
			consts.DiaryCountKey(id, consts.MetricComment),
			consts.DiaryViewLogKey(id),
		)
		members = append(members, util.Uint64ToStr(id))
	}

	if err := redis.DeleteKeys(ctx, keys...); err != nil {
		log.ErrorContext(ctx, "delete count keys error", "err", err)
		return ErrCacheUnavailable
	}
	if err := redis.SRemMembers(ctx, consts.DiaryDirtyKey, members); err != nil {
		log.ErrorContext(ctx, "remove dirty members error", "err", err)
		return ErrCacheUnavailable
	}
	return nil
}

func (s *diaryCounterServiceImpl) PopDirty(ctx context.Context, n int64) ([]uint64, error) {
	members, err := redis.SPopN(ctx, consts.DiaryDirtyKey, n)
	if err != nil {
		log.ErrorContext(ctx, "pop dirty set error", "err", err)
		return nil, ErrCacheUnavailable
	}
	if len(members) == 0 {
		return nil, nil
	}

	ids := make([]uint64, 0, len(members))
	for _, m := range members {
		id, err := util.StrToUint64(m)
		if err != nil {
			// 脏集合里出现非数字成员说明有键写串了，跳过该成员
			log.WarnContext(ctx, "dirty set contains invalid member", "member", m)
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}
