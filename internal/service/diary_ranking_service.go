package service

import (
	"Inkstone/internal/pkg/consts"
	"Inkstone/internal/pkg/redis"
	"Inkstone/internal/pkg/util"
	"context"
	log "log/slog"
)

// RankedPage 排行榜分页结果
type RankedPage struct {
	DiaryIDs []uint64
	HasNext  bool
}

// DiaryRankingService 作者+书维度的实时排行榜。
// 分数是互动事件的加权累计值，不做时间衰减，与落库的热度分是两套口径：
// 这里追求写入即可见，跨作者的公平排序走 diary_stats 表。
type DiaryRankingService interface {
	// AddDiary 日记创建时以 0 分入榜
	AddDiary(ctx context.Context, userID, bookID, diaryID uint64) error
	// RemoveDiary 日记删除时移出榜单
	RemoveDiary(ctx context.Context, userID, bookID, diaryID uint64) error
	// AdjustScore 按互动权重增减分数
	AdjustScore(ctx context.Context, userID, bookID, diaryID uint64, delta float64) error
	// GetPage 按分数降序取第 page 页（0 起始），多取一条判断是否还有下一页
	GetPage(ctx context.Context, userID, bookID uint64, page, size int) (*RankedPage, error)
}

type diaryRankingServiceImpl struct{}

func NewDiaryRankingService() DiaryRankingService {
	return &diaryRankingServiceImpl{}
}

func (s *diaryRankingServiceImpl) AddDiary(ctx context.Context, userID, bookID, diaryID uint64) error {
	key := consts.DiaryPopularKey(userID, bookID)
	if err := redis.ZAdd(ctx, key, 0, util.Uint64ToStr(diaryID)); err != nil {
		log.ErrorContext(ctx, "ranking add error", "diaryID", diaryID, "err", err)
		return ErrCacheUnavailable
	}
	return nil
}

func (s *diaryRankingServiceImpl) RemoveDiary(ctx context.Context, userID, bookID, diaryID uint64) error {
	key := consts.DiaryPopularKey(userID, bookID)
	if err := redis.ZRem(ctx, key, util.Uint64ToStr(diaryID)); err != nil {
		log.ErrorContext(ctx, "ranking remove error", "diaryID", diaryID, "err", err)
		return ErrCacheUnavailable
	}
	return nil
}

func (s *diaryRankingServiceImpl) AdjustScore(ctx context.Context, userID, bookID, diaryID uint64, delta float64) error {
	key := consts.DiaryPopularKey(userID, bookID)
	if err := redis.ZIncrBy(ctx, key, delta, util.Uint64ToStr(diaryID)); err != nil {
		log.ErrorContext(ctx, "ranking adjust error", "diaryID", diaryID, "err", err)
		return ErrCacheUnavailable
	}
	return nil
}

func (s *diaryRankingServiceImpl) GetPage(ctx context.Context, userID, bookID uint64, page, size int) (*RankedPage, error) {
	key := consts.DiaryPopularKey(userID, bookID)

	start := int64(page) * int64(size)
	stop := start + int64(size) // 多取一条

	members, err := redis.ZRevRange(ctx, key, start, stop)
	if err != nil {
		log.ErrorContext(ctx, "ranking page error", "key", key, "err", err)
		return nil, ErrCacheUnavailable
	}

	hasNext := len(members) > size
	if hasNext {
		members = members[:size]
	}

	ids, err := util.StrSliceToUint64Slice(members)
	if err != nil {
		log.ErrorContext(ctx, "ranking page invalid member", "key", key, "err", err)
		return nil, UnExpectedError
	}

	return &RankedPage{DiaryIDs: ids, HasNext: hasNext}, nil
}
