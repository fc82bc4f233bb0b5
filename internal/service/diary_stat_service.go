package service

import (
	"Inkstone/internal/api/dto"
	"Inkstone/internal/model"
	"Inkstone/internal/pkg/consts"
	"Inkstone/internal/pkg/popularity"
	"Inkstone/internal/pkg/util"
	"Inkstone/internal/repository"
	"context"
	log "log/slog"
	"time"

	"github.com/jinzhu/copier"
)

// DiaryStatService 聚合计数缓存、实时排行榜与持久化统计：
// 生命周期钩子走写路径，读接口供外部服务拼装 Feed，
// Reconcile 由定时任务或手动触发，把脏计数刷回 diary_stats。
type DiaryStatService interface {
	// OnDiaryCreated 日记创建：建统计行 + 0 分入榜
	OnDiaryCreated(ctx context.Context, userID, bookID, diaryID uint64, createdAt time.Time) error
	// OnDiaryDeleted 日记删除：清统计行、榜单、计数键与脏标记
	OnDiaryDeleted(ctx context.Context, userID, bookID, diaryID uint64) error
	// OnDiaryViewed 浏览：去重计数，计入时排行榜 +0.1
	OnDiaryViewed(ctx context.Context, userID, bookID, diaryID, viewerID uint64) error
	// OnLikeChanged 点赞（delta=+1）或取消（delta=-1）
	OnLikeChanged(ctx context.Context, userID, bookID, diaryID uint64, delta int64) error
	// OnCommentCountChanged 评论增删，delta 为条数变化
	OnCommentCountChanged(ctx context.Context, userID, bookID, diaryID uint64, delta int64) error

	// GetCounts 批量实时计数
	GetCounts(ctx context.Context, diaryIDs []uint64) ([]*dto.DiaryCountsDTO, error)
	// GetPopularRanked 作者+书维度实时排行榜分页
	GetPopularRanked(ctx context.Context, userID, bookID uint64, page, size int) (*dto.RankedPageDTO, error)
	// GetPopularFeed 全书热度 Feed，双游标分页
	GetPopularFeed(ctx context.Context, bookID uint64, cursor int64, subCursor float64, size int) (*dto.DiaryPopularFeedDTO, error)
	// GetRecentFeed 全书时间倒序 Feed，单游标分页
	GetRecentFeed(ctx context.Context, bookID uint64, cursor int64, size int) (*dto.DiaryFeedDTO, error)

	// Reconcile 排空脏集合并回写统计行，返回处理量
	Reconcile(ctx context.Context) (*dto.ReconcileResultDTO, error)
}

type diaryStatServiceImpl struct {
	statRepo   repository.DiaryStatRepo
	counterSvc DiaryCounterService
	rankingSvc DiaryRankingService
}

func NewDiaryStatService(
	statRepo repository.DiaryStatRepo,
	counterSvc DiaryCounterService,
	rankingSvc DiaryRankingService,
) DiaryStatService {
	return &diaryStatServiceImpl{
		statRepo:   statRepo,
		counterSvc: counterSvc,
		rankingSvc: rankingSvc,
	}
}

func (s *diaryStatServiceImpl) OnDiaryCreated(ctx context.Context, userID, bookID, diaryID uint64, createdAt time.Time) error {
	stat := &model.DiaryStat{
		DiaryID:   diaryID,
		BookID:    bookID,
		UserID:    userID,
		CreatedAt: createdAt,
	}
	if err := s.statRepo.Create(ctx, stat); err != nil {
		return err
	}
	return s.rankingSvc.AddDiary(ctx, userID, bookID, diaryID)
}

func (s *diaryStatServiceImpl) OnDiaryDeleted(ctx context.Context, userID, bookID, diaryID uint64) error {
	if err := s.statRepo.Delete(ctx, diaryID); err != nil {
		return err
	}
	if err := s.rankingSvc.RemoveDiary(ctx, userID, bookID, diaryID); err != nil {
		return err
	}
	return s.counterSvc.DeleteCounts(ctx, []uint64{diaryID})
}

func (s *diaryStatServiceImpl) OnDiaryViewed(ctx context.Context, userID, bookID, diaryID, viewerID uint64) error {
	counted, err := s.counterSvc.IncrementView(ctx, diaryID, viewerID)
	if err != nil {
		return err
	}
	// 被去重的浏览不影响榜单
	if !counted {
		return nil
	}
	return s.rankingSvc.AdjustScore(ctx, userID, bookID, diaryID, popularity.WeightView)
}

func (s *diaryStatServiceImpl) OnLikeChanged(ctx context.Context, userID, bookID, diaryID uint64, delta int64) error {
	var err error
	if delta >= 0 {
		err = s.counterSvc.IncrementCount(ctx, diaryID, consts.MetricLike)
	} else {
		err = s.counterSvc.DecrementCount(ctx, diaryID, consts.MetricLike, -delta)
	}
	if err != nil {
		return err
	}
	return s.rankingSvc.AdjustScore(ctx, userID, bookID, diaryID, popularity.WeightLike*float64(sign(delta)))
}

func (s *diaryStatServiceImpl) OnCommentCountChanged(ctx context.Context, userID, bookID, diaryID uint64, delta int64) error {
	if delta == 0 {
		return nil
	}
	var err error
	if delta > 0 {
		err = s.counterSvc.IncrementCount(ctx, diaryID, consts.MetricComment)
	} else {
		err = s.counterSvc.DecrementCount(ctx, diaryID, consts.MetricComment, -delta)
	}
	if err != nil {
		return err
	}
	return s.rankingSvc.AdjustScore(ctx, userID, bookID, diaryID, popularity.WeightComment*float64(delta))
}

func (s *diaryStatServiceImpl) GetCounts(ctx context.Context, diaryIDs []uint64) ([]*dto.DiaryCountsDTO, error) {
	counts, err := s.counterSvc.GetCounts(ctx, diaryIDs)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.DiaryCountsDTO, 0, len(diaryIDs))
	for _, id := range diaryIDs {
		c := counts[id]
		result = append(result, &dto.DiaryCountsDTO{
			DiaryID:      id,
			ViewCount:    c.View,
			LikeCount:    c.Like,
			CommentCount: c.Comment,
		})
	}
	return result, nil
}

func (s *diaryStatServiceImpl) GetPopularRanked(ctx context.Context, userID, bookID uint64, page, size int) (*dto.RankedPageDTO, error) {
	ranked, err := s.rankingSvc.GetPage(ctx, userID, bookID, page, size)
	if err != nil {
		return nil, err
	}
	return &dto.RankedPageDTO{DiaryIDs: ranked.DiaryIDs, HasNext: ranked.HasNext}, nil
}

func (s *diaryStatServiceImpl) GetPopularFeed(ctx context.Context, bookID uint64, cursor int64, subCursor float64, size int) (*dto.DiaryPopularFeedDTO, error) {
	stats, err := s.statRepo.ListPopularByBook(ctx, bookID, cursor, subCursor, size+1)
	if err != nil {
		return nil, err
	}

	page := util.ToDualPage(stats, size,
		func(st *model.DiaryStat) int64 { return int64(st.DiaryID) },
		func(st *model.DiaryStat) float64 { return st.PopularityScore },
	)

	return &dto.DiaryPopularFeedDTO{
		Data:          toStatDTOs(page.Data),
		NextCursor:    page.NextCursor,
		NextSubCursor: page.NextSubCursor,
		HasNext:       page.HasNext,
	}, nil
}

func (s *diaryStatServiceImpl) GetRecentFeed(ctx context.Context, bookID uint64, cursor int64, size int) (*dto.DiaryFeedDTO, error) {
	stats, err := s.statRepo.ListRecentByBook(ctx, bookID, cursor, size+1)
	if err != nil {
		return nil, err
	}

	page := util.ToPage(stats, size,
		func(st *model.DiaryStat) int64 { return int64(st.DiaryID) },
	)

	return &dto.DiaryFeedDTO{
		Data:       toStatDTOs(page.Data),
		NextCursor: page.NextCursor,
		HasNext:    page.HasNext,
	}, nil
}

// Reconcile 分批排空脏集合。弹出是破坏性的，并发触发时各批互不重叠；
// 某批落库失败则停止本轮，未回写的日记等下次互动再次标脏
func (s *diaryStatServiceImpl) Reconcile(ctx context.Context) (*dto.ReconcileResultDTO, error) {
	result := &dto.ReconcileResultDTO{}

	for {
		ids, err := s.counterSvc.PopDirty(ctx, consts.ReconcileBatchSize)
		if err != nil {
			return result, err
		}
		if len(ids) == 0 {
			return result, nil
		}

		result.Batches++

		batchCtx, cancel := context.WithTimeout(ctx, consts.ReconcileBatchTimeout)
		processed, err := s.reconcileBatch(batchCtx, ids)
		cancel()

		result.Processed += processed
		if err != nil {
			log.ErrorContext(ctx, "reconcile batch failed, stopping run",
				"batch", result.Batches, "err", err)
			return result, err
		}
	}
}

func (s *diaryStatServiceImpl) reconcileBatch(ctx context.Context, ids []uint64) (int, error) {
	counts, err := s.counterSvc.GetCounts(ctx, ids)
	if err != nil {
		return 0, err
	}

	stats, err := s.statRepo.GetByIDs(ctx, ids)
	if err != nil {
		return 0, err
	}

	statByID := make(map[uint64]*model.DiaryStat, len(stats))
	for _, st := range stats {
		statByID[st.DiaryID] = st
	}

	now := time.Now()
	processed := 0
	for _, id := range ids {
		st, ok := statByID[id]
		if !ok {
			// 日记已删除，跳过该 ID 不影响其余回写
			log.WarnContext(ctx, "statistic row missing, skip", "diaryID", id)
			continue
		}

		c := counts[id]
		st.Apply(c.View, c.Like, c.Comment, now)

		if err = s.statRepo.Save(ctx, st); err != nil {
			return processed, err
		}
		processed++
	}
	return processed, nil
}

func toStatDTOs(stats []*model.DiaryStat) []*dto.DiaryStatDTO {
	result := make([]*dto.DiaryStatDTO, 0, len(stats))
	for _, st := range stats {
		var d dto.DiaryStatDTO
		_ = copier.Copy(&d, st)
		result = append(result, &d)
	}
	return result
}

func sign(n int64) int64 {
	if n < 0 {
		return -1
	}
	return 1
}
