package kafka

import (
	"Inkstone/internal/repository"
	"Inkstone/internal/service"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

// ViewsHandler 消费浏览记录事件；去重由计数服务的浏览日志负责
type ViewsHandler struct {
	statSvc  service.DiaryStatService
	statRepo repository.DiaryStatRepo
}

func NewViewsHandler(statSvc service.DiaryStatService, statRepo repository.DiaryStatRepo) *ViewsHandler {
	return &ViewsHandler{
		statSvc:  statSvc,
		statRepo: statRepo,
	}
}

func (s *ViewsHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("diary view consumer setup")
	return nil
}

func (s *ViewsHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("diary view consumer cleanup")
	return nil
}

func (s *ViewsHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-view consume claim")
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("topic-view process batch error", "err", err)
		return err
	}
	return nil
}

func (s *ViewsHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	canalMsg, err := ToCanalMessage(msg, "diary_views")
	if err != nil {
		return err
	}

	// 浏览只有 INSERT
	if canalMsg.Type != INSERT {
		return nil
	}

	row := canalMsg.Data[0]
	diaryID := RowUint64(row, "diary_id")
	viewerID := RowUint64(row, "user_id")

	userID, bookID, err := resolveStatScope(ctx, s.statRepo, diaryID)
	if err != nil {
		return err
	}
	if userID == 0 {
		log.WarnContext(ctx, "view event for missing diary, skip", "diaryID", diaryID)
		return nil
	}

	return s.statSvc.OnDiaryViewed(ctx, userID, bookID, diaryID, viewerID)
}
