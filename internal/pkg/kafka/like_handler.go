package kafka

import (
	"Inkstone/internal/repository"
	"Inkstone/internal/service"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

// LikesHandler 消费点赞表的增删事件
type LikesHandler struct {
	statSvc  service.DiaryStatService
	statRepo repository.DiaryStatRepo
}

func NewLikesHandler(statSvc service.DiaryStatService, statRepo repository.DiaryStatRepo) *LikesHandler {
	return &LikesHandler{
		statSvc:  statSvc,
		statRepo: statRepo,
	}
}

func (s *LikesHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("diary like consumer setup")
	return nil
}

func (s *LikesHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("diary like consumer cleanup")
	return nil
}

func (s *LikesHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-like consume claim")
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("topic-like process batch error", "err", err)
		return err
	}
	return nil
}

func (s *LikesHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	canalMsg, err := ToCanalMessage(msg, "diary_likes")
	if err != nil {
		return err
	}

	// 点赞是物理增删
	switch canalMsg.Type {
	case INSERT:
		return s.handleChange(ctx, canalMsg, 1)
	case DELETE:
		return s.handleChange(ctx, canalMsg, -1)
	default:
		return nil
	}
}

func (s *LikesHandler) handleChange(ctx context.Context, msg *CanalMessage, delta int64) error {
	diaryID := RowUint64(msg.Data[0], "diary_id")

	userID, bookID, err := resolveStatScope(ctx, s.statRepo, diaryID)
	if err != nil {
		return err
	}
	if userID == 0 {
		log.WarnContext(ctx, "like event for missing diary, skip", "diaryID", diaryID)
		return nil
	}

	if err = s.statSvc.OnLikeChanged(ctx, userID, bookID, diaryID, delta); err != nil {
		return err
	}

	log.InfoContext(ctx, "diary like processed", "diaryID", diaryID, "delta", delta)
	return nil
}
