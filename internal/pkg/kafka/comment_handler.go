package kafka

import (
	"Inkstone/internal/repository"
	"Inkstone/internal/service"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

// CommentsHandler 消费评论表的增删事件
type CommentsHandler struct {
	statSvc  service.DiaryStatService
	statRepo repository.DiaryStatRepo
}

func NewCommentsHandler(statSvc service.DiaryStatService, statRepo repository.DiaryStatRepo) *CommentsHandler {
	return &CommentsHandler{
		statSvc:  statSvc,
		statRepo: statRepo,
	}
}

func (s *CommentsHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("diary comment consumer setup")
	return nil
}

func (s *CommentsHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("diary comment consumer cleanup")
	return nil
}

func (s *CommentsHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-comment consume claim")
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("topic-comment process batch error", "err", err)
		return err
	}
	return nil
}

func (s *CommentsHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	canalMsg, err := ToCanalMessage(msg, "diary_comments")
	if err != nil {
		return err
	}

	switch canalMsg.Type {
	case INSERT:
		return s.handleChange(ctx, canalMsg, 1)
	case DELETE:
		return s.handleChange(ctx, canalMsg, -1)
	default:
		return nil
	}
}

func (s *CommentsHandler) handleChange(ctx context.Context, msg *CanalMessage, delta int64) error {
	diaryID := RowUint64(msg.Data[0], "diary_id")

	userID, bookID, err := resolveStatScope(ctx, s.statRepo, diaryID)
	if err != nil {
		return err
	}
	if userID == 0 {
		log.WarnContext(ctx, "comment event for missing diary, skip", "diaryID", diaryID)
		return nil
	}

	if err = s.statSvc.OnCommentCountChanged(ctx, userID, bookID, diaryID, delta); err != nil {
		return err
	}

	log.InfoContext(ctx, "diary comment processed", "diaryID", diaryID, "delta", delta)
	return nil
}
