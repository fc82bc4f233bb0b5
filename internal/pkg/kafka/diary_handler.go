package kafka

import (
	"Inkstone/internal/service"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

// DiariesHandler 消费日记表的增删事件，维护统计行与榜单的生命周期
type DiariesHandler struct {
	statSvc service.DiaryStatService
}

func NewDiariesHandler(statSvc service.DiaryStatService) *DiariesHandler {
	return &DiariesHandler{statSvc: statSvc}
}

func (s *DiariesHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("diary consumer setup")
	return nil
}

func (s *DiariesHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("diary consumer cleanup")
	return nil
}

func (s *DiariesHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-diary consume claim")
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("topic-diary process batch error", "err", err)
		return err
	}
	return nil
}

func (s *DiariesHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	canalMsg, err := ToCanalMessage(msg, "diaries")
	if err != nil {
		return err
	}

	switch canalMsg.Type {
	case INSERT:
		return s.handleInsert(ctx, canalMsg)
	case DELETE:
		return s.handleDelete(ctx, canalMsg)
	default:
		return nil
	}
}

// handleInsert 日记创建：建统计行 + 0 分入榜
func (s *DiariesHandler) handleInsert(ctx context.Context, msg *CanalMessage) error {
	row := msg.Data[0]
	diaryID := RowUint64(row, "id")
	userID := RowUint64(row, "user_id")
	bookID := RowUint64(row, "book_id")
	createdAt := RowTime(row, "created_at")

	err := s.statSvc.OnDiaryCreated(ctx, userID, bookID, diaryID, createdAt)
	if err != nil {
		return err
	}

	log.InfoContext(ctx, "diary stat created", "diaryID", diaryID, "bookID", bookID)
	return nil
}

// handleDelete 日记删除：清统计行、榜单、计数键
func (s *DiariesHandler) handleDelete(ctx context.Context, msg *CanalMessage) error {
	row := msg.Data[0]
	diaryID := RowUint64(row, "id")
	userID := RowUint64(row, "user_id")
	bookID := RowUint64(row, "book_id")

	err := s.statSvc.OnDiaryDeleted(ctx, userID, bookID, diaryID)
	if err != nil {
		return err
	}

	log.InfoContext(ctx, "diary stat removed", "diaryID", diaryID, "bookID", bookID)
	return nil
}
