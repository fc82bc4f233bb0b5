package job

import (
	"Inkstone/internal/pkg/logger"
	"Inkstone/internal/service"
	"context"
	log "log/slog"

	"github.com/google/uuid"
)

// DiaryStatJob 每日回写任务：把脏计数刷入 diary_stats 并重算热度分
type DiaryStatJob struct {
	statSvc service.DiaryStatService
}

func NewDiaryStatJob(statSvc service.DiaryStatService) *DiaryStatJob {
	return &DiaryStatJob{statSvc: statSvc}
}

func (s *DiaryStatJob) Run() {
	traceID := "job-diary-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)

	result, err := s.statSvc.Reconcile(ctx)
	if err != nil {
		log.ErrorContext(ctx, "reconcile diary stats aborted",
			"processed", result.Processed,
			"batches", result.Batches,
			"err", err)
		return
	}

	log.InfoContext(ctx, "reconcile diary stats success",
		"processed", result.Processed,
		"batches", result.Batches)
}
