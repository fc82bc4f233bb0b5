package cron

import (
	"Inkstone/internal/job"
	log "log/slog"

	"github.com/robfig/cron/v3"
)

type Manager struct {
	engine       *cron.Cron
	diaryStatJob *job.DiaryStatJob
}

func NewCronManager(diaryStatJob *job.DiaryStatJob) *Manager {
	return &Manager{
		engine:       cron.New(cron.WithSeconds()),
		diaryStatJob: diaryStatJob,
	}
}

// RegisterJobs 注册定时任务
func (s *Manager) RegisterJobs() error {
	// 每日低峰期回写一次
	if _, err := s.engine.AddJob("@daily", s.diaryStatJob); err != nil {
		return err
	}
	return nil
}

func (s *Manager) Start() {
	log.Info("Cron 定时任务引擎启动")
	s.engine.Start()
}

func (s *Manager) Stop() {
	log.Info("Cron 定时任务引擎停止")
	s.engine.Stop()
}
