package wire

import (
	"Inkstone/internal/api"
	"Inkstone/internal/api/config"
	"Inkstone/internal/api/handler"
	"Inkstone/internal/job"
	"Inkstone/internal/pkg/cron"
	"Inkstone/internal/pkg/kafka"
	"Inkstone/internal/repository"
	"Inkstone/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router       *gin.Engine
	DB           *gorm.DB
	CronMgr      *cron.Manager
	KafkaManager *kafka.ConsumerManager
}

func BuildApplication(db *gorm.DB, cfg *config.Config) (*ApplicationContainer, error) {
	statRepo := repository.NewDiaryStatRepo(db)

	counterSvc := service.NewDiaryCounterService()
	rankingSvc := service.NewDiaryRankingService()
	statSvc := service.NewDiaryStatService(statRepo, counterSvc, rankingSvc)

	handlers := &api.HandlersGroup{
		DiaryStatHandler: handler.NewDiaryStatHandler(statSvc),
	}

	router := api.SetupRouter(handlers)

	diaryStatJob := job.NewDiaryStatJob(statSvc)
	cronMgr := cron.NewCronManager(diaryStatJob)

	kafkaMgr, err := kafka.NewConsumerManager(cfg, statSvc, statRepo)
	if err != nil {
		return nil, err
	}

	return &ApplicationContainer{
		Router:       router,
		DB:           db,
		CronMgr:      cronMgr,
		KafkaManager: kafkaMgr,
	}, nil
}
