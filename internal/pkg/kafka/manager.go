package kafka

import (
	"Inkstone/internal/api/config"
	"Inkstone/internal/repository"
	"Inkstone/internal/service"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

// ConsumerManager 管理所有 Kafka 消费者
type ConsumerManager struct {
	diaryConsumer sarama.ConsumerGroup
	diaryHandler  sarama.ConsumerGroupHandler

	likeConsumer sarama.ConsumerGroup
	likeHandler  sarama.ConsumerGroupHandler

	commentConsumer sarama.ConsumerGroup
	commentHandler  sarama.ConsumerGroupHandler

	viewConsumer sarama.ConsumerGroup
	viewHandler  sarama.ConsumerGroupHandler
}

// NewConsumerManager 构造函数
func NewConsumerManager(
	cfg *config.Config,
	statSvc service.DiaryStatService,
	statRepo repository.DiaryStatRepo,
) (*ConsumerManager, error) {
	saramaCfg := newSaramaConfig(cfg.Kafka)

	diaryConsumer, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaDiaryConsumer.GroupID, saramaCfg)
	if err != nil {
		return nil, err
	}
	diaryHandler := NewDiariesHandler(statSvc)

	likeConsumer, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaLikeConsumer.GroupID, saramaCfg)
	if err != nil {
		return nil, err
	}
	likeHandler := NewLikesHandler(statSvc, statRepo)

	commentConsumer, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaCommentConsumer.GroupID, saramaCfg)
	if err != nil {
		return nil, err
	}
	commentHandler := NewCommentsHandler(statSvc, statRepo)

	viewConsumer, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaViewConsumer.GroupID, saramaCfg)
	if err != nil {
		return nil, err
	}
	viewHandler := NewViewsHandler(statSvc, statRepo)

	return &ConsumerManager{
		diaryConsumer:   diaryConsumer,
		diaryHandler:    diaryHandler,
		likeConsumer:    likeConsumer,
		likeHandler:     likeHandler,
		commentConsumer: commentConsumer,
		commentHandler:  commentHandler,
		viewConsumer:    viewConsumer,
		viewHandler:     viewHandler,
	}, nil
}

// Start 启动所有消费者
func (m *ConsumerManager) Start(ctx context.Context, cfg *config.Config) error {
	// 启动 Diary Consumer
	go func() {
		topic := cfg.KafkaDiaryConsumer.Topic
		log.Info("Diary consumer started", "topic", topic)
		for {
			if err := m.diaryConsumer.Consume(ctx, []string{topic}, m.diaryHandler); err != nil {
				log.Error("Error from consumer", "err", err)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	// 启动 Like Consumer
	go func() {
		topic := cfg.KafkaLikeConsumer.Topic
		log.Info("Like consumer started", "topic", topic)
		for {
			if err := m.likeConsumer.Consume(ctx, []string{topic}, m.likeHandler); err != nil {
				log.Error("Error from consumer", "err", err)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	// 启动 Comment Consumer
	go func() {
		topic := cfg.KafkaCommentConsumer.Topic
		log.Info("Comment consumer started", "topic", topic)
		for {
			if err := m.commentConsumer.Consume(ctx, []string{topic}, m.commentHandler); err != nil {
				log.Error("Error from consumer", "err", err)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	// 启动 View Consumer
	go func() {
		topic := cfg.KafkaViewConsumer.Topic
		log.Info("View consumer started", "topic", topic)
		for {
			if err := m.viewConsumer.Consume(ctx, []string{topic}, m.viewHandler); err != nil {
				log.Error("Error from consumer", "err", err)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	<-ctx.Done()
	log.Info("Kafka Manager shutting down...")

	if err := m.diaryConsumer.Close(); err != nil {
		log.Error("Failed to close diary consumer", "err", err)
	}
	if err := m.likeConsumer.Close(); err != nil {
		log.Error("Failed to close like consumer", "err", err)
	}
	if err := m.commentConsumer.Close(); err != nil {
		log.Error("Failed to close comment consumer", "err", err)
	}
	if err := m.viewConsumer.Close(); err != nil {
		log.Error("Failed to close view consumer", "err", err)
	}

	return nil
}
