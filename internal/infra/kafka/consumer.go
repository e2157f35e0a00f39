package kafka

import (
	"context"
	"encoding/json"
	"time"

	"vidhub/internal/event"
	"vidhub/pkg/logger"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// EventHandler 处理单条事件
type EventHandler func(ctx context.Context, e *event.Event) error

// ConsumeEvents 阻塞消费事件，ctx 取消后返回
func ConsumeEvents(ctx context.Context, brokers []string, topic, groupID string, handler EventHandler) {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: time.Second,
		StartOffset:    kafka.FirstOffset,
	})

	defer func() {
		if err := reader.Close(); err != nil {
			logger.Error("Failed to close kafka consumer", zap.Error(err))
		}
		logger.Info("Kafka event consumer stopped")
	}()

	logger.Info("Kafka event consumer started",
		zap.String("topic", topic),
		zap.String("group", groupID),
	)

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Error("Failed to read kafka message", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}

		var e event.Event
		if err := json.Unmarshal(msg.Value, &e); err != nil {
			logger.Error("Failed to unmarshal event",
				zap.Error(err),
				zap.ByteString("value", msg.Value),
			)
			continue
		}

		if err := handler(ctx, &e); err != nil {
			logger.Error("Failed to handle event",
				zap.String("type", string(e.Type)),
				zap.String("event_id", e.ID),
				zap.Int64("video_id", e.VideoID),
				zap.Error(err),
			)
		}
	}
}
