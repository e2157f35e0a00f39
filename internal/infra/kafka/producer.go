package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"vidhub/internal/event"
	"vidhub/pkg/logger"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Producer 把事件写入固定 topic
type Producer struct {
	writer *kafka.Writer
	topic  string
}

// NewProducer 初始化 Kafka 生产者
func NewProducer(brokers []string, topic string) *Producer {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           10 * time.Millisecond,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}

	logger.Info("Kafka producer initialized",
		zap.Strings("brokers", brokers),
		zap.String("topic", topic),
	)
	return &Producer{writer: w, topic: topic}
}

// Publish 发送事件，同一视频的事件落在同一分区
func (p *Producer) Publish(ctx context.Context, e event.Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(e.Key()),
		Value: payload,
		Time:  e.OccurredAt,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to send event: %w", err)
	}

	logger.Debug("Event published",
		zap.String("type", string(e.Type)),
		zap.String("event_id", e.ID),
		zap.String("topic", p.topic),
	)
	return nil
}

// Close 关闭生产者
func (p *Producer) Close() error {
	logger.Info("Kafka producer closed")
	return p.writer.Close()
}
