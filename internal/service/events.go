package service

import (
	"context"
	"time"

	"vidhub/internal/event"
	"vidhub/pkg/logger"

	"go.uber.org/zap"
)

const publishTimeout = 3 * time.Second

// publish 在主流程提交之后发送事件，失败只记录日志
func publish(ctx context.Context, p event.Publisher, e event.Event) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := p.Publish(ctx, e); err != nil {
		logger.Warn("Publish event failed",
			zap.String("type", string(e.Type)),
			zap.Int64("video_id", e.VideoID),
			zap.Int64("user_id", e.UserID),
			zap.Error(err),
		)
	}
}

func orNop(p event.Publisher) event.Publisher {
	if p == nil {
		return event.NopPublisher{}
	}
	return p
}
