// Package event 定义视频与互动事件，由 API 发布、worker 消费
package event

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Type 事件类型
type Type string

const (
	VideoCreated     Type = "video.created"
	VideoDeleted     Type = "video.deleted"
	VideoLiked       Type = "video.liked"
	VideoViewed      Type = "video.viewed"
	VideoCommented   Type = "video.commented"
	UserSubscribed   Type = "user.subscribed"
	UserUnsubscribed Type = "user.unsubscribed"
)

// Event 事件消息体
type Event struct {
	ID           string    `json:"event_id"`
	Type         Type      `json:"type"`
	UserID       int64     `json:"user_id,omitempty"`
	VideoID      int64     `json:"video_id,omitempty"`
	TargetUserID int64     `json:"target_user_id,omitempty"`
	Polarity     int8      `json:"polarity"` // 仅 video.liked 使用，表示变更后的状态，0 为中立
	OccurredAt   time.Time `json:"occurred_at"`
}

// New 创建带唯一 ID 和时间戳的事件
func New(t Type) Event {
	return Event{ID: uuid.NewString(), Type: t, OccurredAt: time.Now().UTC()}
}

// Key 分区键：视频事件按视频分区，用户事件按被订阅者分区
func (e Event) Key() string {
	if e.VideoID > 0 {
		return fmt.Sprintf("video-%d", e.VideoID)
	}
	return fmt.Sprintf("user-%d", e.TargetUserID)
}

// AffectsVideoIndex 事件是否需要刷新搜索索引里的视频文档
func (e Event) AffectsVideoIndex() bool {
	switch e.Type {
	case VideoCreated, VideoLiked, VideoViewed, VideoCommented:
		return true
	default:
		return false
	}
}

// Publisher 事件发布者
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// NopPublisher 未配置消息队列时使用
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
