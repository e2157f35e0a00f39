package model

import "time"

// Subscription 频道订阅关系，订阅者不能是被订阅者本人
type Subscription struct {
	ID             int64     `gorm:"primaryKey;autoIncrement;comment:订阅关系ID" json:"id"`
	SubscriberID   int64     `gorm:"not null;uniqueIndex:uq_subscriptions_pair;check:chk_subscriptions_not_self,subscriber_id <> subscribed_to_id;comment:订阅者ID" json:"subscriber_id"`
	SubscribedToID int64     `gorm:"not null;uniqueIndex:uq_subscriptions_pair;index:idx_subscriptions_subscribed_to;comment:被订阅者ID" json:"subscribed_to_id"`
	CreatedAt      time.Time `gorm:"autoCreateTime;comment:订阅时间" json:"created_at"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}
