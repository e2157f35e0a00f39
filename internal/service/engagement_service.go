package service

import (
	"context"
	"errors"

	"vidhub/internal/engagement"
	"vidhub/internal/event"
	"vidhub/internal/identity"
	"vidhub/internal/model"
	"vidhub/internal/repository"
	"vidhub/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 唯一约束冲突后最多重试的次数
const maxDuplicateRetries = 1

// EngagementService 点赞/点踩、订阅、播放记录的状态变更
type EngagementService struct {
	videos    repository.VideoRepo
	users     repository.UserRepo
	relations repository.EngagementRepo
	publisher event.Publisher
}

func NewEngagementService(
	videos repository.VideoRepo,
	users repository.UserRepo,
	relations repository.EngagementRepo,
	publisher event.Publisher,
) *EngagementService {
	return &EngagementService{
		videos:    videos,
		users:     users,
		relations: relations,
		publisher: orNop(publisher),
	}
}

// SetLikePolarity 对视频点赞或点踩，返回操作后的极性（0 表示已取消）
//
// 同极性再次提交即取消，反极性原地改写，整个读改写在一个事务里完成
func (s *EngagementService) SetLikePolarity(ctx context.Context, viewer identity.Viewer, videoID int64, polarity engagement.Polarity) (engagement.Polarity, error) {
	userID, ok := viewer.UserID()
	if !ok {
		return 0, identity.ErrLoginRequired
	}
	if !polarity.Valid() {
		return 0, ErrInvalidPolarity
	}
	if err := s.ensureVideo(ctx, videoID); err != nil {
		return 0, err
	}

	var after engagement.Polarity
	err := s.inTxWithRetry(ctx, func(tx repository.EngagementTx) error {
		like, err := tx.FindLike(ctx, userID, videoID)
		if err != nil {
			return err
		}

		var current *engagement.Polarity
		if like != nil {
			p := engagement.Polarity(like.Polarity)
			current = &p
		}

		switch engagement.Decide(current, polarity) {
		case engagement.Insert:
			err = tx.CreateLike(ctx, &model.VideoLike{UserID: userID, VideoID: videoID, Polarity: int8(polarity)})
		case engagement.Delete:
			err = tx.DeleteLike(ctx, like.ID)
		case engagement.Update:
			err = tx.UpdateLikePolarity(ctx, like.ID, int8(polarity))
		}
		if err != nil {
			return err
		}
		after = engagement.After(current, polarity)
		return nil
	})
	if err != nil {
		return 0, videoRowErr(err)
	}

	e := event.New(event.VideoLiked)
	e.UserID, e.VideoID, e.Polarity = userID, videoID, int8(after)
	publish(ctx, s.publisher, e)

	return after, nil
}

// ToggleSubscription 切换对 targetUserID 的订阅，返回操作后是否处于订阅状态
func (s *EngagementService) ToggleSubscription(ctx context.Context, viewer identity.Viewer, targetUserID int64) (bool, error) {
	userID, ok := viewer.UserID()
	if !ok {
		return false, identity.ErrLoginRequired
	}
	if userID == targetUserID {
		return false, ErrCannotSubscribeSelf
	}

	exists, err := s.users.Exists(ctx, targetUserID)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, ErrUserNotFound
	}

	var subscribed bool
	err = s.inTxWithRetry(ctx, func(tx repository.EngagementTx) error {
		sub, err := tx.FindSubscription(ctx, userID, targetUserID)
		if err != nil {
			return err
		}

		switch engagement.ToggleSubscription(sub != nil) {
		case engagement.Delete:
			subscribed = false
			return tx.DeleteSubscription(ctx, sub.ID)
		default:
			subscribed = true
			return tx.CreateSubscription(ctx, &model.Subscription{SubscriberID: userID, SubscribedToID: targetUserID})
		}
	})
	if err != nil {
		return false, err
	}

	e := event.New(event.UserUnsubscribed)
	if subscribed {
		e.Type = event.UserSubscribed
	}
	e.UserID, e.TargetUserID = userID, targetUserID
	publish(ctx, s.publisher, e)

	return subscribed, nil
}

// RecordView 追加一条播放记录，匿名访客也会计数
func (s *EngagementService) RecordView(ctx context.Context, viewer identity.Viewer, videoID int64) error {
	if err := s.ensureVideo(ctx, videoID); err != nil {
		return err
	}

	view := &model.View{VideoID: videoID}
	if userID, ok := viewer.UserID(); ok {
		view.UserID = &userID
	}
	if err := s.relations.CreateView(ctx, view); err != nil {
		return videoRowErr(err)
	}

	e := event.New(event.VideoViewed)
	e.VideoID = videoID
	if view.UserID != nil {
		e.UserID = *view.UserID
	}
	publish(ctx, s.publisher, e)
	return nil
}

func (s *EngagementService) ensureVideo(ctx context.Context, videoID int64) error {
	exists, err := s.videos.Exists(ctx, videoID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrVideoNotFound
	}
	return nil
}

// inTxWithRetry 唯一约束冲突说明有并发请求抢先写入了同一关系行，重新读取后再执行一次
func (s *EngagementService) inTxWithRetry(ctx context.Context, fn func(tx repository.EngagementTx) error) error {
	for attempt := 0; ; attempt++ {
		err := s.relations.InTx(ctx, fn)
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
		if attempt >= maxDuplicateRetries {
			logger.Warn("Relation write still conflicting after retry", zap.Int("attempts", attempt+1))
			return ErrConcurrentUpdate
		}
		logger.Debug("Duplicate relation row, retrying with a fresh read", zap.Int("attempt", attempt+1))
	}
}
