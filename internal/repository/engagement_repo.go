package repository

import (
	"context"
	"errors"
	"time"

	"vidhub/internal/model"

	"gorm.io/gorm"
)

// EngagementTx 事务内可用的关系行读写
type EngagementTx interface {
	FindLike(ctx context.Context, userID, videoID int64) (*model.VideoLike, error)
	CreateLike(ctx context.Context, like *model.VideoLike) error
	UpdateLikePolarity(ctx context.Context, id int64, polarity int8) error
	DeleteLike(ctx context.Context, id int64) error

	FindSubscription(ctx context.Context, subscriberID, targetID int64) (*model.Subscription, error)
	CreateSubscription(ctx context.Context, sub *model.Subscription) error
	DeleteSubscription(ctx context.Context, id int64) error
}

// EngagementRepo 播放、点赞、订阅、评论关系表的读写与计数
type EngagementRepo interface {
	EngagementTx

	// InTx 在单个数据库事务中执行 fn，fn 返回错误时回滚
	InTx(ctx context.Context, fn func(tx EngagementTx) error) error

	CreateView(ctx context.Context, view *model.View) error

	CountViews(ctx context.Context, videoID int64) (int64, error)
	CountLikes(ctx context.Context, videoID int64, polarity int8) (int64, error)
	CountComments(ctx context.Context, videoID int64) (int64, error)
	CountSubscribers(ctx context.Context, userID int64) (int64, error)
	HasViewed(ctx context.Context, userID, videoID int64) (bool, error)
	IsSubscribed(ctx context.Context, subscriberID, targetID int64) (bool, error)

	LikedVideoIDs(ctx context.Context, userID int64, skip, limit int) ([]int64, int64, error)
	ViewedVideoIDs(ctx context.Context, userID int64, skip, limit int) ([]int64, int64, error)
	SubscribedToIDs(ctx context.Context, subscriberID int64) ([]int64, error)
}

type engagementRepoImpl struct {
	db *gorm.DB
}

func NewEngagementRepo(db *gorm.DB) EngagementRepo {
	return &engagementRepoImpl{db: db}
}

func (r *engagementRepoImpl) InTx(ctx context.Context, fn func(tx EngagementTx) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&engagementRepoImpl{db: tx})
	})
}

// FindLike 查询用户对视频的点赞记录，没有记录时返回 nil, nil
func (r *engagementRepoImpl) FindLike(ctx context.Context, userID, videoID int64) (*model.VideoLike, error) {
	var like model.VideoLike
	err := r.db.WithContext(ctx).Where("user_id = ? AND video_id = ?", userID, videoID).First(&like).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &like, nil
}

func (r *engagementRepoImpl) CreateLike(ctx context.Context, like *model.VideoLike) error {
	return r.db.WithContext(ctx).Create(like).Error
}

func (r *engagementRepoImpl) UpdateLikePolarity(ctx context.Context, id int64, polarity int8) error {
	return r.db.WithContext(ctx).Model(&model.VideoLike{}).Where("id = ?", id).
		Updates(map[string]interface{}{"polarity": polarity, "updated_at": time.Now()}).Error
}

func (r *engagementRepoImpl) DeleteLike(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.VideoLike{}).Error
}

// FindSubscription 查询订阅关系，不存在时返回 nil, nil
func (r *engagementRepoImpl) FindSubscription(ctx context.Context, subscriberID, targetID int64) (*model.Subscription, error) {
	var sub model.Subscription
	err := r.db.WithContext(ctx).
		Where("subscriber_id = ? AND subscribed_to_id = ?", subscriberID, targetID).
		First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

func (r *engagementRepoImpl) CreateSubscription(ctx context.Context, sub *model.Subscription) error {
	return r.db.WithContext(ctx).Create(sub).Error
}

func (r *engagementRepoImpl) DeleteSubscription(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Subscription{}).Error
}

func (r *engagementRepoImpl) CreateView(ctx context.Context, view *model.View) error {
	return r.db.WithContext(ctx).Create(view).Error
}

func (r *engagementRepoImpl) CountViews(ctx context.Context, videoID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.View{}).Where("video_id = ?", videoID).Count(&count).Error
	return count, err
}

func (r *engagementRepoImpl) CountLikes(ctx context.Context, videoID int64, polarity int8) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.VideoLike{}).
		Where("video_id = ? AND polarity = ?", videoID, polarity).Count(&count).Error
	return count, err
}

func (r *engagementRepoImpl) CountComments(ctx context.Context, videoID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Comment{}).Where("video_id = ?", videoID).Count(&count).Error
	return count, err
}

func (r *engagementRepoImpl) CountSubscribers(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Subscription{}).
		Where("subscribed_to_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *engagementRepoImpl) HasViewed(ctx context.Context, userID, videoID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.View{}).
		Where("user_id = ? AND video_id = ?", userID, videoID).Limit(1).Count(&count).Error
	return count > 0, err
}

func (r *engagementRepoImpl) IsSubscribed(ctx context.Context, subscriberID, targetID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Subscription{}).
		Where("subscriber_id = ? AND subscribed_to_id = ?", subscriberID, targetID).Count(&count).Error
	return count > 0, err
}

// LikedVideoIDs 用户点赞（不含点踩）的视频 ID，最近点赞在前
func (r *engagementRepoImpl) LikedVideoIDs(ctx context.Context, userID int64, skip, limit int) ([]int64, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.VideoLike{}).
		Where("user_id = ? AND polarity = ?", userID, model.PolarityLike)

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ids []int64
	err := query.Session(&gorm.Session{}).Order("updated_at DESC").Order("id DESC").
		Offset(skip).Limit(limit).Pluck("video_id", &ids).Error
	if err != nil {
		return nil, 0, err
	}
	return ids, total, nil
}

type viewedVideo struct {
	VideoID    int64
	LastViewed time.Time
}

// ViewedVideoIDs 观看历史，同一视频只出现一次，按最近一次观看时间倒序
func (r *engagementRepoImpl) ViewedVideoIDs(ctx context.Context, userID int64, skip, limit int) ([]int64, int64, error) {
	base := r.db.WithContext(ctx).Model(&model.View{}).Where("user_id = ?", userID)

	var total int64
	if err := base.Session(&gorm.Session{}).Distinct("video_id").Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []viewedVideo
	err := base.Session(&gorm.Session{}).
		Select("video_id, MAX(created_at) AS last_viewed").
		Group("video_id").
		Order("last_viewed DESC").
		Offset(skip).Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	ids := make([]int64, len(rows))
	for i, row := range rows {
		ids[i] = row.VideoID
	}
	return ids, total, nil
}

// SubscribedToIDs 用户订阅的频道 ID 列表
func (r *engagementRepoImpl) SubscribedToIDs(ctx context.Context, subscriberID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).Model(&model.Subscription{}).
		Where("subscriber_id = ?", subscriberID).Pluck("subscribed_to_id", &ids).Error
	return ids, err
}
