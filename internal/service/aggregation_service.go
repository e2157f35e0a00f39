package service

import (
	"context"
	"sort"

	"vidhub/internal/api/dto"
	"vidhub/internal/identity"
	"vidhub/internal/model"
	"vidhub/internal/repository"

	"golang.org/x/sync/errgroup"
)

// SortMode 视频列表排序方式
type SortMode string

const (
	// SortRecent 按创建时间倒序
	SortRecent SortMode = "recent"
	// SortTrending 按播放量倒序，播放量相同按创建时间倒序
	SortTrending SortMode = "trending"
	// SortPreserve 保持输入顺序（搜索相关度、点赞时间、观看时间）
	SortPreserve SortMode = "preserve"
)

// AggregationService 从关系表实时汇总视频和频道的计数及请求者相关状态
type AggregationService struct {
	relations   repository.EngagementRepo
	videos      repository.VideoRepo
	concurrency int
}

func NewAggregationService(relations repository.EngagementRepo, videos repository.VideoRepo, concurrency int) *AggregationService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &AggregationService{relations: relations, videos: videos, concurrency: concurrency}
}

// ComposeVideo 汇总单个视频；匿名访客的 is_* 字段全部为 false
func (s *AggregationService) ComposeVideo(ctx context.Context, video *model.Video, viewer identity.Viewer) (*dto.VideoDetail, error) {
	d := toVideoDetail(video)

	var err error
	if d.Views, err = s.relations.CountViews(ctx, video.ID); err != nil {
		return nil, err
	}
	if d.Likes, err = s.relations.CountLikes(ctx, video.ID, model.PolarityLike); err != nil {
		return nil, err
	}
	if d.Dislikes, err = s.relations.CountLikes(ctx, video.ID, model.PolarityDislike); err != nil {
		return nil, err
	}
	if d.CommentsLength, err = s.relations.CountComments(ctx, video.ID); err != nil {
		return nil, err
	}
	if d.SubscribersCount, err = s.relations.CountSubscribers(ctx, video.AuthorID); err != nil {
		return nil, err
	}

	userID, ok := viewer.UserID()
	if !ok {
		return d, nil
	}

	d.IsMine = userID == video.AuthorID

	like, err := s.relations.FindLike(ctx, userID, video.ID)
	if err != nil {
		return nil, err
	}
	if like != nil {
		d.IsLiked = like.Polarity == model.PolarityLike
		d.IsDisliked = like.Polarity == model.PolarityDislike
	}

	if d.IsViewed, err = s.relations.HasViewed(ctx, userID, video.ID); err != nil {
		return nil, err
	}
	if !d.IsMine {
		if d.IsSubscribed, err = s.relations.IsSubscribed(ctx, userID, video.AuthorID); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// ComposeVideoList 并发汇总视频列表后按 mode 排序
func (s *AggregationService) ComposeVideoList(ctx context.Context, videos []model.Video, viewer identity.Viewer, mode SortMode) ([]dto.VideoDetail, error) {
	out := make([]dto.VideoDetail, len(videos))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i := range videos {
		g.Go(func() error {
			d, err := s.ComposeVideo(gctx, &videos[i], viewer)
			if err != nil {
				return err
			}
			out[i] = *d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	SortVideos(out, mode)
	return out, nil
}

// SortVideos 原地排序，ID 倒序作为最后的稳定次序
func SortVideos(videos []dto.VideoDetail, mode SortMode) {
	newer := func(a, b dto.VideoDetail) bool {
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	}

	switch mode {
	case SortTrending:
		sort.SliceStable(videos, func(i, j int) bool {
			if videos[i].Views != videos[j].Views {
				return videos[i].Views > videos[j].Views
			}
			return newer(videos[i], videos[j])
		})
	case SortRecent:
		sort.SliceStable(videos, func(i, j int) bool {
			return newer(videos[i], videos[j])
		})
	}
}

// ComposeChannel 汇总频道信息
func (s *AggregationService) ComposeChannel(ctx context.Context, user *model.User, viewer identity.Viewer) (*dto.ChannelInfo, error) {
	info := &dto.ChannelInfo{
		ID:       user.ID,
		Username: user.Username,
		Avatar:   user.Avatar,
		IsMe:     viewer.Is(user.ID),
	}

	var err error
	if info.SubscribersCount, err = s.relations.CountSubscribers(ctx, user.ID); err != nil {
		return nil, err
	}
	if info.VideosCount, err = s.videos.CountByAuthor(ctx, user.ID); err != nil {
		return nil, err
	}
	if userID, ok := viewer.UserID(); ok && !info.IsMe {
		if info.IsSubscribed, err = s.relations.IsSubscribed(ctx, userID, user.ID); err != nil {
			return nil, err
		}
	}
	return info, nil
}

// ComposeChannelList 并发汇总频道列表，保持输入顺序
func (s *AggregationService) ComposeChannelList(ctx context.Context, users []model.User, viewer identity.Viewer) ([]dto.ChannelInfo, error) {
	out := make([]dto.ChannelInfo, len(users))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i := range users {
		g.Go(func() error {
			info, err := s.ComposeChannel(gctx, &users[i], viewer)
			if err != nil {
				return err
			}
			out[i] = *info
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// LikeState 点赞操作后返回给客户端的最新状态
func (s *AggregationService) LikeState(ctx context.Context, videoID int64, after int8) (*dto.LikeStateData, error) {
	likes, err := s.relations.CountLikes(ctx, videoID, model.PolarityLike)
	if err != nil {
		return nil, err
	}
	dislikes, err := s.relations.CountLikes(ctx, videoID, model.PolarityDislike)
	if err != nil {
		return nil, err
	}
	return &dto.LikeStateData{
		VideoID:    videoID,
		IsLiked:    after == model.PolarityLike,
		IsDisliked: after == model.PolarityDislike,
		Likes:      likes,
		Dislikes:   dislikes,
	}, nil
}

// SubscriptionState 订阅切换后返回给客户端的最新状态
func (s *AggregationService) SubscriptionState(ctx context.Context, targetID int64, subscribed bool) (*dto.SubscriptionStateData, error) {
	count, err := s.relations.CountSubscribers(ctx, targetID)
	if err != nil {
		return nil, err
	}
	return &dto.SubscriptionStateData{UserID: targetID, IsSubscribed: subscribed, SubscribersCount: count}, nil
}

func toVideoDetail(v *model.Video) *dto.VideoDetail {
	d := &dto.VideoDetail{
		ID:          v.ID,
		Title:       v.Title,
		Description: v.Description,
		URL:         v.URL,
		Thumbnail:   v.Thumbnail,
		CreatedAt:   v.CreatedAt,
	}
	if v.Author.ID != 0 {
		d.Author = &dto.AuthorBrief{ID: v.Author.ID, Username: v.Author.Username, Avatar: v.Author.Avatar}
	}
	return d
}
