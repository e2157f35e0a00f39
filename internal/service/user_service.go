package service

import (
	"context"
	"errors"
	"strings"

	"vidhub/internal/api/dto"
	"vidhub/internal/identity"
	"vidhub/internal/repository"

	"gorm.io/gorm"
)

type UserService struct {
	users               repository.UserRepo
	videos              repository.VideoRepo
	relations           repository.EngagementRepo
	aggregator          *AggregationService
	recommendedChannels int
}

func NewUserService(
	users repository.UserRepo,
	videos repository.VideoRepo,
	relations repository.EngagementRepo,
	aggregator *AggregationService,
	recommendedChannels int,
) *UserService {
	if recommendedChannels < 1 {
		recommendedChannels = 10
	}
	return &UserService{
		users:               users,
		videos:              videos,
		relations:           relations,
		aggregator:          aggregator,
		recommendedChannels: recommendedChannels,
	}
}

// GetChannel 频道主页：频道信息加该用户发布的视频
func (s *UserService) GetChannel(ctx context.Context, viewer identity.Viewer, userID int64, page, pageSize int) (*dto.ChannelProfile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	channel, err := s.aggregator.ComposeChannel(ctx, user, viewer)
	if err != nil {
		return nil, err
	}

	videos, total, err := s.videos.ListByAuthors(ctx, []int64{userID}, offset(page, pageSize), pageSize)
	if err != nil {
		return nil, err
	}
	details, err := s.aggregator.ComposeVideoList(ctx, videos, viewer, SortRecent)
	if err != nil {
		return nil, err
	}

	return &dto.ChannelProfile{
		Channel: *channel,
		Videos:  *buildVideoListData(details, total, page, pageSize),
	}, nil
}

// UpdateMe 修改自己的用户名或头像
func (s *UserService) UpdateMe(ctx context.Context, viewer identity.Viewer, req *dto.UserUpdateRequest) (*dto.UserInfo, error) {
	userID, ok := viewer.UserID()
	if !ok {
		return nil, identity.ErrLoginRequired
	}

	updates := map[string]interface{}{}
	if req.Username != nil && strings.TrimSpace(*req.Username) != "" {
		updates["username"] = strings.TrimSpace(*req.Username)
	}
	if req.Avatar != nil {
		updates["avatar"] = *req.Avatar
	}
	if len(updates) == 0 {
		return nil, ErrNoFieldsToUpdate
	}

	user, err := s.users.Update(ctx, userID, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return toUserInfo(user, true), nil
}

// RecommendedChannels 推荐频道：除自己外最新注册的若干用户
func (s *UserService) RecommendedChannels(ctx context.Context, viewer identity.Viewer) (*dto.ChannelListData, error) {
	me, _ := viewer.UserID()
	users, err := s.users.ListRecommended(ctx, me, s.recommendedChannels)
	if err != nil {
		return nil, err
	}
	channels, err := s.aggregator.ComposeChannelList(ctx, users, viewer)
	if err != nil {
		return nil, err
	}
	return buildChannelListData(channels, int64(len(channels)), 1, s.recommendedChannels), nil
}

// SearchUsers 按用户名搜索频道
func (s *UserService) SearchUsers(ctx context.Context, viewer identity.Viewer, query string, page, pageSize int) (*dto.ChannelListData, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptySearchTerm
	}

	users, total, err := s.users.SearchByUsername(ctx, query, offset(page, pageSize), pageSize)
	if err != nil {
		return nil, err
	}
	channels, err := s.aggregator.ComposeChannelList(ctx, users, viewer)
	if err != nil {
		return nil, err
	}
	return buildChannelListData(channels, total, page, pageSize), nil
}

// LikedVideos 我点赞过的视频，最近点赞在前
func (s *UserService) LikedVideos(ctx context.Context, viewer identity.Viewer, page, pageSize int) (*dto.VideoListData, error) {
	userID, ok := viewer.UserID()
	if !ok {
		return nil, identity.ErrLoginRequired
	}
	ids, total, err := s.relations.LikedVideoIDs(ctx, userID, offset(page, pageSize), pageSize)
	if err != nil {
		return nil, err
	}
	return s.composeByIDs(ctx, viewer, ids, total, page, pageSize)
}

// History 观看历史，最近观看在前，同一视频只出现一次
func (s *UserService) History(ctx context.Context, viewer identity.Viewer, page, pageSize int) (*dto.VideoListData, error) {
	userID, ok := viewer.UserID()
	if !ok {
		return nil, identity.ErrLoginRequired
	}
	ids, total, err := s.relations.ViewedVideoIDs(ctx, userID, offset(page, pageSize), pageSize)
	if err != nil {
		return nil, err
	}
	return s.composeByIDs(ctx, viewer, ids, total, page, pageSize)
}

// SubscriptionFeed 已订阅频道发布的视频，最新在前
func (s *UserService) SubscriptionFeed(ctx context.Context, viewer identity.Viewer, page, pageSize int) (*dto.VideoListData, error) {
	userID, ok := viewer.UserID()
	if !ok {
		return nil, identity.ErrLoginRequired
	}
	channelIDs, err := s.relations.SubscribedToIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	videos, total, err := s.videos.ListByAuthors(ctx, channelIDs, offset(page, pageSize), pageSize)
	if err != nil {
		return nil, err
	}
	details, err := s.aggregator.ComposeVideoList(ctx, videos, viewer, SortRecent)
	if err != nil {
		return nil, err
	}
	return buildVideoListData(details, total, page, pageSize), nil
}

func (s *UserService) composeByIDs(ctx context.Context, viewer identity.Viewer, ids []int64, total int64, page, pageSize int) (*dto.VideoListData, error) {
	videos, err := s.videos.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	details, err := s.aggregator.ComposeVideoList(ctx, videos, viewer, SortPreserve)
	if err != nil {
		return nil, err
	}
	return buildVideoListData(details, total, page, pageSize), nil
}
