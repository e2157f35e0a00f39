package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"vidhub/internal/api/dto"
	"vidhub/internal/event"
	"vidhub/internal/identity"
	"vidhub/internal/model"
	"vidhub/internal/repository"
	"vidhub/pkg/errno"
	"vidhub/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var uploadExts = map[string]map[string]bool{
	"video":     {"mp4": true, "webm": true, "mov": true, "mkv": true},
	"thumbnail": {"jpg": true, "jpeg": true, "png": true, "webp": true},
}

// UploadPresigner 为客户端直传生成上传地址
type UploadPresigner interface {
	PresignPut(ctx context.Context, objectName string) (uploadURL, publicURL string, expiry time.Duration, err error)
}

type VideoService struct {
	videos     repository.VideoRepo
	aggregator *AggregationService
	publisher  event.Publisher
	uploader   UploadPresigner
}

func NewVideoService(
	videos repository.VideoRepo,
	aggregator *AggregationService,
	publisher event.Publisher,
	uploader UploadPresigner,
) *VideoService {
	return &VideoService{
		videos:     videos,
		aggregator: aggregator,
		publisher:  orNop(publisher),
		uploader:   uploader,
	}
}

// Create 发布视频
func (s *VideoService) Create(ctx context.Context, viewer identity.Viewer, req *dto.VideoCreateRequest) (*dto.VideoDetail, error) {
	userID, ok := viewer.UserID()
	if !ok {
		return nil, identity.ErrLoginRequired
	}

	video := &model.Video{
		AuthorID:    userID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		URL:         req.URL,
		Thumbnail:   req.Thumbnail,
	}
	if err := s.videos.Create(ctx, video); err != nil {
		return nil, fmt.Errorf("create video: %w", err)
	}

	logger.Info("Video created", zap.Int64("video_id", video.ID), zap.Int64("author_id", userID))

	e := event.New(event.VideoCreated)
	e.UserID, e.VideoID = userID, video.ID
	publish(ctx, s.publisher, e)

	return s.GetDetail(ctx, viewer, video.ID)
}

// GetDetail 视频详情（含计数与请求者状态）
func (s *VideoService) GetDetail(ctx context.Context, viewer identity.Viewer, videoID int64) (*dto.VideoDetail, error) {
	video, err := s.videos.GetByID(ctx, videoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, err
	}
	return s.aggregator.ComposeVideo(ctx, video, viewer)
}

// Recommended 推荐视频：最新发布在前
func (s *VideoService) Recommended(ctx context.Context, viewer identity.Viewer, page, pageSize int) (*dto.VideoListData, error) {
	videos, total, err := s.videos.ListRecent(ctx, offset(page, pageSize), pageSize)
	if err != nil {
		return nil, err
	}
	details, err := s.aggregator.ComposeVideoList(ctx, videos, viewer, SortRecent)
	if err != nil {
		return nil, err
	}
	return buildVideoListData(details, total, page, pageSize), nil
}

// Trending 热门视频：全部视频按播放量排序，分页在存储层完成
func (s *VideoService) Trending(ctx context.Context, viewer identity.Viewer, page, pageSize int) (*dto.VideoListData, error) {
	videos, total, err := s.videos.ListTrending(ctx, offset(page, pageSize), pageSize)
	if err != nil {
		return nil, err
	}
	details, err := s.aggregator.ComposeVideoList(ctx, videos, viewer, SortTrending)
	if err != nil {
		return nil, err
	}
	return buildVideoListData(details, total, page, pageSize), nil
}

// Delete 删除视频，只有作者可以删除；播放、点赞、评论随之删除
func (s *VideoService) Delete(ctx context.Context, viewer identity.Viewer, videoID int64) error {
	video, err := s.videos.GetByID(ctx, videoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrVideoNotFound
		}
		return err
	}

	if err := identity.RequireOwner(viewer, video.AuthorID); err != nil {
		if errors.Is(err, errno.ErrForbidden) {
			return ErrVideoNoPermission
		}
		return err
	}

	if err := s.videos.DeleteCascade(ctx, videoID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrVideoNotFound
		}
		return fmt.Errorf("delete video %d: %w", videoID, err)
	}

	logger.Info("Video deleted", zap.Int64("video_id", videoID), zap.Int64("author_id", video.AuthorID))

	e := event.New(event.VideoDeleted)
	e.UserID, e.VideoID = video.AuthorID, videoID
	publish(ctx, s.publisher, e)
	return nil
}

// CreateUploadURL 生成视频或封面的预签名上传地址
func (s *VideoService) CreateUploadURL(ctx context.Context, viewer identity.Viewer, req *dto.UploadURLRequest) (*dto.UploadURLData, error) {
	userID, ok := viewer.UserID()
	if !ok {
		return nil, identity.ErrLoginRequired
	}

	ext := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(req.FileExt), "."))
	if !uploadExts[req.Kind][ext] {
		return nil, ErrInvalidFileExt
	}

	objectName := fmt.Sprintf("%ss/%d/%s.%s", req.Kind, userID, uuid.NewString(), ext)
	uploadURL, publicURL, expiry, err := s.uploader.PresignPut(ctx, objectName)
	if err != nil {
		return nil, err
	}

	return &dto.UploadURLData{
		UploadURL:  uploadURL,
		PublicURL:  publicURL,
		ObjectName: objectName,
		ExpiresIn:  int(expiry.Seconds()),
	}, nil
}
