package service

import (
	"context"
	"errors"
	"strings"

	"vidhub/internal/api/dto"
	"vidhub/internal/event"
	"vidhub/internal/identity"
	"vidhub/internal/model"
	"vidhub/internal/repository"
	"vidhub/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// VideoIndex 视频全文索引
type VideoIndex interface {
	Search(ctx context.Context, keyword string, from, size int) ([]int64, int64, error)
	Upsert(ctx context.Context, doc *dto.VideoDocument) error
	Delete(ctx context.Context, videoID int64) error
}

type SearchService struct {
	videos     repository.VideoRepo
	index      VideoIndex
	aggregator *AggregationService
}

// NewSearchService index 为 nil 时只走数据库模糊查询
func NewSearchService(videos repository.VideoRepo, index VideoIndex, aggregator *AggregationService) *SearchService {
	return &SearchService{videos: videos, index: index, aggregator: aggregator}
}

// SearchVideos 搜索视频（ES 优先，失败则降级到 DB）
func (s *SearchService) SearchVideos(ctx context.Context, viewer identity.Viewer, query string, page, pageSize int) (*dto.VideoListData, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptySearchTerm
	}

	if s.index != nil {
		data, err := s.searchFromIndex(ctx, viewer, query, page, pageSize)
		if err == nil {
			return data, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logger.Warn("ES search failed, fallback to DB", zap.String("query", query), zap.Error(err))
	}
	return s.searchFromDB(ctx, viewer, query, page, pageSize)
}

func (s *SearchService) searchFromIndex(ctx context.Context, viewer identity.Viewer, query string, page, pageSize int) (*dto.VideoListData, error) {
	ids, total, err := s.index.Search(ctx, query, offset(page, pageSize), pageSize)
	if err != nil {
		return nil, err
	}
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

func (s *SearchService) searchFromDB(ctx context.Context, viewer identity.Viewer, query string, page, pageSize int) (*dto.VideoListData, error) {
	videos, total, err := s.videos.Search(ctx, query, offset(page, pageSize), pageSize)
	if err != nil {
		return nil, err
	}
	details, err := s.aggregator.ComposeVideoList(ctx, videos, viewer, SortRecent)
	if err != nil {
		return nil, err
	}
	return buildVideoListData(details, total, page, pageSize), nil
}

// SyncVideo 用数据库中的最新状态刷新索引文档，视频已删除时移除文档
func (s *SearchService) SyncVideo(ctx context.Context, videoID int64) error {
	if s.index == nil {
		return nil
	}

	video, err := s.videos.GetByID(ctx, videoID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s.index.Delete(ctx, videoID)
	}
	if err != nil {
		return err
	}

	detail, err := s.aggregator.ComposeVideo(ctx, video, identity.Anonymous())
	if err != nil {
		return err
	}
	return s.index.Upsert(ctx, toVideoDocument(video, detail))
}

// HandleEvent worker 的事件入口
func (s *SearchService) HandleEvent(ctx context.Context, e *event.Event) error {
	switch {
	case e.Type == event.VideoDeleted:
		if s.index == nil {
			return nil
		}
		return s.index.Delete(ctx, e.VideoID)
	case e.AffectsVideoIndex():
		return s.SyncVideo(ctx, e.VideoID)
	default:
		return nil
	}
}

func toVideoDocument(v *model.Video, d *dto.VideoDetail) *dto.VideoDocument {
	return &dto.VideoDocument{
		ID:          v.ID,
		AuthorID:    v.AuthorID,
		AuthorName:  v.Author.Username,
		Title:       v.Title,
		Description: v.Description,
		Thumbnail:   v.Thumbnail,
		Views:       d.Views,
		Likes:       d.Likes,
		CreatedAt:   v.CreatedAt.Unix(),
	}
}
