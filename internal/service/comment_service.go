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
	"vidhub/pkg/errno"

	"gorm.io/gorm"
)

var ErrEmptyComment = errno.New(errno.ErrInvalidOperation, "评论内容不能为空")

type CommentService struct {
	comments  repository.CommentRepo
	videos    repository.VideoRepo
	publisher event.Publisher
}

func NewCommentService(comments repository.CommentRepo, videos repository.VideoRepo, publisher event.Publisher) *CommentService {
	return &CommentService{comments: comments, videos: videos, publisher: orNop(publisher)}
}

// Create 发表评论
func (s *CommentService) Create(ctx context.Context, viewer identity.Viewer, videoID int64, req *dto.CommentCreateRequest) (*dto.CommentInfo, error) {
	userID, ok := viewer.UserID()
	if !ok {
		return nil, identity.ErrLoginRequired
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, ErrEmptyComment
	}

	exists, err := s.videos.Exists(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrVideoNotFound
	}

	comment := &model.Comment{UserID: userID, VideoID: videoID, Text: text}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, videoRowErr(err)
	}

	e := event.New(event.VideoCommented)
	e.UserID, e.VideoID = userID, videoID
	publish(ctx, s.publisher, e)

	created, err := s.comments.GetByID(ctx, comment.ID)
	if err != nil {
		return nil, err
	}
	return toCommentInfo(created, viewer), nil
}

// Delete 删除评论，只有评论作者可以删除
func (s *CommentService) Delete(ctx context.Context, viewer identity.Viewer, videoID, commentID int64) error {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return err
	}
	if comment.VideoID != videoID {
		return ErrCommentNotFound
	}

	if err := identity.RequireOwner(viewer, comment.UserID); err != nil {
		if errors.Is(err, errno.ErrForbidden) {
			return ErrCommentNoPermission
		}
		return err
	}

	if err := s.comments.Delete(ctx, commentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return err
	}

	e := event.New(event.VideoCommented)
	e.UserID, e.VideoID = comment.UserID, videoID
	publish(ctx, s.publisher, e)
	return nil
}

// ListByVideo 视频评论列表
func (s *CommentService) ListByVideo(ctx context.Context, viewer identity.Viewer, videoID int64, page, pageSize int) (*dto.CommentListData, error) {
	exists, err := s.videos.Exists(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrVideoNotFound
	}

	comments, total, err := s.comments.ListByVideo(ctx, videoID, offset(page, pageSize), pageSize)
	if err != nil {
		return nil, err
	}

	items := make([]dto.CommentInfo, 0, len(comments))
	for i := range comments {
		items = append(items, *toCommentInfo(&comments[i], viewer))
	}
	return &dto.CommentListData{
		Comments:   items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}, nil
}

func toCommentInfo(c *model.Comment, viewer identity.Viewer) *dto.CommentInfo {
	info := &dto.CommentInfo{
		ID:        c.ID,
		VideoID:   c.VideoID,
		Text:      c.Text,
		CreatedAt: c.CreatedAt,
		IsMine:    viewer.Is(c.UserID),
	}
	if c.User.ID != 0 {
		info.User = &dto.AuthorBrief{ID: c.User.ID, Username: c.User.Username, Avatar: c.User.Avatar}
	}
	return info
}
