package repository

import (
	"context"

	"vidhub/internal/model"

	"gorm.io/gorm"
)

type VideoRepo interface {
	GetByID(ctx context.Context, id int64) (*model.Video, error)
	GetByIDs(ctx context.Context, ids []int64) ([]model.Video, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Create(ctx context.Context, video *model.Video) error
	ListRecent(ctx context.Context, skip, limit int) ([]model.Video, int64, error)
	ListTrending(ctx context.Context, skip, limit int) ([]model.Video, int64, error)
	ListByAuthors(ctx context.Context, authorIDs []int64, skip, limit int) ([]model.Video, int64, error)
	CountByAuthor(ctx context.Context, authorID int64) (int64, error)
	Search(ctx context.Context, keyword string, skip, limit int) ([]model.Video, int64, error)
	DeleteCascade(ctx context.Context, id int64) error
}

// 按播放量倒序，播放记录实时计数
const orderByViews = "(SELECT COUNT(*) FROM views WHERE views.video_id = videos.id) DESC"

var orderByNewest = []string{"created_at DESC", "id DESC"}

type videoRepoImpl struct {
	db *gorm.DB
}

func NewVideoRepo(db *gorm.DB) VideoRepo {
	return &videoRepoImpl{db: db}
}

// GetByID 根据 ID 获取视频（含作者信息）
func (r *videoRepoImpl) GetByID(ctx context.Context, id int64) (*model.Video, error) {
	var video model.Video
	err := r.db.WithContext(ctx).Preload("Author").Where("id = ?", id).First(&video).Error
	if err != nil {
		return nil, err
	}
	return &video, nil
}

// GetByIDs 批量获取视频（含作者），按传入 ID 的顺序返回，不存在的 ID 被跳过
func (r *videoRepoImpl) GetByIDs(ctx context.Context, ids []int64) ([]model.Video, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var found []model.Video
	if err := r.db.WithContext(ctx).Preload("Author").Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, err
	}

	byID := make(map[int64]model.Video, len(found))
	for _, v := range found {
		byID[v.ID] = v
	}
	videos := make([]model.Video, 0, len(found))
	for _, id := range ids {
		if v, ok := byID[id]; ok {
			videos = append(videos, v)
		}
	}
	return videos, nil
}

func (r *videoRepoImpl) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Video{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *videoRepoImpl) Create(ctx context.Context, video *model.Video) error {
	return r.db.WithContext(ctx).Create(video).Error
}

// ListRecent 按创建时间倒序分页
func (r *videoRepoImpl) ListRecent(ctx context.Context, skip, limit int) ([]model.Video, int64, error) {
	return r.page(r.db.WithContext(ctx).Model(&model.Video{}), skip, limit, orderByNewest...)
}

// ListTrending 全部视频按播放量倒序分页，播放量相同的新视频在前
func (r *videoRepoImpl) ListTrending(ctx context.Context, skip, limit int) ([]model.Video, int64, error) {
	orders := append([]string{orderByViews}, orderByNewest...)
	return r.page(r.db.WithContext(ctx).Model(&model.Video{}), skip, limit, orders...)
}

// ListByAuthors 指定作者集合的视频，用于频道页和订阅流
func (r *videoRepoImpl) ListByAuthors(ctx context.Context, authorIDs []int64, skip, limit int) ([]model.Video, int64, error) {
	if len(authorIDs) == 0 {
		return nil, 0, nil
	}
	query := r.db.WithContext(ctx).Model(&model.Video{}).Where("author_id IN ?", authorIDs)
	return r.page(query, skip, limit, orderByNewest...)
}

func (r *videoRepoImpl) CountByAuthor(ctx context.Context, authorID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Video{}).Where("author_id = ?", authorID).Count(&count).Error
	return count, err
}

// Search 标题或描述模糊匹配，Elasticsearch 不可用时的兜底实现
func (r *videoRepoImpl) Search(ctx context.Context, keyword string, skip, limit int) ([]model.Video, int64, error) {
	like := "%" + keyword + "%"
	query := r.db.WithContext(ctx).Model(&model.Video{}).
		Where("title ILIKE ? OR description ILIKE ?", like, like)
	return r.page(query, skip, limit, orderByNewest...)
}

// page 计数与取数各自基于 query 的副本，互不影响
func (r *videoRepoImpl) page(query *gorm.DB, skip, limit int, orders ...string) ([]model.Video, int64, error) {
	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	find := query.Session(&gorm.Session{}).Preload("Author")
	for _, order := range orders {
		find = find.Order(order)
	}

	var videos []model.Video
	if err := find.Offset(skip).Limit(limit).Find(&videos).Error; err != nil {
		return nil, 0, err
	}
	return videos, total, nil
}

// DeleteCascade 在同一事务内先删除播放、点赞、评论，再删除视频本身
func (r *videoRepoImpl) DeleteCascade(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("video_id = ?", id).Delete(&model.View{}).Error; err != nil {
			return err
		}
		if err := tx.Where("video_id = ?", id).Delete(&model.VideoLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("video_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&model.Video{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
