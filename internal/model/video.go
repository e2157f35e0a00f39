package model

import "time"

// Video 视频模型，只保存元数据，互动计数全部由关系表实时汇总
type Video struct {
	ID          int64     `gorm:"primaryKey;autoIncrement;comment:视频标识" json:"id"`
	AuthorID    int64     `gorm:"not null;index:idx_videos_author_id;comment:视频作者ID" json:"author_id"`
	Title       string    `gorm:"size:200;not null;comment:视频标题" json:"title"`
	Description string    `gorm:"type:text;comment:视频描述" json:"description"`
	URL         string    `gorm:"size:500;not null;comment:视频播放地址" json:"url"`
	Thumbnail   string    `gorm:"size:500;comment:视频封面地址" json:"thumbnail"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index:idx_videos_created_at;comment:创建时间" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime;comment:更新时间" json:"updated_at"`

	Author User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

func (Video) TableName() string {
	return "videos"
}
