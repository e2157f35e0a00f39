package model

import "time"

// 点赞极性
const (
	PolarityLike    int8 = 1
	PolarityDislike int8 = -1
)

// VideoLike 点赞/点踩记录，每个 (用户, 视频) 最多一行
type VideoLike struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;comment:点赞记录ID" json:"id"`
	UserID    int64     `gorm:"not null;uniqueIndex:uq_video_likes_user_video;comment:用户ID" json:"user_id"`
	VideoID   int64     `gorm:"not null;uniqueIndex:uq_video_likes_user_video;index:idx_video_likes_video_polarity,priority:1;comment:视频ID" json:"video_id"`
	Polarity  int8      `gorm:"not null;check:chk_video_likes_polarity,polarity IN (1,-1);index:idx_video_likes_video_polarity,priority:2;comment:1 点赞 -1 点踩" json:"polarity"`
	CreatedAt time.Time `gorm:"autoCreateTime;comment:创建时间" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;comment:更新时间" json:"updated_at"`

	Video *Video `gorm:"foreignKey:VideoID;constraint:OnDelete:CASCADE" json:"-"`
}

func (VideoLike) TableName() string {
	return "video_likes"
}
