package model

import "time"

// View 播放记录，只追加不修改；匿名播放时 UserID 为空
type View struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;comment:播放记录ID" json:"id"`
	VideoID   int64     `gorm:"not null;index:idx_views_video_id;comment:视频ID" json:"video_id"`
	UserID    *int64    `gorm:"index:idx_views_user_created,priority:1;comment:观看用户ID" json:"user_id"`
	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_views_user_created,priority:2;comment:观看时间" json:"created_at"`

	Video *Video `gorm:"foreignKey:VideoID;constraint:OnDelete:CASCADE" json:"-"`
}

func (View) TableName() string {
	return "views"
}
