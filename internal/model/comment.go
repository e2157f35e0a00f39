package model

import "time"

// Comment 评论模型
type Comment struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;comment:评论ID" json:"id"`
	UserID    int64     `gorm:"not null;index:idx_comments_user_id;comment:评论用户ID" json:"user_id"`
	VideoID   int64     `gorm:"not null;index:idx_comments_video_created,priority:1;comment:被评论视频ID" json:"video_id"`
	Text      string    `gorm:"type:text;not null;comment:评论内容" json:"text"`
	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_comments_video_created,priority:2;comment:评论时间" json:"created_at"`

	User  User   `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Video *Video `gorm:"foreignKey:VideoID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Comment) TableName() string {
	return "comments"
}
