package model

import "time"

// User 用户模型，身份以邮箱为准
type User struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;comment:用户标识" json:"id"`
	Username  string    `gorm:"size:255;not null;index:idx_users_username;comment:用户名" json:"username"`
	Email     string    `gorm:"size:255;not null;uniqueIndex:uq_users_email;comment:邮箱" json:"email"`
	Avatar    *string   `gorm:"size:500;comment:用户头像" json:"avatar"`
	CreatedAt time.Time `gorm:"autoCreateTime;comment:注册时间" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;comment:更新时间" json:"updated_at"`

	Videos []Video `gorm:"foreignKey:AuthorID" json:"videos,omitempty"`
}

func (User) TableName() string {
	return "users"
}
