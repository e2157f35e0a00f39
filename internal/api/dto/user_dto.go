package dto

import "time"

// UserUpdateRequest 用户信息更新请求
type UserUpdateRequest struct {
	Username *string `json:"username" binding:"omitempty,min=1,max=255"`
	Avatar   *string `json:"avatar" binding:"omitempty,max=500"`
}

// UserInfo 用户信息，Email 只在本人查看时返回
type UserInfo struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	Avatar    *string   `json:"avatar"`
	CreatedAt time.Time `json:"created_at"`
}

// ChannelInfo 频道信息（推荐频道、用户搜索、频道页）
type ChannelInfo struct {
	ID               int64   `json:"id"`
	Username         string  `json:"username"`
	Avatar           *string `json:"avatar"`
	SubscribersCount int64   `json:"subscribers_count"`
	VideosCount      int64   `json:"videos_count"`
	IsSubscribed     bool    `json:"is_subscribed"`
	IsMe             bool    `json:"is_me"`
}

// ChannelListData 频道列表
type ChannelListData struct {
	Channels   []ChannelInfo `json:"channels"`
	Total      int64         `json:"total"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	TotalPages int64         `json:"total_pages"`
}

// ChannelProfile 频道主页
type ChannelProfile struct {
	Channel ChannelInfo   `json:"channel"`
	Videos  VideoListData `json:"videos"`
}
