package dto

import "time"

// VideoCreateRequest 发布视频请求，URL 通常来自上传地址接口返回的 public_url
type VideoCreateRequest struct {
	Title       string `json:"title" binding:"required,min=1,max=200"`
	Description string `json:"description" binding:"omitempty,max=5000"`
	URL         string `json:"url" binding:"required,url,max=500"`
	Thumbnail   string `json:"thumbnail" binding:"omitempty,url,max=500"`
}

// UploadURLRequest 申请预签名上传地址
type UploadURLRequest struct {
	Kind    string `json:"kind" binding:"required,oneof=video thumbnail"`
	FileExt string `json:"file_ext" binding:"required,min=1,max=10"`
}

// UploadURLData 预签名上传地址
type UploadURLData struct {
	UploadURL  string `json:"upload_url"`
	PublicURL  string `json:"public_url"`
	ObjectName string `json:"object_name"`
	ExpiresIn  int    `json:"expires_in"` // 秒
}

// AuthorBrief 视频、评论中嵌套的用户简要信息
type AuthorBrief struct {
	ID       int64   `json:"id"`
	Username string  `json:"username"`
	Avatar   *string `json:"avatar"`
}

// VideoDetail 聚合后的视频：实时计数加上相对于请求者的状态
type VideoDetail struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	Thumbnail   string    `json:"thumbnail"`
	CreatedAt   time.Time `json:"created_at"`

	Author *AuthorBrief `json:"author,omitempty"`

	Views            int64 `json:"views"`
	Likes            int64 `json:"likes"`
	Dislikes         int64 `json:"dislikes"`
	CommentsLength   int64 `json:"comments_length"`
	SubscribersCount int64 `json:"subscribers_count"`

	IsLiked      bool `json:"is_liked"`
	IsDisliked   bool `json:"is_disliked"`
	IsSubscribed bool `json:"is_subscribed"`
	IsViewed     bool `json:"is_viewed"`
	IsMine       bool `json:"is_mine"`
}

// VideoListData 视频列表响应数据
type VideoListData struct {
	Videos     []VideoDetail `json:"videos"`
	Total      int64         `json:"total"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	TotalPages int64         `json:"total_pages"`
}
