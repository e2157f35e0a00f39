package dto

import "time"

// CommentCreateRequest 发表评论请求
type CommentCreateRequest struct {
	Text string `json:"text" binding:"required,min=1,max=1000"`
}

// CommentInfo 评论信息
type CommentInfo struct {
	ID        int64        `json:"id"`
	VideoID   int64        `json:"video_id"`
	Text      string       `json:"text"`
	CreatedAt time.Time    `json:"created_at"`
	User      *AuthorBrief `json:"user,omitempty"`
	IsMine    bool         `json:"is_mine"`
}

// CommentListData 评论列表数据
type CommentListData struct {
	Comments   []CommentInfo `json:"comments"`
	Total      int64         `json:"total"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	TotalPages int64         `json:"total_pages"`
}
