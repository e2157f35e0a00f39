package dto

// SearchRequest 搜索请求参数
type SearchRequest struct {
	Query    string `form:"query"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// VideoDocument 搜索索引中的视频文档
type VideoDocument struct {
	ID          int64  `json:"id"`
	AuthorID    int64  `json:"author_id"`
	AuthorName  string `json:"author_name"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Thumbnail   string `json:"thumbnail"`
	Views       int64  `json:"views"`
	Likes       int64  `json:"likes"`
	CreatedAt   int64  `json:"created_at"` // unix 秒
}
