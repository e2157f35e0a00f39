package dto

// LikeStateData 点赞/点踩之后的状态
type LikeStateData struct {
	VideoID    int64 `json:"video_id"`
	IsLiked    bool  `json:"is_liked"`
	IsDisliked bool  `json:"is_disliked"`
	Likes      int64 `json:"likes"`
	Dislikes   int64 `json:"dislikes"`
}

// SubscriptionStateData 订阅切换之后的状态
type SubscriptionStateData struct {
	UserID           int64 `json:"user_id"`
	IsSubscribed     bool  `json:"is_subscribed"`
	SubscribersCount int64 `json:"subscribers_count"`
}
