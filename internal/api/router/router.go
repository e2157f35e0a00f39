package router

import (
	"vidhub/internal/api/handler"
	"vidhub/internal/api/middleware"

	"github.com/gin-gonic/gin"
)

// Handlers 路由需要的全部处理器
type Handlers struct {
	Auth    *handler.AuthHandler
	User    *handler.UserHandler
	Video   *handler.VideoHandler
	Comment *handler.CommentHandler
	Search  *handler.SearchHandler
}

// Setup 注册所有业务路由
//
// 公开接口使用可选认证：令牌有效时返回个性化状态，否则按匿名访客处理
func Setup(r *gin.Engine, h Handlers, resolver middleware.SessionResolver) {
	v1 := r.Group("/api/v1")
	optional := middleware.AuthOptional(resolver)
	required := middleware.AuthRequired(resolver)

	// --- 认证模块 ---
	auth := v1.Group("/auth")
	{
		auth.POST("/google-login", h.Auth.GoogleLogin)
		auth.GET("/me", required, h.Auth.Me)
		auth.POST("/signout", required, h.Auth.Signout)
	}

	// --- 视频模块 ---
	videos := v1.Group("/videos")
	{
		videos.GET("", optional, h.Video.List)
		videos.GET("/trending", optional, h.Video.Trending)
		videos.GET("/search", optional, h.Search.SearchVideos)
		videos.GET("/:id", optional, h.Video.Get)
		videos.POST("/:id/view", optional, h.Video.View)
		videos.GET("/:id/comments", optional, h.Comment.List)

		videosAuth := videos.Group("", required)
		{
			videosAuth.POST("", h.Video.Create)
			videosAuth.POST("/upload-url", h.Video.UploadURL)
			videosAuth.DELETE("/:id", h.Video.Delete)
			videosAuth.POST("/:id/like", h.Video.Like)
			videosAuth.POST("/:id/dislike", h.Video.Dislike)
			videosAuth.POST("/:id/comments", h.Comment.Create)
			videosAuth.DELETE("/:id/comments/:commentId", h.Comment.Delete)
		}
	}

	// --- 用户与频道模块 ---
	users := v1.Group("/users")
	{
		users.GET("", optional, h.User.RecommendedChannels)
		users.GET("/search", optional, h.Search.SearchUsers)
		users.GET("/:id", optional, h.User.GetChannel)

		usersAuth := users.Group("", required)
		{
			usersAuth.PUT("/me", h.User.UpdateMe)
			usersAuth.GET("/liked-videos", h.User.LikedVideos)
			usersAuth.GET("/history", h.User.History)
			usersAuth.GET("/subscriptions", h.User.SubscriptionFeed)
			usersAuth.POST("/:id/subscribe", h.User.ToggleSubscribe)
		}
	}
}
