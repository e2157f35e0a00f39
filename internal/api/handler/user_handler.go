package handler

import (
	"vidhub/internal/api/dto"
	"vidhub/internal/api/middleware"
	"vidhub/internal/api/response"
	"vidhub/internal/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService       *service.UserService
	engagementService *service.EngagementService
	aggregator        *service.AggregationService
}

func NewUserHandler(
	userService *service.UserService,
	engagementService *service.EngagementService,
	aggregator *service.AggregationService,
) *UserHandler {
	return &UserHandler{
		userService:       userService,
		engagementService: engagementService,
		aggregator:        aggregator,
	}
}

// RecommendedChannels 推荐频道
// @Summary 推荐频道
// @Tags 用户
// @Produce json
// @Success 200 {object} response.Response{data=dto.ChannelListData} "获取成功"
// @Router /users [get]
func (h *UserHandler) RecommendedChannels(c *gin.Context) {
	data, err := h.userService.RecommendedChannels(c.Request.Context(), middleware.CurrentViewer(c))
	if err != nil {
		handleServiceError(c, "List recommended channels", err)
		return
	}
	response.OK(c, "获取推荐频道成功", data)
}

// GetChannel 频道主页
// @Summary 频道主页
// @Tags 用户
// @Produce json
// @Param id path int true "用户ID"
// @Success 200 {object} response.Response{data=dto.ChannelProfile} "获取成功"
// @Failure 404 {object} response.ErrorResponse "用户不存在"
// @Router /users/{id} [get]
func (h *UserHandler) GetChannel(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "无效的用户ID")
		return
	}
	page, pageSize := parsePagination(c)

	data, err := h.userService.GetChannel(c.Request.Context(), middleware.CurrentViewer(c), userID, page, pageSize)
	if err != nil {
		handleServiceError(c, "Get channel", err)
		return
	}
	response.OK(c, "获取频道信息成功", data)
}

// UpdateMe PUT /api/v1/users/me
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req dto.UserUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数无效: "+err.Error())
		return
	}

	info, err := h.userService.UpdateMe(c.Request.Context(), middleware.CurrentViewer(c), &req)
	if err != nil {
		handleServiceError(c, "Update user", err)
		return
	}
	response.OK(c, "更新成功", info)
}

// ToggleSubscribe 订阅或取消订阅
// @Summary 切换订阅
// @Tags 用户
// @Produce json
// @Security BearerAuth
// @Param id path int true "频道用户ID"
// @Success 200 {object} response.Response{data=dto.SubscriptionStateData} "操作成功"
// @Failure 400 {object} response.ErrorResponse "不能订阅自己"
// @Router /users/{id}/subscribe [post]
func (h *UserHandler) ToggleSubscribe(c *gin.Context) {
	targetID, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "无效的用户ID")
		return
	}

	ctx := c.Request.Context()
	subscribed, err := h.engagementService.ToggleSubscription(ctx, middleware.CurrentViewer(c), targetID)
	if err != nil {
		handleServiceError(c, "Toggle subscription", err)
		return
	}

	state, err := h.aggregator.SubscriptionState(ctx, targetID, subscribed)
	if err != nil {
		handleServiceError(c, "Load subscription state", err)
		return
	}

	msg := "已取消订阅"
	if subscribed {
		msg = "订阅成功"
	}
	response.OK(c, msg, state)
}

// LikedVideos GET /api/v1/users/liked-videos
func (h *UserHandler) LikedVideos(c *gin.Context) {
	page, pageSize := parsePagination(c)

	data, err := h.userService.LikedVideos(c.Request.Context(), middleware.CurrentViewer(c), page, pageSize)
	if err != nil {
		handleServiceError(c, "List liked videos", err)
		return
	}
	response.OK(c, "获取点赞视频成功", data)
}

// History GET /api/v1/users/history
func (h *UserHandler) History(c *gin.Context) {
	page, pageSize := parsePagination(c)

	data, err := h.userService.History(c.Request.Context(), middleware.CurrentViewer(c), page, pageSize)
	if err != nil {
		handleServiceError(c, "List history", err)
		return
	}
	response.OK(c, "获取观看历史成功", data)
}

// SubscriptionFeed GET /api/v1/users/subscriptions
func (h *UserHandler) SubscriptionFeed(c *gin.Context) {
	page, pageSize := parsePagination(c)

	data, err := h.userService.SubscriptionFeed(c.Request.Context(), middleware.CurrentViewer(c), page, pageSize)
	if err != nil {
		handleServiceError(c, "List subscription feed", err)
		return
	}
	response.OK(c, "获取订阅视频成功", data)
}
