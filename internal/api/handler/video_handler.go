package handler

import (
	"vidhub/internal/api/dto"
	"vidhub/internal/api/middleware"
	"vidhub/internal/api/response"
	"vidhub/internal/engagement"
	"vidhub/internal/service"

	"github.com/gin-gonic/gin"
)

type VideoHandler struct {
	videoService      *service.VideoService
	engagementService *service.EngagementService
	aggregator        *service.AggregationService
}

func NewVideoHandler(
	videoService *service.VideoService,
	engagementService *service.EngagementService,
	aggregator *service.AggregationService,
) *VideoHandler {
	return &VideoHandler{
		videoService:      videoService,
		engagementService: engagementService,
		aggregator:        aggregator,
	}
}

// List 推荐视频
// @Summary 推荐视频
// @Description 最新发布的视频，附带计数和当前用户的互动状态
// @Tags 视频
// @Produce json
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} response.Response{data=dto.VideoListData} "获取成功"
// @Router /videos [get]
func (h *VideoHandler) List(c *gin.Context) {
	page, pageSize := parsePagination(c)

	data, err := h.videoService.Recommended(c.Request.Context(), middleware.CurrentViewer(c), page, pageSize)
	if err != nil {
		handleServiceError(c, "List videos", err)
		return
	}
	response.OK(c, "获取视频列表成功", data)
}

// Trending 热门视频
// @Summary 热门视频
// @Description 按播放量倒序
// @Tags 视频
// @Produce json
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} response.Response{data=dto.VideoListData} "获取成功"
// @Router /videos/trending [get]
func (h *VideoHandler) Trending(c *gin.Context) {
	page, pageSize := parsePagination(c)

	data, err := h.videoService.Trending(c.Request.Context(), middleware.CurrentViewer(c), page, pageSize)
	if err != nil {
		handleServiceError(c, "List trending videos", err)
		return
	}
	response.OK(c, "获取热门视频成功", data)
}

// Get 视频详情
// @Summary 视频详情
// @Tags 视频
// @Produce json
// @Param id path int true "视频ID"
// @Success 200 {object} response.Response{data=dto.VideoDetail} "获取成功"
// @Failure 404 {object} response.ErrorResponse "视频不存在"
// @Router /videos/{id} [get]
func (h *VideoHandler) Get(c *gin.Context) {
	videoID, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "无效的视频ID")
		return
	}

	info, err := h.videoService.GetDetail(c.Request.Context(), middleware.CurrentViewer(c), videoID)
	if err != nil {
		handleServiceError(c, "Get video", err)
		return
	}
	response.OK(c, "获取视频详情成功", info)
}

// Create 发布视频
// @Summary 发布视频
// @Description 视频文件和封面需先通过 upload-url 直传到对象存储
// @Tags 视频
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.VideoCreateRequest true "视频信息"
// @Success 201 {object} response.Response{data=dto.VideoDetail} "发布成功"
// @Failure 400 {object} response.ErrorResponse "请求参数无效"
// @Router /videos [post]
func (h *VideoHandler) Create(c *gin.Context) {
	var req dto.VideoCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数无效: "+err.Error())
		return
	}

	info, err := h.videoService.Create(c.Request.Context(), middleware.CurrentViewer(c), &req)
	if err != nil {
		handleServiceError(c, "Create video", err)
		return
	}
	response.Created(c, "发布视频成功", info)
}

// UploadURL 获取预签名上传地址
// @Summary 获取上传地址
// @Tags 视频
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UploadURLRequest true "文件类型"
// @Success 200 {object} response.Response{data=dto.UploadURLData} "获取成功"
// @Router /videos/upload-url [post]
func (h *VideoHandler) UploadURL(c *gin.Context) {
	var req dto.UploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数无效: "+err.Error())
		return
	}

	data, err := h.videoService.CreateUploadURL(c.Request.Context(), middleware.CurrentViewer(c), &req)
	if err != nil {
		handleServiceError(c, "Create upload url", err)
		return
	}
	response.OK(c, "获取上传地址成功", data)
}

// Delete 删除视频
// @Summary 删除视频
// @Tags 视频
// @Produce json
// @Security BearerAuth
// @Param id path int true "视频ID"
// @Success 200 {object} response.Response "删除成功"
// @Failure 403 {object} response.ErrorResponse "无权限"
// @Router /videos/{id} [delete]
func (h *VideoHandler) Delete(c *gin.Context) {
	videoID, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "无效的视频ID")
		return
	}

	if err := h.videoService.Delete(c.Request.Context(), middleware.CurrentViewer(c), videoID); err != nil {
		handleServiceError(c, "Delete video", err)
		return
	}
	response.OK(c, "删除视频成功", nil)
}

// View POST /api/v1/videos/:id/view
func (h *VideoHandler) View(c *gin.Context) {
	videoID, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "无效的视频ID")
		return
	}

	if err := h.engagementService.RecordView(c.Request.Context(), middleware.CurrentViewer(c), videoID); err != nil {
		handleServiceError(c, "Record view", err)
		return
	}
	response.OK(c, "已记录播放", nil)
}

// Like POST /api/v1/videos/:id/like
func (h *VideoHandler) Like(c *gin.Context) {
	h.setPolarity(c, engagement.Like)
}

// Dislike POST /api/v1/videos/:id/dislike
func (h *VideoHandler) Dislike(c *gin.Context) {
	h.setPolarity(c, engagement.Dislike)
}

func (h *VideoHandler) setPolarity(c *gin.Context, polarity engagement.Polarity) {
	videoID, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "无效的视频ID")
		return
	}

	ctx := c.Request.Context()
	after, err := h.engagementService.SetLikePolarity(ctx, middleware.CurrentViewer(c), videoID, polarity)
	if err != nil {
		handleServiceError(c, "Set like polarity", err)
		return
	}

	state, err := h.aggregator.LikeState(ctx, videoID, int8(after))
	if err != nil {
		handleServiceError(c, "Load like state", err)
		return
	}
	response.OK(c, "操作成功", state)
}
