package handler

import (
	"vidhub/internal/api/dto"
	"vidhub/internal/api/middleware"
	"vidhub/internal/api/response"
	"vidhub/internal/service"

	"github.com/gin-gonic/gin"
)

type SearchHandler struct {
	searchService *service.SearchService
	userService   *service.UserService
}

func NewSearchHandler(searchService *service.SearchService, userService *service.UserService) *SearchHandler {
	return &SearchHandler{searchService: searchService, userService: userService}
}

// SearchVideos 搜索视频
// @Summary 搜索视频
// @Description 按标题和描述搜索，索引不可用时退回数据库模糊匹配
// @Tags 搜索
// @Produce json
// @Param query query string true "搜索关键词"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} response.Response{data=dto.VideoListData} "搜索成功"
// @Failure 400 {object} response.ErrorResponse "关键词为空"
// @Router /videos/search [get]
func (h *SearchHandler) SearchVideos(c *gin.Context) {
	var req dto.SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "请求参数无效: "+err.Error())
		return
	}
	req.Page, req.PageSize = normalizePage(req.Page, req.PageSize)

	data, err := h.searchService.SearchVideos(c.Request.Context(), middleware.CurrentViewer(c), req.Query, req.Page, req.PageSize)
	if err != nil {
		handleServiceError(c, "Search videos", err)
		return
	}
	response.OK(c, "搜索成功", data)
}

// SearchUsers 搜索频道
// @Summary 搜索频道
// @Tags 搜索
// @Produce json
// @Param query query string true "用户名关键词"
// @Success 200 {object} response.Response{data=dto.ChannelListData} "搜索成功"
// @Router /users/search [get]
func (h *SearchHandler) SearchUsers(c *gin.Context) {
	var req dto.SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "请求参数无效: "+err.Error())
		return
	}
	req.Page, req.PageSize = normalizePage(req.Page, req.PageSize)

	data, err := h.userService.SearchUsers(c.Request.Context(), middleware.CurrentViewer(c), req.Query, req.Page, req.PageSize)
	if err != nil {
		handleServiceError(c, "Search users", err)
		return
	}
	response.OK(c, "搜索成功", data)
}
