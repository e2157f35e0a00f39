package handler

import (
	"vidhub/internal/api/dto"
	"vidhub/internal/api/middleware"
	"vidhub/internal/api/response"
	"vidhub/internal/service"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	commentService *service.CommentService
}

func NewCommentHandler(commentService *service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// Create POST /api/v1/videos/:id/comments
func (h *CommentHandler) Create(c *gin.Context) {
	videoID, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "无效的视频ID")
		return
	}

	var req dto.CommentCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数无效: "+err.Error())
		return
	}

	info, err := h.commentService.Create(c.Request.Context(), middleware.CurrentViewer(c), videoID, &req)
	if err != nil {
		handleServiceError(c, "Create comment", err)
		return
	}
	response.Created(c, "发表评论成功", info)
}

// List GET /api/v1/videos/:id/comments
func (h *CommentHandler) List(c *gin.Context) {
	videoID, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "无效的视频ID")
		return
	}
	page, pageSize := parsePagination(c)

	data, err := h.commentService.ListByVideo(c.Request.Context(), middleware.CurrentViewer(c), videoID, page, pageSize)
	if err != nil {
		handleServiceError(c, "List comments", err)
		return
	}
	response.OK(c, "获取评论列表成功", data)
}

// Delete DELETE /api/v1/videos/:id/comments/:commentId
func (h *CommentHandler) Delete(c *gin.Context) {
	videoID, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "无效的视频ID")
		return
	}
	commentID, ok := parseIDParam(c, "commentId")
	if !ok {
		response.BadRequest(c, "无效的评论ID")
		return
	}

	if err := h.commentService.Delete(c.Request.Context(), middleware.CurrentViewer(c), videoID, commentID); err != nil {
		handleServiceError(c, "Delete comment", err)
		return
	}
	response.OK(c, "删除评论成功", nil)
}
