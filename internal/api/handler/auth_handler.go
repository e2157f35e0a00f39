package handler

import (
	"vidhub/internal/api/dto"
	"vidhub/internal/api/middleware"
	"vidhub/internal/api/response"
	"vidhub/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// GoogleLogin Google 登录
// @Summary Google 登录
// @Description 使用客户端 Google 登录得到的邮箱换取 JWT，首次登录自动建号
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body dto.GoogleLoginRequest true "登录信息"
// @Success 200 {object} response.Response{data=dto.TokenData} "登录成功"
// @Failure 400 {object} response.ErrorResponse "请求参数无效"
// @Router /auth/google-login [post]
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	var req dto.GoogleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数无效: "+err.Error())
		return
	}

	tokenData, err := h.authService.GoogleLogin(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, "Google login", err)
		return
	}

	response.OK(c, "登录成功", tokenData)
}

// Signout 注销当前令牌
// @Summary 退出登录
// @Tags 认证
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response "退出成功"
// @Failure 401 {object} response.ErrorResponse "未授权"
// @Router /auth/signout [post]
func (h *AuthHandler) Signout(c *gin.Context) {
	if err := h.authService.Signout(c.Request.Context(), middleware.CurrentSession(c)); err != nil {
		handleServiceError(c, "Signout", err)
		return
	}
	response.OK(c, "退出成功", nil)
}

// Me 获取当前用户信息
// @Summary 获取当前用户信息
// @Tags 认证
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=dto.UserInfo} "获取成功"
// @Failure 401 {object} response.ErrorResponse "未授权"
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userInfo, err := h.authService.Me(c.Request.Context(), middleware.CurrentViewer(c))
	if err != nil {
		handleServiceError(c, "Get current user", err)
		return
	}
	response.OK(c, "获取成功", userInfo)
}
