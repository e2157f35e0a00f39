package response

import (
	"net/http"

	"vidhub/pkg/errno"

	"github.com/gin-gonic/gin"
)

// Response 统一成功响应，message 仅供展示
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorInfo 错误详情
type ErrorInfo struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

// ErrorResponse 统一错误响应
type ErrorResponse struct {
	Error ErrorInfo `json:"error"`
}

func OK(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func Fail(c *gin.Context, statusCode int, errType string, message string) {
	c.JSON(statusCode, ErrorResponse{
		Error: ErrorInfo{
			Code:    statusCode,
			Message: message,
			Type:    errType,
		},
	})
}

func BadRequest(c *gin.Context, message string) {
	Fail(c, http.StatusBadRequest, "BadRequest", message)
}

func Unauthorized(c *gin.Context, message string) {
	Fail(c, http.StatusUnauthorized, "Unauthorized", message)
}

func Forbidden(c *gin.Context, message string) {
	Fail(c, http.StatusForbidden, "Forbidden", message)
}

func NotFound(c *gin.Context, message string) {
	Fail(c, http.StatusNotFound, "NotFound", message)
}

func Conflict(c *gin.Context, message string) {
	Fail(c, http.StatusConflict, "Conflict", message)
}

func InternalError(c *gin.Context, message string) {
	Fail(c, http.StatusInternalServerError, "InternalServerError", message)
}

// Error 按 errno 类别输出业务错误，调用方需先确认 errno.IsKnown(err)
func Error(c *gin.Context, err error) {
	switch errno.HTTPStatus(err) {
	case http.StatusBadRequest:
		BadRequest(c, err.Error())
	case http.StatusUnauthorized:
		Unauthorized(c, err.Error())
	case http.StatusForbidden:
		Forbidden(c, err.Error())
	case http.StatusNotFound:
		NotFound(c, err.Error())
	case http.StatusConflict:
		Conflict(c, err.Error())
	default:
		InternalError(c, "操作失败，请稍后重试")
	}
}
