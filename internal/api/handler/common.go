package handler

import (
	"math"
	"strconv"

	"vidhub/internal/api/response"
	"vidhub/internal/config"
	"vidhub/pkg/errno"
	"vidhub/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ConfigurePaging 使用配置中的分页大小，启动时调用一次
func ConfigurePaging(cfg *config.EngagementConfig) {
	if cfg.DefaultPageSize > 0 {
		defaultPageSize = cfg.DefaultPageSize
	}
	if cfg.MaxPageSize > 0 {
		maxPageSize = cfg.MaxPageSize
	}
}

// normalizePage 非法的页码或页大小回落到默认值；页码上限保证偏移量不溢出
func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > maxPageSize {
		pageSize = defaultPageSize
	}
	if limit := maxPage(); page > limit {
		page = limit
	}
	return page, pageSize
}

// maxPage 任意合法页大小下 (page-1)*pageSize 都不会溢出的最大页码
func maxPage() int {
	return math.MaxInt/maxPageSize + 1
}

func parsePagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("page_size"))
	return normalizePage(page, pageSize)
}

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// handleServiceError 业务错误按类别输出，其余记录日志后返回 500
func handleServiceError(c *gin.Context, op string, err error) {
	if errno.IsKnown(err) {
		response.Error(c, err)
		return
	}
	logger.Error(op+" failed", zap.Error(err), zap.String("path", c.Request.URL.Path))
	response.InternalError(c, "操作失败，请稍后重试")
}
