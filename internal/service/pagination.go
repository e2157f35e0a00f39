package service

import (
	"math"

	"vidhub/internal/api/dto"
)

func totalPages(total int64, pageSize int) int64 {
	if pageSize <= 0 {
		return 0
	}
	return (total + int64(pageSize) - 1) / int64(pageSize)
}

// offset 页码过大导致溢出时返回 math.MaxInt，查询结果为空页
func offset(page, pageSize int) int {
	if page < 1 || pageSize < 1 {
		return 0
	}
	if page-1 > math.MaxInt/pageSize {
		return math.MaxInt
	}
	return (page - 1) * pageSize
}

func buildVideoListData(videos []dto.VideoDetail, total int64, page, pageSize int) *dto.VideoListData {
	if videos == nil {
		videos = []dto.VideoDetail{}
	}
	return &dto.VideoListData{
		Videos:     videos,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}
}

func buildChannelListData(channels []dto.ChannelInfo, total int64, page, pageSize int) *dto.ChannelListData {
	if channels == nil {
		channels = []dto.ChannelInfo{}
	}
	return &dto.ChannelListData{
		Channels:   channels,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}
}
