package service

import (
	"errors"

	"vidhub/pkg/errno"

	"gorm.io/gorm"
)

var (
	ErrVideoNotFound   = errno.New(errno.ErrNotFound, "视频不存在")
	ErrUserNotFound    = errno.New(errno.ErrNotFound, "用户不存在")
	ErrCommentNotFound = errno.New(errno.ErrNotFound, "评论不存在")

	ErrCannotSubscribeSelf = errno.New(errno.ErrInvalidOperation, "不能订阅自己")
	ErrInvalidPolarity     = errno.New(errno.ErrInvalidOperation, "无效的点赞类型")
	ErrEmptySearchTerm     = errno.New(errno.ErrInvalidOperation, "搜索关键词不能为空")
	ErrNoFieldsToUpdate    = errno.New(errno.ErrInvalidOperation, "没有需要更新的字段")
	ErrInvalidFileExt      = errno.New(errno.ErrInvalidOperation, "不支持的文件格式")

	ErrVideoNoPermission   = errno.New(errno.ErrForbidden, "没有权限操作该视频")
	ErrCommentNoPermission = errno.New(errno.ErrForbidden, "只能删除自己的评论")

	ErrConcurrentUpdate = errno.New(errno.ErrConflict, "操作过于频繁，请稍后重试")
)

// videoRowErr 写入子表时外键冲突，说明视频已被并发删除
func videoRowErr(err error) error {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return ErrVideoNotFound
	}
	return err
}
