// Package identity 解析请求者身份并做归属校验
package identity

import "vidhub/pkg/errno"

// Viewer 请求者身份：已登录用户或匿名访客
type Viewer struct {
	userID int64
}

// Anonymous 匿名访客
func Anonymous() Viewer {
	return Viewer{}
}

// Authenticated 已登录用户，userID 必须大于 0
func Authenticated(userID int64) Viewer {
	if userID <= 0 {
		return Viewer{}
	}
	return Viewer{userID: userID}
}

// UserID 返回用户 ID，匿名时 ok 为 false
func (v Viewer) UserID() (int64, bool) {
	return v.userID, v.userID > 0
}

func (v Viewer) IsAuthenticated() bool {
	return v.userID > 0
}

// Is 判断请求者是否就是 userID 对应的用户，匿名恒为 false
func (v Viewer) Is(userID int64) bool {
	return v.userID > 0 && v.userID == userID
}

var (
	ErrLoginRequired = errno.New(errno.ErrUnauthenticated, "请先登录")
	ErrNotOwner      = errno.New(errno.ErrForbidden, "无权操作他人的资源")
)

// RequireOwner 校验请求者是资源所有者
func RequireOwner(v Viewer, ownerID int64) error {
	if !v.IsAuthenticated() {
		return ErrLoginRequired
	}
	if !v.Is(ownerID) {
		return ErrNotOwner
	}
	return nil
}
