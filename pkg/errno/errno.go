// Package errno 定义跨层共享的错误类别，业务错误通过 %w 包装其中之一
package errno

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidOperation = errors.New("invalid operation")
	ErrUnauthenticated  = errors.New("unauthenticated")
	ErrForbidden        = errors.New("forbidden")
	ErrConflict         = errors.New("conflict")
)

// kindError 带用户可读消息的业务错误，Is 匹配其所属类别
type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }

// New 创建属于 kind 类别的业务错误
func New(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

// Newf 同 New，支持格式化消息
func Newf(kind error, format string, args ...any) error {
	return &kindError{kind: kind, msg: fmt.Sprintf(format, args...)}
}

var statusMap = []struct {
	kind   error
	status int
}{
	{ErrNotFound, http.StatusNotFound},
	{ErrInvalidOperation, http.StatusBadRequest},
	{ErrUnauthenticated, http.StatusUnauthorized},
	{ErrForbidden, http.StatusForbidden},
	{ErrConflict, http.StatusConflict},
}

// HTTPStatus 返回错误对应的 HTTP 状态码，未知错误一律 500
func HTTPStatus(err error) int {
	for _, m := range statusMap {
		if errors.Is(err, m.kind) {
			return m.status
		}
	}
	return http.StatusInternalServerError
}

// IsKnown 判断 err 是否属于已定义的业务类别
func IsKnown(err error) bool {
	return HTTPStatus(err) != http.StatusInternalServerError
}
