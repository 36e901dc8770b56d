package upstream

import (
	"errors"
	"fmt"
)

// ErrorKind 上游调用失败的分类
type ErrorKind string

const (
	KindUnauthorized ErrorKind = "unauthorized" // 401，未登录或会话过期
	KindUnreachable  ErrorKind = "unreachable"  // 网络层失败，远端不可达
	KindNotFound     ErrorKind = "not_found"    // 404
	KindTransient    ErrorKind = "transient"    // 其余非 2xx
	KindDecode       ErrorKind = "decode"       // 响应体解析失败
)

// Error 上游调用错误
type Error struct {
	Kind    ErrorKind
	Status  int // HTTP 状态码，网络层失败时为 0
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Err == nil {
		return fmt.Sprintf("upstream %s: %s", e.Op, msg)
	}
	return fmt.Sprintf("upstream %s: %s: %v", e.Op, msg, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(op string, kind ErrorKind, status int, err error) *Error {
	return &Error{Kind: kind, Status: status, Op: op, Err: err}
}

func kindOf(err error) (ErrorKind, bool) {
	var ue *Error
	if errors.As(err, &ue) {
		return ue.Kind, true
	}
	return "", false
}

// IsUnauthorized 判断是否为未认证错误
func IsUnauthorized(err error) bool {
	kind, ok := kindOf(err)
	return ok && kind == KindUnauthorized
}

// IsUnreachable 判断是否为远端不可达错误
func IsUnreachable(err error) bool {
	kind, ok := kindOf(err)
	return ok && kind == KindUnreachable
}

// IsNotFound 判断是否为资源不存在错误
func IsNotFound(err error) bool {
	kind, ok := kindOf(err)
	return ok && kind == KindNotFound
}
