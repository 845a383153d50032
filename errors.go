package timeout

import (
	"github.com/pingcap/errors"
)

// Errors that could be occurred during timer handling.
var (
	ErrTimerNotFound = errors.New("timer not found")
	ErrNilCallback   = errors.New("nil timer callback")
	ErrEmptyKey      = errors.New("empty timer key")
)

// ArgumentError 调用方传入的参数无法构成一个定时器, 属于编程错误, 以 panic 的形式抛出
type ArgumentError struct {
	Op  string // 出错的操作
	Err error  // ErrNilCallback 或 ErrEmptyKey
}

func (e *ArgumentError) Error() string {
	return "timeout: " + e.Op + ": " + e.Err.Error()
}

// Cause 供 errors.Cause 取出原始错误
func (e *ArgumentError) Cause() error {
	return e.Err
}

// Unwrap 供 errors.Is 取出原始错误
func (e *ArgumentError) Unwrap() error {
	return e.Err
}

// checkArgs 校验 key 和回调, 不合法时 panic
func checkArgs(op string, key string, fn Callback) {
	if key == "" {
		panic(&ArgumentError{Op: op, Err: ErrEmptyKey})
	}
	if fn == nil {
		panic(&ArgumentError{Op: op, Err: ErrNilCallback})
	}
}
