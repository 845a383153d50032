package schedulerapi

import "time"

// TimerFunc 定时器执行函数类型
type TimerFunc func()

// Timer 表示一个一次性定时器的句柄
type Timer interface {
	// ID 返回当前定时器的 ID
	ID() int64

	// Stop 取消定时器, Stop 返回后 fn 不会再被调度器调用 (正在执行中的除外)
	Stop()

	// Stopped 检查定时器是否已停止 (已取消或已执行)
	Stopped() bool
}

// Clock 时间源
type Clock interface {
	Now() time.Time
}

// SystemClock 系统时钟
var SystemClock Clock = systemClock{}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}
