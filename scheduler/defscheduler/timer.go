package defscheduler

import (
	"sync/atomic"
	"time"

	"github.com/rommelsantor/Timeout/scheduler/schedulerapi"
)

// timer 表示一个一次性定时任务
type timer struct {
	id     int64                  // 定时器 ID
	fn     schedulerapi.TimerFunc // 执行的函数
	when   int64                  // 绝对触发时间(ns)
	closed atomic.Bool            // 运行时变量, 已取消或已执行
}

// ID 返回当前定时器的 ID
func (t *timer) ID() int64 {
	return t.id
}

// Stop 取消定时器
func (t *timer) Stop() {
	t.closed.Store(true)
}

// Stopped 检查定时器是否已停止
func (t *timer) Stopped() bool {
	return t.closed.Load()
}

// due 是否到期
func (t *timer) due(ts int64) bool {
	return ts >= t.when
}

// exec 执行定时器任务, 每个定时器最多执行一次
func (t *timer) exec(s *scheduler) {
	if !t.closed.CompareAndSwap(false, true) {
		return
	}
	s.runTimerTask(t.id, t.fn)
}

// newAfterTimer 构造函数
func newAfterTimer(id int64, now time.Time, duration time.Duration, fn schedulerapi.TimerFunc) *timer {
	if duration < 0 {
		duration = 0
	}
	return &timer{
		id:   id,
		fn:   fn,
		when: now.Add(duration).UnixNano(),
	}
}
