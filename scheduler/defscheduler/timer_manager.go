package defscheduler

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rommelsantor/Timeout/scheduler/schedulerapi"
)

// timerManager 定时器管理器
type timerManager struct {
	incrementCounter atomic.Int64     // timer ID 自增计数器
	timers           map[int64]*timer // 全部定时器, 只能在 scheduler 的协程中读写
	mu               sync.Mutex       // 读写 pendingTimers 的锁
	pendingTimers    []*timer         // 外部创建 timer 时, 先放到这里边, 等待被 stealTimers 偷走
}

// addTimer 可以在任意协程执行, 添加一个定时器到 pendingTimers 中
func (tm *timerManager) addTimer(t *timer) {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	tm.pendingTimers = append(tm.pendingTimers, t)
}

// 只能被 scheduler 协程执行, 把 pendingTimers 转移 timers 中
func (tm *timerManager) stealTimers() {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	for _, t := range tm.pendingTimers {
		tm.timers[t.id] = t
	}
	tm.pendingTimers = nil
}

// 只能被 scheduler 协程执行, 按到期时间顺序执行到期的定时器
func (tm *timerManager) cron(s *scheduler, now time.Time) {
	tm.stealTimers()

	if len(tm.timers) == 0 {
		return
	}

	ts := now.UnixNano()
	var dueTimers []*timer
	for id, t := range tm.timers {
		// 已取消的直接移除
		if t.Stopped() {
			delete(tm.timers, id)
			continue
		}
		if t.due(ts) {
			dueTimers = append(dueTimers, t)
			delete(tm.timers, id)
		}
	}

	// 同一个时间片内到期的, 先到期的先执行, 同时到期的按创建顺序执行
	sort.Slice(dueTimers, func(i, j int) bool {
		if dueTimers[i].when != dueTimers[j].when {
			return dueTimers[i].when < dueTimers[j].when
		}
		return dueTimers[i].id < dueTimers[j].id
	})
	for _, t := range dueTimers {
		t.exec(s)
	}
}

// 只能被 scheduler 协程执行, 清空 timers 和 pendingTimers
func (tm *timerManager) close() {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	for _, t := range tm.timers {
		t.Stop()
	}
	for _, t := range tm.pendingTimers {
		t.Stop()
	}
	tm.timers = make(map[int64]*timer)
	tm.pendingTimers = nil
}

// newAfterTimer 创建一个执行 1 次的定时器, 等待 duration 后执行 fn. 调用 Stop 方法可以取消定时器.
func (tm *timerManager) newAfterTimer(duration time.Duration, fn schedulerapi.TimerFunc) *timer {
	if fn == nil {
		panic("timeout/scheduler: nil timer function")
	}
	t := newAfterTimer(tm.incrementCounter.Add(1), time.Now(), duration, fn)
	tm.addTimer(t)
	return t
}
