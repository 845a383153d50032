package twscheduler

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rommelsantor/Timeout/scheduler/schedulerapi"
)

// timerManager 时间轮定时器管理器
type timerManager struct {
	incrementCounter atomic.Int64 // timer ID 自增计数器
	tick             int64        // 最小时间粒度(ns)
	slotMask         int64        // 槽位数量掩码, slotNum(2^n) - 1
	mu               sync.Mutex   // 保护 slots 和 current
	slots            []*slot      // 槽位数组
	current          int64        // 槽位指针
}

// newTimerManager 构造函数
func newTimerManager(tick time.Duration, slotNum int) *timerManager {
	slots := make([]*slot, slotNum)
	for i := range slots {
		slots[i] = &slot{}
	}
	return &timerManager{
		tick:     int64(tick),
		slotMask: int64(slotNum - 1),
		slots:    slots,
	}
}

// addTimer 根据剩余时间计算槽位, 调用方必须持有 mu
func (tm *timerManager) addTimer(t *timer, delay int64) {
	t.unlink()

	// 向上取整, 至少放到下一个槽位
	remain := (delay + tm.tick - 1) / tm.tick
	if remain <= 0 {
		remain = 1
	}
	if remain > tm.slotMask {
		remain = tm.slotMask + 1 // 超过一圈的, 每转一圈重新计算一次
	}

	idx := (tm.current + remain) & tm.slotMask
	tm.slots[idx].link(t)
}

// advance 推进指针, 返回按到期顺序排好的到期定时器; 未到期的重新挂到新的槽位
func (tm *timerManager) advance(ts int64) []*timer {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	tm.current = (tm.current + 1) & tm.slotMask
	slt := tm.slots[tm.current]

	var dueTimers []*timer
	var next *timer
	for t := slt.head; t != nil; t = next {
		// 提前保存 next, 防止 t 被 unlink 后 next 丢失
		next = t.next

		if t.Stopped() {
			t.unlink()
			continue
		}
		if ts >= t.when {
			t.unlink()
			dueTimers = append(dueTimers, t)
			continue
		}
		tm.addTimer(t, t.when-ts)
	}

	sort.Slice(dueTimers, func(i, j int) bool {
		if dueTimers[i].when != dueTimers[j].when {
			return dueTimers[i].when < dueTimers[j].when
		}
		return dueTimers[i].id < dueTimers[j].id
	})
	return dueTimers
}

// close 取消并清空所有槽位
func (tm *timerManager) close() {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	for i, slt := range tm.slots {
		for t := slt.head; t != nil; t = t.next {
			t.Stop()
		}
		tm.slots[i] = &slot{}
	}
}

// size 返回槽位上挂载的定时器数量, 包含已取消但尚未移除的
func (tm *timerManager) size() int {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	n := 0
	for _, slt := range tm.slots {
		n += slt.len()
	}
	return n
}

// newAfterTimer 创建一个执行 1 次的定时器, 等待 duration 后执行 fn. 调用 Stop 方法可以取消定时器.
func (tm *timerManager) newAfterTimer(now time.Time, duration time.Duration, fn schedulerapi.TimerFunc) *timer {
	if fn == nil {
		panic("timeout/scheduler: nil timer function")
	}
	if duration < 0 {
		duration = 0
	}
	t := &timer{
		id:   tm.incrementCounter.Add(1),
		fn:   fn,
		when: now.Add(duration).UnixNano(),
	}

	tm.mu.Lock()
	defer tm.mu.Unlock()
	tm.addTimer(t, int64(duration))
	return t
}
