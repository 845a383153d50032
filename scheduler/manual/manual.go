// Package manual 提供一个由调用方推进虚拟时间的调度器, 同时也是时钟.
// 所有定时器回调都在调用 Advance 的协程中同步执行, 用于测试和模拟.
package manual

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/emirpasic/gods/trees/redblacktree"
	"github.com/rommelsantor/Timeout/internal/log"
	"github.com/rommelsantor/Timeout/scheduler/schedulerapi"
	"github.com/timandy/routine"
)

// 编译期检查
var (
	_ schedulerapi.Scheduler = (*Scheduler)(nil)
	_ schedulerapi.Clock     = (*Scheduler)(nil)
)

// timerKey 定时器在红黑树中的排序键, 先按到期时间再按创建顺序
type timerKey struct {
	when int64
	id   int64
}

func compareKey(a, b any) int {
	ka, kb := a.(timerKey), b.(timerKey)
	switch {
	case ka.when < kb.when:
		return -1
	case ka.when > kb.when:
		return 1
	case ka.id < kb.id:
		return -1
	case ka.id > kb.id:
		return 1
	default:
		return 0
	}
}

// Scheduler 手动调度器
type Scheduler struct {
	mu     sync.Mutex
	now    time.Time
	seq    int64
	timers *redblacktree.Tree
	state  atomic.Int32
}

// New 构造函数, 虚拟时间从 start 开始
func New(start time.Time) *Scheduler {
	return &Scheduler{
		now:    start,
		timers: redblacktree.NewWith(compareKey),
	}
}

// Now 返回当前虚拟时间
func (s *Scheduler) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// Start 启动调度器
func (s *Scheduler) Start() {
	s.state.CompareAndSwap(schedulerapi.ExecutorStateCreated, schedulerapi.ExecutorStateRunning)
}

// Close 关闭调度器, 取消所有定时器
func (s *Scheduler) Close() {
	if s.state.Swap(schedulerapi.ExecutorStateClosed) == schedulerapi.ExecutorStateClosed {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range s.timers.Values() {
		v.(*timer).closed.Store(true)
	}
	s.timers.Clear()
}

// State 返回调度器的当前状态
func (s *Scheduler) State() schedulerapi.ExecutorState {
	return s.state.Load()
}

// Execute 在当前协程同步执行任务
func (s *Scheduler) Execute(task schedulerapi.Task) bool {
	if s.State() == schedulerapi.ExecutorStateClosed {
		return false
	}
	if task != nil {
		task()
	}
	return true
}

// NewAfterTimer 创建一个在虚拟时间 duration 后执行的定时器
func (s *Scheduler) NewAfterTimer(duration time.Duration, fn schedulerapi.TimerFunc) schedulerapi.Timer {
	if fn == nil {
		panic("timeout/scheduler: nil timer function")
	}
	if duration < 0 {
		duration = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	t := &timer{
		s:   s,
		key: timerKey{when: s.now.Add(duration).UnixNano(), id: s.seq},
		fn:  fn,
	}
	if s.State() == schedulerapi.ExecutorStateClosed {
		t.closed.Store(true)
		return t
	}
	s.timers.Put(t.key, t)
	return t
}

// Pending 返回尚未执行的定时器数量
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timers.Size()
}

// Advance 把虚拟时间推进 d, 按到期顺序执行期间到期的定时器.
// 回调中新建的到期定时器 (包括 0 延迟的) 也会在本次调用中执行.
func (s *Scheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now.Add(d)
	s.mu.Unlock()

	for {
		t := s.popDue(target)
		if t == nil {
			return
		}
		t.exec()
	}
}

// Flush 执行所有当前时刻已到期的定时器, 不推进时间
func (s *Scheduler) Flush() {
	s.Advance(0)
}

// popDue 取出最早到期且不晚于 target 的定时器, 并把时间推进到它的到期时间; 没有时把时间推进到 target
func (s *Scheduler) popDue(target time.Time) *timer {
	s.mu.Lock()
	defer s.mu.Unlock()

	node := s.timers.Left()
	if node == nil || node.Key.(timerKey).when > target.UnixNano() {
		if target.After(s.now) {
			s.now = target
		}
		return nil
	}
	t := node.Value.(*timer)
	s.timers.Remove(node.Key)
	// 以 s.now 为基准推进, 保留起始时间的 Location
	if d := time.Duration(t.key.when - s.now.UnixNano()); d > 0 {
		s.now = s.now.Add(d)
	}
	return t
}

// timer 手动调度器的定时器
type timer struct {
	s      *Scheduler
	key    timerKey
	fn     schedulerapi.TimerFunc
	closed atomic.Bool
}

// ID 返回当前定时器的 ID
func (t *timer) ID() int64 {
	return t.key.id
}

// Stop 取消定时器并立即从调度器中移除
func (t *timer) Stop() {
	if !t.closed.CompareAndSwap(false, true) {
		return
	}
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	t.s.timers.Remove(t.key)
}

// Stopped 检查定时器是否已停止
func (t *timer) Stopped() bool {
	return t.closed.Load()
}

// exec 执行定时器任务, 捕获 panic
func (t *timer) exec() {
	if !t.closed.CompareAndSwap(false, true) {
		return
	}
	defer func() {
		if err := recover(); err != nil {
			log.Error("Timeout manual scheduler execute timer-%v error.", t.key.id, routine.NewRuntimeError(err))
		}
	}()
	t.fn()
}
