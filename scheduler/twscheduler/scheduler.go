package twscheduler

import (
	"sync/atomic"
	"time"

	"github.com/rommelsantor/Timeout/internal/env"
	"github.com/rommelsantor/Timeout/internal/log"
	"github.com/rommelsantor/Timeout/scheduler/schedulerapi"
	"github.com/timandy/routine"
)

// scheduler 时间轮调度器, 适合大量低精度定时器, 所有回调在同一个协程中执行
type scheduler struct {
	name    string                 // 调度器名称
	tick    time.Duration          // 槽位时间粒度
	state   atomic.Int32           // 调度器状态
	chDie   chan struct{}          // 关闭信号通道
	chDone  chan struct{}          // 主循环退出通道
	chTasks chan schedulerapi.Task // 任务队列
	goid    atomic.Uint64          // 主循环协程 ID
	tm      *timerManager          // 时间轮
}

// NewScheduler 构造一个新的时间轮调度器, slotNum 必须是 2 的幂. 需要调用 Start() 方法来启动调度器.
func NewScheduler(name string, tick time.Duration, slotNum int) schedulerapi.Scheduler {
	if tick <= 0 {
		panic("tick must > 0")
	}
	if slotNum <= 0 || slotNum&(slotNum-1) != 0 {
		panic("slotNum must be a power of 2")
	}
	return &scheduler{
		name:    name,
		tick:    tick,
		chDie:   make(chan struct{}),
		chDone:  make(chan struct{}),
		chTasks: make(chan schedulerapi.Task, 1<<8),
		tm:      newTimerManager(tick, slotNum),
	}
}

// runTask 执行一个任务, 捕获 panic
func (s *scheduler) runTask(task schedulerapi.Task) {
	if task == nil {
		return
	}
	defer func() {
		if err := recover(); err != nil {
			log.Error("Timeout wheel [%v] execute task error.", s.name, routine.NewRuntimeError(err))
		}
	}()
	task()
}

// runTimerTask 执行一个定时器任务, 捕获 panic
func (s *scheduler) runTimerTask(id int64, fn schedulerapi.TimerFunc) {
	defer func() {
		if err := recover(); err != nil {
			log.Error("Timeout wheel [%v] execute timer-%v error.", s.name, id, routine.NewRuntimeError(err))
		}
	}()
	fn()
}

// run 调度器的主循环
func (s *scheduler) run() {
	s.goid.Store(routine.Goid())
	if env.Debug {
		log.Debug("Timeout wheel [%v] starting, tick %v, slots %v.", s.name, s.tick, len(s.tm.slots))
	}

	ticker := time.NewTicker(s.tick)
	defer func() {
		ticker.Stop()
		s.tm.close()
		close(s.chDone)
		if env.Debug {
			log.Debug("Timeout wheel [%v] closed.", s.name)
		}
	}()

	for {
		select {
		case now := <-ticker.C:
			for _, t := range s.tm.advance(now.UnixNano()) {
				t.exec(s)
			}

		case task := <-s.chTasks:
			s.runTask(task)

		case <-s.chDie:
			return
		}
	}
}

// Start 启动调度器
func (s *scheduler) Start() {
	if !s.state.CompareAndSwap(schedulerapi.ExecutorStateCreated, schedulerapi.ExecutorStateRunning) {
		return
	}
	go s.run()
}

// Close 关闭调度器, 取消所有定时器, 等待主循环退出
func (s *scheduler) Close() {
	if !s.state.CompareAndSwap(schedulerapi.ExecutorStateRunning, schedulerapi.ExecutorStateClosed) {
		return
	}
	close(s.chDie)
	if routine.Goid() != s.goid.Load() {
		<-s.chDone
	}
}

// State 返回调度器的当前状态
func (s *scheduler) State() schedulerapi.ExecutorState {
	return s.state.Load()
}

// Execute 提交一个任务到调度器
func (s *scheduler) Execute(task schedulerapi.Task) bool {
	if s.state.Load() == schedulerapi.ExecutorStateClosed {
		return false
	}
	select {
	case s.chTasks <- task:
		return true
	case <-s.chDie:
		return false
	}
}

// NewAfterTimer 创建一个执行 1 次的定时器, 等待 duration 后执行 fn. 调用 Stop 方法可以取消定时器.
func (s *scheduler) NewAfterTimer(duration time.Duration, fn schedulerapi.TimerFunc) schedulerapi.Timer {
	return s.tm.newAfterTimer(time.Now(), duration, fn)
}
