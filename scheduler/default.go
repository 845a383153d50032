package scheduler

import (
	"sync"
	"time"

	"github.com/rommelsantor/Timeout/internal/env"
	"github.com/rommelsantor/Timeout/scheduler/defscheduler"
	"github.com/rommelsantor/Timeout/scheduler/schedulerapi"
	"github.com/rommelsantor/Timeout/scheduler/twscheduler"
)

// 默认的全局调度器
var (
	mu            sync.Mutex             //锁
	defaultSched  schedulerapi.Scheduler //默认调度器
	schedulerName = "default"            //默认调度器名称
)

// New 按精度创建一个未启动的调度器: 精度不低于 10ms 时使用时间轮, 否则使用逐个扫描的默认调度器
func New(name string, precision time.Duration) schedulerapi.Scheduler {
	if precision >= 10*time.Millisecond {
		return twscheduler.NewScheduler(name, precision, env.WheelSlots)
	}
	return defscheduler.NewScheduler(name, precision)
}

// Default 返回默认调度器, 第一次调用时按 env.TimerPrecision 创建并启动
func Default() schedulerapi.Scheduler {
	mu.Lock()
	defer mu.Unlock()

	if defaultSched == nil || defaultSched.State() == schedulerapi.ExecutorStateClosed {
		defaultSched = New(schedulerName, env.TimerPrecision)
		defaultSched.Start()
	}
	return defaultSched
}

// Replace 替换默认的调度器, 旧的调度器会被关闭
func Replace(s schedulerapi.Scheduler) {
	mu.Lock()
	defer mu.Unlock()

	if s == nil {
		return
	}
	if defaultSched != nil && defaultSched != s {
		defaultSched.Close()
	}
	s.Start()
	defaultSched = s
}

// Close 关闭默认调度器, 停止所有定时器和任务
func Close() {
	mu.Lock()
	defer mu.Unlock()

	if defaultSched != nil {
		defaultSched.Close()
		defaultSched = nil
	}
}

// Execute 提交一个任务到默认调度器
func Execute(task schedulerapi.Task) bool {
	return Default().Execute(task)
}

// NewAfterTimer 在默认调度器上创建一个执行 1 次的定时器
func NewAfterTimer(duration time.Duration, fn schedulerapi.TimerFunc) schedulerapi.Timer {
	return Default().NewAfterTimer(duration, fn)
}
