package schedulerapi

import (
	"time"
)

// Task 定义一个任务类型
type Task func()

// ExecutorState 调度器状态常量
type ExecutorState = int32

const (
	// ExecutorStateCreated 执行器已创建, 但未启动
	ExecutorStateCreated ExecutorState = 0
	// ExecutorStateRunning 执行器正在运行
	ExecutorStateRunning ExecutorState = 1
	// ExecutorStateClosed 执行器已关闭
	ExecutorStateClosed ExecutorState = 2
)

// Executor 执行器接口
type Executor interface {
	// Start 启动执行器
	Start()

	// Close 关闭执行器, 停止所有任务
	Close()

	// State 返回执行器的当前状态
	State() ExecutorState

	// Execute 提交一个任务到执行器, 执行器已关闭时返回 false
	Execute(task Task) bool
}

// Scheduler 调度器接口, 即 "延迟执行 / 取消" 两个原语的提供者
type Scheduler interface {
	Executor

	// NewAfterTimer 创建一个执行 1 次的定时器, 等待 duration 后执行 fn. 调用 Stop 方法可以取消定时器.
	// duration <= 0 时在下一个时间片执行.
	NewAfterTimer(duration time.Duration, fn TimerFunc) Timer
}
