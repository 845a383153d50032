package timeout

import (
	"time"

	"github.com/rommelsantor/Timeout/internal/env"
	"github.com/rommelsantor/Timeout/internal/log"
	"github.com/rommelsantor/Timeout/keygen"
	"github.com/rommelsantor/Timeout/scheduler/schedulerapi"
)

// Options 注册表选项
type Options struct {
	Name         string                 // 注册表名称, 出现在日志和事件中
	Scheduler    schedulerapi.Scheduler // 延迟执行的调度器, 为空时注册表自己创建并在 Close 时关闭
	Clock        schedulerapi.Clock     // 时间源, 为空时优先使用实现了 Clock 的 Scheduler, 否则使用系统时钟
	KeyGenerator keygen.Generator       // 匿名定时器的 key 生成器, 默认雪花算法
	Observer     Observer               // 事件观察者
}

// Option 注册表选项函数
type Option func(*Options)

//==== 基本

// WithName 设置注册表名称
func WithName(name string) Option {
	return func(opt *Options) {
		opt.Name = name
	}
}

// WithDebugMode 启用调试, 打印每一次状态变化
func WithDebugMode() Option {
	return func(opt *Options) {
		env.Debug = true
	}
}

// WithLogger 设置日志
func WithLogger(logger log.Logger) Option {
	return func(opt *Options) {
		log.SetLogger(logger)
	}
}

//==== 调度

// WithScheduler 设置调度器, 注册表不会关闭外部传入的调度器
func WithScheduler(s schedulerapi.Scheduler) Option {
	return func(opt *Options) {
		opt.Scheduler = s
	}
}

// WithClock 设置时间源
func WithClock(clock schedulerapi.Clock) Option {
	return func(opt *Options) {
		opt.Clock = clock
	}
}

// WithTimerPrecision 注册表自建调度器的精度, 不能小于 1 毫秒
func WithTimerPrecision(precision time.Duration) Option {
	if precision < time.Millisecond {
		panic("time precision can not less than a Millisecond")
	}
	return func(opt *Options) {
		env.TimerPrecision = precision
	}
}

//==== 其他

// WithKeyGenerator 设置匿名定时器的 key 生成器
func WithKeyGenerator(g keygen.Generator) Option {
	return func(opt *Options) {
		opt.KeyGenerator = g
	}
}

// WithObserver 设置事件观察者
func WithObserver(observer Observer) Option {
	return func(opt *Options) {
		opt.Observer = observer
	}
}
