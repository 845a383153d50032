// Copyright (c) nano Authors. All Rights Reserved.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package timeout

import (
	"sync"
	"time"

	"github.com/rommelsantor/Timeout/internal/env"
	"github.com/rommelsantor/Timeout/internal/log"
	"github.com/rommelsantor/Timeout/keygen"
	"github.com/rommelsantor/Timeout/scheduler"
	"github.com/rommelsantor/Timeout/scheduler/schedulerapi"
)

// OriginalDelay 传给 Reset / ResetDelay 表示沿用第一次创建时的延迟
const OriginalDelay time.Duration = -1

// Registry 以 key 标识的一次性定时器注册表, 支持暂停, 恢复, 重启和重置.
// Registry 可以被多个协程并发使用, 回调和观察者总是在锁之外执行.
type Registry struct {
	opts          Options
	ownsScheduler bool // 调度器由注册表创建, Close 时一并关闭

	mu    sync.Mutex
	store *entryStore
	gen   uint64
}

// New 构造注册表
func New(opts ...Option) *Registry {
	r := &Registry{
		opts:  Options{Name: "timeout"},
		store: newEntryStore(),
	}
	for _, opt := range opts {
		opt(&r.opts)
	}
	if r.opts.Scheduler == nil {
		r.opts.Scheduler = scheduler.New(r.opts.Name, env.TimerPrecision)
		r.opts.Scheduler.Start()
		r.ownsScheduler = true
	}
	if r.opts.Clock == nil {
		if clock, ok := r.opts.Scheduler.(schedulerapi.Clock); ok {
			r.opts.Clock = clock
		} else {
			r.opts.Clock = schedulerapi.SystemClock
		}
	}
	if r.opts.KeyGenerator == nil {
		r.opts.KeyGenerator = keygen.DefaultSnowflake()
	}
	return r
}

// Name 注册表名称
func (r *Registry) Name() string {
	return r.opts.Name
}

func (r *Registry) now() time.Time {
	return r.opts.Clock.Now()
}

//==== 调度

// Set 在 key 下调度 fn, 延迟 delay 后以 params 调用; 同一 key 下已有的定时器会先被取消并替换,
// 原始延迟也随之变为 delay
func (r *Registry) Set(key string, fn Callback, delay time.Duration, params ...any) Checker {
	checkArgs("set", key, fn)

	r.mu.Lock()
	c, ev := r.setLocked(key, fn, delay, max(delay, 0), params)
	r.mu.Unlock()

	r.notify(ev)
	return c
}

// SetAnonymous 以新生成的 key 调度 fn, 通过返回的 Checker 取得 key
func (r *Registry) SetAnonymous(fn Callback, delay time.Duration, params ...any) Checker {
	if fn == nil {
		panic(&ArgumentError{Op: "set", Err: ErrNilCallback})
	}
	return r.Set(r.opts.KeyGenerator.NextKey(), fn, delay, params...)
}

// Create 与 Set 相同, 但 key 已存在时不做任何改变并返回 false
func (r *Registry) Create(key string, fn Callback, delay time.Duration, params ...any) (Checker, bool) {
	checkArgs("create", key, fn)

	r.mu.Lock()
	if r.store.get(key) != nil {
		r.mu.Unlock()
		return Checker{}, false
	}
	c, ev := r.setLocked(key, fn, delay, max(delay, 0), params)
	r.mu.Unlock()

	r.notify(ev)
	return c, true
}

// setLocked 开始 key 的新一轮调度, 替换 key 下已有的定时器, 调用方必须持有 r.mu.
// original 为新 entry 的原始延迟: Set / Create 传入 delay, Resume / Restart / Reset 传入旧 entry 的原始延迟.
func (r *Registry) setLocked(key string, fn Callback, delay, original time.Duration, params []any) (Checker, Event) {
	if delay < 0 {
		delay = 0
	}
	if prev := r.store.get(key); prev != nil {
		prev.cancel()
	}

	r.gen++
	gen := r.gen
	e := &entry{
		key:           key,
		callback:      fn,
		params:        append([]any(nil), params...),
		delay:         delay,
		originalDelay: original,
		createdAt:     r.now(),
		gen:           gen,
	}
	e.handle = r.opts.Scheduler.NewAfterTimer(delay, func() {
		r.fire(key, gen)
	})
	r.store.put(e)
	return Checker{r: r, key: key}, r.newEvent(EventScheduled, e, e.createdAt)
}

// fire 调度器到期时的跳板: 先记录执行时间再调用回调, 已取消或被替换的调度直接丢弃
func (r *Registry) fire(key string, gen uint64) {
	r.mu.Lock()
	e := r.store.get(key)
	if e == nil || e.gen != gen || e.handle == nil {
		r.mu.Unlock()
		return
	}
	now := r.now()
	e.executedAt = now
	e.handle = nil
	fn, params := e.callback, e.params
	ev := r.newEvent(EventFired, e, now)
	r.mu.Unlock()

	r.notify(ev)
	r.invoke(key, fn, params)
}

// invoke 执行回调, 回调中的 panic 被记录后继续向上抛给调度器
func (r *Registry) invoke(key string, fn Callback, params []any) any {
	defer func() {
		if err := recover(); err != nil {
			log.Error("Timeout registry [%v] callback of timer %q panic: %v", r.opts.Name, key, err)
			panic(err)
		}
	}()
	return fn(params...)
}

//==== 取消

// Clear 取消 key 的调度并删除元数据, key 不存在时什么也不做
func (r *Registry) Clear(key string) {
	r.mu.Lock()
	e := r.store.get(key)
	if e == nil {
		r.mu.Unlock()
		return
	}
	e.cancel()
	r.store.delete(key)
	ev := r.newEvent(EventCleared, e, r.now())
	r.mu.Unlock()

	r.notify(ev)
}

// Cancel 取消 key 的调度但保留元数据, 之后仍可以 Restart 或 Reset
func (r *Registry) Cancel(key string) {
	r.mu.Lock()
	e := r.store.get(key)
	if e == nil || e.handle == nil {
		r.mu.Unlock()
		return
	}
	e.cancel()
	ev := r.newEvent(EventCancelled, e, r.now())
	r.mu.Unlock()

	r.notify(ev)
}

// ClearPrefix 清除全部以 prefix 开头的 key, 返回清除的数量
func (r *Registry) ClearPrefix(prefix string) int {
	r.mu.Lock()
	var removed []*entry
	r.store.walk(prefix, func(e *entry) {
		removed = append(removed, e)
	})
	now := r.now()
	events := make([]Event, 0, len(removed))
	for _, e := range removed {
		e.cancel()
		r.store.delete(e.key)
		events = append(events, r.newEvent(EventCleared, e, now))
	}
	r.mu.Unlock()

	r.notify(events...)
	return len(removed)
}

//==== 查询

func (r *Registry) lookup(key string, fn func(e *entry)) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	e := r.store.get(key)
	if e == nil {
		return false
	}
	if fn != nil {
		fn(e)
	}
	return true
}

// Exists key 是否有元数据, 与是否等待, 暂停或已执行无关
func (r *Registry) Exists(key string) bool {
	return r.lookup(key, nil)
}

// Executed key 的回调是否已经由调度器触发
func (r *Registry) Executed(key string) bool {
	var executed bool
	r.lookup(key, func(e *entry) {
		executed = e.executed()
	})
	return executed
}

// Pending key 存在且尚未执行
func (r *Registry) Pending(key string) bool {
	var pending bool
	r.lookup(key, func(e *entry) {
		pending = !e.executed()
	})
	return pending
}

// Paused key 存在, 尚未执行且处于暂停状态
func (r *Registry) Paused(key string) bool {
	var paused bool
	r.lookup(key, func(e *entry) {
		paused = !e.executed() && e.paused
	})
	return paused
}

// Remaining 距离触发的剩余时间, 暂停时为暂停那一刻的剩余时间, key 不存在时为 0
func (r *Registry) Remaining(key string) time.Duration {
	var d time.Duration
	r.lookup(key, func(e *entry) {
		d = e.remaining(r.now())
	})
	return d
}

// Elapsed 距离本轮调度开始的时间, 与是否暂停无关, key 不存在时为 0
func (r *Registry) Elapsed(key string) time.Duration {
	var d time.Duration
	r.lookup(key, func(e *entry) {
		d = e.elapsed(r.now())
	})
	return d
}

// LastExecuted 回调最近一次被调度器触发的时间
func (r *Registry) LastExecuted(key string) (time.Time, bool) {
	var at time.Time
	r.lookup(key, func(e *entry) {
		at = e.executedAt
	})
	return at, !at.IsZero()
}

// Meta 返回 key 的元数据副本
func (r *Registry) Meta(key string) (Snapshot, bool) {
	var s Snapshot
	ok := r.lookup(key, func(e *entry) {
		s = e.snapshot()
	})
	return s, ok
}

// Keys 按字典序返回以 prefix 开头的全部 key, prefix 为空时返回全部
func (r *Registry) Keys(prefix string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	keys := make([]string, 0)
	r.store.walk(prefix, func(e *entry) {
		keys = append(keys, e.key)
	})
	return keys
}

// Len 注册表中 key 的数量
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.len()
}

//==== 状态转换

// Pause 暂停等待中的定时器, 返回已经等待的时间; key 不存在, 已暂停或已执行时返回 false
func (r *Registry) Pause(key string) (time.Duration, bool) {
	r.mu.Lock()
	e := r.store.get(key)
	if e == nil || e.paused || e.executed() {
		r.mu.Unlock()
		return 0, false
	}
	now := r.now()
	e.cancel()
	e.paused = true
	e.timeSpentWaiting = now.Sub(e.createdAt)
	waited := e.timeSpentWaiting
	ev := r.newEvent(EventPaused, e, now)
	r.mu.Unlock()

	r.notify(ev)
	return waited, true
}

// Resume 以剩余时间重新调度暂停的定时器, 原始延迟保持不变; key 不存在, 未暂停或已执行时返回 false
func (r *Registry) Resume(key string) (Checker, bool) {
	r.mu.Lock()
	e := r.store.get(key)
	if e == nil || !e.paused || e.executed() {
		r.mu.Unlock()
		return Checker{}, false
	}
	now := r.now()
	resumed := r.newEvent(EventResumed, e, now)
	c, ev := r.setLocked(key, e.callback, e.delay-e.timeSpentWaiting, e.originalDelay, e.params)
	r.mu.Unlock()

	r.notify(resumed, ev)
	return c, true
}

// Restart 以原始延迟重新调度, 丢弃已经等待的时间; 已执行的定时器只有 force 为 true 时才会重新调度
func (r *Registry) Restart(key string, force bool) (Checker, bool) {
	r.mu.Lock()
	e := r.store.get(key)
	if e == nil || (e.executed() && !force) {
		r.mu.Unlock()
		return Checker{}, false
	}
	c, ev := r.setLocked(key, e.callback, e.originalDelay, e.originalDelay, e.params)
	r.mu.Unlock()

	r.notify(ev)
	return c, true
}

// Reset 以新的延迟和参数重新调度, 回调和原始延迟不变; params 为空时清空参数.
// delay 为 OriginalDelay (或任意负数) 时使用原始延迟.
func (r *Registry) Reset(key string, delay time.Duration, params ...any) (Checker, bool) {
	return r.reset(key, delay, params, true)
}

// ResetDelay 以新的延迟重新调度, 保留原来的参数
func (r *Registry) ResetDelay(key string, delay time.Duration) (Checker, bool) {
	return r.reset(key, delay, nil, false)
}

func (r *Registry) reset(key string, delay time.Duration, params []any, replaceParams bool) (Checker, bool) {
	r.mu.Lock()
	e := r.store.get(key)
	if e == nil {
		r.mu.Unlock()
		return Checker{}, false
	}
	if delay < 0 {
		delay = e.originalDelay
	}
	if !replaceParams {
		params = e.params
	}
	c, ev := r.setLocked(key, e.callback, delay, e.originalDelay, params)
	r.mu.Unlock()

	r.notify(ev)
	return c, true
}

// Call 立即以保存的参数调用回调并返回其结果, 不取消调度也不标记为已执行; key 不存在时返回 false
func (r *Registry) Call(key string) (any, bool) {
	r.mu.Lock()
	e := r.store.get(key)
	if e == nil {
		r.mu.Unlock()
		return nil, false
	}
	fn, params := e.callback, e.params
	ev := r.newEvent(EventCalled, e, r.now())
	r.mu.Unlock()

	r.notify(ev)
	return r.invoke(key, fn, params), true
}

// Close 取消全部调度并删除全部元数据, 调度器由注册表创建时一并关闭
func (r *Registry) Close() {
	r.mu.Lock()
	r.store.walk("", func(e *entry) {
		e.cancel()
	})
	r.store.reset()
	r.mu.Unlock()

	if r.ownsScheduler {
		r.opts.Scheduler.Close()
	}
}
