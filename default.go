package timeout

import (
	"sync"
	"time"

	"github.com/rommelsantor/Timeout/scheduler"
	"github.com/rommelsantor/Timeout/scheduler/schedulerapi"
)

// 进程级的默认注册表
var (
	mu         sync.Mutex
	defaultReg *Registry
)

// Default 返回默认注册表, 第一次调用或默认调度器已关闭时在默认调度器上重新创建
func Default() *Registry {
	mu.Lock()
	defer mu.Unlock()

	if defaultReg == nil || defaultReg.opts.Scheduler.State() == schedulerapi.ExecutorStateClosed {
		defaultReg = New(WithName("default"), WithScheduler(scheduler.Default()))
	}
	return defaultReg
}

// Replace 替换默认注册表, 旧注册表中的定时器全部被取消
func Replace(r *Registry) {
	mu.Lock()
	defer mu.Unlock()

	if r == nil {
		return
	}
	if defaultReg != nil && defaultReg != r {
		defaultReg.Close()
	}
	defaultReg = r
}

// Set 在默认注册表上调用 Registry.Set
func Set(key string, fn Callback, delay time.Duration, params ...any) Checker {
	return Default().Set(key, fn, delay, params...)
}

// SetAnonymous 在默认注册表上调用 Registry.SetAnonymous
func SetAnonymous(fn Callback, delay time.Duration, params ...any) Checker {
	return Default().SetAnonymous(fn, delay, params...)
}

// Create 在默认注册表上调用 Registry.Create
func Create(key string, fn Callback, delay time.Duration, params ...any) (Checker, bool) {
	return Default().Create(key, fn, delay, params...)
}

func Clear(key string) {
	Default().Clear(key)
}

func Cancel(key string) {
	Default().Cancel(key)
}

// ClearPrefix 在默认注册表上调用 Registry.ClearPrefix
func ClearPrefix(prefix string) int {
	return Default().ClearPrefix(prefix)
}

func Exists(key string) bool {
	return Default().Exists(key)
}

func Pending(key string) bool {
	return Default().Pending(key)
}

func Executed(key string) bool {
	return Default().Executed(key)
}

func Paused(key string) bool {
	return Default().Paused(key)
}

func Remaining(key string) time.Duration {
	return Default().Remaining(key)
}

func Elapsed(key string) time.Duration {
	return Default().Elapsed(key)
}

func LastExecuted(key string) (time.Time, bool) {
	return Default().LastExecuted(key)
}

func Meta(key string) (Snapshot, bool) {
	return Default().Meta(key)
}

func Keys(prefix string) []string {
	return Default().Keys(prefix)
}

func Len() int {
	return Default().Len()
}

func Pause(key string) (time.Duration, bool) {
	return Default().Pause(key)
}

func Resume(key string) (Checker, bool) {
	return Default().Resume(key)
}

func Restart(key string, force bool) (Checker, bool) {
	return Default().Restart(key, force)
}

func Reset(key string, delay time.Duration, params ...any) (Checker, bool) {
	return Default().Reset(key, delay, params...)
}

func ResetDelay(key string, delay time.Duration) (Checker, bool) {
	return Default().ResetDelay(key, delay)
}

func Call(key string) (any, bool) {
	return Default().Call(key)
}

// Instantiate 在默认注册表上调用 Registry.Instantiate
func Instantiate(fn Callback, delay time.Duration, params ...any) *Handle {
	return Default().Instantiate(fn, delay, params...)
}

// InstantiateKey 在默认注册表上调用 Registry.InstantiateKey
func InstantiateKey(key string, fn Callback, delay time.Duration, params ...any) *Handle {
	return Default().InstantiateKey(key, fn, delay, params...)
}

// Link 在默认注册表上调用 Registry.Link
func Link(key string) (*Handle, error) {
	return Default().Link(key)
}
