package timeout

import (
	"time"

	"github.com/pingcap/errors"
)

// Handle 绑定到一个 key 的句柄, 提供不需要重复传入 key 的全部操作.
// Handle 不缓存任何状态, 绑定到同一个 key 的多个 Handle 看到的是同一个定时器.
type Handle struct {
	r   *Registry
	key string
}

// Instantiate 以新生成的 key 调度 fn 并返回绑定到该 key 的句柄
func (r *Registry) Instantiate(fn Callback, delay time.Duration, params ...any) *Handle {
	c := r.SetAnonymous(fn, delay, params...)
	return &Handle{r: r, key: c.Key()}
}

// InstantiateKey 在 key 下调度 fn 并返回绑定到该 key 的句柄
func (r *Registry) InstantiateKey(key string, fn Callback, delay time.Duration, params ...any) *Handle {
	r.Set(key, fn, delay, params...)
	return &Handle{r: r, key: key}
}

// Link 绑定到已经存在的 key, 不做任何调度; key 不存在时返回 ErrTimerNotFound
func (r *Registry) Link(key string) (*Handle, error) {
	if !r.Exists(key) {
		return nil, errors.Annotatef(ErrTimerNotFound, "link timer %q", key)
	}
	return &Handle{r: r, key: key}, nil
}

// Key 句柄绑定的 key
func (h *Handle) Key() string {
	return h.key
}

// Registry 句柄所属的注册表
func (h *Handle) Registry() *Registry {
	return h.r
}

// Set 在句柄的 key 下重新调度 fn
func (h *Handle) Set(fn Callback, delay time.Duration, params ...any) Checker {
	return h.r.Set(h.key, fn, delay, params...)
}

// Clear 取消调度并删除元数据
func (h *Handle) Clear() {
	h.r.Clear(h.key)
}

// Cancel 取消调度但保留元数据
func (h *Handle) Cancel() {
	h.r.Cancel(h.key)
}

func (h *Handle) Exists() bool {
	return h.r.Exists(h.key)
}

func (h *Handle) Pending() bool {
	return h.r.Pending(h.key)
}

func (h *Handle) Executed() bool {
	return h.r.Executed(h.key)
}

func (h *Handle) Paused() bool {
	return h.r.Paused(h.key)
}

func (h *Handle) Remaining() time.Duration {
	return h.r.Remaining(h.key)
}

func (h *Handle) Elapsed() time.Duration {
	return h.r.Elapsed(h.key)
}

func (h *Handle) LastExecuted() (time.Time, bool) {
	return h.r.LastExecuted(h.key)
}

func (h *Handle) Meta() (Snapshot, bool) {
	return h.r.Meta(h.key)
}

func (h *Handle) Pause() (time.Duration, bool) {
	return h.r.Pause(h.key)
}

func (h *Handle) Resume() (Checker, bool) {
	return h.r.Resume(h.key)
}

func (h *Handle) Restart(force bool) (Checker, bool) {
	return h.r.Restart(h.key, force)
}

func (h *Handle) Reset(delay time.Duration, params ...any) (Checker, bool) {
	return h.r.Reset(h.key, delay, params...)
}

func (h *Handle) ResetDelay(delay time.Duration) (Checker, bool) {
	return h.r.ResetDelay(h.key, delay)
}

func (h *Handle) Call() (any, bool) {
	return h.r.Call(h.key)
}
