package timeout

import (
	"time"

	"github.com/pingcap/errors"
	"github.com/rommelsantor/Timeout/internal/env"
	"github.com/rommelsantor/Timeout/internal/log"
	"github.com/rommelsantor/Timeout/internal/utils/reflection"
)

// EventKind 定时器状态变化的类型
type EventKind int

const (
	EventScheduled EventKind = iota + 1 // Set / Create / Restart / Reset 开始一轮新的调度
	EventFired                          // 到期触发, 回调即将执行
	EventPaused                         // 暂停
	EventResumed                        // 从暂停中恢复
	EventCancelled                      // 取消调度, 保留元数据
	EventCleared                        // 取消调度并删除元数据
	EventCalled                         // 通过 Call 手动执行回调
)

var eventNames = map[EventKind]string{
	EventScheduled: "scheduled",
	EventFired:     "fired",
	EventPaused:    "paused",
	EventResumed:   "resumed",
	EventCancelled: "cancelled",
	EventCleared:   "cleared",
	EventCalled:    "called",
}

func (k EventKind) String() string {
	if name, ok := eventNames[k]; ok {
		return name
	}
	return "unknown"
}

// MarshalText 以名称形式序列化, 供 monitor 输出 JSON
func (k EventKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText 从名称反序列化, 未知名称返回错误
func (k *EventKind) UnmarshalText(text []byte) error {
	for kind, name := range eventNames {
		if name == string(text) {
			*k = kind
			return nil
		}
	}
	return errors.Errorf("unknown event kind %q", text)
}

// Event 一次定时器状态变化
type Event struct {
	Registry  string        `json:"registry"`
	Kind      EventKind     `json:"kind"`
	Key       string        `json:"key"`
	Callback  string        `json:"callback,omitempty"`
	At        time.Time     `json:"at"`
	Delay     time.Duration `json:"delay"`
	Remaining time.Duration `json:"remaining"`
}

// Observer 接收定时器事件, 在注册表的锁之外被调用, 可以重入注册表
type Observer func(ev Event)

// newEvent 构造事件, 调用方必须持有 r.mu
func (r *Registry) newEvent(kind EventKind, e *entry, now time.Time) Event {
	return Event{
		Registry:  r.opts.Name,
		Kind:      kind,
		Key:       e.key,
		Callback:  reflection.NameOfFunction(e.callback),
		At:        now,
		Delay:     e.delay,
		Remaining: e.remaining(now),
	}
}

// notify 分发事件, 调用方不能持有 r.mu
func (r *Registry) notify(events ...Event) {
	for _, ev := range events {
		if env.Debug {
			log.Debug("Timeout registry [%v] timer %q %v, callback %v, delay %v, remaining %v.", ev.Registry, ev.Key, ev.Kind, ev.Callback, ev.Delay, ev.Remaining)
		}
		if r.opts.Observer != nil {
			r.opts.Observer(ev)
		}
	}
}
