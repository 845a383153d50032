package timeout

import (
	"time"

	"github.com/armon/go-radix"
	"github.com/rommelsantor/Timeout/scheduler/schedulerapi"
)

// Callback 定时器回调, 返回值只在 Call 中返回给调用方
type Callback func(params ...any) any

// Action 把没有参数和返回值的函数适配成 Callback
func Action(fn func()) Callback {
	if fn == nil {
		return nil
	}
	return func(...any) any {
		fn()
		return nil
	}
}

// entry 一个 key 对应的定时器元数据
type entry struct {
	key              string
	callback         Callback
	params           []any
	delay            time.Duration      // 当前一轮调度的延迟
	originalDelay    time.Duration      // 第一次创建时的延迟, Restart 使用
	createdAt        time.Time          // 本轮调度开始的时间
	executedAt       time.Time          // 零值表示尚未执行
	paused           bool               // 已暂停, 此时 handle 为 nil
	timeSpentWaiting time.Duration      // 暂停时已经等待的时间, 只在 paused 时有意义
	handle           schedulerapi.Timer // 正在等待的调度器定时器, 只在 pending 且未暂停时存在
	gen              uint64             // 调度代数, 过期的触发通过它识别
}

func (e *entry) executed() bool {
	return !e.executedAt.IsZero()
}

// cancel 取消调度器上的定时器, 保留元数据
func (e *entry) cancel() {
	if e.handle != nil {
		e.handle.Stop()
		e.handle = nil
	}
}

// remaining 暂停时返回冻结的剩余时间, 否则返回实时倒计时
func (e *entry) remaining(now time.Time) time.Duration {
	var d time.Duration
	if e.paused && !e.executed() {
		d = e.delay - e.timeSpentWaiting
	} else {
		d = e.createdAt.Add(e.delay).Sub(now)
	}
	return max(d, 0)
}

func (e *entry) elapsed(now time.Time) time.Duration {
	return max(now.Sub(e.createdAt), 0)
}

func (e *entry) snapshot() Snapshot {
	return Snapshot{
		Key:              e.key,
		Params:           append([]any(nil), e.params...),
		Delay:            e.delay,
		OriginalDelay:    e.originalDelay,
		CreatedAt:        e.createdAt,
		ExecutedAt:       e.executedAt,
		Paused:           e.paused,
		TimeSpentWaiting: e.timeSpentWaiting,
		Scheduled:        e.handle != nil,
	}
}

// Snapshot 定时器元数据的只读副本
type Snapshot struct {
	Key              string
	Params           []any
	Delay            time.Duration
	OriginalDelay    time.Duration
	CreatedAt        time.Time
	ExecutedAt       time.Time // 零值表示尚未执行
	Paused           bool
	TimeSpentWaiting time.Duration
	Scheduled        bool // 调度器上有正在等待的定时器
}

// entryStore key 到 entry 的映射, 使用基数树以便按前缀遍历; 由 Registry.mu 保护
type entryStore struct {
	tree *radix.Tree
}

func newEntryStore() *entryStore {
	return &entryStore{tree: radix.New()}
}

func (s *entryStore) get(key string) *entry {
	v, ok := s.tree.Get(key)
	if !ok {
		return nil
	}
	return v.(*entry)
}

func (s *entryStore) put(e *entry) {
	s.tree.Insert(e.key, e)
}

func (s *entryStore) delete(key string) {
	s.tree.Delete(key)
}

func (s *entryStore) len() int {
	return s.tree.Len()
}

// walk 按 key 的字典序遍历 prefix 下的全部 entry
func (s *entryStore) walk(prefix string, fn func(e *entry)) {
	s.tree.WalkPrefix(prefix, func(_ string, v any) bool {
		fn(v.(*entry))
		return false
	})
}

func (s *entryStore) reset() {
	s.tree = radix.New()
}
