package timeout

// Checker Set 等操作返回的轻量句柄, 之后可以查询这一次调度是否已经执行.
// Checker 只保存 key, 查询时总是读取该 key 下当前的定时器, 因此 key 被清除后重新 Set 会改变查询结果.
type Checker struct {
	r   *Registry
	key string
}

// Key 被调度的 key
func (c Checker) Key() string {
	return c.key
}

// Executed 查询 key 下的定时器是否已经执行, 零值 Checker 总是返回 false
func (c Checker) Executed() bool {
	if c.r == nil {
		return false
	}
	return c.r.Executed(c.key)
}
