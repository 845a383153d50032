package keygen

// Generator 为匿名定时器生成不重复的 key
type Generator interface {
	// NextKey 返回一个新的 key, 同一个 Generator 返回的 key 不会重复
	NextKey() string
}

// Func 把普通函数适配成 Generator
type Func func() string

// NextKey 返回新的 key
func (f Func) NextKey() string {
	return f()
}
