package keygen

import (
	"strconv"
	"sync/atomic"
)

// counterGenerator 基于计数器的 key 生成器, 只在进程内唯一
type counterGenerator struct {
	prefix string
	seq    atomic.Int64
}

// NextKey 返回 prefix + 自增序号
func (c *counterGenerator) NextKey() string {
	return c.prefix + strconv.FormatInt(c.seq.Add(1), 10)
}

// NewCounter 构造函数
func NewCounter(prefix string) Generator {
	return &counterGenerator{prefix: prefix}
}
