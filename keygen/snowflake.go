package keygen

import (
	"github.com/bwmarrin/snowflake"
	"github.com/pingcap/errors"
	"github.com/rommelsantor/Timeout/internal/utils/net"
)

// snowflakeGenerator 基于雪花算法的 key 生成器, key 按生成时间递增
type snowflakeGenerator struct {
	node *snowflake.Node
}

// NextKey 返回 base58 编码的雪花 ID
func (g *snowflakeGenerator) NextKey() string {
	return g.node.Generate().Base58()
}

// NewSnowflake 构造函数, node 的取值范围为 [0, 1023]
func NewSnowflake(node int64) (Generator, error) {
	n, err := snowflake.NewNode(node)
	if err != nil {
		return nil, errors.Annotatef(err, "create snowflake node %d", node)
	}
	return &snowflakeGenerator{node: n}, nil
}

// DefaultSnowflake 以进程 ID 作为节点号的雪花生成器
func DefaultSnowflake() Generator {
	g, err := NewSnowflake(int64(net.ProcessId()) % 1024)
	if err != nil {
		panic(err)
	}
	return g
}
