package keygen

import (
	"github.com/google/uuid"
	"github.com/rs/xid"
)

// NewUUID 生成随机 UUID (v4) 作为 key
func NewUUID() Generator {
	return Func(uuid.NewString)
}

// NewXID 生成 xid 作为 key, 比 UUID 更短且按时间有序
func NewXID() Generator {
	return Func(func() string {
		return xid.New().String()
	})
}
