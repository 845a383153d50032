package monitor

import (
	"net/http"
)

// Options 监控服务选项
type Options struct {
	CheckOrigin func(*http.Request) bool // 跨域检测, WebSocket 升级阶段
	Serializer  Serializer               // 事件编码, 默认 JSON
	Backlog     int                      // 每个连接的发送队列长度, 队列满时丢弃事件
}

// Option 监控服务选项函数
type Option func(*Options)

// WithCheckOrigin 设置跨域检查函数
func WithCheckOrigin(fn func(*http.Request) bool) Option {
	return func(opt *Options) {
		opt.CheckOrigin = fn
	}
}

// WithSerializer 设置事件编码
func WithSerializer(s Serializer) Option {
	return func(opt *Options) {
		opt.Serializer = s
	}
}

// WithBacklog 设置每个连接的发送队列长度
func WithBacklog(n int) Option {
	return func(opt *Options) {
		if n > 0 {
			opt.Backlog = n
		}
	}
}
