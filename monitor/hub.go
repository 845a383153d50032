// Package monitor 通过 websocket 把注册表的事件实时推送给浏览器或其他客户端.
package monitor

import (
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"
	"github.com/rommelsantor/Timeout"
	"github.com/rommelsantor/Timeout/internal/env"
	"github.com/rommelsantor/Timeout/internal/log"
)

const defaultBacklog = 64

// Hub 管理全部 websocket 连接, 把事件广播给每一个连接
type Hub struct {
	opts     Options
	upgrader *websocket.Upgrader
	closed   atomic.Bool

	mu      sync.RWMutex
	clients map[*client]struct{}
}

// NewHub 构造函数
func NewHub(opts ...Option) *Hub {
	h := &Hub{
		opts: Options{
			CheckOrigin: func(_ *http.Request) bool { return true },
			Serializer:  NewJSONSerializer(),
			Backlog:     defaultBacklog,
		},
		clients: make(map[*client]struct{}),
	}
	for _, opt := range opts {
		opt(&h.opts)
	}
	h.upgrader = &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.opts.CheckOrigin,
	}
	return h
}

// Observer 返回可以传给 timeout.WithObserver 的观察者
func (h *Hub) Observer() timeout.Observer {
	return h.Publish
}

// Publish 编码事件并投递到每个连接的发送队列, 不会阻塞
func (h *Hub) Publish(ev timeout.Event) {
	if h.closed.Load() {
		return
	}
	data, err := h.opts.Serializer.Marshal(ev)
	if err != nil {
		log.Error("Monitor marshal event %v of timer %q error.", ev.Kind, ev.Key, err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		c.push(data)
	}
}

// ServeHTTP 处理 HTTP 请求, 升级为 WebSocket 后开始推送
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.closed.Load() {
		http.Error(w, "monitor closed", http.StatusServiceUnavailable)
		return
	}
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Info("Upgrade failure, URI=%s", r.RequestURI, err)
		return
	}

	c := newClient(h, conn)
	if !h.add(c) {
		c.close()
		return
	}
	if env.Debug {
		log.Debug("Monitor client connected, remote=%v", conn.RemoteAddr())
	}

	go c.write()
	go c.read()
}

// Len 当前连接数量
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close 关闭全部连接, 之后的事件被丢弃
func (h *Hub) Close() {
	h.mu.Lock()
	if !h.closed.CompareAndSwap(false, true) {
		h.mu.Unlock()
		return
	}
	clients := h.clients
	h.clients = make(map[*client]struct{})
	h.mu.Unlock()

	for c := range clients {
		c.close()
	}
}

// add 登记连接, Hub 已关闭时返回 false; 与 Close 在同一把锁下检查, 关闭后不会再有新连接登记
func (h *Hub) add(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed.Load() {
		return false
	}
	h.clients[c] = struct{}{}
	return true
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
}
