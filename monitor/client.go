package monitor

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rommelsantor/Timeout/internal/env"
	"github.com/rommelsantor/Timeout/internal/log"
)

const writeWait = 10 * time.Second

// client 一个 websocket 连接, 读协程只用来发现连接断开, 写协程负责发送
type client struct {
	hub       *Hub
	conn      *websocket.Conn
	chSend    chan []byte
	chDie     chan struct{}
	closeOnce sync.Once
}

func newClient(hub *Hub, conn *websocket.Conn) *client {
	return &client{
		hub:    hub,
		conn:   conn,
		chSend: make(chan []byte, hub.opts.Backlog),
		chDie:  make(chan struct{}),
	}
}

// push 投递一帧数据, 发送队列已满或连接已关闭时丢弃
func (c *client) push(data []byte) {
	select {
	case <-c.chDie:
	case c.chSend <- data:
	default:
		log.Info("Monitor client send buffer exceed, remote=%v", c.conn.RemoteAddr())
	}
}

// close 关闭连接, 只执行一次
func (c *client) close() {
	c.closeOnce.Do(func() {
		close(c.chDie)
		_ = c.conn.Close()
		c.hub.remove(c)
		if env.Debug {
			log.Debug("Monitor client closed, remote=%v", c.conn.RemoteAddr())
		}
	})
}

func (c *client) read() {
	defer c.close()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) write() {
	defer c.close()
	msgType := c.hub.opts.Serializer.MessageType()
	for {
		select {
		case data := <-c.chSend:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(msgType, data); err != nil {
				log.Info("Monitor write message error, remote=%v", c.conn.RemoteAddr(), err)
				return
			}

		case <-c.chDie:
			return
		}
	}
}
