package http

import (
	"context"
	"net"
	"net/http"
	"sync/atomic"
)

// ErrServerClosed Serve 在 Shutdown 或 Close 之后返回的错误
var ErrServerClosed = http.ErrServerClosed

// Server 可以先监听再服务的 http.Server, 便于在启动前取得实际监听地址
type Server struct {
	http.Server
	inShutdown atomic.Bool
}

// NewServer 构造函数
func NewServer(addr string, handler http.Handler) *Server {
	return &Server{Server: http.Server{Addr: addr, Handler: handler}}
}

func (srv *Server) shuttingDown() bool {
	return srv.inShutdown.Load()
}

// Listen 监听 Addr, 服务器已关闭时返回 http.ErrServerClosed
func (srv *Server) Listen() (net.Listener, error) {
	if srv.shuttingDown() {
		return nil, http.ErrServerClosed
	}
	addr := srv.Addr
	if addr == "" {
		addr = ":http"
	}
	return net.Listen("tcp", addr)
}

// Shutdown 优雅关闭
func (srv *Server) Shutdown(ctx context.Context) error {
	srv.inShutdown.Store(true)
	return srv.Server.Shutdown(ctx)
}

// Close 立即关闭
func (srv *Server) Close() error {
	srv.inShutdown.Store(true)
	return srv.Server.Close()
}
