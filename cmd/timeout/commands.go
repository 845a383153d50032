package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/pingcap/errors"
	"github.com/rommelsantor/Timeout"
	"github.com/rommelsantor/Timeout/internal/http"
	"github.com/rommelsantor/Timeout/internal/log"
	"github.com/rommelsantor/Timeout/internal/utils/net"
	"github.com/rommelsantor/Timeout/monitor"
	"github.com/urfave/cli/v2"
)

// newRegistry 按全局参数构造注册表
func newRegistry(c *cli.Context, name string, hub *monitor.Hub) *timeout.Registry {
	opts := []timeout.Option{
		timeout.WithName(name),
		timeout.WithTimerPrecision(c.Duration("precision")),
	}
	if c.Bool("debug") {
		opts = append(opts, timeout.WithDebugMode())
	}
	if c.Bool("plain-log") {
		opts = append(opts, timeout.WithLogger(log.NewConsoleLogger()))
	}
	if hub != nil {
		opts = append(opts, timeout.WithObserver(hub.Observer()))
	}
	return timeout.New(opts...)
}

// serveHub 在 addr 上启动监控服务, 返回的函数用于关闭
func serveHub(addr string, hub *monitor.Hub) (func(), error) {
	srv := http.NewServer(addr, hub)
	l, err := srv.Listen()
	if err != nil {
		return nil, errors.Annotatef(err, "listen monitor on %s", addr)
	}
	bound := l.Addr().String()
	port := bound[strings.LastIndex(bound, ":")+1:]
	for _, ip := range net.IpAddress() {
		log.Info("Timeout monitor on %v, connect ws://%v:%v/", net.HostName(), ip, port)
	}

	go func() {
		if err := srv.Serve(l); errors.Cause(err) != http.ErrServerClosed {
			log.Error("Timeout monitor serve error.", err)
		}
	}()
	return func() {
		hub.Close()
		_ = srv.Close()
	}, nil
}

func runDemo(c *cli.Context) error {
	speed := c.Int("speed")
	if speed < 1 {
		return errors.Errorf("speed must be positive, got %d", speed)
	}

	var hub *monitor.Hub
	if addr := c.String("monitor"); addr != "" {
		hub = monitor.NewHub()
		stop, err := serveHub(addr, hub)
		if err != nil {
			return err
		}
		defer stop()
	}

	r := newRegistry(c, "demo", hub)
	defer r.Close()

	return newScenario(r, speed, c.Duration("precision")).run(c.Context)
}

func runMonitor(c *cli.Context) error {
	speed := c.Int("speed")
	if speed < 1 {
		return errors.Errorf("speed must be positive, got %d", speed)
	}
	serializer, err := monitor.SerializerByName(c.String("serializer"))
	if err != nil {
		return err
	}

	hub := monitor.NewHub(monitor.WithSerializer(serializer))
	stop, err := serveHub(c.String("listen"), hub)
	if err != nil {
		return err
	}
	defer stop()

	ctx, cancel := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	r := newRegistry(c, "monitor", hub)
	defer r.Close()

	for round := 1; ; round++ {
		log.Info("Timeout monitor scenario round %d", round)
		if err := newScenario(r, speed, c.Duration("precision")).run(ctx); err != nil {
			if errors.Cause(err) == context.Canceled {
				return nil
			}
			log.Error("Timeout monitor scenario round %d failed.", round, err)
		}
		r.ClearPrefix("")

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(time.Second):
		}
	}
}
