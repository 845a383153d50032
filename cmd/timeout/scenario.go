package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pingcap/errors"
	"github.com/rommelsantor/Timeout"
	"github.com/rommelsantor/Timeout/internal/log"
)

// scenario 在真实调度器上演示 set, call, create, pause, resume, restart 和 instantiate, 并校验每一步
type scenario struct {
	r         *timeout.Registry
	speed     int
	tolerance time.Duration

	mu       sync.Mutex
	checks   int
	failures []string
	done     chan struct{}
}

func newScenario(r *timeout.Registry, speed int, precision time.Duration) *scenario {
	return &scenario{
		r:         r,
		speed:     speed,
		tolerance: 2*precision + 5*time.Millisecond,
		done:      make(chan struct{}),
	}
}

// ms 按 speed 缩放的毫秒数
func (s *scenario) ms(n int) time.Duration {
	return time.Duration(n) * time.Millisecond / time.Duration(s.speed)
}

func (s *scenario) expect(ok bool, format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.checks++
	if ok {
		return
	}
	msg := fmt.Sprintf(format, args...)
	s.failures = append(s.failures, msg)
	log.Error("Timeout demo check failed: %v", msg)
}

func (s *scenario) around(actual, expected time.Duration) bool {
	return actual >= expected-s.tolerance && actual <= expected+s.tolerance
}

// run 启动全部定时器, 等待 my_timer 执行完成
func (s *scenario) run(ctx context.Context) error {
	r := s.r

	r.Set("manually_called", func(...any) any {
		return "i was manually called"
	}, s.ms(100))
	s.expect(r.Exists("manually_called"), "manually_called should exist")
	s.expect(r.Pending("manually_called"), "manually_called should be pending")

	result, ok := r.Call("manually_called")
	s.expect(ok && result == "i was manually called", "manually_called return value should be received, got %v", result)
	s.expect(r.Pending("manually_called"), "manually_called should still be pending")
	s.expect(!r.Executed("manually_called"), "manually_called should not be flagged as executed")

	r.Set("no-clobber", timeout.Action(func() {}), 0)
	_, created := r.Create("no-clobber", timeout.Action(func() {}), 0)
	s.expect(!created, "create should not clobber an existing timer")

	r.SetAnonymous(s.withParams, 0, "Foo", "Bar")

	r.Set("my_timer", s.myTimer, s.ms(3000))
	s.expect(r.Pending("my_timer"), "my_timer should be pending")
	s.expect(!r.Executed("my_timer"), "my_timer should not yet have executed")

	r.SetAnonymous(timeout.Action(s.resumeMyTimer), s.ms(400))
	r.SetAnonymous(timeout.Action(s.pauseMyTimer), s.ms(200))

	r.Set("my_restart_after_pause", timeout.Action(func() {}), s.ms(100))
	r.SetAnonymous(timeout.Action(func() {
		r.Pause("my_restart_after_pause")
		r.Restart("my_restart_after_pause", false)
		remaining := r.Remaining("my_restart_after_pause")
		s.expect(s.around(remaining, s.ms(100)), "my_restart_after_pause should be rearmed at %v, remaining %v", s.ms(100), remaining)
	}), s.ms(50))

	r.Set("restart_after_pause_and_resume", timeout.Action(func() {}), s.ms(100))
	r.SetAnonymous(timeout.Action(func() {
		r.Pause("restart_after_pause_and_resume")
		r.SetAnonymous(timeout.Action(func() {
			r.Resume("restart_after_pause_and_resume")
			r.Restart("restart_after_pause_and_resume", false)
			remaining := r.Remaining("restart_after_pause_and_resume")
			s.expect(s.around(remaining, s.ms(100)), "restart_after_pause_and_resume should be rearmed at %v, remaining %v", s.ms(100), remaining)
		}), s.ms(25))
	}), s.ms(25))

	h := r.Instantiate(s.withParams, s.ms(2000), "Abc", "Xyz")
	s.expect(h.Exists(), "instantiated timer should exist")
	s.expect(h.Pending(), "instantiated timer should be pending")
	s.expect(!h.Executed(), "instantiated timer should not yet have executed")

	select {
	case <-s.done:
	case <-time.After(s.ms(3000) + time.Second):
		s.expect(false, "my_timer did not fire in time")
	case <-ctx.Done():
		return errors.Annotate(ctx.Err(), "timeout demo interrupted")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.failures) > 0 {
		return errors.Errorf("%d of %d checks failed, first: %s", len(s.failures), s.checks, s.failures[0])
	}
	log.Info("Timeout demo complete, %d checks passed.", s.checks)
	return nil
}

func (s *scenario) withParams(params ...any) any {
	s.expect(len(params) == 2, "timer with params should get exactly 2 params, got %v", params)
	return nil
}

func (s *scenario) myTimer(...any) any {
	defer close(s.done)
	r := s.r

	s.expect(r.Exists("my_timer"), "my_timer should still exist")
	s.expect(!r.Pending("my_timer"), "my_timer should no longer be pending")
	s.expect(r.Executed("my_timer"), "my_timer should now have executed")
	_, ok := r.LastExecuted("my_timer")
	s.expect(ok, "my_timer last execution should not be empty")
	s.expect(!r.Paused("my_timer"), "my_timer should not be paused")

	r.Clear("my_timer")
	s.expect(!r.Exists("my_timer"), "my_timer should no longer exist")
	s.expect(!r.Pending("my_timer"), "my_timer should not be pending")
	s.expect(!r.Executed("my_timer"), "my_timer should not be executed")
	return "executed my_timer"
}

func (s *scenario) pauseMyTimer() {
	_, ok := s.r.Pause("my_timer")
	s.expect(ok && s.r.Paused("my_timer"), "my_timer should now be paused")
}

func (s *scenario) resumeMyTimer() {
	s.expect(s.r.Paused("my_timer"), "my_timer should still be paused")
	_, ok := s.r.Resume("my_timer")
	s.expect(ok && !s.r.Paused("my_timer"), "my_timer should no longer be paused")
}
