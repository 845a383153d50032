package defscheduler

import (
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rommelsantor/Timeout/scheduler/schedulerapi"
	"github.com/stretchr/testify/assert"
	"github.com/timandy/routine"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// TestScheduler 测试调度器
func TestScheduler(t *testing.T) {
	t.Run("New Scheduler", func(t *testing.T) {
		s := NewScheduler("test-scheduler", time.Millisecond).(*scheduler)
		s.Start()
		defer s.Close()

		assert.Equal(t, "test-scheduler", s.name)
		assert.Equal(t, schedulerapi.ExecutorStateRunning, s.State())
	})

	t.Run("Non-positive Tick", func(t *testing.T) {
		assert.Panics(t, func() {
			NewScheduler("test", 0)
		})
	})

	t.Run("Execute Task", func(t *testing.T) {
		s := NewScheduler("test", time.Millisecond)
		s.Start()
		defer s.Close()

		var executed atomic.Bool
		assert.True(t, s.Execute(func() {
			executed.Store(true)
		}))

		assert.Eventually(t, func() bool {
			return executed.Load()
		}, time.Second, 5*time.Millisecond)
	})

	t.Run("Execute Panic Task", func(t *testing.T) {
		s := NewScheduler("test", time.Millisecond)
		s.Start()
		defer s.Close()

		var executed atomic.Bool
		s.Execute(func() {
			executed.Store(true)
			panic("test panic")
		})
		assert.Eventually(t, func() bool {
			return executed.Load()
		}, time.Second, 5*time.Millisecond)

		// 调度器应该仍然可以处理新任务
		var afterPanicExecuted atomic.Bool
		s.Execute(func() {
			afterPanicExecuted.Store(true)
		})
		assert.Eventually(t, func() bool {
			return afterPanicExecuted.Load()
		}, time.Second, 5*time.Millisecond)
	})

	t.Run("Close Scheduler", func(t *testing.T) {
		s := NewScheduler("test", time.Millisecond)
		s.Close()
		assert.Equal(t, schedulerapi.ExecutorStateCreated, s.State())

		s.Start()
		assert.Equal(t, schedulerapi.ExecutorStateRunning, s.State())

		s.Close()
		assert.Equal(t, schedulerapi.ExecutorStateClosed, s.State())

		// 重复关闭应该安全
		s.Close()
		assert.Equal(t, schedulerapi.ExecutorStateClosed, s.State())

		// 关闭后不再接受任务
		assert.False(t, s.Execute(func() {}))
	})
}

// TestScheduler_AfterTimer 测试一次性定时器
func TestScheduler_AfterTimer(t *testing.T) {
	s := NewScheduler("test", time.Millisecond)
	s.Start()
	defer s.Close()

	t.Run("Fires Once", func(t *testing.T) {
		var execCount atomic.Int32
		tm := s.NewAfterTimer(20*time.Millisecond, func() {
			execCount.Add(1)
		})
		assert.NotNil(t, tm)

		assert.Eventually(t, func() bool {
			return execCount.Load() == 1
		}, time.Second, 5*time.Millisecond)
		assert.True(t, tm.Stopped())

		time.Sleep(50 * time.Millisecond)
		assert.Equal(t, int32(1), execCount.Load())
	})

	t.Run("Zero Duration", func(t *testing.T) {
		var executed atomic.Bool
		s.NewAfterTimer(0, func() {
			executed.Store(true)
		})
		assert.Eventually(t, func() bool {
			return executed.Load()
		}, time.Second, time.Millisecond)
	})

	t.Run("Not Before Duration", func(t *testing.T) {
		start := time.Now()
		fired := make(chan time.Time, 1)
		s.NewAfterTimer(30*time.Millisecond, func() {
			fired <- time.Now()
		})
		select {
		case at := <-fired:
			assert.GreaterOrEqual(t, at.Sub(start), 30*time.Millisecond)
		case <-time.After(time.Second):
			t.Fatal("timer did not fire")
		}
	})

	t.Run("Stop Before Fire", func(t *testing.T) {
		var execCount atomic.Int32
		tm := s.NewAfterTimer(20*time.Millisecond, func() {
			execCount.Add(1)
		})
		tm.Stop()

		time.Sleep(60 * time.Millisecond)
		assert.Equal(t, int32(0), execCount.Load())
	})

	t.Run("Nil Function", func(t *testing.T) {
		assert.Panics(t, func() {
			s.NewAfterTimer(time.Millisecond, nil)
		})
	})

	t.Run("Panic In Timer", func(t *testing.T) {
		var normalExecuted atomic.Bool
		s.NewAfterTimer(5*time.Millisecond, func() {
			panic("timer panic")
		})
		s.NewAfterTimer(15*time.Millisecond, func() {
			normalExecuted.Store(true)
		})
		assert.Eventually(t, func() bool {
			return normalExecuted.Load()
		}, time.Second, 5*time.Millisecond)
	})

	t.Run("Same Goroutine", func(t *testing.T) {
		var wg sync.WaitGroup
		ids := make(chan uint64, 2)
		wg.Add(2)
		s.Execute(func() {
			ids <- routine.Goid()
			wg.Done()
		})
		s.NewAfterTimer(0, func() {
			ids <- routine.Goid()
			wg.Done()
		})
		wg.Wait()
		assert.Equal(t, <-ids, <-ids)
	})
}

// TestScheduler_EdgeCases 边界测试
func TestScheduler_EdgeCases(t *testing.T) {
	t.Run("Scheduler start twice", func(t *testing.T) {
		s := NewScheduler("edge-test", time.Millisecond)
		s.Start()
		defer s.Close()

		time.Sleep(20 * time.Millisecond)
		num := runtime.NumGoroutine()

		s.Start()
		time.Sleep(20 * time.Millisecond)
		assert.Equal(t, num, runtime.NumGoroutine())
	})

	t.Run("Close From Timer", func(t *testing.T) {
		s := NewScheduler("edge-test", time.Millisecond)
		s.Start()

		closed := make(chan struct{})
		s.NewAfterTimer(0, func() {
			s.Close()
			close(closed)
		})
		select {
		case <-closed:
		case <-time.After(time.Second):
			t.Fatal("close from timer dead locked")
		}
		assert.Equal(t, schedulerapi.ExecutorStateClosed, s.State())
	})

	t.Run("Timers Dropped On Close", func(t *testing.T) {
		s := NewScheduler("edge-test", time.Millisecond)
		s.Start()

		var execCount atomic.Int32
		tm := s.NewAfterTimer(time.Hour, func() {
			execCount.Add(1)
		})
		time.Sleep(10 * time.Millisecond)
		s.Close()
		assert.True(t, tm.Stopped())
		assert.Equal(t, int32(0), execCount.Load())
	})

	t.Run("High Concurrency", func(t *testing.T) {
		s := NewScheduler("stress-test", time.Millisecond)
		s.Start()
		defer s.Close()

		const numGoroutines = 50
		const numTimersPerGoroutine = 20

		var fired atomic.Int32
		var wg sync.WaitGroup
		wg.Add(numGoroutines)
		for i := 0; i < numGoroutines; i++ {
			go func() {
				defer wg.Done()
				for j := 0; j < numTimersPerGoroutine; j++ {
					s.NewAfterTimer(time.Duration(j)*time.Millisecond, func() {
						fired.Add(1)
					})
				}
			}()
		}
		wg.Wait()

		assert.Eventually(t, func() bool {
			return fired.Load() == numGoroutines*numTimersPerGoroutine
		}, 5*time.Second, 10*time.Millisecond)
	})
}
