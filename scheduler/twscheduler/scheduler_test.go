package twscheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/rommelsantor/Timeout/scheduler/schedulerapi"
	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestNewScheduler(t *testing.T) {
	assert.Panics(t, func() { NewScheduler("wheel", 0, 8) })
	assert.Panics(t, func() { NewScheduler("wheel", time.Millisecond, 6) })
	assert.Panics(t, func() { NewScheduler("wheel", time.Millisecond, 0) })
	assert.NotPanics(t, func() { NewScheduler("wheel", time.Millisecond, 1) })
}

func TestScheduler_Lifecycle(t *testing.T) {
	s := NewScheduler("wheel", time.Millisecond, 64)
	assert.Equal(t, schedulerapi.ExecutorStateCreated, s.State())

	s.Start()
	s.Start()
	assert.Equal(t, schedulerapi.ExecutorStateRunning, s.State())

	var executed atomic.Bool
	assert.True(t, s.Execute(func() { executed.Store(true) }))
	assert.Eventually(t, executed.Load, time.Second, 5*time.Millisecond)

	s.Close()
	s.Close()
	assert.Equal(t, schedulerapi.ExecutorStateClosed, s.State())
	assert.False(t, s.Execute(func() {}))
}

func TestScheduler_AfterTimer(t *testing.T) {
	s := NewScheduler("wheel", 2*time.Millisecond, 16)
	s.Start()
	defer s.Close()

	t.Run("Fires Once", func(t *testing.T) {
		var execCount atomic.Int32
		start := time.Now()
		var firedAt atomic.Int64
		tm := s.NewAfterTimer(20*time.Millisecond, func() {
			firedAt.Store(time.Now().UnixNano())
			execCount.Add(1)
		})

		assert.Eventually(t, func() bool {
			return execCount.Load() == 1
		}, time.Second, 5*time.Millisecond)
		assert.True(t, tm.Stopped())
		assert.GreaterOrEqual(t, time.Duration(firedAt.Load()-start.UnixNano()), 20*time.Millisecond)

		time.Sleep(40 * time.Millisecond)
		assert.Equal(t, int32(1), execCount.Load())
	})

	t.Run("Longer Than One Round", func(t *testing.T) {
		// 16 个槽位 * 2ms = 32ms 一圈
		var executed atomic.Bool
		s.NewAfterTimer(50*time.Millisecond, func() {
			executed.Store(true)
		})
		time.Sleep(20 * time.Millisecond)
		assert.False(t, executed.Load())
		assert.Eventually(t, executed.Load, time.Second, 5*time.Millisecond)
	})

	t.Run("Stop Before Fire", func(t *testing.T) {
		var execCount atomic.Int32
		tm := s.NewAfterTimer(10*time.Millisecond, func() {
			execCount.Add(1)
		})
		tm.Stop()
		time.Sleep(40 * time.Millisecond)
		assert.Equal(t, int32(0), execCount.Load())
	})

	t.Run("Panic In Timer", func(t *testing.T) {
		var normalExecuted atomic.Bool
		s.NewAfterTimer(time.Millisecond, func() {
			panic("timer panic")
		})
		s.NewAfterTimer(10*time.Millisecond, func() {
			normalExecuted.Store(true)
		})
		assert.Eventually(t, normalExecuted.Load, time.Second, 5*time.Millisecond)
	})
}
