package manual

import (
	"testing"
	"time"

	"github.com/rommelsantor/Timeout/scheduler/schedulerapi"
	"github.com/stretchr/testify/assert"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestAdvance(t *testing.T) {
	s := New(epoch)
	s.Start()

	var order []string
	var at []time.Duration
	record := func(name string) schedulerapi.TimerFunc {
		return func() {
			order = append(order, name)
			at = append(at, s.Now().Sub(epoch))
		}
	}
	s.NewAfterTimer(30*time.Millisecond, record("c"))
	s.NewAfterTimer(10*time.Millisecond, record("a"))
	s.NewAfterTimer(10*time.Millisecond, record("b"))
	s.NewAfterTimer(time.Hour, record("late"))

	s.Advance(20 * time.Millisecond)
	assert.Equal(t, []string{"a", "b"}, order)
	assert.Equal(t, 20*time.Millisecond, s.Now().Sub(epoch))

	s.Advance(20 * time.Millisecond)
	assert.Equal(t, []string{"a", "b", "c"}, order)
	assert.Equal(t, []time.Duration{10 * time.Millisecond, 10 * time.Millisecond, 30 * time.Millisecond}, at)
	assert.Equal(t, 1, s.Pending())
}

func TestFlush(t *testing.T) {
	s := New(epoch)

	var fired []int
	s.NewAfterTimer(0, func() {
		fired = append(fired, 1)
		// 回调中新建的 0 延迟定时器也在本次 Flush 中执行
		s.NewAfterTimer(0, func() { fired = append(fired, 2) })
	})
	s.NewAfterTimer(-time.Second, func() { fired = append(fired, 3) })

	s.Flush()
	assert.Equal(t, []int{1, 3, 2}, fired)
	assert.Equal(t, epoch, s.Now())
}

func TestStop(t *testing.T) {
	s := New(epoch)

	fired := false
	tm := s.NewAfterTimer(time.Second, func() { fired = true })
	assert.Equal(t, 1, s.Pending())
	assert.False(t, tm.Stopped())

	tm.Stop()
	tm.Stop()
	assert.True(t, tm.Stopped())
	assert.Equal(t, 0, s.Pending())

	s.Advance(time.Minute)
	assert.False(t, fired)
}

func TestStopFromCallback(t *testing.T) {
	s := New(epoch)

	fired := false
	var victim schedulerapi.Timer
	s.NewAfterTimer(time.Millisecond, func() { victim.Stop() })
	victim = s.NewAfterTimer(2*time.Millisecond, func() { fired = true })

	s.Advance(time.Second)
	assert.False(t, fired)
}

func TestPanicInTimer(t *testing.T) {
	s := New(epoch)

	fired := false
	s.NewAfterTimer(time.Millisecond, func() { panic("boom") })
	s.NewAfterTimer(2*time.Millisecond, func() { fired = true })

	assert.NotPanics(t, func() { s.Advance(time.Second) })
	assert.True(t, fired)
}

func TestClose(t *testing.T) {
	s := New(epoch)
	s.Start()
	assert.Equal(t, schedulerapi.ExecutorStateRunning, s.State())

	tm := s.NewAfterTimer(time.Second, func() {})
	ran := false
	assert.True(t, s.Execute(func() { ran = true }))
	assert.True(t, ran)

	s.Close()
	s.Close()
	assert.Equal(t, schedulerapi.ExecutorStateClosed, s.State())
	assert.True(t, tm.Stopped())
	assert.Equal(t, 0, s.Pending())
	assert.False(t, s.Execute(func() {}))
	assert.True(t, s.NewAfterTimer(0, func() {}).Stopped())
}

func TestLocationKept(t *testing.T) {
	zone := time.FixedZone("UTC+8", 8*60*60)
	start := time.Date(2026, 1, 1, 8, 0, 0, 0, zone)
	s := New(start)

	var firedAt time.Time
	s.NewAfterTimer(130*time.Millisecond, func() { firedAt = s.Now() })
	s.Advance(time.Second)

	assert.Equal(t, start.Add(130*time.Millisecond), firedAt)
	assert.Same(t, zone, firedAt.Location())
	assert.Equal(t, start.Add(time.Second), s.Now())
	assert.Same(t, zone, s.Now().Location())
}
