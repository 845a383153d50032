package timeout_test

import (
	"testing"
	"time"

	"github.com/pingcap/errors"
	. "github.com/pingcap/check"
	"github.com/rommelsantor/Timeout"
	"github.com/rommelsantor/Timeout/scheduler/manual"
)

type handleSuite struct {
	sched *manual.Scheduler
	reg   *timeout.Registry
}

var _ = Suite(&handleSuite{})

func TestHandle(t *testing.T) {
	TestingT(t)
}

func (s *handleSuite) SetUpTest(c *C) {
	s.sched = manual.New(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	s.sched.Start()
	s.reg = timeout.New(timeout.WithName("handle"), timeout.WithScheduler(s.sched))
}

func (s *handleSuite) TearDownTest(c *C) {
	s.reg.Close()
	s.sched.Close()
}

func (s *handleSuite) TestInstantiate(c *C) {
	var got []any
	h := s.reg.Instantiate(func(params ...any) any {
		got = params
		return nil
	}, 10*time.Millisecond, "a", "b")

	c.Assert(h.Key(), Not(Equals), "")
	c.Assert(h.Registry(), Equals, s.reg)
	c.Assert(h.Exists(), IsTrue)
	c.Assert(h.Pending(), IsTrue)
	c.Assert(h.Remaining(), Equals, 10*time.Millisecond)

	s.sched.Advance(10 * time.Millisecond)
	c.Assert(h.Executed(), IsTrue)
	c.Assert(got, DeepEquals, []any{"a", "b"})

	at, ok := h.LastExecuted()
	c.Assert(ok, IsTrue)
	c.Assert(at, Equals, s.sched.Now())
}

func (s *handleSuite) TestInstantiateKey(c *C) {
	h := s.reg.InstantiateKey("named", timeout.Action(func() {}), time.Second)
	c.Assert(h.Key(), Equals, "named")
	c.Assert(s.reg.Exists("named"), IsTrue)
}

func (s *handleSuite) TestLinkedHandlesShareState(c *C) {
	s.reg.Set("shared", timeout.Action(func() {}), 100*time.Millisecond)

	a, err := s.reg.Link("shared")
	c.Assert(err, IsNil)
	b, err := s.reg.Link("shared")
	c.Assert(err, IsNil)

	s.sched.Advance(40 * time.Millisecond)
	waited, ok := a.Pause()
	c.Assert(ok, IsTrue)
	c.Assert(waited, Equals, 40*time.Millisecond)
	c.Assert(b.Paused(), IsTrue)
	c.Assert(b.Remaining(), Equals, 60*time.Millisecond)

	_, ok = b.Pause()
	c.Assert(ok, IsFalse)

	_, ok = b.Resume()
	c.Assert(ok, IsTrue)
	c.Assert(a.Paused(), IsFalse)

	_, ok = a.Restart(false)
	c.Assert(ok, IsTrue)
	c.Assert(b.Remaining(), Equals, 100*time.Millisecond)

	meta, ok := b.Meta()
	c.Assert(ok, IsTrue)
	c.Assert(meta.OriginalDelay, Equals, 100*time.Millisecond)

	a.Clear()
	c.Assert(b.Exists(), IsFalse)
}

func (s *handleSuite) TestLinkNotFound(c *C) {
	h, err := s.reg.Link("missing")
	c.Assert(h, IsNil)
	c.Assert(errors.Cause(err), Equals, timeout.ErrTimerNotFound)
	c.Assert(err, ErrorMatches, `link timer "missing": timer not found`)
}

func (s *handleSuite) TestHandleOperations(c *C) {
	calls := 0
	h := s.reg.InstantiateKey("ops", func(params ...any) any {
		calls++
		return params
	}, 50*time.Millisecond, 1)

	v, ok := h.Call()
	c.Assert(ok, IsTrue)
	c.Assert(v, DeepEquals, []any{1})
	c.Assert(h.Executed(), IsFalse)

	_, ok = h.Reset(20*time.Millisecond, 2)
	c.Assert(ok, IsTrue)
	_, ok = h.ResetDelay(30 * time.Millisecond)
	c.Assert(ok, IsTrue)
	c.Assert(h.Remaining(), Equals, 30*time.Millisecond)

	s.sched.Advance(10 * time.Millisecond)
	c.Assert(h.Elapsed(), Equals, 10*time.Millisecond)

	h.Cancel()
	c.Assert(h.Exists(), IsTrue)
	s.sched.Advance(time.Second)
	c.Assert(calls, Equals, 1)

	checker := h.Set(timeout.Action(func() { calls += 10 }), 0)
	c.Assert(checker.Key(), Equals, "ops")
	s.sched.Flush()
	c.Assert(checker.Executed(), IsTrue)
	c.Assert(calls, Equals, 11)
}
