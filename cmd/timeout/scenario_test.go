package main

import (
	"context"
	"testing"
	"time"

	"github.com/pingcap/errors"
	"github.com/rommelsantor/Timeout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScenario(t *testing.T) {
	r := timeout.New(timeout.WithName("scenario"))
	defer r.Close()

	s := newScenario(r, 5, time.Millisecond)
	require.NoError(t, s.run(context.Background()))
	assert.Greater(t, s.checks, 20)
	assert.Empty(t, s.failures)
	assert.False(t, r.Exists("my_timer"))
}

func TestScenarioCanceled(t *testing.T) {
	r := timeout.New(timeout.WithName("scenario"))
	defer r.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := newScenario(r, 1, time.Millisecond).run(ctx)
	assert.Equal(t, context.Canceled, errors.Cause(err))
}

func TestScenarioFailure(t *testing.T) {
	r := timeout.New(timeout.WithName("scenario"))
	defer r.Close()

	s := newScenario(r, 1, time.Millisecond)
	s.expect(true, "passes")
	s.expect(false, "fails with %d", 42)
	assert.Equal(t, 2, s.checks)
	assert.Equal(t, []string{"fails with 42"}, s.failures)
	assert.True(t, s.around(10*time.Millisecond, 12*time.Millisecond))
	assert.False(t, s.around(10*time.Millisecond, 30*time.Millisecond))
}
