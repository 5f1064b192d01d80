package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoordinatorFlagLifecycle(t *testing.T) {
	c := NewLogoutCoordinator(20 * time.Millisecond)

	assert.False(t, c.IsLoggingOut())

	c.Begin()
	assert.True(t, c.IsLoggingOut(), "flag is up synchronously")

	c.Settle()
	assert.True(t, c.IsLoggingOut(), "flag stays up through the grace window")

	assert.Eventually(t, func() bool { return !c.IsLoggingOut() },
		time.Second, 2*time.Millisecond)
}

func TestCoordinatorOverlappingLogoutExtendsWindow(t *testing.T) {
	c := NewLogoutCoordinator(20 * time.Millisecond)

	c.Begin()
	c.Settle()

	// A second logout before the window elapses cancels the pending reset.
	c.Begin()
	time.Sleep(35 * time.Millisecond)
	assert.True(t, c.IsLoggingOut(), "reset from the first logout must not fire")

	c.Settle()
	assert.Eventually(t, func() bool { return !c.IsLoggingOut() },
		time.Second, 2*time.Millisecond)
}

func TestCoordinatorSettleWithoutBeginIsNoop(t *testing.T) {
	c := NewLogoutCoordinator(5 * time.Millisecond)
	c.Settle()
	time.Sleep(15 * time.Millisecond)
	assert.False(t, c.IsLoggingOut())
}

func TestCoordinatorSubscribersSeeTransitions(t *testing.T) {
	c := NewLogoutCoordinator(10 * time.Millisecond)
	ch := c.Subscribe()

	c.Begin()
	select {
	case v := <-ch:
		assert.True(t, v)
	case <-time.After(time.Second):
		t.Fatal("no begin notification")
	}

	c.Settle()
	select {
	case v := <-ch:
		assert.False(t, v)
	case <-time.After(time.Second):
		t.Fatal("no settle notification")
	}
}

func TestCoordinatorSlowSubscriberSeesLatestValue(t *testing.T) {
	c := NewLogoutCoordinator(5 * time.Millisecond)
	ch := c.Subscribe()

	c.Begin()
	c.Settle()
	require.Eventually(t, func() bool { return !c.IsLoggingOut() },
		time.Second, time.Millisecond)

	// The buffered channel was never drained; the stale true was replaced.
	v := <-ch
	assert.False(t, v)
}

func TestCoordinatorZeroGraceUsesDefault(t *testing.T) {
	c := NewLogoutCoordinator(0)
	assert.Equal(t, DefaultSettleWindow, c.grace)
}
