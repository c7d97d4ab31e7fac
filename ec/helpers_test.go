package ec

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nica-f/librem-control/internal/ecsim"
)

// fakeClock records poll sleeps instead of sleeping.
type fakeClock struct {
	sleeps int
	total  time.Duration
}

func (c *fakeClock) Sleep(d time.Duration) {
	c.sleeps++
	c.total += d
}

// newTestController creates a Controller on a simulated EC with a fake clock.
func newTestController(t *testing.T, sim *ecsim.EC, opts ...Option) (*Controller, *fakeClock) {
	t.Helper()

	clock := &fakeClock{}
	defaults := []Option{WithSleepFunc(clock.Sleep)}

	c, err := New(sim, append(defaults, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	return c, clock
}
