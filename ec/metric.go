package ec

import (
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/nica-f/librem-control/protocol"
)

// Metrics contains atomic counters for a Controller.
// Metrics can be used as the value of a prometheus CounterFunc or GaugeFunc.
type Metrics struct {
	// CommandCount indicates the number of commands written to the Cmd register.
	CommandCount atomic.Uint64
	// PollCount indicates the number of Cmd register reads while waiting for idle.
	PollCount atomic.Uint64
	// TimeoutCount indicates the number of commands that exhausted the poll budget.
	TimeoutCount atomic.Uint64
	// IOErrCount indicates the number of failed or short transfers.
	IOErrCount atomic.Uint64
	// BytesIn indicates the number of payload bytes read from the data window.
	BytesIn atomic.Uint64
	// BytesOut indicates the number of payload bytes staged in the data window.
	BytesOut atomic.Uint64

	perCommand *xsync.MapOf[protocol.CommandCode, *atomic.Uint64]
}

func newMetrics() *Metrics {
	return &Metrics{
		perCommand: xsync.NewMapOf[protocol.CommandCode, *atomic.Uint64](),
	}
}

// CommandCountOf returns the number of times code was issued.
func (m *Metrics) CommandCountOf(code protocol.CommandCode) uint64 {
	if c, ok := m.perCommand.Load(code); ok {
		return c.Load()
	}

	return 0
}

// CommandCounts returns a snapshot of per-command issue counts.
func (m *Metrics) CommandCounts() map[protocol.CommandCode]uint64 {
	out := make(map[protocol.CommandCode]uint64, m.perCommand.Size())
	m.perCommand.Range(func(code protocol.CommandCode, c *atomic.Uint64) bool {
		out[code] = c.Load()
		return true
	})

	return out
}

func (m *Metrics) incCommandCount(code protocol.CommandCode) {
	m.CommandCount.Add(1)
	c, _ := m.perCommand.LoadOrCompute(code, func() *atomic.Uint64 {
		return new(atomic.Uint64)
	})
	c.Add(1)
}

func (m *Metrics) incPollCount() {
	m.PollCount.Add(1)
}

func (m *Metrics) incTimeoutCount() {
	m.TimeoutCount.Add(1)
}

func (m *Metrics) incIOErrCount() {
	m.IOErrCount.Add(1)
}

func (m *Metrics) addBytesIn(n int) {
	m.BytesIn.Add(uint64(n))
}

func (m *Metrics) addBytesOut(n int) {
	m.BytesOut.Add(uint64(n))
}
