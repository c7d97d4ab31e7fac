package ec

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nica-f/librem-control/internal/ecsim"
	"github.com/nica-f/librem-control/protocol"
)

func TestBoard_Scenario(t *testing.T) {
	sim := ecsim.New(ecsim.WithBoard("BoardXYZ"))
	c, _ := newTestController(t, sim)

	data, err := c.Board()
	require.NoError(t, err)

	assert.Equal(t, 1, sim.CmdReads())
	assert.Len(t, data, protocol.CommandRegionSize-2)
	assert.Equal(t, []byte("BoardXYZ"), data[:8])
	assert.Equal(t, byte(0), data[8])
	assert.Equal(t, "BoardXYZ", protocol.CString(data))
}

func TestVersion(t *testing.T) {
	sim := ecsim.New(ecsim.WithVersion("0.1.0"), ecsim.WithBusyPolls(4))
	c, _ := newTestController(t, sim)

	data, err := c.Version()
	require.NoError(t, err)
	assert.Equal(t, "0.1.0", protocol.CString(data))
	assert.Equal(t, uint64(1), c.Metrics().CommandCountOf(protocol.CmdVersion))
}

func TestBoard_TimeoutSkipsDataRead(t *testing.T) {
	sim := ecsim.New(ecsim.WithStuck(), ecsim.WithBoard("BoardXYZ"))
	c, _ := newTestController(t, sim)

	data, err := c.Board()
	require.ErrorIs(t, err, ErrTimeout)
	assert.Nil(t, data)
	assert.Equal(t, 0, sim.DataReads())
}

func TestBoard_ShortReadReturnsNothing(t *testing.T) {
	sim := ecsim.New(ecsim.WithBoard("BoardXYZ"), ecsim.WithShortRead(1))
	c, _ := newTestController(t, sim)

	data, err := c.Board()
	require.Error(t, err)
	assert.Nil(t, data)
}

func TestIdentify(t *testing.T) {
	sim := ecsim.New(ecsim.WithBoard("purism/librem_14"), ecsim.WithVersion("0.1.0"))
	c, _ := newTestController(t, sim)

	id, err := c.Identify()
	require.NoError(t, err)
	assert.Equal(t, Identity{Board: "purism/librem_14", Version: "0.1.0"}, id)
}

func TestIdentify_FailureLeavesFieldsEmpty(t *testing.T) {
	sim := ecsim.New(ecsim.WithBoard("purism/librem_14"), ecsim.WithVersion("0.1.0"))
	c, _ := newTestController(t, sim)

	require.NoError(t, c.Close())
	id, err := c.Identify()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "board")
	assert.Empty(t, id.Board)
	assert.Empty(t, id.Version)
}

// failingCmdWrite fails the n-th write to the Cmd register.
type failingCmdWrite struct {
	*ecsim.EC
	n      int
	writes int
}

func (f *failingCmdWrite) WriteAt(b []byte, off int64) (int, error) {
	if off == protocol.CommandBase+protocol.CmdOffset {
		f.writes++
		if f.writes == f.n {
			return 0, errors.New("cmd write failed")
		}
	}

	return f.EC.WriteAt(b, off)
}

func TestIdentify_VersionFailureKeepsBoard(t *testing.T) {
	sim := ecsim.New(ecsim.WithBoard("purism/librem_14"), ecsim.WithVersion("0.1.0"))
	c, err := New(&failingCmdWrite{EC: sim, n: 2}, WithSleepFunc(func(time.Duration) {}))
	require.NoError(t, err)

	id, err := c.Identify()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "version")
	assert.Equal(t, "purism/librem_14", id.Board)
	assert.Empty(t, id.Version)
	assert.Equal(t, 1, sim.DataReads())
}

func TestProbe(t *testing.T) {
	sim := ecsim.New()
	c, _ := newTestController(t, sim)

	info, err := c.Probe()
	require.NoError(t, err)
	assert.Equal(t, uint8(1), info.Version)
	assert.Equal(t, 3, sim.LastDataReadLen())
}

func TestProbe_BadSignature(t *testing.T) {
	sim := ecsim.New(ecsim.WithHandler(protocol.CmdProbe, ecsim.StringHandler("xyz")))
	c, _ := newTestController(t, sim)

	_, err := c.Probe()
	require.ErrorIs(t, err, ErrBadProbe)
}

func TestProbe_SmallDataWindow(t *testing.T) {
	layout := protocol.Layout{Base: protocol.CommandBase, Size: protocol.DataOffset + 1}
	sim := ecsim.New(ecsim.WithLayout(layout))
	c, _ := newTestController(t, sim, WithLayout(layout))

	var err error
	require.NotPanics(t, func() { _, err = c.Probe() })
	require.ErrorIs(t, err, ErrBadProbe)
}

func TestReadConsole(t *testing.T) {
	sim := ecsim.New(ecsim.WithConsole("librem_ec: ready\n"))
	c, _ := newTestController(t, sim)

	data, err := c.ReadConsole()
	require.NoError(t, err)
	assert.Len(t, data, protocol.DebugSize)
	assert.Equal(t, "librem_ec: ready\n", protocol.CString(data))
}

func TestReadConsole_MovedCommandRegion(t *testing.T) {
	layout := protocol.Layout{Base: 0x200, Size: protocol.CommandRegionSize}
	sim := ecsim.New(ecsim.WithLayout(layout), ecsim.WithConsole("librem_ec: ready\n"))
	c, _ := newTestController(t, sim, WithLayout(layout))

	data, err := c.ReadConsole()
	require.NoError(t, err)
	assert.Equal(t, "librem_ec: ready\n", protocol.CString(data))

	ops := sim.Ops()
	require.Len(t, ops, 1)
	assert.Equal(t, int64(protocol.DebugBase), ops[0].Offset)
}
