package sysfs

import (
	"errors"
	"os"
	"path"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestSysfs creates an in-memory sysfs with the given attribute contents.
func newTestSysfs(t *testing.T, attrs map[string]string) (*Sysfs, afero.Fs) {
	t.Helper()

	fs := afero.NewMemMapFs()
	for p, v := range attrs {
		require.NoError(t, afero.WriteFile(fs, p, []byte(v), 0o644))
	}

	return New(fs, "/"), fs
}

func readAttr(t *testing.T, fs afero.Fs, p string) string {
	t.Helper()

	b, err := afero.ReadFile(fs, p)
	require.NoError(t, err)

	return string(b)
}

func TestChargeThresholds(t *testing.T) {
	s, fs := newTestSysfs(t, map[string]string{
		BatStartThresholdPath: "40\n",
		BatEndThresholdPath:   "90\n",
	})

	th, err := s.ChargeThresholds()
	require.NoError(t, err)
	assert.Equal(t, ChargeThresholds{Start: 40, End: 90}, th)

	require.NoError(t, s.SetChargeThresholds(ChargeThresholds{Start: 95, End: 100}))
	assert.Equal(t, "95\n", readAttr(t, fs, BatStartThresholdPath))
	assert.Equal(t, "100\n", readAttr(t, fs, BatEndThresholdPath))

	require.NoError(t, s.SetChargeThresholds(ChargeThresholds{Start: 20, End: 60}))
	th, err = s.ChargeThresholds()
	require.NoError(t, err)
	assert.Equal(t, ChargeThresholds{Start: 20, End: 60}, th)
}

func TestChargeThresholds_Normalize(t *testing.T) {
	assert.Equal(t, ChargeThresholds{Start: 10, End: 11}, ChargeThresholds{Start: 0, End: 0}.Normalize())
	assert.Equal(t, ChargeThresholds{Start: 99, End: 100}, ChargeThresholds{Start: 150, End: 50}.Normalize())
	assert.Equal(t, ChargeThresholds{Start: 40, End: 90}, ChargeThresholds{Start: 40, End: 90}.Normalize())
}

func TestSetChargeThresholds_Rejected(t *testing.T) {
	s, fs := newTestSysfs(t, map[string]string{
		BatStartThresholdPath: "40\n",
		BatEndThresholdPath:   "90\n",
	})

	err := s.SetChargeThresholds(ChargeThresholds{Start: 5, End: 90})
	require.ErrorIs(t, err, ErrOutOfRange)
	err = s.SetChargeThresholds(ChargeThresholds{Start: 50, End: 50})
	require.ErrorIs(t, err, ErrOutOfRange)
	assert.Equal(t, "40\n", readAttr(t, fs, BatStartThresholdPath))
}

func TestPowerLimits(t *testing.T) {
	s, fs := newTestSysfs(t, map[string]string{
		CPUPL1Path: "15000000\n",
		CPUPL2Path: "20000000\n",
	})

	l, err := s.PowerLimits()
	require.NoError(t, err)
	assert.InDelta(t, 15.0, l.PL1, 1e-9)
	assert.InDelta(t, 20.0, l.PL2, 1e-9)

	require.NoError(t, s.SetPowerLimits(PowerLimits{PL1: 12.5, PL2: 28}))
	assert.Equal(t, "12500000\n", readAttr(t, fs, CPUPL1Path))
	assert.Equal(t, "28000000\n", readAttr(t, fs, CPUPL2Path))

	require.ErrorIs(t, s.SetPowerLimits(PowerLimits{PL1: 4, PL2: 20}), ErrOutOfRange)
	require.ErrorIs(t, s.SetPowerLimits(PowerLimits{PL1: 15, PL2: 41}), ErrOutOfRange)
}

func TestBrightness(t *testing.T) {
	dir := LEDs["kbd_backlight"]
	s, fs := newTestSysfs(t, map[string]string{
		path.Join(dir, "brightness"):     "1\n",
		path.Join(dir, "max_brightness"): "2\n",
	})

	cur, maxB, err := s.Brightness("kbd_backlight")
	require.NoError(t, err)
	assert.Equal(t, int64(1), cur)
	assert.Equal(t, int64(2), maxB)

	require.NoError(t, s.SetBrightness("kbd_backlight", 2))
	assert.Equal(t, "2\n", readAttr(t, fs, path.Join(dir, "brightness")))

	require.ErrorIs(t, s.SetBrightness("kbd_backlight", 3), ErrOutOfRange)

	_, _, err = s.Brightness("purple")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown LED")
}

func TestReadInt_Missing(t *testing.T) {
	s, _ := newTestSysfs(t, nil)

	_, err := s.ReadInt(CPUPL1Path)
	require.Error(t, err)
	require.Error(t, s.WriteInt(CPUPL1Path, 1))
}

func TestLEDNames(t *testing.T) {
	assert.Equal(t, []string{"airplane", "blue", "green", "kbd_backlight", "red"}, LEDNames())
}

// closeErrFs returns files whose Close fails.
type closeErrFs struct {
	afero.Fs
}

func (fs closeErrFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	f, err := fs.Fs.OpenFile(name, flag, perm)
	if err != nil {
		return nil, err
	}

	return closeErrFile{f}, nil
}

type closeErrFile struct {
	afero.File
}

func (f closeErrFile) Close() error {
	_ = f.File.Close()
	return errors.New("deferred write failed")
}

func TestWriteInt_CloseError(t *testing.T) {
	_, mem := newTestSysfs(t, map[string]string{BatEndThresholdPath: "90\n"})
	s := New(closeErrFs{mem}, "/")

	err := s.WriteInt(BatEndThresholdPath, 80)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "close")
}
