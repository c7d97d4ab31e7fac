package sysfs

import "fmt"

// Battery charge control attributes.
const (
	BatStartThresholdPath = "/sys/class/power_supply/BAT0/charge_control_start_threshold"
	BatEndThresholdPath   = "/sys/class/power_supply/BAT0/charge_control_end_threshold"
)

// Charge threshold bounds in percent.
const (
	MinStartThreshold = 10
	MaxStartThreshold = 99
	MaxEndThreshold   = 100
)

// ChargeThresholds holds the battery charge window in percent.
type ChargeThresholds struct {
	Start int
	End   int
}

// Normalize clamps Start to [10, 99] and raises End to at least Start+1.
func (t ChargeThresholds) Normalize() ChargeThresholds {
	t.Start = min(max(t.Start, MinStartThreshold), MaxStartThreshold)
	t.End = min(max(t.End, t.Start+1), MaxEndThreshold)

	return t
}

// ChargeThresholds reads the current battery charge window.
func (s *Sysfs) ChargeThresholds() (ChargeThresholds, error) {
	start, err := s.ReadInt(BatStartThresholdPath)
	if err != nil {
		return ChargeThresholds{}, err
	}
	end, err := s.ReadInt(BatEndThresholdPath)
	if err != nil {
		return ChargeThresholds{}, err
	}

	return ChargeThresholds{Start: int(start), End: int(end)}, nil
}

// SetChargeThresholds writes a charge window. Values outside the hardware
// bounds are rejected; use Normalize to clamp them first.
//
// The kernel rejects a start above the current end, so the attributes are
// written in the order that keeps the window valid.
func (s *Sysfs) SetChargeThresholds(t ChargeThresholds) error {
	if t != t.Normalize() {
		return fmt.Errorf("%w: charge window %d-%d", ErrOutOfRange, t.Start, t.End)
	}

	cur, err := s.ChargeThresholds()
	if err != nil {
		return err
	}

	if t.Start >= cur.End {
		if err := s.WriteInt(BatEndThresholdPath, int64(t.End)); err != nil {
			return err
		}
		return s.WriteInt(BatStartThresholdPath, int64(t.Start))
	}

	if err := s.WriteInt(BatStartThresholdPath, int64(t.Start)); err != nil {
		return err
	}

	return s.WriteInt(BatEndThresholdPath, int64(t.End))
}
