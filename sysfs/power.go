package sysfs

import "fmt"

// Intel RAPL package power limit attributes, in microwatts.
const (
	CPUPL1Path = "/sys/devices/virtual/powercap/intel-rapl/intel-rapl:0/constraint_0_power_limit_uw"
	CPUPL2Path = "/sys/devices/virtual/powercap/intel-rapl/intel-rapl:0/constraint_1_power_limit_uw"
)

// Power limit bounds in watts.
const (
	MinPowerLimit = 5.0
	MaxPowerLimit = 40.0
)

// PowerLimits holds the long term (PL1) and short term (PL2) limits in watts.
type PowerLimits struct {
	PL1 float64
	PL2 float64
}

// PowerLimits reads the current package power limits.
func (s *Sysfs) PowerLimits() (PowerLimits, error) {
	pl1, err := s.ReadInt(CPUPL1Path)
	if err != nil {
		return PowerLimits{}, err
	}
	pl2, err := s.ReadInt(CPUPL2Path)
	if err != nil {
		return PowerLimits{}, err
	}

	return PowerLimits{PL1: microToWatt(pl1), PL2: microToWatt(pl2)}, nil
}

// SetPowerLimits writes both package power limits.
func (s *Sysfs) SetPowerLimits(l PowerLimits) error {
	for _, w := range []float64{l.PL1, l.PL2} {
		if w < MinPowerLimit || w > MaxPowerLimit {
			return fmt.Errorf("%w: power limit %.1f W not in [%.0f, %.0f]", ErrOutOfRange, w, MinPowerLimit, MaxPowerLimit)
		}
	}

	if err := s.WriteInt(CPUPL1Path, wattToMicro(l.PL1)); err != nil {
		return err
	}

	return s.WriteInt(CPUPL2Path, wattToMicro(l.PL2))
}

func microToWatt(uw int64) float64 {
	return float64(uw) / 1e6
}

func wattToMicro(w float64) int64 {
	return int64(w*1e6 + 0.5)
}
