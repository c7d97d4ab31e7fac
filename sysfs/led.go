package sysfs

import (
	"fmt"
	"path"
	"sort"
)

// LEDs exposes the LED class devices by short name.
var LEDs = map[string]string{
	"red":           "/sys/class/leds/red:status",
	"green":         "/sys/class/leds/green:status",
	"blue":          "/sys/class/leds/blue:status",
	"airplane":      "/sys/class/leds/librem_ec:airplane",
	"kbd_backlight": "/sys/class/leds/librem_ec:kbd_backlight",
}

// LEDNames returns the known LED names in sorted order.
func LEDNames() []string {
	names := make([]string, 0, len(LEDs))
	for name := range LEDs {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

func ledDir(name string) (string, error) {
	dir, ok := LEDs[name]
	if !ok {
		return "", fmt.Errorf("sysfs: unknown LED %q", name)
	}

	return dir, nil
}

// Brightness returns the current and maximum brightness of an LED.
func (s *Sysfs) Brightness(name string) (cur, maxBrightness int64, err error) {
	dir, err := ledDir(name)
	if err != nil {
		return 0, 0, err
	}
	if cur, err = s.ReadInt(path.Join(dir, "brightness")); err != nil {
		return 0, 0, err
	}
	if maxBrightness, err = s.ReadInt(path.Join(dir, "max_brightness")); err != nil {
		return 0, 0, err
	}

	return cur, maxBrightness, nil
}

// SetBrightness sets an LED brightness within [0, max_brightness].
func (s *Sysfs) SetBrightness(name string, v int64) error {
	dir, err := ledDir(name)
	if err != nil {
		return err
	}

	maxBrightness, err := s.ReadInt(path.Join(dir, "max_brightness"))
	if err != nil {
		return err
	}
	if v < 0 || v > maxBrightness {
		return fmt.Errorf("%w: brightness %d not in [0, %d]", ErrOutOfRange, v, maxBrightness)
	}

	return s.WriteInt(path.Join(dir, "brightness"), v)
}
