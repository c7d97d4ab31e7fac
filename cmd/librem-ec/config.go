package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nica-f/librem-control/ec"
	"github.com/nica-f/librem-control/port"
	"github.com/nica-f/librem-control/protocol"
)

// Config holds the librem-ec settings. An empty port and a zero
// poll_attempts or command_base fall back to defaults. A zero poll_interval
// disables sleeping between polls.
type Config struct {
	Port         string        `yaml:"port"`
	DevicePaths  []string      `yaml:"device_paths"`
	Lock         bool          `yaml:"lock"`
	CommandBase  int64         `yaml:"command_base"`
	PollAttempts int           `yaml:"poll_attempts"`
	PollInterval time.Duration `yaml:"poll_interval"`
	SysfsRoot    string        `yaml:"sysfs_root"`
	LogLevel     string        `yaml:"log_level"`
	Format       string        `yaml:"format"`
	Simulate     bool          `yaml:"simulate"`
}

// DefaultConfig returns the settings for a live Librem system.
func DefaultConfig() Config {
	return Config{
		Port:         port.DefaultPath,
		DevicePaths:  port.DefaultDevicePaths,
		Lock:         true,
		CommandBase:  protocol.CommandBase,
		PollAttempts: ec.DefaultPollAttempts,
		PollInterval: ec.DefaultPollInterval,
		SysfsRoot:    "/",
		LogLevel:     "warn",
		Format:       "text",
	}
}

// LoadConfigFile overlays the YAML file at path onto cfg.
func LoadConfigFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	return nil
}

// ecOptions converts the settings into controller options.
func (c Config) ecOptions() []ec.Option {
	opts := []ec.Option{ec.WithPollInterval(c.PollInterval)}
	if c.PollAttempts != 0 {
		opts = append(opts, ec.WithPollAttempts(c.PollAttempts))
	}
	if c.CommandBase != 0 {
		opts = append(opts, ec.WithLayout(protocol.Layout{Base: c.CommandBase, Size: protocol.CommandRegionSize}))
	}

	return opts
}

// portOptions converts the settings into port options.
func (c Config) portOptions() []port.Option {
	opts := []port.Option{
		port.WithDevicePaths(c.DevicePaths...),
		port.WithLock(c.Lock),
	}
	if c.Port != "" {
		opts = append(opts, port.WithPath(c.Port))
	}

	return opts
}
