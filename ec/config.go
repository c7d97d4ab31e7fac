package ec

import (
	"errors"
	"fmt"
	"time"

	"github.com/nica-f/librem-control/logger"
	"github.com/nica-f/librem-control/protocol"
)

// Poll budget for the Cmd register handshake.
const (
	DefaultPollAttempts = 100
	DefaultPollInterval = 100 * time.Microsecond

	MinPollAttempts = 1
	MaxPollAttempts = 100_000

	MaxPollInterval = 100 * time.Millisecond
)

// Config holds the Controller configuration.
type Config struct {
	pollAttempts int
	pollInterval time.Duration
	sleep        func(time.Duration)
	layout       protocol.Layout
	logger       logger.Logger
}

// NewConfig creates a configuration with defaults, then applies opts in order.
func NewConfig(opts ...Option) (*Config, error) {
	cfg := &Config{
		pollAttempts: DefaultPollAttempts,
		pollInterval: DefaultPollInterval,
		sleep:        time.Sleep,
		layout:       protocol.DefaultLayout,
		logger:       logger.GetLogger(),
	}

	for _, opt := range opts {
		if err := opt.apply(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// PollAttempts returns the maximum number of Cmd register reads per command.
func (cfg *Config) PollAttempts() int { return cfg.pollAttempts }

// PollInterval returns the sleep between Cmd register reads.
func (cfg *Config) PollInterval() time.Duration { return cfg.pollInterval }

// Layout returns the command region layout.
func (cfg *Config) Layout() protocol.Layout { return cfg.layout }

// GetLogger returns the configured logger.
func (cfg *Config) GetLogger() logger.Logger { return cfg.logger }

// Option is a functional option for configuring a Controller.
type Option interface {
	apply(*Config) error
}

type optFunc func(*Config) error

func (f optFunc) apply(cfg *Config) error { return f(cfg) }

// WithPollAttempts sets the maximum number of Cmd register reads per command.
func WithPollAttempts(n int) Option {
	return optFunc(func(cfg *Config) error {
		if n < MinPollAttempts || n > MaxPollAttempts {
			return fmt.Errorf("ec: poll attempts %d out of range [%d, %d]", n, MinPollAttempts, MaxPollAttempts)
		}
		cfg.pollAttempts = n
		return nil
	})
}

// WithPollInterval sets the sleep between Cmd register reads.
// Zero disables sleeping.
func WithPollInterval(d time.Duration) Option {
	return optFunc(func(cfg *Config) error {
		if d < 0 || d > MaxPollInterval {
			return fmt.Errorf("ec: poll interval %v out of range [0, %v]", d, MaxPollInterval)
		}
		cfg.pollInterval = d
		return nil
	})
}

// WithSleepFunc replaces time.Sleep in the poll loop, typically with a fake clock in tests.
func WithSleepFunc(sleep func(time.Duration)) Option {
	return optFunc(func(cfg *Config) error {
		if sleep == nil {
			return errors.New("ec: nil sleep function")
		}
		cfg.sleep = sleep
		return nil
	})
}

// WithLayout sets the command region layout. Default is protocol.DefaultLayout.
func WithLayout(l protocol.Layout) Option {
	return optFunc(func(cfg *Config) error {
		if err := l.Validate(); err != nil {
			return err
		}
		cfg.layout = l
		return nil
	})
}

// WithLogger sets the logger. Default is logger.GetLogger().
func WithLogger(l logger.Logger) Option {
	return optFunc(func(cfg *Config) error {
		if l == nil {
			return errors.New("ec: nil logger")
		}
		cfg.logger = l
		return nil
	})
}
