package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/afero"

	"github.com/nica-f/librem-control/ec"
	"github.com/nica-f/librem-control/internal/ecsim"
	"github.com/nica-f/librem-control/logger"
	"github.com/nica-f/librem-control/port"
	"github.com/nica-f/librem-control/report"
	"github.com/nica-f/librem-control/spi"
	"github.com/nica-f/librem-control/sysfs"
)

type app struct {
	cfg    Config
	log    logger.Logger
	out    io.Writer
	format report.Format
}

func (a *app) dispatch(cmd string, args []string) error {
	switch cmd {
	case "info":
		return a.withController(a.info)
	case "probe":
		return a.withController(a.probe)
	case "spi-dump":
		return a.spiDump(args)
	case "console":
		return a.withController(a.console)
	case "battery":
		return a.battery(args)
	case "power":
		return a.power(args)
	case "led":
		return a.led(args)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

// withController opens the EC, runs fn and closes the EC again.
func (a *app) withController(fn func(c *ec.Controller) error) error {
	var t port.Transport
	if a.cfg.Simulate {
		t = ecsim.NewLibrem()
	} else {
		p, err := port.Open(append(a.cfg.portOptions(), port.WithLogger(a.log))...)
		if err != nil {
			return err
		}
		t = p
	}

	c, err := ec.New(t, append(a.cfg.ecOptions(), ec.WithLogger(a.log))...)
	if err != nil {
		_ = t.Close()
		return err
	}
	defer c.Close()

	err = fn(c)

	m := c.Metrics()
	a.log.Debug("ec metrics",
		"commands", m.CommandCount.Load(),
		"polls", m.PollCount.Load(),
		"timeouts", m.TimeoutCount.Load(),
		"io_errors", m.IOErrCount.Load(),
	)

	return err
}

func (a *app) info(c *ec.Controller) error {
	var proto uint8
	if info, err := c.Probe(); err != nil {
		a.log.Warn("probe failed", "error", err)
	} else {
		proto = info.Version
	}

	id, err := c.Identify()
	if encErr := report.Encode(a.out, a.format, report.NewIdentity(id, proto)); encErr != nil {
		return encErr
	}

	return err
}

func (a *app) probe(c *ec.Controller) error {
	info, err := c.Probe()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(a.out, "Librem EC protocol version %d\n", info.Version)

	return err
}

func (a *app) spiDump(args []string) error {
	fs := flag.NewFlagSet("spi-dump", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	addr := fs.Uint("addr", 0, "flash address")
	length := fs.Int("len", spi.DumpSize, "number of bytes")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}

	req := spi.DumpRequest()
	req.Address = uint32(*addr)

	return a.withController(func(c *ec.Controller) error {
		data, err := spi.New(c).Read(req, *length)
		if err != nil {
			return err
		}
		return report.Encode(a.out, a.format, report.NewFlashDump(req, data))
	})
}

func (a *app) console(c *ec.Controller) error {
	raw, err := c.ReadConsole()
	if err != nil {
		return err
	}

	return report.Encode(a.out, a.format, report.NewConsole(raw))
}

func (a *app) sysfs() *sysfs.Sysfs {
	return sysfs.New(afero.NewOsFs(), a.cfg.SysfsRoot)
}

func (a *app) battery(args []string) error {
	s := a.sysfs()
	switch len(args) {
	case 0:
		th, err := s.ChargeThresholds()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(a.out, "start %d%%\nend   %d%%\n", th.Start, th.End)
		return err
	case 2:
		start, err1 := strconv.Atoi(args[0])
		end, err2 := strconv.Atoi(args[1])
		if err := errors.Join(err1, err2); err != nil {
			return fmt.Errorf("%w: battery thresholds: %w", errUsage, err)
		}
		th := sysfs.ChargeThresholds{Start: start, End: end}
		if n := th.Normalize(); n != th {
			a.log.Info("charge thresholds adjusted", "start", n.Start, "end", n.End)
			th = n
		}
		return s.SetChargeThresholds(th)
	default:
		return fmt.Errorf("%w: battery takes 0 or 2 arguments", errUsage)
	}
}

func (a *app) power(args []string) error {
	s := a.sysfs()
	switch len(args) {
	case 0:
		l, err := s.PowerLimits()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(a.out, "PL1 %.1f W\nPL2 %.1f W\n", l.PL1, l.PL2)
		return err
	case 2:
		pl1, err1 := strconv.ParseFloat(args[0], 64)
		pl2, err2 := strconv.ParseFloat(args[1], 64)
		if err := errors.Join(err1, err2); err != nil {
			return fmt.Errorf("%w: power limits: %w", errUsage, err)
		}
		return s.SetPowerLimits(sysfs.PowerLimits{PL1: pl1, PL2: pl2})
	default:
		return fmt.Errorf("%w: power takes 0 or 2 arguments", errUsage)
	}
}

func (a *app) led(args []string) error {
	s := a.sysfs()
	switch len(args) {
	case 0:
		for _, name := range sysfs.LEDNames() {
			if _, err := fmt.Fprintln(a.out, name); err != nil {
				return err
			}
		}
		return nil
	case 1:
		cur, maxB, err := s.Brightness(args[0])
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(a.out, "%s %d/%d\n", args[0], cur, maxB)
		return err
	case 2:
		v, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("%w: brightness: %w", errUsage, err)
		}
		return s.SetBrightness(args[0], v)
	default:
		return fmt.Errorf("%w: led takes at most 2 arguments", errUsage)
	}
}
