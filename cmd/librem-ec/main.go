// Command librem-ec queries and configures the Librem embedded controller.
//
// Usage:
//
//	librem-ec [flags] <command> [args]
//
// Commands:
//
//	info                  Print EC board and version strings
//	probe                 Check the EC command protocol signature
//	spi-dump              Print the start of the scratch/backup SPI region
//	console               Print the EC debug console region
//	battery [start end]   Show or set battery charge thresholds (percent)
//	power [pl1 pl2]       Show or set CPU package power limits (watts)
//	led [name [value]]    List LEDs, show or set LED brightness
//
// Flags:
//
//	-config string     YAML configuration file
//	-log-level string  Log level: debug, info, warn, error (default "warn")
//	-format string     Output format: text, yaml, cbor (default "text")
//	-simulate          Talk to a simulated EC instead of /dev/port
//	-sysfs-root string Root directory for sysfs attributes (default "/")
//
// EC commands require root privileges and a Librem EC ACPI device.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/nica-f/librem-control/logger"
	"github.com/nica-f/librem-control/report"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// errUsage marks command line errors that print the usage text.
var errUsage = errors.New("usage")

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("librem-ec", flag.ContinueOnError)
	fs.SetOutput(stderr)

	cfg := DefaultConfig()
	configPath := fs.String("config", "", "YAML configuration file")
	logLevel := fs.String("log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	format := fs.String("format", cfg.Format, "output format: text, yaml, cbor")
	simulate := fs.Bool("simulate", false, "talk to a simulated EC")
	sysfsRoot := fs.String("sysfs-root", cfg.SysfsRoot, "root directory for sysfs attributes")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: librem-ec [flags] info|probe|spi-dump|console|battery|power|led [args]")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *configPath != "" {
		if err := LoadConfigFile(&cfg, *configPath); err != nil {
			fmt.Fprintln(stderr, "librem-ec:", err)
			return 1
		}
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "log-level":
			cfg.LogLevel = *logLevel
		case "format":
			cfg.Format = *format
		case "simulate":
			cfg.Simulate = *simulate
		case "sysfs-root":
			cfg.SysfsRoot = *sysfsRoot
		}
	})

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(stderr, "librem-ec:", err)
		return 2
	}
	log := logger.NewSlogWriter(stderr, level, false)
	logger.SetLogger(log)

	outFormat, err := report.ParseFormat(cfg.Format)
	if err != nil {
		fmt.Fprintln(stderr, "librem-ec:", err)
		return 2
	}

	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	a := &app{cfg: cfg, log: log, out: stdout, format: outFormat}
	if err := a.dispatch(fs.Arg(0), fs.Args()[1:]); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(stderr, "librem-ec:", err)
			fs.Usage()
			return 2
		}
		log.Error("command failed", "command", fs.Arg(0), "error", err)
		fmt.Fprintln(stderr, "librem-ec:", err)
		return 1
	}

	return 0
}
