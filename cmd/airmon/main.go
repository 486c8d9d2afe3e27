// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// airmon reads an SCD30 CO2 sensor and an SGP40 VOC sensor, shows the status
// colors on the console and logs the display text.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GermanBionicSystems/airmon/ledconsole"
	"github.com/GermanBionicSystems/airmon/monitor"
	"github.com/GermanBionicSystems/airmon/panel"
	"github.com/GermanBionicSystems/airmon/scd30"
	"github.com/GermanBionicSystems/airmon/sgp40"
	log "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

var (
	busName    = flag.String("bus", "", "I²C bus name, empty for the first one")
	co2Addr    = flag.Uint("co2-addr", uint(scd30.DefaultAddress), "SCD30 address")
	vocAddr    = flag.Uint("voc-addr", uint(sgp40.DefaultAddress), "SGP40 address")
	pressure   = flag.Uint("pressure", 0, "ambient pressure in mbar, 0 disables compensation")
	tempOffset = flag.Float64("temp-offset", -1, "SCD30 temperature offset in °C, negative keeps the stored one")
	interval   = flag.Duration("interval", monitor.DefaultConfig.Interval, "time between two cycles")
	poll       = flag.Duration("poll", monitor.DefaultConfig.PollInterval, "time between two data ready checks")
	vocPeriod  = flag.Duration("voc-interval", monitor.DefaultConfig.VOCInterval, "time between two VOC samples, 0 samples once per cycle")
	strictCRC  = flag.Bool("strict-crc", false, "reject sensor responses with a bad checksum")
	leds       = flag.Bool("leds", true, "show the status LEDs on the console")
	panelPNG   = flag.String("panel-png", "", "write the display frame to this PNG file every cycle")
	verbose    = flag.Bool("v", false, "verbose logging")
)

// textLog logs the display lines and optionally renders them to a PNG.
type textLog struct {
	r    *panel.Renderer
	path string
}

func (t *textLog) ShowLines(lines ...string) error {
	log.WithField("lines", lines).Info("display")
	if t.r == nil {
		return nil
	}
	return t.r.SavePNG(t.path, lines...)
}

func mainImpl() error {
	flag.Parse()
	if flag.NArg() != 0 {
		return fmt.Errorf("unexpected argument: %q", flag.Args())
	}
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	if *verbose {
		log.SetLevel(log.DebugLevel)
	}
	if *pressure > 0xffff {
		return fmt.Errorf("-pressure %d is out of range", *pressure)
	}

	if _, err := host.Init(); err != nil {
		return err
	}
	bus, err := i2creg.Open(*busName)
	if err != nil {
		return err
	}
	defer bus.Close()

	co2, err := scd30.New(bus, &scd30.Opts{Addr: uint16(*co2Addr), StrictCRC: *strictCRC})
	if err != nil {
		return err
	}
	defer co2.Halt()
	voc, err := sgp40.New(bus, &sgp40.Opts{Addr: uint16(*vocAddr), StrictCRC: *strictCRC})
	if err != nil {
		return err
	}
	defer voc.Halt()
	if serial, err := voc.SerialNumber(); err != nil {
		log.WithError(err).Warn("reading voc sensor serial number")
	} else {
		log.WithField("serial", fmt.Sprintf("0x%012x", serial)).Info("voc sensor found")
	}

	var ledSink monitor.LEDSink
	if *leds {
		d, err := ledconsole.New(&ledconsole.Opts{Labels: []string{"CO2", "VOC", "T"}})
		if err != nil {
			return err
		}
		defer d.Halt()
		ledSink = d
	}
	text := &textLog{path: *panelPNG}
	if *panelPNG != "" {
		if text.r, err = panel.New(nil); err != nil {
			return err
		}
	}

	cfg := monitor.DefaultConfig
	cfg.PressureMbar = uint16(*pressure)
	cfg.Interval = *interval
	cfg.PollInterval = *poll
	cfg.VOCInterval = *vocPeriod
	if *tempOffset >= 0 {
		o := float32(*tempOffset)
		cfg.TemperatureOffset = &o
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	start := time.Now()
	err = monitor.New(cfg, co2, voc, ledSink, text, log.StandardLogger()).Run(ctx)
	log.WithField("uptime", time.Since(start).Round(time.Second)).Info("stopped")
	return err
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "airmon: %s.\n", err)
		os.Exit(1)
	}
}
