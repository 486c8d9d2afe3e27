// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package monitor runs the poll-and-display cycle of the air-quality
// monitor: read the CO2 sensor, feed its temperature and humidity to the VOC
// sensor for compensation, and turn the results into status LED colors and
// two lines of display text.
//
// Sensor drivers never retry. Monitor is where failures are logged and the
// next cycle simply tries again.
package monitor

import (
	"context"
	"errors"
	"image/color"
	"math"
	"time"

	"github.com/GermanBionicSystems/airmon/colormap"
	"github.com/GermanBionicSystems/airmon/common"
	"github.com/GermanBionicSystems/airmon/readout"
	"github.com/GermanBionicSystems/airmon/scd30"
	"github.com/GermanBionicSystems/airmon/sgp40"
	"github.com/sirupsen/logrus"
)

// CO2Sensor is the subset of *scd30.Dev used by the monitor.
type CO2Sensor interface {
	FirmwareVersion() (scd30.FirmwareVersion, error)
	StartContinuousMeasurement(pressureMbar uint16) error
	DataReady() (bool, error)
	ReadMeasurement() (scd30.SensorReading, error)
	TemperatureOffset() (float32, error)
	SetTemperatureOffset(offsetC float32) error
}

// VOCSensor is the subset of *sgp40.Dev used by the monitor.
type VOCSensor interface {
	MeasureRawSignalCompensated(temperatureC int16, humidity uint8) (uint16, error)
	MeasureSignalCompensated(temperatureC int16, humidity uint8) (uint16, error)
	WarmedUp() bool
}

// LEDSink shows the status colors, CO2 first, then VOC and temperature.
type LEDSink interface {
	Show(colors ...color.NRGBA) error
}

// TextSink shows the display lines.
type TextSink interface {
	ShowLines(lines ...string) error
}

// Config of the monitoring cycle.
type Config struct {
	// PressureMbar is the ambient pressure used for CO2 compensation. 0
	// disables compensation.
	PressureMbar uint16
	// TemperatureOffset is written to the CO2 sensor on Start when it
	// differs from the stored one. nil keeps the stored value.
	TemperatureOffset *float32
	// Interval between two cycles.
	Interval time.Duration
	// PollInterval between two data ready checks.
	PollInterval time.Duration
	// VOCInterval between two VOC samples in Run. The gas index algorithm
	// expects one sample per second. 0 samples once per Step instead.
	VOCInterval time.Duration
	// Dim divides the LED channels.
	Dim uint8
}

// DefaultConfig matches the SCD30 default measurement interval.
var DefaultConfig = Config{
	Interval:     3 * time.Second,
	PollInterval: 100 * time.Millisecond,
	VOCInterval:  time.Second,
	Dim:          8,
}

// Compensation used for the VOC sensor when the CO2 sensor reading is not
// usable, as recommended by Sensirion.
const (
	defaultCompensationTemperature = 25
	defaultCompensationHumidity    = 50
)

// Frame is the outcome of one cycle.
type Frame struct {
	Reading scd30.SensorReading
	// VOCRaw is the latest raw VOC signal, only set when no gas index
	// algorithm is configured.
	VOCRaw *uint16
	// VOCIndex is the latest VOC index, nil until the gas index algorithm
	// warmed up.
	VOCIndex *uint16
	// LEDs holds the CO2, VOC and temperature colors.
	LEDs  []color.NRGBA
	Lines []string
}

// Monitor owns the sensors for the duration of the session.
type Monitor struct {
	cfg  Config
	co2  CO2Sensor
	voc  VOCSensor
	leds LEDSink
	text TextSink
	log  logrus.FieldLogger

	// Latest CO2 reading, used for VOC compensation.
	reading  *scd30.SensorReading
	vocRaw   *uint16
	vocIndex *uint16
}

// New returns a Monitor. leds, text and log may be nil.
func New(cfg Config, co2 CO2Sensor, voc VOCSensor, leds LEDSink, text TextSink, log logrus.FieldLogger) *Monitor {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultConfig.Interval
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultConfig.PollInterval
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Monitor{cfg: cfg, co2: co2, voc: voc, leds: leds, text: text, log: log}
}

// Start checks the CO2 sensor, applies the configured temperature offset and
// starts continuous measurement.
func (m *Monitor) Start() error {
	version, err := m.co2.FirmwareVersion()
	if err != nil {
		return err
	}
	m.log.WithField("firmware", version.String()).Info("co2 sensor found")

	if m.cfg.TemperatureOffset != nil {
		current, err := m.co2.TemperatureOffset()
		if err != nil {
			return err
		}
		want := *m.cfg.TemperatureOffset
		if current != want {
			m.log.WithFields(logrus.Fields{"current": current, "desired": want}).Info("setting temperature offset")
			if err := m.co2.SetTemperatureOffset(want); err != nil {
				return err
			}
		}
	}
	return m.co2.StartContinuousMeasurement(m.cfg.PressureMbar)
}

// Step runs one cycle. It blocks until the CO2 sensor has data; only ctx
// being done interrupts the wait.
func (m *Monitor) Step(ctx context.Context) (Frame, error) {
	var f Frame
	if err := m.waitReady(ctx); err != nil {
		return f, err
	}
	reading, err := m.co2.ReadMeasurement()
	if err != nil {
		return f, err
	}
	f.Reading = reading
	m.reading = &reading
	if m.cfg.VOCInterval <= 0 {
		m.SampleVOC()
	}
	f.VOCRaw, f.VOCIndex = m.vocRaw, m.vocIndex

	f.LEDs = m.colors(&f)
	f.Lines = Lines(&f)

	m.log.WithFields(logrus.Fields{
		"co2":         reading.CO2,
		"temperature": reading.Temperature,
		"humidity":    reading.RelHumidity,
		"voc_raw":     deref(f.VOCRaw),
		"voc_index":   deref(f.VOCIndex),
	}).Debug("measurement")

	if m.leds != nil {
		if err := m.leds.Show(f.LEDs...); err != nil {
			m.log.WithError(err).Warn("updating leds")
		}
	}
	if m.text != nil {
		if err := m.text.ShowLines(f.Lines...); err != nil {
			m.log.WithError(err).Warn("updating display")
		}
	}
	return f, nil
}

// Run calls Start, then Step every Interval until ctx is done. When
// VOCInterval is set, the VOC sensor is sampled on its own tick in between.
// Step errors are logged and the next cycle tries again.
func (m *Monitor) Run(ctx context.Context) error {
	if err := m.Start(); err != nil {
		return err
	}
	ticker := time.NewTicker(m.cfg.Interval)
	defer ticker.Stop()
	var vocTick <-chan time.Time
	if m.cfg.VOCInterval > 0 && m.voc != nil {
		t := time.NewTicker(m.cfg.VOCInterval)
		defer t.Stop()
		vocTick = t.C
		m.SampleVOC()
	}
	for {
		if _, err := m.Step(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			m.log.WithError(err).Warn("measurement cycle failed")
		}
	wait:
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-vocTick:
				m.SampleVOC()
			case <-ticker.C:
				break wait
			}
		}
	}
}

// Lines renders the two display lines of a frame. Each is 16 characters
// wide for values that fit their fields.
func Lines(f *Frame) []string {
	var voc *uint32
	if f.VOCIndex != nil {
		v := uint32(*f.VOCIndex)
		voc = &v
	}
	return []string{
		readout.Float(f.Reading.CO2, 4, 0, "ppm") + " " + readout.OptionalInteger(voc, 3, "voc"),
		readout.Float(f.Reading.Temperature, 2, 2, "C") + "  " + readout.Float(f.Reading.RelHumidity, 2, 2, "%"),
	}
}

func (m *Monitor) waitReady(ctx context.Context) error {
	for {
		ready, err := m.co2.DataReady()
		if err != nil {
			return err
		}
		if ready {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(m.cfg.PollInterval):
		}
	}
}

// SampleVOC takes one VOC sample compensated with the latest CO2 reading,
// or with 25°C and 50%rH before the first one. The result shows in the
// next Frame. Failures are logged and clear the previous value.
func (m *Monitor) SampleVOC() {
	if m.voc == nil {
		return
	}
	m.vocRaw, m.vocIndex = nil, nil
	t, h := int16(defaultCompensationTemperature), uint8(defaultCompensationHumidity)
	if m.reading != nil {
		t, h = compensation(*m.reading)
	}
	idx, err := m.voc.MeasureSignalCompensated(t, h)
	switch {
	case errors.Is(err, sgp40.ErrNoAlgorithm):
		sraw, err := m.voc.MeasureRawSignalCompensated(t, h)
		if err != nil {
			m.log.WithError(err).Warn("voc measurement failed")
			return
		}
		m.vocRaw = &sraw
	case err != nil:
		m.log.WithError(err).Warn("voc measurement failed")
	case m.voc.WarmedUp():
		m.vocIndex = &idx
	}
}

func (m *Monitor) colors(f *Frame) []color.NRGBA {
	r := f.Reading
	co2 := colormap.CO2.At(colormap.Fraction(r.CO2, colormap.CO2Min, colormap.CO2Max)).NRGBA()
	temp := colormap.Temperature.At(colormap.Fraction(r.Temperature, colormap.TemperatureMin, colormap.TemperatureMax)).NRGBA()
	voc := color.NRGBA{A: 0xff}
	if f.VOCIndex != nil {
		voc = colormap.VOC.At(colormap.Fraction(float32(*f.VOCIndex), colormap.VOCMin, colormap.VOCMax)).NRGBA()
	}
	return []color.NRGBA{
		colormap.Dim(co2, m.cfg.Dim),
		colormap.Dim(voc, m.cfg.Dim),
		colormap.Dim(temp, m.cfg.Dim),
	}
}

// compensation rounds the CO2 sensor temperature and humidity into the
// domain of the VOC compensation parameters.
func compensation(r scd30.SensorReading) (int16, uint8) {
	t := math.Round(float64(r.Temperature))
	h := math.Round(float64(r.RelHumidity))
	if math.IsNaN(t) || math.IsNaN(h) {
		return defaultCompensationTemperature, defaultCompensationHumidity
	}
	t = math.Max(common.MinTemperature, math.Min(common.MaxTemperature, t))
	h = math.Max(common.MinHumidity, math.Min(common.MaxHumidity, h))
	return int16(t), uint8(h)
}

func deref(v *uint16) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
