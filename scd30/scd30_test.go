// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package scd30

import (
	"errors"
	"testing"

	"github.com/GermanBionicSystems/airmon/common"
	"github.com/google/go-cmp/cmp"
	"periph.io/x/conn/v3/i2c/i2ctest"
	"periph.io/x/conn/v3/physic"
)

// CO2 812.5 ppm, 23.25°C, 41.75%rH.
var measurementFrame = []byte{
	0x44, 0x4b, 0x5c, 0x20, 0x00, 0x5d,
	0x41, 0xba, 0x98, 0x00, 0x00, 0x81,
	0x42, 0x27, 0xc0, 0x00, 0x00, 0x81,
}

var recordingData = map[string][]i2ctest.IO{
	"TestFirmwareVersion": {
		{Addr: DefaultAddress, W: []byte{0xd1, 0x00}},
		{Addr: DefaultAddress, R: []byte{0x03, 0x42, 0xf3}}},
	"TestStartStop": {
		{Addr: DefaultAddress, W: []byte{0x00, 0x10, 0x03, 0xf5, 0xdb}},
		{Addr: DefaultAddress, W: []byte{0x01, 0x04}}},
	"TestDataReady": {
		{Addr: DefaultAddress, W: []byte{0x02, 0x02}},
		{Addr: DefaultAddress, R: []byte{0x00, 0x00, 0x81}},
		{Addr: DefaultAddress, W: []byte{0x02, 0x02}},
		{Addr: DefaultAddress, R: []byte{0x00, 0x01, 0xb0}}},
	"TestReadMeasurement": {
		{Addr: DefaultAddress, W: []byte{0x03, 0x00}},
		{Addr: DefaultAddress, R: measurementFrame}},
	"TestTemperatureOffset": {
		{Addr: DefaultAddress, W: []byte{0x54, 0x03, 0x01, 0x74, 0x49}},
		{Addr: DefaultAddress, W: []byte{0x54, 0x03}},
		{Addr: DefaultAddress, R: []byte{0x01, 0x74, 0x49}}},
}

func getDev(t *testing.T, ops []i2ctest.IO, opts *Opts) (*Dev, *i2ctest.Playback) {
	bus := &i2ctest.Playback{Ops: ops, DontPanic: true}
	dev, err := New(bus, opts)
	if err != nil {
		t.Fatal(err)
	}
	return dev, bus
}

func closePlayback(t *testing.T, bus *i2ctest.Playback) {
	if err := bus.Close(); err != nil {
		t.Error(err)
	}
}

func TestNew(t *testing.T) {
	bus := &i2ctest.Playback{}
	if _, err := New(bus, &Opts{Addr: 0x80}); err == nil {
		t.Error("expected error for 8-bit address")
	}
	dev, err := New(bus, nil)
	if err != nil {
		t.Fatal(err)
	}
	if dev.d.Addr != DefaultAddress {
		t.Errorf("nil opts should use address 0x%x, got 0x%x", DefaultAddress, dev.d.Addr)
	}
	if dev.Mode() != Idle {
		t.Errorf("new device should be idle, got %s", dev.Mode())
	}
	if len(dev.String()) == 0 {
		t.Error("Dev.String() returned empty value.")
	}
	// Nothing was started so Halt must not touch the bus.
	if err := dev.Halt(); err != nil {
		t.Error(err)
	}
}

func TestFirmwareVersion(t *testing.T) {
	dev, bus := getDev(t, recordingData["TestFirmwareVersion"], nil)
	defer closePlayback(t, bus)
	v, err := dev.FirmwareVersion()
	if err != nil {
		t.Fatal(err)
	}
	if v != (FirmwareVersion{Major: 3, Minor: 66}) {
		t.Errorf("unexpected version %#v", v)
	}
	if v.String() != "3.66" {
		t.Errorf("FirmwareVersion.String()=%q", v.String())
	}
}

func TestStartStop(t *testing.T) {
	dev, bus := getDev(t, recordingData["TestStartStop"], nil)
	defer closePlayback(t, bus)
	if err := dev.StartContinuousMeasurement(1013); err != nil {
		t.Fatal(err)
	}
	if dev.Mode() != Measuring {
		t.Errorf("expected measuring, got %s", dev.Mode())
	}
	if err := dev.Halt(); err != nil {
		t.Fatal(err)
	}
	if dev.Mode() != Idle {
		t.Errorf("expected idle after Halt, got %s", dev.Mode())
	}
}

func TestDataReady(t *testing.T) {
	dev, bus := getDev(t, recordingData["TestDataReady"], nil)
	defer closePlayback(t, bus)
	for _, want := range []bool{false, true} {
		ready, err := dev.DataReady()
		if err != nil {
			t.Fatal(err)
		}
		if ready != want {
			t.Errorf("DataReady()=%t want %t", ready, want)
		}
	}
}

func TestReadMeasurement(t *testing.T) {
	dev, bus := getDev(t, recordingData["TestReadMeasurement"], &Opts{StrictCRC: true})
	defer closePlayback(t, bus)
	got, err := dev.ReadMeasurement()
	if err != nil {
		t.Fatal(err)
	}
	want := SensorReading{CO2: 812.5, Temperature: 23.25, RelHumidity: 41.75}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ReadMeasurement() mismatch (-want +got):\n%s", diff)
	}
	t.Log(got.String())

	env := got.Env()
	if env.Temperature != physic.ZeroCelsius+23250*physic.MilliKelvin {
		t.Errorf("unexpected temperature %s", env.Temperature)
	}
	if env.Humidity != 4175*physic.PercentRH/100 {
		t.Errorf("unexpected humidity %s", env.Humidity)
	}
}

func TestReadMeasurementIgnoresCRC(t *testing.T) {
	crcOffsets := []int{2, 5, 8, 11, 14, 17}
	for _, junk := range []byte{0x00, 0x5a, 0xff} {
		frame := make([]byte, len(measurementFrame))
		copy(frame, measurementFrame)
		for _, off := range crcOffsets {
			frame[off] = junk
		}
		dev, bus := getDev(t, []i2ctest.IO{
			{Addr: DefaultAddress, W: []byte{0x03, 0x00}},
			{Addr: DefaultAddress, R: frame}}, nil)
		got, err := dev.ReadMeasurement()
		if err != nil {
			t.Fatal(err)
		}
		if got.CO2 != 812.5 || got.Temperature != 23.25 || got.RelHumidity != 41.75 {
			t.Errorf("crc bytes 0x%02x changed the decoded value: %#v", junk, got)
		}
		closePlayback(t, bus)
	}
}

func TestStrictCRC(t *testing.T) {
	frame := make([]byte, len(measurementFrame))
	copy(frame, measurementFrame)
	frame[11] ^= 0xff
	dev, bus := getDev(t, []i2ctest.IO{
		{Addr: DefaultAddress, W: []byte{0x03, 0x00}},
		{Addr: DefaultAddress, R: frame}}, &Opts{StrictCRC: true})
	defer closePlayback(t, bus)
	if _, err := dev.ReadMeasurement(); !errors.Is(err, common.ErrCRC) {
		t.Errorf("expected ErrCRC, got %v", err)
	}
}

func TestTemperatureOffset(t *testing.T) {
	dev, bus := getDev(t, recordingData["TestTemperatureOffset"], nil)
	defer closePlayback(t, bus)
	if err := dev.SetTemperatureOffset(3.72); err != nil {
		t.Fatal(err)
	}
	got, err := dev.TemperatureOffset()
	if err != nil {
		t.Fatal(err)
	}
	if got != 3.72 {
		t.Errorf("TemperatureOffset()=%f want 3.72", got)
	}
}

func TestTemperatureOffsetOutOfRange(t *testing.T) {
	dev, bus := getDev(t, nil, nil)
	defer closePlayback(t, bus)
	for _, offset := range []float32{-0.01, 655.36, 1000} {
		if err := dev.SetTemperatureOffset(offset); !errors.Is(err, common.ErrOutOfRange) {
			t.Errorf("SetTemperatureOffset(%f) expected ErrOutOfRange, got %v", offset, err)
		}
	}
}

func TestBusError(t *testing.T) {
	// An empty playback makes every transaction fail.
	dev, _ := getDev(t, nil, nil)
	if _, err := dev.FirmwareVersion(); err == nil {
		t.Error("expected error from FirmwareVersion")
	}
	if err := dev.StartContinuousMeasurement(0); err == nil {
		t.Error("expected error from StartContinuousMeasurement")
	}
	if dev.Mode() != Idle {
		t.Error("failed start must not change the mode")
	}
	if _, err := dev.DataReady(); err == nil {
		t.Error("expected error from DataReady")
	}
	if _, err := dev.ReadMeasurement(); err == nil {
		t.Error("expected error from ReadMeasurement")
	}
	if _, err := dev.TemperatureOffset(); err == nil {
		t.Error("expected error from TemperatureOffset")
	}
}
