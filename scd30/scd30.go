// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package scd30

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/GermanBionicSystems/airmon/common"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
)

const (
	// DefaultAddress is the only address the SCD30 answers on.
	DefaultAddress uint16 = 0x61

	// maxOffset is the largest temperature offset that fits in the
	// 1/100 °C word.
	maxOffset = float64(math.MaxUint16) / 100
)

type cmd uint16

// Structure to simplify sending commands to the device.
type command struct {
	cmdWord cmd
	// The expected number of bytes returned. 0, 3, or 18.
	responseSize int
}

var cmdGetFirmwareVersion = command{
	cmdWord:      0xd100,
	responseSize: 3,
}

var cmdStartContinuous = command{
	cmdWord: 0x0010,
}

var cmdStopContinuous = command{
	cmdWord: 0x0104,
}

var cmdGetDataReady = command{
	cmdWord:      0x0202,
	responseSize: 3,
}

var cmdReadMeasurement = command{
	cmdWord:      0x0300,
	responseSize: 18,
}

var cmdSetTemperatureOffset = command{
	cmdWord: 0x5403,
}

var cmdGetTemperatureOffset = command{
	cmdWord:      0x5403,
	responseSize: 3,
}

// Mode is the acquisition state of the sensor as far as the driver knows.
type Mode int

const (
	// Idle is the state after New, before continuous measurement is started.
	Idle Mode = iota
	// Measuring is the state after StartContinuousMeasurement.
	Measuring
)

func (m Mode) String() string {
	if m == Measuring {
		return "measuring"
	}
	return "idle"
}

// FirmwareVersion as reported by the sensor.
type FirmwareVersion struct {
	Major uint8
	Minor uint8
}

func (v FirmwareVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// SensorReading is one measurement triplet.
type SensorReading struct {
	// CO2 concentration in ppm.
	CO2 float32
	// Temperature in °C.
	Temperature float32
	// RelHumidity in %.
	RelHumidity float32
}

// Env converts the reading to periph units. Pressure is left at zero.
func (r SensorReading) Env() physic.Env {
	return physic.Env{
		Temperature: physic.ZeroCelsius + physic.Temperature(float64(r.Temperature)*float64(physic.Celsius)),
		Humidity:    physic.RelativeHumidity(float64(r.RelHumidity) * float64(physic.PercentRH)),
	}
}

func (r SensorReading) String() string {
	return fmt.Sprintf("CO2: %.1f ppm Temperature: %.2f°C Humidity: %.2f%%", r.CO2, r.Temperature, r.RelHumidity)
}

// Opts holds the configuration for the device.
type Opts struct {
	// Addr is the I²C address of the device.
	Addr uint16
	// StrictCRC makes reads fail with common.ErrCRC when a response word
	// doesn't match its CRC byte. When false, CRC bytes are ignored.
	StrictCRC bool
}

// DefaultOpts is the recommended default options.
var DefaultOpts = Opts{
	Addr: DefaultAddress,
}

// Dev represents an SCD30 device. The bus is assumed to be exclusively
// owned by the Dev for the duration of each call.
type Dev struct {
	d      *i2c.Dev
	strict bool
	mode   Mode
}

// New returns a handle to an SCD30 sensor. No command is sent to the device.
func New(bus i2c.Bus, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	addr := opts.Addr
	if addr == 0 {
		addr = DefaultAddress
	}
	if addr > 0x7f {
		return nil, fmt.Errorf("scd30: invalid address 0x%x", addr)
	}
	return &Dev{d: &i2c.Dev{Bus: bus, Addr: addr}, strict: opts.StrictCRC}, nil
}

// FirmwareVersion reads the firmware version of the sensor.
func (d *Dev) FirmwareVersion() (FirmwareVersion, error) {
	r, err := d.sendCommand(cmdGetFirmwareVersion, nil)
	if err != nil {
		return FirmwareVersion{}, err
	}
	return FirmwareVersion{Major: r[0], Minor: r[1]}, nil
}

// StartContinuousMeasurement starts periodic acquisition using the ambient
// pressure in mbar for compensation. 0 disables pressure compensation.
func (d *Dev) StartContinuousMeasurement(pressureMbar uint16) error {
	if _, err := d.sendCommand(cmdStartContinuous, []uint16{pressureMbar}); err != nil {
		return err
	}
	d.mode = Measuring
	return nil
}

// StopContinuousMeasurement stops periodic acquisition.
func (d *Dev) StopContinuousMeasurement() error {
	if _, err := d.sendCommand(cmdStopContinuous, nil); err != nil {
		return err
	}
	d.mode = Idle
	return nil
}

// DataReady returns true when a measurement can be read from the device.
//
// It is only meaningful once StartContinuousMeasurement was called. There is
// no timeout; a caller spinning on DataReady waits as long as the sensor
// doesn't assert the flag.
func (d *Dev) DataReady() (bool, error) {
	r, err := d.sendCommand(cmdGetDataReady, nil)
	if err != nil {
		return false, err
	}
	return binary.BigEndian.Uint16(r) == 1, nil
}

// ReadMeasurement reads the last measurement.
func (d *Dev) ReadMeasurement() (SensorReading, error) {
	r, err := d.sendCommand(cmdReadMeasurement, nil)
	if err != nil {
		return SensorReading{}, err
	}
	return SensorReading{
		CO2:         decodeFloat(r[0:6]),
		Temperature: decodeFloat(r[6:12]),
		RelHumidity: decodeFloat(r[12:18]),
	}, nil
}

// SetTemperatureOffset sets the offset in °C the sensor subtracts from its
// temperature reading. The device stores it in 1/100 °C.
func (d *Dev) SetTemperatureOffset(offsetC float32) error {
	v := math.Round(float64(offsetC) * 100)
	if math.IsNaN(v) || v < 0 || v > math.MaxUint16 {
		return fmt.Errorf("scd30: temperature offset %f: %w [0, %.2f]", offsetC, common.ErrOutOfRange, maxOffset)
	}
	_, err := d.sendCommand(cmdSetTemperatureOffset, []uint16{uint16(v)})
	return err
}

// TemperatureOffset returns the offset in °C currently configured.
func (d *Dev) TemperatureOffset() (float32, error) {
	r, err := d.sendCommand(cmdGetTemperatureOffset, nil)
	if err != nil {
		return 0, err
	}
	return float32(binary.BigEndian.Uint16(r)) / 100, nil
}

// Mode returns the acquisition state. The driver records it but doesn't
// refuse commands based on it.
func (d *Dev) Mode() Mode {
	return d.mode
}

// Halt stops continuous measurement if it was started. Implements
// conn.Resource.
func (d *Dev) Halt() error {
	if d.mode != Measuring {
		return nil
	}
	return d.StopContinuousMeasurement()
}

func (d *Dev) String() string {
	return fmt.Sprintf("scd30: %s", d.d.String())
}

// decodeFloat rebuilds a float from its [msb, lsb, crc, msb, lsb, crc] frame.
func decodeFloat(b []byte) float32 {
	bits := uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[3])<<8 | uint32(b[4])
	return math.Float32frombits(bits)
}

// All commands to read or write to the sensor go through this function.
// Writes and reads are separate bus transactions.
func (d *Dev) sendCommand(cmd command, writeData []uint16) ([]byte, error) {
	w := []byte{byte(cmd.cmdWord >> 8), byte(cmd.cmdWord)}
	for _, val := range writeData {
		w = common.AppendWord(w, val)
	}
	if err := d.d.Tx(w, nil); err != nil {
		return nil, fmt.Errorf("scd30: cmd 0x%04x: %w", uint16(cmd.cmdWord), err)
	}
	if cmd.responseSize == 0 {
		return nil, nil
	}
	r := make([]byte, cmd.responseSize)
	if err := d.d.Tx(nil, r); err != nil {
		return nil, fmt.Errorf("scd30: cmd 0x%04x read: %w", uint16(cmd.cmdWord), err)
	}
	if d.strict {
		if err := common.CheckWords(r); err != nil {
			return nil, fmt.Errorf("scd30: cmd 0x%04x: %w", uint16(cmd.cmdWord), err)
		}
	}
	return r, nil
}

var _ conn.Resource = &Dev{}
