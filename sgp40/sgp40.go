// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sgp40

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/GermanBionicSystems/airmon/common"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
)

const (
	// DefaultAddress is the only address the SGP40 answers on.
	DefaultAddress uint16 = 0x59

	measureRawSignal uint16 = 0x260f
	executeSelfTest  uint16 = 0x280e
	turnHeaterOff    uint16 = 0x3615
	getSerialNumber  uint16 = 0x3682

	selfTestPassed uint16 = 0xd400
)

// commandDuration maps the defined maximum duration of each command.
var commandDuration = map[uint16]time.Duration{
	measureRawSignal: 30 * time.Millisecond,
	executeSelfTest:  320 * time.Millisecond,
	turnHeaterOff:    time.Millisecond,
	getSerialNumber:  time.Millisecond,
}

// commandResponseLength maps the defined response length including the CRC.
var commandResponseLength = map[uint16]int{
	measureRawSignal: 3,
	executeSelfTest:  3,
	getSerialNumber:  9,
}

// ErrSelfTest is returned by SelfTest when the sensor reports a failure.
var ErrSelfTest = errors.New("sgp40: self test failed")

// Opts holds the configuration for the device.
type Opts struct {
	// Addr is the I²C address of the device.
	Addr uint16
	// StrictCRC makes reads fail with common.ErrCRC when a response word
	// doesn't match its CRC byte. When false, CRC bytes are ignored.
	StrictCRC bool
	// Algorithm converts raw signals into a VOC index. Optional. Sensirion's
	// algorithm is tuned for one sample per second; call
	// MeasureSignalCompensated at that cadence.
	Algorithm GasIndexAlgorithm
	// Sleep waits for the sensor to complete a command. Defaults to
	// time.Sleep.
	Sleep func(time.Duration)
}

// DefaultOpts is the recommended default options.
var DefaultOpts = Opts{
	Addr: DefaultAddress,
}

// Dev is a handle to an SGP40 device.
type Dev struct {
	d       *i2c.Dev
	strict  bool
	algo    GasIndexAlgorithm
	sleep   func(time.Duration)
	samples int
}

// New returns a handle to an SGP40 sensor. No command is sent to the device.
func New(bus i2c.Bus, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	addr := opts.Addr
	if addr == 0 {
		addr = DefaultAddress
	}
	if addr > 0x7f {
		return nil, fmt.Errorf("sgp40: invalid address 0x%x", addr)
	}
	sleep := opts.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}
	return &Dev{
		d:      &i2c.Dev{Bus: bus, Addr: addr},
		strict: opts.StrictCRC,
		algo:   opts.Algorithm,
		sleep:  sleep,
	}, nil
}

// MeasurementCommand builds the compensated measurement frame for a
// temperature in °C ([-45, 130]) and a relative humidity in % ([0, 100]).
func MeasurementCommand(temperatureC int16, humidity uint8) ([8]byte, error) {
	var c [8]byte
	hTicks, err := common.HumidityToTicks(humidity)
	if err != nil {
		return c, fmt.Errorf("sgp40: humidity: %w", err)
	}
	tTicks, err := common.TemperatureToTicks(temperatureC)
	if err != nil {
		return c, fmt.Errorf("sgp40: temperature: %w", err)
	}
	b := make([]byte, 0, len(c))
	b = binary.BigEndian.AppendUint16(b, measureRawSignal)
	b = common.AppendWord(b, hTicks)
	b = common.AppendWord(b, tTicks)
	copy(c[:], b)
	return c, nil
}

// MeasureRawSignalCompensated runs a humidity and temperature compensated
// measurement and returns the raw signal count.
func (d *Dev) MeasureRawSignalCompensated(temperatureC int16, humidity uint8) (uint16, error) {
	c, err := MeasurementCommand(temperatureC, humidity)
	if err != nil {
		return 0, err
	}
	r, err := d.readCommand(c[:])
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(r), nil
}

// MeasureSignalCompensated runs a compensated measurement and feeds it to
// the gas index algorithm. Until WarmedUp returns true the index should not
// be trusted.
func (d *Dev) MeasureSignalCompensated(temperatureC int16, humidity uint8) (uint16, error) {
	if d.algo == nil {
		return 0, ErrNoAlgorithm
	}
	sraw, err := d.MeasureRawSignalCompensated(temperatureC, humidity)
	if err != nil {
		return 0, err
	}
	idx := d.algo.Process(int32(sraw))
	d.samples++
	return toIndex(idx), nil
}

// Samples returns the number of samples fed to the gas index algorithm.
func (d *Dev) Samples() int {
	return d.samples
}

// WarmedUp returns true once the gas index algorithm got WarmupSamples
// samples.
func (d *Dev) WarmedUp() bool {
	return d.samples >= WarmupSamples
}

// SerialNumber returns the 48 bit serial number of the sensor.
func (d *Dev) SerialNumber() (uint64, error) {
	r, err := d.readCommand(binary.BigEndian.AppendUint16(nil, getSerialNumber))
	if err != nil {
		return 0, err
	}
	return uint64(binary.BigEndian.Uint16(r[0:2]))<<32 |
		uint64(binary.BigEndian.Uint16(r[3:5]))<<16 |
		uint64(binary.BigEndian.Uint16(r[6:8])), nil
}

// SelfTest runs the built-in self test of the hotplate and MOX material.
func (d *Dev) SelfTest() error {
	r, err := d.readCommand(binary.BigEndian.AppendUint16(nil, executeSelfTest))
	if err != nil {
		return err
	}
	if w := binary.BigEndian.Uint16(r); w != selfTestPassed {
		return fmt.Errorf("%w: result 0x%04x", ErrSelfTest, w)
	}
	return nil
}

// HeaterOff turns the hotplate off and puts the sensor in idle mode. The
// next measurement turns it back on.
func (d *Dev) HeaterOff() error {
	return d.writeCommand(turnHeaterOff)
}

// Halt implements conn.Resource. It turns the heater off.
func (d *Dev) Halt() error {
	return d.HeaterOff()
}

func (d *Dev) String() string {
	return fmt.Sprintf("sgp40: %s", d.d.String())
}

// readCommand writes the command frame w, waits for the command duration and
// reads its response.
func (d *Dev) readCommand(w []byte) ([]byte, error) {
	cmd := binary.BigEndian.Uint16(w)
	if err := d.d.Tx(w, nil); err != nil {
		return nil, fmt.Errorf("sgp40: cmd 0x%04x: %w", cmd, err)
	}
	d.sleep(commandDuration[cmd])

	r := make([]byte, commandResponseLength[cmd])
	if err := d.d.Tx(nil, r); err != nil {
		return nil, fmt.Errorf("sgp40: cmd 0x%04x read: %w", cmd, err)
	}
	if d.strict {
		if err := common.CheckWords(r); err != nil {
			return nil, fmt.Errorf("sgp40: cmd 0x%04x: %w", cmd, err)
		}
	}
	return r, nil
}

func (d *Dev) writeCommand(cmd uint16) error {
	if err := d.d.Tx([]byte{byte(cmd >> 8), byte(cmd)}, nil); err != nil {
		return fmt.Errorf("sgp40: cmd 0x%04x: %w", cmd, err)
	}
	d.sleep(commandDuration[cmd])
	return nil
}

var _ conn.Resource = &Dev{}
