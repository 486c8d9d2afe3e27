// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package common

import (
	"errors"
	"fmt"
)

// ErrOutOfRange is returned when a value can't be encoded because it lies
// outside the domain of the encoding. Values are never wrapped or saturated.
var ErrOutOfRange = errors.New("value out of range")

// MaxTicks is the full scale count of the 16-bit compensation encoding.
const MaxTicks = 0xffff

const (
	MinHumidity    = 0
	MaxHumidity    = 100
	MinTemperature = -45
	MaxTemperature = 130
)

// ValueToTicks maps value in [min, max] linearly onto [0, 65535]. The result
// is rounded half up on the remainder of the integer division.
func ValueToTicks(value, min, max int) (uint16, error) {
	if max <= min {
		return 0, fmt.Errorf("%w: empty domain [%d, %d]", ErrOutOfRange, min, max)
	}
	if value < min || value > max {
		return 0, fmt.Errorf("%w: %d not in [%d, %d]", ErrOutOfRange, value, min, max)
	}
	num := uint64(value-min) * MaxTicks
	div := uint64(max - min)
	quot, rem := num/div, num%div
	if 2*rem >= div {
		quot++
	}
	return uint16(quot), nil
}

// TicksToValue is the inverse of ValueToTicks.
func TicksToValue(ticks uint16, min, max float64) float64 {
	return min + (max-min)*float64(ticks)/MaxTicks
}

// HumidityToTicks encodes a relative humidity in percent.
func HumidityToTicks(h uint8) (uint16, error) {
	return ValueToTicks(int(h), MinHumidity, MaxHumidity)
}

// TemperatureToTicks encodes a temperature in °C.
func TemperatureToTicks(t int16) (uint16, error) {
	return ValueToTicks(int(t), MinTemperature, MaxTemperature)
}
