// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sgp40

import (
	"errors"
	"math"
)

// WarmupSamples is the number of samples the gas index algorithm needs
// before its output can be trusted.
const WarmupSamples = 45

// ErrNoAlgorithm is returned by MeasureSignalCompensated when Opts.Algorithm
// was not set.
var ErrNoAlgorithm = errors.New("sgp40: no gas index algorithm configured")

// GasIndexAlgorithm turns raw VOC signal counts into a VOC index (1..500,
// 100 is average air quality). Implementations are stateful and keep their
// state for the lifetime of the sensor session.
type GasIndexAlgorithm interface {
	Process(sraw int32) float32
}

// GasIndexFunc adapts a function to GasIndexAlgorithm.
type GasIndexFunc func(sraw int32) float32

// Process implements GasIndexAlgorithm.
func (f GasIndexFunc) Process(sraw int32) float32 {
	return f(sraw)
}

// toIndex saturates the algorithm output into an uint16.
func toIndex(v float32) uint16 {
	switch {
	case math.IsNaN(float64(v)) || v <= 0:
		return 0
	case v >= math.MaxUint16:
		return math.MaxUint16
	default:
		return uint16(v)
	}
}
