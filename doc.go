// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package airmon is a container for the sensor drivers and display logic of
// a portable air-quality monitor.
//
// The scd30 and sgp40 packages talk to the Sensirion CO2 and VOC sensors
// over I²C. colormap and readout turn measurements into LED colors and
// fixed-width display text. monitor ties them together into the
// poll-and-display cycle run by cmd/airmon.
package airmon
