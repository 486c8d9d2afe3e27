// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package scd30 provides a driver for the Sensirion SCD30 CO2, temperature
// and humidity sensor module over I²C.
//
// Measurements are returned by the device as three IEEE-754 single precision
// floats. Each float arrives as two CRC protected 16-bit words.
//
// By default the CRC bytes of responses are not checked, matching the
// behavior of the firmware this driver was written for. Set Opts.StrictCRC to
// reject corrupted frames instead.
//
// # Datasheet
//
// https://sensirion.com/media/documents/D7CEEF4A/6165372F/Sensirion_CO2_Sensors_SCD30_Interface_Description.pdf
package scd30
