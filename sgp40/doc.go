// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package sgp40 provides a driver for the Sensirion SGP40 VOC sensor.
//
// The sensor returns a raw signal count. Turning it into a VOC index needs
// the Sensirion gas index algorithm, which is not part of this package; plug
// an implementation in through Opts.Algorithm.
//
// # Datasheet
//
// https://sensirion.com/media/documents/296373BB/6203C5DF/Sensirion_Gas_Sensors_Datasheet_SGP40.pdf
package sgp40
