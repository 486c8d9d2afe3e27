// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package common contains functions used across multiple packages. For
// example, a CRC8 calculation and the fixed-point encoding Sensirion sensors
// expect for compensation parameters.
package common

import (
	"errors"
	"fmt"
)

// ErrCRC is returned when a word read from a sensor is not followed by its
// expected CRC byte.
var ErrCRC = errors.New("crc mismatch")

// CRC8 calculates the 8-bit CRC of the byte slice parameter and returns the
// calculated value. CRC bytes are used in sensors from TI and Sensirion.
//
// Polynomial 0x31, initial value 0xff, no reflection, no final xor.
func CRC8(bytes []byte) byte {
	var crc byte = 0xff
	for _, val := range bytes {
		crc ^= val
		for range 8 {
			if (crc & 0x80) == 0 {
				crc <<= 1
			} else {
				crc = (byte)((crc << 1) ^ 0x31)
			}
		}
	}
	return crc
}

// AppendWord appends w in big-endian order followed by the CRC of those two
// bytes. This is how every command argument is framed.
func AppendWord(dst []byte, w uint16) []byte {
	hi, lo := byte(w>>8), byte(w)
	return append(dst, hi, lo, CRC8([]byte{hi, lo}))
}

// CheckWords verifies a response made of [msb, lsb, crc] groups. A trailing
// partial group is ignored.
func CheckWords(r []byte) error {
	for ix := 0; ix+3 <= len(r); ix += 3 {
		if crc := CRC8(r[ix : ix+2]); crc != r[ix+2] {
			return fmt.Errorf("%w at offset %d: got 0x%02x want 0x%02x", ErrCRC, ix+2, r[ix+2], crc)
		}
	}
	return nil
}
