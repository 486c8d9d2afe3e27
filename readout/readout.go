// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package readout formats measurements into fixed-width text for character
// displays.
//
// The integer part of a value is right-justified in a field of at least
// width digits; wider values grow the field rather than being truncated.
// A single space and the unit follow. Missing values render as dashes of the
// same width so the text around them doesn't move.
package readout

import (
	"math"
	"strconv"
	"strings"
)

// MaxPrecision is the largest number of fractional digits rendered.
const MaxPrecision = 9

// Integer renders value right-justified in width digits followed by unit.
//
//	Integer(0, 4, "ppm") == "   0 ppm"
func Integer(value uint32, width uint8, unit string) string {
	var b strings.Builder
	pad(&b, strconv.FormatUint(uint64(value), 10), width)
	b.WriteByte(' ')
	b.WriteString(unit)
	return b.String()
}

// Float renders value with precision fractional digits. The fraction is
// rounded; when it rounds up to a whole unit the integer part is
// incremented, so 0.999 with precision 2 renders as "1.00".
//
// Negative values are rendered as 0, NaN and infinities as missing.
func Float(value float32, width, precision uint8, unit string) string {
	v := float64(value)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return MissingFloat(width, precision, unit)
	}
	if v < 0 {
		v = 0
	}
	if precision > MaxPrecision {
		precision = MaxPrecision
	}
	intPart := math.Floor(v)
	var frac uint64
	if precision > 0 {
		scale := math.Pow10(int(precision))
		frac = uint64(math.Round((v - intPart) * scale))
		if frac >= uint64(scale) {
			intPart++
			frac = 0
		}
	}

	var b strings.Builder
	pad(&b, strconv.FormatFloat(intPart, 'f', 0, 64), width)
	if precision > 0 {
		b.WriteByte('.')
		f := strconv.FormatUint(frac, 10)
		b.WriteString(strings.Repeat("0", int(precision)-len(f)))
		b.WriteString(f)
	}
	b.WriteByte(' ')
	b.WriteString(unit)
	return b.String()
}

// MissingInteger renders the placeholder for an unavailable integer value.
func MissingInteger(width uint8, unit string) string {
	return dashes(width) + " " + unit
}

// MissingFloat renders the placeholder for an unavailable float value.
func MissingFloat(width, precision uint8, unit string) string {
	if precision > MaxPrecision {
		precision = MaxPrecision
	}
	s := dashes(width)
	if precision > 0 {
		s += "." + strings.Repeat("-", int(precision))
	}
	return s + " " + unit
}

// OptionalInteger renders *value, or the missing placeholder when value is
// nil.
func OptionalInteger(value *uint32, width uint8, unit string) string {
	if value == nil {
		return MissingInteger(width, unit)
	}
	return Integer(*value, width, unit)
}

// OptionalFloat renders *value, or the missing placeholder when value is
// nil.
func OptionalFloat(value *float32, width, precision uint8, unit string) string {
	if value == nil {
		return MissingFloat(width, precision, unit)
	}
	return Float(*value, width, precision, unit)
}

func pad(b *strings.Builder, digits string, width uint8) {
	if n := int(width) - len(digits); n > 0 {
		b.WriteString(strings.Repeat(" ", n))
	}
	b.WriteString(digits)
}

// dashes is at least one dash wide so a missing value is always visible.
func dashes(width uint8) string {
	if width == 0 {
		width = 1
	}
	return strings.Repeat("-", int(width))
}
