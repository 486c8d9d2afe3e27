// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package colormap maps a normalized measurement onto a color by linear
// interpolation between anchor colors.
//
// Two kinds of maps exist. Even spaces its anchors evenly over [0, 1].
// Positioned tags every anchor with its own position. Both return channels
// in [0, 1]; RGB.NRGBA converts them to 8 bits by truncation.
package colormap

import (
	"errors"
	"fmt"
	"image/color"
	"math"
)

var (
	// ErrEmpty is returned when a map has no anchors.
	ErrEmpty = errors.New("colormap: no anchors")
	// ErrPosition is returned when an anchor position is outside [0, 1].
	ErrPosition = errors.New("colormap: anchor position out of range")
	// ErrUnsorted is returned when anchor positions decrease.
	ErrUnsorted = errors.New("colormap: anchor positions not sorted")
	// ErrChannel is returned when a color channel is outside [0, 1].
	ErrChannel = errors.New("colormap: channel out of range")
)

// RGB is a color with each channel in [0, 1].
type RGB struct {
	R, G, B float32
}

// NRGBA converts the color to 8 bit channels. Channels are truncated, not
// rounded, so 0.999 maps to 254.
func (c RGB) NRGBA() color.NRGBA {
	return color.NRGBA{
		R: uint8(255 * clamp01(c.R)),
		G: uint8(255 * clamp01(c.G)),
		B: uint8(255 * clamp01(c.B)),
		A: 0xff,
	}
}

func (c RGB) valid() bool {
	return in01(c.R) && in01(c.G) && in01(c.B)
}

// Map maps a fraction onto a color. Fractions outside [0, 1] are tolerated
// and map to the nearest end of the map.
type Map interface {
	At(fraction float32) RGB
}

// Even is a map whose anchors are evenly spaced: the first at 0, the last
// at 1.
type Even []RGB

// NewEven validates the anchors and returns them as an Even map.
func NewEven(colors ...RGB) (Even, error) {
	if len(colors) == 0 {
		return nil, ErrEmpty
	}
	for i, c := range colors {
		if !c.valid() {
			return nil, fmt.Errorf("%w: anchor %d %v", ErrChannel, i, c)
		}
	}
	return Even(colors), nil
}

// At implements Map.
func (e Even) At(fraction float32) RGB {
	if len(e) == 0 {
		return RGB{}
	}
	maxIdx := float32(len(e) - 1)
	idx := fraction * maxIdx
	if !(idx > 0) {
		// Also catches NaN.
		idx = 0
	} else if idx > maxIdx {
		idx = maxIdx
	}
	below := float32(math.Floor(float64(idx)))
	above := float32(math.Ceil(float64(idx)))
	return lerp(e[int(below)], e[int(above)], idx-below)
}

// Anchor is a color pinned at a position in [0, 1].
type Anchor struct {
	RGB
	Pos float32
}

// Positioned is a map whose anchors carry explicit positions. Use
// NewPositioned to build one; positions must be non-decreasing.
type Positioned []Anchor

// NewPositioned validates the anchors and returns them as a Positioned map.
func NewPositioned(anchors ...Anchor) (Positioned, error) {
	if len(anchors) == 0 {
		return nil, ErrEmpty
	}
	for i, a := range anchors {
		if !in01(a.Pos) {
			return nil, fmt.Errorf("%w: anchor %d at %f", ErrPosition, i, a.Pos)
		}
		if i > 0 && a.Pos < anchors[i-1].Pos {
			return nil, fmt.Errorf("%w: anchor %d at %f follows %f", ErrUnsorted, i, a.Pos, anchors[i-1].Pos)
		}
		if !a.valid() {
			return nil, fmt.Errorf("%w: anchor %d %v", ErrChannel, i, a.RGB)
		}
	}
	return Positioned(anchors), nil
}

func mustPositioned(anchors ...Anchor) Positioned {
	p, err := NewPositioned(anchors...)
	if err != nil {
		panic(err)
	}
	return p
}

// At implements Map. The anchor above is the first one positioned at or
// after fraction, the anchor below the one preceding it. Before the first
// anchor and after the last both collapse to that anchor.
func (p Positioned) At(fraction float32) RGB {
	if len(p) == 0 {
		return RGB{}
	}
	above := -1
	for i, a := range p {
		if fraction <= a.Pos {
			above = i
			break
		}
	}
	switch above {
	case -1:
		return p[len(p)-1].RGB
	case 0:
		return p[0].RGB
	}
	lo, hi := p[above-1], p[above]
	if hi.Pos <= lo.Pos {
		return hi.RGB
	}
	return lerp(lo.RGB, hi.RGB, clamp01((fraction-lo.Pos)/(hi.Pos-lo.Pos)))
}

// Fraction normalizes value from [lo, hi] to [0, 1], clamping at both ends.
func Fraction(value, lo, hi float32) float32 {
	if hi <= lo {
		return 0
	}
	return clamp01((value - lo) / (hi - lo))
}

// Dim divides each color channel by div, truncating. The status LEDs are
// far too bright at full scale.
func Dim(c color.NRGBA, div uint8) color.NRGBA {
	if div <= 1 {
		return c
	}
	return color.NRGBA{R: c.R / div, G: c.G / div, B: c.B / div, A: c.A}
}

func lerp(a, b RGB, t float32) RGB {
	return RGB{
		R: clamp01(a.R + (b.R-a.R)*t),
		G: clamp01(a.G + (b.G-a.G)*t),
		B: clamp01(a.B + (b.B-a.B)*t),
	}
}

func in01(v float32) bool {
	return v >= 0 && v <= 1
}

func clamp01(v float32) float32 {
	switch {
	case v > 1:
		return 1
	case v >= 0:
		return v
	default:
		// Negative or NaN.
		return 0
	}
}
