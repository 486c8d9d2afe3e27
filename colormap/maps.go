// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package colormap

// RdYlGn is matplotlib's diverging red-yellow-green map, reversed so that
// 0 is green and 1 is red.
var RdYlGn = Even{
	{0.0, 0.40784314, 0.21568628},
	{0.101960786, 0.59607846, 0.3137255},
	{0.4, 0.7411765, 0.3882353},
	{0.6509804, 0.8509804, 0.41568628},
	{0.8509804, 0.9372549, 0.54509807},
	{1.0, 1.0, 0.7490196},
	{0.99607843, 0.8784314, 0.54509807},
	{0.99215686, 0.68235296, 0.38039216},
	{0.95686275, 0.42745098, 0.2627451},
	{0.84313726, 0.1882353, 0.15294118},
	{0.64705884, 0.0, 0.14901961},
}

// Simple goes green, yellow, red, blue.
var Simple = Even{
	{0, 1, 0},
	{1, 1, 0},
	{1, 0, 0},
	{0, 0, 1},
}

// Ranges the positioned maps below are laid out on.
const (
	CO2Min, CO2Max                 = 424, 3000
	VOCMin, VOCMax                 = 0, 500
	TemperatureMin, TemperatureMax = 0, 45
	PM10Min, PM10Max               = 0, 50
	PressureMin, PressureMax       = 990, 1040
)

var (
	green  = RGB{0, 1, 0}
	yellow = RGB{1, 1, 0}
	red    = RGB{1, 0, 0}
	blue   = RGB{0, 0, 1}
	cyan   = RGB{0, 1, 1}
	purple = RGB{1, 0, 1}
)

// CO2 is laid out on [CO2Min, CO2Max] ppm: yellow from 1000 ppm, red from
// 1600 ppm, blue at the top of the range.
var CO2 = mustPositioned(
	Anchor{green, 0},
	Anchor{yellow, pos(1000, CO2Min, CO2Max)},
	Anchor{red, pos(1600, CO2Min, CO2Max)},
	Anchor{blue, 1},
)

// VOC is laid out on the Sensirion VOC index [0, 500] where 100 is average
// air quality.
var VOC = mustPositioned(
	Anchor{blue, 0},
	Anchor{green, pos(100, VOCMin, VOCMax)},
	Anchor{yellow, pos(200, VOCMin, VOCMax)},
	Anchor{red, 1},
)

// Temperature is laid out on [0, 45] °C.
var Temperature = mustPositioned(
	Anchor{blue, 0},
	Anchor{green, pos(15, TemperatureMin, TemperatureMax)},
	Anchor{yellow, pos(25, TemperatureMin, TemperatureMax)},
	Anchor{red, 1},
)

// PM10 is laid out on [0, 50] µg/m³.
var PM10 = mustPositioned(
	Anchor{blue, 0},
	Anchor{green, pos(10, PM10Min, PM10Max)},
	Anchor{yellow, pos(20, PM10Min, PM10Max)},
	Anchor{red, 1},
)

// Pressure is laid out on [990, 1040] hPa, roughly the extremes recorded
// at sea level in the Baltics, with green at the standard 1013.25 hPa.
var Pressure = mustPositioned(
	Anchor{blue, 0},
	Anchor{cyan, pos(1000, PressureMin, PressureMax)},
	Anchor{green, pos(1013.25, PressureMin, PressureMax)},
	Anchor{red, pos(1026, PressureMin, PressureMax)},
	Anchor{purple, 1},
)

func pos(v, lo, hi float32) float32 {
	return (v - lo) / (hi - lo)
}
