// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package panel renders the monitor's text lines into an image for pixel
// displays such as the ssd1306 OLED or the waveshare e-paper panels.
package panel

import (
	"fmt"
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"periph.io/x/conn/v3/display"
)

// Opts represents the options available for the renderer.
type Opts struct {
	// W and H are the size of the rendered image in pixels.
	W, H int
	// FontSize in points for the Go Regular face. 0 selects the fixed
	// 7x13 bitmap face.
	FontSize float64
	// Margin around the text in pixels.
	Margin float64
	// Foreground and Background default to white on black.
	Foreground, Background color.Color
}

// DefaultOpts fits four lines on a 128x64 OLED.
var DefaultOpts = Opts{
	W:        128,
	H:        64,
	FontSize: 11,
	Margin:   2,
}

// Renderer draws lines of text.
type Renderer struct {
	opts Opts
	face font.Face
}

// New returns a Renderer using opts, or DefaultOpts when nil.
func New(opts *Opts) (*Renderer, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	if opts.W <= 0 || opts.H <= 0 {
		return nil, fmt.Errorf("panel: invalid size %dx%d", opts.W, opts.H)
	}
	r := &Renderer{opts: *opts}
	if r.opts.Foreground == nil {
		r.opts.Foreground = color.White
	}
	if r.opts.Background == nil {
		r.opts.Background = color.Black
	}
	if opts.FontSize <= 0 {
		r.face = basicfont.Face7x13
		return r, nil
	}
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("panel: %w", err)
	}
	r.face = truetype.NewFace(f, &truetype.Options{Size: opts.FontSize})
	return r, nil
}

// Bounds returns the size of the rendered images.
func (r *Renderer) Bounds() image.Rectangle {
	return image.Rect(0, 0, r.opts.W, r.opts.H)
}

// Render draws lines top to bottom. Lines that don't fit are clipped.
func (r *Renderer) Render(lines ...string) image.Image {
	dc := gg.NewContext(r.opts.W, r.opts.H)
	dc.SetColor(r.opts.Background)
	dc.Clear()
	dc.SetFontFace(r.face)
	dc.SetColor(r.opts.Foreground)
	m := r.face.Metrics()
	height := float64(m.Height.Ceil())
	y := r.opts.Margin + float64(m.Ascent.Ceil())
	for _, line := range lines {
		dc.DrawString(line, r.opts.Margin, y)
		y += height
	}
	return dc.Image()
}

// Draw renders lines onto dev.
func (r *Renderer) Draw(dev display.Drawer, lines ...string) error {
	if err := dev.Draw(dev.Bounds(), r.Render(lines...), image.Point{}); err != nil {
		return fmt.Errorf("panel: %s: %w", dev, err)
	}
	return nil
}

// SavePNG renders lines into a PNG file.
func (r *Renderer) SavePNG(path string, lines ...string) error {
	if err := gg.SavePNG(path, r.Render(lines...)); err != nil {
		return fmt.Errorf("panel: %w", err)
	}
	return nil
}
