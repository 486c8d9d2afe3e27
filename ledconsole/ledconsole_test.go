// Copyright 2017 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ledconsole

import (
	"bytes"
	"image"
	"image/color"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	if _, err := New(&Opts{}); err == nil {
		t.Error("expected error without labels")
	}
}

func TestShow(t *testing.T) {
	var buf bytes.Buffer
	d, err := New(&Opts{Labels: []string{"CO2", "VOC"}, W: &buf})
	if err != nil {
		t.Fatal(err)
	}
	if err := d.Show(color.NRGBA{255, 0, 0, 255}, color.NRGBA{0, 255, 0, 255}, color.NRGBA{0, 0, 255, 255}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "CO2 ") || !strings.Contains(out, "VOC ") {
		t.Errorf("labels missing from %q", out)
	}
	if !bytes.Equal(d.pixels, []byte{255, 0, 0, 0, 255, 0}) {
		t.Errorf("unexpected pixels %v", d.pixels)
	}
	if d.Bounds() != image.Rect(0, 0, 2, 1) {
		t.Errorf("unexpected bounds %v", d.Bounds())
	}
	if err := d.Halt(); err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(buf.String(), "\033[0m\n") {
		t.Error("Halt() should reset the terminal")
	}
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	d, err := New(&Opts{Labels: []string{"A"}, W: &buf})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := d.Write([]byte{1, 2}); err == nil {
		t.Error("expected error for partial pixel")
	}
	n, err := d.Write([]byte{1, 2, 3})
	if err != nil || n != 3 {
		t.Errorf("Write()=%d, %v", n, err)
	}
}

func TestDraw(t *testing.T) {
	var buf bytes.Buffer
	d, err := New(&Opts{Labels: []string{"A", "B", "C"}, W: &buf})
	if err != nil {
		t.Fatal(err)
	}
	img := image.NewNRGBA(image.Rect(0, 0, 3, 1))
	img.SetNRGBA(1, 0, color.NRGBA{10, 20, 30, 255})
	if err := d.Draw(d.Bounds(), img, image.Point{}); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(d.pixels, []byte{0, 0, 0, 10, 20, 30, 0, 0, 0}) {
		t.Errorf("unexpected pixels %v", d.pixels)
	}
	if d.String() != "LEDConsole{3}" {
		t.Errorf("String()=%q", d.String())
	}
}
