// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package common

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCRC8(t *testing.T) {
	var tests = []struct {
		bytes  []byte
		result byte
	}{
		{bytes: []byte{0xbe, 0xef}, result: 0x92},
		{bytes: []byte{0x01, 0xa4}, result: 0x4d},
		{bytes: []byte{0xab, 0xcd}, result: 0x6f},
		{bytes: []byte{0x00, 0x64}, result: 0xfe},
		{bytes: []byte{0x80, 0x00}, result: 0xa2},
		{bytes: []byte{0x66, 0x66}, result: 0x93},
		{bytes: []byte{0x00, 0x00}, result: 0x81},
		{bytes: []byte{}, result: 0xff},
	}
	for _, test := range tests {
		res := CRC8(test.bytes)
		if res != test.result {
			t.Errorf("CRC8(%#v)!=0x%02x received 0x%02x", test.bytes, test.result, res)
		}
	}
}

func TestCRC8OrderSensitive(t *testing.T) {
	a := CRC8([]byte{0x00, 0x64})
	b := CRC8([]byte{0x64, 0x00})
	if a == b {
		t.Errorf("CRC8 should depend on byte order, both gave 0x%02x", a)
	}
	if a != CRC8([]byte{0x00, 0x64}) {
		t.Error("CRC8 is not deterministic")
	}
}

func TestAppendWord(t *testing.T) {
	got := AppendWord([]byte{0x00, 0x10}, 1013)
	want := []byte{0x00, 0x10, 0x03, 0xf5, 0xdb}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("AppendWord() mismatch (-want +got):\n%s", diff)
	}
}

func TestCheckWords(t *testing.T) {
	for _, test := range []struct {
		name    string
		r       []byte
		wantErr bool
	}{
		{name: "single", r: []byte{0x00, 0x01, 0xb0}},
		{name: "two", r: []byte{0x80, 0x00, 0xa2, 0x66, 0x66, 0x93}},
		{name: "partial group ignored", r: []byte{0x00, 0x01, 0xb0, 0x12}},
		{name: "bad first", r: []byte{0x00, 0x01, 0xb1}, wantErr: true},
		{name: "bad second", r: []byte{0x80, 0x00, 0xa2, 0x66, 0x66, 0x00}, wantErr: true},
	} {
		t.Run(test.name, func(t *testing.T) {
			err := CheckWords(test.r)
			if test.wantErr {
				if !errors.Is(err, ErrCRC) {
					t.Fatalf("expected ErrCRC, got %v", err)
				}
			} else if err != nil {
				t.Fatal(err)
			}
		})
	}
}
