// Copyright 2025 Fronthaul Authors
//
//  Licensed under the Apache License, Version 2.0 (the "License");
//  you may not use this file except in compliance with the License.
//  You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
//  Unless required by applicable law or agreed to in writing, software
//  distributed under the License is distributed on an "AS IS" BASIS,
//  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//  See the License for the specific language governing permissions and
//  limitations under the License.

package bitpack

import (
	"math/rand"
	"testing"
)

func TestSize(t *testing.T) {
	cases := []struct {
		n     int
		width uint
		want  int
	}{
		{24, 8, 24},
		{24, 9, 27},
		{24, 16, 48},
		{24, 1, 3},
		{1, 3, 1},
		{0, 16, 0},
	}
	for _, c := range cases {
		if got := Size(c.n, c.width); got != c.want {
			t.Errorf("Size(%d, %d) = %d, want %d", c.n, c.width, got, c.want)
		}
	}
}

// clip returns v reduced to a value representable in width signed bits.
func clip(v int16, width uint) int16 {
	return int16(int32(v) >> (16 - width))
}

func TestRoundTripAllWidths(t *testing.T) {
	rng := rand.New(rand.NewSource(0x0f4))
	for width := uint(MinWidth); width <= MaxWidth; width++ {
		for n := 1; n <= 48; n++ {
			src := make([]int16, n)
			for i := range src {
				src[i] = clip(int16(rng.Uint32()), width)
			}
			packed := make([]byte, Size(n, width))
			Pack(packed, src, width)
			got := make([]int16, n)
			Unpack(got, packed, width)
			for i := range src {
				if got[i] != src[i] {
					t.Fatalf("width %d n %d: sample %d = %d, want %d",
						width, n, i, got[i], src[i])
				}
			}
		}
	}
}

func TestPackKnownBytes(t *testing.T) {
	// two 12-bit samples: 0x123 and -1 (0xfff) pack into 3 bytes
	var dst [3]byte
	Pack(dst[:], []int16{0x123, -1}, 12)
	want := [3]byte{0x12, 0x3f, 0xff}
	if dst != want {
		t.Fatalf("packed %x, want %x", dst, want)
	}
}

func TestPackExtremes(t *testing.T) {
	for width := uint(MinWidth); width <= MaxWidth; width++ {
		lo := int16(-1) << (width - 1)
		hi := int16(1)<<(width-1) - 1
		src := []int16{lo, hi, 0, -1}
		if width == 1 {
			// 1-bit samples hold only -1 and 0
			src = []int16{-1, 0, -1, 0}
		}
		packed := make([]byte, Size(len(src), width))
		Pack(packed, src, width)
		got := make([]int16, len(src))
		Unpack(got, packed, width)
		for i := range src {
			if got[i] != src[i] {
				t.Fatalf("width %d: sample %d = %d, want %d", width, i, got[i], src[i])
			}
		}
	}
}

func TestTrailingBitsZero(t *testing.T) {
	// 3 samples at 3 bits = 9 bits = 2 bytes; final 7 bits must be zero
	var dst [2]byte
	Pack(dst[:], []int16{-1, -1, -1}, 3)
	if dst[1]&0x7f != 0 {
		t.Fatalf("trailing bits not zero: %08b", dst[1])
	}
}

func FuzzRoundTrip(f *testing.F) {
	f.Add(uint(9), int16(100), int16(-100), int16(0))
	f.Add(uint(16), int16(32767), int16(-32768), int16(1))
	f.Fuzz(func(t *testing.T, width uint, a, b, c int16) {
		if width < MinWidth || width > MaxWidth {
			return
		}
		src := []int16{clip(a, width), clip(b, width), clip(c, width)}
		packed := make([]byte, Size(len(src), width))
		Pack(packed, src, width)
		got := make([]int16, len(src))
		Unpack(got, packed, width)
		for i := range src {
			if got[i] != src[i] {
				t.Fatalf("width %d: sample %d = %d, want %d", width, i, got[i], src[i])
			}
		}
	})
}
