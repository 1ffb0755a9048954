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

// Package bitpack packs signed integers of an arbitrary bit width
// (1 to 16) into a big-endian, bit-continuous byte stream and unpacks
// them back with sign extension.
//
// The stream is most-significant-bit first with no padding between
// samples; only the final byte may carry trailing zero bits. For every
// value x whose magnitude fits in width signed bits,
// Unpack(Pack(x)) == x. Packing a value outside that range is a caller
// error: callers pre-shift values so they fit.
package bitpack

// MinWidth and MaxWidth bound the supported sample bit widths.
const (
	MinWidth = 1
	MaxWidth = 16
)

// Size returns the number of bytes occupied by n packed samples of
// the given width.
func Size(n int, width uint) int {
	return (n*int(width) + 7) / 8
}

// Pack packs src into dst at width bits per sample.
// dst must hold at least Size(len(src), width) bytes.
func Pack(dst []byte, src []int16, width uint) {
	mask := uint32(1)<<width - 1
	var acc uint32
	var nbits uint
	j := 0
	for _, v := range src {
		acc = acc<<width | uint32(uint16(v))&mask
		nbits += width
		for nbits >= 8 {
			nbits -= 8
			dst[j] = byte(acc >> nbits)
			j++
		}
	}
	if nbits > 0 {
		// left-align the residual bits in the final byte
		dst[j] = byte(acc << (8 - nbits))
	}
}

// Unpack unpacks len(dst) samples of the given width from src,
// sign-extending each field from its top bit.
// src must hold at least Size(len(dst), width) bytes.
func Unpack(dst []int16, src []byte, width uint) {
	mask := uint32(1)<<width - 1
	var acc uint32
	var nbits uint
	j := 0
	for i := range dst {
		for nbits < width {
			acc = acc<<8 | uint32(src[j])
			j++
			nbits += 8
		}
		nbits -= width
		v := acc >> nbits & mask
		dst[i] = int16(int32(v<<(32-width)) >> (32 - width))
	}
}
