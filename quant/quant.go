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

// Package quant converts floating-point IQ samples to signed 16-bit
// fixed point and back. Conversion is saturating in both directions;
// out-of-range inputs clip silently instead of wrapping.
package quant

import (
	"math"
)

// Gain is the full-scale gain of the fixed-point representation.
const Gain = 1<<15 - 1

// Quantizer converts between float32 samples and int16 fixed point
// using a configured linear scale factor. The zero value uses a scale
// of zero and is not useful; construct with New.
type Quantizer struct {
	scale float32
}

// New returns a Quantizer with the given linear scale factor applied
// on the float-to-fixed path.
func New(iqScaling float32) Quantizer {
	return Quantizer{scale: iqScaling}
}

// ToFixed converts src to fixed point into dst.
// len(dst) must be at least len(src).
func (q Quantizer) ToFixed(dst []int16, src []float32) {
	for i, x := range src {
		dst[i] = q.fix(x)
	}
}

// ToFixedComplex interleaves src into dst as I,Q pairs in fixed point.
// len(dst) must be at least 2*len(src).
func (q Quantizer) ToFixedComplex(dst []int16, src []complex64) {
	for i, c := range src {
		dst[2*i] = q.fix(real(c))
		dst[2*i+1] = q.fix(imag(c))
	}
}

func (q Quantizer) fix(x float32) int16 {
	v := float64(x) * float64(q.scale) * Gain
	if v > math.MaxInt16 {
		v = math.MaxInt16
	} else if v < math.MinInt16 {
		v = math.MinInt16
	}
	return int16(math.Round(v))
}

// FromFixed converts a widened fixed-point value back to float.
// The caller applies any block exponent by shifting v before the call
// so that the integer part is exact.
func FromFixed(v int32) float32 {
	return float32(v) / Gain
}

// ToFloat undoes quantization of q given the block exponent exp.
func ToFloat(q int16, exp uint8) float32 {
	return FromFixed(int32(q) << exp)
}
